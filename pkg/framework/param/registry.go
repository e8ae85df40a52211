package param

import (
	"fmt"
	"sync"
)

// Registry manages plugin parameters
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32 // Maintain order for indexed access
	mu     sync.RWMutex
}

// NewRegistry creates a new parameter registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[uint32]*Parameter),
		order:  make([]uint32, 0),
	}
}

// Add registers parameters in order. A duplicate id is an error and nothing after
// it is added.
func (r *Registry) Add(params ...*Parameter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range params {
		if p == nil {
			return fmt.Errorf("nil parameter")
		}
		if existing, exists := r.params[p.ID]; exists {
			return fmt.Errorf("parameter id %d already registered as %q", p.ID, existing.Name)
		}
		if p.Max < p.Min {
			return fmt.Errorf("parameter %q: max %g below min %g", p.Name, p.Max, p.Min)
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return nil
}

// MustAdd is Add that panics on error, for static plugin setup.
func (r *Registry) MustAdd(params ...*Parameter) {
	if err := r.Add(params...); err != nil {
		panic(err)
	}
}

// Get retrieves a parameter by ID
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.params[id]
}

// GetByIndex retrieves a parameter by index
func (r *Registry) GetByIndex(index uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= uint32(len(r.order)) {
		return nil
	}

	return r.params[r.order[index]]
}

// Count returns the number of parameters
func (r *Registry) Count() uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return uint32(len(r.order))
}

// All returns all parameters in order
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		result[i] = r.params[id]
	}

	return result
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	for _, p := range r.All() {
		p.Reset()
	}
}
