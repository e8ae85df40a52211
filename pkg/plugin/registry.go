package plugin

import (
	"fmt"
	"sync"

	"github.com/justyntemme/picosine/pkg/framework/plugin"
)

var (
	registeredMu sync.RWMutex
	registered   []Plugin
)

// Register adds a plugin to the set exported by the factory. It is meant to be
// called from init and panics on an invalid descriptor or a duplicate id.
func Register(p Plugin) {
	if err := add(p); err != nil {
		panic(err)
	}
}

func add(p Plugin) error {
	if p == nil {
		return fmt.Errorf("register: nil plugin")
	}
	info := p.Info()
	if err := info.Validate(); err != nil {
		return fmt.Errorf("register %q: %w", info.ID, err)
	}

	registeredMu.Lock()
	defer registeredMu.Unlock()

	for _, existing := range registered {
		if existing.Info().ID == info.ID {
			return fmt.Errorf("register: plugin id %q already registered", info.ID)
		}
	}
	registered = append(registered, p)
	return nil
}

// Registered returns the registered plugins in registration order.
func Registered() []Plugin {
	registeredMu.RLock()
	defer registeredMu.RUnlock()

	out := make([]Plugin, len(registered))
	copy(out, registered)
	return out
}

// Descriptors returns the descriptor of every registered plugin.
func Descriptors() []plugin.Info {
	plugins := Registered()
	out := make([]plugin.Info, len(plugins))
	for i, p := range plugins {
		out[i] = p.Info()
	}
	return out
}

// Lookup finds a registered plugin by descriptor id.
func Lookup(id string) (Plugin, bool) {
	registeredMu.RLock()
	defer registeredMu.RUnlock()

	for _, p := range registered {
		if p.Info().ID == id {
			return p, true
		}
	}
	return nil, false
}

// unregisterAll clears the registry; tests only.
func unregisterAll() {
	registeredMu.Lock()
	defer registeredMu.Unlock()
	registered = nil
}
