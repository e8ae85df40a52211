package plugin

import "sync"

// Handle is an opaque reference to an Instance that can be stored in C memory.
// C code never holds Go pointers; it passes the handle back and Go looks the
// instance up.
type Handle uintptr

var (
	instances   = make(map[Handle]*Instance)
	instancesMu sync.RWMutex
	nextHandle  Handle = 1
)

// Track registers an instance and returns its handle.
func Track(inst *Instance) Handle {
	instancesMu.Lock()
	defer instancesMu.Unlock()

	h := nextHandle
	nextHandle++
	instances[h] = inst
	return h
}

// Resolve returns the instance for h, or nil when h is unknown or released.
func Resolve(h Handle) *Instance {
	if h == 0 {
		return nil
	}

	instancesMu.RLock()
	defer instancesMu.RUnlock()
	return instances[h]
}

// Release forgets h. The instance itself is not destroyed.
func Release(h Handle) {
	instancesMu.Lock()
	defer instancesMu.Unlock()
	delete(instances, h)
}

// Tracked returns the number of live handles.
func Tracked() int {
	instancesMu.RLock()
	defer instancesMu.RUnlock()
	return len(instances)
}
