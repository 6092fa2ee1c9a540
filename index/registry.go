package index

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates an unbuilt adapter.
type Factory func(opts Options) (Adapter, error)

var registry = struct {
	sync.RWMutex
	factories map[string]Factory
}{factories: make(map[string]Factory)}

// Register makes a backend available by name. It panics when name is empty,
// factory is nil, or name is already taken.
func Register(name string, factory Factory) {
	if name == "" || factory == nil {
		panic("index: Register called with empty name or nil factory")
	}
	registry.Lock()
	defer registry.Unlock()
	if _, dup := registry.factories[name]; dup {
		panic("index: Register called twice for backend " + name)
	}
	registry.factories[name] = factory
}

// New creates an unbuilt adapter for the named backend.
func New(name string, opts Options) (Adapter, error) {
	registry.RLock()
	factory, ok := registry.factories[name]
	registry.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Names())
	}
	return factory(opts)
}

// Names lists registered backends in sorted order.
func Names() []string {
	registry.RLock()
	defer registry.RUnlock()
	names := make([]string, 0, len(registry.factories))
	for name := range registry.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registered reports whether name is a known backend.
func Registered(name string) bool {
	registry.RLock()
	defer registry.RUnlock()
	_, ok := registry.factories[name]
	return ok
}
