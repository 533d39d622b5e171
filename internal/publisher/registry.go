package publisher

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps publisher names to factories.
// Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register makes a factory available under name.
// Panics if name is empty, f is nil, or name is already registered,
// since all three are programming errors in an init function.
func (r *Registry) Register(name string, f Factory) {
	if name == "" {
		panic("publisher: Register with empty name")
	}
	if f == nil {
		panic("publisher: Register factory is nil for " + name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.factories[name]; dup {
		panic("publisher: Register called twice for " + name)
	}
	r.factories[name] = f
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPublisher, name)
	}
	return f, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by Register and Lookup.
func Default() *Registry {
	return defaultRegistry
}

// Register registers f in the default registry.
func Register(name string, f Factory) {
	defaultRegistry.Register(name, f)
}

// Lookup finds name in the default registry.
func Lookup(name string) (Factory, error) {
	return defaultRegistry.Lookup(name)
}

// Names lists the default registry.
func Names() []string {
	return defaultRegistry.Names()
}
