package strategy

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a strategy instance with the given betting unit.
type Factory func(unit int64) (Strategy, error)

// Registry manages strategy registration and lookup by name.
// It is safe for concurrent use, so independent simulations can
// resolve strategies in parallel.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a strategy factory under the given name.
// An existing factory with the same name is replaced.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("strategy name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("cannot register nil factory for %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	return nil
}

// Get retrieves a factory by strategy name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered strategy names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered strategies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.factories)
}

// DefaultRegistry is the registry the built-in strategies register
// with and that New resolves from.
var DefaultRegistry = NewRegistry()

func init() {
	mustRegister(NameFlatPass, func(unit int64) (Strategy, error) {
		return NewFlatPass(unit)
	})
	mustRegister(NameFlatField, func(unit int64) (Strategy, error) {
		return NewFlatField(unit)
	})
	mustRegister(NameMartingale, func(unit int64) (Strategy, error) {
		return NewMartingale(unit)
	})
	mustRegister(NameNoBet, func(unit int64) (Strategy, error) {
		return NewNoBet(), nil
	})
}

func mustRegister(name string, factory Factory) {
	if err := DefaultRegistry.Register(name, factory); err != nil {
		panic(err)
	}
}
