package migration

import (
	"github.com/pkg/errors"
)

var ErrAlreadyRegistered = errors.New("migration already registered")

// Registry maps qualified migration names to their constructors.
// It replaces resolving implementation types by runtime name lookup:
// every implementation registers itself once at startup.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) Add(qualifiedName string, f Factory) error {
	if _, ok := r.factories[qualifiedName]; ok {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", qualifiedName)
	}

	r.factories[qualifiedName] = f
	return nil
}

func (r *Registry) Lookup(qualifiedName string) (Factory, bool) {
	f, ok := r.factories[qualifiedName]
	return f, ok
}

func (r *Registry) Len() int {
	return len(r.factories)
}

var defaultRegistry = NewRegistry()

// Register adds a constructor to the default registry, panicking on a
// duplicate name. It is meant to be called from the init function of
// each migration file, like database/sql drivers register themselves.
func Register(qualifiedName string, f Factory) {
	if err := defaultRegistry.Add(qualifiedName, f); err != nil {
		panic(err)
	}
}

func DefaultRegistry() *Registry {
	return defaultRegistry
}
