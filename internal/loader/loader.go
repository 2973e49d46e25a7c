package loader

import (
	"github.com/pkg/errors"
	"github.com/redoonetworks/stork/internal/logger"
	"github.com/redoonetworks/stork/migration"
)

var (
	ErrInvalidDescriptor       = errors.New("invalid migration descriptor")
	ErrDuplicateVersion        = errors.New("duplicate migration version")
	ErrDuplicateImplementation = errors.New("duplicate migration implementation")
	ErrImplementationNotFound  = errors.New("migration implementation not found")
)

// Loaded is an ordered version to migration mapping. Iteration order is
// the order the descriptors were loaded in, which the resolver has
// already arranged per direction of travel.
type Loaded struct {
	order     []uint64
	byVersion map[uint64]migration.Migration
}

func (l *Loaded) Len() int {
	return len(l.order)
}

func (l *Loaded) Versions() []uint64 {
	out := make([]uint64, len(l.order))
	copy(out, l.order)
	return out
}

func (l *Loaded) Get(version uint64) (migration.Migration, bool) {
	m, ok := l.byVersion[version]
	return m, ok
}

// Each visits migrations in load order and stops at the first error,
// returning it unwrapped.
func (l *Loaded) Each(fn func(version uint64, m migration.Migration) error) error {
	for _, v := range l.order {
		if err := fn(v, l.byVersion[v]); err != nil {
			return err
		}
	}

	return nil
}

// Load materializes an ordered descriptor sequence into executable
// migrations. By the time a descriptor reaches the loader it must be well
// formed: a missing digit run is a hard failure here, unlike the silent
// skip during discovery.
func Load(
	descriptors []migration.Descriptor,
	registry *migration.Registry,
	lg logger.Logger,
) (*Loaded, error) {
	loaded := &Loaded{
		byVersion: make(map[uint64]migration.Migration, len(descriptors)),
	}

	boundNames := make(map[string]struct{}, len(descriptors))

	for i := range descriptors {
		order, err := descriptors[i].Order()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidDescriptor, "%s", descriptors[i].Locator)
		}

		if _, ok := loaded.byVersion[order]; ok {
			return nil, errors.Wrapf(ErrDuplicateVersion, "%s", descriptors[i].Version)
		}

		qualifiedName := descriptors[i].QualifiedName()
		if _, ok := boundNames[qualifiedName]; ok {
			return nil, errors.Wrapf(ErrDuplicateImplementation, "%s", qualifiedName)
		}

		factory, ok := registry.Lookup(qualifiedName)
		if !ok {
			return nil, errors.Wrapf(ErrImplementationNotFound, "%s", qualifiedName)
		}

		m := factory(descriptors[i].Prefixed())
		m.SetLogger(lg)

		boundNames[qualifiedName] = struct{}{}
		loaded.order = append(loaded.order, order)
		loaded.byVersion[order] = m
	}

	return loaded, nil
}
