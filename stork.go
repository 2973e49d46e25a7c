package stork

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redoonetworks/stork/internal/database"
	"github.com/redoonetworks/stork/internal/loader"
	"github.com/redoonetworks/stork/internal/logger"
	"github.com/redoonetworks/stork/internal/resolve"
	"github.com/redoonetworks/stork/migration"
)

var ErrMissingStore = errors.New("no version store configured")
var ErrInvalidVersion = errors.New("invalid target version")

type CloserFunc func() error

// Migrator drives registered migrations up and down against a version
// store. It is synchronous and sequential: one migration at a time, each
// depending on the side effects of the previous one. A failure inside a
// running migration propagates immediately and leaves the store
// partially migrated; rolling back unknown side effects automatically
// would be worse than stopping.
type Migrator struct {
	lg          logger.Logger
	store       database.Store
	registry    *migration.Registry
	collections []*Collection
	closerFns   []CloserFunc
}

// NewMigrator assembles a migrator from option callbacks. A version
// store is mandatory; the registry defaults to the package level one
// that migration files register themselves into.
func NewMigrator(opts ...OptionFunc) (*Migrator, CloserFunc, error) {
	m := new(Migrator)
	m.lg = &logger.NullLogger{}
	m.registry = migration.DefaultRegistry()

	for _, oFunc := range opts {
		if err := oFunc(m); err != nil {
			return nil, nil, err
		}
	}

	if m.store == nil {
		return nil, nil, ErrMissingStore
	}

	// the logger option may come in any position
	if s, ok := m.store.(interface{ SetLogger(lg logger.Logger) }); ok {
		s.SetLogger(m.lg)
	}

	return m, m.close, nil
}

// Connect verifies the version store is reachable before any
// resolution starts. Stores that need no connection are a no-op.
func (m *Migrator) Connect(ctx context.Context) error {
	if s, ok := m.store.(interface{ Connect(ctx context.Context) error }); ok {
		return s.Connect(ctx)
	}

	return nil
}

// Up migrates forward to the target version, or all the way when no
// target is given. Unapplied versions below the current one are picked
// up too: forward migrations are idempotent by skip.
func (m *Migrator) Up(ctx context.Context, cfs ...ActionConfigurator) ([]string, error) {
	act := new(action)
	for _, f := range cfs {
		f(act)
	}

	to, err := forwardTarget(act)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	if err := m.ensureSchema(ctx); err != nil {
		m.lg.Error(err)
		return nil, err
	}

	applied, err := m.store.ReadVersions(ctx)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	from, err := maxOrder(applied)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	pending, direction := resolve.Pending(m.descriptors(), applied, from, to)
	if direction == resolve.Backward {
		m.lg.Debugf("target %d is below current version %d, nothing to migrate", *act.target, from)
		return nil, nil
	}

	loaded, err := loader.Load(pending, m.registry, m.lg)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	var migrated []string
	execErr := loaded.Each(func(version uint64, mg migration.Migration) error {
		m.lg.Debugf("migrating version %s", mg.Version())

		if err := mg.Up(ctx); err != nil {
			return err
		}

		if err := m.store.InsertVersion(ctx, mg.Version()); err != nil {
			return err
		}

		m.lg.Successf("migrated version %s", mg.Version())
		migrated = append(migrated, mg.Version())
		return nil
	})

	if execErr != nil {
		m.lg.Error(execErr)
		return migrated, execErr
	}

	return migrated, nil
}

// Down reverts applied migrations above the target version, default 0,
// in descending order. Only versions actually recorded in the store are
// ever reverted.
func (m *Migrator) Down(ctx context.Context, cfs ...ActionConfigurator) ([]string, error) {
	act := new(action)
	for _, f := range cfs {
		f(act)
	}

	to, err := backwardTarget(act)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	if err := m.ensureSchema(ctx); err != nil {
		m.lg.Error(err)
		return nil, err
	}

	applied, err := m.store.ReadVersions(ctx)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	from, err := maxOrder(applied)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	pending, direction := resolve.Pending(m.descriptors(), applied, from, &to)
	if direction == resolve.Forward {
		// target at or above current version, nothing to revert
		return nil, nil
	}

	loaded, err := loader.Load(pending, m.registry, m.lg)
	if err != nil {
		m.lg.Error(err)
		return nil, err
	}

	var reverted []string
	execErr := loaded.Each(func(version uint64, mg migration.Migration) error {
		m.lg.Debugf("rolling back version %s", mg.Version())

		if err := mg.Down(ctx); err != nil {
			return err
		}

		if err := m.store.RemoveVersion(ctx, mg.Version()); err != nil {
			return err
		}

		m.lg.Successf("rolled back version %s", mg.Version())
		reverted = append(reverted, mg.Version())
		return nil
	})

	if execErr != nil {
		m.lg.Error(execErr)
		return reverted, execErr
	}

	return reverted, nil
}

// CurrentVersion returns the numeric maximum of the applied versions,
// zero when nothing has been applied yet.
func (m *Migrator) CurrentVersion(ctx context.Context) (uint64, error) {
	if err := m.ensureSchema(ctx); err != nil {
		return 0, err
	}

	applied, err := m.store.ReadVersions(ctx)
	if err != nil {
		return 0, err
	}

	return maxOrder(applied)
}

func (m *Migrator) ensureSchema(ctx context.Context) error {
	ok, err := m.store.HasSchema(ctx)
	if err != nil {
		return err
	}

	if !ok {
		return m.store.CreateSchema(ctx)
	}

	return nil
}

func (m *Migrator) descriptors() []migration.Descriptor {
	var out []migration.Descriptor
	for i := range m.collections {
		out = append(out, m.collections[i].Descriptors()...)
	}

	return out
}

func (m *Migrator) close() error {
	var firstErr error
	for _, fn := range m.closerFns {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if m.store != nil {
		if err := m.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

func forwardTarget(act *action) (*uint64, error) {
	if act.target == nil {
		return nil, nil
	}

	if *act.target < 0 {
		return nil, errors.Wrapf(ErrInvalidVersion, "%d", *act.target)
	}

	to := uint64(*act.target)
	return &to, nil
}

func backwardTarget(act *action) (uint64, error) {
	if act.target == nil {
		return 0, nil
	}

	if *act.target < 0 {
		return 0, errors.Wrapf(ErrInvalidVersion, "%d", *act.target)
	}

	return uint64(*act.target), nil
}

func maxOrder(applied []string) (uint64, error) {
	var max uint64

	for i := range applied {
		order, err := migration.StoredOrder(applied[i])
		if err != nil {
			return 0, err
		}

		if order > max {
			max = order
		}
	}

	return max, nil
}
