package migration

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopMigration struct {
	Base
}

func (noopMigration) Up(_ context.Context) error   { return nil }
func (noopMigration) Down(_ context.Context) error { return nil }

func Test_Registry(t *testing.T) {
	r := NewRegistry()

	factory := func(version string) Migration {
		return &noopMigration{Base: NewBase(version)}
	}

	require.NoError(t, r.Add("root.CreateUsers", factory))
	assert.Equal(t, 1, r.Len())

	t.Run("duplicate name is rejected", func(t *testing.T) {
		err := r.Add("root.CreateUsers", factory)
		assert.True(t, errors.Is(err, ErrAlreadyRegistered))
	})

	t.Run("lookup returns the constructor", func(t *testing.T) {
		f, ok := r.Lookup("root.CreateUsers")
		require.True(t, ok)

		m := f("v001")
		assert.Equal(t, "v001", m.Version())
	})

	t.Run("unknown name", func(t *testing.T) {
		_, ok := r.Lookup("root.Unknown")
		assert.False(t, ok)
	})
}
