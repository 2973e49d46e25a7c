package database

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_InMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	t.Run("schema must exist before reads and writes", func(t *testing.T) {
		_, err := store.ReadVersions(ctx)
		assert.True(t, errors.Is(err, ErrSchemaNotCreated))

		err = store.InsertVersion(ctx, "001")
		assert.True(t, errors.Is(err, ErrSchemaNotCreated))
	})

	t.Run("create schema is idempotent", func(t *testing.T) {
		require.NoError(t, store.CreateSchema(ctx))
		require.NoError(t, store.CreateSchema(ctx))

		ok, err := store.HasSchema(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("insert, read, remove", func(t *testing.T) {
		require.NoError(t, store.InsertVersion(ctx, "001"))
		require.NoError(t, store.InsertVersion(ctx, "002"))

		versions, err := store.ReadVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"001", "002"}, versions)

		require.NoError(t, store.RemoveVersion(ctx, "002"))

		versions, err = store.ReadVersions(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"001"}, versions)
	})

	t.Run("removing an unknown version is a no-op", func(t *testing.T) {
		require.NoError(t, store.RemoveVersion(ctx, "999"))
	})
}
