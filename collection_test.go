package stork

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("package migrations\n"), 0644))
	}
}

func Test_Collection_AddDirectory(t *testing.T) {
	t.Run("collects migration files, ignores the rest", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir,
			"001_create_users.go",
			"002_add_email.go",
			"002_add_email_test.go",
			"helpers.go",
			"readme.txt",
		)
		require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0755))

		c := NewCollection()
		require.NoError(t, c.AddDirectory(dir))

		ds := c.Descriptors()
		require.Len(t, ds, 2)
		assert.Equal(t, "001", ds[0].Version)
		assert.Equal(t, "CreateUsers", ds[0].Name)
		assert.Equal(t, "002", ds[1].Version)
		assert.Equal(t, "AddEmail", ds[1].Name)
	})

	t.Run("missing path", func(t *testing.T) {
		c := NewCollection()
		err := c.AddDirectory(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.Is(err, ErrInvalidSource))
	})

	t.Run("path is a file", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "001_create_users.go")

		c := NewCollection()
		err := c.AddDirectory(filepath.Join(dir, "001_create_users.go"))
		assert.True(t, errors.Is(err, ErrInvalidSource))
	})
}

func Test_Collection_AddSource(t *testing.T) {
	c := NewCollection(WithModule("billing"), WithVersionPrefix("v"))
	c.AddSource("001_create_accounts.go", "notes.md", "002_create_invoices.go")

	ds := c.Descriptors()
	require.Len(t, ds, 2)

	assert.Equal(t, "billing.CreateAccounts", ds[0].QualifiedName())
	assert.Equal(t, "v001", ds[0].Prefixed())
	assert.Equal(t, "billing.CreateInvoices", ds[1].QualifiedName())
	assert.Equal(t, "v002", ds[1].Prefixed())
}

func Test_Collection_Defaults(t *testing.T) {
	c := NewCollection()
	c.AddSource("001_create_users.go")

	ds := c.Descriptors()
	require.Len(t, ds, 1)
	assert.Equal(t, "root.CreateUsers", ds[0].QualifiedName())
	assert.Equal(t, "001", ds[0].Prefixed())

	// an empty module name falls back to the default
	c2 := NewCollection(WithModule(""))
	c2.AddSource("001_create_users.go")
	assert.Equal(t, "root.CreateUsers", c2.Descriptors()[0].QualifiedName())
}
