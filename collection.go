package stork

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/redoonetworks/stork/migration"
)

var ErrInvalidSource = errors.New("invalid migration source")

type CollectionOption func(*Collection)

// Collection aggregates migration locators from explicit lists and
// directory scans into descriptors annotated with the collection's
// options. It performs no dedup: overlapping collections are caught by
// the loader, per batch, as duplicate versions or implementations.
type Collection struct {
	module        string
	versionPrefix string
	locators      []string
}

func NewCollection(opts ...CollectionOption) *Collection {
	c := &Collection{
		module: migration.DefaultModule,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func WithModule(name string) CollectionOption {
	return func(c *Collection) {
		if name != "" {
			c.module = name
		}
	}
}

func WithVersionPrefix(prefix string) CollectionOption {
	return func(c *Collection) {
		c.versionPrefix = prefix
	}
}

// AddSource appends explicit locators as is.
func (c *Collection) AddSource(locators ...string) {
	c.locators = append(c.locators, locators...)
}

// AddDirectory appends every migration file directly inside path,
// non recursive. Only *.go files count, test files excluded; anything
// else living in a migrations directory is none of our business.
func (c *Collection) AddDirectory(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(ErrInvalidSource, "%s", path)
	}

	if !info.IsDir() {
		return errors.Wrapf(ErrInvalidSource, "%s is not a directory", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return errors.Wrapf(ErrInvalidSource, "%s is not readable", path)
	}

	for i := range entries {
		if entries[i].IsDir() {
			continue
		}

		name := entries[i].Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}

		c.locators = append(c.locators, filepath.Join(path, name))
	}

	return nil
}

// Descriptors annotates every stored locator with the collection options.
// Locators without a leading digit run are silently skipped: migration
// directories legitimately contain supporting files.
func (c *Collection) Descriptors() []migration.Descriptor {
	var out []migration.Descriptor

	for i := range c.locators {
		d, err := migration.ParseLocator(c.locators[i], c.module, c.versionPrefix)
		if err != nil {
			continue
		}

		out = append(out, d)
	}

	return out
}
