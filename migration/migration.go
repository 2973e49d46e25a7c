package migration

import (
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/redoonetworks/stork/internal/logger"
)

var ErrNotAMigration = errors.New("not a migration locator")
var ErrInvalidStoredVersion = errors.New("invalid stored version")

// DefaultModule is assigned to descriptors whose collection
// did not specify a module name.
const DefaultModule = "root"

// A migration locator base name is a leading digit run, an optional
// underscored name and an optional extension, e.g. 1596897167_create_users.go
var locatorRegexp = regexp.MustCompile(`^(\d+)(_[^.]+)?(\.\w+)?$`)

var trailingDigitsRegexp = regexp.MustCompile(`(\d+)$`)

// Descriptor is the metadata of one discoverable migration before
// it is instantiated: where it came from, the version encoded in its
// name and the collection options it was discovered under.
type Descriptor struct {
	Locator       string
	Version       string
	Name          string
	Module        string
	VersionPrefix string
}

// Prefixed returns the stored form of the version, VersionPrefix + Version.
func (d Descriptor) Prefixed() string {
	return d.VersionPrefix + d.Version
}

// QualifiedName identifies the implementation bound to this descriptor
// in the constructor registry.
func (d Descriptor) QualifiedName() string {
	return d.Module + "." + d.Name
}

// Order is the numeric form of the version, the only value
// migrations are compared and sorted by. The prefix never participates
// in ordering.
func (d Descriptor) Order() (uint64, error) {
	if d.Version == "" {
		return 0, errors.Wrapf(ErrNotAMigration, "%s", d.Locator)
	}

	return strconv.ParseUint(d.Version, 10, 64)
}

// ParseLocator builds a descriptor from a locator and the options of the
// collection it belongs to. Locators whose base name does not start with
// a digit run fail with ErrNotAMigration.
func ParseLocator(locator, module, versionPrefix string) (Descriptor, error) {
	base := filepath.Base(locator)

	matches := locatorRegexp.FindStringSubmatch(base)
	if matches == nil {
		return Descriptor{}, errors.Wrapf(ErrNotAMigration, "%s", base)
	}

	if module == "" {
		module = DefaultModule
	}

	return Descriptor{
		Locator:       locator,
		Version:       matches[1],
		Name:          CanonicalName(strings.TrimPrefix(matches[2], "_")),
		Module:        module,
		VersionPrefix: versionPrefix,
	}, nil
}

// CanonicalName turns an underscore delimited migration name into the
// identifier its implementation is registered under:
// create_users_table becomes CreateUsersTable.
func CanonicalName(name string) string {
	segments := strings.Split(name, "_")

	var b strings.Builder
	for i := range segments {
		if segments[i] == "" {
			continue
		}

		b.WriteString(strings.ToUpper(segments[i][:1]))
		b.WriteString(segments[i][1:])
	}

	return b.String()
}

// StoredOrder extracts the numeric ordering key from a stored, possibly
// prefixed version identifier by taking its trailing digit run.
func StoredOrder(stored string) (uint64, error) {
	matches := trailingDigitsRegexp.FindStringSubmatch(stored)
	if matches == nil {
		return 0, errors.Wrapf(ErrInvalidStoredVersion, "%s", stored)
	}

	return strconv.ParseUint(matches[1], 10, 64)
}

// Migration is the executable unit the loader produces. Implementations
// perform the actual schema change; recording the version as applied is
// the orchestrator's job.
type Migration interface {
	Version() string
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	SetLogger(lg logger.Logger)
}

// Factory creates a migration bound to its prefixed version string.
type Factory func(version string) Migration

// Base carries the identity and output sink common to every migration.
// Implementations embed it and add Up and Down.
type Base struct {
	version string
	lg      logger.Logger
}

func NewBase(version string) Base {
	return Base{
		version: version,
		lg:      &logger.NullLogger{},
	}
}

func (b *Base) Version() string {
	return b.version
}

func (b *Base) SetLogger(lg logger.Logger) {
	b.lg = lg
}

func (b *Base) Logger() logger.Logger {
	return b.lg
}
