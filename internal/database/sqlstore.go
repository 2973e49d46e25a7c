package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redoonetworks/stork/internal/logger"
	"github.com/redoonetworks/stork/internal/retry"
)

const (
	DefaultConnectAttempts = 5
	DefaultConnectStep     = 200 * time.Millisecond
)

// Dialect supplies the driver specific SQL the store runs. The versions
// table name is interpolated by the dialect because identifiers cannot
// be bound; the table existence check binds the name as a value.
type Dialect interface {
	CreateVersionsTable(table string) string
	TableExistsQuery() string
	SelectVersions(table string) string
	InsertVersion(table string) string
	RemoveVersion(table string) string
}

// SQLStore keeps applied versions in a single table reachable through
// database/sql, with sqlx on top for scanning.
type SQLStore struct {
	db      *sqlx.DB
	dialect Dialect
	table   string
	lg      logger.Logger
}

func NewSQLStore(db *sqlx.DB, dialect Dialect, table string) *SQLStore {
	if table == "" {
		table = DefaultVersionsTable
	}

	return &SQLStore{
		db:      db,
		dialect: dialect,
		table:   table,
		lg:      &logger.NullLogger{},
	}
}

func (s *SQLStore) SetLogger(lg logger.Logger) {
	s.lg = lg
}

// Connect pings the database, retrying with a growing pause while the
// server comes up.
func (s *SQLStore) Connect(ctx context.Context) error {
	return retry.Incremental(ctx, DefaultConnectStep, DefaultConnectAttempts, func(attempt int) error {
		if err := s.db.PingContext(ctx); err != nil {
			s.lg.Debugf("connection attempt %d failed: %s", attempt, err.Error())
			return retry.Error(err, attempt)
		}

		return nil
	})
}

func (s *SQLStore) ReadVersions(ctx context.Context) ([]string, error) {
	q := s.dialect.SelectVersions(s.table)
	s.lg.SQL(q)

	var versions []string
	if err := s.db.SelectContext(ctx, &versions, q); err != nil {
		return nil, errors.Wrapf(err, "could not read versions from table %s", s.table)
	}

	return versions, nil
}

func (s *SQLStore) HasSchema(ctx context.Context) (bool, error) {
	q := s.dialect.TableExistsQuery()
	s.lg.SQL(q, s.table)

	var name string
	err := s.db.QueryRowContext(ctx, q, s.table).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}

		return false, errors.Wrapf(err, "could not check for table %s", s.table)
	}

	return true, nil
}

func (s *SQLStore) CreateSchema(ctx context.Context) error {
	q := s.dialect.CreateVersionsTable(s.table)
	s.lg.SQL(q)

	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return errors.Wrapf(err, "could not create versions table %s", s.table)
	}

	return nil
}

func (s *SQLStore) InsertVersion(ctx context.Context, version string) error {
	q := s.dialect.InsertVersion(s.table)
	s.lg.SQL(q, version)

	if _, err := s.db.ExecContext(ctx, q, version); err != nil {
		return errors.Wrapf(err, "could not insert version %s", version)
	}

	return nil
}

func (s *SQLStore) RemoveVersion(ctx context.Context, version string) error {
	q := s.dialect.RemoveVersion(s.table)
	s.lg.SQL(q, version)

	if _, err := s.db.ExecContext(ctx, q, version); err != nil {
		return errors.Wrapf(err, "could not remove version %s", version)
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
