package stork

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/redoonetworks/stork/internal/database"
	"github.com/redoonetworks/stork/internal/logger"
	"github.com/redoonetworks/stork/migration"
)

type OptionFunc func(*Migrator) error

type (
	sqlStoreConfig struct {
		versionsTable string
	}

	SQLStoreConfigurator func(cfg *sqlStoreConfig)
)

func WithVersionsTable(table string) SQLStoreConfigurator {
	return func(cfg *sqlStoreConfig) {
		cfg.versionsTable = table
	}
}

func UseColorLogger(p logger.Printer, printSQL, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewColorLogger(p, printSQL, printDebug)
		return nil
	}
}

func UseBWLogger(p logger.Printer, printSQL, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.NewBWLogger(p, printSQL, printDebug)
		return nil
	}
}

// UseCollection appends a descriptor collection. Collections keep their
// own module and version prefix options and are concatenated in the
// order they were added.
func UseCollection(c *Collection) OptionFunc {
	return func(m *Migrator) error {
		m.collections = append(m.collections, c)
		return nil
	}
}

// UseRegistry swaps the default constructor registry for an explicit one.
func UseRegistry(r *migration.Registry) OptionFunc {
	return func(m *Migrator) error {
		m.registry = r
		return nil
	}
}

func UseInMemoryStore() OptionFunc {
	return func(m *Migrator) error {
		m.store = database.NewInMemoryStore()
		return nil
	}
}

func UseMySQL(db *sql.DB, configurators ...SQLStoreConfigurator) OptionFunc {
	return useSQLStore(db, "mysql", database.MySQLDialect{}, configurators)
}

func UseSqlite(db *sql.DB, configurators ...SQLStoreConfigurator) OptionFunc {
	return useSQLStore(db, "sqlite3", database.SqliteDialect{}, configurators)
}

func UsePostgres(db *sql.DB, configurators ...SQLStoreConfigurator) OptionFunc {
	return useSQLStore(db, "pgx", database.PostgresDialect{}, configurators)
}

func useSQLStore(
	db *sql.DB,
	driverName string,
	dialect database.Dialect,
	configurators []SQLStoreConfigurator,
) OptionFunc {
	return func(m *Migrator) error {
		cfg := &sqlStoreConfig{versionsTable: database.DefaultVersionsTable}
		for _, c := range configurators {
			c(cfg)
		}

		m.store = database.NewSQLStore(sqlx.NewDb(db, driverName), dialect, cfg.versionsTable)
		return nil
	}
}
