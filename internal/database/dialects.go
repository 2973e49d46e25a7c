package database

import "fmt"

type MySQLDialect struct{}

func (MySQLDialect) CreateVersionsTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version VARCHAR(32) PRIMARY KEY,
	migrated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) ENGINE=INNODB`, table)
}

func (MySQLDialect) TableExistsQuery() string {
	return `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`
}

func (MySQLDialect) SelectVersions(table string) string {
	return fmt.Sprintf(`SELECT version FROM %s`, table)
}

func (MySQLDialect) InsertVersion(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (version) VALUES (?)`, table)
}

func (MySQLDialect) RemoveVersion(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE version = ?`, table)
}

type SqliteDialect struct{}

func (SqliteDialect) CreateVersionsTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version TEXT PRIMARY KEY,
	migrated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, table)
}

func (SqliteDialect) TableExistsQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`
}

func (SqliteDialect) SelectVersions(table string) string {
	return fmt.Sprintf(`SELECT version FROM %s`, table)
}

func (SqliteDialect) InsertVersion(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (version) VALUES (?)`, table)
}

func (SqliteDialect) RemoveVersion(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE version = ?`, table)
}

type PostgresDialect struct{}

func (PostgresDialect) CreateVersionsTable(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	version VARCHAR(32) PRIMARY KEY,
	migrated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, table)
}

func (PostgresDialect) TableExistsQuery() string {
	return `SELECT tablename FROM pg_tables WHERE tablename = $1`
}

func (PostgresDialect) SelectVersions(table string) string {
	return fmt.Sprintf(`SELECT version FROM %s`, table)
}

func (PostgresDialect) InsertVersion(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (version) VALUES ($1)`, table)
}

func (PostgresDialect) RemoveVersion(table string) string {
	return fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, table)
}

var _ Dialect = MySQLDialect{}
var _ Dialect = SqliteDialect{}
var _ Dialect = PostgresDialect{}
