package database

import (
	"context"
)

const DefaultVersionsTable = "migrations"

// Store is the external record of applied versions. The engine reads the
// full list once per invocation, treats that snapshot as authoritative,
// and writes incrementally as migrations execute. Any cross process
// locking is the store's own business, not the engine's.
type Store interface {
	ReadVersions(ctx context.Context) ([]string, error)
	HasSchema(ctx context.Context) (bool, error)
	CreateSchema(ctx context.Context) error
	InsertVersion(ctx context.Context, version string) error
	RemoveVersion(ctx context.Context, version string) error
	Close() error
}
