package database

import (
	"context"

	"github.com/pkg/errors"
)

var ErrSchemaNotCreated = errors.New("version store schema has not been created")

// InMemoryStore keeps applied versions in memory. Useful for tests and
// for dry runs against a store that never persists.
type InMemoryStore struct {
	schema   bool
	versions []string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) ReadVersions(_ context.Context) ([]string, error) {
	if !s.schema {
		return nil, ErrSchemaNotCreated
	}

	out := make([]string, len(s.versions))
	copy(out, s.versions)
	return out, nil
}

func (s *InMemoryStore) HasSchema(_ context.Context) (bool, error) {
	return s.schema, nil
}

func (s *InMemoryStore) CreateSchema(_ context.Context) error {
	s.schema = true
	return nil
}

func (s *InMemoryStore) InsertVersion(_ context.Context, version string) error {
	if !s.schema {
		return ErrSchemaNotCreated
	}

	s.versions = append(s.versions, version)
	return nil
}

func (s *InMemoryStore) RemoveVersion(_ context.Context, version string) error {
	if !s.schema {
		return ErrSchemaNotCreated
	}

	for i := range s.versions {
		if s.versions[i] == version {
			s.versions = append(s.versions[:i], s.versions[i+1:]...)
			return nil
		}
	}

	return nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

var _ Store = (*InMemoryStore)(nil)
