package cache

import (
	"context"

	repo "github.com/dmitrijs2005/jobswipe/internal/client/repositories/cache"
)

// SQLiteStore persists entries in the local database.
type SQLiteStore struct {
	repo repo.Repository
}

func NewSQLiteStore(r repo.Repository) *SQLiteStore {
	return &SQLiteStore{repo: r}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.repo.Get(ctx, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key string, body []byte) error {
	return s.repo.Put(ctx, key, body)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	return s.repo.DeletePrefix(ctx, Namespace)
}
