// Package cache persists raw response bodies of read requests in the local
// SQLite database.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobswipe/internal/dbx"
)

type Repository interface {
	// Get reports found=false when no row exists for key.
	Get(ctx context.Context, key string) (body []byte, found bool, err error)
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	err := r.db.QueryRowContext(ctx, `SELECT body FROM response_cache WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache[%s]: %w", key, err)
	}
	return body, true, nil
}

func (r *SQLiteRepository) Put(ctx context.Context, key string, body []byte) error {
	if body == nil {
		body = []byte{}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO response_cache (key, body, stored_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, stored_at = excluded.stored_at
	`, key, body)
	if err != nil {
		return fmt.Errorf("failed to put cache[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM response_cache WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete cache[%s]: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every row whose key starts with prefix. LIKE wildcards
// inside prefix are escaped.
func (r *SQLiteRepository) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := escapeLike(prefix) + "%"
	if _, err := r.db.ExecContext(ctx, `DELETE FROM response_cache WHERE key LIKE ? ESCAPE '\'`, pattern); err != nil {
		return fmt.Errorf("failed to delete cache prefix %q: %w", prefix, err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
