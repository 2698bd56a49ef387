// Package cache holds read-response caches used by the HTTP client layer.
//
// Entries never expire: they are overwritten by a newer successful response
// for the same key or removed explicitly (Delete, Clear). Three backends are
// provided:
//
//   - SQLiteStore: durable, survives restarts (default);
//   - RedisStore: durable, one Redis can serve many users since keys are
//     partitioned per user scope;
//   - MemoryStore: process-lifetime only, used for session-scoped data.
package cache

import (
	"context"
	"encoding/json"
)

// Namespace prefixes every persistent response-cache key.
const Namespace = "api_cache_"

// Store is a key → raw body cache. Implementations are safe for concurrent
// use; concurrent writes to one key are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
	// Clear drops every entry of the store's namespace.
	Clear(ctx context.Context) error
}

// Key derives the cache key of a read request from its path and query
// parameters: api_cache_<path>_<params as JSON>, with "{}" when there are no
// parameters. encoding/json sorts map keys, so the key is deterministic.
func Key(path string, params map[string]string) string {
	if len(params) == 0 {
		return Namespace + path + "_{}"
	}
	b, err := json.Marshal(params)
	if err != nil {
		// map[string]string always marshals
		panic(err)
	}
	return Namespace + path + "_" + string(b)
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
