package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const anonScope = "anon"

// Scope names the owner of the entries being read or written, usually
// derived from the signed-in user. "" is the anonymous scope.
type Scope func() string

// TokenScope derives a scope from a bearer token without exposing it.
func TokenScope(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// RedisStore keeps entries in Redis under prefix, partitioned by scope:
// prefix + scope + ":" + key. Entries are written without expiry.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	scope  Scope

	mu sync.Mutex
	// touched are the scopes used since the last Clear.
	touched map[string]struct{}
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// NewRedisStore returns a store whose keys live under prefix. A nil scope puts
// every entry in the anonymous scope.
func NewRedisStore(rdb redis.UniversalClient, prefix string, scope Scope) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, scope: scope, touched: make(map[string]struct{})}
}

func (s *RedisStore) k(key string) string {
	sc := anonScope
	if s.scope != nil {
		if v := s.scope(); v != "" {
			sc = v
		}
	}
	s.mu.Lock()
	s.touched[sc] = struct{}{}
	s.mu.Unlock()
	return s.scopePrefix(sc) + key
}

func (s *RedisStore) scopePrefix(scope string) string {
	return s.prefix + scope + ":"
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, s.k(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, body []byte) error {
	if err := s.rdb.Set(ctx, s.k(key), clone(body), 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.k(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Clear unlinks the namespace entries of every scope this store has used
// since the last Clear. Entries of other clients sharing the prefix are left
// alone.
func (s *RedisStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	scopes := make([]string, 0, len(s.touched))
	for sc := range s.touched {
		scopes = append(scopes, sc)
	}
	s.touched = make(map[string]struct{})
	s.mu.Unlock()

	for _, sc := range scopes {
		if err := s.unlinkMatching(ctx, s.scopePrefix(sc)+Namespace+"*"); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) unlinkMatching(ctx context.Context, pattern string) error {
	iter := s.rdb.Scan(ctx, 0, pattern, 200).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := s.rdb.Unlink(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis unlink: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := s.rdb.Unlink(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis unlink: %w", err)
		}
	}
	return nil
}
