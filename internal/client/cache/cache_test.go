package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/jobswipe/internal/client/storage"
	repo "github.com/dmitrijs2005/jobswipe/internal/client/repositories/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		params map[string]string
		want   string
	}{
		{"no params", "/jobs/feed", nil, "api_cache_/jobs/feed_{}"},
		{"empty params", "/bookmarks", map[string]string{}, "api_cache_/bookmarks_{}"},
		{"one param", "/applications", map[string]string{"status": "pending"}, `api_cache_/applications_{"status":"pending"}`},
		{"sorted", "/x", map[string]string{"b": "2", "a": "1"}, `api_cache_/x_{"a":"1","b":"2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Key(tt.path, tt.params))
		})
	}
}

func newSQLiteStore(t *testing.T) (*SQLiteStore, *sql.DB) {
	t.Helper()
	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteStore(repo.NewSQLiteRepository(db)), db
}

// exerciseStore runs the contract every backend must satisfy.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	k1 := Key("/jobs/feed", nil)
	k2 := Key("/applications", map[string]string{"status": "pending"})

	_, ok, err := s.Get(ctx, k1)
	require.NoError(t, err)
	require.False(t, ok)

	body := []byte(`{"jobs":[{"id":"j1"}],"all":[]}`)
	require.NoError(t, s.Set(ctx, k1, body))
	require.NoError(t, s.Set(ctx, k2, []byte(`[]`)))

	got, ok, err := s.Get(ctx, k1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, body, got)

	require.NoError(t, s.Set(ctx, k1, []byte(`{"jobs":[],"all":[]}`)))
	got, _, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.Equal(t, `{"jobs":[],"all":[]}`, string(got))

	require.NoError(t, s.Delete(ctx, k2))
	_, ok, err = s.Get(ctx, k2)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Clear(ctx))
	_, ok, err = s.Get(ctx, k1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStore_Contract(t *testing.T) {
	s, _ := newSQLiteStore(t)
	exerciseStore(t, s)
}

func TestSQLiteStore_ClearKeepsForeignRows(t *testing.T) {
	s, db := newSQLiteStore(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `INSERT INTO response_cache(key, body) VALUES ('other_ns', 'x')`)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, Key("/a", nil), []byte("1")))

	require.NoError(t, s.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM response_cache`).Scan(&n))
	require.Equal(t, 1, n)
}

func TestMemoryStore_Contract(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	body := []byte("abc")

	require.NoError(t, s.Set(ctx, "k", body))
	body[0] = 'X'

	got, _, _ := s.Get(ctx, "k")
	require.Equal(t, "abc", string(got))
	got[1] = 'Y'
	again, _, _ := s.Get(ctx, "k")
	require.Equal(t, "abc", string(again))
}

func TestMemoryStore_ConcurrentWriters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(ctx, "same", []byte{byte(i)})
			_, _, _ = s.Get(ctx, "same")
		}(i)
	}
	wg.Wait()

	_, ok, err := s.Get(ctx, "same")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, s.Len())
}

func TestRedisStore_Contract(t *testing.T) {
	url := os.Getenv("JOBSWIPE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("JOBSWIPE_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseStore(t, NewRedisStore(rdb, "test:"+uuid.NewString()+":", nil))
}

func TestRedisStore_ClearLeavesOtherUsers(t *testing.T) {
	url := os.Getenv("JOBSWIPE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("JOBSWIPE_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	prefix := "test:" + uuid.NewString() + ":"
	alice := NewRedisStore(rdb, prefix, func() string { return TokenScope("tok-alice") })
	bob := NewRedisStore(rdb, prefix, func() string { return TokenScope("tok-bob") })
	key := Key("/bookmarks", nil)

	require.NoError(t, alice.Set(ctx, key, []byte(`["alice"]`)))
	require.NoError(t, bob.Set(ctx, key, []byte(`["bob"]`)))

	got, ok, err := bob.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["bob"]`, string(got))

	require.NoError(t, alice.Clear(ctx))
	_, ok, err = alice.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	got, ok, err = bob.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `["bob"]`, string(got))
	require.NoError(t, bob.Clear(ctx))
}

func TestRedisStore_KeyScheme(t *testing.T) {
	var current string
	s := NewRedisStore(nil, "jobswipe:", func() string { return current })
	key := Key("/bookmarks", nil)

	current = TokenScope("tok-alice")
	alice := s.k(key)
	current = TokenScope("tok-bob")
	bob := s.k(key)
	current = ""
	anon := s.k(key)

	assert.Equal(t, "jobswipe:"+TokenScope("tok-alice")+":api_cache_/bookmarks_{}", alice)
	assert.NotEqual(t, alice, bob)
	assert.Equal(t, "jobswipe:anon:api_cache_/bookmarks_{}", anon)
	assert.NotContains(t, alice, "tok-alice")
	assert.Len(t, s.touched, 3)

	shared := NewRedisStore(nil, "p:", nil)
	assert.Equal(t, "p:anon:k", shared.k("k"))
}

func TestTokenScope(t *testing.T) {
	assert.Empty(t, TokenScope(""))
	assert.Len(t, TokenScope("abc"), 16)
	assert.Equal(t, TokenScope("abc"), TokenScope("abc"))
	assert.NotEqual(t, TokenScope("abc"), TokenScope("abd"))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "://nope")
	require.Error(t, err)
}
