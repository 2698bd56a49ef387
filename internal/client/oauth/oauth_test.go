package oauth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider(" GitHub ")
	require.NoError(t, err)
	require.Equal(t, GitHub, p)

	_, err = ParseProvider("myspace")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestAuthURL(t *testing.T) {
	p := NewProviders("http://127.0.0.1:8765/auth/callback", map[Provider]string{
		Google: "g-id",
		GitHub: "gh-id",
	})
	require.Equal(t, []Provider{GitHub, Google}, p.Configured())

	tests := []struct {
		provider Provider
		host     string
		scope    string
		offline  bool
	}{
		{Google, "accounts.google.com", "email profile openid", true},
		{GitHub, "github.com", "read:user user:email", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			raw, err := p.AuthURL(tt.provider, "st4te")
			require.NoError(t, err)

			u, err := url.Parse(raw)
			require.NoError(t, err)
			q := u.Query()
			assert.Equal(t, tt.host, u.Host)
			assert.Equal(t, "st4te", q.Get("state"))
			assert.Equal(t, "code", q.Get("response_type"))
			assert.Equal(t, tt.scope, q.Get("scope"))
			assert.Equal(t, "http://127.0.0.1:8765/auth/callback", q.Get("redirect_uri"))
			if tt.offline {
				assert.Equal(t, "offline", q.Get("access_type"))
				assert.Equal(t, "consent", q.Get("prompt"))
			} else {
				assert.Empty(t, q.Get("access_type"))
			}
		})
	}

	_, err := p.AuthURL(LinkedIn, "s")
	require.ErrorIs(t, err, ErrNotConfigured)
	_, err = p.AuthURL("aol", "s")
	require.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewState_Unique(t *testing.T) {
	require.NotEqual(t, NewState(), NewState())
}

func startCallback(t *testing.T, state string) *CallbackServer {
	t.Helper()
	s, err := ListenCallback("127.0.0.1:0", state, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func hit(t *testing.T, s *CallbackServer, query string) int {
	t.Helper()
	resp, err := http.Get(s.URL() + "?" + query)
	require.NoError(t, err)
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode
}

func TestCallback_DeliversCode(t *testing.T) {
	s := startCallback(t, "xyz")
	require.Equal(t, http.StatusOK, hit(t, s, "code=abc123&state=xyz"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := s.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc123", code)
}

func TestCallback_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{"state mismatch", "code=abc&state=evil", ErrStateMismatch},
		{"denied", "error=access_denied&state=xyz", ErrDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startCallback(t, "xyz")
			require.Equal(t, http.StatusBadRequest, hit(t, s, tt.query))

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_, err := s.Wait(ctx)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCallback_MissingCode(t *testing.T) {
	s := startCallback(t, "xyz")
	require.Equal(t, http.StatusBadRequest, hit(t, s, "state=xyz"))
	_, err := s.Wait(context.Background())
	require.Error(t, err)
}

func TestCallback_WaitHonoursContext(t *testing.T) {
	s := startCallback(t, "xyz")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCallback_OnlyFirstResultKept(t *testing.T) {
	s := startCallback(t, "xyz")
	hit(t, s, "code=first&state=xyz")
	hit(t, s, "code=second&state=xyz")

	code, err := s.Wait(context.Background())
	require.NoError(t, err)
	require.Equal(t, "first", code)
}
