package client

import (
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Request describes one backend call.
type Request struct {
	Method string
	// Path is relative to the base URL, or an absolute URL for third-party
	// endpoints.
	Path  string
	Query map[string]string
	// Body is JSON-encoded when non-nil.
	Body any

	// NoAuth requests never carry the bearer token and never force a logout.
	NoAuth bool
	// RequireAuth requests fail with ErrNoToken when logged out.
	RequireAuth bool
	// NoCache GETs neither read nor write the response cache.
	NoCache bool
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

func (r Request) isRead() bool {
	return r.method() == http.MethodGet
}

func (r Request) url(base string) (string, error) {
	raw := r.Path
	if !strings.Contains(raw, "://") {
		raw = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(raw, "/")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(r.Query) > 0 {
		q := u.Query()
		keys := make([]string, 0, len(r.Query))
		for k := range r.Query {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			q.Set(k, r.Query[k])
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Response is a successful (2xx) result.
type Response struct {
	StatusCode int
	Body       []byte
	// Cached is true when the body came from the response cache.
	Cached    bool
	RequestID string
}
