package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/client/cache"
	"github.com/dmitrijs2005/jobswipe/internal/client/events"
	"github.com/dmitrijs2005/jobswipe/internal/client/metrics"
	"github.com/dmitrijs2005/jobswipe/internal/logging"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	RequestIDHeaderName = "X-Request-ID"
	maxBodyBytes        = 8 << 20
)

// Session is the part of the session store the HTTP layer needs.
// Generation must change whenever the token is replaced or cleared, and only
// after the new token is visible.
type Session interface {
	Token() string
	Generation() uint64
	Logout(ctx context.Context) error
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
	Burst             int

	Session Session
	Cache   cache.Store
	Bus     *events.Bus
	Metrics *metrics.Client
	Logger  logging.Logger

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter

	session Session
	cache   cache.Store
	bus     *events.Bus
	metrics *metrics.Client
	log     logging.Logger

	now func() time.Time
}

func New(opts Options) (*HTTPClient, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	if opts.Session == nil {
		return nil, errors.New("client: session is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	var lim *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}

	return &HTTPClient{
		baseURL: opts.BaseURL,
		http:    hc,
		limiter: lim,
		session: opts.Session,
		cache:   opts.Cache,
		bus:     opts.Bus,
		metrics: opts.Metrics,
		log:     log,
		now:     time.Now,
	}, nil
}

// Do runs req through the token, cache and interception pipeline.
func (c *HTTPClient) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.method()

	gen := c.session.Generation()
	var token string
	if !req.NoAuth {
		token = c.session.Token()
	}
	if req.RequireAuth && token == "" {
		return nil, fmt.Errorf("%s %s: %w", method, req.Path, ErrNoToken)
	}

	var cacheKey string
	readThrough := req.isRead() && c.cache != nil && !req.NoCache
	if readThrough {
		cacheKey = cache.Key(req.Path, req.Query)
		if resp, ok := c.fromCache(ctx, req.Path, cacheKey); ok {
			return resp, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, req.Path, err)
		}
	}

	httpReq, requestID, err := c.build(ctx, method, req, token)
	if err != nil {
		return nil, err
	}

	start := c.now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		c.metrics.ObserveRequest(method, req.Path, 0, c.now().Sub(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", method, req.Path, ctxErr)
		}
		return nil, fmt.Errorf("%s %s: %w: %v", method, req.Path, ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %v", method, req.Path, ErrUnavailable, err)
	}
	c.metrics.ObserveRequest(method, req.Path, httpResp.StatusCode, c.now().Sub(start))
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%s %s: %w: over %d bytes", method, req.Path, ErrResponseTooLarge, maxBodyBytes)
	}

	cacheState := "bypass"
	if readThrough {
		cacheState = "miss"
	}
	c.log.Debug(ctx, "request done",
		"method", method,
		"path", req.Path,
		"status", httpResp.StatusCode,
		"cache", cacheState,
		"request_id", requestID,
	)

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		if readThrough {
			c.store(ctx, gen, cacheKey, body)
		}
		return &Response{StatusCode: httpResp.StatusCode, Body: body, RequestID: requestID}, nil
	}

	apiErr := &APIError{
		StatusCode: httpResp.StatusCode,
		Method:     method,
		Path:       req.Path,
		Message:    errorMessage(body),
		Body:       body,
	}
	c.intercept(ctx, req, gen, apiErr)
	return nil, apiErr
}

// DoJSON runs req and decodes the body into out (skipped when out is nil).
func (c *HTTPClient) DoJSON(ctx context.Context, req Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method(), req.Path, err)
	}
	return nil
}

func (c *HTTPClient) fromCache(ctx context.Context, path, key string) (*Response, bool) {
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.log.Warn(ctx, "cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		c.metrics.CacheMiss(path)
		return nil, false
	}
	c.metrics.CacheHit(path)
	c.log.Debug(ctx, "request served from cache", "method", http.MethodGet, "path", path, "cache", "hit")
	return &Response{StatusCode: http.StatusOK, Body: body, Cached: true}, true
}

// store caches body unless the session that sent the request is gone. The
// second check covers a logout that cleared the cache while Set was running.
func (c *HTTPClient) store(ctx context.Context, gen uint64, key string, body []byte) {
	if c.session.Generation() != gen {
		c.log.Debug(ctx, "session changed in flight, response not cached", "key", key)
		return
	}
	if err := c.cache.Set(ctx, key, body); err != nil {
		c.log.Warn(ctx, "failed to cache response", "key", key, "error", err)
		return
	}
	if c.session.Generation() != gen {
		if err := c.cache.Delete(ctx, key); err != nil {
			c.log.Warn(ctx, "failed to drop stale cached response", "key", key, "error", err)
		}
	}
}

func (c *HTTPClient) build(ctx context.Context, method string, req Request, token string) (*http.Request, string, error) {
	u, err := req.url(c.baseURL)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: bad url: %w", method, req.Path, err)
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%s %s: encode body: %w", method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, "", fmt.Errorf("%s %s: %w", method, req.Path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeaderName, requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, requestID, nil
}

// intercept applies the global reactions to auth failures and rate limits.
// A rejection of a token that has already been replaced does not log out
// its successor.
func (c *HTTPClient) intercept(ctx context.Context, req Request, gen uint64, apiErr *APIError) {
	switch {
	case errors.Is(apiErr, ErrUnauthorized) && !req.NoAuth && c.session.Generation() != gen:
		c.log.Debug(ctx, "ignoring auth failure of a previous session",
			"method", apiErr.Method, "path", apiErr.Path, "status", apiErr.StatusCode)

	case errors.Is(apiErr, ErrUnauthorized) && !req.NoAuth:
		c.log.Warn(ctx, "backend rejected credentials, logging out",
			"method", apiErr.Method, "path", apiErr.Path, "status", apiErr.StatusCode)
		c.metrics.ForcedLogout(apiErr.StatusCode)
		if err := c.session.Logout(ctx); err != nil {
			c.log.Error(ctx, "forced logout failed", "error", err)
		}
		c.publish(events.TopicLoggedOut, apiErr)

	case errors.Is(apiErr, ErrRateLimited):
		c.log.Warn(ctx, "rate limit reached", "method", apiErr.Method, "path", apiErr.Path)
		c.metrics.RateLimited(apiErr.Path)
		c.publish(events.TopicRateLimited, apiErr)
	}
}

func (c *HTTPClient) publish(topic events.Topic, apiErr *APIError) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(events.Event{
		Topic:     topic,
		Method:    apiErr.Method,
		Path:      apiErr.Path,
		Message:   apiErr.Message,
		Timestamp: c.now(),
	})
}

func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	for _, field := range []string{"message", "error", "detail"} {
		if v := gjson.GetBytes(body, field); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
