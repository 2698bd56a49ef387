// Package metrics exposes client-side Prometheus collectors: request
// outcomes, cache efficiency, forced logouts, rate-limit hits and optimistic
// rollbacks.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobswipe_client"

// Client groups the collectors. A nil *Client is valid and records nothing.
type Client struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cache         *prometheus.CounterVec
	forcedLogouts *prometheus.CounterVec
	rateLimited   *prometheus.CounterVec
	rollbacks     *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Client {
	c := &Client{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Requests sent to the backend, by outcome.",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Round-trip time of backend requests.",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
			},
			[]string{"method", "endpoint"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cache",
				Name:      "lookups_total",
				Help:      "Response cache lookups, by result.",
			},
			[]string{"endpoint", "result"},
		),
		forcedLogouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "session",
				Name:      "forced_logouts_total",
				Help:      "Sessions cleared because the backend rejected the token.",
			},
			[]string{"status"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "rate_limited_total",
				Help:      "Responses with status 429.",
			},
			[]string{"endpoint"},
		),
		rollbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "optimistic",
				Name:      "rollbacks_total",
				Help:      "Optimistic removals undone after a failed action.",
			},
			[]string{"list", "reason"},
		),
	}

	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.cache,
		c.forcedLogouts,
		c.rateLimited,
		c.rollbacks,
	)
	return c
}

func (c *Client) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Endpoint reduces a request path to its first segment to bound label
// cardinality: "/bookmarks/42" becomes "/bookmarks". Absolute URLs keep only
// the host.
func Endpoint(path string) string {
	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			rest = rest[:j]
		}
		return rest
	}
	p := strings.TrimPrefix(path, "/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	return "/" + p
}

func (c *Client) ObserveRequest(method, path string, status int, d time.Duration) {
	if c == nil {
		return
	}
	ep := Endpoint(path)
	s := "error"
	if status > 0 {
		s = strconv.Itoa(status)
	}
	c.requests.WithLabelValues(method, ep, s).Inc()
	c.duration.WithLabelValues(method, ep).Observe(d.Seconds())
}

func (c *Client) CacheHit(path string) {
	if c == nil {
		return
	}
	c.cache.WithLabelValues(Endpoint(path), "hit").Inc()
}

func (c *Client) CacheMiss(path string) {
	if c == nil {
		return
	}
	c.cache.WithLabelValues(Endpoint(path), "miss").Inc()
}

func (c *Client) ForcedLogout(status int) {
	if c == nil {
		return
	}
	c.forcedLogouts.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (c *Client) RateLimited(path string) {
	if c == nil {
		return
	}
	c.rateLimited.WithLabelValues(Endpoint(path)).Inc()
}

func (c *Client) Rollback(list, reason string) {
	if c == nil {
		return
	}
	c.rollbacks.WithLabelValues(list, reason).Inc()
}

func (c *Client) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Client) Serve(ctx context.Context, addr string) error {
	r := chi.NewRouter()
	r.Handle("/metrics", c.Handler())

	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
