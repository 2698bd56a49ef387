package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	CacheBackendSQLite = "sqlite"
	CacheBackendRedis  = "redis"
)

// Config holds runtime settings for the jobswipe CLI.
type Config struct {
	APIBaseURL  string
	TechFeedURL string

	DatabasePath string

	RequestTimeout       time.Duration
	SessionCheckInterval time.Duration

	// RequestsPerSecond and RequestBurst pace outgoing backend calls.
	RequestsPerSecond float64
	RequestBurst      int

	CacheBackend string
	RedisURL     string

	OAuthRedirectURL string
	CallbackAddr     string
	GoogleClientID   string
	GitHubClientID   string
	LinkedInClientID string

	MetricsAddr string
	LogLevel    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://saber-api-backend.vercel.app/api"
	c.TechFeedURL = "https://tech-feed-beta.vercel.app/api/tech"
	c.DatabasePath = "jobswipe.db"
	c.RequestTimeout = 15 * time.Second
	c.SessionCheckInterval = 5 * time.Minute
	c.RequestsPerSecond = 10
	c.RequestBurst = 5
	c.CacheBackend = CacheBackendSQLite
	c.RedisURL = ""
	c.OAuthRedirectURL = "http://127.0.0.1:8765/auth/callback"
	c.CallbackAddr = "127.0.0.1:8765"
	c.MetricsAddr = ""
	c.LogLevel = "info"
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	switch c.CacheBackend {
	case CacheBackendSQLite:
	case CacheBackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis cache backend requires redis url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.CacheBackend))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
