package config

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/jobswipe/internal/flagx"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// envConfig mirrors Config for envdecode. It is pre-filled from the current
// Config so unset variables leave values untouched.
type envConfig struct {
	APIBaseURL           string        `env:"JOBSWIPE_API_BASE_URL"`
	TechFeedURL          string        `env:"JOBSWIPE_TECH_FEED_URL"`
	DatabasePath         string        `env:"JOBSWIPE_DATABASE_PATH"`
	RequestTimeout       time.Duration `env:"JOBSWIPE_REQUEST_TIMEOUT"`
	SessionCheckInterval time.Duration `env:"JOBSWIPE_SESSION_CHECK_INTERVAL"`
	RequestsPerSecond    float64       `env:"JOBSWIPE_REQUESTS_PER_SECOND"`
	RequestBurst         int           `env:"JOBSWIPE_REQUEST_BURST"`
	CacheBackend         string        `env:"JOBSWIPE_CACHE_BACKEND"`
	RedisURL             string        `env:"JOBSWIPE_REDIS_URL"`
	OAuthRedirectURL     string        `env:"JOBSWIPE_OAUTH_REDIRECT_URL"`
	CallbackAddr         string        `env:"JOBSWIPE_CALLBACK_ADDR"`
	GoogleClientID       string        `env:"JOBSWIPE_GOOGLE_CLIENT_ID"`
	GitHubClientID       string        `env:"JOBSWIPE_GITHUB_CLIENT_ID"`
	LinkedInClientID     string        `env:"JOBSWIPE_LINKEDIN_CLIENT_ID"`
	MetricsAddr          string        `env:"JOBSWIPE_METRICS_ADDR"`
	LogLevel             string        `env:"JOBSWIPE_LOG_LEVEL"`
}

// parseEnv overlays Config with JOBSWIPE_* environment variables. A dotenv file
// given with -e / -env-file is loaded first; variables already present in the
// process environment win over the file. Panics on unreadable dotenv files or
// malformed values.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFilePath(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	}

	ec := envConfig{
		APIBaseURL:           cfg.APIBaseURL,
		TechFeedURL:          cfg.TechFeedURL,
		DatabasePath:         cfg.DatabasePath,
		RequestTimeout:       cfg.RequestTimeout,
		SessionCheckInterval: cfg.SessionCheckInterval,
		RequestsPerSecond:    cfg.RequestsPerSecond,
		RequestBurst:         cfg.RequestBurst,
		CacheBackend:         cfg.CacheBackend,
		RedisURL:             cfg.RedisURL,
		OAuthRedirectURL:     cfg.OAuthRedirectURL,
		CallbackAddr:         cfg.CallbackAddr,
		GoogleClientID:       cfg.GoogleClientID,
		GitHubClientID:       cfg.GitHubClientID,
		LinkedInClientID:     cfg.LinkedInClientID,
		MetricsAddr:          cfg.MetricsAddr,
		LogLevel:             cfg.LogLevel,
	}

	if err := envdecode.Decode(&ec); err != nil {
		if errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
			return
		}
		panic(err)
	}

	cfg.APIBaseURL = ec.APIBaseURL
	cfg.TechFeedURL = ec.TechFeedURL
	cfg.DatabasePath = ec.DatabasePath
	cfg.RequestTimeout = ec.RequestTimeout
	cfg.SessionCheckInterval = ec.SessionCheckInterval
	cfg.RequestsPerSecond = ec.RequestsPerSecond
	cfg.RequestBurst = ec.RequestBurst
	cfg.CacheBackend = ec.CacheBackend
	cfg.RedisURL = ec.RedisURL
	cfg.OAuthRedirectURL = ec.OAuthRedirectURL
	cfg.CallbackAddr = ec.CallbackAddr
	cfg.GoogleClientID = ec.GoogleClientID
	cfg.GitHubClientID = ec.GitHubClientID
	cfg.LinkedInClientID = ec.LinkedInClientID
	cfg.MetricsAddr = ec.MetricsAddr
	cfg.LogLevel = ec.LogLevel
}
