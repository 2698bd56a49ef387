package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/jobswipe/internal/flagx"
	"github.com/dmitrijs2005/jobswipe/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// distinguish "absent" from "zero", so a partial file only overrides what it
// names.
type JsonConfig struct {
	APIBaseURL           *string         `json:"api_base_url"`
	TechFeedURL          *string         `json:"tech_feed_url"`
	DatabasePath         *string         `json:"database_path"`
	RequestTimeout       *timex.Duration `json:"request_timeout"`
	SessionCheckInterval *timex.Duration `json:"session_check_interval"`
	RequestsPerSecond    *float64        `json:"requests_per_second"`
	RequestBurst         *int            `json:"request_burst"`
	CacheBackend         *string         `json:"cache_backend"`
	RedisURL             *string         `json:"redis_url"`
	OAuthRedirectURL     *string         `json:"oauth_redirect_url"`
	CallbackAddr         *string         `json:"callback_addr"`
	GoogleClientID       *string         `json:"google_client_id"`
	GitHubClientID       *string         `json:"github_client_id"`
	LinkedInClientID     *string         `json:"linkedin_client_id"`
	MetricsAddr          *string         `json:"metrics_addr"`
	LogLevel             *string         `json:"log_level"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c / -config. Without such a flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TechFeedURL, jc.TechFeedURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.CacheBackend, jc.CacheBackend)
	setString(&cfg.RedisURL, jc.RedisURL)
	setString(&cfg.OAuthRedirectURL, jc.OAuthRedirectURL)
	setString(&cfg.CallbackAddr, jc.CallbackAddr)
	setString(&cfg.GoogleClientID, jc.GoogleClientID)
	setString(&cfg.GitHubClientID, jc.GitHubClientID)
	setString(&cfg.LinkedInClientID, jc.LinkedInClientID)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionCheckInterval != nil {
		cfg.SessionCheckInterval = jc.SessionCheckInterval.Duration
	}
	if jc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *jc.RequestsPerSecond
	}
	if jc.RequestBurst != nil {
		cfg.RequestBurst = *jc.RequestBurst
	}
}
