// Package config loads runtime configuration for the jobswipe CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables, optionally seeded from a dotenv file selected
//     with -e / -env-file (see parseEnv).
//  3. Optional JSON file selected with -c / -config (see parseJson).
//  4. Command-line flags (see parseFlags).
//
// Later sources override earlier ones.
//
// Supported flags
//
//	-a string   backend API base URL
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-i int      session verification interval (seconds)
//	-m string   address for the Prometheus /metrics listener (empty disables it)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// Durations accept Go duration strings or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://api.example.com/api",
//	  "tech_feed_url": "https://feed.example.com/api/tech",
//	  "database_path": "jobswipe.db",
//	  "request_timeout": "15s",
//	  "session_check_interval": "5m",
//	  "requests_per_second": 10,
//	  "request_burst": 5,
//	  "cache_backend": "sqlite",
//	  "redis_url": "",
//	  "oauth_redirect_url": "http://127.0.0.1:8765/auth/callback",
//	  "callback_addr": "127.0.0.1:8765",
//	  "google_client_id": "",
//	  "github_client_id": "",
//	  "linkedin_client_id": "",
//	  "metrics_addr": "",
//	  "log_level": "info"
//	}
//
// Environment variables use the JOBSWIPE_ prefix, e.g. JOBSWIPE_API_BASE_URL.
package config
