package swkauth

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by [ConfigFromEnv].
const (
	EnvAuthBaseURL = "SWK_AUTH_BASE_URL"
	EnvAPIBaseURL  = "SWK_API_BASE_URL"
	EnvSessionFile = "SWK_SESSION_FILE"
	EnvRedisPrefix = "SWK_REDIS_PREFIX"
	EnvHTTPTimeout = "SWK_HTTP_TIMEOUT"
)

// ConfigFromEnv builds a Config from the process environment on top of
// [DefaultConfig]. A .env file in the working directory is loaded first
// when present; a missing file is not an error.
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv(EnvAuthBaseURL); v != "" {
		cfg.Auth.BaseURL = v
	}
	if v := os.Getenv(EnvAPIBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvSessionFile); v != "" {
		cfg.Storage.SessionFile = v
	}
	if v := os.Getenv(EnvRedisPrefix); v != "" {
		cfg.Storage.RedisPrefix = v
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Auth.Timeout = d
			cfg.API.Timeout = d
		}
	}
	return cfg
}
