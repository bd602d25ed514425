package swkauth

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !cfg.Gateway.NestedStatus.Enabled {
		t.Fatal("expected nested-status interception enabled by default")
	}
	if cfg.Storage.SessionFile == "" {
		t.Fatal("expected a default session file path")
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty auth URL", func(c *Config) { c.Auth.BaseURL = "  " }},
		{"empty API URL", func(c *Config) { c.API.BaseURL = "" }},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }},
		{"negative audit buffer", func(c *Config) { c.Audit.BufferSize = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCloneConfigDetachesNestedFields(t *testing.T) {
	cfg := DefaultConfig()
	cloned := cloneConfig(cfg)

	cloned.Gateway.NestedStatus.Fields[0] = "mutated"
	if cfg.Gateway.NestedStatus.Fields[0] == "mutated" {
		t.Fatal("expected cloned field list to be independent")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvAuthBaseURL, "http://auth.internal/api/v1")
	t.Setenv(EnvAPIBaseURL, "http://api.internal/api/v1")
	t.Setenv(EnvSessionFile, "/tmp/swk-test/session.json")
	t.Setenv(EnvRedisPrefix, "staging")
	t.Setenv(EnvHTTPTimeout, "3s")

	cfg := ConfigFromEnv()
	if cfg.Auth.BaseURL != "http://auth.internal/api/v1" {
		t.Fatalf("Auth.BaseURL = %q", cfg.Auth.BaseURL)
	}
	if cfg.API.BaseURL != "http://api.internal/api/v1" {
		t.Fatalf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Storage.SessionFile != "/tmp/swk-test/session.json" {
		t.Fatalf("Storage.SessionFile = %q", cfg.Storage.SessionFile)
	}
	if cfg.Storage.RedisPrefix != "staging" {
		t.Fatalf("Storage.RedisPrefix = %q", cfg.Storage.RedisPrefix)
	}
	if cfg.Auth.Timeout != 3*time.Second || cfg.API.Timeout != 3*time.Second {
		t.Fatalf("timeouts = %v / %v, want 3s", cfg.Auth.Timeout, cfg.API.Timeout)
	}
}

func TestConfigFromEnvIgnoresBadTimeout(t *testing.T) {
	t.Setenv(EnvHTTPTimeout, "soon")

	cfg := ConfigFromEnv()
	if cfg.Auth.Timeout != defaultTimeout {
		t.Fatalf("Auth.Timeout = %v, want default", cfg.Auth.Timeout)
	}
}
