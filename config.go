package swkauth

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/swklabs/swkauth/gateway"
)

// Config wires the session authority and its gateways. Configure during
// initialization and treat as immutable afterwards; Build clones it.
type Config struct {
	Auth    ServiceConfig
	API     ServiceConfig
	Storage StorageConfig
	Gateway GatewayConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// ServiceConfig locates one backing service. BaseURL includes the path
// prefix, e.g. "http://localhost:3000/api/v1".
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig selects the persistent session store built by default.
// Builder.WithStore and Builder.WithRedis override it.
type StorageConfig struct {
	// SessionFile is the JSON session file path for the default FileStore.
	SessionFile string
	// RedisPrefix scopes the session keys when a Redis client is supplied.
	RedisPrefix string
}

// GatewayConfig carries the gateway policy knobs shared by both service
// clients.
type GatewayConfig struct {
	NestedStatus gateway.NestedStatusPolicy
}

// AuditConfig controls the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the in-process counters. When disabled, all metric
// operations are no-ops.
type MetricsConfig struct {
	Enabled bool
}

const (
	defaultAuthBaseURL = "http://localhost:3000/api/v1"
	defaultAPIBaseURL  = "http://localhost:4000/api/v1"
	defaultTimeout     = 15 * time.Second
)

// DefaultConfig returns the development defaults: local services, a session
// file under the user config directory, nested-status interception on,
// audit and metrics enabled.
func DefaultConfig() Config {
	return Config{
		Auth: ServiceConfig{BaseURL: defaultAuthBaseURL, Timeout: defaultTimeout},
		API:  ServiceConfig{BaseURL: defaultAPIBaseURL, Timeout: defaultTimeout},
		Storage: StorageConfig{
			SessionFile: defaultSessionFile(),
			RedisPrefix: "swk",
		},
		Gateway: GatewayConfig{
			NestedStatus: gateway.DefaultNestedStatusPolicy(),
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 64,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".swk", "session.json")
	}
	return filepath.Join(dir, "swk", "session.json")
}

// Validate rejects configurations the Builder cannot wire.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.BaseURL) == "" {
		return errors.New("auth service base URL required")
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("dashboard service base URL required")
	}
	if c.Auth.Timeout < 0 || c.API.Timeout < 0 {
		return errors.New("invalid service timeout")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 0 {
		return errors.New("invalid audit buffer size")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	cloned := cfg
	if fields := cfg.Gateway.NestedStatus.Fields; fields != nil {
		cloned.Gateway.NestedStatus.Fields = append([]string(nil), fields...)
	}
	return cloned
}
