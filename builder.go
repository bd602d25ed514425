package swkauth

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/swklabs/swkauth/gateway"
	"github.com/swklabs/swkauth/store"
)

// Builder assembles an Authority step by step. Obtain one with New, chain
// the With* methods, then call Build. A Builder is single-use and not safe
// for concurrent use.
type Builder struct {
	config     Config
	sessions   store.Store
	redis      redis.UniversalClient
	httpClient *http.Client
	navigator  Navigator
	onChange   func(StateChange)
	auditSink  AuditSink
	broadcast  *LogoutSignal
	built      bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore supplies the persistent session store directly, overriding the
// file and Redis defaults.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.sessions = s
	return b
}

// WithRedis backs the session store with Redis, keyed under
// Config.Storage.RedisPrefix. Ignored when WithStore was also called.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithHTTPClient sets the transport used by both service gateways.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithNavigator installs the presentation hook invoked on transitions that
// request a redirect to the login entry point.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithOnChange installs the state-change callback. It is invoked after each
// committed transition, outside the Authority's lock, on the goroutine that
// drove the transition.
func (b *Builder) WithOnChange(fn func(StateChange)) *Builder {
	b.onChange = fn
	return b
}

// WithAuditSink sets the destination for audit events. Defaults to NoOpSink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithSignal shares an externally created logout broadcast instead of
// building a private one. The caller keeps ownership and must close it.
func (b *Builder) WithSignal(sig *LogoutSignal) *Builder {
	b.broadcast = sig
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration, wires the store, broadcast, and both
// service gateways, restores any persisted session, and starts the
// broadcast watcher. The returned Authority is ready for use; callers own
// it and should Close it on shutdown.
func (b *Builder) Build(ctx context.Context) (*Authority, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	if ctx == nil {
		ctx = context.Background()
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sessions := b.sessions
	if sessions == nil {
		if b.redis != nil {
			sessions = store.NewRedisStore(b.redis, cfg.Storage.RedisPrefix)
		} else {
			fs, err := store.NewFileStore(cfg.Storage.SessionFile)
			if err != nil {
				return nil, err
			}
			sessions = fs
		}
	}

	broadcast := b.broadcast
	ownsSig := false
	if broadcast == nil {
		broadcast = NewLogoutSignal()
		ownsSig = true
	}

	a := &Authority{
		config:    cfg,
		sessions:  sessions,
		broadcast: broadcast,
		ownsSig:   ownsSig,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		navigator: b.navigator,
		onChange:  b.onChange,
	}

	authClient, err := gateway.New(gateway.Config{
		BaseURL:        cfg.Auth.BaseURL,
		HTTPClient:     b.httpClientFor(cfg.Auth),
		Tokens:         a,
		Store:          sessions,
		Signal:         broadcast,
		NestedStatus:   cfg.Gateway.NestedStatus,
		OnUnauthorized: a.observeUnauthorized,
	})
	if err != nil {
		a.audit.Close()
		return nil, err
	}

	apiClient, err := gateway.New(gateway.Config{
		BaseURL:        cfg.API.BaseURL,
		HTTPClient:     b.httpClientFor(cfg.API),
		Tokens:         a,
		Store:          sessions,
		Signal:         broadcast,
		NestedStatus:   cfg.Gateway.NestedStatus,
		OnUnauthorized: a.observeUnauthorized,
	})
	if err != nil {
		a.audit.Close()
		return nil, err
	}

	a.auth = gateway.NewAuthAPI(authClient)
	a.dashboard = gateway.NewDashboardAPI(apiClient)

	a.restore(ctx)
	a.watchSignal()

	return a, nil
}

func (b *Builder) httpClientFor(svc ServiceConfig) *http.Client {
	if b.httpClient != nil {
		return b.httpClient
	}
	if svc.Timeout <= 0 {
		return nil
	}
	return &http.Client{Timeout: svc.Timeout}
}
