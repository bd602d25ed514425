package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swklabs/swkauth/signal"
	"github.com/swklabs/swkauth/store"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20
)

// TokenSource yields the current bearer token, or "" when logged out. It is
// consulted on every request.
type TokenSource interface {
	Token() string
}

// TokenSourceFunc adapts a func to the TokenSource interface.
type TokenSourceFunc func() string

func (f TokenSourceFunc) Token() string { return f() }

// StoreTokenSource reads the token from a session store on each call.
// Useful when the gateway is used standalone, without a session authority.
func StoreTokenSource(s store.Store) TokenSource {
	return TokenSourceFunc(func() string {
		token, _, err := s.Load(context.Background())
		if err != nil {
			return ""
		}
		return token
	})
}

// NestedStatusPolicy controls whether a 2xx response whose body embeds an
// error status field (the backend's `statusCode`/`status` convention) is
// treated like the equivalent transport-level status. The convention has
// not been confirmed across every backend endpoint, hence a policy rather
// than hard-wired behavior.
type NestedStatusPolicy struct {
	Enabled bool
	Fields  []string
}

// DefaultNestedStatusPolicy matches the backend convention observed so far:
// enabled, probing `statusCode` then `status`.
func DefaultNestedStatusPolicy() NestedStatusPolicy {
	return NestedStatusPolicy{
		Enabled: true,
		Fields:  []string{"statusCode", "status"},
	}
}

// APIError carries the server-supplied status and display message for any
// non-success response, nested or transport-level.
type APIError struct {
	Status    int
	Message   string
	RequestID string
	Nested    bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// IsUnauthorized reports whether err is an [APIError] with unauthorized
// status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// Config wires a Client. BaseURL is required; everything else has a usable
// zero value.
type Config struct {
	// BaseURL is the service root including any path prefix,
	// e.g. "http://localhost:3000/api/v1".
	BaseURL string

	// HTTPClient defaults to a client with a 15s timeout.
	HTTPClient *http.Client

	// Tokens provides the bearer token per request. Nil means requests go
	// out unauthenticated.
	Tokens TokenSource

	// Store, when set, is cleared on every unauthorized response. The
	// gateway never writes to it.
	Store store.Store

	// Signal, when set, is published on every unauthorized response.
	Signal *signal.Broadcaster

	// NestedStatus enables body-embedded status interception. The zero
	// value disables it; use DefaultNestedStatusPolicy for the backend
	// convention.
	NestedStatus NestedStatusPolicy

	// OnUnauthorized, when set, observes each intercepted unauthorized
	// response (after store clear and signal publish).
	OnUnauthorized func(requestID string)
}

// Client is the outbound HTTP gateway. Safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("gateway base URL required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{cfg: cfg, http: httpClient}, nil
}

// Get issues a GET and decodes the JSON response into out (which may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// token is read at send time, never earlier
	if c.cfg.Tokens != nil {
		if token := c.cfg.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return err
	}

	if res.StatusCode >= 400 {
		apiErr := &APIError{
			Status:    res.StatusCode,
			Message:   extractMessage(data),
			RequestID: requestID,
		}
		if res.StatusCode == http.StatusUnauthorized {
			c.interceptUnauthorized(ctx, requestID)
		}
		return apiErr
	}

	if nested, ok := c.nestedStatus(data); ok && nested >= 400 {
		apiErr := &APIError{
			Status:    nested,
			Message:   extractMessage(data),
			RequestID: requestID,
			Nested:    true,
		}
		if nested == http.StatusUnauthorized {
			c.interceptUnauthorized(ctx, requestID)
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

// interceptUnauthorized runs the session-kill path for one offending
// response: clear persisted state first (independent of whether the
// authority receives the broadcast), then publish, then notify.
func (c *Client) interceptUnauthorized(ctx context.Context, requestID string) {
	if c.cfg.Store != nil {
		_ = c.cfg.Store.Clear(ctx)
	}
	if c.cfg.Signal != nil {
		c.cfg.Signal.Publish()
	}
	if c.cfg.OnUnauthorized != nil {
		c.cfg.OnUnauthorized(requestID)
	}
}

func (c *Client) nestedStatus(data []byte) (int, bool) {
	policy := c.cfg.NestedStatus
	if !policy.Enabled || len(data) == 0 || data[0] != '{' {
		return 0, false
	}
	fields := policy.Fields
	if len(fields) == 0 {
		fields = DefaultNestedStatusPolicy().Fields
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, false
	}
	for _, field := range fields {
		raw, ok := probe[field]
		if !ok {
			continue
		}
		var status int
		// only numeric fields count, mirroring the backend convention
		if err := json.Unmarshal(raw, &status); err == nil && status > 0 {
			return status, true
		}
	}
	return 0, false
}

func extractMessage(data []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.Message
}
