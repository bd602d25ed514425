// Package swkauth owns the client-side session of the SWK admin dashboard:
// the bearer token, its validity window, automatic expiry-driven logout, and
// the propagation of logout across every code path that can trigger it
// (explicit user action, the expiry timer, and unauthorized responses to
// unrelated requests).
//
// The stateful core is [Authority], built through [Builder]. It is the
// single writer of session state: Login persists the token/profile pair and
// arms a one-shot expiry timer; Logout clears both atomically; the
// [Authority.IsAuthenticated] predicate is recomputed against the token
// codec on every read, never cached. The network gateway (package gateway)
// attaches the current token to each outbound call and, on an unauthorized
// response, clears persisted state and publishes on the logout broadcast
// (package signal) — the Authority subscribes and completes the transition.
//
// # Architecture boundaries
//
// swkauth is the public surface. It exposes [Authority], [Builder],
// [Config], and value types (StateChange, MetricsSnapshot, audit sinks).
// Token decoding lives in token/, persistence in store/, HTTP in gateway/,
// the broadcast in signal/.
//
// # What this package must NOT do
//
//   - Verify token signatures or make authorization decisions; the token
//     is opaque to the client beyond its claims.
//   - Retry failed requests or refresh tokens. There is no refresh
//     mechanism; expiry or rejection always terminates the session.
//   - Let a storage failure block login or logout.
package swkauth
