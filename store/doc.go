// Package store persists the current session — exactly two values, the
// bearer token and the display profile — across client restarts.
//
// # Design
//
// The [Store] interface is deliberately tiny: Save writes both values
// together, Load reads both, Clear removes both. A session is never
// partially persisted; backends must treat the pair as one unit.
//
// Three backends ship with the module: [FileStore] (a JSON file scoped to
// the client installation, the default), [RedisStore] (for shared or kiosk
// installations where several clients observe one session), and
// [MemoryStore] (tests, and the fallback when durable storage is refused).
//
// # Architecture boundaries
//
// The session authority is the only component allowed to Save. The network
// gateway may Clear (the unauthorized-response path) but never writes a
// token, preserving a single writer for session creation.
//
// # What this package must NOT do
//
//   - Validate or decode tokens; that is the token package's job.
//   - Block logout: Clear failures are reported but callers swallow them.
package store
