// Package signal implements the process-wide logout broadcast: one named,
// payload-less event that any publisher can fire and any subscriber can
// observe, without either side holding a reference to the other.
//
// # Design
//
// The network gateway has no reference to the session authority; when it
// observes an unauthorized response it publishes here, and the authority —
// the one subscriber that matters functionally — reacts by logging out.
// Delivery is fire-and-forget: each subscriber owns a buffered channel of
// capacity one, publishes coalesce while a notification is pending, and a
// publish with zero subscribers is a silent no-op. Publishers never wait on
// subscriber completion.
//
// # What this package must NOT do
//
//   - Carry payloads or retain a backlog.
//   - Block a publisher, ever.
package signal
