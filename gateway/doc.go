// Package gateway wraps every outbound HTTP call the SWK client makes.
//
// # Design
//
// A [Client] attaches the current bearer token to each request, reading it
// fresh from its [TokenSource] at send time — never caching it into the
// request layer — so a logout that lands mid-flight cannot leak a stale
// token into a request built afterwards.
//
// When a response comes back unauthorized (a transport-level 401, or a
// recognized nested status inside a 2xx body, see [NestedStatusPolicy]),
// the client clears the persistent session store directly and publishes on
// the logout broadcast, exactly once per offending response, before
// propagating the error to the caller. There is no retry and no token
// refresh: expiry or rejection always terminates the session.
//
// # Architecture boundaries
//
// The gateway may Clear the session store (defense in depth on the logout
// path) but never writes a token; the session authority is the single
// writer for session creation. The gateway holds no reference to the
// authority — the broadcast is the only coupling.
//
// [AuthAPI] and [DashboardAPI] are the typed endpoint slices the dashboard
// consumes through the client.
package gateway
