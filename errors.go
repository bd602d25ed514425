package swkauth

import "errors"

var (
	// ErrAuthorityClosed is returned by operations on an Authority after
	// Close.
	ErrAuthorityClosed = errors.New("session authority closed")

	// ErrLoginSuperseded is returned when a login completes after the
	// session was independently cleared (manual logout, expiry, or an
	// unauthorized response) while the request was in flight. The session
	// stays logged out; the credentials were accepted by the server but the
	// local result is discarded rather than resurrecting a killed session.
	ErrLoginSuperseded = errors.New("login superseded by logout")

	// ErrNotAuthenticated is returned by operations that require a live
	// session.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrBuilderReused is returned by Build on a Builder that already built
	// an Authority.
	ErrBuilderReused = errors.New("builder already used")
)
