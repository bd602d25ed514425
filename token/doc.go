// Package token decodes the self-describing claims carried inside a bearer
// token without verifying its signature.
//
// # Design
//
// The SWK client never holds the signing key; signature verification is the
// auth service's job. What the client needs is the expiry instant and the
// subject identity embedded in the token, so [Decode] performs an unverified
// parse of the claims segment. A decoded token is therefore *untrusted* —
// the only decisions made on it are local scheduling and display, never
// authorization.
//
// [IsExpired] is the single expiry predicate in the module. Every other
// component (the session authority, the startup restore path, the expiry
// scheduler) delegates to it; no caller recomputes expiry on its own.
//
// # What this package must NOT do
//
//   - Verify signatures or pretend a decoded token is trustworthy.
//   - Perform network or storage I/O.
//   - Panic on malformed input: any garbage string decodes to an error.
package token
