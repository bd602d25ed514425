package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned by [Decode] when the token is empty, not a
// three-segment JWT, carries invalid base64url encoding, or its claims
// segment is not valid JSON.
var ErrMalformed = errors.New("malformed token")

// Claims is the decoded, unverified claim set of a bearer token. Subject
// identity lives in the embedded RegisteredClaims.Subject; ExpiresAt is the
// single source of truth for expiry scheduling.
type Claims struct {
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

var parser = jwt.NewParser()

// Decode splits the token into its structural segments and parses the
// claims segment without verifying the signature. Any malformed segment,
// invalid encoding, or non-numeric expiry field yields [ErrMalformed];
// callers must treat an error as "untrusted/expired", never as fatal.
func Decode(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformed
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrMalformed
	}

	return claims, nil
}

// IsExpired reports whether the token is absent, undecodable, missing an
// expiry claim, or expired at the current wall-clock time. A token that
// fails [Decode] is always expired.
func IsExpired(tokenStr string) bool {
	return isExpiredAt(tokenStr, time.Now())
}

func isExpiredAt(tokenStr string, now time.Time) bool {
	claims, err := Decode(tokenStr)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !now.Before(claims.ExpiresAt.Time)
}

// ExpiresIn returns the remaining validity window of the token. The second
// return is false when the token is undecodable or carries no expiry claim;
// a zero or negative duration means the token is already expired.
func ExpiresIn(tokenStr string) (time.Duration, bool) {
	claims, err := Decode(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return 0, false
	}
	return time.Until(claims.ExpiresAt.Time), true
}
