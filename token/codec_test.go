package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return signed
}

func TestDecodeValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := mintToken(t, "alice", exp)

	claims, err := Decode(tok)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected username alice, got %q", claims.Username)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Time.Equal(exp) {
		t.Fatalf("expected exp %v, got %v", exp, claims.ExpiresAt.Time)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"no_segments":     "not-a-token",
		"two_segments":    "aaaa.bbbb",
		"bad_base64":      "aaaa.!!!!.cccc",
		"non_json_claims": "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte("hello")) + ".sig",
	}

	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(tok); err == nil {
				t.Fatalf("expected decode error for %q", tok)
			}
			// decode failure always implies expired
			if !IsExpired(tok) {
				t.Fatalf("expected IsExpired true for %q", tok)
			}
		})
	}
}

func TestDecodeNonNumericExpiry(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u1","exp":"tomorrow"}`))
	tok := header + "." + payload + ".sig"

	if _, err := Decode(tok); err == nil {
		t.Fatal("expected decode error for non-numeric exp")
	}
	if !IsExpired(tok) {
		t.Fatal("expected IsExpired true for non-numeric exp")
	}
}

func TestIsExpiredMissingExpClaim(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "u1",
	}).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if !IsExpired(signed) {
		t.Fatal("token without exp claim must be treated as expired")
	}
}

func TestIsExpiredBoundary(t *testing.T) {
	now := time.Now()

	past := mintToken(t, "alice", now.Add(-time.Second))
	if !isExpiredAt(past, now) {
		t.Fatal("expected past token expired")
	}

	atInstant := mintToken(t, "alice", now.Truncate(time.Second))
	if !isExpiredAt(atInstant, now.Truncate(time.Second)) {
		t.Fatal("token is expired at exactly its expiry instant")
	}

	future := mintToken(t, "alice", now.Add(time.Hour))
	if isExpiredAt(future, now) {
		t.Fatal("expected future token valid")
	}
}

func TestExpiresIn(t *testing.T) {
	tok := mintToken(t, "alice", time.Now().Add(time.Hour))

	d, ok := ExpiresIn(tok)
	if !ok {
		t.Fatal("expected ExpiresIn ok for valid token")
	}
	if d <= 55*time.Minute || d > time.Hour {
		t.Fatalf("unexpected remaining window: %v", d)
	}

	if _, ok := ExpiresIn("garbage"); ok {
		t.Fatal("expected ExpiresIn not ok for garbage")
	}
}
