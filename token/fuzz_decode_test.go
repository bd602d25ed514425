package token

import (
	"testing"
	"time"
)

// FuzzDecode asserts the codec never panics and never reports a token as
// valid-and-unexpired unless it actually decoded with a future expiry.
func FuzzDecode(f *testing.F) {
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJIUzI1NiJ9.eyJleHAiOjB9.sig")
	f.Add("....")
	f.Add("\x00\xff.\x00.\x00")

	f.Fuzz(func(t *testing.T, input string) {
		claims, err := Decode(input)
		if err != nil {
			if claims != nil {
				t.Fatal("claims must be nil on decode error")
			}
			if !IsExpired(input) {
				t.Fatal("undecodable token must be expired")
			}
			return
		}

		if claims.ExpiresAt == nil && !IsExpired(input) {
			t.Fatal("token without exp must be expired")
		}
		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) && !IsExpired(input) {
			t.Fatal("token with past exp must be expired")
		}
	})
}
