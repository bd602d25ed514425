package swkauth

import (
	"github.com/swklabs/swkauth/signal"
	"github.com/swklabs/swkauth/store"
)

// User is the display profile of the authenticated principal, persisted
// alongside the token.
type User = store.User

// Cause identifies which code path drove a session transition.
type Cause uint8

const (
	// CauseLogin is a successful credential exchange.
	CauseLogin Cause = iota
	// CauseLogout is an explicit logout call.
	CauseLogout
	// CauseExpired is the expiry timer firing, or a token found already
	// expired.
	CauseExpired
	// CauseUnauthorized is a logout forced by the broadcast after an
	// unauthorized response.
	CauseUnauthorized
)

func (c Cause) String() string {
	switch c {
	case CauseLogin:
		return "login"
	case CauseLogout:
		return "logout"
	case CauseExpired:
		return "expired"
	case CauseUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// StateChange describes one committed session transition. Delivered to the
// OnChange callback after the transition is applied; read current state
// through the Authority's accessors, not by caching these values.
type StateChange struct {
	LoggedIn bool
	User     *User
	Cause    Cause
	Redirect bool
}

// Navigator is the presentation-layer hook: the Authority calls
// NavigateToLogin when a transition requests a redirect to the login entry
// point.
type Navigator interface {
	NavigateToLogin()
}

// NavigatorFunc adapts a func to the Navigator interface.
type NavigatorFunc func()

func (f NavigatorFunc) NavigateToLogin() { f() }

// LogoutSignal is the process-wide, payload-less logout broadcast shared by
// the Authority and the network gateway.
type LogoutSignal = signal.Broadcaster

// NewLogoutSignal creates a broadcast channel. The Builder creates one
// automatically; construct it yourself only to share it with additional
// gateway clients.
func NewLogoutSignal() *LogoutSignal {
	return signal.New()
}
