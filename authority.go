package swkauth

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/swklabs/swkauth/gateway"
	"github.com/swklabs/swkauth/signal"
	"github.com/swklabs/swkauth/store"
	"github.com/swklabs/swkauth/token"
)

// Authority is the session state machine: LoggedOut or LoggedIn(token,
// user). It is the only component that writes session state. All methods
// are safe for concurrent use.
//
// Transitions are serialized by an internal mutex but interleave at network
// boundaries, so two guards protect against stale completions: an epoch
// counter, bumped on every transition to LoggedOut, invalidates login
// responses that arrive after the session was independently cleared; an arm
// sequence, bumped whenever the expiry timer is (re)armed or cancelled,
// invalidates timer firings that belong to a prior session.
type Authority struct {
	config    Config
	sessions  store.Store
	broadcast *signal.Broadcaster
	ownsSig   bool
	auth      *gateway.AuthAPI
	dashboard *gateway.DashboardAPI
	audit     *auditDispatcher
	metrics   *Metrics
	navigator Navigator
	onChange  func(StateChange)

	mu      sync.Mutex
	token   string
	user    *store.User
	epoch   uint64
	armSeq  uint64
	timer  *time.Timer
	closed bool

	cancelSub func()
	subDone   chan struct{}
	closeOnce sync.Once
}

// Login exchanges credentials with the auth service and, on success,
// persists the session, transitions to LoggedIn, and arms the expiry timer.
// On failure the state is unchanged and the error (a *gateway.APIError for
// server rejections, carrying the display message) is returned to the
// caller; no retry is performed.
//
// A login that resolves after the session was independently cleared — a
// manual logout, an expiry, or an unauthorized broadcast while the request
// was in flight — is discarded and returns [ErrLoginSuperseded].
func (a *Authority) Login(ctx context.Context, identifier, password string) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAuthorityClosed
	}
	startEpoch := a.epoch
	a.mu.Unlock()

	creds, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		a.metrics.Inc(MetricLoginFailure)
		a.emit(AuditEvent{
			EventType: auditEventLoginFailure,
			Username:  identifier,
			Error:     err.Error(),
		})
		return err
	}

	user := &store.User{Username: creds.Username, Email: creds.Email}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrAuthorityClosed
	}
	if a.epoch != startEpoch {
		a.mu.Unlock()
		a.metrics.Inc(MetricLoginSuperseded)
		a.emit(AuditEvent{
			EventType: auditEventLoginSuperseded,
			Username:  creds.Username,
		})
		return ErrLoginSuperseded
	}

	a.token = creds.Token
	a.user = user
	if err := a.sessions.Save(ctx, creds.Token, user); err != nil {
		// in-memory state stays authoritative for the rest of the session
		a.metrics.Inc(MetricStoreWriteFailure)
		a.emit(AuditEvent{
			EventType: auditEventStorageWriteFailed,
			Username:  creds.Username,
			Error:     err.Error(),
		})
		log.Printf("swkauth: session persistence failed: %v", err)
	}
	expiredNow := a.armExpiryLocked()
	a.mu.Unlock()

	a.metrics.Inc(MetricLoginSuccess)
	a.emit(AuditEvent{
		EventType: auditEventLoginSuccess,
		Username:  creds.Username,
		Success:   true,
	})
	a.dispatch(&StateChange{
		LoggedIn: true,
		User:     cloneUser(user),
		Cause:    CauseLogin,
	})
	if expiredNow != nil {
		a.finishClear(expiredNow)
	}
	return nil
}

// Logout clears the session and cancels any armed expiry timer. When
// shouldRedirect is set, the Navigator is instructed to return to the login
// entry point. Calling Logout while already logged out is a no-op beyond
// timer cancellation; it still invalidates any in-flight login.
func (a *Authority) Logout(shouldRedirect bool) {
	a.mu.Lock()
	cleared := a.clearLocked(CauseLogout, shouldRedirect)
	a.mu.Unlock()

	if cleared != nil {
		a.metrics.Inc(MetricLogout)
	}
	a.finishClear(cleared)
}

// Register creates an account through the auth service and returns the
// server's confirmation message. It does not log the account in.
func (a *Authority) Register(ctx context.Context, email, username, password string) (string, error) {
	return a.auth.Register(ctx, email, username, password)
}

// IsAuthenticated reports whether the session is LoggedIn with a token that
// the codec confirms unexpired at this instant. It is recomputed on every
// call; a session past its expiry reads false even before the timer fires.
func (a *Authority) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token != "" && !token.IsExpired(a.token)
}

// Token returns the current bearer token, or "" when logged out. It
// implements gateway.TokenSource so requests read the token at send time.
func (a *Authority) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// CurrentUser returns a copy of the display profile, or nil when logged
// out.
func (a *Authority) CurrentUser() *User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneUser(a.user)
}

// Session returns the live token and profile, or [ErrNotAuthenticated] when
// logged out or past expiry.
func (a *Authority) Session() (string, *User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" || token.IsExpired(a.token) {
		return "", nil, ErrNotAuthenticated
	}
	return a.token, cloneUser(a.user), nil
}

// Dashboard exposes the data-service API slice bound to this session.
func (a *Authority) Dashboard() *gateway.DashboardAPI {
	return a.dashboard
}

// Signal returns the logout broadcast shared with the gateways, for wiring
// additional clients.
func (a *Authority) Signal() *LogoutSignal {
	return a.broadcast
}

// MetricsSnapshot returns a point-in-time copy of the session counters.
func (a *Authority) MetricsSnapshot() MetricsSnapshot {
	return a.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped by a full
// dispatcher buffer.
func (a *Authority) AuditDropped() uint64 {
	return a.audit.Dropped()
}

// Close cancels the expiry timer, detaches from the broadcast, and flushes
// the audit dispatcher. The persisted session is left untouched so the next
// start can restore it.
func (a *Authority) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		a.stopTimerLocked()
		a.mu.Unlock()

		if a.cancelSub != nil {
			a.cancelSub()
			<-a.subDone
		}
		a.audit.Close()
		if a.ownsSig {
			a.broadcast.Close()
		}
	})
}

// restore computes the initial state from the persistent store: a loadable,
// unexpired token revives the session and arms its timer; anything else —
// no record, a read failure, a malformed or expired token — resolves to
// LoggedOut with storage purged.
func (a *Authority) restore(ctx context.Context) {
	stored, user, err := a.sessions.Load(ctx)
	if err != nil || stored == "" {
		return
	}

	if token.IsExpired(stored) {
		_ = a.sessions.Clear(ctx)
		a.metrics.Inc(MetricSessionPurged)
		a.emit(AuditEvent{EventType: auditEventSessionPurged})
		return
	}

	a.mu.Lock()
	a.token = stored
	a.user = user
	expiredNow := a.armExpiryLocked()
	a.mu.Unlock()

	if expiredNow != nil {
		// expired between the validity check and the arm; same outcome as
		// finding it expired outright
		a.metrics.Inc(MetricSessionPurged)
		a.emit(AuditEvent{EventType: auditEventSessionPurged})
		return
	}

	a.metrics.Inc(MetricSessionRestored)
	a.emit(AuditEvent{
		EventType: auditEventSessionRestored,
		Username:  usernameOf(user),
		Success:   true,
	})
}

// watchSignal subscribes to the logout broadcast for the life of the
// Authority. Each notification drives the same transition as an expiry,
// without a redirect request; the presentation layer already received the
// original request's error.
func (a *Authority) watchSignal() {
	ch, cancel := a.broadcast.Subscribe()
	a.cancelSub = cancel
	a.subDone = make(chan struct{})

	go func() {
		defer close(a.subDone)
		for range ch {
			a.metrics.Inc(MetricLogoutSignalReceived)
			a.mu.Lock()
			cleared := a.clearLocked(CauseUnauthorized, false)
			a.mu.Unlock()
			a.finishClear(cleared)
		}
	}()
}

// armExpiryLocked cancels any prior timer and schedules a one-shot logout
// at the token's expiry instant. A token already at or past expiry is not
// scheduled: the clear happens now, and the pending StateChange is
// returned for the caller to dispatch outside the lock.
func (a *Authority) armExpiryLocked() *StateChange {
	a.stopTimerLocked()

	remaining, ok := token.ExpiresIn(a.token)
	if !ok || remaining <= 0 {
		return a.clearLocked(CauseExpired, false)
	}

	a.armSeq++
	seq := a.armSeq
	a.timer = time.AfterFunc(remaining, func() {
		a.expire(seq)
	})
	return nil
}

// expire is the timer callback. The sequence check rejects firings from a
// timer that was superseded after this callback was already in flight, so
// a stale timer can never log out a session established after it was
// armed. A timer-driven logout requests a redirect.
func (a *Authority) expire(seq uint64) {
	a.mu.Lock()
	if a.closed || seq != a.armSeq {
		a.mu.Unlock()
		return
	}
	cleared := a.clearLocked(CauseExpired, true)
	a.mu.Unlock()
	a.finishClear(cleared)
}

// clearLocked is the single transition to LoggedOut. It always cancels the
// timer and bumps the epoch (invalidating in-flight logins); when a live
// session was actually cleared it purges storage and returns the
// StateChange to dispatch. Storage failures never block the transition.
func (a *Authority) clearLocked(cause Cause, redirect bool) *StateChange {
	a.stopTimerLocked()
	a.epoch++

	if a.token == "" && a.user == nil {
		return nil
	}

	username := usernameOf(a.user)
	a.token = ""
	a.user = nil
	if err := a.sessions.Clear(context.Background()); err != nil {
		log.Printf("swkauth: session clear failed: %v", err)
	}

	return &StateChange{
		LoggedIn: false,
		Cause:    cause,
		Redirect: redirect,
		User:     &store.User{Username: username},
	}
}

// finishClear runs the post-transition effects of a clear: metrics, audit,
// change notification, and the redirect request. A nil change is the
// idempotent no-op case.
func (a *Authority) finishClear(change *StateChange) {
	if change == nil {
		return
	}

	username := usernameOf(change.User)
	change.User = nil

	switch change.Cause {
	case CauseExpired:
		a.metrics.Inc(MetricSessionExpired)
		a.emit(AuditEvent{EventType: auditEventSessionExpired, Username: username})
	case CauseUnauthorized:
		a.emit(AuditEvent{EventType: auditEventLogout, Username: username,
			Metadata: map[string]string{"cause": CauseUnauthorized.String()}})
	default:
		a.emit(AuditEvent{EventType: auditEventLogout, Username: username, Success: true})
	}

	a.dispatch(change)
}

func (a *Authority) stopTimerLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	// any callback already in flight fails its sequence check
	a.armSeq++
}

func (a *Authority) dispatch(change *StateChange) {
	if change == nil {
		return
	}
	if a.onChange != nil {
		a.onChange(*change)
	}
	if change.Redirect && a.navigator != nil {
		a.navigator.NavigateToLogin()
	}
}

// observeUnauthorized is the gateway hook, called once per intercepted
// unauthorized response before the broadcast lands.
func (a *Authority) observeUnauthorized(requestID string) {
	a.metrics.Inc(MetricUnauthorizedIntercepted)
	a.emit(AuditEvent{
		EventType: auditEventUnauthorized,
		RequestID: requestID,
	})
}

func (a *Authority) emit(event AuditEvent) {
	a.audit.Emit(context.Background(), event)
}

func cloneUser(u *store.User) *store.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func usernameOf(u *store.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}
