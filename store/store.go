package store

import (
	"context"
	"errors"
	"sync"
)

// ErrUnavailable wraps backend failures (filesystem refusals, Redis
// connectivity). Callers degrade gracefully: a failed Save leaves in-memory
// state as the source of truth, a failed Load is treated as no session, and
// a failed Clear never blocks logout.
var ErrUnavailable = errors.New("session storage unavailable")

// User is the denormalized display profile persisted alongside the token so
// the UI can render without a network round-trip. The wire/persisted layout
// keeps the backend's field name for the email ("correo").
type User struct {
	Username string `json:"username"`
	Email    string `json:"correo"`
}

// Store is durable key-value persistence for the current session. Save and
// Clear operate on the token/profile pair atomically; Load returns
// ("", nil, nil) when no session is persisted.
type Store interface {
	Save(ctx context.Context, token string, user *User) error
	Load(ctx context.Context) (token string, user *User, err error)
	Clear(ctx context.Context) error
}

// MemoryStore is an in-process Store. It is the test double of choice and
// the fallback when no durable backend is configured.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.user = cloneUser(user)
	return nil
}

func (s *MemoryStore) Load(context.Context) (string, *User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.token, cloneUser(s.user), nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	return nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
