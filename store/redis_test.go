package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "swk"), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	s, _ := newRedisStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-1", &User{Username: "alice", Email: "a@b.com"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	token, user, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("expected token tok-1, got %q", token)
	}
	if user == nil || user.Username != "alice" || user.Email != "a@b.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	s, _ := newRedisStore(t)

	token, user, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if token != "" || user != nil {
		t.Fatal("expected empty session")
	}
}

func TestRedisStoreClearRemovesBothKeys(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, "tok-1", &User{Username: "alice"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if mr.Exists("swk:token") || mr.Exists("swk:user") {
		t.Fatal("expected both keys removed")
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	if err := s.Save(context.Background(), "tok-1", nil); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if _, _, err := s.Load(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := s.Clear(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
