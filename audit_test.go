package swkauth

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/swklabs/swkauth/store"
)

func newTestDispatcher(t *testing.T, cfg AuditConfig, sink AuditSink) *auditDispatcher {
	t.Helper()

	d := newAuditDispatcher(cfg, sink)
	if d != nil {
		t.Cleanup(d.Close)
	}
	return d
}

func TestDispatcherDeliversToSink(t *testing.T) {
	sink := NewChannelSink(4)
	d := newTestDispatcher(t, AuditConfig{Enabled: true, BufferSize: 4}, sink)

	d.Emit(context.Background(), AuditEvent{EventType: auditEventLoginSuccess, Username: "ana", Success: true})

	select {
	case event := <-sink.Events():
		if event.EventType != auditEventLoginSuccess || event.Username != "ana" {
			t.Fatalf("event = %+v", event)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected dispatcher to stamp the timestamp")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := newTestDispatcher(t, AuditConfig{Enabled: false}, nil)
	if d != nil {
		t.Fatal("expected nil dispatcher when audit disabled")
	}

	// nil receiver must be safe everywhere the authority calls it
	d.Emit(context.Background(), AuditEvent{EventType: auditEventLogout})
	d.Close()
	if got := d.Dropped(); got != 0 {
		t.Fatalf("Dropped = %d, want 0", got)
	}
}

type gatedSink struct {
	release chan struct{}
	once    sync.Once

	mu     sync.Mutex
	events []AuditEvent
}

func newGatedSink() *gatedSink {
	return &gatedSink{release: make(chan struct{})}
}

func (s *gatedSink) Emit(_ context.Context, event AuditEvent) {
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *gatedSink) open() {
	s.once.Do(func() { close(s.release) })
}

func (s *gatedSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := newGatedSink()
	d := newTestDispatcher(t, AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// one event can sit in the sink, one in the buffer; the rest must drop
	for i := 0; i < 5; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: auditEventLogout})
	}

	if got := d.Dropped(); got < 3 {
		t.Fatalf("Dropped = %d, want at least 3", got)
	}

	sink.open()
	d.Close()

	if got := sink.count(); got == 0 || got > 2 {
		t.Fatalf("sink received %d events, want 1 or 2", got)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		EventType: auditEventSessionExpired,
		Username:  "ana",
	})
	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
		EventType: auditEventLogout,
		Username:  "ana",
		Success:   true,
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}

	var first AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first line: %v", err)
	}
	if first.EventType != auditEventSessionExpired || first.Username != "ana" {
		t.Fatalf("first event = %+v", first)
	}
}

func TestAuthorityEmitsLifecycleAuditEvents(t *testing.T) {
	sink := NewChannelSink(16)

	cfg := DefaultConfig()
	cfg.Auth.BaseURL = unreachableURL
	cfg.API.BaseURL = unreachableURL
	cfg.Audit = AuditConfig{Enabled: true, BufferSize: 16}

	tok := mintToken(t, "ana", time.Hour)
	sessions := store.NewMemoryStore()
	if err := sessions.Save(context.Background(), tok, &store.User{Username: "ana"}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	a, err := New().WithConfig(cfg).WithStore(sessions).WithAuditSink(sink).Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(a.Close)

	expectEvent(t, sink, auditEventSessionRestored)

	a.Logout(false)
	expectEvent(t, sink, auditEventLogout)
}

func expectEvent(t *testing.T, sink *ChannelSink, eventType string) {
	t.Helper()

	select {
	case event := <-sink.Events():
		if event.EventType != eventType {
			t.Fatalf("event = %q, want %q", event.EventType, eventType)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event %q not emitted", eventType)
	}
}
