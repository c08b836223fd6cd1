package server

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	store := NewSessionStore(time.Hour)

	if store.Valid("") {
		t.Error("empty token should not validate")
	}
	if store.Valid("made-up") {
		t.Error("unknown token should not validate")
	}

	token := store.Issue()
	if token == "" {
		t.Fatal("Issue returned empty token")
	}
	if !store.Valid(token) {
		t.Error("freshly issued token should validate")
	}

	store.Revoke(token)
	if store.Valid(token) {
		t.Error("revoked token should not validate")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := NewSessionStore(time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	token := store.Issue()
	if !store.Valid(token) {
		t.Fatal("token should be valid before expiry")
	}

	now = now.Add(2 * time.Hour)
	if store.Valid(token) {
		t.Error("token should expire after TTL")
	}
	// Expired lookup removes the token entirely.
	now = now.Add(-2 * time.Hour)
	if store.Valid(token) {
		t.Error("expired token should have been removed")
	}
}

func TestSessionSweep(t *testing.T) {
	store := NewSessionStore(time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	stale := store.Issue()
	now = now.Add(30 * time.Minute)
	fresh := store.Issue()

	now = now.Add(45 * time.Minute)
	store.Sweep()

	store.mu.Lock()
	_, staleKept := store.tokens[stale]
	_, freshKept := store.tokens[fresh]
	store.mu.Unlock()

	if staleKept {
		t.Error("sweep should drop expired tokens")
	}
	if !freshKept {
		t.Error("sweep should keep live tokens")
	}
}
