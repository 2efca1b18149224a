package storage

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Volodapatik/cherkasy-outage-watcher/internal/model"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSubscriptionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	sub := model.PushSubscription{
		Endpoint: "https://push.example.com/ep-1",
		P256dh:   "key-1",
		Auth:     "auth-1",
	}
	if err := s.Upsert(ctx, sub); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	subs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]model.PushSubscription{sub}, subs); diff != "" {
		t.Errorf("subscriptions mismatch (-want +got):\n%s", diff)
	}

	if err := s.Remove(ctx, sub.Endpoint); err != nil {
		t.Fatalf("remove: %v", err)
	}
	subs, err = s.List(ctx)
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("expected no subscriptions after remove, got %d", len(subs))
	}
}

func TestUpsertRefreshesKeys(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	endpoint := "https://push.example.com/ep-1"
	if err := s.Upsert(ctx, model.PushSubscription{Endpoint: endpoint, P256dh: "old", Auth: "old"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert(ctx, model.PushSubscription{Endpoint: endpoint, P256dh: "new", Auth: "new"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	subs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("same endpoint must not duplicate, got %d rows", len(subs))
	}
	if subs[0].P256dh != "new" || subs[0].Auth != "new" {
		t.Errorf("keys not refreshed: %+v", subs[0])
	}
}

func TestUpsertEvictsOldestBeyondCap(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	orig := maxSubscriptions
	maxSubscriptions = 3
	t.Cleanup(func() { maxSubscriptions = orig })

	// Backdated rows so eviction order is driven by created_at.
	seed := []struct {
		endpoint  string
		createdAt string
	}{
		{"https://push.example.com/ep-old", "2026-01-01T00:00:00Z"},
		{"https://push.example.com/ep-mid", "2026-01-02T00:00:00Z"},
		{"https://push.example.com/ep-new", "2026-01-03T00:00:00Z"},
	}
	for _, row := range seed {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO subscriptions (endpoint, p256dh, auth, created_at) VALUES (?, ?, ?, ?)`,
			row.endpoint, "key", "auth", row.createdAt,
		)
		if err != nil {
			t.Fatalf("seed %s: %v", row.endpoint, err)
		}
	}

	latest := model.PushSubscription{Endpoint: "https://push.example.com/ep-latest", P256dh: "key", Auth: "auth"}
	if err := s.Upsert(ctx, latest); err != nil {
		t.Fatalf("upsert over cap: %v", err)
	}

	subs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var endpoints []string
	for _, sub := range subs {
		endpoints = append(endpoints, sub.Endpoint)
	}
	want := []string{
		"https://push.example.com/ep-mid",
		"https://push.example.com/ep-new",
		"https://push.example.com/ep-latest",
	}
	if diff := cmp.Diff(want, endpoints); diff != "" {
		t.Errorf("surviving endpoints mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveUnknownEndpointIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLite(t)

	if err := s.Remove(ctx, "https://push.example.com/unknown"); err != nil {
		t.Errorf("removing an unknown endpoint should not error: %v", err)
	}
}
