package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/loomboard/feedrank/internal/db"
)

// The consumer interface must stay assignable from the store facade the
// composition roots wire in.
var _ store = db.Store(nil)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	saddFn     func(ctx context.Context, key string, members ...string) error
	smembersFn func(ctx context.Context, key string) ([]string, error)
	expireFn   func(ctx context.Context, key string, ttl time.Duration) error
	delFn      func(ctx context.Context, key string) error
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if m.expireFn != nil {
		return m.expireFn(ctx, key, ttl)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func TestDelivered_BuildsLookupSet(t *testing.T) {
	store := &mockStore{
		smembersFn: func(_ context.Context, key string) ([]string, error) {
			if !strings.HasSuffix(key, "delivered:s1:section/games") {
				t.Errorf("queried %q", key)
			}
			return []string{"p1", "p2"}, nil
		},
	}
	repo := New(store, time.Hour)

	got, err := repo.Delivered(context.Background(), "s1", "section/games")
	if err != nil {
		t.Fatalf("Delivered: %v", err)
	}
	if _, ok := got["p1"]; !ok {
		t.Error("p1 missing from delivered set")
	}
	if len(got) != 2 {
		t.Errorf("delivered set size = %d, want 2", len(got))
	}
}

func TestMarkDelivered_AddsAndRefreshesTTL(t *testing.T) {
	var added []string
	var refreshed time.Duration
	store := &mockStore{
		saddFn: func(_ context.Context, _ string, members ...string) error {
			added = members
			return nil
		},
		expireFn: func(_ context.Context, _ string, ttl time.Duration) error {
			refreshed = ttl
			return nil
		},
	}
	repo := New(store, 2*time.Hour)

	if err := repo.MarkDelivered(context.Background(), "s1", "section/games", []string{"p1", "p2"}); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
	if len(added) != 2 {
		t.Errorf("added = %v", added)
	}
	if refreshed != 2*time.Hour {
		t.Errorf("ttl = %v, want 2h", refreshed)
	}
}

func TestMarkDelivered_EmptyIsNoOp(t *testing.T) {
	store := &mockStore{
		saddFn: func(_ context.Context, _ string, _ ...string) error {
			t.Fatal("SAdd must not be called for an empty batch")
			return nil
		},
	}
	repo := New(store, time.Hour)

	if err := repo.MarkDelivered(context.Background(), "s1", "section/games", nil); err != nil {
		t.Fatalf("MarkDelivered: %v", err)
	}
}

func TestClear_DeletesContextKey(t *testing.T) {
	var deleted string
	store := &mockStore{
		delFn: func(_ context.Context, key string) error {
			deleted = key
			return nil
		},
	}
	repo := New(store, time.Hour)

	if err := repo.Clear(context.Background(), "s1", "topic/games/rpg"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !strings.HasSuffix(deleted, "delivered:s1:topic/games/rpg") {
		t.Errorf("deleted %q", deleted)
	}
}
