package engagement

import (
	"context"
	"strings"
	"testing"

	"github.com/loomboard/feedrank/internal/db"
	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
)

// The consumer interface must stay assignable from the store facade the
// composition roots wire in.
var _ store = db.Store(nil)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hincrByFn      func(ctx context.Context, key, field string, delta int64) (int64, error)
	txWriteFn      func(ctx context.Context, writes []db.Write) error
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return make([]map[string]string, len(keys)), nil
}

func (m *mockStore) HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error) {
	if m.hincrByFn != nil {
		return m.hincrByFn(ctx, key, field, delta)
	}
	return delta, nil
}

func (m *mockStore) TxWrite(ctx context.Context, writes []db.Write) error {
	if m.txWriteFn != nil {
		return m.txWriteFn(ctx, writes)
	}
	return nil
}

func TestVote_WritesBothMirrors(t *testing.T) {
	var got []db.Write
	store := &mockStore{
		txWriteFn: func(_ context.Context, writes []db.Write) error {
			got = writes
			return nil
		},
	}
	repo := New(store)

	if err := repo.Vote(context.Background(), "alice", "p1", -1); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(got))
	}
	if got[0].HSet == nil || !strings.HasSuffix(got[0].HSet.Key, "votes:p1") || got[0].HSet.Fields["alice"] != "-1" {
		t.Errorf("post mirror write = %+v", got[0])
	}
	if got[1].HSet == nil || !strings.HasSuffix(got[1].HSet.Key, "user_votes:alice") || got[1].HSet.Fields["p1"] != "-1" {
		t.Errorf("user mirror write = %+v", got[1])
	}
}

func TestComment_BumpsBothCounters(t *testing.T) {
	bumped := map[string]string{}
	store := &mockStore{
		hincrByFn: func(_ context.Context, key, field string, delta int64) (int64, error) {
			bumped[key] = field
			if delta != 1 {
				t.Errorf("delta = %d, want 1", delta)
			}
			return 1, nil
		},
	}
	repo := New(store)

	if err := repo.Comment(context.Background(), "alice", "p1"); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if len(bumped) != 2 {
		t.Fatalf("expected 2 counters bumped, got %v", bumped)
	}
	for key, field := range bumped {
		if field != "p1" {
			t.Errorf("counter %q bumped field %q, want p1", key, field)
		}
	}
}

func TestCountersFor_CountsAndViewerReaction(t *testing.T) {
	store := &mockStore{
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			out := make([]map[string]string, len(keys))
			out[0] = map[string]string{"alice": "1", "bob": "1", "carol": "-1"}
			out[1] = map[string]string{}
			return out, nil
		},
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			return map[string]string{"p1": "4"}, nil
		},
	}
	repo := New(store)

	got, err := repo.CountersFor(context.Background(), []string{"p1", "p2"}, "carol")
	if err != nil {
		t.Fatalf("CountersFor: %v", err)
	}
	want0 := domeng.Counters{Likes: 2, Dislikes: 1, Comments: 4, ViewerReaction: -1}
	if got[0] != want0 {
		t.Errorf("counters[0] = %+v, want %+v", got[0], want0)
	}
	if got[1] != (domeng.Counters{}) {
		t.Errorf("counters[1] = %+v, want zero", got[1])
	}
}

func TestCountersFor_EmptyViewerLeavesReactionZero(t *testing.T) {
	store := &mockStore{
		hgetAllMultiFn: func(_ context.Context, keys []string) ([]map[string]string, error) {
			return []map[string]string{{"alice": "1"}}, nil
		},
	}
	repo := New(store)

	got, err := repo.CountersFor(context.Background(), []string{"p1"}, "")
	if err != nil {
		t.Fatalf("CountersFor: %v", err)
	}
	if got[0].ViewerReaction != 0 || got[0].Likes != 1 {
		t.Errorf("counters = %+v, want Likes=1 ViewerReaction=0", got[0])
	}
}

func TestVisits_ParsesCounts(t *testing.T) {
	store := &mockStore{
		hgetAllFn: func(_ context.Context, key string) (map[string]string, error) {
			if !strings.HasSuffix(key, "visits:alice") {
				t.Errorf("queried %q", key)
			}
			return map[string]string{"p1": "3", "p2": "1"}, nil
		},
	}
	repo := New(store)

	got, err := repo.Visits(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Visits: %v", err)
	}
	if got["p1"] != 3 || got["p2"] != 1 {
		t.Errorf("visits = %v", got)
	}
}
