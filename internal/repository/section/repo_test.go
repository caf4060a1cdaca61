package section

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	domsection "github.com/loomboard/feedrank/internal/domain/section"
)

// The consumer interface must stay assignable from the store facade the
// composition roots wire in.
var _ store = db.Store(nil)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	smembersFn  func(ctx context.Context, key string) ([]string, error)
	sisMemberFn func(ctx context.Context, key, member string) (bool, error)
	saddFn      func(ctx context.Context, key string, members ...string) error
	txWriteFn   func(ctx context.Context, writes []db.Write) error
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	if m.smembersFn != nil {
		return m.smembersFn(ctx, key)
	}
	return nil, nil
}

func (m *mockStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if m.sisMemberFn != nil {
		return m.sisMemberFn(ctx, key, member)
	}
	return false, nil
}

func (m *mockStore) SAdd(ctx context.Context, key string, members ...string) error {
	if m.saddFn != nil {
		return m.saddFn(ctx, key, members...)
	}
	return nil
}

func (m *mockStore) TxWrite(ctx context.Context, writes []db.Write) error {
	if m.txWriteFn != nil {
		return m.txWriteFn(ctx, writes)
	}
	return nil
}

func TestCreate_WritesRecordAndRegistry(t *testing.T) {
	var got []db.Write
	store := &mockStore{
		txWriteFn: func(_ context.Context, writes []db.Write) error {
			got = writes
			return nil
		},
	}
	repo := New(store)

	s := domsection.Reconstruct("games", "video games", "gamepad")
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(got))
	}
	if got[0].HSet == nil || got[0].HSet.Fields["icon"] != "gamepad" {
		t.Errorf("record write = %+v", got[0])
	}
	if got[1].SAdd == nil || got[1].SAdd.Members[0] != "games" {
		t.Errorf("registry write = %+v", got[1])
	}
}

func TestCreate_Duplicate(t *testing.T) {
	store := &mockStore{
		sisMemberFn: func(_ context.Context, _, member string) (bool, error) {
			return member == "games", nil
		},
	}
	repo := New(store)

	s := domsection.Reconstruct("games", "", "gamepad")
	if err := repo.Create(context.Background(), s); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := New(&mockStore{})
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestExists_AllPseudoSection(t *testing.T) {
	store := &mockStore{
		sisMemberFn: func(_ context.Context, _, _ string) (bool, error) {
			t.Fatal("the all pseudo-section must not hit storage")
			return false, nil
		},
	}
	repo := New(store)

	ok, err := repo.Exists(context.Background(), domsection.All)
	if err != nil || !ok {
		t.Fatalf("Exists(all) = (%v, %v), want (true, nil)", ok, err)
	}
}

func TestMembership(t *testing.T) {
	var addedKey string
	store := &mockStore{
		saddFn: func(_ context.Context, key string, _ ...string) error {
			addedKey = key
			return nil
		},
		sisMemberFn: func(_ context.Context, key, member string) (bool, error) {
			return strings.HasSuffix(key, "section_members:games") && member == "alice", nil
		},
	}
	repo := New(store)

	if err := repo.AddMember(context.Background(), "games", "alice"); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !strings.HasSuffix(addedKey, "section_members:games") {
		t.Errorf("added to %q", addedKey)
	}
	ok, err := repo.IsMember(context.Background(), "games", "alice")
	if err != nil || !ok {
		t.Fatalf("IsMember = (%v, %v), want (true, nil)", ok, err)
	}
}
