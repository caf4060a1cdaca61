package user

import (
	"context"
	"errors"
	"testing"

	"github.com/loomboard/feedrank/internal/domain"
	domsection "github.com/loomboard/feedrank/internal/domain/section"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

type mockUsers struct {
	created []domuser.User
	known   map[string]bool
}

func (m *mockUsers) Create(_ context.Context, u domuser.User) error {
	m.created = append(m.created, u)
	return nil
}

func (m *mockUsers) Get(_ context.Context, login string) (domuser.User, error) {
	if m.known[login] {
		return domuser.Reconstruct(login, "", false, 0), nil
	}
	return domuser.User{}, domain.ErrUserNotFound
}

func (m *mockUsers) Exists(_ context.Context, login string) (bool, error) {
	return m.known[login], nil
}

type mockSections struct {
	created []domsection.Section
	known   map[string]bool
	members []string
}

func (m *mockSections) Create(_ context.Context, s domsection.Section) error {
	m.created = append(m.created, s)
	return nil
}

func (m *mockSections) Get(_ context.Context, name string) (domsection.Section, error) {
	if m.known[name] {
		return domsection.Reconstruct(name, "", "gamepad"), nil
	}
	return domsection.Section{}, domain.ErrSectionNotFound
}

func (m *mockSections) Exists(_ context.Context, name string) (bool, error) {
	return name == domsection.All || m.known[name], nil
}

func (m *mockSections) List(_ context.Context) ([]string, error) {
	out := make([]string, 0, len(m.known))
	for name := range m.known {
		out = append(out, name)
	}
	return out, nil
}

func (m *mockSections) AddMember(_ context.Context, name, login string) error {
	m.members = append(m.members, name+"/"+login)
	return nil
}

type mockTopics struct {
	created []domtopic.Topic
}

func (m *mockTopics) Create(_ context.Context, t domtopic.Topic) error {
	m.created = append(m.created, t)
	return nil
}

func newService() (*Service, *mockUsers, *mockSections, *mockTopics) {
	users := &mockUsers{known: map[string]bool{}}
	sections := &mockSections{known: map[string]bool{}}
	topics := &mockTopics{}
	return New(users, sections, topics), users, sections, topics
}

func TestRegister_Valid(t *testing.T) {
	svc, users, _, _ := newService()

	u, err := svc.Register(context.Background(), "alice_99", "Alice", true)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(users.created) != 1 {
		t.Fatal("user was not persisted")
	}
	if u.Login() != "alice_99" || !u.AutoRecompute() {
		t.Errorf("user = %+v", u)
	}
}

func TestRegister_InvalidLogin(t *testing.T) {
	svc, users, _, _ := newService()

	for _, login := range []string{"", "ab", "9starts", "UPPER", "way_too_long_for_a_login_name"} {
		if _, err := svc.Register(context.Background(), login, "", false); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("Register(%q): expected ErrInvalidArgument, got %v", login, err)
		}
	}
	if len(users.created) != 0 {
		t.Error("invalid logins must not be persisted")
	}
}

func TestJoinSection(t *testing.T) {
	svc, users, sections, _ := newService()
	users.known["alice"] = true
	sections.known["games"] = true

	if err := svc.JoinSection(context.Background(), "alice", "games"); err != nil {
		t.Fatalf("JoinSection: %v", err)
	}
	if len(sections.members) != 1 || sections.members[0] != "games/alice" {
		t.Errorf("members = %v", sections.members)
	}
}

func TestJoinSection_AllPseudoSection(t *testing.T) {
	svc, users, _, _ := newService()
	users.known["alice"] = true

	if err := svc.JoinSection(context.Background(), "alice", domsection.All); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestJoinSection_UnknownSection(t *testing.T) {
	svc, users, _, _ := newService()
	users.known["alice"] = true

	if err := svc.JoinSection(context.Background(), "alice", "nope"); !errors.Is(err, domain.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestCreateSection_InvalidIcon(t *testing.T) {
	svc, _, sections, _ := newService()

	if _, err := svc.CreateSection(context.Background(), "games", "", "no-such-icon"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if len(sections.created) != 0 {
		t.Error("invalid sections must not be persisted")
	}
}

func TestCreateTopic(t *testing.T) {
	svc, _, sections, topics := newService()
	sections.known["programming"] = true

	tp, err := svc.CreateTopic(context.Background(), "programming", "c++11", "cpp11", "ISO C++ 2011")
	if err != nil {
		t.Fatalf("CreateTopic: %v", err)
	}
	if len(topics.created) != 1 {
		t.Fatal("topic was not persisted")
	}
	if tp.ID() == "" || tp.Level() != 0 {
		t.Errorf("topic = %+v, want a fresh id at level 0", tp)
	}
}

func TestCreateTopic_AllPseudoSection(t *testing.T) {
	svc, _, _, _ := newService()

	if _, err := svc.CreateTopic(context.Background(), domsection.All, "x", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
