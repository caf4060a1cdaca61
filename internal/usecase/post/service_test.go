package post

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/loomboard/feedrank/internal/domain"
	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
)

type mockPosts struct {
	created  []dompost.Post
	byID     map[string]dompost.Post
	byAuthor map[string][]dompost.Post
}

func (m *mockPosts) Create(_ context.Context, p dompost.Post) error {
	m.created = append(m.created, p)
	return nil
}

func (m *mockPosts) Get(_ context.Context, id string) (dompost.Post, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return dompost.Post{}, domain.ErrPostNotFound
}

func (m *mockPosts) ListByAuthor(_ context.Context, login string) ([]dompost.Post, error) {
	return m.byAuthor[login], nil
}

type mockTopics struct {
	ids     map[string]string
	implied []string
}

func (m *mockTopics) ResolveNames(_ context.Context, _ string, names []string) ([]string, error) {
	out := make([]string, len(names))
	for i, name := range names {
		id, ok := m.ids[name]
		if !ok {
			return nil, domain.ErrTopicNotFound
		}
		out[i] = id
	}
	return out, nil
}

func (m *mockTopics) Implied(_ context.Context, _ string, _ []string) ([]string, error) {
	return m.implied, nil
}

type mockEngagement struct {
	counters map[string]domeng.Counters
	votes    []string
	comments []string
}

func (m *mockEngagement) CountersFor(_ context.Context, postIDs []string, _ string) ([]domeng.Counters, error) {
	out := make([]domeng.Counters, len(postIDs))
	for i, id := range postIDs {
		out[i] = m.counters[id]
	}
	return out, nil
}

func (m *mockEngagement) Vote(_ context.Context, login, postID string, reaction int) error {
	m.votes = append(m.votes, login+"/"+postID)
	return nil
}

func (m *mockEngagement) Comment(_ context.Context, login, postID string) error {
	m.comments = append(m.comments, login+"/"+postID)
	return nil
}

type mockSections struct{ known map[string]bool }

func (m *mockSections) Exists(_ context.Context, name string) (bool, error) {
	return m.known[name], nil
}

type mockUsers struct{ known map[string]bool }

func (m *mockUsers) Exists(_ context.Context, login string) (bool, error) {
	return m.known[login], nil
}

type fixture struct {
	posts      *mockPosts
	topics     *mockTopics
	engagement *mockEngagement
	sections   *mockSections
	users      *mockUsers
}

func newFixture() *fixture {
	return &fixture{
		posts:      &mockPosts{byID: map[string]dompost.Post{}, byAuthor: map[string][]dompost.Post{}},
		topics:     &mockTopics{ids: map[string]string{}},
		engagement: &mockEngagement{counters: map[string]domeng.Counters{}},
		sections:   &mockSections{known: map[string]bool{"games": true}},
		users:      &mockUsers{known: map[string]bool{"alice": true}},
	}
}

func (f *fixture) service() *Service {
	return New(f.posts, f.topics, f.engagement, f.sections, f.users)
}

func TestCreate_ResolvesAndExpandsTopics(t *testing.T) {
	f := newFixture()
	f.topics.ids["rpg"] = "t-rpg"
	f.topics.implied = []string{"t-games"}
	svc := f.service()

	p, err := svc.Create(context.Background(), "alice", "games", "My first RPG", "text",
		[]string{"rpg"}, []string{"retro"}, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(f.posts.created) != 1 {
		t.Fatal("post was not persisted")
	}
	if p.ID() == "" {
		t.Error("post id was not assigned")
	}
	if len(p.TopicIDs()) != 1 || p.TopicIDs()[0] != "t-rpg" {
		t.Errorf("topic ids = %v", p.TopicIDs())
	}
	if len(p.ImpliedTopicIDs()) != 1 || p.ImpliedTopicIDs()[0] != "t-games" {
		t.Errorf("implied ids = %v", p.ImpliedTopicIDs())
	}
	if p.Author() != "alice" {
		t.Errorf("author = %q", p.Author())
	}
}

func TestCreate_FirstTimeAuthorStartsAtZero(t *testing.T) {
	f := newFixture()
	svc := f.service()

	p, err := svc.Create(context.Background(), "alice", "games", "t", "x", nil, nil, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.InitialScore() != 0 {
		t.Errorf("initial score = %v, want 0", p.InitialScore())
	}
}

func TestCreate_InitialScoreFromPriors(t *testing.T) {
	f := newFixture()
	// One prior post with a single like and no other signals:
	// ageless static = 0.3*Curve(0.6, 1) = 0.3*(1-0.5^0.6)*100.
	prior := dompost.Reconstruct("p0", "t", "", "alice", "games", 0, 0, nil, nil, nil)
	f.posts.byAuthor["alice"] = []dompost.Post{prior}
	f.engagement.counters["p0"] = domeng.Counters{Likes: 1}
	svc := f.service()

	p, err := svc.Create(context.Background(), "alice", "games", "t", "x", nil, nil, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := 0.3 * (1 - math.Pow(0.5, 0.6)) * 100
	if math.Abs(p.InitialScore()-want) > 1e-9 {
		t.Errorf("initial score = %v, want %v", p.InitialScore(), want)
	}
}

func TestCreate_AnonymousDropsAuthorAndScore(t *testing.T) {
	f := newFixture()
	prior := dompost.Reconstruct("p0", "t", "", "alice", "games", 0, 0, nil, nil, nil)
	f.posts.byAuthor["alice"] = []dompost.Post{prior}
	f.engagement.counters["p0"] = domeng.Counters{Likes: 10}
	svc := f.service()

	p, err := svc.Create(context.Background(), "alice", "games", "t", "x", nil, nil, true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Author() != "" {
		t.Errorf("author = %q, want anonymized", p.Author())
	}
	if p.InitialScore() != 0 {
		t.Errorf("initial score = %v, want 0 for anonymous posts", p.InitialScore())
	}
}

func TestCreate_RejectsAllPseudoSection(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Create(context.Background(), "alice", "all", "t", "x", nil, nil, false)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCreate_UnknownSection(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Create(context.Background(), "alice", "nope", "t", "x", nil, nil, false)
	if !errors.Is(err, domain.ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
}

func TestCreate_UnknownTopicName(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.Create(context.Background(), "alice", "games", "t", "x", []string{"nope"}, nil, false)
	if !errors.Is(err, domain.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestVote_InvalidReaction(t *testing.T) {
	f := newFixture()
	svc := f.service()

	for _, reaction := range []int{0, 2, -2} {
		if err := svc.Vote(context.Background(), "alice", "p1", reaction); !errors.Is(err, domain.ErrInvalidReaction) {
			t.Errorf("Vote(%d): expected ErrInvalidReaction, got %v", reaction, err)
		}
	}
	if len(f.engagement.votes) != 0 {
		t.Error("invalid reactions must not be recorded")
	}
}

func TestVote_UnknownPost(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if err := svc.Vote(context.Background(), "alice", "nope", 1); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestVote_Records(t *testing.T) {
	f := newFixture()
	f.posts.byID["p1"] = dompost.Reconstruct("p1", "t", "", "", "games", 0, 0, nil, nil, nil)
	svc := f.service()

	if err := svc.Vote(context.Background(), "alice", "p1", -1); err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if len(f.engagement.votes) != 1 || f.engagement.votes[0] != "alice/p1" {
		t.Errorf("votes = %v", f.engagement.votes)
	}
}

func TestComment_UnknownUser(t *testing.T) {
	f := newFixture()
	f.posts.byID["p1"] = dompost.Reconstruct("p1", "t", "", "", "games", 0, 0, nil, nil, nil)
	svc := f.service()

	if err := svc.Comment(context.Background(), "ghost", "p1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGet_ProjectsCounters(t *testing.T) {
	f := newFixture()
	f.posts.byID["p1"] = dompost.Reconstruct("p1", "t", "", "", "games", 0, 0, nil, nil, nil)
	f.engagement.counters["p1"] = domeng.Counters{Likes: 2, Comments: 1, ViewerReaction: 1}
	svc := f.service()

	d, err := svc.Get(context.Background(), "p1", "alice")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Likes != 2 || d.Comments != 1 || !d.Liked || d.Disliked {
		t.Errorf("detail = %+v", d)
	}
}
