package feedrank

import (
	"context"

	useruc "github.com/loomboard/feedrank/internal/usecase/user"
)

// UserService manages accounts, sections, and curated topics.
type UserService struct {
	svc *useruc.Service
}

// Register creates an account. autoRecompute opts the user into periodic
// affinity recomputation.
func (s *UserService) Register(ctx context.Context, login, name string, autoRecompute bool) (User, error) {
	u, err := s.svc.Register(ctx, login, name, autoRecompute)
	if err != nil {
		return User{}, err
	}
	return userFromDomain(u), nil
}

// Get returns an account by login.
func (s *UserService) Get(ctx context.Context, login string) (User, error) {
	u, err := s.svc.Get(ctx, login)
	if err != nil {
		return User{}, err
	}
	return userFromDomain(u), nil
}

// JoinSection adds the user to a section's member set.
func (s *UserService) JoinSection(ctx context.Context, login, section string) error {
	return s.svc.JoinSection(ctx, login, section)
}

// CreateSection creates a forum section.
func (s *UserService) CreateSection(ctx context.Context, name, description, icon string) (Section, error) {
	sec, err := s.svc.CreateSection(ctx, name, description, icon)
	if err != nil {
		return Section{}, err
	}
	return sectionFromDomain(sec), nil
}

// ListSections returns every section name.
func (s *UserService) ListSections(ctx context.Context) ([]string, error) {
	return s.svc.ListSections(ctx)
}

// CreateTopic creates a curated topic within a section.
func (s *UserService) CreateTopic(ctx context.Context, section, name, slug, tooltip string) (Topic, error) {
	t, err := s.svc.CreateTopic(ctx, section, name, slug, tooltip)
	if err != nil {
		return Topic{}, err
	}
	return topicFromDomain(t), nil
}
