package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loomboard/feedrank/internal/domain"
	domsection "github.com/loomboard/feedrank/internal/domain/section"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

// Service handles accounts, sections and the administrative topic flow.
type Service struct {
	users    Repository
	sections SectionRepository
	topics   TopicRepository
}

// New creates a user service.
func New(users Repository, sections SectionRepository, topics TopicRepository) *Service {
	return &Service{users: users, sections: sections, topics: topics}
}

// Register validates and stores a new account. autoRecompute opts the user
// into scheduled affinity recomputes.
func (s *Service) Register(ctx context.Context, login, name string, autoRecompute bool) (domuser.User, error) {
	u, err := domuser.New(login, name, autoRecompute)
	if err != nil {
		return domuser.User{}, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return domuser.User{}, fmt.Errorf("register user: %w", err)
	}
	return u, nil
}

// Get returns an account by login.
func (s *Service) Get(ctx context.Context, login string) (domuser.User, error) {
	return s.users.Get(ctx, login)
}

// JoinSection enrolls a user into a section. Membership lifts the ranking of
// the section's posts for that user.
func (s *Service) JoinSection(ctx context.Context, login, sectionName string) error {
	ok, err := s.users.Exists(ctx, login)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, login)
	}
	if sectionName == domsection.All {
		return fmt.Errorf("%w: cannot join the %q pseudo-section", domain.ErrInvalidArgument, domsection.All)
	}
	ok, err = s.sections.Exists(ctx, sectionName)
	if err != nil {
		return fmt.Errorf("check section: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sectionName)
	}
	if err := s.sections.AddMember(ctx, sectionName, login); err != nil {
		return fmt.Errorf("join section: %w", err)
	}
	return nil
}

// CreateSection validates and stores a new section.
func (s *Service) CreateSection(ctx context.Context, name, description, icon string) (domsection.Section, error) {
	sec, err := domsection.New(name, description, icon)
	if err != nil {
		return domsection.Section{}, err
	}
	if err := s.sections.Create(ctx, sec); err != nil {
		return domsection.Section{}, fmt.Errorf("create section: %w", err)
	}
	return sec, nil
}

// ListSections returns the names of all sections.
func (s *Service) ListSections(ctx context.Context) ([]string, error) {
	return s.sections.List(ctx)
}

// CreateTopic validates and stores a new topic in a section. New topics
// start at level 0; implications raise levels later.
func (s *Service) CreateTopic(ctx context.Context, sectionName, name, slug, tooltip string) (domtopic.Topic, error) {
	ok, err := s.sections.Exists(ctx, sectionName)
	if err != nil {
		return domtopic.Topic{}, fmt.Errorf("check section: %w", err)
	}
	if !ok {
		return domtopic.Topic{}, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sectionName)
	}
	if sectionName == domsection.All {
		return domtopic.Topic{}, fmt.Errorf("%w: topics belong to concrete sections", domain.ErrInvalidArgument)
	}

	t, err := domtopic.New(uuid.NewString(), sectionName, name, slug, tooltip)
	if err != nil {
		return domtopic.Topic{}, err
	}
	if err := s.topics.Create(ctx, t); err != nil {
		return domtopic.Topic{}, fmt.Errorf("create topic: %w", err)
	}
	return t, nil
}
