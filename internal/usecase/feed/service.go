package feed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/loomboard/feedrank/internal/domain"
	domfeed "github.com/loomboard/feedrank/internal/domain/feed"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
	"github.com/loomboard/feedrank/internal/domain/rank"
)

// Service assembles feed pages. Delivery is exactly-once per (session, feed
// context): every page drops the ids the session has already seen, and a page
// shorter than requested means the context is exhausted until new posts
// arrive.
type Service struct {
	posts      PostRepository
	topics     TopicRepository
	sections   SectionRepository
	users      UserRepository
	engagement EngagementRepository
	sessions   SessionRepository
	affinities AffinityProvider
}

// New creates a feed service.
func New(
	posts PostRepository,
	topics TopicRepository,
	sections SectionRepository,
	users UserRepository,
	engagement EngagementRepository,
	sessions SessionRepository,
	affinities AffinityProvider,
) *Service {
	return &Service{
		posts:      posts,
		topics:     topics,
		sections:   sections,
		users:      users,
		engagement: engagement,
		sessions:   sessions,
		affinities: affinities,
	}
}

// NextPage returns the next batch of entries for the selection. login is
// empty for anonymous viewers, who get purely static ranking and no visit
// tracking. A non-positive pageSize returns an empty page with no side
// effects.
func (s *Service) NextPage(ctx context.Context, sel domfeed.Selection, sessionID, login string, pageSize int, now time.Time) ([]domfeed.Entry, error) {
	if pageSize <= 0 {
		return nil, nil
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	candidates, err := s.candidates(ctx, sel)
	if err != nil {
		return nil, err
	}

	contextKey := sel.ContextKey()
	delivered, err := s.sessions.Delivered(ctx, sessionID, contextKey)
	if err != nil {
		return nil, fmt.Errorf("load delivery state: %w", err)
	}
	fresh := candidates[:0]
	for _, p := range candidates {
		if _, seen := delivered[p.ID()]; !seen {
			fresh = append(fresh, p)
		}
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	if login != "" {
		if _, err := s.affinities.Recompute(ctx, login, now, false); err != nil {
			return nil, fmt.Errorf("refresh affinities: %w", err)
		}
	}

	if sel.Mode() == domfeed.ModeAuthor {
		sort.Slice(fresh, func(i, j int) bool {
			if fresh[i].CreatedAt() != fresh[j].CreatedAt() {
				return fresh[i].CreatedAt() > fresh[j].CreatedAt()
			}
			return fresh[i].ID() < fresh[j].ID()
		})
		return s.deliver(ctx, fresh, nil, sessionID, contextKey, login, pageSize)
	}

	scores, err := s.score(ctx, fresh, login, now)
	if err != nil {
		return nil, err
	}
	sort.Slice(fresh, func(i, j int) bool {
		if scores[fresh[i].ID()] != scores[fresh[j].ID()] {
			return scores[fresh[i].ID()] > scores[fresh[j].ID()]
		}
		return fresh[i].ID() < fresh[j].ID()
	})
	return s.deliver(ctx, fresh, scores, sessionID, contextKey, login, pageSize)
}

// ClearContext drops the session's delivery state for the selection,
// re-opening its feed from the top. Hosts call it on feed-context switches.
func (s *Service) ClearContext(ctx context.Context, sessionID string, sel domfeed.Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	return s.sessions.Clear(ctx, sessionID, sel.ContextKey())
}

func (s *Service) candidates(ctx context.Context, sel domfeed.Selection) ([]dompost.Post, error) {
	switch sel.Mode() {
	case domfeed.ModeAuthor:
		ok, err := s.users.Exists(ctx, sel.Author)
		if err != nil {
			return nil, fmt.Errorf("check author: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, sel.Author)
		}
		return s.posts.ListByAuthor(ctx, sel.Author)

	case domfeed.ModeTopic:
		ok, err := s.sections.Exists(ctx, sel.Section)
		if err != nil {
			return nil, fmt.Errorf("check section: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sel.Section)
		}
		return s.topicCandidates(ctx, sel.Section, sel.TopicRef)

	default:
		ok, err := s.sections.Exists(ctx, sel.Section)
		if err != nil {
			return nil, fmt.Errorf("check section: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sel.Section)
		}
		return s.posts.ListBySection(ctx, sel.Section)
	}
}

// topicCandidates resolves a topic reference in order: registered name, then
// slug, then a free-text user-tag match across the section. An unmatched
// reference is an empty feed, not an error.
func (s *Service) topicCandidates(ctx context.Context, sectionName, ref string) ([]dompost.Post, error) {
	id, err := s.topics.ResolveName(ctx, sectionName, ref)
	if err != nil && !errors.Is(err, domain.ErrTopicNotFound) {
		return nil, err
	}
	if err != nil {
		id, err = s.topics.ResolveSlug(ctx, sectionName, ref)
		if err != nil && !errors.Is(err, domain.ErrTopicNotFound) {
			return nil, err
		}
	}
	if err == nil {
		return s.posts.ListByTopic(ctx, sectionName, id)
	}

	all, err := s.posts.ListBySection(ctx, sectionName)
	if err != nil {
		return nil, err
	}
	var tagged []dompost.Post
	for _, p := range all {
		if p.HasUserTag(ref) {
			tagged = append(tagged, p)
		}
	}
	return tagged, nil
}

func (s *Service) score(ctx context.Context, posts []dompost.Post, login string, now time.Time) (map[string]float64, error) {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID()
	}
	counters, err := s.engagement.CountersFor(ctx, ids, login)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}

	var (
		affinities map[string]float64
		visits     map[string]int
		membership map[string]bool
	)
	if login != "" {
		if affinities, err = s.affinities.GetAll(ctx, login); err != nil {
			return nil, fmt.Errorf("load affinities: %w", err)
		}
		if visits, err = s.engagement.Visits(ctx, login); err != nil {
			return nil, fmt.Errorf("load visits: %w", err)
		}
		membership = make(map[string]bool)
	}

	scores := make(map[string]float64, len(posts))
	for i, p := range posts {
		static := rank.StaticInputs{
			InitialScore: p.InitialScore(),
			Likes:        counters[i].Likes,
			Dislikes:     counters[i].Dislikes,
			Comments:     counters[i].Comments,
			AgeHours:     p.AgeHours(now),
		}
		if login == "" {
			scores[p.ID()] = rank.FinalScore(static, nil)
			continue
		}

		member, known := membership[p.Section()]
		if !known {
			if member, err = s.sections.IsMember(ctx, p.Section(), login); err != nil {
				return nil, fmt.Errorf("check membership: %w", err)
			}
			membership[p.Section()] = member
		}
		topicIDs := p.AllTopicIDs()
		topicAffinities := make([]float64, len(topicIDs))
		for j, topicID := range topicIDs {
			topicAffinities[j] = affinities[topicID]
		}
		specific := rank.SpecificInputs{
			TopicAffinities: topicAffinities,
			Visits:          visits[p.ID()],
			Member:          member,
		}
		scores[p.ID()] = rank.FinalScore(static, &specific)
	}
	return scores, nil
}

// deliver truncates the ordered candidates to one page, records the side
// effects, and projects the entries.
func (s *Service) deliver(ctx context.Context, ordered []dompost.Post, scores map[string]float64, sessionID, contextKey, login string, pageSize int) ([]domfeed.Entry, error) {
	if len(ordered) > pageSize {
		ordered = ordered[:pageSize]
	}
	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID()
	}

	counters, err := s.engagement.CountersFor(ctx, ids, login)
	if err != nil {
		return nil, fmt.Errorf("load counters: %w", err)
	}
	if login != "" {
		if err := s.engagement.IncrVisits(ctx, login, ids); err != nil {
			return nil, fmt.Errorf("record visits: %w", err)
		}
	}
	if err := s.sessions.MarkDelivered(ctx, sessionID, contextKey, ids); err != nil {
		return nil, fmt.Errorf("record delivery: %w", err)
	}

	entries := make([]domfeed.Entry, len(ordered))
	for i, p := range ordered {
		entries[i] = domfeed.Entry{
			Post:     p,
			Score:    scores[p.ID()],
			Likes:    counters[i].Likes,
			Dislikes: counters[i].Dislikes,
			Comments: counters[i].Comments,
			Liked:    counters[i].ViewerReaction > 0,
			Disliked: counters[i].ViewerReaction < 0,
		}
	}
	return entries, nil
}
