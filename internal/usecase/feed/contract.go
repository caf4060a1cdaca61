package feed

import (
	"context"
	"time"

	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
)

// PostRepository supplies feed candidates per selection mode.
type PostRepository interface {
	ListBySection(ctx context.Context, sectionName string) ([]dompost.Post, error)
	ListByTopic(ctx context.Context, sectionName, topicID string) ([]dompost.Post, error)
	ListByAuthor(ctx context.Context, login string) ([]dompost.Post, error)
}

// TopicRepository resolves topic references within a section.
type TopicRepository interface {
	ResolveName(ctx context.Context, sectionName, name string) (string, error)
	ResolveSlug(ctx context.Context, sectionName, slug string) (string, error)
}

// SectionRepository validates sections and answers membership checks.
type SectionRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	IsMember(ctx context.Context, name, login string) (bool, error)
}

// UserRepository validates author selections.
type UserRepository interface {
	Exists(ctx context.Context, login string) (bool, error)
}

// EngagementRepository supplies live counters and the viewer's visit state.
type EngagementRepository interface {
	CountersFor(ctx context.Context, postIDs []string, viewer string) ([]domeng.Counters, error)
	Visits(ctx context.Context, login string) (map[string]int, error)
	IncrVisits(ctx context.Context, login string, postIDs []string) error
}

// SessionRepository tracks which posts a session has already been served.
type SessionRepository interface {
	Delivered(ctx context.Context, sessionID, contextKey string) (map[string]struct{}, error)
	MarkDelivered(ctx context.Context, sessionID, contextKey string, postIDs []string) error
	Clear(ctx context.Context, sessionID, contextKey string) error
}

// AffinityProvider supplies the viewer's topic affinities and the
// opportunistic recompute hook.
type AffinityProvider interface {
	GetAll(ctx context.Context, login string) (map[string]float64, error)
	Recompute(ctx context.Context, login string, now time.Time, force bool) (bool, error)
}
