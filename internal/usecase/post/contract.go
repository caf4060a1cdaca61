package post

import (
	"context"

	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
)

// Repository defines the storage contract for posts.
type Repository interface {
	Create(ctx context.Context, p dompost.Post) error
	Get(ctx context.Context, id string) (dompost.Post, error)
	ListByAuthor(ctx context.Context, login string) ([]dompost.Post, error)
}

// TopicResolver maps topic names to ids and expands the implication closure.
type TopicResolver interface {
	ResolveNames(ctx context.Context, sectionName string, names []string) ([]string, error)
	Implied(ctx context.Context, sectionName string, topicIDs []string) ([]string, error)
}

// EngagementRepository records votes and comments and supplies counters.
type EngagementRepository interface {
	CountersFor(ctx context.Context, postIDs []string, viewer string) ([]domeng.Counters, error)
	Vote(ctx context.Context, login, postID string, reaction int) error
	Comment(ctx context.Context, login, postID string) error
}

// SectionRepository validates the target section.
type SectionRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// UserRepository validates engaging users.
type UserRepository interface {
	Exists(ctx context.Context, login string) (bool, error)
}
