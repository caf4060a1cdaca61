package affinity

import (
	"context"
	"time"

	dompost "github.com/loomboard/feedrank/internal/domain/post"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

// Repository defines the storage contract for affinities.
type Repository interface {
	Get(ctx context.Context, login, topicID string) (float64, error)
	GetAll(ctx context.Context, login string) (map[string]float64, error)
	SetBatch(ctx context.Context, login string, values map[string]float64, at time.Time) error
	LastRecompute(ctx context.Context, login string) (time.Time, error)
}

// EngagementRepository supplies a user's engagement history.
type EngagementRepository interface {
	VotesByUser(ctx context.Context, login string) (map[string]int, error)
	CommentsByUser(ctx context.Context, login string) (map[string]int, error)
}

// PostRepository resolves engaged posts to their topic sets.
type PostRepository interface {
	GetMany(ctx context.Context, ids []string) ([]dompost.Post, error)
}

// UserRepository supplies the recompute opt-in flag.
type UserRepository interface {
	Get(ctx context.Context, login string) (domuser.User, error)
}
