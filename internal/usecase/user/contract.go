package user

import (
	"context"

	domsection "github.com/loomboard/feedrank/internal/domain/section"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

// Repository defines the storage contract for users.
type Repository interface {
	Create(ctx context.Context, u domuser.User) error
	Get(ctx context.Context, login string) (domuser.User, error)
	Exists(ctx context.Context, login string) (bool, error)
}

// SectionRepository manages sections and their memberships.
type SectionRepository interface {
	Create(ctx context.Context, s domsection.Section) error
	Get(ctx context.Context, name string) (domsection.Section, error)
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
	AddMember(ctx context.Context, name, login string) error
}

// TopicRepository stores administratively created topics.
type TopicRepository interface {
	Create(ctx context.Context, t domtopic.Topic) error
}
