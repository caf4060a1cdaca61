package session

import (
	"context"
	"fmt"
	"time"

	"github.com/loomboard/feedrank/internal/domain"
)

// store is the consumer interface for session delivery state (ISP).
type store interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Repo tracks which posts a session has already been served per feed context.
// Keys are TTL-bound so abandoned sessions age out on their own.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a session repository with the given delivery-state TTL.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Delivered returns the post ids already served to the session in this
// feed context.
func (r *Repo) Delivered(ctx context.Context, sessionID, contextKey string) (map[string]struct{}, error) {
	ids, err := r.store.SMembers(ctx, deliveredKey(sessionID, contextKey))
	if err != nil {
		return nil, fmt.Errorf("load delivered posts: %w", err)
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// MarkDelivered appends post ids to the session's delivered set and refreshes
// its TTL.
func (r *Repo) MarkDelivered(ctx context.Context, sessionID, contextKey string, postIDs []string) error {
	if len(postIDs) == 0 {
		return nil
	}
	key := deliveredKey(sessionID, contextKey)
	if err := r.store.SAdd(ctx, key, postIDs...); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	if err := r.store.Expire(ctx, key, r.ttl); err != nil {
		return fmt.Errorf("refresh delivery ttl: %w", err)
	}
	return nil
}

// Clear drops the session's delivery state for one feed context.
func (r *Repo) Clear(ctx context.Context, sessionID, contextKey string) error {
	if err := r.store.Del(ctx, deliveredKey(sessionID, contextKey)); err != nil {
		return fmt.Errorf("clear delivered posts: %w", err)
	}
	return nil
}

func deliveredKey(sessionID, contextKey string) string {
	return fmt.Sprintf("%sdelivered:%s:%s", domain.KeyPrefix, sessionID, contextKey)
}
