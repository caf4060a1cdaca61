package affinity

import (
	"context"
	"fmt"
	"time"

	"github.com/loomboard/feedrank/internal/domain/rank"
)

// Service maintains per-user topic affinities: an exponential moving average
// over the user's vote and comment history, aggregated per topic across each
// engaged post's direct and implied topic set.
type Service struct {
	affinities Repository
	engagement EngagementRepository
	posts      PostRepository
	users      UserRepository
	interval   time.Duration
}

// New creates an affinity service. interval is the minimum time between two
// automatic recomputes of the same user.
func New(affinities Repository, engagement EngagementRepository, posts PostRepository, users UserRepository, interval time.Duration) *Service {
	return &Service{
		affinities: affinities,
		engagement: engagement,
		posts:      posts,
		users:      users,
		interval:   interval,
	}
}

// Get returns the user's affinity towards one topic, 0 when none is stored.
func (s *Service) Get(ctx context.Context, login, topicID string) (float64, error) {
	return s.affinities.Get(ctx, login, topicID)
}

// GetAll returns every stored affinity of the user as topic id -> value.
func (s *Service) GetAll(ctx context.Context, login string) (map[string]float64, error) {
	return s.affinities.GetAll(ctx, login)
}

// Recompute rebuilds the user's affinities from their full engagement
// history. Unless forced, it runs only for users who opted in and at most
// once per interval; a skipped run is not an error. Reports whether a
// recompute actually ran.
func (s *Service) Recompute(ctx context.Context, login string, now time.Time, force bool) (bool, error) {
	u, err := s.users.Get(ctx, login)
	if err != nil {
		return false, fmt.Errorf("load user: %w", err)
	}
	if !force {
		if !u.AutoRecompute() {
			return false, nil
		}
		last, err := s.affinities.LastRecompute(ctx, login)
		if err != nil {
			return false, fmt.Errorf("load recompute timestamp: %w", err)
		}
		if !last.IsZero() && now.Sub(last) < s.interval {
			return false, nil
		}
	}

	votes, err := s.engagement.VotesByUser(ctx, login)
	if err != nil {
		return false, fmt.Errorf("load vote history: %w", err)
	}
	comments, err := s.engagement.CommentsByUser(ctx, login)
	if err != nil {
		return false, fmt.Errorf("load comment history: %w", err)
	}

	engaged := make([]string, 0, len(votes)+len(comments))
	seen := make(map[string]struct{}, len(votes)+len(comments))
	for postID := range votes {
		engaged = append(engaged, postID)
		seen[postID] = struct{}{}
	}
	for postID := range comments {
		if _, ok := seen[postID]; !ok {
			engaged = append(engaged, postID)
		}
	}

	posts, err := s.posts.GetMany(ctx, engaged)
	if err != nil {
		return false, fmt.Errorf("load engaged posts: %w", err)
	}

	type tally struct {
		likes, dislikes, comments int
	}
	perTopic := make(map[string]tally)
	for _, p := range posts {
		reaction := votes[p.ID()]
		commented := comments[p.ID()]
		for _, topicID := range p.AllTopicIDs() {
			t := perTopic[topicID]
			switch {
			case reaction > 0:
				t.likes++
			case reaction < 0:
				t.dislikes++
			}
			t.comments += commented
			perTopic[topicID] = t
		}
	}

	prev, err := s.affinities.GetAll(ctx, login)
	if err != nil {
		return false, fmt.Errorf("load previous affinities: %w", err)
	}

	// Topics with a stored value but no fresh engagement decay towards 0.
	next := make(map[string]float64, len(perTopic)+len(prev))
	for topicID, t := range perTopic {
		next[topicID] = rank.AffinityUpdate(prev[topicID], t.likes, t.dislikes, t.comments)
	}
	for topicID, v := range prev {
		if _, ok := next[topicID]; !ok {
			next[topicID] = rank.AffinityUpdate(v, 0, 0, 0)
		}
	}

	if err := s.affinities.SetBatch(ctx, login, next, now); err != nil {
		return false, fmt.Errorf("store affinities: %w", err)
	}
	return true, nil
}
