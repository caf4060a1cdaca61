package engagement

import (
	"context"
	"fmt"
	"strconv"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
)

// store is the consumer interface for engagement counters (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements engagement storage. Votes are mirrored per post (for
// counting) and per user (for the affinity recompute); comment and visit
// counters are plain hash counters.
type Repo struct {
	store store
}

// New creates an engagement repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Vote records a +1/-1 reaction. A user's re-vote replaces the previous one
// in both mirrors atomically.
func (r *Repo) Vote(ctx context.Context, login, postID string, reaction int) error {
	v := strconv.Itoa(reaction)
	writes := []db.Write{
		{HSet: &db.HashItem{Key: votesKey(postID), Fields: map[string]string{login: v}}},
		{HSet: &db.HashItem{Key: userVotesKey(login), Fields: map[string]string{postID: v}}},
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("vote %s on %s: %w", login, postID, err)
	}
	return nil
}

// Comment bumps the post's comment count and the user's per-post counter.
func (r *Repo) Comment(ctx context.Context, login, postID string) error {
	if _, err := r.store.HIncrBy(ctx, commentCountsKey(), postID, 1); err != nil {
		return fmt.Errorf("bump comment count of %s: %w", postID, err)
	}
	if _, err := r.store.HIncrBy(ctx, userCommentsKey(login), postID, 1); err != nil {
		return fmt.Errorf("bump comment count of %s by %s: %w", postID, login, err)
	}
	return nil
}

// IncrVisits bumps the viewer's visit counter for each delivered post.
func (r *Repo) IncrVisits(ctx context.Context, login string, postIDs []string) error {
	for _, id := range postIDs {
		if _, err := r.store.HIncrBy(ctx, visitsKey(login), id, 1); err != nil {
			return fmt.Errorf("bump visits of %s by %s: %w", id, login, err)
		}
	}
	return nil
}

// CountersFor returns the live counters of the given posts, in order. An
// empty viewer leaves ViewerReaction at 0.
func (r *Repo) CountersFor(ctx context.Context, postIDs []string, viewer string) ([]domeng.Counters, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	keys := make([]string, len(postIDs))
	for i, id := range postIDs {
		keys[i] = votesKey(id)
	}
	votes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}
	comments, err := r.store.HGetAll(ctx, commentCountsKey())
	if err != nil {
		return nil, fmt.Errorf("load comment counts: %w", err)
	}

	out := make([]domeng.Counters, len(postIDs))
	for i, id := range postIDs {
		c := domeng.Counters{Comments: atoi(comments[id])}
		for login, v := range votes[i] {
			reaction := atoi(v)
			switch {
			case reaction > 0:
				c.Likes++
			case reaction < 0:
				c.Dislikes++
			}
			if viewer != "" && login == viewer {
				c.ViewerReaction = reaction
			}
		}
		out[i] = c
	}
	return out, nil
}

// VotesByUser returns the user's vote history as post id -> reaction.
func (r *Repo) VotesByUser(ctx context.Context, login string) (map[string]int, error) {
	return r.intHash(ctx, userVotesKey(login))
}

// CommentsByUser returns the user's comment counts as post id -> count.
func (r *Repo) CommentsByUser(ctx context.Context, login string) (map[string]int, error) {
	return r.intHash(ctx, userCommentsKey(login))
}

// Visits returns the viewer's visit counts as post id -> count.
func (r *Repo) Visits(ctx context.Context, login string) (map[string]int, error) {
	return r.intHash(ctx, visitsKey(login))
}

func (r *Repo) intHash(ctx context.Context, key string) (map[string]int, error) {
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	out := make(map[string]int, len(m))
	for field, v := range m {
		out[field] = atoi(v)
	}
	return out, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func votesKey(postID string) string {
	return fmt.Sprintf("%svotes:%s", domain.KeyPrefix, postID)
}

func userVotesKey(login string) string {
	return fmt.Sprintf("%suser_votes:%s", domain.KeyPrefix, login)
}

func commentCountsKey() string {
	return domain.KeyPrefix + "comment_counts"
}

func userCommentsKey(login string) string {
	return fmt.Sprintf("%suser_comments:%s", domain.KeyPrefix, login)
}

func visitsKey(login string) string {
	return fmt.Sprintf("%svisits:%s", domain.KeyPrefix, login)
}
