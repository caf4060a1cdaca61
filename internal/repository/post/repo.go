package post

import (
	"context"
	"fmt"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
	"github.com/loomboard/feedrank/internal/domain/section"
)

// store is the consumer interface for posts (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements post storage: the post records plus the membership sets the
// feed selections read (per section, per author, per topic).
type Repo struct {
	store store
}

// New creates a post repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a post and registers it in the selection sets. The topic
// sets index the effective topic set (direct union implied) so topic feeds
// resolve without touching the graph.
func (r *Repo) Create(ctx context.Context, p dompost.Post) error {
	writes := []db.Write{
		{HSet: &db.HashItem{Key: postKey(p.ID()), Fields: buildPostFields(p)}},
		{SAdd: &db.SetItem{Key: allPostsKey(), Members: []string{p.ID()}}},
		{SAdd: &db.SetItem{Key: sectionPostsKey(p.Section()), Members: []string{p.ID()}}},
	}
	if p.Author() != "" {
		writes = append(writes, db.Write{
			SAdd: &db.SetItem{Key: authorPostsKey(p.Author()), Members: []string{p.ID()}},
		})
	}
	for _, topicID := range p.AllTopicIDs() {
		writes = append(writes, db.Write{
			SAdd: &db.SetItem{Key: topicPostsKey(p.Section(), topicID), Members: []string{p.ID()}},
		})
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("create post %s: %w", p.ID(), err)
	}
	return nil
}

// Get returns a post by id.
func (r *Repo) Get(ctx context.Context, id string) (dompost.Post, error) {
	m, err := r.store.HGetAll(ctx, postKey(id))
	if err != nil {
		return dompost.Post{}, fmt.Errorf("hgetall %s: %w", postKey(id), err)
	}
	if len(m) == 0 {
		return dompost.Post{}, fmt.Errorf("%w: %s", domain.ErrPostNotFound, id)
	}
	return parsePostFields(m), nil
}

// ListBySection returns the posts of a section, or every post for the "all"
// pseudo-section.
func (r *Repo) ListBySection(ctx context.Context, sectionName string) ([]dompost.Post, error) {
	key := sectionPostsKey(sectionName)
	if sectionName == section.All {
		key = allPostsKey()
	}
	return r.listSet(ctx, key)
}

// ListByTopic returns the posts of a section carrying the topic (directly or
// via implication).
func (r *Repo) ListByTopic(ctx context.Context, sectionName, topicID string) ([]dompost.Post, error) {
	return r.listSet(ctx, topicPostsKey(sectionName, topicID))
}

// ListByAuthor returns an author's posts.
func (r *Repo) ListByAuthor(ctx context.Context, login string) ([]dompost.Post, error) {
	return r.listSet(ctx, authorPostsKey(login))
}

func (r *Repo) listSet(ctx context.Context, setKey string) ([]dompost.Post, error) {
	ids, err := r.store.SMembers(ctx, setKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", setKey, err)
	}
	return r.GetMany(ctx, ids)
}

// GetMany returns the posts for the given ids, skipping ids that no longer
// resolve to a record.
func (r *Repo) GetMany(ctx context.Context, ids []string) ([]dompost.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = postKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	posts := make([]dompost.Post, 0, len(hashes))
	for _, m := range hashes {
		if len(m) == 0 {
			continue // post removed, stale set member
		}
		posts = append(posts, parsePostFields(m))
	}
	return posts, nil
}
