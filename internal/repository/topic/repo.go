package topic

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
)

// store is the consumer interface for topics (ISP).
type store interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements topic storage: the arena, the per-section name/slug lookup
// tables, and the implication adjacency sets.
type Repo struct {
	store store
}

// New creates a topic repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new topic and registers its name (and slug, if any) in
// the section lookup tables. Fails with ErrAlreadyExists when the name or
// slug is taken within the section.
func (r *Repo) Create(ctx context.Context, t domtopic.Topic) error {
	if _, err := r.store.HGet(ctx, namesKey(t.Section()), t.Name()); err == nil {
		return fmt.Errorf("%w: topic %q in section %q", domain.ErrAlreadyExists, t.Name(), t.Section())
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		return fmt.Errorf("check topic name: %w", err)
	}
	if t.Slug() != "" {
		if _, err := r.store.HGet(ctx, slugsKey(t.Section()), t.Slug()); err == nil {
			return fmt.Errorf("%w: topic slug %q in section %q", domain.ErrAlreadyExists, t.Slug(), t.Section())
		} else if !errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("check topic slug: %w", err)
		}
	}

	writes := []db.Write{
		{HSet: &db.HashItem{Key: topicKey(t.ID()), Fields: buildTopicFields(t)}},
		{SAdd: &db.SetItem{Key: sectionKey(t.Section()), Members: []string{t.ID()}}},
		{HSet: &db.HashItem{Key: namesKey(t.Section()), Fields: map[string]string{t.Name(): t.ID()}}},
	}
	if t.Slug() != "" {
		writes = append(writes, db.Write{
			HSet: &db.HashItem{Key: slugsKey(t.Section()), Fields: map[string]string{t.Slug(): t.ID()}},
		})
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("create topic %s: %w", t.ID(), err)
	}
	return nil
}

// Get returns a topic by id.
func (r *Repo) Get(ctx context.Context, id string) (domtopic.Topic, error) {
	m, err := r.store.HGetAll(ctx, topicKey(id))
	if err != nil {
		return domtopic.Topic{}, fmt.Errorf("hgetall %s: %w", topicKey(id), err)
	}
	if len(m) == 0 {
		return domtopic.Topic{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, id)
	}
	return parseTopicFields(m), nil
}

// ResolveName returns the topic id registered under the given name in the
// section, or ErrTopicNotFound.
func (r *Repo) ResolveName(ctx context.Context, sectionName, name string) (string, error) {
	id, err := r.store.HGet(ctx, namesKey(sectionName), name)
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: name %q in section %q", domain.ErrTopicNotFound, name, sectionName)
	}
	if err != nil {
		return "", fmt.Errorf("resolve topic name: %w", err)
	}
	return id, nil
}

// ResolveSlug returns the topic id registered under the given slug in the
// section, or ErrTopicNotFound.
func (r *Repo) ResolveSlug(ctx context.Context, sectionName, slug string) (string, error) {
	id, err := r.store.HGet(ctx, slugsKey(sectionName), slug)
	if errors.Is(err, db.ErrKeyNotFound) {
		return "", fmt.Errorf("%w: slug %q in section %q", domain.ErrTopicNotFound, slug, sectionName)
	}
	if err != nil {
		return "", fmt.Errorf("resolve topic slug: %w", err)
	}
	return id, nil
}

// LoadGraph hydrates the implication graph of one section: its topics and
// edges. The returned graph is a detached snapshot; commit mutations via
// CommitImplication.
func (r *Repo) LoadGraph(ctx context.Context, sectionName string) (*domtopic.Graph, error) {
	setKey := sectionKey(sectionName)
	ids, err := r.store.SMembers(ctx, setKey)
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", setKey, err)
	}

	g := domtopic.NewGraph()
	if len(ids) == 0 {
		return g, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = topicKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load topics: %w", err)
	}
	for _, m := range hashes {
		if len(m) == 0 {
			continue
		}
		g.AddTopic(parseTopicFields(m))
	}

	for _, id := range ids {
		children, err := r.store.SMembers(ctx, childrenKey(id))
		if err != nil {
			return nil, fmt.Errorf("smembers %s: %w", childrenKey(id), err)
		}
		for _, c := range children {
			g.AddEdge(id, c)
		}
	}
	return g, nil
}

// CommitImplication persists one implication insertion: the edge plus every
// raised level, in a single atomic batch. A rejected insertion never reaches
// this method, so storage only ever sees invariant-preserving states.
func (r *Repo) CommitImplication(ctx context.Context, delta domtopic.Delta) error {
	writes := []db.Write{
		{SAdd: &db.SetItem{Key: childrenKey(delta.Source), Members: []string{delta.Target}}},
		{SAdd: &db.SetItem{Key: parentsKey(delta.Target), Members: []string{delta.Source}}},
	}
	for id, level := range delta.Levels {
		writes = append(writes, db.Write{
			HSet: &db.HashItem{Key: topicKey(id), Fields: map[string]string{"level": strconv.Itoa(level)}},
		})
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("commit implication %s -> %s: %w", delta.Source, delta.Target, err)
	}
	return nil
}
