package affinity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
)

// store is the consumer interface for affinities (ISP).
type store interface {
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements affinity storage: one hash of topic id -> value per user,
// plus the last-recompute timestamp used for rate limiting.
type Repo struct {
	store store
}

// New creates an affinity repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns the stored affinity of a user towards one topic. Missing
// records read as 0 (cold start).
func (r *Repo) Get(ctx context.Context, login, topicID string) (float64, error) {
	v, err := r.store.HGet(ctx, affinityKey(login), topicID)
	if errors.Is(err, db.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load affinity %s/%s: %w", login, topicID, err)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse affinity %s/%s: %w", login, topicID, err)
	}
	return f, nil
}

// GetAll returns every stored affinity of a user as topic id -> value.
func (r *Repo) GetAll(ctx context.Context, login string) (map[string]float64, error) {
	m, err := r.store.HGetAll(ctx, affinityKey(login))
	if err != nil {
		return nil, fmt.Errorf("load affinities of %s: %w", login, err)
	}
	out := make(map[string]float64, len(m))
	for topicID, v := range m {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse affinity %s/%s: %w", login, topicID, err)
		}
		out[topicID] = f
	}
	return out, nil
}

// SetBatch writes a user's recomputed affinities and the recompute timestamp
// in a single atomic batch.
func (r *Repo) SetBatch(ctx context.Context, login string, values map[string]float64, at time.Time) error {
	fields := make(map[string]string, len(values))
	for topicID, v := range values {
		fields[topicID] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	writes := make([]db.Write, 0, 2)
	if len(fields) > 0 {
		writes = append(writes, db.Write{HSet: &db.HashItem{Key: affinityKey(login), Fields: fields}})
	}
	writes = append(writes, db.Write{
		HSet: &db.HashItem{
			Key:    metaKey(login),
			Fields: map[string]string{"last_recompute": strconv.FormatInt(at.UnixMilli(), 10)},
		},
	})
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("write affinities of %s: %w", login, err)
	}
	return nil
}

// LastRecompute returns when the user's affinities were last recomputed, the
// zero time if never.
func (r *Repo) LastRecompute(ctx context.Context, login string) (time.Time, error) {
	v, err := r.store.HGet(ctx, metaKey(login), "last_recompute")
	if errors.Is(err, db.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("load recompute timestamp of %s: %w", login, err)
	}
	ms, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse recompute timestamp of %s: %w", login, err)
	}
	return time.UnixMilli(ms), nil
}

func affinityKey(login string) string {
	return fmt.Sprintf("%saffinity:%s", domain.KeyPrefix, login)
}

func metaKey(login string) string {
	return fmt.Sprintf("%saffinity_meta:%s", domain.KeyPrefix, login)
}
