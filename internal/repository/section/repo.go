package section

import (
	"context"
	"fmt"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	domsection "github.com/loomboard/feedrank/internal/domain/section"
)

// store is the consumer interface for sections (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements section storage: the section records, the registry of
// known sections, and the per-section member sets.
type Repo struct {
	store store
}

// New creates a section repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new section. Fails with ErrAlreadyExists when the name
// is taken.
func (r *Repo) Create(ctx context.Context, s domsection.Section) error {
	taken, err := r.store.SIsMember(ctx, registryKey(), s.Name())
	if err != nil {
		return fmt.Errorf("check section name: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: section %q", domain.ErrAlreadyExists, s.Name())
	}

	writes := []db.Write{
		{HSet: &db.HashItem{Key: sectionKey(s.Name()), Fields: map[string]string{
			"name":        s.Name(),
			"description": s.Description(),
			"icon":        s.Icon(),
		}}},
		{SAdd: &db.SetItem{Key: registryKey(), Members: []string{s.Name()}}},
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("create section %s: %w", s.Name(), err)
	}
	return nil
}

// Get returns a section by name.
func (r *Repo) Get(ctx context.Context, name string) (domsection.Section, error) {
	m, err := r.store.HGetAll(ctx, sectionKey(name))
	if err != nil {
		return domsection.Section{}, fmt.Errorf("hgetall %s: %w", sectionKey(name), err)
	}
	if len(m) == 0 {
		return domsection.Section{}, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, name)
	}
	return domsection.Reconstruct(m["name"], m["description"], m["icon"]), nil
}

// Exists reports whether a section is registered. The "all" pseudo-section
// always exists.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	if name == domsection.All {
		return true, nil
	}
	ok, err := r.store.SIsMember(ctx, registryKey(), name)
	if err != nil {
		return false, fmt.Errorf("check section %s: %w", name, err)
	}
	return ok, nil
}

// List returns the names of every registered section.
func (r *Repo) List(ctx context.Context) ([]string, error) {
	names, err := r.store.SMembers(ctx, registryKey())
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return names, nil
}

// AddMember enrolls a user into a section.
func (r *Repo) AddMember(ctx context.Context, name, login string) error {
	if err := r.store.SAdd(ctx, membersKey(name), login); err != nil {
		return fmt.Errorf("join section %s: %w", name, err)
	}
	return nil
}

// IsMember reports whether a user belongs to a section.
func (r *Repo) IsMember(ctx context.Context, name, login string) (bool, error) {
	ok, err := r.store.SIsMember(ctx, membersKey(name), login)
	if err != nil {
		return false, fmt.Errorf("check membership of %s in %s: %w", login, name, err)
	}
	return ok, nil
}

func sectionKey(name string) string {
	return fmt.Sprintf("%ssection:%s", domain.KeyPrefix, name)
}

func registryKey() string {
	return domain.KeyPrefix + "sections"
}

func membersKey(name string) string {
	return fmt.Sprintf("%ssection_members:%s", domain.KeyPrefix, name)
}
