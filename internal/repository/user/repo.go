package user

import (
	"context"
	"fmt"
	"strconv"

	"github.com/loomboard/feedrank/internal/db"
	"github.com/loomboard/feedrank/internal/domain"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

// store is the consumer interface for users (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	TxWrite(ctx context.Context, writes []db.Write) error
}

// Repo implements user storage.
type Repo struct {
	store store
}

// New creates a user repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create persists a new user. Fails with ErrAlreadyExists when the login is
// taken.
func (r *Repo) Create(ctx context.Context, u domuser.User) error {
	taken, err := r.store.SIsMember(ctx, registryKey(), u.Login())
	if err != nil {
		return fmt.Errorf("check login: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: login %q", domain.ErrAlreadyExists, u.Login())
	}

	writes := []db.Write{
		{HSet: &db.HashItem{Key: userKey(u.Login()), Fields: map[string]string{
			"login":          u.Login(),
			"name":           u.Name(),
			"auto_recompute": strconv.FormatBool(u.AutoRecompute()),
			"created_at":     strconv.FormatInt(u.CreatedAt(), 10),
		}}},
		{SAdd: &db.SetItem{Key: registryKey(), Members: []string{u.Login()}}},
	}
	if err := r.store.TxWrite(ctx, writes); err != nil {
		return fmt.Errorf("create user %s: %w", u.Login(), err)
	}
	return nil
}

// Get returns a user by login.
func (r *Repo) Get(ctx context.Context, login string) (domuser.User, error) {
	m, err := r.store.HGetAll(ctx, userKey(login))
	if err != nil {
		return domuser.User{}, fmt.Errorf("hgetall %s: %w", userKey(login), err)
	}
	if len(m) == 0 {
		return domuser.User{}, fmt.Errorf("%w: %s", domain.ErrUserNotFound, login)
	}
	autoRecompute, _ := strconv.ParseBool(m["auto_recompute"])
	createdAt, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return domuser.Reconstruct(m["login"], m["name"], autoRecompute, createdAt), nil
}

// Exists reports whether a login is registered.
func (r *Repo) Exists(ctx context.Context, login string) (bool, error) {
	ok, err := r.store.SIsMember(ctx, registryKey(), login)
	if err != nil {
		return false, fmt.Errorf("check user %s: %w", login, err)
	}
	return ok, nil
}

func userKey(login string) string {
	return fmt.Sprintf("%suser:%s", domain.KeyPrefix, login)
}

func registryKey() string {
	return domain.KeyPrefix + "users"
}
