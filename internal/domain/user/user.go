package user

import (
	"fmt"
	"time"

	"github.com/loomboard/feedrank/internal/domain"
)

// User is a registered forum member (immutable value object).
type User struct {
	login         string
	name          string
	autoRecompute bool
	createdAt     int64
}

// New validates and creates a User. autoRecompute controls whether the
// affinity engine may rebuild the user's topic affinities on its own schedule.
func New(login, name string, autoRecompute bool) (User, error) {
	if err := ValidateLogin(login); err != nil {
		return User{}, err
	}
	if len(name) > 63 {
		return User{}, fmt.Errorf("%w: display name too long (max 63)", domain.ErrInvalidArgument)
	}
	return User{
		login:         login,
		name:          name,
		autoRecompute: autoRecompute,
		createdAt:     time.Now().UnixMilli(),
	}, nil
}

// Reconstruct creates a User without validation (storage hydration).
func Reconstruct(login, name string, autoRecompute bool, createdAt int64) User {
	return User{login: login, name: name, autoRecompute: autoRecompute, createdAt: createdAt}
}

// ValidateLogin checks the login format: 3-20 chars of [a-z0-9_],
// starting with a letter.
func ValidateLogin(login string) error {
	if len(login) < 3 || len(login) > 20 {
		return fmt.Errorf("%w: login must be 3-20 characters", domain.ErrInvalidArgument)
	}
	for i, r := range login {
		lower := r >= 'a' && r <= 'z'
		digit := r >= '0' && r <= '9'
		if !lower && !digit && r != '_' {
			return fmt.Errorf("%w: login may contain only lowercase letters, digits and underscores", domain.ErrInvalidArgument)
		}
		if i == 0 && !lower {
			return fmt.Errorf("%w: login must start with a letter", domain.ErrInvalidArgument)
		}
	}
	return nil
}

// Login returns the unique login.
func (u User) Login() string { return u.login }

// Name returns the display name.
func (u User) Name() string { return u.name }

// AutoRecompute reports whether automatic affinity recomputation is allowed.
func (u User) AutoRecompute() bool { return u.autoRecompute }

// CreatedAt returns the creation time in unix milliseconds.
func (u User) CreatedAt() int64 { return u.createdAt }
