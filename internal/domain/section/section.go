package section

import (
	"fmt"
	"regexp"

	"github.com/loomboard/feedrank/internal/domain"
)

// All is the pseudo-section selecting posts from every section.
// It cannot be created and owns no topics.
const All = "all"

var nameRegex = regexp.MustCompile(`^[a-z0-9-]+$`)

// allowedIcons lists the icon names the UI ships with.
var allowedIcons = map[string]struct{}{
	"laptop":      {},
	"brush":       {},
	"soccer-ball": {},
	"art-gallery": {},
	"music":       {},
	"gamepad":     {},
	"videocam":    {},
	"user-pair":   {},
}

// Section is a named board of the forum (immutable value object).
type Section struct {
	name        string
	description string
	icon        string
}

// New validates and creates a Section.
func New(name, description, icon string) (Section, error) {
	if name == "" || len(name) > 63 || !nameRegex.MatchString(name) {
		return Section{}, fmt.Errorf("%w: section name must be lowercase alphanumeric with hyphens, 1-63 chars", domain.ErrInvalidArgument)
	}
	if name == All {
		return Section{}, fmt.Errorf("%w: %q is reserved", domain.ErrInvalidArgument, All)
	}
	if len(description) > 255 {
		return Section{}, fmt.Errorf("%w: section description too long (max 255)", domain.ErrInvalidArgument)
	}
	if icon == "" {
		icon = "laptop"
	}
	if _, ok := allowedIcons[icon]; !ok {
		return Section{}, fmt.Errorf("%w: unknown section icon %q", domain.ErrInvalidArgument, icon)
	}
	return Section{name: name, description: description, icon: icon}, nil
}

// Reconstruct creates a Section without validation (storage hydration).
func Reconstruct(name, description, icon string) Section {
	return Section{name: name, description: description, icon: icon}
}

// Name returns the section name.
func (s Section) Name() string { return s.name }

// Description returns the section description.
func (s Section) Description() string { return s.description }

// Icon returns the section icon name.
func (s Section) Icon() string { return s.icon }
