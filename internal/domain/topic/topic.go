package topic

import (
	"fmt"
	"regexp"

	"github.com/loomboard/feedrank/internal/domain"
)

var nameRegex = regexp.MustCompile(`^[a-z0-9+#._-]+$`)

// Topic is a labeled category scoped to one section (immutable value object).
// Level is an invariant of the implication graph: for every implication
// source -> target, level(source) > level(target). Only Graph.AddImplication
// may raise it.
type Topic struct {
	id      string
	section string
	name    string
	slug    string
	tooltip string
	level   int
}

// New validates and creates a Topic with level 0.
func New(id, section, name, slug, tooltip string) (Topic, error) {
	if id == "" {
		return Topic{}, fmt.Errorf("%w: topic id is required", domain.ErrInvalidArgument)
	}
	if section == "" {
		return Topic{}, fmt.Errorf("%w: topic section is required", domain.ErrInvalidArgument)
	}
	if name == "" || len(name) > 31 || !nameRegex.MatchString(name) {
		return Topic{}, fmt.Errorf("%w: topic name must be 1-31 chars of [a-z0-9+#._-]", domain.ErrInvalidArgument)
	}
	if slug != "" && (len(slug) > 31 || !nameRegex.MatchString(slug)) {
		return Topic{}, fmt.Errorf("%w: topic slug must be at most 31 chars of [a-z0-9+#._-]", domain.ErrInvalidArgument)
	}
	if len(tooltip) > 63 {
		return Topic{}, fmt.Errorf("%w: topic tooltip too long (max 63)", domain.ErrInvalidArgument)
	}
	return Topic{id: id, section: section, name: name, slug: slug, tooltip: tooltip}, nil
}

// Reconstruct creates a Topic without validation (storage hydration).
func Reconstruct(id, section, name, slug, tooltip string, level int) Topic {
	return Topic{id: id, section: section, name: name, slug: slug, tooltip: tooltip, level: level}
}

// ID returns the topic id.
func (t Topic) ID() string { return t.id }

// Section returns the owning section name.
func (t Topic) Section() string { return t.section }

// Name returns the topic name, unique within its section.
func (t Topic) Name() string { return t.name }

// Slug returns the URL slug, empty when the name suffices.
func (t Topic) Slug() string { return t.slug }

// SlugOrName returns the slug, or the name when no slug is set.
func (t Topic) SlugOrName() string {
	if t.slug != "" {
		return t.slug
	}
	return t.name
}

// Tooltip returns the short topic description.
func (t Topic) Tooltip() string { return t.tooltip }

// Level returns the implication-graph level.
func (t Topic) Level() int { return t.level }
