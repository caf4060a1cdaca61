package post

import (
	"fmt"
	"strings"
	"time"

	"github.com/loomboard/feedrank/internal/domain"
)

const (
	maxTitleLen    = 63
	maxUserTagLen  = 31
	maxUserTagsLen = 255
)

// Post is a forum post (immutable value object). The author may be empty when
// the account was removed; the post survives anonymized. InitialScore is
// computed once at creation from the author's track record and never changes.
// ImpliedTopicIDs is the stored transitive closure of TopicIDs over the
// section's implication graph, denormalized for fast scoring.
type Post struct {
	id           string
	title        string
	text         string
	author       string
	section      string
	createdAt    int64 // unix milliseconds
	initialScore float64
	topicIDs     []string
	impliedIDs   []string
	userTags     []string
}

// New validates and creates a Post.
func New(
	id, title, text, author, section string,
	createdAt time.Time, initialScore float64,
	topicIDs, impliedIDs, userTags []string,
) (Post, error) {
	if id == "" {
		return Post{}, fmt.Errorf("%w: post id is required", domain.ErrInvalidArgument)
	}
	if title == "" || len(title) > maxTitleLen {
		return Post{}, fmt.Errorf("%w: post title must be 1-%d characters", domain.ErrInvalidArgument, maxTitleLen)
	}
	if text == "" {
		return Post{}, fmt.Errorf("%w: post text is required", domain.ErrInvalidArgument)
	}
	if section == "" {
		return Post{}, fmt.Errorf("%w: post section is required", domain.ErrInvalidArgument)
	}
	if err := validateUserTags(userTags); err != nil {
		return Post{}, err
	}

	return Post{
		id:           id,
		title:        title,
		text:         text,
		author:       author,
		section:      section,
		createdAt:    createdAt.UnixMilli(),
		initialScore: initialScore,
		topicIDs:     dedupe(topicIDs),
		impliedIDs:   dedupe(impliedIDs),
		userTags:     userTags,
	}, nil
}

// Reconstruct creates a Post without validation (storage hydration).
func Reconstruct(
	id, title, text, author, section string,
	createdAt int64, initialScore float64,
	topicIDs, impliedIDs, userTags []string,
) Post {
	return Post{
		id: id, title: title, text: text, author: author, section: section,
		createdAt: createdAt, initialScore: initialScore,
		topicIDs: topicIDs, impliedIDs: impliedIDs, userTags: userTags,
	}
}

func validateUserTags(tags []string) error {
	total := 0
	for _, tag := range tags {
		if tag == "" || strings.ContainsRune(tag, ' ') {
			return fmt.Errorf("%w: user tags must be non-empty and contain no spaces", domain.ErrInvalidArgument)
		}
		if len(tag) > maxUserTagLen {
			return fmt.Errorf("%w: user tag %q too long (max %d)", domain.ErrInvalidArgument, tag, maxUserTagLen)
		}
		total += len(tag) + 1
	}
	if total > maxUserTagsLen+1 {
		return fmt.Errorf("%w: user tags exceed %d characters total", domain.ErrInvalidArgument, maxUserTagsLen)
	}
	return nil
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ID returns the post id.
func (p Post) ID() string { return p.id }

// Title returns the post title.
func (p Post) Title() string { return p.title }

// Text returns the post body.
func (p Post) Text() string { return p.text }

// Author returns the author login, empty when anonymized.
func (p Post) Author() string { return p.author }

// Section returns the owning section name.
func (p Post) Section() string { return p.section }

// CreatedAt returns the creation time in unix milliseconds.
func (p Post) CreatedAt() int64 { return p.createdAt }

// CreationTime returns the creation time.
func (p Post) CreationTime() time.Time { return time.UnixMilli(p.createdAt) }

// AgeHours returns the post age in hours at the given instant.
func (p Post) AgeHours(now time.Time) float64 {
	return now.Sub(p.CreationTime()).Hours()
}

// InitialScore returns the creation-time score seed.
func (p Post) InitialScore() float64 { return p.initialScore }

// TopicIDs returns the directly assigned topic ids.
func (p Post) TopicIDs() []string { return p.topicIDs }

// ImpliedTopicIDs returns the stored implied topic ids.
func (p Post) ImpliedTopicIDs() []string { return p.impliedIDs }

// AllTopicIDs returns the effective topic set: direct union implied.
func (p Post) AllTopicIDs() []string {
	out := make([]string, 0, len(p.topicIDs)+len(p.impliedIDs))
	out = append(out, p.topicIDs...)
	out = append(out, p.impliedIDs...)
	return out
}

// UserTags returns the free-text tags; they are labels, not graph topics.
func (p Post) UserTags() []string { return p.userTags }

// HasUserTag reports whether the post carries the given free-text tag.
func (p Post) HasUserTag(tag string) bool {
	for _, t := range p.userTags {
		if t == tag {
			return true
		}
	}
	return false
}
