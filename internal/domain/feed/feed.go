package feed

import (
	"fmt"

	"github.com/loomboard/feedrank/internal/domain"
	"github.com/loomboard/feedrank/internal/domain/post"
	"github.com/loomboard/feedrank/internal/domain/section"
)

// Mode selects how feed candidates are gathered.
type Mode string

const (
	// ModeSection selects the posts of one section, or of every section for
	// the "all" pseudo-section.
	ModeSection Mode = "section"
	// ModeTopic selects the posts of a section carrying a topic reference
	// (topic name, slug, or free-text user tag).
	ModeTopic Mode = "topic"
	// ModeAuthor selects one author's posts, ordered chronologically rather
	// than by score.
	ModeAuthor Mode = "author"
)

// Selection identifies one feed context. Delivered-post bookkeeping is scoped
// to (session, Selection): switching contexts starts a fresh delivery record.
type Selection struct {
	Section  string
	TopicRef string
	Author   string
}

// BySection selects a section feed.
func BySection(name string) Selection { return Selection{Section: name} }

// ByTopic selects a topic feed within a section.
func ByTopic(sectionName, topicRef string) Selection {
	return Selection{Section: sectionName, TopicRef: topicRef}
}

// ByAuthor selects an author's chronological feed.
func ByAuthor(login string) Selection { return Selection{Author: login} }

// Mode returns the selection mode.
func (s Selection) Mode() Mode {
	switch {
	case s.Author != "":
		return ModeAuthor
	case s.TopicRef != "":
		return ModeTopic
	default:
		return ModeSection
	}
}

// Validate checks that the selection is well-formed.
func (s Selection) Validate() error {
	if s.Author != "" && (s.Section != "" || s.TopicRef != "") {
		return fmt.Errorf("%w: author selection excludes section and topic", domain.ErrInvalidArgument)
	}
	if s.TopicRef != "" && (s.Section == "" || s.Section == section.All) {
		return fmt.Errorf("%w: topic selection requires a concrete section", domain.ErrInvalidArgument)
	}
	if s.Author == "" && s.Section == "" {
		return fmt.Errorf("%w: empty selection", domain.ErrInvalidArgument)
	}
	return nil
}

// ContextKey returns the stable identifier of this feed context, used to key
// the per-session delivered set.
func (s Selection) ContextKey() string {
	switch s.Mode() {
	case ModeAuthor:
		return "author/" + s.Author
	case ModeTopic:
		return "topic/" + s.Section + "/" + s.TopicRef
	default:
		return "section/" + s.Section
	}
}

// Entry is one delivered feed item: the post plus the engagement projection
// the UI renders. Score is the rank the entry was delivered under; for author
// feeds it is 0 (chronological order).
type Entry struct {
	Post     post.Post
	Score    float64
	Likes    int
	Dislikes int
	Comments int
	Liked    bool
	Disliked bool
}
