package feedrank

import (
	"time"

	domfeed "github.com/loomboard/feedrank/internal/domain/feed"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
	domsection "github.com/loomboard/feedrank/internal/domain/section"
	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
	domuser "github.com/loomboard/feedrank/internal/domain/user"
)

// Post is a published forum post.
type Post struct {
	ID           string
	Title        string
	Text         string
	Author       string // empty when posted anonymously
	Section      string
	CreatedAt    time.Time
	InitialScore float64
	Topics       []string // direct topic ids
	Implied      []string // denormalized implication closure
	UserTags     []string
}

// PostDetail is a post with its live engagement counters.
type PostDetail struct {
	Post
	Likes    int
	Dislikes int
	Comments int
	Liked    bool
	Disliked bool
}

// FeedEntry is one delivered feed item.
type FeedEntry struct {
	Post
	Score    float64 // 0 for author-mode (chronological) feeds
	Likes    int
	Dislikes int
	Comments int
	Liked    bool
	Disliked bool
}

// User is a registered account.
type User struct {
	Login         string
	Name          string
	AutoRecompute bool
	CreatedAt     time.Time
}

// Section is a forum section.
type Section struct {
	Name        string
	Description string
	Icon        string
}

// Topic is a curated tag within a section.
type Topic struct {
	ID      string
	Section string
	Name    string
	Slug    string
	Tooltip string
	Level   int
}

// Selection identifies one feed context. Set exactly one of Author or
// Section; Topic narrows a Section selection to one topic reference (topic
// name, slug, or free-text tag).
type Selection struct {
	Section string
	Topic   string
	Author  string
}

func (s Selection) toDomain() domfeed.Selection {
	return domfeed.Selection{
		Section:  s.Section,
		TopicRef: s.Topic,
		Author:   s.Author,
	}
}

func postFromDomain(p dompost.Post) Post {
	return Post{
		ID:           p.ID(),
		Title:        p.Title(),
		Text:         p.Text(),
		Author:       p.Author(),
		Section:      p.Section(),
		CreatedAt:    p.CreationTime(),
		InitialScore: p.InitialScore(),
		Topics:       p.TopicIDs(),
		Implied:      p.ImpliedTopicIDs(),
		UserTags:     p.UserTags(),
	}
}

func entryFromDomain(e domfeed.Entry) FeedEntry {
	return FeedEntry{
		Post:     postFromDomain(e.Post),
		Score:    e.Score,
		Likes:    e.Likes,
		Dislikes: e.Dislikes,
		Comments: e.Comments,
		Liked:    e.Liked,
		Disliked: e.Disliked,
	}
}

func userFromDomain(u domuser.User) User {
	return User{
		Login:         u.Login(),
		Name:          u.Name(),
		AutoRecompute: u.AutoRecompute(),
		CreatedAt:     time.UnixMilli(u.CreatedAt()),
	}
}

func sectionFromDomain(s domsection.Section) Section {
	return Section{
		Name:        s.Name(),
		Description: s.Description(),
		Icon:        s.Icon(),
	}
}

func topicFromDomain(t domtopic.Topic) Topic {
	return Topic{
		ID:      t.ID(),
		Section: t.Section(),
		Name:    t.Name(),
		Slug:    t.Slug(),
		Tooltip: t.Tooltip(),
		Level:   t.Level(),
	}
}
