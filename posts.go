package feedrank

import (
	"context"

	postuc "github.com/loomboard/feedrank/internal/usecase/post"
)

// PostService publishes posts and records engagement.
type PostService struct {
	svc *postuc.Service
}

// CreatePostParams describes a new post.
type CreatePostParams struct {
	Login     string
	Section   string
	Title     string
	Text      string
	Topics    []string // topic names, resolved within the section
	UserTags  []string
	Anonymous bool
}

// Create validates and publishes a post. Topic names are resolved within the
// section and expanded through the implication graph; the initial score is
// derived from the author's posting history.
func (s *PostService) Create(ctx context.Context, p CreatePostParams) (Post, error) {
	created, err := s.svc.Create(ctx, p.Login, p.Section, p.Title, p.Text, p.Topics, p.UserTags, p.Anonymous)
	if err != nil {
		return Post{}, err
	}
	return postFromDomain(created), nil
}

// Get returns a post with live counters. viewer may be empty.
func (s *PostService) Get(ctx context.Context, id, viewer string) (PostDetail, error) {
	d, err := s.svc.Get(ctx, id, viewer)
	if err != nil {
		return PostDetail{}, err
	}
	return PostDetail{
		Post:     postFromDomain(d.Post),
		Likes:    d.Likes,
		Dislikes: d.Dislikes,
		Comments: d.Comments,
		Liked:    d.Liked,
		Disliked: d.Disliked,
	}, nil
}

// Vote records a like (+1) or dislike (-1), replacing any prior vote by the
// same user.
func (s *PostService) Vote(ctx context.Context, login, postID string, reaction int) error {
	return s.svc.Vote(ctx, login, postID, reaction)
}

// Comment bumps the post's comment count.
func (s *PostService) Comment(ctx context.Context, login, postID string) error {
	return s.svc.Comment(ctx, login, postID)
}
