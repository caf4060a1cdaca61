package post

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/loomboard/feedrank/internal/domain"
	domeng "github.com/loomboard/feedrank/internal/domain/engagement"
	dompost "github.com/loomboard/feedrank/internal/domain/post"
	"github.com/loomboard/feedrank/internal/domain/rank"
	"github.com/loomboard/feedrank/internal/domain/section"
)

// Detail is a post with its live counters, for the detail view.
type Detail struct {
	Post     dompost.Post
	Likes    int
	Dislikes int
	Comments int
	Liked    bool
	Disliked bool
}

// Service handles posting and engagement.
type Service struct {
	posts      Repository
	topics     TopicResolver
	engagement EngagementRepository
	sections   SectionRepository
	users      UserRepository
}

// New creates a post service.
func New(posts Repository, topics TopicResolver, engagement EngagementRepository, sections SectionRepository, users UserRepository) *Service {
	return &Service{
		posts:      posts,
		topics:     topics,
		engagement: engagement,
		sections:   sections,
		users:      users,
	}
}

// Create validates and stores a new post. Direct topics are resolved by name
// within the section and expanded over the implication graph; the initial
// score is the author's track record at this moment. anonymous drops the
// author from the stored post, which then ranks without one.
func (s *Service) Create(ctx context.Context, login, sectionName, title, text string, topicNames, userTags []string, anonymous bool) (dompost.Post, error) {
	if err := s.checkUser(ctx, login); err != nil {
		return dompost.Post{}, err
	}
	if sectionName == section.All {
		return dompost.Post{}, fmt.Errorf("%w: cannot post to the %q pseudo-section", domain.ErrInvalidArgument, section.All)
	}
	ok, err := s.sections.Exists(ctx, sectionName)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("check section: %w", err)
	}
	if !ok {
		return dompost.Post{}, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, sectionName)
	}

	topicIDs, err := s.topics.ResolveNames(ctx, sectionName, topicNames)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("resolve topics: %w", err)
	}
	implied, err := s.topics.Implied(ctx, sectionName, topicIDs)
	if err != nil {
		return dompost.Post{}, fmt.Errorf("expand implied topics: %w", err)
	}

	author := login
	initialScore := 0.0
	if anonymous {
		author = ""
	} else {
		if initialScore, err = s.initialScore(ctx, login); err != nil {
			return dompost.Post{}, err
		}
	}

	p, err := dompost.New(uuid.NewString(), title, text, author, sectionName,
		time.Now(), initialScore, topicIDs, implied, userTags)
	if err != nil {
		return dompost.Post{}, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return dompost.Post{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// Vote records a reaction on a post. reaction must be +1 or -1; re-voting
// replaces the user's previous reaction.
func (s *Service) Vote(ctx context.Context, login, postID string, reaction int) error {
	if reaction != 1 && reaction != -1 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidReaction, reaction)
	}
	if err := s.checkUser(ctx, login); err != nil {
		return err
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return err
	}
	return s.engagement.Vote(ctx, login, postID, reaction)
}

// Comment registers one comment by the user under the post. Comment bodies
// and threading live in the host application; only the counters rank posts.
func (s *Service) Comment(ctx context.Context, login, postID string) error {
	if err := s.checkUser(ctx, login); err != nil {
		return err
	}
	if _, err := s.posts.Get(ctx, postID); err != nil {
		return err
	}
	return s.engagement.Comment(ctx, login, postID)
}

// Get returns a post with its counters. viewer may be empty.
func (s *Service) Get(ctx context.Context, id, viewer string) (Detail, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	counters, err := s.engagement.CountersFor(ctx, []string{id}, viewer)
	if err != nil {
		return Detail{}, fmt.Errorf("load counters: %w", err)
	}
	c := domeng.Counters{}
	if len(counters) > 0 {
		c = counters[0]
	}
	return Detail{
		Post:     p,
		Likes:    c.Likes,
		Dislikes: c.Dislikes,
		Comments: c.Comments,
		Liked:    c.ViewerReaction > 0,
		Disliked: c.ViewerReaction < 0,
	}, nil
}

func (s *Service) checkUser(ctx context.Context, login string) error {
	ok, err := s.users.Exists(ctx, login)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, login)
	}
	return nil
}

// initialScore is the mean ageless static score of the author's existing
// posts, with live counters.
func (s *Service) initialScore(ctx context.Context, login string) (float64, error) {
	priors, err := s.posts.ListByAuthor(ctx, login)
	if err != nil {
		return 0, fmt.Errorf("load prior posts: %w", err)
	}
	if len(priors) == 0 {
		return 0, nil
	}
	ids := make([]string, len(priors))
	for i, p := range priors {
		ids[i] = p.ID()
	}
	counters, err := s.engagement.CountersFor(ctx, ids, "")
	if err != nil {
		return 0, fmt.Errorf("load prior counters: %w", err)
	}
	inputs := make([]rank.StaticInputs, len(priors))
	for i, p := range priors {
		inputs[i] = rank.StaticInputs{
			InitialScore: p.InitialScore(),
			Likes:        counters[i].Likes,
			Dislikes:     counters[i].Dislikes,
			Comments:     counters[i].Comments,
		}
	}
	return rank.InitialScore(inputs), nil
}
