package feedrank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/loomboard/feedrank/internal/db"
	dbRedis "github.com/loomboard/feedrank/internal/db/redis"
	"github.com/loomboard/feedrank/internal/domain"
	affinityrepo "github.com/loomboard/feedrank/internal/repository/affinity"
	engagementrepo "github.com/loomboard/feedrank/internal/repository/engagement"
	postrepo "github.com/loomboard/feedrank/internal/repository/post"
	sectionrepo "github.com/loomboard/feedrank/internal/repository/section"
	sessionrepo "github.com/loomboard/feedrank/internal/repository/session"
	topicrepo "github.com/loomboard/feedrank/internal/repository/topic"
	userrepo "github.com/loomboard/feedrank/internal/repository/user"
	affinityuc "github.com/loomboard/feedrank/internal/usecase/affinity"
	feeduc "github.com/loomboard/feedrank/internal/usecase/feed"
	postuc "github.com/loomboard/feedrank/internal/usecase/post"
	topicgraphuc "github.com/loomboard/feedrank/internal/usecase/topicgraph"
	useruc "github.com/loomboard/feedrank/internal/usecase/user"
)

const (
	defaultReadinessTimeout  = 10 * time.Second
	defaultSessionTTL        = 12 * time.Hour
	defaultRecomputeInterval = 24 * time.Hour
)

// Client is the embedded feedrank entry point for in-process use.
type Client struct {
	store       db.Store
	feedSvc     *feeduc.Service
	postSvc     *postuc.Service
	userSvc     *useruc.Service
	graphSvc    *topicgraphuc.Service
	affinitySvc *affinityuc.Service
}

// New creates a feedrank Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		sessionTTL:        defaultSessionTTL,
		recomputeInterval: defaultRecomputeInterval,
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("feedrank: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("feedrank: create redis store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("feedrank: database not ready: %w", err)
	}

	if cfg.keyPrefix != "" {
		domain.KeyPrefix = cfg.keyPrefix
	}

	return wireClient(store, cfg), nil
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	posts := postrepo.New(store)
	topics := topicrepo.New(store)
	sections := sectionrepo.New(store)
	users := userrepo.New(store)
	engagement := engagementrepo.New(store)
	affinities := affinityrepo.New(store)
	sessions := sessionrepo.New(store, cfg.sessionTTL)

	graphSvc := topicgraphuc.New(topics)
	affinitySvc := affinityuc.New(affinities, engagement, posts, users, cfg.recomputeInterval)

	return &Client{
		store:       store,
		feedSvc:     feeduc.New(posts, topics, sections, users, engagement, sessions, affinitySvc),
		postSvc:     postuc.New(posts, graphSvc, engagement, sections, users),
		userSvc:     useruc.New(users, sections, topics),
		graphSvc:    graphSvc,
		affinitySvc: affinitySvc,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Feed returns the feed pagination service.
func (c *Client) Feed() *FeedService {
	return &FeedService{svc: c.feedSvc}
}

// Posts returns the posting and engagement service.
func (c *Client) Posts() *PostService {
	return &PostService{svc: c.postSvc}
}

// Users returns the user and section management service.
func (c *Client) Users() *UserService {
	return &UserService{svc: c.userSvc}
}

// Graph returns the topic implication graph service.
func (c *Client) Graph() *GraphService {
	return &GraphService{svc: c.graphSvc}
}

// Affinities returns the affinity service.
func (c *Client) Affinities() *AffinityService {
	return &AffinityService{svc: c.affinitySvc}
}
