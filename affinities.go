package feedrank

import (
	"context"
	"time"

	affinityuc "github.com/loomboard/feedrank/internal/usecase/affinity"
)

// AffinityService reads and recomputes per-user topic affinities.
type AffinityService struct {
	svc *affinityuc.Service
}

// Get returns the user's affinity for a topic, 0 when none is stored.
func (s *AffinityService) Get(ctx context.Context, login, topicID string) (float64, error) {
	return s.svc.Get(ctx, login, topicID)
}

// Recompute rebuilds the user's affinities from their engagement history.
// Without force it is skipped unless the user opted in and the recompute
// interval has elapsed. Returns whether the recompute ran.
func (s *AffinityService) Recompute(ctx context.Context, login string, force bool) (bool, error) {
	return s.svc.Recompute(ctx, login, time.Now(), force)
}
