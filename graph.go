package feedrank

import (
	"context"

	topicgraphuc "github.com/loomboard/feedrank/internal/usecase/topicgraph"
)

// GraphService manages the topic implication graph.
type GraphService struct {
	svc *topicgraphuc.Service
}

// AddImplication inserts the edge source→target ("source implies target").
// Both topics must exist in the same section. Returns ErrImplicationCycle
// when the edge would close a cycle; in that case nothing is persisted.
func (s *GraphService) AddImplication(ctx context.Context, sourceID, targetID string) error {
	return s.svc.AddImplication(ctx, sourceID, targetID)
}

// Implied returns the transitive implication closure of the given topics
// within a section, excluding the inputs themselves.
func (s *GraphService) Implied(ctx context.Context, section string, topicIDs []string) ([]string, error) {
	return s.svc.Implied(ctx, section, topicIDs)
}
