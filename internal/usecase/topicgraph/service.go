package topicgraph

import (
	"context"
	"fmt"

	"github.com/loomboard/feedrank/internal/domain"
)

// Service maintains the topic implication graph. Each mutation hydrates a
// fresh graph snapshot from storage, applies the change in memory, and
// commits the resulting delta in a single atomic batch, so the stored graph
// only ever moves between invariant-preserving states.
type Service struct {
	repo Repository
}

// New creates a topic graph service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddImplication inserts the edge source -> target ("source implies target").
// Both topics must exist in the same section; insertions that would close a
// cycle are rejected with ErrImplicationCycle and leave storage untouched.
func (s *Service) AddImplication(ctx context.Context, sourceID, targetID string) error {
	source, err := s.repo.Get(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	target, err := s.repo.Get(ctx, targetID)
	if err != nil {
		return fmt.Errorf("load target: %w", err)
	}
	if source.Section() != target.Section() {
		return fmt.Errorf("%w: %s is in section %q, %s in %q",
			domain.ErrSectionMismatch, sourceID, source.Section(), targetID, target.Section())
	}

	g, err := s.repo.LoadGraph(ctx, source.Section())
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}
	delta, err := g.AddImplication(sourceID, targetID)
	if err != nil {
		return err
	}
	if err := s.repo.CommitImplication(ctx, delta); err != nil {
		return fmt.Errorf("commit implication: %w", err)
	}
	return nil
}

// Implied resolves the transitive implication closure of the given topic ids
// within one section, excluding the ids themselves.
func (s *Service) Implied(ctx context.Context, sectionName string, topicIDs []string) ([]string, error) {
	g, err := s.repo.LoadGraph(ctx, sectionName)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return g.Implied(topicIDs), nil
}

// ResolveNames maps topic names to ids within a section, failing on the
// first unknown name.
func (s *Service) ResolveNames(ctx context.Context, sectionName string, names []string) ([]string, error) {
	ids := make([]string, len(names))
	for i, name := range names {
		id, err := s.repo.ResolveName(ctx, sectionName, name)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
