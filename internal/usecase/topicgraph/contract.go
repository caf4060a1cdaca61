package topicgraph

import (
	"context"

	domtopic "github.com/loomboard/feedrank/internal/domain/topic"
)

// Repository defines the storage contract for the implication graph.
type Repository interface {
	Get(ctx context.Context, id string) (domtopic.Topic, error)
	ResolveName(ctx context.Context, sectionName, name string) (string, error)
	LoadGraph(ctx context.Context, sectionName string) (*domtopic.Graph, error)
	CommitImplication(ctx context.Context, delta domtopic.Delta) error
}
