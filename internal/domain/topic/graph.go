package topic

import (
	"fmt"

	"github.com/loomboard/feedrank/internal/domain"
)

// Graph is the topic implication graph: an arena of topics keyed by id plus
// adjacency lists for the directed "source implies target" relation.
//
// Invariant: for every edge source -> target, level(source) > level(target).
// A valid level assignment is a topological order witness, so maintaining it
// incrementally on insertion doubles as cycle detection. The graph is a plain
// in-memory component; callers hydrate it from storage and persist the Delta
// returned by AddImplication.
type Graph struct {
	topics   map[string]Topic
	children map[string][]string // implication source -> targets
	parents  map[string][]string // implication target -> sources
}

// Delta describes the mutations of one committed implication insertion.
type Delta struct {
	Source string
	Target string
	// Levels holds the raised level per topic id. Empty when every level
	// already satisfied the invariant.
	Levels map[string]int
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		topics:   make(map[string]Topic),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddTopic places a topic in the arena, replacing any topic with the same id.
func (g *Graph) AddTopic(t Topic) {
	g.topics[t.ID()] = t
}

// Topic returns the topic with the given id.
func (g *Graph) Topic(id string) (Topic, bool) {
	t, ok := g.topics[id]
	return t, ok
}

// Len returns the number of topics in the arena.
func (g *Graph) Len() int { return len(g.topics) }

// AddEdge records an existing implication edge during hydration. It performs
// no validation; use AddImplication for new edges.
func (g *Graph) AddEdge(source, target string) {
	g.children[source] = append(g.children[source], target)
	g.parents[target] = append(g.parents[target], source)
}

// HasEdge reports whether the implication source -> target exists.
func (g *Graph) HasEdge(source, target string) bool {
	for _, c := range g.children[source] {
		if c == target {
			return true
		}
	}
	return false
}

// AddImplication inserts the edge source -> target, raising levels as needed
// to keep the invariant. The insertion is all-or-nothing: on any error the
// graph is exactly as it was before the call.
//
// The required level for source is level(target)+1. A worklist of
// (requiredLevel, topic) pairs propagates raises upward through the topics
// that imply each raised topic. A cycle forces some topic to be raised twice
// within one propagation (the requirement keeps growing along the loop), which
// is exactly the rejection condition; no separate traversal is needed.
func (g *Graph) AddImplication(sourceID, targetID string) (Delta, error) {
	source, ok := g.topics[sourceID]
	if !ok {
		return Delta{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, sourceID)
	}
	target, ok := g.topics[targetID]
	if !ok {
		return Delta{}, fmt.Errorf("%w: %s", domain.ErrTopicNotFound, targetID)
	}
	if source.Section() != target.Section() {
		return Delta{}, fmt.Errorf("%w: %s is in %q, %s is in %q",
			domain.ErrSectionMismatch, source.Name(), source.Section(), target.Name(), target.Section())
	}
	if g.HasEdge(sourceID, targetID) {
		return Delta{}, fmt.Errorf("%w: implication %s -> %s", domain.ErrAlreadyExists, source.Name(), target.Name())
	}

	// Stage level raises without touching the arena; commit only on success.
	raised := make(map[string]int)
	level := func(id string) int {
		if l, ok := raised[id]; ok {
			return l
		}
		return g.topics[id].Level()
	}

	type frame struct {
		required int
		id       string
	}
	stack := []frame{{level(targetID) + 1, sourceID}}
	visited := map[string]struct{}{targetID: {}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if level(f.id) >= f.required {
			continue
		}
		if _, seen := visited[f.id]; seen {
			return Delta{}, fmt.Errorf("%w: %s -> %s", domain.ErrImplicationCycle, source.Name(), target.Name())
		}
		visited[f.id] = struct{}{}
		raised[f.id] = f.required
		for _, p := range g.parents[f.id] {
			stack = append(stack, frame{f.required + 1, p})
		}
	}

	for id, l := range raised {
		t := g.topics[id]
		t.level = l
		g.topics[id] = t
	}
	g.AddEdge(sourceID, targetID)

	return Delta{Source: sourceID, Target: targetID, Levels: raised}, nil
}

// Implied returns the transitive closure over outgoing implication edges from
// the given topic ids, excluding the ids themselves.
func (g *Graph) Implied(ids []string) []string {
	direct := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		direct[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	stack := append([]string(nil), ids...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.children[id] {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			stack = append(stack, c)
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		if _, ok := direct[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
