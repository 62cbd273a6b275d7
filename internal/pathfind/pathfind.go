// Package pathfind computes routes over a waypoint graph: it builds a dense
// weight matrix, explores it from a single source and renders the chain that
// reached the target. Every call works on its own copies and keeps no state.
package pathfind

import (
	"fmt"
	"strings"

	"github.com/vanshika/dronepath/internal/domain"
)

// Strategy selects the traversal used by FindShortestPath.
type Strategy int

const (
	// StrategyBreadthFirst settles each node on first visit (hop order).
	StrategyBreadthFirst Strategy = iota
	// StrategyWeighted relaxes edges over a priority frontier (Dijkstra).
	StrategyWeighted
)

func (s Strategy) String() string {
	switch s {
	case StrategyWeighted:
		return "weighted"
	default:
		return "bfs"
	}
}

// ParseStrategy maps a configuration value to a Strategy. Empty means bfs.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bfs", "breadth-first":
		return StrategyBreadthFirst, nil
	case "weighted", "dijkstra":
		return StrategyWeighted, nil
	default:
		return StrategyBreadthFirst, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

type options struct {
	strategy Strategy
}

// Option customises FindShortestPath.
type Option func(*options)

// WithStrategy selects the traversal strategy.
func WithStrategy(s Strategy) Option {
	return func(o *options) { o.strategy = s }
}

func (s Strategy) traverse(m Matrix, source int) Traversal {
	if s == StrategyWeighted {
		return TraverseWeighted(m, source)
	}
	return Traverse(m, source)
}

// FindShortestPath returns the route from start to end over g.
//
// Unknown labels produce ErrUnresolvedNode. When start equals end the route has
// distance 0 and the path "start -> end". An unreached end yields
// domain.Unreachable and no error.
func FindShortestPath(g domain.Graph, start, end string, opts ...Option) (domain.Route, error) {
	o := options{strategy: StrategyBreadthFirst}
	for _, opt := range opts {
		opt(&o)
	}

	m, idx, err := BuildMatrix(g)
	if err != nil {
		return domain.Route{}, err
	}

	source, ok := idx.Of(start)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: start %q", ErrUnresolvedNode, start)
	}
	target, ok := idx.Of(end)
	if !ok {
		return domain.Route{}, fmt.Errorf("%w: end %q", ErrUnresolvedNode, end)
	}

	if source == target {
		return domain.Route{Distance: 0, Path: domain.FormatPath([]string{start, end})}, nil
	}

	t := o.strategy.traverse(m, source)
	if !t.Reached[target] {
		return domain.Unreachable, nil
	}

	labels := LabelSequence(idx, t.Chains, source, target)
	if len(labels) == 0 {
		return domain.Unreachable, nil
	}
	return domain.Route{Distance: t.Distances[target], Path: domain.FormatPath(labels)}, nil
}
