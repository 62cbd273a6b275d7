package pathfind

import (
	"fmt"

	"github.com/vanshika/dronepath/internal/domain"
)

// NoEdge marks a matrix cell without a direct connection.
const NoEdge = -1

// Index is the label to position table shared by every stage of one computation.
type Index struct {
	labels   []string
	pos      map[string]int
	declared int
}

// NewIndex assigns positions to the graph's declared labels in order, then to
// labels that only appear as neighbours, in order of first reference.
func NewIndex(g domain.Graph) (Index, error) {
	idx := Index{
		labels: make([]string, 0, len(g.Nodes)),
		pos:    make(map[string]int, len(g.Nodes)),
	}

	for _, n := range g.Nodes {
		if n.Label == "" {
			return Index{}, fmt.Errorf("%w: empty label at position %d", ErrInvalidNode, len(idx.labels))
		}
		if _, dup := idx.pos[n.Label]; dup {
			return Index{}, fmt.Errorf("%w: duplicate label %q", ErrInvalidNode, n.Label)
		}
		idx.add(n.Label)
	}
	idx.declared = len(idx.labels)

	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			if e.To == "" {
				return Index{}, fmt.Errorf("%w: %s has an edge without a target", ErrInvalidEdge, n.Label)
			}
			if _, ok := idx.pos[e.To]; !ok {
				idx.add(e.To)
			}
		}
	}
	return idx, nil
}

func (ix *Index) add(label string) {
	ix.pos[label] = len(ix.labels)
	ix.labels = append(ix.labels, label)
}

// Of returns the position of label.
func (ix Index) Of(label string) (int, bool) {
	i, ok := ix.pos[label]
	return i, ok
}

// Label returns the label stored at position i, or "" when out of range.
func (ix Index) Label(i int) string {
	if i < 0 || i >= len(ix.labels) {
		return ""
	}
	return ix.labels[i]
}

// Len is the number of indexed labels.
func (ix Index) Len() int { return len(ix.labels) }

// Declared reports whether label is a top-level node rather than a neighbour-only sink.
func (ix Index) Declared(label string) bool {
	i, ok := ix.pos[label]
	return ok && i < ix.declared
}

// Labels returns a copy of the indexed labels in position order.
func (ix Index) Labels() []string {
	return append([]string(nil), ix.labels...)
}

// Matrix is a dense weight matrix; Matrix[i][j] is the weight of edge i->j or NoEdge.
type Matrix [][]int

func newMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		row := make([]int, n)
		for j := range row {
			row[j] = NoEdge
		}
		m[i] = row
	}
	return m
}

// Size is the number of rows (and columns).
func (m Matrix) Size() int { return len(m) }

// Edge returns the weight of i->j and whether the edge exists.
func (m Matrix) Edge(i, j int) (int, bool) {
	if i < 0 || i >= len(m) || j < 0 || j >= len(m[i]) {
		return 0, false
	}
	w := m[i][j]
	return w, w != NoEdge
}

// BuildMatrix converts an adjacency description into a dense matrix and the
// index used to address it. A repeated neighbour within one node keeps the last weight.
func BuildMatrix(g domain.Graph) (Matrix, Index, error) {
	idx, err := NewIndex(g)
	if err != nil {
		return nil, Index{}, err
	}

	m := newMatrix(idx.Len())
	for _, n := range g.Nodes {
		i := idx.pos[n.Label]
		for _, e := range n.Edges {
			if e.Weight < 0 {
				return nil, Index{}, fmt.Errorf("%w: %s -> %s has negative weight %d", ErrInvalidEdge, n.Label, e.To, e.Weight)
			}
			if e.To == n.Label {
				return nil, Index{}, fmt.Errorf("%w: self-loop on %s", ErrInvalidEdge, n.Label)
			}
			m[i][idx.pos[e.To]] = e.Weight
		}
	}
	return m, idx, nil
}
