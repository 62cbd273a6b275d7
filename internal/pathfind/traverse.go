package pathfind

// Traversal holds per-node results of a single-source exploration.
// Distances[v] and Chains[v] are meaningful only when Reached[v] is true.
// Chains[v] lists the indices visited after the source, ending at v.
type Traversal struct {
	Source    int
	Distances []int
	Reached   []bool
	Chains    [][]int
}

func newTraversal(n, source int) Traversal {
	return Traversal{
		Source:    source,
		Distances: make([]int, n),
		Reached:   make([]bool, n),
		Chains:    make([][]int, n),
	}
}

// Traverse explores m breadth-first from source. A node's distance and chain
// are settled when it is first enqueued and are never relaxed afterwards, so
// the result is a hop-ordered walk: exact for uniform weights, not a weighted
// shortest path in general. Ties go to the lower column index.
func Traverse(m Matrix, source int) Traversal {
	n := m.Size()
	t := newTraversal(n, source)
	if source < 0 || source >= n {
		return t
	}

	t.Reached[source] = true
	queue := make([]int, 0, n)
	queue = append(queue, source)

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for v, w := range m[u] {
			if w == NoEdge || t.Reached[v] {
				continue
			}
			t.Reached[v] = true
			t.Distances[v] = t.Distances[u] + w
			t.Chains[v] = extendChain(t.Chains[u], v)
			queue = append(queue, v)
		}
	}
	return t
}

func extendChain(prefix []int, v int) []int {
	chain := make([]int, len(prefix), len(prefix)+1)
	copy(chain, prefix)
	return append(chain, v)
}
