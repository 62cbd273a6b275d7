package pathfind

import "container/heap"

type frontierItem struct {
	node int
	dist int
}

type frontier []frontierItem

func (f frontier) Len() int { return len(f) }
func (f frontier) Less(i, j int) bool {
	if f[i].dist == f[j].dist {
		return f[i].node < f[j].node
	}
	return f[i].dist < f[j].dist
}
func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f *frontier) Push(x any)   { *f = append(*f, x.(frontierItem)) }
func (f *frontier) Pop() any {
	old := *f
	item := old[len(old)-1]
	*f = old[:len(old)-1]
	return item
}

// TraverseWeighted computes true weighted shortest distances from source with a
// lazy decrease-key priority frontier. It returns the same shape as Traverse.
func TraverseWeighted(m Matrix, source int) Traversal {
	n := m.Size()
	t := newTraversal(n, source)
	if source < 0 || source >= n {
		return t
	}

	pred := make([]int, n)
	for i := range pred {
		pred[i] = -1
	}
	settled := make([]bool, n)

	t.Reached[source] = true
	pq := &frontier{{node: source, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(frontierItem)
		u := item.node
		if settled[u] || item.dist > t.Distances[u] {
			continue
		}
		settled[u] = true

		for v, w := range m[u] {
			if w == NoEdge || settled[v] || v == source {
				continue
			}
			nd := t.Distances[u] + w
			if t.Reached[v] && nd >= t.Distances[v] {
				continue
			}
			t.Reached[v] = true
			t.Distances[v] = nd
			pred[v] = u
			heap.Push(pq, frontierItem{node: v, dist: nd})
		}
	}

	for v := range t.Chains {
		if v == source || !t.Reached[v] {
			continue
		}
		t.Chains[v] = chainFromPredecessors(pred, source, v)
	}
	return t
}

func chainFromPredecessors(pred []int, source, target int) []int {
	var reversed []int
	for v := target; v != source && v != -1; v = pred[v] {
		reversed = append(reversed, v)
	}
	chain := make([]int, len(reversed))
	for i, v := range reversed {
		chain[len(reversed)-1-i] = v
	}
	return chain
}
