package domain

// Edge is a directed, weighted connection to a neighbouring waypoint.
type Edge struct {
	To     string `json:"to" bson:"to"`
	Weight int    `json:"weight" bson:"weight"`
}

// Node is a waypoint together with its outgoing edges, in declaration order.
type Node struct {
	Label string `json:"label" bson:"label"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Graph is an ordered adjacency description. The order of Nodes fixes the
// index assigned to each label for the whole of a computation.
type Graph struct {
	Nodes []Node `json:"nodes"`
}

// AdjacencyEntry is a single (label, neighbours) pair used by FromAdjacency.
type AdjacencyEntry struct {
	Label     string
	Neighbors []Edge
}

// FromAdjacency builds a Graph from ordered adjacency entries.
func FromAdjacency(entries ...AdjacencyEntry) Graph {
	g := Graph{Nodes: make([]Node, 0, len(entries))}
	for _, e := range entries {
		edges := make([]Edge, len(e.Neighbors))
		copy(edges, e.Neighbors)
		g.Nodes = append(g.Nodes, Node{Label: e.Label, Edges: edges})
	}
	return g
}

// Labels returns the declared node labels in order.
func (g Graph) Labels() []string {
	labels := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		labels = append(labels, n.Label)
	}
	return labels
}

// Has reports whether label is a declared node.
func (g Graph) Has(label string) bool {
	for _, n := range g.Nodes {
		if n.Label == label {
			return true
		}
	}
	return false
}

// EdgeCount returns the total number of edges across all nodes.
func (g Graph) EdgeCount() int {
	total := 0
	for _, n := range g.Nodes {
		total += len(n.Edges)
	}
	return total
}

// Clone returns a deep copy of the graph.
func (g Graph) Clone() Graph {
	out := Graph{Nodes: make([]Node, len(g.Nodes))}
	for i, n := range g.Nodes {
		edges := make([]Edge, len(n.Edges))
		copy(edges, n.Edges)
		out.Nodes[i] = Node{Label: n.Label, Edges: edges}
	}
	return out
}
