package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/vanshika/dronepath/internal/domain"
)

// Generator produces synthetic waypoint maps.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	if cfg.NumWaypoints <= 0 {
		cfg.NumWaypoints = DefaultConfig().NumWaypoints
	}
	if cfg.EdgeChance < 0 {
		cfg.EdgeChance = 0
	}
	if cfg.EdgeChance > 1 {
		cfg.EdgeChance = 1
	}
	if cfg.MinWeight < 0 {
		cfg.MinWeight = 0
	}
	if cfg.MaxWeight < cfg.MinWeight {
		cfg.MaxWeight = cfg.MinWeight
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate builds a map of NumWaypoints labelled A, B, ... Z, AA, AB, ...
// Self-loops are never produced. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Graph, error) {
	n := g.cfg.NumWaypoints
	labels := make([]string, n)
	for i := range labels {
		labels[i] = Label(i)
	}

	graph := domain.Graph{Nodes: make([]domain.Node, n)}
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return domain.Graph{}, err
		}

		node := domain.Node{Label: labels[i], Edges: []domain.Edge{}}
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			chained := g.cfg.Chain && j == i+1
			if !chained && g.rand.Float64() >= g.cfg.EdgeChance {
				continue
			}
			node.Edges = append(node.Edges, domain.Edge{To: labels[j], Weight: g.weight()})
		}
		graph.Nodes[i] = node
	}
	return graph, nil
}

func (g *Generator) weight() int {
	span := g.cfg.MaxWeight - g.cfg.MinWeight
	if span == 0 {
		return g.cfg.MinWeight
	}
	return g.cfg.MinWeight + g.rand.Intn(span+1)
}

// Label returns the spreadsheet-style label for index i: 0 -> A, 25 -> Z, 26 -> AA.
func Label(i int) string {
	var buf []byte
	for i >= 0 {
		buf = append([]byte{byte('A' + i%26)}, buf...)
		i = i/26 - 1
	}
	return string(buf)
}
