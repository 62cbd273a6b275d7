package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/graph"
)

// ErrEmptyGraph is returned by ReplaceGraph when there is nothing to store.
var ErrEmptyGraph = errors.New("graph has no waypoints")

// Repository persists waypoint graphs in the graph database. Waypoints are
// stored as (:Waypoint {label, position}) and edges as [:ROUTE {distance, ordinal}].
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// LoadGraph reads every declared waypoint ordered by position, with edges in
// their stored ordinal order.
func (r *Repository) LoadGraph(ctx context.Context) (domain.Graph, error) {
	res, err := r.client.ExecuteRead(ctx, loadGraphCypher, nil)
	if err != nil {
		return domain.Graph{}, fmt.Errorf("load graph query: %w", err)
	}

	type row struct {
		position int64
		node     domain.Node
	}
	rows := make([]row, 0, len(res.Records))
	for _, record := range res.Records {
		label := toString(record["label"])
		if label == "" {
			continue
		}
		node := domain.Node{Label: label}
		if edgesRaw, ok := record["edges"].([]any); ok {
			for _, e := range edgesRaw {
				edgeMap, ok := e.(map[string]any)
				if !ok {
					continue
				}
				to := toString(edgeMap["to"])
				if to == "" {
					continue
				}
				node.Edges = append(node.Edges, domain.Edge{To: to, Weight: int(toInt64(edgeMap["weight"]))})
			}
		}
		rows = append(rows, row{position: toInt64(record["position"]), node: node})
	}

	// The query orders by position already; keep the result stable for
	// clients that ignore ORDER BY.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].position < rows[j].position })

	g := domain.Graph{Nodes: make([]domain.Node, 0, len(rows))}
	for _, rw := range rows {
		g.Nodes = append(g.Nodes, rw.node)
	}
	return g, nil
}

// ReplaceGraph atomically removes all stored waypoints and writes g in
// their place.
func (r *Repository) ReplaceGraph(ctx context.Context, g domain.Graph) error {
	if len(g.Nodes) == 0 {
		return ErrEmptyGraph
	}

	// Clear and re-insert share one transaction so a failed ingest leaves
	// the previous map in place.
	stmts := []graph.Statement{
		{Query: clearGraphCypher},
		{Query: upsertWaypointsCypher, Params: map[string]any{"nodes": waypointParams(g)}},
	}
	if edges := routeParams(g); len(edges) > 0 {
		stmts = append(stmts, graph.Statement{Query: upsertRoutesCypher, Params: map[string]any{"edges": edges}})
	}
	if err := r.client.ExecuteWriteTx(ctx, stmts); err != nil {
		return fmt.Errorf("replace graph: %w", err)
	}
	return nil
}

// Ping verifies the backing database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.VerifyConnectivity(ctx)
}

func waypointParams(g domain.Graph) []map[string]any {
	declared := make(map[string]struct{}, len(g.Nodes))
	params := make([]map[string]any, 0, len(g.Nodes))
	for i, n := range g.Nodes {
		declared[n.Label] = struct{}{}
		params = append(params, map[string]any{
			"label":    n.Label,
			"position": int64(i),
		})
	}

	// Neighbour-only labels become waypoints after the declared ones, in
	// first-reference order, matching the index order used for routing.
	next := int64(len(g.Nodes))
	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			if _, ok := declared[e.To]; ok {
				continue
			}
			declared[e.To] = struct{}{}
			params = append(params, map[string]any{
				"label":    e.To,
				"position": next,
			})
			next++
		}
	}
	return params
}

func routeParams(g domain.Graph) []map[string]any {
	params := make([]map[string]any, 0, g.EdgeCount())
	for _, n := range g.Nodes {
		for i, e := range n.Edges {
			params = append(params, map[string]any{
				"from":    n.Label,
				"to":      e.To,
				"weight":  int64(e.Weight),
				"ordinal": int64(i),
			})
		}
	}
	return params
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toInt64(val any) int64 {
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

const loadGraphCypher = `
MATCH (w:Waypoint)
OPTIONAL MATCH (w)-[r:ROUTE]->(n:Waypoint)
WITH w, r, n
ORDER BY w.position, r.ordinal
WITH w, collect(CASE WHEN n IS NULL THEN NULL ELSE {to: n.label, weight: r.distance} END) AS edges
RETURN w.label AS label, w.position AS position, edges
ORDER BY position
`

const clearGraphCypher = `
MATCH (w:Waypoint)
DETACH DELETE w
`

const upsertWaypointsCypher = `
UNWIND $nodes AS node
MERGE (w:Waypoint {label: node.label})
SET w.position = node.position
`

const upsertRoutesCypher = `
UNWIND $edges AS edge
MATCH (a:Waypoint {label: edge.from})
MATCH (b:Waypoint {label: edge.to})
MERGE (a)-[r:ROUTE]->(b)
SET r.distance = edge.weight, r.ordinal = edge.ordinal
`
