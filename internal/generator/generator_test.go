package generator

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/source"
)

func TestLabel(t *testing.T) {
	for i, want := range map[int]string{0: "A", 5: "F", 25: "Z", 26: "AA", 27: "AB", 701: "ZZ", 702: "AAA"} {
		assert.Equal(t, want, Label(i), "index %d", i)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumWaypoints = 12

	first, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first.Nodes, 12)
}

func TestGenerateProducesRoutableMaps(t *testing.T) {
	cfg := Config{NumWaypoints: 30, EdgeChance: 0.1, MinWeight: 2, MaxWeight: 9, Chain: true, Seed: 7}
	g, err := New(cfg).Generate(context.Background())
	require.NoError(t, err)

	for _, n := range g.Nodes {
		for _, e := range n.Edges {
			assert.NotEqual(t, n.Label, e.To, "self-loop on %s", n.Label)
			assert.GreaterOrEqual(t, e.Weight, 2)
			assert.LessOrEqual(t, e.Weight, 9)
		}
	}

	_, _, err = pathfind.BuildMatrix(g)
	require.NoError(t, err)

	route, err := pathfind.FindShortestPath(g, "A", Label(29))
	require.NoError(t, err)
	assert.True(t, route.Reachable(), "chain should connect A to the last waypoint")
}

func TestGenerateWithoutEdges(t *testing.T) {
	g, err := New(Config{NumWaypoints: 4, EdgeChance: 0, Seed: 1}).Generate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, g.EdgeCount())
}

func TestGenerateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(DefaultConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteGraphRoundTrip(t *testing.T) {
	g, err := New(DefaultConfig()).Generate(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "maps", "random.toml")
	require.NoError(t, WriteGraph(g, path))

	loaded, err := source.LoadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, g.Labels(), loaded.Labels())
	assert.Equal(t, g.EdgeCount(), loaded.EdgeCount())

	var buf bytes.Buffer
	require.NoError(t, WriteGraphTo(&buf, g, source.FormatJSON))
	assert.Contains(t, buf.String(), `"A": {`)
}
