package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, SourceFile, cfg.Source.Kind)
	assert.Equal(t, "none", cfg.Cache.Kind)
	assert.Equal(t, "bfs", cfg.Routing.Strategy)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, cfg.Routing.Points)
	assert.Empty(t, cfg.Validate())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_READ_TIMEOUT", "3s")
	t.Setenv("SERVER_METRICS_ENABLED", "true")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("GRAPH_URI", "bolt://localhost:7687")
	t.Setenv("SOURCE_KIND", "neo4j")
	t.Setenv("CACHE_KIND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("ROUTING_STRATEGY", "weighted")
	t.Setenv("ROUTING_POINTS", "A,B, C,A")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.HTTP.MetricsEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "bolt://localhost:7687", cfg.Graph.URI)
	assert.Equal(t, SourceNeo4j, cfg.Source.Kind)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "weighted", cfg.Routing.Strategy)
	assert.Equal(t, []string{"A", "B", "C"}, cfg.Routing.Points)
	assert.Empty(t, cfg.Validate())
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dronepath.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source:
  kind: mongo
mongo:
  uri: mongodb://localhost:27017
routing:
  points: [X, Y]
  timeout: 500ms
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMongo, cfg.Source.Kind)
	assert.Equal(t, []string{"X", "Y"}, cfg.Routing.Points)
	assert.Equal(t, 500*time.Millisecond, cfg.Routing.Timeout)
	assert.Equal(t, "waypoints", cfg.Mongo.Collection)
}

func TestValidateWarnings(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Source.Kind = SourceMongo
	cfg.Cache.Kind = "redis"
	cfg.Routing.Strategy = "astar"
	cfg.Routing.Points = nil

	assert.Len(t, cfg.Validate(), 4)
}
