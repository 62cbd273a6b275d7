package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vanshika/dronepath/internal/pathfind"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"server"`
	Graph   GraphConfig   `mapstructure:"graph"`
	Logging LoggingConfig `mapstructure:"log"`
	Source  SourceConfig  `mapstructure:"source"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Routing RoutingConfig `mapstructure:"routing"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	AllowedOriginsCSV string        `mapstructure:"allowed_origins"`
}

// AllowedOrigins splits the CSV origin list.
func (c HTTPConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOriginsCSV, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// GraphConfig describes connectivity to the Neo4j waypoint store.
type GraphConfig struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Format        string `mapstructure:"format"` // text|json
	Colored       bool   `mapstructure:"color"`
	IncludeCaller bool   `mapstructure:"include_caller"`
}

// SourceConfig selects where graph snapshots come from.
type SourceConfig struct {
	Kind string `mapstructure:"kind"` // file|neo4j|mongo|static
	Path string `mapstructure:"path"`
}

// MongoConfig describes the MongoDB waypoint collection.
type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// CacheConfig controls snapshot caching.
type CacheConfig struct {
	Kind string        `mapstructure:"kind"` // none|memory|redis
	TTL  time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds the Redis connection used by the redis cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RoutingConfig tunes route computation.
type RoutingConfig struct {
	Strategy string        `mapstructure:"strategy"`
	Points   []string      `mapstructure:"points"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Workers  int           `mapstructure:"workers"`
}

// TracingConfig enables OTLP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
	Insecure   bool    `mapstructure:"insecure"`
}

// Source kinds.
const (
	SourceFile   = "file"
	SourceNeo4j  = "neo4j"
	SourceMongo  = "mongo"
	SourceStatic = "static"
)

var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             8080,
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    15 * time.Second,
	"server.idle_timeout":     60 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"server.request_timeout":  5 * time.Second,
	"server.metrics_enabled":  false,
	"server.allowed_origins":  "",

	"log.level":          "info",
	"log.format":         "text",
	"log.color":          false,
	"log.include_caller": false,

	"graph.uri":             "",
	"graph.database":        "",
	"graph.username":        "",
	"graph.password":        "",
	"graph.max_connections": 10,

	"source.kind": SourceFile,
	"source.path": "configs/graph.yaml",

	"mongo.uri":        "",
	"mongo.database":   "dronepath",
	"mongo.collection": "waypoints",

	"cache.kind": "none",
	"cache.ttl":  30 * time.Second,

	"redis.addr":     "",
	"redis.password": "",
	"redis.db":       0,

	"routing.strategy": "bfs",
	"routing.points":   []string{"A", "B", "C", "D", "E", "F"},
	"routing.timeout":  2 * time.Second,
	"routing.workers":  4,

	"tracing.endpoint":    "",
	"tracing.sample_rate": 1.0,
	"tracing.insecure":    true,
}

// Load reads configuration from an optional file and the environment,
// applying defaults. Environment names are the upper-cased keys with dots
// replaced by underscores, e.g. SERVER_PORT or ROUTING_STRATEGY.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.HTTP.Port)
	}
	cfg.Routing.Points = normalizePoints(cfg.Routing.Points)

	return cfg, nil
}

// Validate reports configuration problems that do not prevent loading but
// will likely fail at startup or degrade behaviour.
func (c Config) Validate() []string {
	var warnings []string

	switch c.Source.Kind {
	case SourceFile:
		if c.Source.Path == "" {
			warnings = append(warnings, "source kind 'file' is configured but source.path is empty")
		}
	case SourceNeo4j:
		if c.Graph.URI == "" {
			warnings = append(warnings, "source kind 'neo4j' is configured but graph.uri is empty")
		}
	case SourceMongo:
		if c.Mongo.URI == "" {
			warnings = append(warnings, "source kind 'mongo' is configured but mongo.uri is empty")
		}
	case SourceStatic:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown source kind '%s'", c.Source.Kind))
	}

	if c.Cache.Kind == "redis" && c.Redis.Addr == "" {
		warnings = append(warnings, "cache kind 'redis' is configured but redis.addr is empty")
	}
	if c.Cache.Kind != "" && c.Cache.Kind != "none" && c.Cache.TTL <= 0 {
		warnings = append(warnings, fmt.Sprintf("cache ttl %s is not positive", c.Cache.TTL))
	}

	if _, err := pathfind.ParseStrategy(c.Routing.Strategy); err != nil {
		warnings = append(warnings, fmt.Sprintf("routing strategy '%s' is not recognised, using bfs", c.Routing.Strategy))
	}
	if len(c.Routing.Points) == 0 {
		warnings = append(warnings, "routing.points is empty, every request will be rejected")
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}

	return warnings
}

func normalizePoints(points []string) []string {
	seen := make(map[string]struct{}, len(points))
	out := make([]string, 0, len(points))
	for _, p := range points {
		// Env values arrive as a single "A,B,C" element on some viper paths.
		for _, part := range strings.Split(p, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if _, dup := seen[part]; dup {
				continue
			}
			seen[part] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
