// Package app assembles graph sources, caches and services from configuration
// for the command binaries.
package app

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vanshika/dronepath/internal/cache"
	"github.com/vanshika/dronepath/internal/config"
	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/graph"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/repository"
	"github.com/vanshika/dronepath/internal/service"
	"github.com/vanshika/dronepath/internal/source"
)

//go:embed default_graph.yaml
var defaultGraphYAML []byte

// ErrUnknownSource is returned for unsupported source kinds.
var ErrUnknownSource = errors.New("unknown source kind")

// DefaultGraph returns the built-in A..F waypoint map.
func DefaultGraph() (domain.Graph, error) {
	return source.Decode(bytes.NewReader(defaultGraphYAML), source.FormatYAML)
}

// Closer releases resources acquired while building components.
type Closer func(ctx context.Context) error

func noopCloser(context.Context) error { return nil }

// BuildGraphClient opens the Neo4j client described by cfg.
func BuildGraphClient(ctx context.Context, cfg config.GraphConfig) (graph.Client, error) {
	if cfg.URI == "" {
		return nil, graph.ErrMissingURI
	}
	return graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.URI,
		Database:       cfg.Database,
		Username:       cfg.Username,
		Password:       cfg.Password,
		MaxConnections: cfg.MaxConnections,
	})
}

// BuildMongoStore connects to the configured MongoDB collection.
func BuildMongoStore(ctx context.Context, cfg config.MongoConfig) (*source.MongoStore, error) {
	return source.NewMongoStore(ctx, source.MongoOptions{
		URI:        cfg.URI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})
}

// BuildSource creates the snapshot source selected by cfg.Source.Kind and,
// unless caching is disabled, wraps it in a CachedSource.
func BuildSource(ctx context.Context, cfg config.Config, logger *slog.Logger) (source.Source, Closer, error) {
	base, closeBase, err := buildBaseSource(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	kind := cfg.Cache.Kind
	if kind == "" || kind == "none" {
		return base, closeBase, nil
	}

	c, err := cache.New(ctx, cache.Options{
		Kind:          kind,
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = closeBase(ctx)
		return nil, nil, fmt.Errorf("build cache: %w", err)
	}

	cached := source.NewCachedSource(base, c, source.CachedOptions{
		Name:   cfg.Source.Kind + ":" + cfg.Source.Path,
		TTL:    cfg.Cache.TTL,
		Logger: logger,
	})
	closer := func(ctx context.Context) error {
		return errors.Join(c.Close(), closeBase(ctx))
	}
	return cached, closer, nil
}

func buildBaseSource(ctx context.Context, cfg config.Config) (source.Source, Closer, error) {
	switch cfg.Source.Kind {
	case config.SourceFile:
		src, err := source.NewFileSource(cfg.Source.Path)
		if err != nil {
			return nil, nil, err
		}
		return src, noopCloser, nil
	case config.SourceStatic:
		g, err := DefaultGraph()
		if err != nil {
			return nil, nil, fmt.Errorf("decode default graph: %w", err)
		}
		return source.NewStaticSource(g), noopCloser, nil
	case config.SourceNeo4j:
		client, err := BuildGraphClient(ctx, cfg.Graph)
		if err != nil {
			return nil, nil, fmt.Errorf("create graph client: %w", err)
		}
		return source.NewRepositorySource(repository.New(client)), client.Close, nil
	case config.SourceMongo:
		store, err := BuildMongoStore(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source.Kind)
	}
}

// BuildRouteService creates the route service and batch router for src.
// An unrecognised strategy falls back to breadth-first with a warning.
func BuildRouteService(cfg config.RoutingConfig, src source.Source, logger *slog.Logger) (*service.RouteService, *service.BatchRouter) {
	strategy, err := pathfind.ParseStrategy(cfg.Strategy)
	if err != nil {
		logger.Warn("falling back to bfs", "error", err)
	}
	routes := service.NewRouteService(src, service.RouteOptions{
		Strategy: strategy,
		Points:   cfg.Points,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	})
	return routes, service.NewBatchRouter(routes, cfg.Workers)
}
