package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vanshika/dronepath/internal/cache"
	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/observability"
)

const (
	defaultSnapshotTTL = 30 * time.Second
	defaultLoadTimeout = 30 * time.Second
)

// CachedSource serves snapshots from a cache, falling back to the wrapped
// source on a miss. Concurrent misses share a single load.
type CachedSource struct {
	next        Source
	cache       cache.Cache
	key         string
	ttl         time.Duration
	loadTimeout time.Duration
	logger      *slog.Logger
	group       singleflight.Group
}

// CachedOptions configures a CachedSource.
type CachedOptions struct {
	// Name distinguishes snapshots of different sources in a shared cache.
	Name string
	TTL  time.Duration
	// LoadTimeout bounds a shared load, which outlives any single caller.
	LoadTimeout time.Duration
	Logger      *slog.Logger
}

// NewCachedSource wraps next with c.
func NewCachedSource(next Source, c cache.Cache, opts CachedOptions) *CachedSource {
	if opts.TTL <= 0 {
		opts.TTL = defaultSnapshotTTL
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{
		next:        next,
		cache:       c,
		key:         cache.Key("graph", opts.Name),
		ttl:         opts.TTL,
		loadTimeout: opts.LoadTimeout,
		logger:      logger.With("component", "snapshot_cache"),
	}
}

// Load returns the cached snapshot or loads and stores a fresh one.
// Cache errors are logged and treated as misses.
func (s *CachedSource) Load(ctx context.Context) (domain.Graph, error) {
	ctx, span := observability.StartSnapshotSpan(ctx, s.key)
	defer span.End()

	if g, ok := s.lookup(ctx); ok {
		observability.ObserveSnapshot(observability.SnapshotHit, len(g.Nodes))
		return g, nil
	}

	// The shared load is detached from the caller that started it; each
	// caller still stops waiting when its own context ends.
	ch := s.group.DoChan(s.key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()
		g, err := s.next.Load(loadCtx)
		if err != nil {
			return domain.Graph{}, err
		}
		s.store(loadCtx, g)
		return g, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		return domain.Graph{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		observability.ObserveSnapshot(observability.SnapshotError, 0)
		span.RecordError(res.Err)
		return domain.Graph{}, fmt.Errorf("load snapshot: %w", res.Err)
	}

	g := res.Val.(domain.Graph)
	observability.ObserveSnapshot(observability.SnapshotMiss, len(g.Nodes))
	// Callers sharing a flight must not alias each other's slices.
	return g.Clone(), nil
}

// Invalidate drops the cached snapshot.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, s.key)
}

// Probe checks the wrapped source and, for remote caches, the cache itself.
func (s *CachedSource) Probe(ctx context.Context) error {
	var errs []error
	if p, ok := s.next.(Prober); ok {
		if err := p.Probe(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if p, ok := s.cache.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cache: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (s *CachedSource) lookup(ctx context.Context) (domain.Graph, bool) {
	data, ok, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("snapshot cache read failed", "error", err)
		return domain.Graph{}, false
	}
	if !ok {
		return domain.Graph{}, false
	}
	var g domain.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		s.logger.Warn("discarding undecodable snapshot", "error", err)
		return domain.Graph{}, false
	}
	return g, true
}

func (s *CachedSource) store(ctx context.Context, g domain.Graph) {
	data, err := json.Marshal(g)
	if err != nil {
		s.logger.Warn("encode snapshot", "error", err)
		return
	}
	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		s.logger.Warn("snapshot cache write failed", "error", err)
	}
}
