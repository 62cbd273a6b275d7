package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/observability"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/source"
)

// ErrSnapshotUnavailable wraps failures to obtain a usable graph snapshot,
// whether the source failed or returned a graph that cannot be routed over.
var ErrSnapshotUnavailable = errors.New("graph snapshot unavailable")

// RouteService answers route queries against the current graph snapshot.
type RouteService struct {
	source   source.Source
	strategy pathfind.Strategy
	points   []string
	timeout  time.Duration
	logger   *slog.Logger
	nowFn    func() time.Time
}

// RouteOptions configures a RouteService.
type RouteOptions struct {
	Strategy pathfind.Strategy
	// Points are the labels accepted as start or end. Defaults to domain.DefaultPoints.
	Points []string
	// Timeout bounds a single query, snapshot load included. Zero disables it.
	Timeout time.Duration
	Logger  *slog.Logger
}

// NewRouteService creates a RouteService instance.
func NewRouteService(src source.Source, opts RouteOptions) *RouteService {
	points := opts.Points
	if len(points) == 0 {
		points = domain.DefaultPoints
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteService{
		source:   src,
		strategy: opts.Strategy,
		points:   append([]string(nil), points...),
		timeout:  opts.Timeout,
		logger:   logger.With("component", "route_service"),
		nowFn:    time.Now,
	}
}

// FindRoute loads a snapshot and computes the route from start to end.
// An unreachable end is returned as domain.Unreachable with a nil error.
func (s *RouteService) FindRoute(ctx context.Context, start, end string) (domain.Route, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	g, err := s.snapshot(ctx)
	if err != nil {
		observability.ObserveRoute(observability.ResultError, s.strategy.String(), 0)
		return domain.Route{}, err
	}
	return s.route(ctx, g, start, end)
}

// Points returns the accepted waypoint labels.
func (s *RouteService) Points(context.Context) []string {
	return append([]string(nil), s.points...)
}

// IsPoint reports whether label is an accepted waypoint.
func (s *RouteService) IsPoint(label string) bool {
	for _, p := range s.points {
		if p == label {
			return true
		}
	}
	return false
}

// Strategy returns the configured traversal strategy.
func (s *RouteService) Strategy() pathfind.Strategy {
	return s.strategy
}

func (s *RouteService) snapshot(ctx context.Context) (domain.Graph, error) {
	g, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.Graph{}, err
		}
		s.logger.Error("snapshot load failed", "error", err)
		return domain.Graph{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	}
	return g, nil
}

func (s *RouteService) route(ctx context.Context, g domain.Graph, start, end string) (domain.Route, error) {
	_, span := observability.StartRouteSpan(ctx, start, end, s.strategy.String())
	defer span.End()

	began := s.nowFn()
	route, err := pathfind.FindShortestPath(g, start, end, pathfind.WithStrategy(s.strategy))
	elapsed := s.nowFn().Sub(began)

	switch {
	case errors.Is(err, pathfind.ErrUnresolvedNode):
		observability.ObserveRoute(observability.ResultUnresolved, s.strategy.String(), elapsed)
		return domain.Route{}, err
	case err != nil:
		span.RecordError(err)
		observability.ObserveRoute(observability.ResultError, s.strategy.String(), elapsed)
		s.logger.Error("snapshot rejected", "error", err)
		return domain.Route{}, fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
	case !route.Reachable():
		observability.ObserveRoute(observability.ResultUnreachable, s.strategy.String(), elapsed)
	default:
		observability.ObserveRoute(observability.ResultReachable, s.strategy.String(), elapsed)
	}

	s.logger.Debug("route computed",
		"start", start,
		"end", end,
		"distance", route.Distance,
		"elapsed", elapsed,
	)
	return route, nil
}
