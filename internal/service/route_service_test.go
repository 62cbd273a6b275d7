package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/pathfind"
	"github.com/vanshika/dronepath/internal/source"
)

type failingSource struct {
	err error
}

func (f failingSource) Load(context.Context) (domain.Graph, error) {
	return domain.Graph{}, f.err
}

func limitationSource() source.Source {
	return source.NewStaticSource(domain.FromAdjacency(
		domain.AdjacencyEntry{Label: "A", Neighbors: []domain.Edge{{To: "B", Weight: 10}, {To: "C", Weight: 1}}},
		domain.AdjacencyEntry{Label: "B", Neighbors: []domain.Edge{{To: "D", Weight: 1}}},
		domain.AdjacencyEntry{Label: "C", Neighbors: []domain.Edge{{To: "B", Weight: 1}, {To: "D", Weight: 10}}},
	))
}

func TestRouteService_FindRoute(t *testing.T) {
	svc := NewRouteService(limitationSource(), RouteOptions{})

	route, err := svc.FindRoute(context.Background(), "A", "D")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if route.Distance != 11 || route.Path != "A -> B -> D" {
		t.Fatalf("unexpected route %+v", route)
	}
}

func TestRouteService_FindRouteWeighted(t *testing.T) {
	svc := NewRouteService(limitationSource(), RouteOptions{Strategy: pathfind.StrategyWeighted})

	route, err := svc.FindRoute(context.Background(), "A", "D")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if route.Distance != 3 || route.Path != "A -> C -> B -> D" {
		t.Fatalf("unexpected route %+v", route)
	}
}

func TestRouteService_FindRouteUnreachable(t *testing.T) {
	svc := NewRouteService(limitationSource(), RouteOptions{})

	route, err := svc.FindRoute(context.Background(), "D", "A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if route != domain.Unreachable {
		t.Fatalf("expected unreachable, got %+v", route)
	}
}

func TestRouteService_FindRouteUnresolved(t *testing.T) {
	svc := NewRouteService(limitationSource(), RouteOptions{})

	_, err := svc.FindRoute(context.Background(), "A", "F")
	if !errors.Is(err, pathfind.ErrUnresolvedNode) {
		t.Fatalf("expected ErrUnresolvedNode, got %v", err)
	}
}

func TestRouteService_FindRouteSourceFailure(t *testing.T) {
	boom := errors.New("bolt down")
	svc := NewRouteService(failingSource{err: boom}, RouteOptions{})

	_, err := svc.FindRoute(context.Background(), "A", "B")
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestRouteService_FindRouteInvalidGraph(t *testing.T) {
	bad := source.NewStaticSource(domain.FromAdjacency(
		domain.AdjacencyEntry{Label: "A", Neighbors: []domain.Edge{{To: "B", Weight: -2}}},
	))
	svc := NewRouteService(bad, RouteOptions{})

	_, err := svc.FindRoute(context.Background(), "A", "B")
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}

func TestRouteService_FindRouteCancelled(t *testing.T) {
	svc := NewRouteService(failingSource{err: context.Canceled}, RouteOptions{})

	_, err := svc.FindRoute(context.Background(), "A", "B")
	if !errors.Is(err, context.Canceled) || errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("expected bare context.Canceled, got %v", err)
	}
}

func TestRouteService_Points(t *testing.T) {
	svc := NewRouteService(limitationSource(), RouteOptions{})
	points := svc.Points(context.Background())
	if len(points) != len(domain.DefaultPoints) || points[0] != "A" || points[5] != "F" {
		t.Fatalf("expected default points, got %v", points)
	}

	points[0] = "Z"
	if !svc.IsPoint("A") || svc.IsPoint("Z") {
		t.Fatal("points must not be aliased")
	}

	custom := NewRouteService(limitationSource(), RouteOptions{Points: []string{"X"}})
	if !custom.IsPoint("X") || custom.IsPoint("A") {
		t.Fatalf("unexpected custom points %v", custom.Points(context.Background()))
	}
}
