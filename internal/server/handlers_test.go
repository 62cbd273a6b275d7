package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vanshika/dronepath/internal/domain"
	"github.com/vanshika/dronepath/internal/service"
	"github.com/vanshika/dronepath/internal/source"
)

type brokenSource struct{}

func (brokenSource) Load(context.Context) (domain.Graph, error) {
	return domain.Graph{}, errors.New("satellite offline")
}

func (brokenSource) Probe(context.Context) error {
	return errors.New("satellite offline")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(src source.Source, metrics bool) http.Handler {
	logger := discardLogger()
	routes := service.NewRouteService(src, service.RouteOptions{Logger: logger})
	return NewRouter(logger, RouterDependencies{
		Health:         SourceHealthService{Source: src},
		Routes:         NewRouteHandlers(logger, routes, service.NewBatchRouter(routes, 2)),
		AllowedOrigins: []string{"http://localhost:3000"},
		MetricsEnabled: metrics,
	})
}

func limitationMap() source.Source {
	return source.NewStaticSource(domain.FromAdjacency(
		domain.AdjacencyEntry{Label: "A", Neighbors: []domain.Edge{{To: "B", Weight: 10}, {To: "C", Weight: 1}}},
		domain.AdjacencyEntry{Label: "B", Neighbors: []domain.Edge{{To: "D", Weight: 1}}},
		domain.AdjacencyEntry{Label: "C", Neighbors: []domain.Edge{{To: "B", Weight: 1}, {To: "D", Weight: 10}}},
	))
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestFindRoute(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"A","end":"D"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var route domain.Route
	if err := json.NewDecoder(rec.Body).Decode(&route); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if route.Distance != 11 || route.Path != "A -> B -> D" {
		t.Fatalf("unexpected route %+v", route)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a request id header")
	}
}

func TestFindRouteSamePoint(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"B","end":"B"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"path":"B -> B"`) || !strings.Contains(rec.Body.String(), `"distance":0`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestFindRouteUnreachable(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"D","end":"A"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"distance":-1,"path":""}` {
		t.Fatalf("unexpected body %s", got)
	}
}

func TestFindRouteInvalidPoint(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"Z","end":""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body validationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Errors) != 2 {
		t.Fatalf("expected two field errors, got %+v", body.Errors)
	}
	for i, field := range []string{"start", "end"} {
		if body.Errors[i].Field != field || body.Errors[i].Msg != "Not a valid point" {
			t.Errorf("unexpected error %d: %+v", i, body.Errors[i])
		}
	}
}

func TestFindRouteMalformedBody(t *testing.T) {
	h := newTestRouter(limitationMap(), false)
	for _, body := range []string{`{"start":`, `["A","B"]`} {
		if rec := post(t, h, "/path-find", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestFindRouteIgnoresExtraFields(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"A","end":"D","client":"x"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var route domain.Route
	if err := json.NewDecoder(rec.Body).Decode(&route); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if route.Distance != 11 {
		t.Fatalf("unexpected route %+v", route)
	}
}

// stalledSource never answers before its context ends.
type stalledSource struct{}

func (stalledSource) Load(ctx context.Context) (domain.Graph, error) {
	<-ctx.Done()
	return domain.Graph{}, ctx.Err()
}

func TestFindRouteTimeouts(t *testing.T) {
	logger := discardLogger()

	t.Run("request deadline", func(t *testing.T) {
		routes := service.NewRouteService(stalledSource{}, service.RouteOptions{Logger: logger})
		h := NewRouter(logger, RouterDependencies{
			Health:         SourceHealthService{Source: stalledSource{}},
			Routes:         NewRouteHandlers(logger, routes, service.NewBatchRouter(routes, 2)),
			RequestTimeout: 20 * time.Millisecond,
		})

		rec := post(t, h, "/path-find", `{"start":"A","end":"D"}`)
		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("routing deadline", func(t *testing.T) {
		routes := service.NewRouteService(stalledSource{}, service.RouteOptions{Logger: logger, Timeout: 20 * time.Millisecond})
		h := NewRouter(logger, RouterDependencies{
			Health: SourceHealthService{Source: stalledSource{}},
			Routes: NewRouteHandlers(logger, routes, service.NewBatchRouter(routes, 2)),
		})

		rec := post(t, h, "/path-find", `{"start":"A","end":"D"}`)
		if rec.Code != http.StatusGatewayTimeout {
			t.Fatalf("expected 504, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "timed out") {
			t.Fatalf("expected a timeout message, got %s", rec.Body.String())
		}
	})
}

func TestFindRouteValidPointMissingFromMap(t *testing.T) {
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find", `{"start":"A","end":"F"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFindRouteSourceFailure(t *testing.T) {
	rec := post(t, newTestRouter(brokenSource{}, false), "/path-find", `{"start":"A","end":"B"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "satellite") {
		t.Fatalf("internal error leaked to client: %s", rec.Body.String())
	}
}

func TestFindRoutesBatch(t *testing.T) {
	body := `{"pairs":[{"start":"A","end":"D"},{"start":"A","end":"F"},{"start":"D","end":"A"}]}`
	rec := post(t, newTestRouter(limitationMap(), false), "/path-find/batch", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp batchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Results) != 3 || resp.Failed != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Results[0].Route.Distance != 11 || resp.Results[1].Error == "" || resp.Results[2].Route != domain.Unreachable {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
}

func TestFindRoutesBatchValidation(t *testing.T) {
	h := newTestRouter(limitationMap(), false)

	rec := post(t, h, "/path-find/batch", `{"pairs":[{"start":"A","end":"X"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"field":"pairs[0].end"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = post(t, h, "/path-find/batch", `{"pairs":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an empty batch, got %d", rec.Code)
	}
}

func TestDescribeAndPoints(t *testing.T) {
	h := newTestRouter(limitationMap(), false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/path-find", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "A, B, C, D, E, F") {
		t.Fatalf("unexpected description %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/points", nil))
	if got := strings.TrimSpace(rec.Body.String()); got != `{"points":["A","B","C","D","E","F"]}` {
		t.Fatalf("unexpected points %s", got)
	}
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(limitationMap(), false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestRouter(brokenSource{}, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "degraded") {
		t.Fatalf("expected degraded health, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpointToggle(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(limitationMap(), false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with metrics disabled, got %d", rec.Code)
	}

	h := newTestRouter(limitationMap(), true)
	post(t, h, "/path-find", `{"start":"A","end":"C"}`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte("dronepath_route_queries_total")) {
		t.Fatalf("expected metrics output, got %d", rec.Code)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/points", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	newTestRouter(limitationMap(), false).ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "trace-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestRouter(limitationMap(), false)

	req := httptest.NewRequest(http.MethodOptions, "/path-find", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("unexpected preflight %d %v", rec.Code, rec.Header())
	}

	req = httptest.NewRequest(http.MethodOptions, "/path-find", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown origin, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(limitationMap(), false).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/path-find", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealthChecksJoinFailures(t *testing.T) {
	checks := HealthChecks{
		"source": SourceHealthService{Source: brokenSource{}},
		"static": SourceHealthService{Source: limitationMap()},
		"none":   nil,
	}
	err := checks.Probe(context.Background())
	if err == nil || !strings.Contains(err.Error(), "source: satellite offline") {
		t.Fatalf("unexpected probe result %v", err)
	}
}
