package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route query outcomes used as the "result" label.
const (
	ResultReachable   = "reachable"
	ResultUnreachable = "unreachable"
	ResultUnresolved  = "unresolved"
	ResultError       = "error"
)

// Snapshot load outcomes.
const (
	SnapshotHit   = "hit"
	SnapshotMiss  = "miss"
	SnapshotError = "error"
)

var (
	routeQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronepath_route_queries_total",
		Help: "Route queries by result",
	}, []string{"result", "strategy"})

	routeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dronepath_route_duration_seconds",
		Help:    "Time spent computing a route, snapshot load excluded",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	snapshotLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dronepath_snapshot_loads_total",
		Help: "Graph snapshot loads by cache result",
	}, []string{"result"})

	snapshotNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dronepath_snapshot_nodes",
		Help: "Declared waypoints in the most recently loaded snapshot",
	})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dronepath_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObserveRoute records a completed route query.
func ObserveRoute(result, strategy string, elapsed time.Duration) {
	routeQueriesTotal.WithLabelValues(result, strategy).Inc()
	routeDuration.Observe(elapsed.Seconds())
}

// ObserveSnapshot records a snapshot load and, on success, its size.
func ObserveSnapshot(result string, nodes int) {
	snapshotLoadsTotal.WithLabelValues(result).Inc()
	if result != SnapshotError {
		snapshotNodes.Set(float64(nodes))
	}
}

// ObserveHTTP records a served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// MetricsHandler exposes the default registry in the Prometheus text format.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
