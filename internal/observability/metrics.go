package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the viewer.
type Metrics struct {
	// Backend client metrics.
	BackendRequests *prometheus.CounterVec   // labels: endpoint, outcome={success,not_found,error,timeout,parse_error}
	BackendDuration *prometheus.HistogramVec // labels: endpoint
	ArchiveCache    *prometheus.CounterVec   // labels: result={hit,miss}

	// Session metrics.
	ActiveSessions prometheus.Gauge
	StaleResults   *prometheus.CounterVec // labels: context={storms,detail,city,grid,inspect}

	// Outbound enrichment and publishing.
	PlaceLookups    *prometheus.CounterVec // labels: outcome={success,error,empty}
	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all viewer metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.BackendRequests,
		m.BackendDuration,
		m.ArchiveCache,
		m.ActiveSessions,
		m.StaleResults,
		m.PlaceLookups,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests. One-shot
// command-line tools that never serve /metrics use it too.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_viewer",
			Name:      "backend_requests_total",
			Help:      "Weather/storm backend requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storm_viewer",
			Name:      "backend_request_duration_seconds",
			Help:      "Weather/storm backend request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 250},
		}, []string{"endpoint"}),
		ArchiveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_viewer",
			Name:      "archive_cache_total",
			Help:      "Historical response cache lookups by result.",
		}, []string{"result"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_viewer",
			Name:      "active_sessions",
			Help:      "View sessions currently held in memory.",
		}),
		StaleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_viewer",
			Name:      "stale_results_total",
			Help:      "Fetch results discarded because a newer request superseded them.",
		}, []string{"context"}),
		PlaceLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_viewer",
			Name:      "place_lookups_total",
			Help:      "Reverse geocoding lookups by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_viewer",
			Name:      "events_published_total",
			Help:      "View events published to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}
