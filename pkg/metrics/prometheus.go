// Package metrics provides Prometheus metrics for the matching engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Core Business Metrics - the matching engine itself
	sessionsComputed       prometheus.Counter
	sessionComputeDuration prometheus.Histogram
	roundsComputed         prometheus.Counter
	specialInterviews      prometheus.Counter
	unmetOverrides         prometheus.Counter
	validationErrors       prometheus.Counter
	solverDuration         prometheus.Histogram

	// Store Metrics
	storeLatency prometheus.Histogram
	sessionCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "hirefair",
		subsystem:        "matching",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.sessionsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sessions_computed_total",
		Help:      "Total number of matching sessions computed and persisted",
	})
	m.sessionComputeDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_compute_duration_milliseconds",
		Help:      "End-to-end session computation time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.roundsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rounds_computed_total",
		Help:      "Total number of per-round assignments solved",
	})
	m.specialInterviews = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "special_interviews_total",
		Help:      "Total number of special-interview pairings pinned",
	})
	m.unmetOverrides = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unmet_overrides_total",
		Help:      "Total number of special-interview pairings that could not be scheduled",
	})
	m.validationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "validation_errors_total",
		Help:      "Total number of session requests rejected before computation",
	})
	m.solverDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solver_duration_milliseconds",
		Help:      "Single-round assignment solve time in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.storeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Session persistence latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.sessionCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "session_count",
		Help:      "Number of persisted sessions",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// Package-level helpers recording on the global manager.

// RecordSessionComputed increments the computed-session counter.
func RecordSessionComputed() { globalManager.sessionsComputed.Inc() }

// RecordSessionComputeDuration observes one session's computation time.
func RecordSessionComputeDuration(ms float64) { globalManager.sessionComputeDuration.Observe(ms) }

// RecordRoundComputed increments the solved-rounds counter.
func RecordRoundComputed() { globalManager.roundsComputed.Inc() }

// RecordSpecialInterviews adds pinned special interviews.
func RecordSpecialInterviews(n int) { globalManager.specialInterviews.Add(float64(n)) }

// RecordUnmetOverrides adds special interviews that found no round.
func RecordUnmetOverrides(n int) { globalManager.unmetOverrides.Add(float64(n)) }

// RecordValidationError increments the rejected-request counter.
func RecordValidationError() { globalManager.validationErrors.Inc() }

// RecordSolverDuration observes one round's solve time.
func RecordSolverDuration(ms float64) { globalManager.solverDuration.Observe(ms) }

// RecordStoreLatency observes one persistence operation.
func RecordStoreLatency(ms float64) { globalManager.storeLatency.Observe(ms) }

// UpdateSessionCount sets the persisted-session gauge.
func UpdateSessionCount(n int) { globalManager.sessionCount.Set(float64(n)) }

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
