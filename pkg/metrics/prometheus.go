// Package metrics provides Prometheus metrics for the jumpboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Comparison chart metrics
	comparisonBuilds prometheus.Counter
	comparisonSlots  prometheus.Histogram
	comparisonSeries prometheus.Histogram
	comparisonErrors *prometheus.CounterVec

	// Backend client metrics
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendLogouts         prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "jumpboard",
		subsystem:        "client",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.constLabels)

	m.comparisonBuilds = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparison_builds_total",
		Help:        "Total number of comparison series built",
		ConstLabels: labels,
	})

	m.comparisonSlots = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparison_slots",
		Help:        "Number of (event, attempt) slots per comparison",
		Buckets:     []float64{0, 1, 2, 5, 10, 20, 50, 100, 200},
		ConstLabels: labels,
	})

	m.comparisonSeries = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparison_series",
		Help:        "Number of athletes plotted per comparison",
		Buckets:     []float64{0, 1, 2, 3, 5, 8, 13, 20},
		ConstLabels: labels,
	})

	m.comparisonErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "comparison_errors_total",
			Help:        "Comparison requests rejected or failed, by reason",
			ConstLabels: labels,
		},
		[]string{"reason"},
	)

	m.backendRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "backend_requests_total",
			Help:        "Requests sent to the club backend",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.backendRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "backend_request_duration_milliseconds",
			Help:        "Club backend request latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method"},
	)

	m.backendLogouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_unauthorized_logouts_total",
		Help:        "Tokens cleared after the backend answered 401",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_type_total",
			Help:        "Errors by type and severity",
			ConstLabels: labels,
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Errors by HTTP endpoint",
			ConstLabels: labels,
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "error_latency_milliseconds",
			Help:        "Latency of failed operations in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: labels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: labels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: labels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: labels,
	})
}

// RecordComparison records one built comparison with its slot and athlete counts.
func RecordComparison(slots, athletes int) {
	globalManager.comparisonBuilds.Inc()
	globalManager.comparisonSlots.Observe(float64(slots))
	globalManager.comparisonSeries.Observe(float64(athletes))
}

// RecordComparisonError counts a rejected or failed comparison.
func RecordComparisonError(reason string) {
	globalManager.comparisonErrors.WithLabelValues(reason).Inc()
}

// RecordBackendRequest records a call to the club backend.
func RecordBackendRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.backendRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.backendRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordBackendLogout counts a token cleared because of a 401.
func RecordBackendLogout() {
	globalManager.backendLogouts.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage updates the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the package-level collectors.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
