// Package metrics provides Prometheus metrics for the FootStats service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream latencies are whole-request timings against a remote API, so the
// buckets start at 25ms and reach the 20s client timeout.
var defaultBuckets = []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000} //nolint:gochecknoglobals

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// File cache
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
	cacheWriteErrors *prometheus.CounterVec

	// Upstream API
	upstreamRequests  *prometheus.CounterVec
	upstreamLatency   *prometheus.HistogramVec
	upstreamFallbacks prometheus.Counter

	// Derived entities
	entitiesBuilt   *prometheus.CounterVec
	entitiesSkipped *prometheus.CounterVec

	// Favorites
	favoritesTotal prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	errorRateByType     *prometheus.CounterVec

	// Process
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals

func init() { //nolint:gochecknoinits
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "footstats",
		subsystem:        "dashboard",
		histogramBuckets: defaultBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen
	auto := promauto.With(m.registry)

	m.cacheHits = auto.NewCounterVec(
		m.counterOpts("cache_hits_total", "File cache hits by key bucket"),
		[]string{"bucket"},
	)
	m.cacheMisses = auto.NewCounterVec(
		m.counterOpts("cache_misses_total", "File cache misses by key bucket and reason (absent, corrupt, expired)"),
		[]string{"bucket", "reason"},
	)
	m.cacheWriteErrors = auto.NewCounterVec(
		m.counterOpts("cache_write_errors_total", "File cache writes that failed and were dropped"),
		[]string{"bucket"},
	)

	m.upstreamRequests = auto.NewCounterVec(
		m.counterOpts("upstream_requests_total", "Requests sent to the sports-data API by endpoint and status code"),
		[]string{"endpoint", "status_code"},
	)
	m.upstreamLatency = auto.NewHistogramVec(
		m.histogramOpts("upstream_request_duration_milliseconds", "Sports-data API request latency in milliseconds"),
		[]string{"endpoint"},
	)
	m.upstreamFallbacks = auto.NewCounter(
		m.counterOpts("upstream_filter_fallbacks_total", "Team match requests retried without date/status filters"),
	)

	m.entitiesBuilt = auto.NewCounterVec(
		m.counterOpts("entities_built_total", "Derived entities constructed by kind"),
		[]string{"kind"},
	)
	m.entitiesSkipped = auto.NewCounterVec(
		m.counterOpts("entities_skipped_total", "Records dropped as malformed by kind"),
		[]string{"kind"},
	)

	m.favoritesTotal = auto.NewGauge(
		m.gaugeOpts("favorites_total", "Number of stored favorite teams"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "HTTP errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "HTTP errors by type and severity"),
		[]string{"error_type", "severity"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_bytes", "Heap bytes allocated"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutines", "Number of goroutines"),
	)
}

// Cache Metrics Functions.

// RecordCacheHit increments the cache hit counter for bucket.
func RecordCacheHit(bucket string) {
	globalManager.cacheHits.WithLabelValues(bucket).Inc()
}

// RecordCacheMiss increments the cache miss counter for bucket and reason.
func RecordCacheMiss(bucket, reason string) {
	globalManager.cacheMisses.WithLabelValues(bucket, reason).Inc()
}

// RecordCacheWriteError increments the cache write error counter.
func RecordCacheWriteError(bucket string) {
	globalManager.cacheWriteErrors.WithLabelValues(bucket).Inc()
}

// Upstream Metrics Functions.

// RecordUpstreamRequest records one upstream request and its latency.
func RecordUpstreamRequest(endpoint, statusCode string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(endpoint, statusCode).Inc()
	globalManager.upstreamLatency.WithLabelValues(endpoint).Observe(latencyMs)
}

// RecordUpstreamFallback counts a filter fallback retry.
func RecordUpstreamFallback() {
	globalManager.upstreamFallbacks.Inc()
}

// Entity Metrics Functions.

// RecordEntitiesBuilt adds n constructed entities of kind.
func RecordEntitiesBuilt(kind string, n int) {
	globalManager.entitiesBuilt.WithLabelValues(kind).Add(float64(n))
}

// RecordEntitiesSkipped adds n dropped records of kind.
func RecordEntitiesSkipped(kind string, n int) {
	globalManager.entitiesSkipped.WithLabelValues(kind).Add(float64(n))
}

// UpdateFavoritesTotal sets the number of stored favorites.
func UpdateFavoritesTotal(n int) {
	globalManager.favoritesTotal.Set(float64(n))
}

// HTTP Metrics Functions.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
