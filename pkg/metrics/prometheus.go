package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Snapshot Metrics - What the dashboard currently shows
	measuresTotal          prometheus.Gauge
	measuresExcluded       prometheus.Gauge
	measuresClassified     *prometheus.GaugeVec
	slopeOutliers          *prometheus.GaugeVec
	snapshotBuildDuration  prometheus.Histogram
	snapshotLastUnix       prometheus.Gauge
	snapshotBuilds         prometheus.Counter
	zeroBenchmarkTotal     *prometheus.CounterVec
	polarityFallbackTotal  prometheus.Counter
	classificationRequests *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Repository Metrics
	repositoryRecordsTotal *prometheus.GaugeVec
	repositoryQueryLatency *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "qdash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
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

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.measuresTotal = auto.NewGauge(m.gaugeOpts("measures_total",
		"Number of measures in the current snapshot"))
	m.measuresExcluded = auto.NewGauge(m.gaugeOpts("measures_excluded",
		"Number of zero-weight measures left out of aggregates"))
	m.measuresClassified = auto.NewGaugeVec(m.gaugeOpts("measures_classified",
		"Measures in the current snapshot by domain, status and trend"),
		[]string{"domain", "status", "trend"})
	m.slopeOutliers = auto.NewGaugeVec(m.gaugeOpts("slope_outliers",
		"Measures split off the shared slope chart axis, by domain"),
		[]string{"domain"})
	m.snapshotBuildDuration = auto.NewHistogram(m.histogramOpts("snapshot_build_duration_milliseconds",
		"Time to load, classify and rank the dataset", m.histogramBuckets))
	m.snapshotLastUnix = auto.NewGauge(m.gaugeOpts("snapshot_last_unix",
		"Unix time of the last snapshot build"))
	m.snapshotBuilds = auto.NewCounter(m.counterOpts("snapshot_builds_total",
		"Number of snapshot builds"))
	m.zeroBenchmarkTotal = auto.NewCounterVec(m.counterOpts("zero_benchmark_total",
		"Status evaluations against a zero benchmark (data quality)"),
		[]string{"domain"})
	m.polarityFallbackTotal = auto.NewCounter(m.counterOpts("polarity_fallback_total",
		"Classifications for unknown measure ids that used the default polarity"))
	m.classificationRequests = auto.NewCounterVec(m.counterOpts("classifications_total",
		"Ad hoc classifications by resulting status"),
		[]string{"status"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.repositoryRecordsTotal = auto.NewGaugeVec(m.gaugeOpts("repository_records_total",
		"Number of ranked measures per store"),
		[]string{"store"})
	m.repositoryQueryLatency = auto.NewHistogramVec(m.histogramOpts("repository_query_latency_milliseconds",
		"Ranking store query latency in milliseconds", m.histogramBuckets),
		[]string{"store", "operation"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total",
		"Errors by component and error type"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total",
		"Errors by type and severity"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total",
		"Errors by endpoint, method and error type"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds",
		"Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes",
		"Current heap memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count",
		"Current number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_milliseconds",
		"Garbage collection pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100}))
}

// Snapshot Metrics Functions.

// UpdateMeasureCounts sets the total and excluded measure gauges.
func UpdateMeasureCounts(total, excluded int) {
	globalManager.measuresTotal.Set(float64(total))
	globalManager.measuresExcluded.Set(float64(excluded))
}

// ResetMeasuresClassified clears the classification gauges before a rebuild.
func ResetMeasuresClassified() {
	globalManager.measuresClassified.Reset()
	globalManager.slopeOutliers.Reset()
}

// IncMeasuresClassified adds one measure to a (domain, status, trend) cell.
func IncMeasuresClassified(domain, status, trend string) {
	globalManager.measuresClassified.WithLabelValues(domain, status, trend).Inc()
}

// UpdateSlopeOutliers sets the outlier count for a domain.
func UpdateSlopeOutliers(domain string, count int) {
	globalManager.slopeOutliers.WithLabelValues(domain).Set(float64(count))
}

// RecordSnapshotBuild records one snapshot build.
func RecordSnapshotBuild(durationMs float64, unix int64) {
	globalManager.snapshotBuildDuration.Observe(durationMs)
	globalManager.snapshotLastUnix.Set(float64(unix))
	globalManager.snapshotBuilds.Inc()
}

// RecordZeroBenchmark counts a status evaluated against a zero benchmark.
func RecordZeroBenchmark(domain string) {
	globalManager.zeroBenchmarkTotal.WithLabelValues(domain).Inc()
}

// RecordPolarityFallback counts a default-polarity classification.
func RecordPolarityFallback() {
	globalManager.polarityFallbackTotal.Inc()
}

// RecordClassification counts an ad hoc classification.
func RecordClassification(status string) {
	globalManager.classificationRequests.WithLabelValues(status).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Repository Metrics Functions.

// UpdateRepositoryRecordsTotal sets the number of records in a store.
func UpdateRepositoryRecordsTotal(store string, count int) {
	globalManager.repositoryRecordsTotal.WithLabelValues(store).Set(float64(count))
}

// RecordRepositoryQueryLatency records repository query operation latency.
func RecordRepositoryQueryLatency(store, operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(store, operation).Observe(latencyMs)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// MetricNames returns the names of all gathered metric families. Used by
// /stats and tests.
func MetricNames() ([]string, error) {
	families, err := customRegistry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names, nil
}
