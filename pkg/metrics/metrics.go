// Package metrics provides Prometheus metrics for the TruthFi scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Business metrics
	analysesTotal     prometheus.Counter
	truthScores       prometheus.Histogram
	analysisDuration  prometheus.Histogram
	textsAnalyzed     prometheus.Counter
	scamsDetected     prometheus.Counter
	coordinationHits  *prometheus.CounterVec
	postsCollected    prometheus.Counter
	collectorRequests *prometheus.CounterVec

	// Pipeline health
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueRejections prometheus.Counter
	workerCount     prometheus.Gauge
	historySize     prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System performance
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "truthfi",
		subsystem:        "scoring",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.analysesTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analyses_total",
		Help:      "Total number of completed token analyses",
	})

	m.truthScores = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "truth_score",
		Help:      "Distribution of computed truth scores",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.analysisDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "analysis_duration_seconds",
		Help:      "End to end duration of one token analysis",
		Buckets:   m.histogramBuckets,
	})

	m.textsAnalyzed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "texts_analyzed_total",
		Help:      "Total number of texts run through the pattern scorer",
	})

	m.scamsDetected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scams_detected_total",
		Help:      "Total number of texts scored at or above the scam threshold",
	})

	m.coordinationHits = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coordination_detections_total",
		Help:      "Coordination detections by pattern",
	}, []string{"pattern"})

	m.postsCollected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "posts_collected_total",
		Help:      "Total number of posts fetched from upstream sources",
	})

	m.collectorRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "collector_requests_total",
		Help:      "Upstream collector requests by outcome",
	}, []string{"status"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of queued analysis jobs",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum number of queued analysis jobs",
	})

	m.queueRejections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_rejections_total",
		Help:      "Jobs rejected because the queue was full",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of running analysis workers",
	})

	m.historySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "history_size",
		Help:      "Number of recorded analysis runs",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by endpoint and method",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_bytes",
		Help:      "Current heap memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutines",
		Help:      "Current number of goroutines",
	})
}

// Business metrics functions.

// IncAnalyses increments the completed analyses counter.
func IncAnalyses() {
	globalManager.analysesTotal.Inc()
}

// ObserveTruthScore records one computed truth score.
func ObserveTruthScore(score float64) {
	globalManager.truthScores.Observe(score)
}

// ObserveAnalysisDuration records the duration of one analysis in seconds.
func ObserveAnalysisDuration(seconds float64) {
	globalManager.analysisDuration.Observe(seconds)
}

// IncTextsAnalyzed increments the pattern scorer counter.
func IncTextsAnalyzed() {
	globalManager.textsAnalyzed.Inc()
}

// IncScamsDetected increments the scam detection counter.
func IncScamsDetected() {
	globalManager.scamsDetected.Inc()
}

// IncCoordinationDetections records one coordination hit for a pattern.
func IncCoordinationDetections(pattern string) {
	globalManager.coordinationHits.WithLabelValues(pattern).Inc()
}

// IncPostsCollected increments the collected posts counter.
func IncPostsCollected() {
	globalManager.postsCollected.Inc()
}

// IncCollectorRequests records one upstream request by outcome.
func IncCollectorRequests(status string) {
	globalManager.collectorRequests.WithLabelValues(status).Inc()
}

// Pipeline metrics functions.

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// IncQueueRejections increments the backpressure rejection counter.
func IncQueueRejections() {
	globalManager.queueRejections.Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateHistorySize sets the number of recorded analysis runs.
func UpdateHistorySize(count int) {
	globalManager.historySize.Set(float64(count))
}

// HTTP metrics functions.

// RecordHTTPRequest records one request with its duration in seconds.
func RecordHTTPRequest(endpoint, method, status string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(seconds)
}

// System metrics functions.

// UpdateSystemMemoryUsage sets the heap memory usage in bytes.
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
