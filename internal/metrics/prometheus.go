package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/legatoproject/datahub/pkg/logger"
)

// PrometheusMetrics implements Collector using prometheus/client_golang.
type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	requests        *prometheus.CounterVec

	pushes          *prometheus.CounterVec
	filterRejects   *prometheus.CounterVec
	handlerDuration prometheus.Histogram
	coercionFailure *prometheus.CounterVec
	barrierFlushed  prometheus.Histogram
	bufferSize      *prometheus.GaugeVec

	logger logger.Logger
}

// NewPrometheusMetrics creates a new PrometheusMetrics.
func NewPrometheusMetrics(log logger.Logger) *PrometheusMetrics {
	m := &PrometheusMetrics{logger: log}

	m.requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hub_api_request_duration_seconds",
			Help:    "Duration of HTTP facade requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	m.requests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_api_requests_total",
			Help: "Total number of HTTP facade requests",
		},
		[]string{"method", "path", "status"},
	)

	m.pushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_pushes_total",
			Help: "Total number of pushes into the resource tree",
		},
		[]string{"resource_kind", "result"},
	)

	m.filterRejects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_filter_rejects_total",
			Help: "Total number of observation filter rejections by rule",
		},
		[]string{"rule"},
	)

	m.handlerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hub_handler_dispatch_seconds",
			Help:    "Duration of a single push-handler invocation",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		},
	)

	m.coercionFailure = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hub_coercion_failures_total",
			Help: "Total number of type coercion failures",
		},
		[]string{"from", "to"},
	)

	m.barrierFlushed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hub_barrier_flush_count",
			Help:    "Number of resources flushed per update-barrier end",
			Buckets: []float64{0, 1, 2, 5, 10, 50, 100, 500},
		},
	)

	m.bufferSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hub_observation_buffer_size",
			Help: "Current number of samples retained in an observation buffer",
		},
		[]string{"path"},
	)

	return m
}

// RecordRequest records an HTTP facade request.
func (m *PrometheusMetrics) RecordRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": statusLabel(status)}
	m.requests.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

// RecordPush records the outcome of a push to a resource.
func (m *PrometheusMetrics) RecordPush(resourceKind string, accepted bool) {
	result := "accepted"
	if !accepted {
		result = "rejected"
	}
	m.pushes.With(prometheus.Labels{"resource_kind": resourceKind, "result": result}).Inc()
}

// RecordFilterReject records an observation filter rejection by rule.
func (m *PrometheusMetrics) RecordFilterReject(rule string) {
	m.filterRejects.With(prometheus.Labels{"rule": rule}).Inc()
}

// RecordHandlerDispatch records a push-handler invocation latency.
func (m *PrometheusMetrics) RecordHandlerDispatch(duration time.Duration) {
	m.handlerDuration.Observe(duration.Seconds())
}

// RecordCoercionFailure records a type-coercion failure.
func (m *PrometheusMetrics) RecordCoercionFailure(from, to string) {
	m.coercionFailure.With(prometheus.Labels{"from": from, "to": to}).Inc()
}

// RecordBarrierFlush records the number of resources flushed at the end
// of an update barrier.
func (m *PrometheusMetrics) RecordBarrierFlush(count int) {
	m.barrierFlushed.Observe(float64(count))
}

// SetBufferSize reports the current occupancy of an observation's
// circular buffer.
func (m *PrometheusMetrics) SetBufferSize(path string, size int) {
	m.bufferSize.With(prometheus.Labels{"path": path}).Set(float64(size))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
