package metrics

import (
	"time"

	"github.com/legatoproject/datahub/pkg/logger"
)

// Collector provides an interface for metrics collection over the push
// pipeline, handler dispatch, and update barrier (spec §4.3-4.6).
type Collector interface {
	// RecordRequest records an HTTP facade request.
	RecordRequest(method, path string, status int, duration time.Duration)

	// RecordPush records the outcome of a push to a resource.
	RecordPush(resourceKind string, accepted bool)

	// RecordFilterReject records an observation filter rejection by rule.
	RecordFilterReject(rule string)

	// RecordHandlerDispatch records a push-handler invocation latency.
	RecordHandlerDispatch(duration time.Duration)

	// RecordCoercionFailure records a type-coercion failure.
	RecordCoercionFailure(from, to string)

	// RecordBarrierFlush records the number of resources flushed at the
	// end of an update barrier.
	RecordBarrierFlush(count int)

	// SetBufferSize reports the current occupancy of an observation's
	// circular buffer.
	SetBufferSize(path string, size int)
}

// NewCollector creates a new metrics collector.
func NewCollector(impl string, log logger.Logger) Collector {
	switch impl {
	case "prometheus":
		return NewPrometheusMetrics(log)
	case "noop":
		return &NoopCollector{}
	default:
		return &NoopCollector{}
	}
}

// NoopCollector is a no-operation metrics collector for testing or when
// metrics are disabled.
type NoopCollector struct{}

func (n *NoopCollector) RecordRequest(method, path string, status int, duration time.Duration) {}
func (n *NoopCollector) RecordPush(resourceKind string, accepted bool)                         {}
func (n *NoopCollector) RecordFilterReject(rule string)                                        {}
func (n *NoopCollector) RecordHandlerDispatch(duration time.Duration)                           {}
func (n *NoopCollector) RecordCoercionFailure(from, to string)                                  {}
func (n *NoopCollector) RecordBarrierFlush(count int)                                           {}
func (n *NoopCollector) SetBufferSize(path string, size int)                                    {}
