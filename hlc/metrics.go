package hlc

import "github.com/c0deZ3R0/go-hlc-kit/errors"

// MetricsCollector provides hooks for observability.
type MetricsCollector interface {
	// RecordSend records a timestamp produced for a local event
	RecordSend(t Timestamp)

	// RecordReceive records a timestamp produced by merging a remote one
	RecordReceive(t Timestamp)

	// RecordError records a rejected clock operation
	RecordError(op errors.Operation, code errors.ErrorCode)
}

// NoOpMetricsCollector is a stub implementation that discards metrics.
type NoOpMetricsCollector struct{}

func (*NoOpMetricsCollector) RecordSend(t Timestamp)                              {}
func (*NoOpMetricsCollector) RecordReceive(t Timestamp)                           {}
func (*NoOpMetricsCollector) RecordError(op errors.Operation, c errors.ErrorCode) {}
