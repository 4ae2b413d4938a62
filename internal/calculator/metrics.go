package calculator

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Instruments, set by InitMetrics.
var (
	opsCounter     metric.Int64Counter
	opsHistogram   metric.Float64Histogram
	errorCounter   metric.Int64Counter
	batchHistogram metric.Int64Histogram
)

// InitMetrics registers the formula library's OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	opsCounter, err = meter.Int64Counter("drilling.calculations.total",
		metric.WithDescription("Total number of drilling calculations performed"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("drilling.calculation.duration",
		metric.WithDescription("Duration of drilling calculations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating calculation histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("drilling.errors.total",
		metric.WithDescription("Total number of rejected or failed calculations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	batchHistogram, err = meter.Int64Histogram("drilling.calculation.batch_size",
		metric.WithDescription("Number of items per batch request"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 50, 100, 500),
	)
	if err != nil {
		return fmt.Errorf("creating batch histogram: %w", err)
	}

	return nil
}
