package wellbore

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Instruments, set by InitMetrics.
var (
	opsCounter         metric.Int64Counter
	opsHistogram       metric.Float64Histogram
	errorCounter       metric.Int64Counter
	stationsRecomputed metric.Int64Counter
)

// InitMetrics registers the trajectory OTel instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("wellbore")

	var err error

	opsCounter, err = meter.Int64Counter("drilling.calculations.total",
		metric.WithDescription("Total number of drilling calculations performed"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("drilling.calculation.duration",
		metric.WithDescription("Duration of trajectory operations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50),
	)
	if err != nil {
		return fmt.Errorf("creating calculation histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("drilling.errors.total",
		metric.WithDescription("Total number of rejected or failed trajectory operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	stationsRecomputed, err = meter.Int64Counter("drilling.trajectory.stations_recomputed",
		metric.WithDescription("Stations rewritten by minimum curvature recomputes"),
		metric.WithUnit("{station}"),
	)
	if err != nil {
		return fmt.Errorf("creating stations counter: %w", err)
	}

	return nil
}
