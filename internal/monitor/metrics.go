package monitor

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Instruments, set by InitMetrics.
var (
	opsCounter      metric.Int64Counter
	opsHistogram    metric.Float64Histogram
	errorCounter    metric.Int64Counter
	rigStateCounter metric.Int64Counter
	severityCounter metric.Int64Counter
	kickScoreGauge  metric.Int64Gauge
)

// InitMetrics registers the rig state and kick detection instruments.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("monitor")

	var err error

	opsCounter, err = meter.Int64Counter("drilling.calculations.total",
		metric.WithDescription("Total number of drilling calculations performed"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	opsHistogram, err = meter.Float64Histogram("drilling.calculation.duration",
		metric.WithDescription("Duration of monitoring calculations in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating calculation histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("drilling.errors.total",
		metric.WithDescription("Total number of rejected monitoring requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	rigStateCounter, err = meter.Int64Counter("drilling.rig_state.total",
		metric.WithDescription("Rig state classifications by resulting state"),
		metric.WithUnit("{classification}"),
	)
	if err != nil {
		return fmt.Errorf("creating rig state counter: %w", err)
	}

	severityCounter, err = meter.Int64Counter("drilling.kick.severity.total",
		metric.WithDescription("Kick assessments by severity"),
		metric.WithUnit("{assessment}"),
	)
	if err != nil {
		return fmt.Errorf("creating kick severity counter: %w", err)
	}

	kickScoreGauge, err = meter.Int64Gauge("drilling.kick.last_score",
		metric.WithDescription("The most recent kick score per well"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating kick score gauge: %w", err)
	}

	return nil
}
