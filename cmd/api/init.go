package main

import (
	"context"

	"drilling-engine/internal/calculator"
	"drilling-engine/internal/monitor"
	"drilling-engine/internal/observability"
	"drilling-engine/internal/wellbore"
)

// initMetrics initialises the meter provider and every domain's metric
// instruments.
func initMetrics(ctx context.Context) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx)
	if err != nil {
		return nil, err
	}

	for _, initDomain := range []func() error{
		calculator.InitMetrics,
		wellbore.InitMetrics,
		monitor.InitMetrics,
	} {
		if err := initDomain(); err != nil {
			return nil, err
		}
	}

	return shutdown, nil
}
