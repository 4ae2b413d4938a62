package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogging tees Logger into an OTLP log exporter that only receives
// records at exportLevel or above. Call it after InitLogger.
func InitLogging(ctx context.Context, exportLevel string) (func(context.Context) error, error) {

	exporter, err := otlploghttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := newResource(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(
			sdklog.NewBatchProcessor(exporter),
		),
	)

	exportCore, err := levelFiltered(
		otelzap.NewCore(ServiceName(), otelzap.WithLoggerProvider(provider)),
		exportLevel,
	)
	if err != nil {
		_ = provider.Shutdown(ctx)
		return nil, err
	}

	Logger = zap.New(zapcore.NewTee(Logger.Core(), exportCore))

	return provider.Shutdown, nil
}

// levelFiltered drops entries below level before they reach core. An empty
// level leaves core unfiltered.
func levelFiltered(core zapcore.Core, level string) (zapcore.Core, error) {
	if level == "" {
		return core, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse export level: %w", err)
	}
	return zapcore.NewIncreaseLevelCore(core, lvl)
}
