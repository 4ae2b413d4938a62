package observability

import (
	"context"
	"errors"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/handlers"
)

// StatusFor maps the calculation error taxonomy onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, calcerr.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, calcerr.ErrInvalidStationOrder):
		return http.StatusConflict
	case errors.Is(err, calcerr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, calcerr.ErrDegenerateGeometry):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorKind is the short label attached to spans and error metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, calcerr.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, calcerr.ErrInvalidStationOrder):
		return "invalid_station_order"
	case errors.Is(err, calcerr.ErrNotFound):
		return "not_found"
	case errors.Is(err, calcerr.ErrDegenerateGeometry):
		return "degenerate_geometry"
	default:
		return "internal"
	}
}

// RecordError centralises error handling across all domains: records the error
// on the span, increments the provided error counter, logs with trace context,
// and writes a JSON error response whose status follows the error taxonomy.
// Caller mistakes are logged at warn level, everything else at error level.
func RecordError(ctx context.Context, span trace.Span, logger *zap.Logger, counter metric.Int64Counter, opName, msg string, err error, w http.ResponseWriter) {
	status := StatusFor(err)
	kind := errorKind(err)

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attribute.String("error.kind", kind))

	counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("error.kind", kind),
	))

	fields := []zap.Field{
		zap.String("operation", opName),
		zap.String("error_kind", kind),
		zap.Int("status", status),
		zap.Error(err),
	}
	fields = append(fields, RequestFields(ctx)...)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, fields...)
	} else {
		logger.Warn(msg, fields...)
	}

	body := handlers.ErrorBody{Error: msg}
	var invalid *calcerr.InvalidInputError
	if errors.As(err, &invalid) {
		body.Field = invalid.Field
		body.Detail = invalid.Reason
	} else if status < http.StatusInternalServerError {
		body.Detail = err.Error()
	}
	handlers.WriteJSON(w, status, body)
}
