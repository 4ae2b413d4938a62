package observability

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	WellIDKey    contextKey = "well_id"
)

func NewRequestID() string {
	return uuid.New().String()
}

// RequestIDFromHeader returns the caller's request id in canonical form, or
// a fresh one when the header is missing or not a UUID.
func RequestIDFromHeader(header string) string {
	id, err := uuid.Parse(header)
	if err != nil {
		return NewRequestID()
	}
	return id.String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// ContextWithWellID tags ctx with the well a request operates on so that
// error logs can be filtered per well.
func ContextWithWellID(ctx context.Context, wellID string) context.Context {
	return context.WithValue(ctx, WellIDKey, wellID)
}

func WellIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(WellIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// RequestFields returns the identifiers carried by ctx as log fields.
func RequestFields(ctx context.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", RequestIDFromContext(ctx))}
	if wellID := WellIDFromContext(ctx); wellID != "" {
		fields = append(fields, zap.String("well_id", wellID))
	}
	return fields
}
