package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"drilling-engine/internal/calcerr"
	"drilling-engine/internal/testutil"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", calcerr.InvalidInput("rpm", "must be > 0"), http.StatusBadRequest},
		{"wrapped invalid input", fmt.Errorf("mse: %w", calcerr.InvalidInput("rpm", "must be > 0")), http.StatusBadRequest},
		{"station order", calcerr.InvalidStationOrder(900, 1000), http.StatusConflict},
		{"not found", fmt.Errorf("chain %w", calcerr.ErrNotFound), http.StatusNotFound},
		{"degenerate", calcerr.DegenerateGeometry("zero course"), http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.err); got != tc.want {
				t.Fatalf("expected status %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRecordErrorWritesStandardizedErrorResponse(t *testing.T) {
	ctx := ContextWithWellID(ContextWithRequestID(context.Background(), "req-1"), "KOH-12")
	span := trace.SpanFromContext(ctx)
	core, logs := observer.New(zap.DebugLevel)

	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	w := httptest.NewRecorder()

	RecordError(
		ctx,
		span,
		zap.New(core),
		counter,
		"mse",
		"invalid calculation input",
		calcerr.InvalidInput("rpm", "must be > 0, got 0"),
		w,
	)

	resp := w.Result()
	testutil.CheckResponseCode(t, http.StatusBadRequest, resp.StatusCode)

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body map[string]string
	testutil.DecodeJSONBody(t, resp.Body, &body)

	if got := body["error"]; got != "invalid calculation input" {
		t.Fatalf("expected error %q, got %q", "invalid calculation input", got)
	}
	if got := body["field"]; got != "rpm" {
		t.Fatalf("expected field %q, got %q", "rpm", got)
	}
	if _, ok := body["request_id"]; ok {
		t.Fatal("did not expect request_id field in JSON body")
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level for a caller error, got %s", entries[0].Level)
	}
	fields := entries[0].ContextMap()
	if fields["error_kind"] != "invalid_input" {
		t.Fatalf("expected error_kind invalid_input, got %#v", fields["error_kind"])
	}
	if fields["request_id"] != "req-1" || fields["well_id"] != "KOH-12" {
		t.Fatalf("expected request and well ids in log, got %v", fields)
	}
}

func TestRecordErrorHidesInternalDetail(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	w := httptest.NewRecorder()
	ctx := context.Background()
	RecordError(ctx, trace.SpanFromContext(ctx), zap.New(core), counter, "recalculate", "recalculation failed", errors.New("disk on fire"), w)

	testutil.RequireStatus(t, w, http.StatusInternalServerError)

	var body map[string]string
	testutil.DecodeJSONBody(t, w.Body, &body)
	if _, ok := body["detail"]; ok {
		t.Fatalf("did not expect detail for an internal error, got %q", body["detail"])
	}
	if entries := logs.All(); len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error-level entry, got %v", entries)
	}
}
