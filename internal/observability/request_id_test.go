package observability

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRequestIDFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "canonical", header: "8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10", want: "8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10"},
		{name: "upper case", header: "8F14E45F-CEEA-4672-9B5A-1B6F4E4A2C10", want: "8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10"},
		{name: "braced", header: "{8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10}", want: "8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10"},
		{name: "garbage", header: "rig-7"},
		{name: "empty", header: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RequestIDFromHeader(tc.header)
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected valid UUID, got %q: %v", got, err)
			}
			if tc.want != "" && got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
			if tc.want == "" && got == tc.header {
				t.Fatalf("expected a fresh id for %q", tc.header)
			}
		})
	}
}

func TestWellIDContextRoundTrip(t *testing.T) {
	ctx := ContextWithWellID(context.Background(), "KOH-12")
	if got := WellIDFromContext(ctx); got != "KOH-12" {
		t.Fatalf("expected KOH-12, got %q", got)
	}

	ctx = context.WithValue(context.Background(), WellIDKey, 12)
	if got := WellIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty string for wrong type, got %q", got)
	}
}

func TestRequestFields(t *testing.T) {
	fieldMap := func(fields []zap.Field) map[string]any {
		enc := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			f.AddTo(enc)
		}
		return enc.Fields
	}

	ctx := ContextWithRequestID(context.Background(), "req-9")
	got := fieldMap(RequestFields(ctx))
	if got["request_id"] != "req-9" {
		t.Fatalf("expected request_id req-9, got %v", got)
	}
	if _, ok := got["well_id"]; ok {
		t.Fatalf("did not expect well_id without a well, got %v", got)
	}

	got = fieldMap(RequestFields(ContextWithWellID(ctx, "KOH-12")))
	if got["well_id"] != "KOH-12" {
		t.Fatalf("expected well_id KOH-12, got %v", got)
	}
}
