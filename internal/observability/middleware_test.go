package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"drilling-engine/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDMiddlewareSetsHeaderAndContext(t *testing.T) {
	var ctxRequestID string

	h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxRequestID = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest(http.MethodPost, "/calculator/mse", nil)
	w := testutil.ExecuteRequest(r, h)

	headerRequestID := w.Result().Header.Get("X-Request-ID")
	if headerRequestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}

	if _, err := uuid.Parse(headerRequestID); err != nil {
		t.Fatalf("expected header to contain UUID, got %q: %v", headerRequestID, err)
	}

	if ctxRequestID != headerRequestID {
		t.Fatalf("expected context request_id %q to match header %q", ctxRequestID, headerRequestID)
	}
}

func TestRequestIDMiddlewareReusesIncomingID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reused   bool
	}{
		{name: "valid uuid", incoming: "8f14e45f-ceea-4672-9b5a-1b6f4e4a2c10", reused: true},
		{name: "garbage", incoming: "not-a-uuid", reused: false},
		{name: "missing", incoming: "", reused: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			r := httptest.NewRequest(http.MethodGet, "/trajectory/w1/stations", nil)
			if tc.incoming != "" {
				r.Header.Set(RequestIDHeader, tc.incoming)
			}
			got := testutil.ExecuteRequest(r, h).Result().Header.Get(RequestIDHeader)

			if tc.reused && got != tc.incoming {
				t.Fatalf("expected request id %q to be reused, got %q", tc.incoming, got)
			}
			if !tc.reused && got == tc.incoming {
				t.Fatalf("expected a fresh request id, got %q", got)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("expected valid UUID, got %q: %v", got, err)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/health", want: false},
		{path: "/metrics", want: false},
		{path: "/calculator/mse", want: true},
		{path: "/kick/w1/score", want: true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tc.path, nil)
			got := shouldTraceRequest(r)
			if got != tc.want {
				t.Fatalf("path %q: expected %t, got %t", tc.path, tc.want, got)
			}
		})
	}
}

func TestLoggingMiddlewareWritesCompletionLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	oldLogger := Logger
	Logger = zap.New(core)
	t.Cleanup(func() { Logger = oldLogger })

	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	r := httptest.NewRequest(http.MethodPost, "/trajectory/w1/stations", nil)
	r = r.WithContext(ContextWithRequestID(r.Context(), "req-123"))
	_ = testutil.ExecuteRequest(r, h)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry.Message != "request completed" {
		t.Fatalf("expected message %q, got %q", "request completed", entry.Message)
	}

	fields := entry.ContextMap()
	if fields["method"] != http.MethodPost {
		t.Fatalf("expected method %q, got %#v", http.MethodPost, fields["method"])
	}
	if fields["path"] != "/trajectory/w1/stations" {
		t.Fatalf("expected path %q, got %#v", "/trajectory/w1/stations", fields["path"])
	}
	if fields["status"] != int64(http.StatusConflict) {
		t.Fatalf("expected status %d, got %#v", http.StatusConflict, fields["status"])
	}
	if fields["request_id"] != "req-123" {
		t.Fatalf("expected request_id %q, got %#v", "req-123", fields["request_id"])
	}
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	oldLogger := Logger
	t.Cleanup(func() { Logger = oldLogger })

	if err := InitLogger("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := InitLogger("debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Logger.Core().Enabled(zap.DebugLevel) {
		t.Fatal("expected debug level to be enabled")
	}
}
