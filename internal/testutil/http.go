package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// Send runs method path against handler. A non-empty body is sent as JSON.
func Send(t testing.TB, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var payload io.Reader
	if body != "" {
		payload = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, payload)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return ExecuteRequest(req, handler)
}

// RequireStatus fails the test with the response body when the status
// differs.
func RequireStatus(t testing.TB, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, rr.Code, strings.TrimSpace(rr.Body.String()))
	}
}

func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}
}

// RequireErrorField asserts an error response with the given status that
// blames field.
func RequireErrorField(t testing.TB, rr *httptest.ResponseRecorder, expected int, field string) {
	t.Helper()
	RequireStatus(t, rr, expected)

	var body map[string]string
	DecodeJSONBody(t, rr.Body, &body)
	if body["error"] == "" {
		t.Fatalf("expected error message in %v", body)
	}
	if body["field"] != field {
		t.Fatalf("expected field %q, got %q", field, body["field"])
	}
}
