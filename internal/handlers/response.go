package handlers

import (
	"encoding/json"
	"net/http"

	"drilling-engine/internal/strictjson"
)

// ErrorBody is the JSON shape of every error response. Field names the
// offending input when the error is a validation failure.
type ErrorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError writes a standardised JSON error response.
func WriteError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, ErrorBody{Error: msg})
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
// Failures that name a field (a missing required key, a wrong type) are
// reported on that field, anything else on "body".
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return strictjson.FieldError(err, "body")
	}
	return nil
}
