// Package httputil provides shared HTTP helpers for JSON envelopes.
//
// Every JSON object written through Envelope or the error helpers carries a
// "timestamp" field with the current UTC time.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TimeFormat is the millisecond-precision ISO-8601 layout used in envelopes.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidJSON is returned when a request body is not a JSON object.
var ErrInvalidJSON = errors.New("request body is not a valid JSON object")

// Timestamp returns the current UTC time in TimeFormat.
func Timestamp() string {
	return time.Now().UTC().Format(TimeFormat)
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Envelope writes body with a timestamp field added when absent.
func Envelope(w http.ResponseWriter, status int, body map[string]any) {
	if body == nil {
		body = map[string]any{}
	}
	if _, ok := body["timestamp"]; !ok {
		body["timestamp"] = Timestamp()
	}
	WriteJSON(w, status, body)
}

// WriteError writes a JSON error envelope.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	Envelope(w, status, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

// WriteErrorWithDetails writes a JSON error envelope merged with extra fields.
// error and message always win over keys of the same name in extra.
func WriteErrorWithDetails(w http.ResponseWriter, status int, errCode, message string, extra map[string]any) {
	body := make(map[string]any, len(extra)+3)
	for k, v := range extra {
		body[k] = v
	}
	body["error"] = errCode
	body["message"] = message
	Envelope(w, status, body)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusBadRequest, errCode, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusNotFound, errCode, message)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusInternalServerError, errCode, message)
}

// DecodeObject reads r's body as a JSON object. An empty body decodes to an
// empty map. maxBytes <= 0 disables the size limit.
func DecodeObject(w http.ResponseWriter, r *http.Request, maxBytes int64) (map[string]any, error) {
	body := r.Body
	if body == nil {
		return map[string]any{}, nil
	}
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, body, maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if out == nil {
		return map[string]any{}, nil
	}
	return out, nil
}

// Decode reads r's body into v. An empty body leaves v untouched.
func Decode(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	obj, err := DecodeObject(w, r, maxBytes)
	if err != nil {
		return err
	}
	if len(obj) == 0 {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}
