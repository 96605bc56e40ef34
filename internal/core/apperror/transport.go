package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is a non-2xx response observed by an API client.
// Body keeps the raw response so callers can decode structured conflicts.
type TransportError struct {
	Method string
	URL    string
	Status int
	Body   []byte
}

// Error implements error interface
func (e *TransportError) Error() string {
	if msg := e.DetailMessage(); msg != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, msg)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Status, http.StatusText(e.Status))
}

// Detail returns the raw "detail" member of the response body, or nil
// when the body is not a JSON object carrying one.
func (e *TransportError) Detail() json.RawMessage {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err != nil {
		return nil
	}
	return envelope.Detail
}

// DetailMessage extracts a human readable message from the body.
// It understands {"detail": "text"} and {"detail": {"message": "text"}}.
func (e *TransportError) DetailMessage() string {
	raw := e.Detail()
	if len(raw) == 0 {
		return strings.TrimSpace(string(e.Body))
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}

	var obj struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Message != "" {
			return obj.Message
		}
		return obj.Status
	}
	return string(raw)
}

// AsTransportError extracts TransportError from error chain
func AsTransportError(err error) (*TransportError, bool) {
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr, true
	}
	return nil, false
}
