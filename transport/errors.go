package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// APIError is a non-2xx response from a backend service.
//
// Message holds the top-level "message" field when the error body carries
// one. Fields holds the body interpreted as a field → error-text validation
// map when it is a JSON object without a message field. Body is the raw
// response for callers that need more.
type APIError struct {
	Service string
	Status  int
	Message string
	Fields  map[string]string
	Body    []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("devblocker: %s service returned %d: %s", e.Service, e.Status, e.Message)
	}
	return fmt.Sprintf("devblocker: %s service returned %d", e.Service, e.Status)
}

func newAPIError(service string, status int, body []byte) *APIError {
	e := &APIError{Service: service, Status: status, Body: body}
	if len(body) == 0 {
		return e
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return e
	}
	if msg, ok := payload["message"].(string); ok && msg != "" {
		e.Message = msg
		return e
	}
	if len(payload) > 0 {
		e.Fields = make(map[string]string, len(payload))
		for k, v := range payload {
			e.Fields[k] = fmt.Sprint(v)
		}
	}
	return e
}

// DisplayMessage extracts a human-readable message from err for the UI.
// Precedence: the error body's message field, then the joined values of a
// validation-error map (sorted by field for determinism), then fallback.
func DisplayMessage(err error, fallback string) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if len(apiErr.Fields) > 0 {
		keys := make([]string, 0, len(apiErr.Fields))
		for k := range apiErr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		values := make([]string, 0, len(keys))
		for _, k := range keys {
			values = append(values, apiErr.Fields[k])
		}
		return strings.Join(values, ", ")
	}
	return fallback
}
