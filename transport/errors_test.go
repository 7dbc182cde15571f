package transport

import (
	"errors"
	"fmt"
	"testing"
)

func TestDisplayMessage_MessageField(t *testing.T) {
	err := newAPIError("auth", 401, []byte(`{"message":"Invalid email or password"}`))
	if got := DisplayMessage(err, "Login failed"); got != "Invalid email or password" {
		t.Errorf("DisplayMessage = %q, want message field", got)
	}
}

func TestDisplayMessage_FieldErrors(t *testing.T) {
	body := []byte(`{"password":"Password too short","email":"Email is invalid"}`)
	err := newAPIError("auth", 400, body)
	// Values joined in field-name order for determinism.
	want := "Email is invalid, Password too short"
	if got := DisplayMessage(err, "Registration failed"); got != want {
		t.Errorf("DisplayMessage = %q, want %q", got, want)
	}
}

func TestDisplayMessage_Fallback(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"empty body", newAPIError("auth", 500, nil)},
		{"non-json body", newAPIError("auth", 502, []byte("<html>bad gateway</html>"))},
		{"not an api error", errors.New("dial tcp: connection refused")},
		{"nil error", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DisplayMessage(tc.err, "Something went wrong"); got != "Something went wrong" {
				t.Errorf("DisplayMessage = %q, want fallback", got)
			}
		})
	}
}

func TestDisplayMessage_WrappedError(t *testing.T) {
	apiErr := newAPIError("blocker", 400, []byte(`{"message":"Title is required"}`))
	wrapped := fmt.Errorf("devblocker/blocker: create: %w", apiErr)
	if got := DisplayMessage(wrapped, "fallback"); got != "Title is required" {
		t.Errorf("DisplayMessage = %q, want unwrapped message", got)
	}
}

func TestAPIError_Error(t *testing.T) {
	withMsg := newAPIError("auth", 401, []byte(`{"message":"expired"}`))
	if got := withMsg.Error(); got != "devblocker: auth service returned 401: expired" {
		t.Errorf("Error = %q", got)
	}
	bare := newAPIError("user", 500, nil)
	if got := bare.Error(); got != "devblocker: user service returned 500" {
		t.Errorf("Error = %q", got)
	}
}

func TestNewAPIError_KeepsRawBody(t *testing.T) {
	body := []byte(`{"message":"nope","code":17}`)
	err := newAPIError("auth", 403, body)
	if string(err.Body) != string(body) {
		t.Errorf("Body = %s, want raw body preserved", err.Body)
	}
	if err.Message != "nope" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Fields != nil {
		t.Errorf("Fields = %v, want nil when message present", err.Fields)
	}
}
