// Package jsontime handles the timestamp format emitted by the DevBlocker
// backend services, which serialize local date-times without a zone offset.
package jsontime

import (
	"fmt"
	"strings"
	"time"
)

// Time unmarshals both RFC 3339 timestamps and zone-less local date-times
// such as "2024-03-01T10:15:30" or "2024-03-01T10:15:30.123456".
type Time struct {
	time.Time
}

const localLayout = "2006-01-02T15:04:05.999999999"

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.Parse(localLayout, s)
	if err != nil {
		return fmt.Errorf("jsontime: cannot parse %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(time.RFC3339) + `"`), nil
}
