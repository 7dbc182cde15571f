package audit

import (
	"sync"
	"testing"
	"time"
)

func TestLogger_EmitsToHandler(t *testing.T) {
	var mu sync.Mutex
	var events []Event

	logger := New(10, WithHandler(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}))

	logger.Log(Event{
		Action: ActionLogin,
		Result: ResultSuccess,
		UserID: "u1",
		Email:  "dev@example.com",
	})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Action != ActionLogin || events[0].UserID != "u1" {
		t.Errorf("event = %+v", events[0])
	}
	if events[0].Timestamp.IsZero() {
		t.Error("timestamp not stamped")
	}
}

func TestLogger_KeepsCallerTimestamp(t *testing.T) {
	var mu sync.Mutex
	var got Event

	logger := New(1, WithHandler(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = e
	}))

	ts := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	logger.Log(Event{Action: ActionLogout, Result: ResultSuccess, Timestamp: ts})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if !got.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want caller's %v", got.Timestamp, ts)
	}
}

func TestLogger_MultipleHandlers(t *testing.T) {
	var mu sync.Mutex
	counts := make(map[int]int)

	handler := func(i int) Handler {
		return func(Event) {
			mu.Lock()
			defer mu.Unlock()
			counts[i]++
		}
	}
	logger := New(10, WithHandler(handler(1)), WithHandler(handler(2)))

	logger.Log(Event{Action: ActionSendOTP, Result: ResultFailure, Error: "boom"})
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if counts[1] != 1 || counts[2] != 1 {
		t.Errorf("counts = %v, want each handler called once", counts)
	}
}

func TestLogger_CloseDrainsQueue(t *testing.T) {
	var mu sync.Mutex
	var seen int

	logger := New(100, WithHandler(func(Event) {
		mu.Lock()
		defer mu.Unlock()
		seen++
	}))

	const n = 50
	for i := 0; i < n; i++ {
		logger.Log(Event{Action: ActionLogin, Result: ResultSuccess})
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if seen != n {
		t.Errorf("handled = %d, want %d", seen, n)
	}
}
