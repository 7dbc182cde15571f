// Package metrics provides Prometheus metrics for DevBlocker API traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the SDK. It satisfies the
// transport Observer contract.
type Metrics struct {
	enabled bool

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	// Token lifecycle metrics
	tokenRefreshesTotal *prometheus.CounterVec
	sessionClearsTotal  prometheus.Counter
}

// New creates and registers Prometheus metrics.
// If enabled is false, returns a no-op Metrics instance.
func New(enabled bool) *Metrics {
	m := &Metrics{enabled: enabled}

	if !enabled {
		return m
	}

	m.requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devblocker_requests_total",
		Help: "Total API requests, by service, method and status code",
	}, []string{"service", "method", "code"})

	m.requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devblocker_request_duration_seconds",
		Help:    "API request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "method"})

	m.tokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devblocker_token_refreshes_total",
		Help: "Total token refresh exchanges, by outcome",
	}, []string{"outcome"})

	m.sessionClearsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devblocker_session_clears_total",
		Help: "Total sessions cleared after an unrecoverable refresh failure",
	})

	return m
}

// RequestObserved records one completed HTTP attempt. A zero status means
// the request failed before any response arrived.
func (m *Metrics) RequestObserved(service, method string, status int, elapsed time.Duration) {
	if !m.enabled {
		return
	}
	m.requestsTotal.WithLabelValues(service, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(service, method).Observe(elapsed.Seconds())
}

// RefreshObserved records the outcome of one token refresh exchange.
func (m *Metrics) RefreshObserved(success bool) {
	if !m.enabled {
		return
	}
	outcome := "success"
	if !success {
		outcome = "failure"
		m.sessionClearsTotal.Inc()
	}
	m.tokenRefreshesTotal.WithLabelValues(outcome).Inc()
}
