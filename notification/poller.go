package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval matches the navbar badge refresh cadence.
const DefaultPollInterval = 30 * time.Second

// Poller periodically fetches the unread count for one user and reports it
// through a callback. Polling runs on its own timer, decoupled from all
// other request flows; a failed poll leaves the last reported count intact.
type Poller struct {
	svc      *Service
	userID   string
	interval time.Duration
	onCount  func(count int64)
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// PollerOption configures the Poller.
type PollerOption func(*Poller)

// WithPollInterval overrides the poll cadence.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) { p.interval = d }
}

// WithPollLogger sets a structured logger for the poller.
func WithPollLogger(l *slog.Logger) PollerOption {
	return func(p *Poller) { p.logger = l }
}

// NewPoller creates a poller that reports userID's unread count to onCount.
func (s *Service) NewPoller(userID string, onCount func(count int64), opts ...PollerOption) *Poller {
	p := &Poller{
		svc:      s,
		userID:   userID,
		interval: DefaultPollInterval,
		onCount:  onCount,
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Start begins polling. The first fetch happens immediately; subsequent
// fetches follow the configured interval. Start is a no-op if the poller is
// already running.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)
}

// Stop halts polling and waits for the current cycle to finish. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	count, err := p.svc.UnreadCount(ctx, p.userID)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("devblocker/notification: unread poll failed", "err", err)
		}
		return
	}
	p.onCount(count)
}
