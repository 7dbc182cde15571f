// Package devblocker provides a Go client SDK for the DevBlocker platform,
// a set of independent backend services for tracking team blockers, their
// proposed solutions, threaded comments, notifications, and lightweight
// organization administration.
//
// The SDK holds a token-based session in an injectable store, attaches the
// access token to every outgoing request, and transparently refreshes it
// once on a 401 before surfacing a failure. Identity claims decoded from
// the access token drive UI visibility decisions through the authz package;
// they are never a security boundary.
//
// Example:
//
//	cfg, err := devblocker.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := devblocker.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	if _, err := client.Auth().Login(ctx, email, password); err != nil {
//	    log.Fatal(err)
//	}
//	page, err := client.Blockers().List(ctx, blocker.Filter{Status: blocker.StatusOpen})
package devblocker

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aayushpawar07/devblocker-go/audit"
	"github.com/aayushpawar07/devblocker-go/auth"
	"github.com/aayushpawar07/devblocker-go/authz"
	"github.com/aayushpawar07/devblocker-go/blocker"
	"github.com/aayushpawar07/devblocker-go/comment"
	"github.com/aayushpawar07/devblocker-go/notification"
	"github.com/aayushpawar07/devblocker-go/organization"
	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/solution"
	"github.com/aayushpawar07/devblocker-go/transport"
	"github.com/aayushpawar07/devblocker-go/user"
)

// Client is the main entry point for DevBlocker operations. It wires one
// transport client per backend service behind a shared session store and
// refresh protocol.
type Client struct {
	config   Config
	logger   *slog.Logger
	http     *http.Client
	store    *session.Store
	nav      transport.Navigator
	notifier auth.Notifier
	observer transport.Observer
	auditLog *audit.Logger
	ownAudit bool

	authSession   *auth.Session
	authClient    *auth.Client
	blockers      *blocker.Service
	solutions     *solution.Service
	comments      *comment.Service
	notifications *notification.Service
	users         *user.Service
	organizations *organization.Service
	gate          *authz.Gate
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets a structured logger for the client and all services.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient sets the HTTP client used for all service calls, e.g. to
// enforce a request deadline. The core itself imposes none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore substitutes the session store. The default keeps tokens in
// process memory; use session.NewFileStorage for a session that survives
// restarts.
func WithTokenStore(s *session.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithNavigator sets the hook invoked when the session becomes
// unrecoverable and the UI must return to its login entry point.
func WithNavigator(n transport.Navigator) Option {
	return func(c *Client) { c.nav = n }
}

// WithNotifier sets the sink for transient user-facing messages.
func WithNotifier(n auth.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithObserver sets the transport event observer; metrics.New satisfies it.
func WithObserver(o transport.Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithAuditLogger sets an externally owned audit logger. The client will
// not close it.
func WithAuditLogger(l *audit.Logger) Option {
	return func(c *Client) { c.auditLog = l }
}

// NewClient creates a DevBlocker client from the given configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:   cfg,
		logger:   slog.Default(),
		http:     &http.Client{},
		notifier: auth.NopNotifier{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = session.NewStore(session.NewMemoryStorage(), session.WithLogger(c.logger))
	}
	if c.auditLog == nil {
		c.auditLog = audit.New(0)
		c.ownAudit = true
	}

	refresher := transport.NewRefresher(cfg.AuthURL, c.store,
		transport.WithNavigator(c.nav),
		transport.WithRefreshLogger(c.logger),
		transport.WithRefreshObserver(c.observer),
		transport.WithRefreshHTTPClient(c.http),
	)

	dial := func(service, baseURL string) (*transport.Client, error) {
		return transport.New(service, baseURL, c.store, refresher,
			transport.WithHTTPClient(c.http),
			transport.WithLogger(c.logger),
			transport.WithObserver(c.observer),
		)
	}

	authAPI, err := dial("auth", cfg.AuthURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: auth client: %w", err)
	}
	userAPI, err := dial("user", cfg.UserURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: user client: %w", err)
	}
	blockerAPI, err := dial("blocker", cfg.BlockerURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: blocker client: %w", err)
	}
	solutionAPI, err := dial("solution", cfg.SolutionURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: solution client: %w", err)
	}
	commentAPI, err := dial("comment", cfg.CommentURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: comment client: %w", err)
	}
	notificationAPI, err := dial("notification", cfg.NotificationURL)
	if err != nil {
		return nil, fmt.Errorf("devblocker: notification client: %w", err)
	}

	c.authClient = auth.NewClient(authAPI)
	c.authSession = auth.NewSession(c.authClient, c.store,
		auth.WithNotifier(c.notifier),
		auth.WithAuditLogger(c.auditLog),
		auth.WithLogger(c.logger),
	)
	c.blockers = blocker.New(blockerAPI)
	c.solutions = solution.New(solutionAPI)
	c.comments = comment.New(commentAPI)
	c.notifications = notification.New(notificationAPI)
	c.users = user.New(userAPI)
	// Organization and group administration is hosted by the auth service.
	c.organizations = organization.New(authAPI)
	c.gate = authz.NewGate(c.store)

	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config { return c.config }

// Auth returns the session context for login, registration, OTP
// verification and logout.
func (c *Client) Auth() *auth.Session { return c.authSession }

// AuthAPI returns the raw auth service client.
func (c *Client) AuthAPI() *auth.Client { return c.authClient }

// Blockers returns the blocker service.
func (c *Client) Blockers() *blocker.Service { return c.blockers }

// Solutions returns the solution service.
func (c *Client) Solutions() *solution.Service { return c.solutions }

// Comments returns the comment service.
func (c *Client) Comments() *comment.Service { return c.comments }

// Notifications returns the notification service.
func (c *Client) Notifications() *notification.Service { return c.notifications }

// Users returns the user profile service.
func (c *Client) Users() *user.Service { return c.users }

// Organizations returns the organization and group administration service.
func (c *Client) Organizations() *organization.Service { return c.organizations }

// Gate returns the authorization gate for UI visibility decisions.
func (c *Client) Gate() *authz.Gate { return c.gate }

// Session returns the token store.
func (c *Client) Session() *session.Store { return c.store }

// Close releases resources held by the client. Audit loggers passed in via
// WithAuditLogger are left running.
func (c *Client) Close() error {
	if c.ownAudit {
		return c.auditLog.Close()
	}
	return nil
}
