package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aayushpawar07/devblocker-go/audit"
	"github.com/aayushpawar07/devblocker-go/session"
	"github.com/aayushpawar07/devblocker-go/transport"
)

// Notifier surfaces transient user-facing messages, the SDK's analog of a
// toast. The default is a no-op.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// NopNotifier discards all messages.
type NopNotifier struct{}

// Success implements Notifier.
func (NopNotifier) Success(string) {}

// Error implements Notifier.
func (NopNotifier) Error(string) {}

// Session is the single entry point the application uses to mutate the
// authenticated state. It wraps the raw auth client with token persistence,
// user-facing error normalization, and audit events.
//
// Per-operation failures keep their original error for programmatic
// handling; only the message shown through the Notifier is normalized.
type Session struct {
	client   *Client
	store    *session.Store
	notifier Notifier
	audit    *audit.Logger
	logger   *slog.Logger

	mu     sync.RWMutex
	userID string
}

// Option configures the Session.
type Option func(*Session)

// WithNotifier sets the user-facing message sink.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithAuditLogger enables audit events for session lifecycle operations.
func WithAuditLogger(l *audit.Logger) Option {
	return func(s *Session) { s.audit = l }
}

// WithLogger sets a structured logger for the session.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates the session context over a raw auth client and the
// token store.
func NewSession(client *Client, store *session.Store, opts ...Option) *Session {
	s := &Session{
		client:   client,
		store:    store,
		notifier: NopNotifier{},
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Login authenticates and persists the issued token pair. On failure the
// notifier receives a normalized message and the original error is returned.
func (s *Session) Login(ctx context.Context, email, password string) (LoginResult, error) {
	res, err := s.client.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(transport.DisplayMessage(err, "Login failed"))
		s.auditEvent(audit.ActionLogin, audit.ResultFailure, "", email, err)
		return LoginResult{}, err
	}

	if res.AccessToken != "" {
		if err := s.store.SetTokens(res.AccessToken, res.RefreshToken); err != nil {
			return LoginResult{}, fmt.Errorf("devblocker/auth: persist session: %w", err)
		}
	}

	userID := res.UserID
	if userID == "" {
		if claims, ok := s.store.Claims(); ok {
			userID = claims.UserID
		}
	}
	s.mu.Lock()
	s.userID = userID
	s.mu.Unlock()

	s.auditEvent(audit.ActionLogin, audit.ResultSuccess, userID, email, nil)
	s.notifier.Success("Login successful!")
	return res, nil
}

// Register creates an individual account.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (User, error) {
	user, err := s.client.Register(ctx, req)
	if err != nil {
		s.notifier.Error(transport.DisplayMessage(err, "Registration failed"))
		s.auditEvent(audit.ActionRegister, audit.ResultFailure, "", req.Email, err)
		return User{}, err
	}
	s.auditEvent(audit.ActionRegister, audit.ResultSuccess, user.UserID, req.Email, nil)
	s.notifier.Success("Registration successful! Please verify your email.")
	return user, nil
}

// SendOTP emails a one-time passcode. An empty typ defaults to REGISTRATION.
func (s *Session) SendOTP(ctx context.Context, email string, typ OTPType) error {
	if err := s.client.SendOTP(ctx, email, typ); err != nil {
		s.notifier.Error(transport.DisplayMessage(err, "Failed to send OTP"))
		s.auditEvent(audit.ActionSendOTP, audit.ResultFailure, "", email, err)
		return err
	}
	s.auditEvent(audit.ActionSendOTP, audit.ResultSuccess, "", email, nil)
	s.notifier.Success("OTP sent to your email!")
	return nil
}

// VerifyOTP verifies a one-time passcode. An empty typ defaults to
// REGISTRATION.
func (s *Session) VerifyOTP(ctx context.Context, email, code string, typ OTPType) error {
	if err := s.client.VerifyOTP(ctx, email, code, typ); err != nil {
		s.notifier.Error(transport.DisplayMessage(err, "OTP verification failed"))
		s.auditEvent(audit.ActionVerifyOTP, audit.ResultFailure, "", email, err)
		return err
	}
	s.auditEvent(audit.ActionVerifyOTP, audit.ResultSuccess, "", email, nil)
	s.notifier.Success("Email verified successfully!")
	return nil
}

// Logout clears both tokens and any cached identity. Idempotent.
func (s *Session) Logout() error {
	s.mu.Lock()
	userID := s.userID
	s.userID = ""
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("devblocker/auth: logout: %w", err)
	}
	s.auditEvent(audit.ActionLogout, audit.ResultSuccess, userID, "", nil)
	s.notifier.Success("Logged out successfully")
	return nil
}

// Authenticated reports whether a session is present. The token may still
// be expired; only a request failure proves invalidity.
func (s *Session) Authenticated() bool {
	_, ok := s.store.AccessToken()
	return ok
}

// CurrentUserID returns the current user's ID, from the login response when
// available, otherwise from the token claims.
func (s *Session) CurrentUserID() string {
	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID != "" {
		return userID
	}
	if claims, ok := s.store.Claims(); ok {
		return claims.UserID
	}
	return ""
}

// Claims returns the identity claims decoded from the access token.
func (s *Session) Claims() (session.Claims, bool) {
	return s.store.Claims()
}

func (s *Session) auditEvent(action, result, userID, email string, err error) {
	if s.audit == nil {
		return
	}
	event := audit.Event{
		UserID: userID,
		Email:  email,
		Action: action,
		Result: result,
	}
	if err != nil {
		event.Error = err.Error()
	}
	s.audit.Log(event)
}
