package session

import (
	"fmt"
	"log/slog"
)

// Storage keys for the persisted token pair.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
)

// Store holds the current token pair on top of an injectable Storage.
type Store struct {
	storage Storage
	logger  *slog.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets a structured logger for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a token store over the given storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{storage: storage, logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetTokens persists both tokens, overwriting any prior pair. Called on
// login and on OTP-verified registration.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	if err := s.storage.Set(keyAccessToken, accessToken); err != nil {
		return fmt.Errorf("devblocker/session: persist access token: %w", err)
	}
	if err := s.storage.Set(keyRefreshToken, refreshToken); err != nil {
		return fmt.Errorf("devblocker/session: persist refresh token: %w", err)
	}
	return nil
}

// SetAccessToken replaces only the access token, leaving the refresh token
// untouched. Called after a successful refresh exchange.
func (s *Store) SetAccessToken(token string) error {
	if err := s.storage.Set(keyAccessToken, token); err != nil {
		return fmt.Errorf("devblocker/session: persist access token: %w", err)
	}
	return nil
}

// AccessToken returns the stored access token, if any.
func (s *Store) AccessToken() (string, bool) {
	v, ok := s.storage.Get(keyAccessToken)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// RefreshToken returns the stored refresh token, if any.
func (s *Store) RefreshToken() (string, bool) {
	v, ok := s.storage.Get(keyRefreshToken)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Clear removes both tokens. Idempotent.
func (s *Store) Clear() error {
	if err := s.storage.Delete(keyAccessToken); err != nil {
		return fmt.Errorf("devblocker/session: clear access token: %w", err)
	}
	if err := s.storage.Delete(keyRefreshToken); err != nil {
		return fmt.Errorf("devblocker/session: clear refresh token: %w", err)
	}
	return nil
}
