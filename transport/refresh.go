package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNoRefreshToken reports that a refresh was requested while the store
// holds no refresh token. Callers surface the original 401 in that case.
var ErrNoRefreshToken = errors.New("devblocker/transport: no refresh token")

// Refresher exchanges the stored refresh token for a new access token
// against the auth service. The exchange runs on its own bare HTTP client,
// outside any Client interceptor chain, so a rejected refresh can never
// recurse into another refresh.
//
// Concurrent 401s across independent requests coalesce into a single
// in-flight exchange; every waiter receives the same new token or the same
// failure. The refresh token itself is never rotated by this call.
type Refresher struct {
	tokenURL   string
	httpClient *http.Client
	store      TokenStore
	nav        Navigator
	logger     *slog.Logger
	observer   Observer

	sf singleflight.Group
}

// RefresherOption configures the Refresher.
type RefresherOption func(*Refresher)

// WithRefreshHTTPClient sets the HTTP client used for the refresh exchange.
func WithRefreshHTTPClient(hc *http.Client) RefresherOption {
	return func(r *Refresher) { r.httpClient = hc }
}

// WithNavigator sets the navigator invoked when a refresh fails terminally.
func WithNavigator(n Navigator) RefresherOption {
	return func(r *Refresher) { r.nav = n }
}

// WithRefreshLogger sets a structured logger for the refresher.
func WithRefreshLogger(l *slog.Logger) RefresherOption {
	return func(r *Refresher) { r.logger = l }
}

// WithRefreshObserver sets the refresh outcome observer.
func WithRefreshObserver(o Observer) RefresherOption {
	return func(r *Refresher) { r.observer = o }
}

// NewRefresher creates a refresher bound to the auth service base URL.
func NewRefresher(authBaseURL string, store TokenStore, opts ...RefresherOption) *Refresher {
	r := &Refresher{
		tokenURL:   strings.TrimRight(authBaseURL, "/") + PathPrefix + "/auth/refresh",
		httpClient: &http.Client{Timeout: 10 * time.Second},
		store:      store,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// Refresh performs one coalesced token exchange and returns the new access
// token. On terminal failure the session store is cleared, the navigator is
// sent to the login entry point, and the refresh error is returned.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	v, err, shared := r.sf.Do("refresh", func() (any, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	if shared {
		r.logger.Debug("devblocker/transport: refresh coalesced with concurrent request")
	}
	return v.(string), nil
}

func (r *Refresher) refresh(ctx context.Context) (string, error) {
	refreshToken, ok := r.store.RefreshToken()
	if !ok {
		return "", ErrNoRefreshToken
	}

	token, err := r.exchange(ctx, refreshToken)
	if err != nil {
		r.observeOutcome(false)
		r.logger.Warn("devblocker/transport: token refresh failed, clearing session", "err", err)
		if clearErr := r.store.Clear(); clearErr != nil {
			r.logger.Error("devblocker/transport: clearing session after failed refresh", "err", clearErr)
		}
		if r.nav != nil {
			r.nav.ToLogin()
		}
		return "", err
	}

	if err := r.store.SetAccessToken(token); err != nil {
		r.observeOutcome(false)
		return "", fmt.Errorf("devblocker/transport: store refreshed token: %w", err)
	}
	r.observeOutcome(true)
	return token, nil
}

func (r *Refresher) exchange(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("devblocker/transport: encode refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("devblocker/transport: build refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("devblocker/transport: refresh request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("devblocker/transport: read refresh response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", newAPIError("auth", resp.StatusCode, body)
	}

	var parsed refreshResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("devblocker/transport: decode refresh response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("devblocker/transport: empty accessToken in refresh response")
	}
	return parsed.AccessToken, nil
}

func (r *Refresher) observeOutcome(success bool) {
	if r.observer != nil {
		r.observer.RefreshObserved(success)
	}
}
