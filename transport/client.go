// Package transport implements the HTTP client shared by every DevBlocker
// service module: base-URL routing, bearer-token attachment, and the
// 401 refresh-and-retry protocol.
//
// Service modules stay free of authentication concerns; they issue plain
// calls through a Client and the interceptor logic here handles expired
// access tokens transparently. A given original request is attempted at most
// twice end-to-end: a second 401 after the refreshed retry is terminal.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PathPrefix is prepended to every service path.
const PathPrefix = "/api/v1"

// TokenStore is the slice of the session store the transport depends on.
// *session.Store satisfies it.
type TokenStore interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetAccessToken(token string) error
	Clear() error
}

// Navigator forces client-side navigation when the session becomes
// unrecoverable. Implementations belong to the UI layer.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func()

// ToLogin calls f.
func (f NavigatorFunc) ToLogin() { f() }

// Observer receives transport-level events, typically for metrics.
// Implementations must not block.
type Observer interface {
	// RequestObserved reports one completed HTTP attempt. status is zero
	// when the request failed before a response arrived.
	RequestObserved(service, method string, status int, elapsed time.Duration)

	// RefreshObserved reports the outcome of one token refresh exchange.
	RefreshObserved(success bool)
}

// Client is an HTTP client bound to one backend service.
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	refresher  *Refresher
	logger     *slog.Logger
	observer   Observer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, e.g. to enforce a deadline.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets a structured logger for the client.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver sets the transport event observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for one service. refresher may be nil, in which case
// a 401 is returned to the caller without a refresh attempt (used for the
// auth service's own unauthenticated endpoints in tests).
func New(service, baseURL string, store TokenStore, refresher *Refresher, opts ...Option) (*Client, error) {
	if service == "" {
		return nil, fmt.Errorf("devblocker/transport: service name is required")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("devblocker/transport: base URL for %s service is required", service)
	}
	if store == nil {
		return nil, fmt.Errorf("devblocker/transport: token store is required")
	}

	c := &Client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		refresher:  refresher,
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Service returns the logical service name this client is bound to.
func (c *Client) Service() string { return c.service }

// BaseURL returns the service base address without the path prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// File is one part of a multipart upload.
type File struct {
	Name   string
	Reader io.Reader
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, nil, in, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, nil, in, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil, out)
}

// Do issues one request with optional query, extra headers and JSON body.
// Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, header http.Header, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("devblocker/transport: %s: encode request: %w", c.service, err)
		}
		body = b
		contentType = "application/json"
	}
	return c.doRaw(ctx, method, path, query, header, contentType, body, out)
}

// PostMultipart uploads files as one multipart body with one part per file,
// all under the same field name.
func (c *Client) PostMultipart(ctx context.Context, path, field string, files []File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return fmt.Errorf("devblocker/transport: %s: build multipart: %w", c.service, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return fmt.Errorf("devblocker/transport: %s: read file %s: %w", c.service, f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("devblocker/transport: %s: build multipart: %w", c.service, err)
	}
	return c.doRaw(ctx, http.MethodPost, path, nil, nil, w.FormDataContentType(), buf.Bytes(), out)
}

// request carries everything needed to replay one call after a refresh.
type request struct {
	method      string
	url         string
	header      http.Header
	contentType string
	body        []byte
}

func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, header http.Header, contentType string, body []byte, out any) error {
	u := c.baseURL + PathPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	r := &request{
		method:      method,
		url:         u,
		header:      header.Clone(),
		contentType: contentType,
		body:        body,
	}

	status, respBody, err := c.send(ctx, r, "")
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.refresher != nil {
		original := newAPIError(c.service, status, respBody)
		if _, ok := c.store.RefreshToken(); !ok {
			// No refresh credential: terminal, surface the 401 unchanged.
			return original
		}

		newToken, rerr := c.refresher.Refresh(ctx)
		if rerr != nil {
			if errors.Is(rerr, ErrNoRefreshToken) {
				return original
			}
			// Session already cleared and navigation triggered by the
			// refresher; the caller sees the refresh error, not the 401.
			return rerr
		}

		c.logger.Debug("devblocker/transport: retrying after token refresh",
			"service", c.service, "method", method, "path", path)
		status, respBody, err = c.send(ctx, r, newToken)
		if err != nil {
			return err
		}
		// A second 401 falls through to the generic non-2xx handling below.
	}

	if status < 200 || status > 299 {
		return newAPIError(c.service, status, respBody)
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("devblocker/transport: %s: decode response: %w", c.service, err)
		}
	}
	return nil
}

// send performs one HTTP attempt. overrideToken, when set, replaces the
// stored access token on this attempt (the post-refresh retry).
func (c *Client) send(ctx context.Context, r *request, overrideToken string) (int, []byte, error) {
	var reader io.Reader
	if len(r.body) > 0 {
		reader = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("devblocker/transport: %s: build request: %w", c.service, err)
	}
	for k, vs := range r.header {
		req.Header[k] = vs
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if overrideToken != "" {
		req.Header.Set("Authorization", "Bearer "+overrideToken)
	} else if token, ok := c.store.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.method, 0, time.Since(start))
		return 0, nil, fmt.Errorf("devblocker/transport: %s: %s %s: %w", c.service, r.method, r.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	c.observe(r.method, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, fmt.Errorf("devblocker/transport: %s: read response: %w", c.service, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) observe(method string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.RequestObserved(c.service, method, status, elapsed)
	}
}
