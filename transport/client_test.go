package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
)

// memStore is a minimal in-memory TokenStore for transport tests.
type memStore struct {
	mu      sync.Mutex
	access  string
	refresh string
	clears  int
}

func (m *memStore) AccessToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, m.access != ""
}

func (m *memStore) RefreshToken() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh, m.refresh != ""
}

func (m *memStore) SetAccessToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access = token
	return nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = "", ""
	m.clears++
	return nil
}

func newTestClient(t *testing.T, url string, store TokenStore, refresher *Refresher) *Client {
	t.Helper()
	c, err := New("blocker", url, store, refresher)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &memStore{access: "token-abc"}
	c := newTestClient(t, srv.URL, store, nil)

	if err := c.Get(context.Background(), "/blockers", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer token-abc")
	}
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hasAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &memStore{}, nil)

	if err := c.Get(context.Background(), "/blockers", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hasAuth {
		t.Errorf("Authorization header present (%q), want absent", gotAuth)
	}
}

func TestClient_Unauthorized_NoRefreshToken(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid or expired token"}`))
	}))
	defer srv.Close()

	refreshCalls := 0
	refreshSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
	}))
	defer refreshSrv.Close()

	store := &memStore{access: "stale"}
	refresher := NewRefresher(refreshSrv.URL, store)
	c := newTestClient(t, srv.URL, store, refresher)

	err := c.Get(context.Background(), "/blockers", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if apiErr.Message != "Invalid or expired token" {
		t.Errorf("Message = %q, want original 401 message", apiErr.Message)
	}
	if calls != 1 {
		t.Errorf("request attempts = %d, want 1", calls)
	}
	if refreshCalls != 0 {
		t.Errorf("refresh exchanges = %d, want 0", refreshCalls)
	}
}

func TestClient_Unauthorized_RefreshAndRetry(t *testing.T) {
	var attempts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		attempts = append(attempts, auth)
		if auth != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"expired"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"blockerId":"b1"}`))
	}))
	defer srv.Close()

	refreshSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/refresh" {
			t.Errorf("refresh path = %q", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"refreshToken":"keep-me"`) {
			t.Errorf("refresh body = %s", body)
		}
		_, _ = w.Write([]byte(`{"accessToken":"fresh-token"}`))
	}))
	defer refreshSrv.Close()

	store := &memStore{access: "stale", refresh: "keep-me"}
	refresher := NewRefresher(refreshSrv.URL, store)
	c := newTestClient(t, srv.URL, store, refresher)

	var out struct {
		BlockerID string `json:"blockerId"`
	}
	if err := c.Get(context.Background(), "/blockers/b1", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.BlockerID != "b1" {
		t.Errorf("BlockerID = %q, want b1", out.BlockerID)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}
	if attempts[1] != "Bearer fresh-token" {
		t.Errorf("retry Authorization = %q, want refreshed token", attempts[1])
	}
	if got, _ := store.AccessToken(); got != "fresh-token" {
		t.Errorf("stored access token = %q, want fresh-token", got)
	}
	if got, _ := store.RefreshToken(); got != "keep-me" {
		t.Errorf("stored refresh token = %q, want unchanged", got)
	}
}

func TestClient_Unauthorized_RefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"expired"}`))
	}))
	defer srv.Close()

	refreshSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid refresh token"}`))
	}))
	defer refreshSrv.Close()

	navCalls := 0
	store := &memStore{access: "stale", refresh: "revoked"}
	refresher := NewRefresher(refreshSrv.URL, store,
		WithNavigator(NavigatorFunc(func() { navCalls++ })))
	c := newTestClient(t, srv.URL, store, refresher)

	err := c.Get(context.Background(), "/blockers", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError from refresh exchange", err)
	}
	if apiErr.Message != "Invalid refresh token" {
		t.Errorf("Message = %q, want refresh failure, not the original 401", apiErr.Message)
	}
	if _, ok := store.AccessToken(); ok {
		t.Error("access token still present after failed refresh")
	}
	if _, ok := store.RefreshToken(); ok {
		t.Error("refresh token still present after failed refresh")
	}
	if store.clears != 1 {
		t.Errorf("Clear calls = %d, want 1", store.clears)
	}
	if navCalls != 1 {
		t.Errorf("ToLogin calls = %d, want 1", navCalls)
	}
}

func TestClient_Unauthorized_SecondAttemptTerminal(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"still expired"}`))
	}))
	defer srv.Close()

	refreshSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"new-but-useless"}`))
	}))
	defer refreshSrv.Close()

	store := &memStore{access: "stale", refresh: "rt"}
	refresher := NewRefresher(refreshSrv.URL, store)
	c := newTestClient(t, srv.URL, store, refresher)

	err := c.Get(context.Background(), "/blockers", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Status = %d, want 401", apiErr.Status)
	}
	if calls != 2 {
		t.Errorf("attempts = %d, want exactly 2 (no second refresh cycle)", calls)
	}
}

func TestClient_ReplaysBodyOnRetry(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	refreshSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"accessToken":"fresh"}`))
	}))
	defer refreshSrv.Close()

	store := &memStore{access: "stale", refresh: "rt"}
	c := newTestClient(t, srv.URL, store, NewRefresher(refreshSrv.URL, store))

	in := map[string]string{"title": "replayed"}
	if err := c.Post(context.Background(), "/blockers", in, nil); err != nil {
		t.Fatalf("Post: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("attempts = %d, want 2", len(bodies))
	}
	if bodies[0] != bodies[1] {
		t.Errorf("retry body differs from original:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestClient_PostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		parts := r.MultipartForm.File["files"]
		if len(parts) != 3 {
			t.Errorf("parts under files = %d, want 3", len(parts))
		}
		for f := range r.MultipartForm.File {
			if f != "files" {
				t.Errorf("unexpected field %q", f)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileUrls":["a","b","c"]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &memStore{access: "tok"}, nil)

	files := []File{
		{Name: "one.png", Reader: strings.NewReader("1")},
		{Name: "two.png", Reader: strings.NewReader("2")},
		{Name: "three.png", Reader: strings.NewReader("3")},
	}
	var out struct {
		FileURLs []string `json:"fileUrls"`
	}
	if err := c.PostMultipart(context.Background(), "/blockers/upload", "files", files, &out); err != nil {
		t.Fatalf("PostMultipart: %v", err)
	}
	if len(out.FileURLs) != 3 {
		t.Errorf("fileUrls = %d, want 3", len(out.FileURLs))
	}
}

func TestClient_PathPrefixAndQuery(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("status")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, &memStore{}, nil)

	q := url.Values{"status": {"OPEN"}}
	if err := c.Get(context.Background(), "/blockers", q, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotPath != "/api/v1/blockers" {
		t.Errorf("path = %q, want /api/v1/blockers", gotPath)
	}
	if gotQuery != "OPEN" {
		t.Errorf("status query = %q, want OPEN", gotQuery)
	}
}

func TestNew_Validation(t *testing.T) {
	store := &memStore{}
	if _, err := New("", "http://x", store, nil); err == nil {
		t.Error("New with empty service: want error")
	}
	if _, err := New("blocker", "", store, nil); err == nil {
		t.Error("New with empty base URL: want error")
	}
	if _, err := New("blocker", "http://x", nil, nil); err == nil {
		t.Error("New with nil store: want error")
	}
}
