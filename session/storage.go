// Package session owns the bearer-token pair and the identity claims
// derived from the access token.
//
// The Store is the single source of truth for both tokens. Presence of an
// access token means "authenticated" for display purposes only; it does not
// mean the token is unexpired or unrevoked. Only a 401 from a backend proves
// invalidity, and that path is handled by the transport layer.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a string key-value store backing the token pair. It mirrors
// browser local storage: durable within one client profile, no TTL.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStorage keeps values in process memory. Tokens do not survive a
// restart; use FileStorage for that.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

// Get returns the value for key.
func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores value under key.
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// FileStorage persists values to a JSON file so the session survives process
// restarts. The file is created with 0600 permissions.
type FileStorage struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileStorage opens or creates file-backed storage at path. A missing or
// unreadable file starts empty rather than failing, matching local-storage
// degradation semantics.
func NewFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, fmt.Errorf("devblocker/session: storage path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("devblocker/session: create storage dir: %w", err)
	}

	s := &FileStorage{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err == nil {
		// Corrupt contents degrade to an empty store.
		_ = json.Unmarshal(data, &s.values)
		if s.values == nil {
			s.values = make(map[string]string)
		}
	}
	return s, nil
}

// Get returns the value for key.
func (f *FileStorage) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// Set stores value under key and flushes to disk.
func (f *FileStorage) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.flushLocked()
}

// Delete removes key and flushes to disk.
func (f *FileStorage) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
	return f.flushLocked()
}

func (f *FileStorage) flushLocked() error {
	data, err := json.Marshal(f.values)
	if err != nil {
		return fmt.Errorf("devblocker/session: encode storage: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("devblocker/session: write storage: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("devblocker/session: write storage: %w", err)
	}
	return nil
}
