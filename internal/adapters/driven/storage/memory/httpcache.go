package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// Ensure the stores implement the interfaces.
var (
	_ driven.ETagStore     = (*ETagStore)(nil)
	_ driven.ResponseStore = (*ResponseStore)(nil)
)

// ETagStore is an in-memory driven.ETagStore.
type ETagStore struct {
	mu    sync.RWMutex
	etags map[string]string
}

// NewETagStore creates an empty ETag store.
func NewETagStore() *ETagStore {
	return &ETagStore{etags: make(map[string]string)}
}

// Get returns the stored ETag for key.
func (s *ETagStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	etag, ok := s.etags[key]
	return etag, ok, nil
}

// Put stores etag for key.
func (s *ETagStore) Put(_ context.Context, key, etag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.etags[key] = etag
	return nil
}

// ResponseStore is an in-memory driven.ResponseStore.
type ResponseStore struct {
	mu        sync.RWMutex
	responses map[string]driven.StoredResponse
}

// NewResponseStore creates an empty response store.
func NewResponseStore() *ResponseStore {
	return &ResponseStore{responses: make(map[string]driven.StoredResponse)}
}

// Get returns a copy of the stored response for key.
func (s *ResponseStore) Get(_ context.Context, key string) (*driven.StoredResponse, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp, ok := s.responses[key]
	if !ok {
		return nil, false, nil
	}
	resp.Header = resp.Header.Clone()
	resp.Body = append([]byte(nil), resp.Body...)
	return &resp, true, nil
}

// Put stores a copy of resp.
func (s *ResponseStore) Put(_ context.Context, resp *driven.StoredResponse) error {
	stored := *resp
	stored.Header = resp.Header.Clone()
	stored.Body = append([]byte(nil), resp.Body...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[resp.Key] = stored
	return nil
}

// Touch resets the freshness clock of key.
func (s *ResponseStore) Touch(_ context.Context, key string, storedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resp, ok := s.responses[key]; ok {
		resp.StoredAt = storedAt
		s.responses[key] = resp
	}
	return nil
}
