package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// Ensure TokenStorage implements the interface.
var _ driven.TokenStorage = (*TokenStorage)(nil)

// TokenStorage keeps the session token for the lifetime of the process.
type TokenStorage struct {
	mu    sync.Mutex
	token string
}

// NewTokenStorage creates an empty token storage.
func NewTokenStorage() *TokenStorage {
	return &TokenStorage{}
}

// Load returns the stored token.
func (s *TokenStorage) Load(context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != "", nil
}

// Save stores token.
func (s *TokenStorage) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token.
func (s *TokenStorage) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
