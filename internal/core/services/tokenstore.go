package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/octoscope/internal/core/domain"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// TokenStore is the observable, persisted holder of the session token.
//
// Reads are lock-free and always see a fully written value. Mutations are
// serialized so that memory and storage change together, and every mutation
// is broadcast to subscribers, including re-saving the current value.
type TokenStore struct {
	storage driven.TokenStorage
	logger  *slog.Logger

	current atomic.Pointer[domain.TokenState]

	mu          sync.Mutex // serializes writers
	subsMu      sync.Mutex
	subscribers map[int]chan domain.TokenState
	nextID      int
}

// NewTokenStore creates a token store over storage. A nil storage keeps the
// token in memory only.
func NewTokenStore(storage driven.TokenStorage, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TokenStore{
		storage:     storage,
		logger:      logger,
		subscribers: make(map[int]chan domain.TokenState),
	}
	s.current.Store(&domain.TokenState{})
	return s
}

// Get returns the current token.
func (s *TokenStore) Get() (string, bool) {
	st := s.current.Load()
	return st.Token, st.Present
}

// State returns the current token as a snapshot.
func (s *TokenStore) State() domain.TokenState {
	return *s.current.Load()
}

// Load restores the persisted token. It is called once at start-up and after
// the storage reports an external change.
func (s *TokenStore) Load(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading token: %w", err)
	}
	next := domain.TokenState{Token: token, Present: ok && token != ""}
	if next != *s.current.Load() {
		s.set(next)
	}
	return nil
}

// Follow reloads the token whenever watcher reports an external change,
// until ctx is done.
func (s *TokenStore) Follow(ctx context.Context, watcher driven.TokenWatcher) error {
	return watcher.Watch(ctx, func() {
		if err := s.Load(ctx); err != nil {
			s.logger.WarnContext(ctx, "failed to reload token", slog.Any("error", err))
		}
	})
}

// Save stores token in memory and storage.
func (s *TokenStore) Save(ctx context.Context, token string) error {
	if token == "" {
		return &domain.ValidationError{Field: "token", Message: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.storage != nil {
		if err := s.storage.Save(ctx, token); err != nil {
			return fmt.Errorf("saving token: %w", err)
		}
	}
	s.set(domain.TokenState{Token: token, Present: true})
	return nil
}

// Clear removes the token. Clearing an absent token is a no-op apart from
// notifying subscribers.
func (s *TokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

// Invalidate clears the token only if it is still the one a failed request
// carried. It reports whether the token was cleared. A response to a request
// made with an older token never clears a newer one.
func (s *TokenStore) Invalidate(ctx context.Context, used string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.current.Load()
	if !cur.Present || cur.Token != used {
		s.logger.DebugContext(ctx, "ignoring invalidation of a superseded token")
		return false
	}
	if err := s.clear(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to clear persisted token", slog.Any("error", err))
	}
	s.logger.InfoContext(ctx, "session token invalidated")
	return true
}

func (s *TokenStore) clear(ctx context.Context) error {
	var err error
	if s.storage != nil {
		if cerr := s.storage.Clear(ctx); cerr != nil {
			err = fmt.Errorf("clearing token: %w", cerr)
		}
	}
	// Memory is cleared even when storage fails so the failed token is never
	// sent again by this process.
	s.set(domain.TokenState{})
	return err
}

// set publishes st; caller holds s.mu.
func (s *TokenStore) set(st domain.TokenState) {
	s.current.Store(&st)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subscribers {
		publish(ch, st)
	}
}

// Subscribe returns a channel that receives the current token and every
// later change. The channel keeps only the latest value; a slow reader
// skips intermediate states. Call cancel to unsubscribe.
func (s *TokenStore) Subscribe() (<-chan domain.TokenState, func()) {
	ch := make(chan domain.TokenState, 1)

	s.subsMu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = ch
	publish(ch, *s.current.Load())
	s.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subscribers, id)
			s.subsMu.Unlock()
		})
	}
}

// publish replaces any unread value in ch with v.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
