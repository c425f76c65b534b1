package file

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// SessionFile is the session file name inside the octoscope directory.
const SessionFile = "session.json"

var (
	_ driven.TokenStorage = (*TokenFile)(nil)
	_ driven.TokenWatcher = (*TokenFile)(nil)
)

type sessionData struct {
	Token string `json:"token"`
}

// TokenFile persists the session token as JSON with owner-only permissions.
type TokenFile struct {
	mu       sync.Mutex
	filePath string
	logger   *slog.Logger
}

// NewTokenFile creates a token file store.
// If dir is empty, defaults to ~/.octoscope/session.json.
func NewTokenFile(dir string, logger *slog.Logger) (*TokenFile, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenFile{
		filePath: filepath.Join(dir, SessionFile),
		logger:   logger,
	}, nil
}

// Path returns the session file path.
func (f *TokenFile) Path() string {
	return f.filePath
}

// Load returns the persisted token.
func (f *TokenFile) Load(_ context.Context) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading session: %w", err)
	}

	var session sessionData
	if err := json.Unmarshal(data, &session); err != nil {
		return "", false, fmt.Errorf("parsing %s: %w", f.filePath, err)
	}
	if session.Token == "" {
		return "", false, nil
	}
	return session.Token, true, nil
}

// Save writes the token. The file is replaced atomically so a concurrent
// reader never sees a partial write.
func (f *TokenFile) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(sessionData{Token: token})
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.filePath), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("creating session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // already renamed on success

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting session permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	if err := os.Rename(tmpName, f.filePath); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}

// Clear removes the session file.
func (f *TokenFile) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// Watch calls onChange whenever the session file is created, written,
// renamed or removed, until ctx is done. The directory is watched rather
// than the file so that atomic replacement and first login are seen.
func (f *TokenFile) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(f.filePath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(f.filePath), err)
	}

	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != SessionFile || !event.Op.Has(relevant) {
				continue
			}
			f.logger.Debug("session file changed", slog.String("op", event.Op.String()))
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			f.logger.Warn("session watcher error", slog.String("error", err.Error()))
		}
	}
}
