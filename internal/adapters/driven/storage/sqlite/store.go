package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/octoscope/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "cache.db"

// Store is a SQLite-based storage that provides access to the HTTP cache
// store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.octoscope/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".octoscope", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ETagStore returns an ETagStore interface backed by this store.
func (s *Store) ETagStore() driven.ETagStore {
	return &etagStore{db: s.db}
}

// ResponseStore returns a ResponseStore interface backed by this store.
func (s *Store) ResponseStore() driven.ResponseStore {
	return &responseStore{db: s.db}
}

// Purge removes every cached ETag and response.
func (s *Store) Purge(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM etags"); err != nil {
		return fmt.Errorf("purging etags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM responses"); err != nil {
		return fmt.Errorf("purging responses: %w", err)
	}
	return tx.Commit()
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_http_cache.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== ETag Store ====================

// etagStore implements driven.ETagStore.
type etagStore struct {
	db *sql.DB
}

// Get returns the ETag stored for key.
func (s *etagStore) Get(ctx context.Context, key string) (string, bool, error) {
	var etag string
	err := s.db.QueryRowContext(ctx, "SELECT etag FROM etags WHERE cache_key = ?", key).Scan(&etag)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying etag: %w", err)
	}
	return etag, true, nil
}

// Put stores or replaces the ETag for key.
func (s *etagStore) Put(ctx context.Context, key, etag string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO etags (cache_key, etag, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			etag = excluded.etag,
			updated_at = excluded.updated_at
	`, key, etag, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving etag: %w", err)
	}
	return nil
}

// ==================== Response Store ====================

// responseStore implements driven.ResponseStore.
type responseStore struct {
	db *sql.DB
}

// Get returns the response stored for key.
func (s *responseStore) Get(ctx context.Context, key string) (*driven.StoredResponse, bool, error) {
	var (
		resp       = driven.StoredResponse{Key: key}
		headerJSON string
		storedAt   int64
		maxAge     int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT status_code, header, body, stored_at, max_age
		FROM responses WHERE cache_key = ?
	`, key).Scan(&resp.StatusCode, &headerJSON, &resp.Body, &storedAt, &maxAge)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying response: %w", err)
	}

	resp.Header = http.Header{}
	if err := json.Unmarshal([]byte(headerJSON), &resp.Header); err != nil {
		return nil, false, fmt.Errorf("decoding response header: %w", err)
	}
	resp.StoredAt = time.Unix(0, storedAt)
	resp.MaxAge = time.Duration(maxAge)
	return &resp, true, nil
}

// Put stores or replaces a response.
func (s *responseStore) Put(ctx context.Context, resp *driven.StoredResponse) error {
	header := resp.Header
	if header == nil {
		header = http.Header{}
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("encoding response header: %w", err)
	}
	body := resp.Body
	if body == nil {
		body = []byte{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO responses (cache_key, status_code, header, body, stored_at, max_age)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			status_code = excluded.status_code,
			header = excluded.header,
			body = excluded.body,
			stored_at = excluded.stored_at,
			max_age = excluded.max_age
	`, resp.Key, resp.StatusCode, string(headerJSON), body, resp.StoredAt.UnixNano(), int64(resp.MaxAge))
	if err != nil {
		return fmt.Errorf("saving response: %w", err)
	}
	return nil
}

// Touch moves the stored time of key forward after a revalidation.
func (s *responseStore) Touch(ctx context.Context, key string, storedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, "UPDATE responses SET stored_at = ? WHERE cache_key = ?", storedAt.UnixNano(), key)
	if err != nil {
		return fmt.Errorf("touching response: %w", err)
	}
	return nil
}
