package sqlite

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/octoscope/internal/core/ports/driven"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_Migrations(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"etags", "responses"} {
		var name string
		err := store.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, table)
	}
	require.NoError(t, store.Close())

	// Reopening does not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestStore_InterfaceGetters(t *testing.T) {
	store := setupTestStore(t)

	var _ driven.ETagStore = store.ETagStore()
	var _ driven.ResponseStore = store.ResponseStore()
}

// ==================== ETag Store Tests ====================

func TestETagStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t).ETagStore()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := store.Get(ctx, "https://api.github.com/search/repositories?q=none")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("stores and overwrites", func(t *testing.T) {
		key := "https://api.github.com/search/repositories?q=android"
		require.NoError(t, store.Put(ctx, key, `"v1"`))

		etag, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `"v1"`, etag)

		require.NoError(t, store.Put(ctx, key, `W/"v2"`))
		etag, _, err = store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `W/"v2"`, etag)
	})
}

func TestETagStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ETagStore().Put(ctx, "k", `"v1"`))
	require.NoError(t, store.Close())

	store, err = NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	etag, ok, err := store.ETagStore().Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"v1"`, etag)
}

// ==================== Response Store Tests ====================

func TestResponseStore_PutAndGet(t *testing.T) {
	store := setupTestStore(t).ResponseStore()
	ctx := context.Background()
	storedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("ETag", `"v1"`)

	require.NoError(t, store.Put(ctx, &driven.StoredResponse{
		Key:        "k",
		StatusCode: http.StatusOK,
		Header:     header,
		Body:       []byte(`{"items":[]}`),
		StoredAt:   storedAt,
		MaxAge:     60 * time.Second,
	}))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "k", got.Key)
	assert.Equal(t, http.StatusOK, got.StatusCode)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, `"v1"`, got.Header.Get("ETag"))
	assert.Equal(t, []byte(`{"items":[]}`), got.Body)
	assert.True(t, storedAt.Equal(got.StoredAt))
	assert.Equal(t, 60*time.Second, got.MaxAge)
	assert.True(t, got.Fresh(storedAt.Add(30*time.Second)))
	assert.False(t, got.Fresh(storedAt.Add(61*time.Second)))
}

func TestResponseStore_Missing(t *testing.T) {
	store := setupTestStore(t).ResponseStore()

	got, ok, err := store.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestResponseStore_EmptyBodyAndHeader(t *testing.T) {
	store := setupTestStore(t).ResponseStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &driven.StoredResponse{Key: "k", StatusCode: http.StatusOK, StoredAt: time.Now()}))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, got.Body)
	assert.NotNil(t, got.Header)
}

func TestResponseStore_Touch(t *testing.T) {
	store := setupTestStore(t).ResponseStore()
	ctx := context.Background()
	storedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Put(ctx, &driven.StoredResponse{
		Key:        "k",
		StatusCode: http.StatusOK,
		Body:       []byte("body"),
		StoredAt:   storedAt,
		MaxAge:     time.Minute,
	}))

	later := storedAt.Add(time.Hour)
	require.NoError(t, store.Touch(ctx, "k", later))

	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, later.Equal(got.StoredAt))
	assert.Equal(t, []byte("body"), got.Body)

	// Touching a missing key is a no-op.
	assert.NoError(t, store.Touch(ctx, "missing", later))
}

func TestStore_Purge(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ETagStore().Put(ctx, "k", `"v1"`))
	require.NoError(t, s.ResponseStore().Put(ctx, &driven.StoredResponse{Key: "k", StatusCode: 200, StoredAt: time.Now()}))

	require.NoError(t, s.Purge(ctx))

	_, ok, err := s.ETagStore().Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = s.ResponseStore().Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
