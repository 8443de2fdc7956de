package geolocation

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedLocation_Fresh(t *testing.T) {
	stored := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	entry := NewCachedLocation(*bengaluru, stored)

	assert.True(t, entry.Fresh(stored.Add(29*time.Minute), ClientCacheTTL))
	assert.False(t, entry.Fresh(stored.Add(30*time.Minute), ClientCacheTTL))
	assert.False(t, entry.Fresh(stored.Add(31*time.Minute), ClientCacheTTL))
}

func testStore(t *testing.T, store CacheStore) {
	ctx := context.Background()

	got, err := store.Get(ctx, LocationCacheKey)
	require.NoError(t, err)
	assert.Nil(t, got)

	entry := NewCachedLocation(*bengaluru, time.UnixMilli(1700000000000))
	require.NoError(t, store.Set(ctx, LocationCacheKey, entry))

	got, err = store.Get(ctx, LocationCacheKey)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry, *got)

	require.NoError(t, store.Clear(ctx, LocationCacheKey))
	got, err = store.Get(ctx, LocationCacheKey)
	require.NoError(t, err)
	assert.Nil(t, got)

	// clearing twice is fine
	assert.NoError(t, store.Clear(ctx, LocationCacheKey))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, store)
}

func TestFileStore_CorruptEntryIsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, LocationCacheKey+".json"), []byte("{not json"), 0o600))

	got, err := store.Get(context.Background(), LocationCacheKey)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStore_SanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "../escape", NewCachedLocation(*bengaluru, time.Now())))

	_, err = os.Stat(filepath.Join(dir, ".._escape.json"))
	assert.NoError(t, err)
}
