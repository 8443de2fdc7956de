package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// ClientCacheTTL is how long a device-resolved location stays valid
const ClientCacheTTL = 30 * time.Minute

// LocationCacheKey 클라이언트 캐시 키
const LocationCacheKey = "dukaaon_user_location"

// CachedLocation is a resolved location plus the epoch-ms it was stored at
type CachedLocation struct {
	Location  Location `json:"coordinates"`
	Timestamp int64    `json:"timestamp"`
}

// NewCachedLocation stamps loc with now
func NewCachedLocation(loc Location, now time.Time) CachedLocation {
	return CachedLocation{Location: loc, Timestamp: now.UnixMilli()}
}

// Fresh reports whether the entry is younger than ttl at now
func (c CachedLocation) Fresh(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-c.Timestamp < ttl.Milliseconds()
}

// CacheStore is a key/value capability for cached locations. Get returns
// (nil, nil) for a missing key; TTL checks belong to the caller.
type CacheStore interface {
	Get(ctx context.Context, key string) (*CachedLocation, error)
	Set(ctx context.Context, key string, entry CachedLocation) error
	Clear(ctx context.Context, key string) error
}

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]CachedLocation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]CachedLocation)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*CachedLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, entry CachedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// FileStore persists one JSON file per key under dir
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// NewFileStore creates dir if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// DefaultFileStoreDir returns <user cache dir>/dukaaon
func DefaultFileStoreDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "dukaaon"), nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Get returns (nil, nil) for a missing or unreadable entry
func (f *FileStore) Get(_ context.Context, key string) (*CachedLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached location: %w", err)
	}

	var entry CachedLocation
	if err := json.Unmarshal(raw, &entry); err != nil {
		// corrupt entry is treated as absent
		return nil, nil
	}
	return &entry, nil
}

func (f *FileStore) Set(_ context.Context, key string, entry CachedLocation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	tmp := f.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write cached location: %w", err)
	}
	return os.Rename(tmp, f.path(key))
}

func (f *FileStore) Clear(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear cached location: %w", err)
	}
	return nil
}
