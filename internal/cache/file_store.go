package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"go.uber.org/zap"
)

const tmpSuffix = ".tmp"

// fileEntry is a single cached holiday list
type fileEntry struct {
	Holidays  []holiday.Record `json:"holidays"`
	FetchedAt time.Time        `json:"fetched_at"`
}

// FileStore keeps the holiday cache in a JSON file.
// The whole file is loaded on Open and rewritten on every Put.
type FileStore struct {
	path    string
	ttl     time.Duration
	logger  *zap.Logger
	mu      sync.RWMutex
	entries map[string]fileEntry
	now     func() time.Time
}

// OpenFileStore loads the cache file. A missing or corrupt file yields an empty cache.
// ttl <= 0 disables expiry.
func OpenFileStore(path string, ttl time.Duration, logger *zap.Logger) (*FileStore, error) {
	fs := &FileStore{
		path:    path,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]fileEntry),
		now:     time.Now,
	}

	if err := fs.load(); err != nil {
		return nil, err
	}

	return fs, nil
}

func (fs *FileStore) load() error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first Put
			return nil
		}
		return fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]fileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Older cache files map keys straight to holiday lists
		var legacy map[string][]holiday.Record
		if legacyErr := json.Unmarshal(data, &legacy); legacyErr != nil {
			// A corrupt cache is dropped and rewritten on the next Put
			fs.logger.Warn("Failed to parse cache file, starting empty",
				zap.String("file", fs.path),
				zap.Error(err))
			return nil
		}
		entries = make(map[string]fileEntry, len(legacy))
		for key, records := range legacy {
			entries[key] = fileEntry{Holidays: records}
		}
	}

	fs.entries = entries
	fs.logger.Info("Holiday cache loaded",
		zap.String("file", fs.path),
		zap.Int("entries", len(entries)))

	return nil
}

// Get returns the cached holidays for key
func (fs *FileStore) Get(ctx context.Context, key string) ([]holiday.Record, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entry, ok := fs.entries[key]
	if !ok {
		return nil, false, nil
	}

	// Legacy entries have no fetch time and never expire
	if fs.ttl > 0 && !entry.FetchedAt.IsZero() && fs.now().Sub(entry.FetchedAt) > fs.ttl {
		fs.logger.Debug("Cache entry expired", zap.String("key", key))
		return nil, false, nil
	}

	return entry.Holidays, true, nil
}

// Put stores holidays under key and writes the file
func (fs *FileStore) Put(ctx context.Context, key string, records []holiday.Record) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.entries[key] = fileEntry{
		Holidays:  records,
		FetchedAt: fs.now().UTC(),
	}

	return fs.saveLocked()
}

// saveLocked writes the cache via temp file + rename (caller must hold lock)
func (fs *FileStore) saveLocked() error {
	data, err := json.MarshalIndent(fs.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache dir: %w", err)
		}
	}

	tmpFile := fs.path + tmpSuffix
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	if err := os.Rename(tmpFile, fs.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	fs.logger.Debug("Holiday cache saved",
		zap.String("file", fs.path),
		zap.Int("entries", len(fs.entries)))

	return nil
}

// Close is a no-op; every Put is already persisted
func (fs *FileStore) Close() error {
	return nil
}
