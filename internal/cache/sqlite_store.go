package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the holiday cache in a SQLite table
type SQLiteStore struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// OpenSQLiteStore opens (and migrates) the cache database. Use ":memory:" for an in-memory cache.
// ttl <= 0 disables expiry.
func OpenSQLiteStore(dsn string, ttl time.Duration, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	logger.Info("Holiday cache database opened", zap.String("dsn", dsn))

	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS holiday_cache (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	);`

	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached holidays for key
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]holiday.Record, bool, error) {
	var payload, fetchedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM holiday_cache WHERE key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	if s.ttl > 0 {
		fetched, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			s.logger.Warn("Invalid cache timestamp, treating entry as expired",
				zap.String("key", key),
				zap.String("fetched_at", fetchedAt))
			return nil, false, nil
		}
		if s.now().Sub(fetched) > s.ttl {
			s.logger.Debug("Cache entry expired", zap.String("key", key))
			return nil, false, nil
		}
	}

	var records []holiday.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}

	return records, true, nil
}

// Put stores holidays under key, replacing any previous entry
func (s *SQLiteStore) Put(ctx context.Context, key string, records []holiday.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry %s: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO holiday_cache (key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, string(payload), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
