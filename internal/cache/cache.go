// Package cache provides the key-value stores behind the cached holiday source.
package cache

import (
	"fmt"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"go.uber.org/zap"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Store is a holiday.Store that must be closed after use
type Store interface {
	holiday.Store
	Close() error
}

// Open opens the store for the given backend ("file" or "sqlite")
func Open(backend, path string, ttl time.Duration, logger *zap.Logger) (Store, error) {
	switch backend {
	case "", BackendFile:
		fs, err := OpenFileStore(path, ttl, logger)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case BackendSQLite:
		s, err := OpenSQLiteStore(path, ttl, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backend)
	}
}
