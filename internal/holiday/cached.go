package holiday

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store is an explicit key-value store for holiday lists
type Store interface {
	// Get returns the records under key; ok is false on a miss or expired entry
	Get(ctx context.Context, key string) (records []Record, ok bool, err error)
	// Put replaces the records under key and persists them
	Put(ctx context.Context, key string, records []Record) error
}

// CachedSource serves holidays from a store, falling through to the wrapped
// source on a miss and writing the result back. It wraps the primary source
// only; placed inside a CompositeSource, fallback answers are never stored.
type CachedSource struct {
	source Source
	store  Store
	logger *zap.Logger
}

// NewCachedSource creates a new CachedSource
func NewCachedSource(source Source, store Store, logger *zap.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		store:  store,
		logger: logger,
	}
}

// Holidays returns the cached holidays, fetching and storing them on a miss
func (cs *CachedSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	key := CacheKey(country, year)

	records, ok, err := cs.store.Get(ctx, key)
	if err != nil {
		cs.logger.Warn("Failed to read holiday cache, fetching from source",
			zap.String("key", key),
			zap.Error(err))
	} else if ok {
		holidays, err := FromRecords(records)
		if err == nil {
			cs.logger.Debug("Using cached holidays", zap.String("key", key))
			return holidays, nil
		}
		cs.logger.Warn("Corrupt cache entry, fetching from source",
			zap.String("key", key),
			zap.Error(err))
	}

	return cs.Refresh(ctx, country, year)
}

// Refresh fetches holidays from the wrapped source and stores them, bypassing the cache
func (cs *CachedSource) Refresh(ctx context.Context, country string, year int) ([]Holiday, error) {
	key := CacheKey(country, year)

	holidays, err := cs.source.Holidays(ctx, country, year)
	if err != nil {
		return nil, err
	}

	// Empty answers are not stored; the country is asked again next time
	if len(holidays) == 0 {
		return holidays, nil
	}

	if err := cs.store.Put(ctx, key, ToRecords(holidays)); err != nil {
		cs.logger.Warn("Failed to cache holidays",
			zap.String("key", key),
			zap.Error(err))
		return holidays, nil
	}

	cs.logger.Info("Holidays cached",
		zap.String("key", key),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// Countries delegates to the wrapped source when it can list countries
func (cs *CachedSource) Countries(ctx context.Context) ([]Country, error) {
	if lister, ok := cs.source.(CountryLister); ok {
		return lister.Countries(ctx)
	}
	return nil, fmt.Errorf("source cannot list countries")
}
