package holiday

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// NamedSource labels a source for logging
type NamedSource struct {
	Name   string
	Source Source
}

// CompositeSource implements Source with a fallback chain.
// Primary: remote API; fallbacks: local file, built-in rules.
type CompositeSource struct {
	sources []NamedSource
	logger  *zap.Logger
}

// NewCompositeSource creates a new CompositeSource; sources are tried in order
func NewCompositeSource(logger *zap.Logger, sources ...NamedSource) *CompositeSource {
	return &CompositeSource{
		sources: sources,
		logger:  logger,
	}
}

// Holidays returns the answer of the first source that does not fail.
// A fallback source that answers with an empty list passes to the next one.
func (cs *CompositeSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	var errs []error
	answered := false

	for i, ns := range cs.sources {
		holidays, err := ns.Source.Holidays(ctx, country, year)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			cs.logger.Warn("Holiday source failed, falling back",
				zap.String("source", ns.Name),
				zap.String("country", country),
				zap.Int("year", year),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ns.Name, err))
			continue
		}

		if i > 0 && len(holidays) == 0 && i < len(cs.sources)-1 {
			answered = true
			cs.logger.Debug("Fallback source has no holidays, trying next",
				zap.String("source", ns.Name))
			continue
		}

		if i > 0 {
			cs.logger.Info("Using fallback holidays",
				zap.String("source", ns.Name),
				zap.String("country", country),
				zap.Int("year", year),
				zap.Int("count", len(holidays)))
		}

		return holidays, nil
	}

	if answered || len(errs) == 0 {
		return []Holiday{}, nil
	}

	return nil, fmt.Errorf("all holiday sources failed: %w", errors.Join(errs...))
}

// Countries merges the country lists of every source that can list them
func (cs *CompositeSource) Countries(ctx context.Context) ([]Country, error) {
	seen := make(map[string]bool)
	var countries []Country
	var errs []error

	for _, ns := range cs.sources {
		lister, ok := ns.Source.(CountryLister)
		if !ok {
			continue
		}

		list, err := lister.Countries(ctx)
		if err != nil {
			cs.logger.Warn("Failed to list countries",
				zap.String("source", ns.Name),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", ns.Name, err))
			continue
		}

		for _, c := range list {
			if !seen[c.Code] {
				seen[c.Code] = true
				countries = append(countries, c)
			}
		}
	}

	if len(countries) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("no source could list countries: %w", errors.Join(errs...))
	}

	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Code < countries[j].Code
	})

	return countries, nil
}
