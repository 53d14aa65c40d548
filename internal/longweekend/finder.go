package longweekend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"go.uber.org/zap"
)

// ErrInvalidMonth is returned for months outside 0..12
var ErrInvalidMonth = errors.New("invalid month")

// Report is the result of a single country/year (or month) query
type Report struct {
	Country       string
	Year          int
	Month         time.Month // 0 for the whole year
	Holidays      []holiday.Holiday
	Opportunities []Opportunity
	Statistics    Statistics
}

// Finder runs the detector over holidays supplied by a source
type Finder struct {
	source holiday.Source
	logger *zap.Logger
}

// NewFinder creates a new Finder
func NewFinder(source holiday.Source, logger *zap.Logger) *Finder {
	return &Finder{
		source: source,
		logger: logger,
	}
}

// Find returns the opportunities of a whole year
func (f *Finder) Find(ctx context.Context, country string, year int) (*Report, error) {
	return f.FindMonth(ctx, country, year, 0)
}

// FindMonth returns the opportunities of a single month; month 0 means the whole year
func (f *Finder) FindMonth(ctx context.Context, country string, year int, month time.Month) (*Report, error) {
	code, err := holiday.NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	if err := holiday.ValidateYear(year); err != nil {
		return nil, err
	}
	if month < 0 || month > time.December {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	holidays, err := f.fetch(ctx, code, year)
	if err != nil {
		return nil, err
	}

	opportunities := FindOpportunities(holidays)
	if month != 0 {
		holidays = FilterMonth(holidays, month)
		opportunities = FilterOpportunitiesMonth(opportunities, month)
	}

	report := &Report{
		Country:       code,
		Year:          year,
		Month:         month,
		Holidays:      holidays,
		Opportunities: opportunities,
		Statistics:    ComputeStatistics(holidays, opportunities),
	}

	f.logger.Info("Long weekends computed",
		zap.String("country", code),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int("holidays", report.Statistics.TotalHolidays),
		zap.Int("opportunities", report.Statistics.LongWeekendCount),
		zap.Int("leave_days", report.Statistics.TotalLeaveDays))

	return report, nil
}

// Holidays returns the validated country's holidays without running the detector
func (f *Finder) Holidays(ctx context.Context, country string, year int) ([]holiday.Holiday, error) {
	code, err := holiday.NormalizeCountry(country)
	if err != nil {
		return nil, err
	}
	if err := holiday.ValidateYear(year); err != nil {
		return nil, err
	}
	return f.fetch(ctx, code, year)
}

func (f *Finder) fetch(ctx context.Context, code string, year int) ([]holiday.Holiday, error) {
	holidays, err := f.source.Holidays(ctx, code, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays for %s/%d: %w", code, year, err)
	}
	if holidays == nil {
		holidays = []holiday.Holiday{}
	}
	return holidays, nil
}
