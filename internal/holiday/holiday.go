package holiday

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/long-weekend-finder/pkg/dateutil"
)

var (
	// ErrInvalidCountry is returned for country codes that are not two ASCII letters
	ErrInvalidCountry = errors.New("invalid country code")
	// ErrInvalidYear is returned for years outside the supported range
	ErrInvalidYear = errors.New("invalid year")
)

const (
	minYear = 1900
	maxYear = 2199
)

// Holiday is a named calendar date treated as a non-working day
type Holiday struct {
	Date      time.Time // midnight UTC
	Name      string
	LocalName string
}

// Record is the wire/cache representation of a holiday
type Record struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	LocalName string `json:"local_name,omitempty"`
	Day       string `json:"day,omitempty"` // English weekday name, informational
}

// Country is an entry of the list of supported countries
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Source provides the public holidays of a country for a year
type Source interface {
	// Holidays returns holidays in source order. An empty list is a valid answer.
	Holidays(ctx context.Context, country string, year int) ([]Holiday, error)
}

// CountryLister is implemented by sources that can enumerate their countries
type CountryLister interface {
	Countries(ctx context.Context) ([]Country, error)
}

// NormalizeCountry upper-cases and validates an ISO 3166-1 alpha-2 code
func NormalizeCountry(country string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(country))
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountry, country)
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCountry, country)
		}
	}
	return code, nil
}

// ValidateYear checks the year is in the supported range
func ValidateYear(year int) error {
	if year < minYear || year > maxYear {
		return fmt.Errorf("%w: %d (supported %d..%d)", ErrInvalidYear, year, minYear, maxYear)
	}
	return nil
}

// CacheKey builds the cache key for a country and year, e.g. "IN_2025"
func CacheKey(country string, year int) string {
	return fmt.Sprintf("%s_%d", country, year)
}

// ToRecord converts a holiday into its wire form
func (h Holiday) ToRecord() Record {
	return Record{
		Date:      dateutil.FormatDate(h.Date),
		Name:      h.Name,
		LocalName: h.LocalName,
		Day:       h.Date.Weekday().String(),
	}
}

// ToHoliday parses a record. Malformed dates are rejected.
func (r Record) ToHoliday() (Holiday, error) {
	date, err := dateutil.ParseDate(r.Date)
	if err != nil {
		return Holiday{}, fmt.Errorf("holiday %q: %w", r.Name, err)
	}
	return Holiday{Date: date, Name: r.Name, LocalName: r.LocalName}, nil
}

// ToRecords converts holidays into their wire form
func ToRecords(holidays []Holiday) []Record {
	records := make([]Record, len(holidays))
	for i, h := range holidays {
		records[i] = h.ToRecord()
	}
	return records
}

// FromRecords parses records, failing on the first malformed date
func FromRecords(records []Record) ([]Holiday, error) {
	holidays := make([]Holiday, 0, len(records))
	for _, r := range records {
		h, err := r.ToHoliday()
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	return holidays, nil
}
