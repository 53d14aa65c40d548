package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used on every wire and cache format
const DateLayout = "2006-01-02"

// Date returns midnight UTC for the given calendar day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// CalendarDay strips time and location, keeping only the calendar day (midnight UTC)
func CalendarDay(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), date.Day())
}

// AddDays moves the date by n calendar days
func AddDays(date time.Time, n int) time.Time {
	return date.AddDate(0, 0, n)
}

// WeekdayIndex returns the Monday-first weekday index (Monday=0 .. Sunday=6)
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	return WeekdayIndex(date) >= 5
}

// DaysBetween returns the number of calendar days from start to end (negative if end is earlier)
func DaysBetween(start, end time.Time) int {
	s := CalendarDay(start)
	e := CalendarDay(end)
	return int(e.Sub(s).Hours() / 24)
}

// MinDate returns the earlier of two dates
func MinDate(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// MaxDate returns the later of two dates
func MaxDate(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

// FormatDate formats date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// FormatDates formats every date as YYYY-MM-DD
func FormatDates(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = FormatDate(d)
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date into midnight UTC.
// Impossible dates such as 2025-02-30 are rejected.
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return t, nil
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
