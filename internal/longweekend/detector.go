package longweekend

import (
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/pkg/dateutil"
)

// MaxLeaveDays is the largest number of leave days an opportunity may require
const MaxLeaveDays = 2

// candidateOffsets are checked in this order; the first weekend hit anchors the span
var candidateOffsets = [...]int{-1, +1, -2, +2}

// Opportunity is a long weekend anchored on one holiday and one adjacent weekend day
type Opportunity struct {
	HolidayName string
	HolidayDate time.Time
	StartDate   time.Time
	EndDate     time.Time
	LeaveDates  []time.Time

	// SpanDays is the inclusive day count of StartDate..EndDate plus one.
	// The extra day is the long-standing counting convention of the finder
	// (holiday counted once up front, then every day of the walk).
	SpanDays int
}

// CalendarDays returns the literal inclusive number of days from StartDate to EndDate
func (o Opportunity) CalendarDays() int {
	return dateutil.DaysBetween(o.StartDate, o.EndDate) + 1
}

// FindOpportunities returns at most one opportunity per holiday, in holiday order
func FindOpportunities(holidays []holiday.Holiday) []Opportunity {
	opportunities := make([]Opportunity, 0, len(holidays))

	for _, h := range holidays {
		if opp, ok := detect(h); ok {
			opportunities = append(opportunities, opp)
		}
	}

	return opportunities
}

// detect evaluates the candidates of a single holiday. Only the first
// weekend-hitting candidate is considered: if it needs too many leave
// days, the holiday yields nothing.
func detect(h holiday.Holiday) (Opportunity, bool) {
	date := dateutil.CalendarDay(h.Date)

	for _, offset := range candidateOffsets {
		candidate := dateutil.AddDays(date, offset)
		if !dateutil.IsWeekend(candidate) {
			continue
		}

		start := dateutil.MinDate(date, candidate)
		end := dateutil.MaxDate(date, candidate)

		var leave []time.Time
		span := 1
		for day := start; !day.After(end); day = dateutil.AddDays(day, 1) {
			if !dateutil.IsWeekend(day) && !day.Equal(date) {
				leave = append(leave, day)
			}
			span++
		}

		if len(leave) > MaxLeaveDays {
			return Opportunity{}, false
		}

		if leave == nil {
			leave = []time.Time{}
		}

		return Opportunity{
			HolidayName: h.Name,
			HolidayDate: date,
			StartDate:   start,
			EndDate:     end,
			LeaveDates:  leave,
			SpanDays:    span,
		}, true
	}

	return Opportunity{}, false
}
