package longweekend

import (
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
)

// Statistics summarizes the opportunities of a country/year (or month)
type Statistics struct {
	TotalHolidays    int `json:"total_holidays"`
	LongWeekendCount int `json:"long_weekend_count"`
	TotalLeaveDays   int `json:"total_leave_days"`
	MaxSpanDays      int `json:"max_span_days"`
}

// ComputeStatistics aggregates detector output. MaxSpanDays is 0 when there are no opportunities.
func ComputeStatistics(holidays []holiday.Holiday, opportunities []Opportunity) Statistics {
	stats := Statistics{
		TotalHolidays:    len(holidays),
		LongWeekendCount: len(opportunities),
	}

	for _, opp := range opportunities {
		stats.TotalLeaveDays += len(opp.LeaveDates)
		if opp.SpanDays > stats.MaxSpanDays {
			stats.MaxSpanDays = opp.SpanDays
		}
	}

	return stats
}

// FilterMonth keeps the holidays falling in the given month
func FilterMonth(holidays []holiday.Holiday, month time.Month) []holiday.Holiday {
	filtered := make([]holiday.Holiday, 0, len(holidays))
	for _, h := range holidays {
		if h.Date.Month() == month {
			filtered = append(filtered, h)
		}
	}
	return filtered
}

// FilterOpportunitiesMonth keeps the opportunities whose holiday falls in the given month
func FilterOpportunitiesMonth(opportunities []Opportunity, month time.Month) []Opportunity {
	filtered := make([]Opportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		if opp.HolidayDate.Month() == month {
			filtered = append(filtered, opp)
		}
	}
	return filtered
}
