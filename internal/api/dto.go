package api

import (
	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/internal/longweekend"
	"github.com/username/long-weekend-finder/pkg/dateutil"
)

// HolidayDTO is a holiday with its date as YYYY-MM-DD
type HolidayDTO struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	LocalName string `json:"local_name,omitempty"`
	Day       string `json:"day"`
}

// OpportunityDTO is a long-weekend opportunity with dates as YYYY-MM-DD
type OpportunityDTO struct {
	HolidayName string   `json:"holiday_name"`
	HolidayDate string   `json:"holiday_date"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	LeaveDates  []string `json:"leave_dates"`
	SpanDays    int      `json:"span_days"`
}

// HolidaysResponse is the body of GET /api/holidays/{country}/{year}
type HolidaysResponse struct {
	Country  string       `json:"country"`
	Year     int          `json:"year"`
	Holidays []HolidayDTO `json:"holidays"`
}

// OpportunitiesResponse is the body of GET /api/opportunities/{country}/{year}
type OpportunitiesResponse struct {
	Country       string                 `json:"country"`
	Year          int                    `json:"year"`
	Month         int                    `json:"month,omitempty"`
	Opportunities []OpportunityDTO       `json:"opportunities"`
	Statistics    longweekend.Statistics `json:"statistics"`
}

// StatisticsResponse is the body of GET /api/statistics/{country}/{year}
type StatisticsResponse struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Month   int    `json:"month,omitempty"`
	longweekend.Statistics
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toHolidayDTOs(holidays []holiday.Holiday) []HolidayDTO {
	dtos := make([]HolidayDTO, len(holidays))
	for i, h := range holidays {
		dtos[i] = HolidayDTO{
			Date:      dateutil.FormatDate(h.Date),
			Name:      h.Name,
			LocalName: h.LocalName,
			Day:       h.Date.Weekday().String(),
		}
	}
	return dtos
}

func toOpportunityDTOs(opportunities []longweekend.Opportunity) []OpportunityDTO {
	dtos := make([]OpportunityDTO, len(opportunities))
	for i, opp := range opportunities {
		dtos[i] = OpportunityDTO{
			HolidayName: opp.HolidayName,
			HolidayDate: dateutil.FormatDate(opp.HolidayDate),
			StartDate:   dateutil.FormatDate(opp.StartDate),
			EndDate:     dateutil.FormatDate(opp.EndDate),
			LeaveDates:  dateutil.FormatDates(opp.LeaveDates),
			SpanDays:    opp.SpanDays,
		}
	}
	return dtos
}
