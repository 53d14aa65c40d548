package longweekend

import (
	"reflect"
	"testing"
	"time"

	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/pkg/dateutil"
)

func day(year int, month time.Month, d int) time.Time {
	return dateutil.Date(year, month, d)
}

func TestFindOpportunities(t *testing.T) {
	tests := []struct {
		name      string
		holiday   holiday.Holiday
		wantFound bool
		wantStart time.Time
		wantEnd   time.Time
		wantLeave []string
		wantSpan  int
	}{
		{
			name:      "Thursday bridges to Saturday via +2",
			holiday:   holiday.Holiday{Date: day(2025, 1, 2), Name: "Day after New Year"},
			wantFound: true,
			wantStart: day(2025, 1, 2),
			wantEnd:   day(2025, 1, 4),
			wantLeave: []string{"2025-01-03"},
			wantSpan:  4,
		},
		{
			name:      "Monday joins Sunday via -1",
			holiday:   holiday.Holiday{Date: day(2025, 1, 6), Name: "Epiphany"},
			wantFound: true,
			wantStart: day(2025, 1, 5),
			wantEnd:   day(2025, 1, 6),
			wantLeave: []string{},
			wantSpan:  3,
		},
		{
			name:      "Friday joins Saturday via +1",
			holiday:   holiday.Holiday{Date: day(2025, 1, 3), Name: "Friday holiday"},
			wantFound: true,
			wantStart: day(2025, 1, 3),
			wantEnd:   day(2025, 1, 4),
			wantLeave: []string{},
			wantSpan:  3,
		},
		{
			name:      "Tuesday bridges to Sunday via -2",
			holiday:   holiday.Holiday{Date: day(2025, 1, 7), Name: "Tuesday holiday"},
			wantFound: true,
			wantStart: day(2025, 1, 5),
			wantEnd:   day(2025, 1, 7),
			wantLeave: []string{"2025-01-06"},
			wantSpan:  4,
		},
		{
			name:      "Saturday holiday anchors on Sunday via +1",
			holiday:   holiday.Holiday{Date: day(2025, 1, 4), Name: "Saturday holiday"},
			wantFound: true,
			wantStart: day(2025, 1, 4),
			wantEnd:   day(2025, 1, 5),
			wantLeave: []string{},
			wantSpan:  3,
		},
		{
			name:      "Wednesday has no weekend within two days",
			holiday:   holiday.Holiday{Date: day(2025, 1, 1), Name: "New Year"},
			wantFound: false,
		},
		{
			name:      "Across year boundary",
			holiday:   holiday.Holiday{Date: day(2024, 12, 31), Name: "New Year's Eve"},
			wantFound: true,
			wantStart: day(2024, 12, 29),
			wantEnd:   day(2024, 12, 31),
			wantLeave: []string{"2024-12-30"},
			wantSpan:  4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindOpportunities([]holiday.Holiday{tt.holiday})

			if !tt.wantFound {
				if len(result) != 0 {
					t.Fatalf("FindOpportunities() = %+v, want none", result)
				}
				return
			}

			if len(result) != 1 {
				t.Fatalf("FindOpportunities() returned %d opportunities, want 1", len(result))
			}

			opp := result[0]
			if !opp.StartDate.Equal(tt.wantStart) {
				t.Errorf("StartDate = %s, want %s", dateutil.FormatDate(opp.StartDate), dateutil.FormatDate(tt.wantStart))
			}
			if !opp.EndDate.Equal(tt.wantEnd) {
				t.Errorf("EndDate = %s, want %s", dateutil.FormatDate(opp.EndDate), dateutil.FormatDate(tt.wantEnd))
			}
			if got := dateutil.FormatDates(opp.LeaveDates); !reflect.DeepEqual(got, tt.wantLeave) {
				t.Errorf("LeaveDates = %v, want %v", got, tt.wantLeave)
			}
			if opp.SpanDays != tt.wantSpan {
				t.Errorf("SpanDays = %d, want %d", opp.SpanDays, tt.wantSpan)
			}
			if opp.HolidayName != tt.holiday.Name {
				t.Errorf("HolidayName = %q, want %q", opp.HolidayName, tt.holiday.Name)
			}
		})
	}
}

func TestFindOpportunities_CandidatePriority(t *testing.T) {
	// Sunday 2025-01-05: both -1 (Saturday) and +1 (Monday, not weekend) are
	// evaluated; -1 comes first and anchors the span on Saturday.
	result := FindOpportunities([]holiday.Holiday{{Date: day(2025, 1, 5), Name: "Sunday holiday"}})
	if len(result) != 1 {
		t.Fatalf("FindOpportunities() returned %d opportunities, want 1", len(result))
	}
	if !result[0].StartDate.Equal(day(2025, 1, 4)) || !result[0].EndDate.Equal(day(2025, 1, 5)) {
		t.Errorf("span = %s..%s, want 2025-01-04..2025-01-05",
			dateutil.FormatDate(result[0].StartDate), dateutil.FormatDate(result[0].EndDate))
	}

	// Thursday 2025-01-02: -1, +1 and -2 miss; only +2 (Saturday) hits. The
	// span never combines several candidates.
	result = FindOpportunities([]holiday.Holiday{{Date: day(2025, 1, 2), Name: "Thursday holiday"}})
	if len(result) != 1 || result[0].CalendarDays() != 3 {
		t.Fatalf("FindOpportunities() = %+v, want one 3-day span", result)
	}
}

func TestFindOpportunities_LeaveDatesInvariant(t *testing.T) {
	var holidays []holiday.Holiday
	for d := day(2025, 1, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		holidays = append(holidays, holiday.Holiday{Date: d, Name: dateutil.FormatDate(d)})
	}

	for _, opp := range FindOpportunities(holidays) {
		if opp.StartDate.After(opp.HolidayDate) || opp.HolidayDate.After(opp.EndDate) {
			t.Errorf("%s: holiday outside span %s..%s", opp.HolidayName,
				dateutil.FormatDate(opp.StartDate), dateutil.FormatDate(opp.EndDate))
		}
		if len(opp.LeaveDates) > MaxLeaveDays {
			t.Errorf("%s: %d leave dates, want at most %d", opp.HolidayName, len(opp.LeaveDates), MaxLeaveDays)
		}
		if opp.SpanDays != opp.CalendarDays()+1 {
			t.Errorf("%s: SpanDays = %d, want CalendarDays()+1 = %d", opp.HolidayName, opp.SpanDays, opp.CalendarDays()+1)
		}
		for _, leave := range opp.LeaveDates {
			if dateutil.IsWeekend(leave) {
				t.Errorf("%s: leave date %s is a weekend day", opp.HolidayName, dateutil.FormatDate(leave))
			}
			if leave.Equal(opp.HolidayDate) {
				t.Errorf("%s: leave date equals holiday date", opp.HolidayName)
			}
			if leave.Before(opp.StartDate) || leave.After(opp.EndDate) {
				t.Errorf("%s: leave date %s outside span", opp.HolidayName, dateutil.FormatDate(leave))
			}
		}
	}
}

func TestFindOpportunities_NoWeekendNearby(t *testing.T) {
	// Every Wednesday of 2025 is more than two days away from a weekend
	var holidays []holiday.Holiday
	for d := day(2025, 1, 1); d.Year() == 2025; d = d.AddDate(0, 0, 7) {
		holidays = append(holidays, holiday.Holiday{Date: d, Name: "Wednesday"})
	}

	if result := FindOpportunities(holidays); len(result) != 0 {
		t.Errorf("FindOpportunities() returned %d opportunities for Wednesdays, want 0", len(result))
	}
}

func TestFindOpportunities_PreservesOrderAndDuplicates(t *testing.T) {
	holidays := []holiday.Holiday{
		{Date: day(2025, 1, 6), Name: "Epiphany"},
		{Date: day(2025, 1, 1), Name: "New Year"},
		{Date: day(2025, 1, 2), Name: "Second"},
		{Date: day(2025, 1, 6), Name: "Epiphany"},
	}

	result := FindOpportunities(holidays)

	var names []string
	for _, opp := range result {
		names = append(names, opp.HolidayName)
	}
	want := []string{"Epiphany", "Second", "Epiphany"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("opportunity order = %v, want %v", names, want)
	}
}

func TestFindOpportunities_Empty(t *testing.T) {
	if result := FindOpportunities(nil); len(result) != 0 {
		t.Errorf("FindOpportunities(nil) = %v, want empty", result)
	}
	if result := FindOpportunities([]holiday.Holiday{}); result == nil {
		t.Error("FindOpportunities([]) = nil, want empty non-nil slice")
	}
}

func TestFindOpportunities_Idempotent(t *testing.T) {
	holidays := []holiday.Holiday{
		{Date: day(2025, 1, 2), Name: "A"},
		{Date: day(2025, 1, 6), Name: "B"},
		{Date: day(2025, 8, 15), Name: "C"},
	}

	first := FindOpportunities(holidays)
	second := FindOpportunities(holidays)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("FindOpportunities() not idempotent: %+v vs %+v", first, second)
	}
}

func TestFindOpportunities_IgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	h := holiday.Holiday{Date: time.Date(2025, 1, 6, 18, 0, 0, 0, loc), Name: "Epiphany"}

	result := FindOpportunities([]holiday.Holiday{h})

	if len(result) != 1 || !result[0].HolidayDate.Equal(day(2025, 1, 6)) {
		t.Fatalf("FindOpportunities() = %+v, want holiday on 2025-01-06", result)
	}
	if len(result[0].LeaveDates) != 0 {
		t.Errorf("LeaveDates = %v, want none", dateutil.FormatDates(result[0].LeaveDates))
	}
}
