package holiday

import (
	"context"
	"sort"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"github.com/username/long-weekend-finder/pkg/dateutil"
	"go.uber.org/zap"
)

// builtinCalendars holds the rule sets computed offline, by country code
var builtinCalendars = map[string]struct {
	name     string
	holidays []*cal.Holiday
}{
	"US": {
		name: "United States",
		holidays: []*cal.Holiday{
			us.NewYear,
			us.MlkDay,
			us.PresidentsDay,
			us.MemorialDay,
			us.Juneteenth,
			us.IndependenceDay,
			us.LaborDay,
			us.ThanksgivingDay,
			us.ChristmasDay,
		},
	},
}

// BuiltinSource implements Source with holiday rules computed locally
type BuiltinSource struct {
	logger *zap.Logger
}

// NewBuiltinSource creates a new BuiltinSource
func NewBuiltinSource(logger *zap.Logger) *BuiltinSource {
	return &BuiltinSource{logger: logger}
}

// Holidays computes the holidays of the year on their actual (not observed) dates, sorted by date.
// Countries without a built-in rule set yield an empty list.
func (bs *BuiltinSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	rules, ok := builtinCalendars[country]
	if !ok {
		bs.logger.Debug("No built-in holiday rules", zap.String("country", country))
		return []Holiday{}, nil
	}

	holidays := make([]Holiday, 0, len(rules.holidays))
	for _, rule := range rules.holidays {
		actual, _ := rule.Calc(year)
		if actual.IsZero() {
			continue
		}
		holidays = append(holidays, Holiday{
			Date: dateutil.CalendarDay(actual),
			Name: rule.Name,
		})
	}

	sort.SliceStable(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})

	return holidays, nil
}

// Countries lists the countries with built-in rules
func (bs *BuiltinSource) Countries(ctx context.Context) ([]Country, error) {
	countries := make([]Country, 0, len(builtinCalendars))
	for code, rules := range builtinCalendars {
		countries = append(countries, Country{Code: code, Name: rules.name})
	}
	sort.Slice(countries, func(i, j int) bool {
		return countries[i].Code < countries[j].Code
	})
	return countries, nil
}
