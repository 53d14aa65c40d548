package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/internal/longweekend"
	"github.com/username/long-weekend-finder/internal/weather"
	"github.com/username/long-weekend-finder/pkg/dateutil"
	"go.uber.org/zap"
)

func findCmd() *cobra.Command {
	var country, city, teeOutput string
	var year, month int

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List long-weekend opportunities for a country and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			restore, err := openTee(teeOutput)
			if err != nil {
				return err
			}
			defer restore()

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			report, err := a.finder.FindMonth(ctx, country, year, time.Month(month))
			if err != nil {
				return err
			}

			outPrintf("🗓  Long weekends in %s %s\n", report.Country, periodLabel(report))
			outPrintln("═══════════════════════════════════════════════════════")

			if len(report.Opportunities) == 0 {
				outPrintln("  No long weekends found")
			}

			for _, opp := range report.Opportunities {
				printOpportunity(opp)
				if city != "" {
					printForecast(ctx, a.weather, city, opp.StartDate)
				}
			}

			outPrintln()
			printStatistics(report.Statistics)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "IN", "ISO 3166-1 alpha-2 country code")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (0 for the whole year)")
	cmd.Flags().StringVar(&city, "city", "", "Show the weather forecast for this city on each start date")
	cmd.Flags().StringVar(&teeOutput, "tee-output", "", "Mirror output to file")

	return cmd
}

func statsCmd() *cobra.Command {
	var country string
	var year, month int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show long-weekend statistics for a country and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.finder.FindMonth(cmd.Context(), country, year, time.Month(month))
			if err != nil {
				return err
			}

			outPrintf("📊 %s %s\n", report.Country, periodLabel(report))
			printStatistics(report.Statistics)
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "IN", "ISO 3166-1 alpha-2 country code")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year")
	cmd.Flags().IntVar(&month, "month", 0, "Month 1-12 (0 for the whole year)")

	return cmd
}

func holidaysCmd() *cobra.Command {
	var country string
	var year int

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays for a country and year",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			holidays, err := a.finder.Holidays(cmd.Context(), country, year)
			if err != nil {
				return err
			}

			outPrintf("🎉 %d public holidays in %s %d\n", len(holidays), strings.ToUpper(country), year)
			outPrintln("═══════════════════════════════════════════════════════")
			for _, h := range holidays {
				outPrintf("  %s  %-9s  %s\n", dateutil.FormatDate(h.Date), h.Date.Weekday(), h.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&country, "country", "IN", "ISO 3166-1 alpha-2 country code")
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year")

	return cmd
}

func countriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List supported countries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			countries, err := a.source.Countries(cmd.Context())
			if err != nil {
				return err
			}

			for _, c := range countries {
				outPrintf("  %s  %s%s\n", c.Code, c.Name, localYears(a.file, c.Code))
			}
			return nil
		},
	}
}

func weatherCmd() *cobra.Command {
	var location, date string

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show the weather forecast for a location and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dateutil.ParseDate(date)
			if err != nil {
				return err
			}

			client := weather.NewClient(cfg.Weather.APIURL, cfg.Weather.APIKey, logger)
			forecast, err := client.Forecast(cmd.Context(), location, day)
			if err != nil {
				if errors.Is(err, weather.ErrNoAPIKey) {
					return fmt.Errorf("%w: set weather.api_key or WEATHER_API_KEY", err)
				}
				return err
			}

			outPrintf("🌤  %s on %s: %s, %.1f°C .. %.1f°C\n",
				forecast.Location, forecast.Date, forecast.Condition, forecast.MinTempC, forecast.MaxTempC)
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "City or location query")
	cmd.Flags().StringVar(&date, "date", dateutil.FormatDate(dateutil.Today()), "Date (YYYY-MM-DD)")
	cmd.MarkFlagRequired("location")

	return cmd
}

// localYears lists the years the fallback file covers for a country, e.g. " (local: 2025, 2026)"
func localYears(file *holiday.FileSource, code string) string {
	if file == nil {
		return ""
	}
	years, err := file.Years(code)
	if err != nil {
		logger.Debug("Failed to list fallback years", zap.String("country", code), zap.Error(err))
		return ""
	}
	if len(years) == 0 {
		return ""
	}
	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = strconv.Itoa(y)
	}
	return fmt.Sprintf(" (local: %s)", strings.Join(labels, ", "))
}

func periodLabel(report *longweekend.Report) string {
	if report.Month == 0 {
		return fmt.Sprintf("%d", report.Year)
	}
	return fmt.Sprintf("%s %d", report.Month, report.Year)
}

func printOpportunity(opp longweekend.Opportunity) {
	outPrintf("\n  %s (%s, %s)\n", opp.HolidayName, dateutil.FormatDate(opp.HolidayDate), opp.HolidayDate.Weekday())
	outPrintf("    %s → %s  span %d days\n",
		dateutil.FormatDate(opp.StartDate), dateutil.FormatDate(opp.EndDate), opp.SpanDays)
	if len(opp.LeaveDates) == 0 {
		outPrintln("    ✅ No leave needed")
		return
	}
	outPrintf("    📝 Take leave: %s\n", strings.Join(dateutil.FormatDates(opp.LeaveDates), ", "))
}

// printForecast prints the forecast for a start date; failures are logged and skipped
func printForecast(ctx context.Context, client *weather.Client, city string, date time.Time) {
	forecast, err := client.Forecast(ctx, city, date)
	if err != nil {
		logger.Warn("Weather lookup failed",
			zap.String("city", city),
			zap.String("date", dateutil.FormatDate(date)),
			zap.Error(err))
		return
	}
	outPrintf("    🌤  %s, %.1f°C .. %.1f°C\n", forecast.Condition, forecast.MinTempC, forecast.MaxTempC)
}

func printStatistics(stats longweekend.Statistics) {
	outPrintf("  Holidays:        %d\n", stats.TotalHolidays)
	outPrintf("  Long weekends:   %d\n", stats.LongWeekendCount)
	outPrintf("  Leave days:      %d\n", stats.TotalLeaveDays)
	outPrintf("  Longest span:    %d days\n", stats.MaxSpanDays)
}
