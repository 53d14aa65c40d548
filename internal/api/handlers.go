package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/internal/longweekend"
	"github.com/username/long-weekend-finder/internal/weather"
	"github.com/username/long-weekend-finder/pkg/dateutil"
	"go.uber.org/zap"
)

// Forecaster looks up the weather of a single day
type Forecaster interface {
	Forecast(ctx context.Context, location string, date time.Time) (*weather.Forecast, error)
}

// Handler holds the dependencies of the API handlers
type Handler struct {
	finder    *longweekend.Finder
	countries holiday.CountryLister
	weather   Forecaster
	logger    *zap.Logger
}

// NewHandler creates a new Handler. countries and forecaster may be nil.
func NewHandler(finder *longweekend.Finder, countries holiday.CountryLister, forecaster Forecaster, logger *zap.Logger) *Handler {
	return &Handler{
		finder:    finder,
		countries: countries,
		weather:   forecaster,
		logger:    logger,
	}
}

// Health reports that the server is up
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListCountries lists the supported countries
func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	if h.countries == nil {
		writeJSON(w, http.StatusOK, []holiday.Country{})
		return
	}

	countries, err := h.countries.Countries(r.Context())
	if err != nil {
		h.logger.Warn("Failed to list countries", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to list countries", err)
		return
	}
	if countries == nil {
		countries = []holiday.Country{}
	}

	writeJSON(w, http.StatusOK, countries)
}

// ListHolidays returns the holidays of a country/year
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	country, year, ok := pathCountryYear(w, r)
	if !ok {
		return
	}

	code, err := holiday.NormalizeCountry(country)
	if err != nil {
		h.writeFinderError(w, err)
		return
	}

	holidays, err := h.finder.Holidays(r.Context(), code, year)
	if err != nil {
		h.writeFinderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HolidaysResponse{
		Country:  code,
		Year:     year,
		Holidays: toHolidayDTOs(holidays),
	})
}

// ListOpportunities returns the long-weekend opportunities of a country/year, optionally of one month
func (h *Handler) ListOpportunities(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, OpportunitiesResponse{
		Country:       report.Country,
		Year:          report.Year,
		Month:         int(report.Month),
		Opportunities: toOpportunityDTOs(report.Opportunities),
		Statistics:    report.Statistics,
	})
}

// GetStatistics returns the statistics of a country/year, optionally of one month
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, StatisticsResponse{
		Country:    report.Country,
		Year:       report.Year,
		Month:      int(report.Month),
		Statistics: report.Statistics,
	})
}

// GetWeather returns the forecast for ?location=..&date=YYYY-MM-DD
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	if h.weather == nil {
		writeError(w, http.StatusServiceUnavailable, "Weather lookup is not configured", nil)
		return
	}

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, http.StatusBadRequest, "location is required", nil)
		return
	}

	date, err := dateutil.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	forecast, err := h.weather.Forecast(r.Context(), location, date)
	if err != nil {
		if errors.Is(err, weather.ErrNoAPIKey) {
			writeError(w, http.StatusServiceUnavailable, "Weather lookup is not configured", nil)
			return
		}
		h.logger.Warn("Weather lookup failed",
			zap.String("location", location),
			zap.String("date", dateutil.FormatDate(date)),
			zap.Error(err))
		writeError(w, http.StatusBadGateway, "Weather lookup failed", err)
		return
	}

	writeJSON(w, http.StatusOK, forecast)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request) (*longweekend.Report, bool) {
	country, year, ok := pathCountryYear(w, r)
	if !ok {
		return nil, false
	}

	var month time.Month
	if m := r.URL.Query().Get("month"); m != "" {
		n, err := strconv.Atoi(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month", err)
			return nil, false
		}
		month = time.Month(n)
	}

	report, err := h.finder.FindMonth(r.Context(), country, year, month)
	if err != nil {
		h.writeFinderError(w, err)
		return nil, false
	}

	return report, true
}

func pathCountryYear(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	country := chi.URLParam(r, "country")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return "", 0, false
	}
	return country, year, true
}

// writeFinderError maps validation errors to 400 and source failures to 502
func (h *Handler) writeFinderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, holiday.ErrInvalidCountry),
		errors.Is(err, holiday.ErrInvalidYear),
		errors.Is(err, longweekend.ErrInvalidMonth):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		h.logger.Error("Holiday lookup failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to get holidays", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
