package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/username/long-weekend-finder/pkg/random"
	"go.uber.org/zap"
)

const (
	// DefaultNagerURL is the public Nager.Date v3 API
	DefaultNagerURL    = "https://date.nager.at/api/v3"
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 3
	retryBaseDelay     = time.Second
	retryJitterPercent = 20
)

// NagerSource implements Source using the Nager.Date public holiday API
type NagerSource struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	retries    int
	retryDelay time.Duration
}

// nagerHoliday represents a single entry of /PublicHolidays/{year}/{country}
type nagerHoliday struct {
	Date        string   `json:"date"`
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// nagerCountry represents a single entry of /AvailableCountries
type nagerCountry struct {
	CountryCode string `json:"countryCode"`
	Name        string `json:"name"`
}

// NewNagerSource creates a new NagerSource instance
func NewNagerSource(baseURL string, timeout time.Duration, logger *zap.Logger) *NagerSource {
	if baseURL == "" {
		baseURL = DefaultNagerURL
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	return &NagerSource{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		retries:    defaultRetries,
		retryDelay: retryBaseDelay,
	}
}

// Holidays fetches public holidays for the country and year
func (ns *NagerSource) Holidays(ctx context.Context, country string, year int) ([]Holiday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", ns.baseURL, year, country)

	ns.logger.Debug("Fetching holidays from Nager.Date",
		zap.String("url", url),
		zap.String("country", country),
		zap.Int("year", year))

	var apiHolidays []nagerHoliday
	if err := ns.get(ctx, url, &apiHolidays); err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}

	holidays := make([]Holiday, 0, len(apiHolidays))
	for _, apiHoliday := range apiHolidays {
		h, err := Record{Date: apiHoliday.Date, Name: apiHoliday.Name, LocalName: apiHoliday.LocalName}.ToHoliday()
		if err != nil {
			return nil, fmt.Errorf("malformed holiday in API response: %w", err)
		}
		holidays = append(holidays, h)
	}

	ns.logger.Info("Holidays fetched from API",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// Countries lists the countries supported by the API
func (ns *NagerSource) Countries(ctx context.Context) ([]Country, error) {
	var apiCountries []nagerCountry
	if err := ns.get(ctx, ns.baseURL+"/AvailableCountries", &apiCountries); err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}

	countries := make([]Country, len(apiCountries))
	for i, c := range apiCountries {
		countries[i] = Country{Code: c.CountryCode, Name: c.Name}
	}

	return countries, nil
}

// get performs a GET request with retries and decodes the JSON body into result
func (ns *NagerSource) get(ctx context.Context, url string, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= ns.retries; attempt++ {
		err := ns.getOnce(ctx, url, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(err) {
			return err
		}

		ns.logger.Warn("Request failed, retrying",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", ns.retries),
			zap.Error(err))

		if attempt < ns.retries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(random.Backoff(attempt, ns.retryDelay, retryJitterPercent)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", ns.retries, lastErr)
}

// statusError is returned for non-2xx responses
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// retryable reports whether a failed request is worth repeating; 4xx answers are final
func retryable(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}

func (ns *NagerSource) getOnce(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ns.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// Nager.Date answers 204 for unknown countries
	if resp.StatusCode == http.StatusNoContent || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
