package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/username/long-weekend-finder/pkg/dateutil"
	"github.com/username/long-weekend-finder/pkg/random"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the weatherapi.com v1 API
	DefaultBaseURL = "https://api.weatherapi.com/v1"
	defaultTimeout = 10 * time.Second
	defaultRetries = 2
)

// ErrNoAPIKey is returned when the client has no API key configured
var ErrNoAPIKey = errors.New("weather API key not configured")

// Forecast is the daily forecast for a location
type Forecast struct {
	Date      string  `json:"date"`
	Location  string  `json:"location"`
	MaxTempC  float64 `json:"max_temp_c"`
	MinTempC  float64 `json:"min_temp_c"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
}

// forecastResponse is the subset of /forecast.json we read
type forecastResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				MaxTempC  float64 `json:"maxtemp_c"`
				MinTempC  float64 `json:"mintemp_c"`
				Condition struct {
					Text string `json:"text"`
					Icon string `json:"icon"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Client represents weatherapi.com API client
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
	retryDelay time.Duration
}

// NewClient creates a new weather API client
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:     logger,
		retryDelay: time.Second,
	}
}

// Configured reports whether the client has an API key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Forecast returns the forecast for location on date
func (c *Client) Forecast(ctx context.Context, location string, date time.Time) (*Forecast, error) {
	if !c.Configured() {
		return nil, ErrNoAPIKey
	}
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}

	query := url.Values{}
	query.Set("key", c.apiKey)
	query.Set("q", location)
	query.Set("dt", dateutil.FormatDate(date))

	var resp forecastResponse
	if err := c.doRequest(ctx, c.baseURL+"/forecast.json?"+query.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	if len(resp.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("no forecast for %s on %s", location, dateutil.FormatDate(date))
	}

	day := resp.Forecast.ForecastDay[0]
	forecast := &Forecast{
		Date:      day.Date,
		Location:  location,
		MaxTempC:  day.Day.MaxTempC,
		MinTempC:  day.Day.MinTempC,
		Condition: day.Day.Condition.Text,
		Icon:      day.Day.Condition.Icon,
	}
	if forecast.Date == "" {
		forecast.Date = dateutil.FormatDate(date)
	}
	if resp.Location.Name != "" {
		forecast.Location = resp.Location.Name
	}

	c.logger.Debug("Forecast received",
		zap.String("location", forecast.Location),
		zap.String("date", forecast.Date),
		zap.String("condition", forecast.Condition))

	return forecast, nil
}

// doRequest performs a GET request with retries
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= defaultRetries; attempt++ {
		err := c.doRequestOnce(ctx, endpoint, result)
		if err == nil {
			return nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var se *statusError
		if errors.As(err, &se) && se.StatusCode < 500 && se.StatusCode != http.StatusTooManyRequests {
			return err
		}

		c.logger.Warn("Weather request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", defaultRetries),
			zap.Error(err))

		if attempt < defaultRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(random.Jitter(c.retryDelay, 20)):
			}
		}
	}

	return fmt.Errorf("request failed after %d attempts: %w", defaultRetries, lastErr)
}

// statusError is returned for non-2xx responses
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// doRequestOnce performs a single HTTP request
func (c *Client) doRequestOnce(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// The URL carries the API key
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("HTTP request failed: %w", urlErr.Err)
		}
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
