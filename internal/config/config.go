package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // daemon.timezone must resolve on hosts without zoneinfo

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Server   ServerConfig   `mapstructure:"server"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// HolidaysConfig represents holiday source configuration
type HolidaysConfig struct {
	APIURL       string            `mapstructure:"api_url"`       // Nager.Date v3 base URL
	Timeout      string            `mapstructure:"timeout"`       // HTTP timeout, e.g. "10s"
	FallbackFile string            `mapstructure:"fallback_file"` // Local holidays.json
	CountryNames map[string]string `mapstructure:"country_names"` // Code -> name used as key in fallback_file
	Builtin      bool              `mapstructure:"builtin"`       // Use built-in rules as the last fallback
}

// CacheConfig represents holiday cache configuration
type CacheConfig struct {
	Backend string `mapstructure:"backend"` // "file" or "sqlite"
	Path    string `mapstructure:"path"`
	TTL     string `mapstructure:"ttl"` // "0" disables expiry
}

// WeatherConfig represents weatherapi.com configuration
type WeatherConfig struct {
	APIURL string `mapstructure:"api_url"`
	APIKey string `mapstructure:"api_key"`
}

// ServerConfig represents HTTP API configuration
type ServerConfig struct {
	Addr            string   `mapstructure:"addr"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ShutdownTimeout string   `mapstructure:"shutdown_timeout"`
}

// DaemonConfig represents daemon mode configuration
type DaemonConfig struct {
	DailyTime  string   `mapstructure:"daily_time"` // Time to refresh the cache (HH:MM format)
	Timezone   string   `mapstructure:"timezone"`   // IANA name, default UTC
	Countries  []string `mapstructure:"countries"`
	Years      []int    `mapstructure:"years"` // Empty means current and next year
	SystemTray bool     `mapstructure:"system_tray"` // Show system tray icon (Windows only)
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // Rotated log file; empty logs to stderr
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("holidays.api_url", "https://date.nager.at/api/v3")
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("holidays.fallback_file", "holidays.json")
	v.SetDefault("holidays.country_names", map[string]string{"IN": "India"})
	v.SetDefault("holidays.builtin", true)

	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.path", "holiday_cache.json")
	v.SetDefault("cache.ttl", "0")

	v.SetDefault("weather.api_url", "https://api.weatherapi.com/v1")
	v.SetDefault("weather.api_key", "${WEATHER_API_KEY}")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("daemon.daily_time", "06:00")
	v.SetDefault("daemon.timezone", "UTC")
	v.SetDefault("daemon.countries", []string{"IN"})
	v.SetDefault("daemon.years", []int{})
	v.SetDefault("daemon.system_tray", false)

	v.SetDefault("logging.file", "")
	v.SetDefault("logging.level", "info")
}

// Load loads configuration from file. Without an explicit path a missing
// config file is not an error and the defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.long-weekend-finder")
		v.AddConfigPath("/etc/long-weekend-finder")
	}

	// Read environment variables, e.g. LWF_SERVER_ADDR
	v.SetEnvPrefix("lwf")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()
	config.normalize()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Holidays config
	if c.Holidays.APIURL == "" && c.Holidays.FallbackFile == "" && !c.Holidays.Builtin {
		return fmt.Errorf("at least one of holidays.api_url, holidays.fallback_file or holidays.builtin is required")
	}
	if err := validDuration("holidays.timeout", c.Holidays.Timeout); err != nil {
		return err
	}
	for code := range c.Holidays.CountryNames {
		if !isCountryCode(code) {
			return fmt.Errorf("holidays.country_names: invalid country code '%s'", code)
		}
	}

	// Validate Cache config
	switch c.Cache.Backend {
	case "", "file", "sqlite":
	default:
		return fmt.Errorf("cache.backend must be 'file' or 'sqlite', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache.path is required")
	}
	if err := validDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if err := validDuration("server.shutdown_timeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	// Validate Daemon config
	if c.Daemon.DailyTime != "" {
		if _, _, err := parseClock(c.Daemon.DailyTime); err != nil {
			return fmt.Errorf("daemon.daily_time: %w", err)
		}
	}
	if _, err := c.Daemon.GetLocation(); err != nil {
		return fmt.Errorf("daemon.timezone: %w", err)
	}
	for _, country := range c.Daemon.Countries {
		if !isCountryCode(strings.ToUpper(country)) {
			return fmt.Errorf("daemon.countries: invalid country code '%s'", country)
		}
	}

	return nil
}

func validDuration(key, value string) error {
	if value == "" || value == "0" {
		return nil
	}
	if _, err := time.ParseDuration(value); err != nil {
		return fmt.Errorf("%s must be a duration like '10s' or '24h', got '%s'", key, value)
	}
	return nil
}

func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// GetTimeout returns the holiday API HTTP timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	return parseDurationOr(c.Timeout, 10*time.Second)
}

// GetTTL returns the cache TTL; 0 means entries never expire
func (c *CacheConfig) GetTTL() time.Duration {
	return parseDurationOr(c.TTL, 0)
}

// GetShutdownTimeout returns the graceful shutdown timeout
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDurationOr(c.ShutdownTimeout, 10*time.Second)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return duration
}

// GetDailyTime returns the configured daily refresh time
// Returns hour and minute (0-23, 0-59). Default: 06:00
func (c *DaemonConfig) GetDailyTime() (hour, minute int) {
	if c.DailyTime == "" {
		return 6, 0
	}

	h, m, err := parseClock(c.DailyTime)
	if err != nil {
		return 6, 0 // Fallback to default
	}
	return h, m
}

func parseClock(value string) (hour, minute int, err error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got '%s'", value)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("time out of range: '%s'", value)
	}
	return h, m, nil
}

// GetLocation returns the daemon timezone (UTC when unset)
func (c *DaemonConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// normalize upper-cases country codes; viper lower-cases map keys
func (c *Config) normalize() {
	names := make(map[string]string, len(c.Holidays.CountryNames))
	for code, name := range c.Holidays.CountryNames {
		names[strings.ToUpper(code)] = name
	}
	c.Holidays.CountryNames = names

	for i, country := range c.Daemon.Countries {
		c.Daemon.Countries[i] = strings.ToUpper(strings.TrimSpace(country))
	}
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Weather.APIKey = os.ExpandEnv(c.Weather.APIKey)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.Cache.Path = os.ExpandEnv(c.Cache.Path)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}
