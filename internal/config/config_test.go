package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WEATHER_API_KEY", "")
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Holidays.APIURL != "https://date.nager.at/api/v3" {
		t.Errorf("Holidays.APIURL = %q", cfg.Holidays.APIURL)
	}
	if cfg.Holidays.CountryNames["IN"] != "India" {
		t.Errorf("Holidays.CountryNames = %v, want IN -> India", cfg.Holidays.CountryNames)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.GetTTL() != 0 {
		t.Errorf("Cache = %+v, want file backend without TTL", cfg.Cache)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Weather.APIKey != "" {
		t.Errorf("Weather.APIKey = %q, want empty", cfg.Weather.APIKey)
	}
}

func TestLoad_File(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "from-env")

	path := writeConfig(t, `
holidays:
  fallback_file: data/holidays.json
  country_names:
    in: India
    de: Germany
cache:
  backend: sqlite
  path: cache.db
  ttl: 24h
weather:
  api_key: ${WEATHER_API_KEY}
server:
  addr: 127.0.0.1:9090
daemon:
  daily_time: "07:30"
  timezone: Asia/Kolkata
  countries: [in, us]
  years: [2025]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Holidays.CountryNames["DE"] != "Germany" {
		t.Errorf("Holidays.CountryNames = %v, want upper-cased codes", cfg.Holidays.CountryNames)
	}
	if cfg.Cache.Backend != "sqlite" || cfg.Cache.GetTTL() != 24*time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Weather.APIKey != "from-env" {
		t.Errorf("Weather.APIKey = %q, want from-env", cfg.Weather.APIKey)
	}
	if h, m := cfg.Daemon.GetDailyTime(); h != 7 || m != 30 {
		t.Errorf("GetDailyTime() = %d:%d, want 7:30", h, m)
	}
	if got := strings.Join(cfg.Daemon.Countries, ","); got != "IN,US" {
		t.Errorf("Daemon.Countries = %s, want IN,US", got)
	}
	if len(cfg.Daemon.Years) != 1 || cfg.Daemon.Years[0] != 2025 {
		t.Errorf("Daemon.Years = %v, want [2025]", cfg.Daemon.Years)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() expected error for missing explicit config, got nil")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Holidays: HolidaysConfig{APIURL: "https://date.nager.at/api/v3", Timeout: "10s"},
			Cache:    CacheConfig{Backend: "file", Path: "cache.json", TTL: "0"},
			Server:   ServerConfig{Addr: ":8080"},
			Daemon:   DaemonConfig{DailyTime: "06:00", Timezone: "UTC", Countries: []string{"IN"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no holiday source", func(c *Config) { c.Holidays = HolidaysConfig{} }, "holidays"},
		{"bad timeout", func(c *Config) { c.Holidays.Timeout = "soon" }, "holidays.timeout"},
		{"bad country name key", func(c *Config) { c.Holidays.CountryNames = map[string]string{"IND": "India"} }, "country_names"},
		{"bad backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"no cache path", func(c *Config) { c.Cache.Path = "" }, "cache.path"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "forever" }, "cache.ttl"},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"bad daily time", func(c *Config) { c.Daemon.DailyTime = "25:00" }, "daemon.daily_time"},
		{"bad timezone", func(c *Config) { c.Daemon.Timezone = "Mars/Olympus" }, "daemon.timezone"},
		{"bad daemon country", func(c *Config) { c.Daemon.Countries = []string{"India"} }, "daemon.countries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDailyTime(t *testing.T) {
	tests := []struct {
		value      string
		wantHour   int
		wantMinute int
	}{
		{"", 6, 0},
		{"20:15", 20, 15},
		{"24:00", 6, 0},
		{"noon", 6, 0},
	}

	for _, tt := range tests {
		c := DaemonConfig{DailyTime: tt.value}
		h, m := c.GetDailyTime()
		if h != tt.wantHour || m != tt.wantMinute {
			t.Errorf("GetDailyTime(%q) = %d:%d, want %d:%d", tt.value, h, m, tt.wantHour, tt.wantMinute)
		}
	}
}
