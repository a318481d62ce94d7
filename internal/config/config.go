package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"
)

const envPrefix = "WEATHER"

// AppConfig holds the dashboard configuration. Every field can be set from the
// environment, e.g. WEATHER_PORT or WEATHER_STORE_PATH.
type AppConfig struct {
	// Allowed values: dev, prod
	AppEnv   string `fig:"app_env" default:"dev"`
	LogLevel string `fig:"log_level" default:"info"`
	Port     string `fig:"port" default:"8080"`
	// Language used when a request does not ask for one. Empty means the system locale.
	Locale      string        `fig:"locale"`
	HTTPTimeout time.Duration `fig:"http_timeout" default:"15s"`

	Store struct {
		// Empty path keeps observations in memory only.
		Path       string        `fig:"path"`
		MaxHistory int           `fig:"max_history" default:"400"`
		MaxAge     time.Duration `fig:"max_age" default:"8784h"`
	} `fig:"store"`

	Scheduler struct {
		Interval          time.Duration `fig:"interval" default:"1h"`
		ClimateWindowDays int           `fig:"climate_window_days" default:"30"`
		// Comma separated location names.
		Locations string `fig:"locations" default:"Hà Nội,Hồ Chí Minh,Đà Nẵng"`
	} `fig:"scheduler"`

	MQTT struct {
		// Empty broker disables publishing; alerts are only logged.
		Broker   string `fig:"broker"`
		ClientID string `fig:"client_id" default:"weather-dashboard"`
		Username string `fig:"username"`
		Password string `fig:"password"`
		Topic    string `fig:"topic" default:"weather/alerts"`
	} `fig:"mqtt"`

	News struct {
		// Comma separated RSS/Atom feed URLs. Empty serves the built-in articles.
		Feeds string `fig:"feeds"`
		Limit int    `fig:"limit" default:"10"`
	} `fig:"news"`

	Geocoder struct {
		APIKey  string `fig:"api_key"`
		Country string `fig:"country" default:"VN"`
	} `fig:"geocoder"`
}

// Load reads an optional .env file and then the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.Any("error", err))
	}
	return load()
}

func load() (*AppConfig, error) {
	cfg := new(AppConfig)
	if err := fig.Load(cfg, fig.AllowNoFile(), fig.UseEnv(envPrefix)); err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c *AppConfig) Validate() error {
	if c.AppEnv != "dev" && c.AppEnv != "prod" {
		return fmt.Errorf("invalid app env %q (allowed: dev, prod)", c.AppEnv)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid http timeout: %s", c.HTTPTimeout)
	}
	if c.Store.MaxHistory < 0 || c.Store.MaxAge < 0 {
		return fmt.Errorf("store retention must not be negative")
	}
	if c.Scheduler.Interval < time.Minute {
		return fmt.Errorf("scheduler interval must be at least 1m, got %s", c.Scheduler.Interval)
	}
	if c.Scheduler.ClimateWindowDays < 1 || c.Scheduler.ClimateWindowDays > 366 {
		return fmt.Errorf("invalid climate window: %d days", c.Scheduler.ClimateWindowDays)
	}
	if c.News.Limit < 1 {
		return fmt.Errorf("invalid news limit: %d", c.News.Limit)
	}
	return nil
}

// Level returns the parsed log level.
func (c *AppConfig) Level() slog.Level {
	l, _ := ParseLogLevel(c.LogLevel)
	return l
}

// TrackedLocations returns the location names the scheduler refreshes.
func (c *AppConfig) TrackedLocations() []string {
	return splitList(c.Scheduler.Locations)
}

// NewsFeeds returns the configured feed URLs.
func (c *AppConfig) NewsFeeds() []string {
	return splitList(c.News.Feeds)
}

// ParseLogLevel accepts debug, info, warn and error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
