package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Scheduler.Interval != time.Hour {
		t.Fatalf("expected 1h interval, got %s", cfg.Scheduler.Interval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %s", cfg.HTTPTimeout)
	}
	if got := cfg.TrackedLocations(); len(got) != 3 || got[0] != "Hà Nội" {
		t.Fatalf("unexpected tracked locations %v", got)
	}
	if cfg.MQTT.Broker != "" || cfg.MQTT.Topic != "weather/alerts" {
		t.Fatalf("unexpected mqtt config %+v", cfg.MQTT)
	}
	if cfg.Level() != slog.LevelInfo {
		t.Fatalf("expected info level, got %s", cfg.Level())
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEATHER_PORT", "9090")
	t.Setenv("WEATHER_LOG_LEVEL", "debug")
	t.Setenv("WEATHER_STORE_PATH", "/tmp/weather.db")
	t.Setenv("WEATHER_SCHEDULER_INTERVAL", "30m")
	t.Setenv("WEATHER_SCHEDULER_LOCATIONS", " Cần Thơ , ,Huế")
	t.Setenv("WEATHER_NEWS_FEEDS", "https://a.example/rss,https://b.example/atom")

	cfg, err := load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.Store.Path != "/tmp/weather.db" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Scheduler.Interval != 30*time.Minute {
		t.Fatalf("expected 30m, got %s", cfg.Scheduler.Interval)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %s", cfg.Level())
	}
	locs := cfg.TrackedLocations()
	if len(locs) != 2 || locs[0] != "Cần Thơ" || locs[1] != "Huế" {
		t.Fatalf("unexpected locations %q", locs)
	}
	if len(cfg.NewsFeeds()) != 2 {
		t.Fatalf("expected 2 feeds, got %v", cfg.NewsFeeds())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"app env", func(c *AppConfig) { c.AppEnv = "staging" }},
		{"log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"interval", func(c *AppConfig) { c.Scheduler.Interval = time.Second }},
		{"window", func(c *AppConfig) { c.Scheduler.ClimateWindowDays = 400 }},
		{"timeout", func(c *AppConfig) { c.HTTPTimeout = 0 }},
		{"news limit", func(c *AppConfig) { c.News.Limit = 0 }},
		{"retention", func(c *AppConfig) { c.Store.MaxHistory = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	if l, err := ParseLogLevel("WARN"); err != nil || l != slog.LevelWarn {
		t.Fatalf("expected warn, got %s (%v)", l, err)
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
