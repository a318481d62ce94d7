package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/i18n"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/mqtt"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.AppEnv, version, cfg.Level())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("run failed", logging.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down")
}

func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	var (
		obsStore weather.Store
		pruner   scheduler.Pruner
	)
	if cfg.Store.Path != "" {
		db, err := store.OpenSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("failed to close database", logging.Err(err))
			}
		}()
		obsStore, pruner = db, db
	} else {
		obsStore = store.NewMemoryStore(cfg.Store.MaxHistory, cfg.Store.MaxAge)
	}

	provs, err := buildProviders(cfg, httpClient)
	if err != nil {
		return err
	}
	service := weather.NewService(obsStore, provs, nil, log)

	translations, err := i18n.NewRegistry(cfg.Locale)
	if err != nil {
		return err
	}

	var publisher weather.AlertPublisher = mqtt.LogPublisher{Logger: log}
	if cfg.MQTT.Broker != "" {
		p := mqtt.NewPublisher(mqtt.Options{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.Topic,
		}, log)
		defer p.Close()
		go func() {
			if err := p.Connect(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("mqtt connect failed", logging.Err(err))
			}
		}()
		publisher = p
	}

	sched := scheduler.New(service, scheduler.Options{
		Locations:         cfg.TrackedLocations(),
		Interval:          cfg.Scheduler.Interval,
		ClimateWindowDays: cfg.Scheduler.ClimateWindowDays,
		Publisher:         publisher,
		Pruner:            pruner,
		MaxAge:            cfg.Store.MaxAge,
	}, log)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.ErrorHandler,
	})
	app.Use(logger.New())
	app.Use(recover.New())
	httpapi.RegisterRoutes(app, service, translations)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("port", cfg.Port), slog.String("version", version))
		serveErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", logging.Err(err))
	}
	return nil
}

func buildProviders(cfg *config.AppConfig, client *http.Client) (weather.Providers, error) {
	nasa := providers.NewNASAPowerProvider(client, providers.NASAPowerBaseURL)

	openMeteo, err := providers.NewOpenMeteoProvider()
	if err != nil {
		return weather.Providers{}, fmt.Errorf("failed to create open-meteo client: %w", err)
	}

	provs := weather.Providers{
		Forecast:   []weather.ForecastProvider{openMeteo, nasa},
		Climate:    nasa,
		AirQuality: providers.NewOpenMeteoAirQualityProvider(client, providers.OpenMeteoAirQualityURL),
		News:       providers.NewStaticNewsProvider(),
	}
	if feeds := cfg.NewsFeeds(); len(feeds) > 0 {
		provs.News = providers.NewFeedNewsProvider(client, feeds, cfg.News.Limit)
	}
	// Google geocoding needs an API key; without one only the built-in catalog resolves.
	if cfg.Geocoder.APIKey != "" {
		provs.Geocoder = providers.NewGoogleGeocoder(cfg.Geocoder.APIKey, cfg.Geocoder.Country)
	}
	return provs, nil
}
