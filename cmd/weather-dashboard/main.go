package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geocode"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	localizer := weather.NewLocalizer(cfg.Locale)
	zl.Info("starting weather dashboard",
		zap.String("locale", localizer.Tag().String()),
		zap.Bool("openweather_key_provisioned", cfg.OpenWeatherAPIKey != ""),
	)

	// Shared HTTP client for outbound provider calls; each provider gets its
	// own limiter and circuit breaker.
	client := providers.NewRestyClient(cfg.HTTPTimeout)

	openMeteoLocations := weather.OpenMeteoLocations()
	openWeatherLocations := weather.OpenWeatherLocations()

	openMeteo := providers.NewOpenMeteoProvider(providers.HTTPClientConfig{
		Client:  client,
		BaseURL: cfg.OpenMeteoBaseURL,
		Limiter: providers.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst),
		Logger:  zl.Named(providers.OpenMeteoName),
	}, localizer)

	openWeather := providers.NewOpenWeatherProvider(providers.HTTPClientConfig{
		Client:  client,
		BaseURL: cfg.OpenWeatherBaseURL,
		Limiter: providers.NewLimiter(cfg.ProviderRPS, cfg.ProviderBurst),
		Logger:  zl.Named(providers.OpenWeatherName),
	}, cfg.OpenWeatherLang, localizer, openWeatherLocations)

	var resolver weather.LocationResolver
	if cfg.GeocoderAPIKey != "" {
		resolver = geocode.NewResolver(cfg.GeocoderAPIKey, zl)
	}

	// In-memory history of successful fetches with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	hub := dashboard.NewHub(
		dashboard.NewSession(openMeteo, dashboard.Options{
			Registry:  openMeteoLocations,
			Localizer: localizer,
			Resolver:  resolver,
			Logger:    zl.Named("dashboard"),
			OnReady:   memStore.Save,
		}),
		dashboard.NewSession(openWeather, dashboard.Options{
			Registry:   openWeatherLocations,
			Localizer:  localizer,
			Resolver:   resolver,
			Credential: cfg.OpenWeatherAPIKey,
			Logger:     zl.Named("dashboard"),
			OnReady:    memStore.Save,
		}),
	)
	hub.StartAll(context.Background())

	// Scheduler that periodically refreshes ready dashboards.
	sched := scheduler.New(hub, cfg.RefreshInterval, zl)
	if err := sched.Start(); err != nil {
		zl.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, hub, memStore)

	go func() {
		zl.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zl.Error("fiber server stopped", zap.Error(err))
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zl.Error("error during shutdown", zap.Error(err))
	}
}
