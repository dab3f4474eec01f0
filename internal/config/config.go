package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// openWeatherPlaceholder is the value shipped in sample env files.
const openWeatherPlaceholder = "your_api_key_here"

type AppConfig struct {
	Port   string
	Locale string

	// OpenWeatherAPIKey is empty when unset or still the sample placeholder;
	// the dashboard then prompts for a key.
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherLang    string
	OpenMeteoBaseURL   string

	// GeocoderAPIKey enables lookups of cities outside the registries.
	GeocoderAPIKey string

	HTTPTimeout   time.Duration
	ProviderRPS   float64
	ProviderBurst int

	// RefreshInterval controls auto refresh of Ready dashboards (0 = off).
	RefreshInterval time.Duration

	// In-memory history retention.
	StoreMaxHistory int           // max observations per provider/location (0 = unlimited)
	StoreMaxAge     time.Duration // max observation age (0 = unlimited)

	LogLevel  string
	LogFormat string
}

// Load reads configuration from the environment (and .env) with defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:               getenvDefault("PORT", "8080"),
		Locale:             getenvDefault("LOCALE", weather.DefaultLocale),
		OpenWeatherBaseURL: getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherBaseURL),
		OpenWeatherLang:    getenvDefault("OPENWEATHER_LANG", providers.DefaultOpenWeatherLang),
		OpenMeteoBaseURL:   getenvDefault("OPENMETEO_BASE_URL", providers.DefaultOpenMeteoBaseURL),
		GeocoderAPIKey:     os.Getenv("GEOCODER_API_KEY"),
		ProviderBurst:      getenvInt("PROVIDER_BURST", 5),
		StoreMaxHistory:    getenvInt("STORE_MAX_HISTORY", 96), // roughly 24h at 15-minute intervals
		LogLevel:           getenvDefault("LOG_LEVEL", "info"),
		LogFormat:          getenvDefault("LOG_FORMAT", "json"),
	}

	if key := os.Getenv("OPENWEATHER_API_KEY"); !common.IsPlaceholder(key, openWeatherPlaceholder) {
		cfg.OpenWeatherAPIKey = key
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 1); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: want json or console", cfg.LogFormat)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
