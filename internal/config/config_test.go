package config

import (
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "LOCALE", "OPENWEATHER_API_KEY", "OPENWEATHER_LANG", "HTTP_TIMEOUT",
		"PROVIDER_RPS", "PROVIDER_BURST", "REFRESH_INTERVAL", "STORE_MAX_HISTORY",
		"STORE_MAX_AGE", "LOG_FORMAT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Locale != "zh-CN" || cfg.OpenWeatherLang != "zh_cn" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.RefreshInterval != 15*time.Minute || cfg.StoreMaxAge != 24*time.Hour {
		t.Errorf("unexpected duration defaults: %+v", cfg)
	}
	if cfg.ProviderRPS != 1 || cfg.ProviderBurst != 5 || cfg.StoreMaxHistory != 96 {
		t.Errorf("unexpected numeric defaults: %+v", cfg)
	}
	if cfg.OpenWeatherAPIKey != "" {
		t.Errorf("key should be empty, got %q", cfg.OpenWeatherAPIKey)
	}
}

func TestPlaceholderKeyIsTreatedAsAbsent(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "your_api_key_here")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "" {
		t.Fatalf("placeholder leaked into config: %q", cfg.OpenWeatherAPIKey)
	}

	t.Setenv("OPENWEATHER_API_KEY", "abcd1234")
	cfg, _ = FromEnv()
	if cfg.OpenWeatherAPIKey != "abcd1234" {
		t.Fatalf("key = %q", cfg.OpenWeatherAPIKey)
	}
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]string{
		"HTTP_TIMEOUT":     "ten",
		"REFRESH_INTERVAL": "15",
		"STORE_MAX_AGE":    "yesterday",
		"PROVIDER_RPS":     "fast",
		"LOG_FORMAT":       "xml",
	}
	for k, v := range cases {
		t.Run(k, func(t *testing.T) {
			t.Setenv(k, v)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error for %s=%s", k, v)
			}
		})
	}
}

func TestRefreshCanBeDisabled(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "0s")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RefreshInterval != 0 {
		t.Fatalf("interval = %v, want 0", cfg.RefreshInterval)
	}
}
