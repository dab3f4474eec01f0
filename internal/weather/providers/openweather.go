package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	OpenWeatherName           = "openweather"
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"
	DefaultOpenWeatherLang    = "zh_cn"

	openWeatherIconURL = "https://openweathermap.org/img/wn/%s@4x.png"
)

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name      string
	baseURL   string
	lang      string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	localizer *weather.Localizer
	registry  *weather.Registry
}

// NewOpenWeatherProvider builds the provider. registry is used to find the
// localized name of the city the API answers with; it may be nil.
func NewOpenWeatherProvider(cfg HTTPClientConfig, lang string, localizer *weather.Localizer, registry *weather.Registry) *OpenWeatherProvider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenWeatherBaseURL
	}
	if lang == "" {
		lang = DefaultOpenWeatherLang
	}
	return &OpenWeatherProvider{
		name:      OpenWeatherName,
		baseURL:   strings.TrimRight(base, "/"),
		lang:      lang,
		httpCfg:   cfg,
		circuit:   newCircuit(OpenWeatherName),
		localizer: localizer,
		registry:  registry,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) RequiresCredential() bool {
	return true
}

// RequestURL builds the current-conditions URL for loc.
func (p *OpenWeatherProvider) RequestURL(loc weather.Location, apiKey string) (string, url.Values) {
	q := loc.Name
	if loc.CountryCode != "" {
		q = fmt.Sprintf("%s,%s", loc.Name, loc.CountryCode)
	}

	values := url.Values{}
	values.Set("q", q)
	values.Set("appid", apiKey)
	values.Set("units", "metric")
	values.Set("lang", p.lang)
	return p.baseURL + "/data/2.5/weather", values
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, loc weather.Location, apiKey string) (weather.DisplayModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return weather.DisplayModel{}, weather.NewFetchError(weather.KindMissingCredential, nil)
	}

	endpoint, values := p.RequestURL(loc, apiKey)
	body, err := doRequest(ctx, p.httpCfg, p.circuit, p.name, endpoint, values, "appid")
	if err != nil {
		return weather.DisplayModel{}, err
	}
	return NormalizeOpenWeather(body, p.registry, p.localizer)
}

type openWeatherPayload struct {
	Coord *struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility float64 `json:"visibility"`
	Wind       *struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Sys *struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
}

// NormalizeOpenWeather maps a raw OpenWeatherMap current-weather body onto a
// DisplayModel.
func NormalizeOpenWeather(body []byte, registry *weather.Registry, l *weather.Localizer) (weather.DisplayModel, error) {
	var payload openWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.DisplayModel{}, malformed("decode openweather payload: %v", err)
	}
	switch {
	case payload.Main == nil:
		return weather.DisplayModel{}, malformed("missing main block")
	case len(payload.Weather) == 0:
		return weather.DisplayModel{}, malformed("missing weather[0]")
	case payload.Wind == nil:
		return weather.DisplayModel{}, malformed("missing wind block")
	case payload.Sys == nil:
		return weather.DisplayModel{}, malformed("missing sys block")
	case payload.Coord == nil:
		return weather.DisplayModel{}, malformed("missing coord block")
	}

	loc := weather.Location{Name: payload.Name, CountryCode: payload.Sys.Country}
	if registry != nil {
		if known, ok := registry.ByName(payload.Name); ok {
			loc.LocalName = known.LocalName
		}
	}

	cond := payload.Weather[0]
	clouds := payload.Clouds.All
	return weather.DisplayModel{
		Provider:       OpenWeatherName,
		Location:       loc,
		Coordinates:    weather.Coordinates{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
		TemperatureC:   payload.Main.Temp,
		FeelsLikeC:     payload.Main.FeelsLike,
		HumidityPct:    payload.Main.Humidity,
		WindSpeed:      payload.Wind.Speed,
		WindSpeedUnit:  "m/s",
		WindDegrees:    payload.Wind.Deg,
		WindPoint:      weather.CompassPointFor(payload.Wind.Deg),
		WindDirection:  l.Compass(payload.Wind.Deg),
		CloudCoverPct:  &clouds,
		Condition:      weather.Condition(cond.Main),
		ConditionLabel: l.Phrase(cond.Description),
		Icon:           fmt.Sprintf(openWeatherIconURL, cond.Icon),
		PressureHpa:    payload.Main.Pressure,
		VisibilityKm:   payload.Visibility / 1000,
		MinTempC:       payload.Main.TempMin,
		MaxTempC:       payload.Main.TempMax,
		Sunrise:        weather.FormatClock(payload.Sys.Sunrise, payload.Timezone),
		Sunset:         weather.FormatClock(payload.Sys.Sunset, payload.Timezone),
		TimezoneHours:  float64(payload.Timezone) / 3600,
		CityID:         payload.ID,
	}, nil
}
