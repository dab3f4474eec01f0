package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	OpenMeteoName           = "openmeteo"
	DefaultOpenMeteoBaseURL = "https://api.open-meteo.com"

	openMeteoCurrentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,wind_speed_10m,wind_direction_10m"
	openMeteoDailyFields   = "temperature_2m_max,temperature_2m_min,weather_code"

	// forecastDays is how many daily entries the dashboard shows.
	forecastDays = 4
)

// OpenMeteoProvider implements weather.Provider for Open-Meteo. No key required.
type OpenMeteoProvider struct {
	name      string
	baseURL   string
	httpCfg   HTTPClientConfig
	circuit   *gobreaker.CircuitBreaker
	localizer *weather.Localizer
}

func NewOpenMeteoProvider(cfg HTTPClientConfig, localizer *weather.Localizer) *OpenMeteoProvider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenMeteoBaseURL
	}
	return &OpenMeteoProvider{
		name:      OpenMeteoName,
		baseURL:   strings.TrimRight(base, "/"),
		httpCfg:   cfg,
		circuit:   newCircuit(OpenMeteoName),
		localizer: localizer,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) RequiresCredential() bool {
	return false
}

// RequestURL builds the forecast URL for loc.
func (p *OpenMeteoProvider) RequestURL(loc weather.Location) (string, url.Values, error) {
	if loc.Coord == nil {
		return "", nil, fmt.Errorf("openmeteo requires latitude and longitude for %q", loc.Name)
	}
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(loc.Coord.Lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(loc.Coord.Lon, 'f', -1, 64))
	values.Set("current", openMeteoCurrentFields)
	values.Set("daily", openMeteoDailyFields)
	values.Set("timezone", "auto")
	return p.baseURL + "/v1/forecast", values, nil
}

// Fetch ignores credential.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, loc weather.Location, _ string) (weather.DisplayModel, error) {
	endpoint, values, err := p.RequestURL(loc)
	if err != nil {
		return weather.DisplayModel{}, weather.NewFetchError(weather.KindLocationNotFound, err)
	}

	body, err := doRequest(ctx, p.httpCfg, p.circuit, p.name, endpoint, values)
	if err != nil {
		return weather.DisplayModel{}, err
	}
	return NormalizeOpenMeteo(body, loc, p.localizer)
}

type openMeteoPayload struct {
	Current *struct {
		Temperature      *float64 `json:"temperature_2m"`
		RelativeHumidity *float64 `json:"relative_humidity_2m"`
		Apparent         *float64 `json:"apparent_temperature"`
		IsDay            *int     `json:"is_day"`
		Precipitation    *float64 `json:"precipitation"`
		WeatherCode      *int     `json:"weather_code"`
		WindSpeed        *float64 `json:"wind_speed_10m"`
		WindDirection    *float64 `json:"wind_direction_10m"`
	} `json:"current"`
	Daily *struct {
		Time        []string  `json:"time"`
		TempMax     []float64 `json:"temperature_2m_max"`
		TempMin     []float64 `json:"temperature_2m_min"`
		WeatherCode []int     `json:"weather_code"`
	} `json:"daily"`
}

// NormalizeOpenMeteo maps a raw Open-Meteo forecast body onto a DisplayModel.
// loc is echoed back since the API does not return place names.
func NormalizeOpenMeteo(body []byte, loc weather.Location, l *weather.Localizer) (weather.DisplayModel, error) {
	var payload openMeteoPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.DisplayModel{}, malformed("decode openmeteo payload: %v", err)
	}

	cur := payload.Current
	if cur == nil {
		return weather.DisplayModel{}, malformed("openmeteo payload has no current block")
	}
	switch {
	case cur.Temperature == nil:
		return weather.DisplayModel{}, malformed("missing current.temperature_2m")
	case cur.Apparent == nil:
		return weather.DisplayModel{}, malformed("missing current.apparent_temperature")
	case cur.RelativeHumidity == nil:
		return weather.DisplayModel{}, malformed("missing current.relative_humidity_2m")
	case cur.WeatherCode == nil:
		return weather.DisplayModel{}, malformed("missing current.weather_code")
	case cur.WindSpeed == nil || cur.WindDirection == nil:
		return weather.DisplayModel{}, malformed("missing current wind fields")
	case cur.Precipitation == nil:
		return weather.DisplayModel{}, malformed("missing current.precipitation")
	}

	daily := payload.Daily
	if daily == nil {
		return weather.DisplayModel{}, malformed("openmeteo payload has no daily block")
	}
	n := len(daily.Time)
	if len(daily.TempMax) != n || len(daily.TempMin) != n || len(daily.WeatherCode) != n {
		return weather.DisplayModel{}, malformed("daily arrays differ in length")
	}

	code := *cur.WeatherCode
	precip := *cur.Precipitation
	model := weather.DisplayModel{
		Provider:        OpenMeteoName,
		Location:        loc,
		TemperatureC:    *cur.Temperature,
		FeelsLikeC:      *cur.Apparent,
		HumidityPct:     *cur.RelativeHumidity,
		WindSpeed:       *cur.WindSpeed,
		WindSpeedUnit:   "km/h",
		WindDegrees:     *cur.WindDirection,
		WindPoint:       weather.CompassPointFor(*cur.WindDirection),
		WindDirection:   l.Compass(*cur.WindDirection),
		PrecipitationMm: &precip,
		Condition:       weather.ConditionForCode(code),
		ConditionLabel:  l.CodeLabel(code),
		Icon:            weather.IconForCode(code),
	}
	if loc.Coord != nil {
		model.Coordinates = *loc.Coord
	}
	if cur.IsDay != nil {
		isDay := *cur.IsDay == 1
		model.IsDay = &isDay
	}

	days := min(n, forecastDays)
	model.Daily = make([]weather.DailyForecast, 0, days)
	for i := 0; i < days; i++ {
		dc := daily.WeatherCode[i]
		model.Daily = append(model.Daily, weather.DailyForecast{
			Date:           daily.Time[i],
			Label:          l.DayLabel(daily.Time[i]),
			MaxTempC:       daily.TempMax[i],
			MinTempC:       daily.TempMin[i],
			Condition:      weather.ConditionForCode(dc),
			ConditionLabel: l.CodeLabel(dc),
			Icon:           weather.IconForCode(dc),
		})
	}

	return model, nil
}
