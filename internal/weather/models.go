package weather

import "strings"

// Condition is the provider-independent key of a weather condition.
// Localized labels are looked up through a Localizer.
type Condition string

const (
	ConditionUnknown               Condition = "Unknown"
	ConditionClear                 Condition = "Clear"
	ConditionMostlyClear           Condition = "MostlyClear"
	ConditionPartlyCloudy          Condition = "PartlyCloudy"
	ConditionOvercast              Condition = "Overcast"
	ConditionFog                   Condition = "Fog"
	ConditionDrizzleLight          Condition = "DrizzleLight"
	ConditionDrizzleModerate       Condition = "DrizzleModerate"
	ConditionDrizzleDense          Condition = "DrizzleDense"
	ConditionFreezingDrizzleLight  Condition = "FreezingDrizzleLight"
	ConditionFreezingDrizzleDense  Condition = "FreezingDrizzleDense"
	ConditionRainLight             Condition = "RainLight"
	ConditionRainModerate          Condition = "RainModerate"
	ConditionRainHeavy             Condition = "RainHeavy"
	ConditionFreezingRainLight     Condition = "FreezingRainLight"
	ConditionFreezingRainDense     Condition = "FreezingRainDense"
	ConditionSnowLight             Condition = "SnowLight"
	ConditionSnowModerate          Condition = "SnowModerate"
	ConditionSnowHeavy             Condition = "SnowHeavy"
	ConditionSnowGrains            Condition = "SnowGrains"
	ConditionRainShowersLight      Condition = "RainShowersLight"
	ConditionRainShowersModerate   Condition = "RainShowersModerate"
	ConditionRainShowersHeavy      Condition = "RainShowersHeavy"
	ConditionSnowShowersLight      Condition = "SnowShowersLight"
	ConditionSnowShowersHeavy      Condition = "SnowShowersHeavy"
	ConditionThunderstorm          Condition = "Thunderstorm"
	ConditionThunderstormHailLight Condition = "ThunderstormWithHailLight"
	ConditionThunderstormHailHeavy Condition = "ThunderstormWithHailHeavy"
)

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Location represents a logical place the dashboard can show.
// Open-Meteo locations carry Coord; OpenWeatherMap locations carry CountryCode.
type Location struct {
	Name        string       `json:"name"`
	LocalName   string       `json:"localName,omitempty"`
	Country     string       `json:"country,omitempty"`
	CountryCode string       `json:"countryCode,omitempty"`
	Coord       *Coordinates `json:"coord,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores.
func (l Location) Key() string {
	country := l.CountryCode
	if country == "" {
		country = l.Country
	}
	return strings.ToLower(l.Name) + ":" + strings.ToLower(country)
}

// DisplayName prefers the localized name.
func (l Location) DisplayName() string {
	if l.LocalName != "" {
		return l.LocalName
	}
	return l.Name
}

// DailyForecast is one entry of the short daily outlook.
type DailyForecast struct {
	Date           string    `json:"date"`
	Label          string    `json:"label"`
	MaxTempC       float64   `json:"maxTempC"`
	MinTempC       float64   `json:"minTempC"`
	Condition      Condition `json:"condition"`
	ConditionLabel string    `json:"conditionLabel"`
	Icon           string    `json:"icon"`
}

// DisplayModel is the normalized, UI-ready weather snapshot. It is only built
// from a successfully decoded 200 response and is replaced wholesale on every fetch.
type DisplayModel struct {
	Provider string `json:"provider"`

	Location    Location    `json:"location"`
	Coordinates Coordinates `json:"coordinates"`

	TemperatureC float64 `json:"temperatureC"`
	FeelsLikeC   float64 `json:"feelsLikeC"`
	HumidityPct  float64 `json:"humidityPercent"`

	WindSpeed     float64      `json:"windSpeed"`
	WindSpeedUnit string       `json:"windSpeedUnit"`
	WindDegrees   float64      `json:"windDegrees"`
	WindPoint     CompassPoint `json:"windPoint"`
	WindDirection string       `json:"windDirection"`

	// Open-Meteo reports precipitation, OpenWeatherMap cloud cover.
	PrecipitationMm *float64 `json:"precipitationMm,omitempty"`
	CloudCoverPct   *float64 `json:"cloudCoverPercent,omitempty"`

	Condition      Condition `json:"condition"`
	ConditionLabel string    `json:"conditionLabel"`
	Icon           string    `json:"icon"`

	IsDay *bool `json:"isDay,omitempty"`

	PressureHpa   float64 `json:"pressureHpa,omitempty"`
	VisibilityKm  float64 `json:"visibilityKm,omitempty"`
	MinTempC      float64 `json:"minTempC,omitempty"`
	MaxTempC      float64 `json:"maxTempC,omitempty"`
	Sunrise       string  `json:"sunrise,omitempty"`
	Sunset        string  `json:"sunset,omitempty"`
	TimezoneHours float64 `json:"timezoneHours,omitempty"`
	CityID        int64   `json:"cityId,omitempty"`

	Daily []DailyForecast `json:"daily,omitempty"`
}
