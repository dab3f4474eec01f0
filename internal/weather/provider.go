package weather

import (
	"context"
	"time"
)

// Provider abstracts one weather data source (Open-Meteo, OpenWeatherMap).
// Fetch issues exactly one outbound call and returns a normalized model or a
// *FetchError.
type Provider interface {
	Name() string
	RequiresCredential() bool
	Fetch(ctx context.Context, loc Location, credential string) (DisplayModel, error)
}

// Observation is a successful fetch recorded for history.
type Observation struct {
	Provider   string       `json:"provider"`
	Location   Location     `json:"location"`
	RecordedAt time.Time    `json:"recordedAt"` // always UTC
	Model      DisplayModel `json:"model"`
}

// Store is the contract the in-memory history store must satisfy.
type Store interface {
	Save(obs Observation)
	GetLatest(provider string, loc Location) (Observation, error)
	GetRange(provider string, loc Location, from, to time.Time) ([]Observation, error)
}
