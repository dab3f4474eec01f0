// Package geocode resolves free-form city names that are not in a provider's
// location registry.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNoAPIKey is returned by Resolve when no geocoding key was configured.
var ErrNoAPIKey = errors.New("geocoder api key not configured")

// The geocoder package keeps its key in a package variable.
var keyMu sync.Mutex

// Resolver looks city names up through the Google geocoding API.
type Resolver struct {
	apiKey string
	lookup func(geocoder.Address) (geocoder.Location, error)
	logger *zap.Logger
}

var _ weather.LocationResolver = (*Resolver)(nil)

// NewResolver returns a Resolver using apiKey. A nil logger discards logs.
func NewResolver(apiKey string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		apiKey: strings.TrimSpace(apiKey),
		lookup: geocoder.Geocoding,
		logger: logger.Named("geocode"),
	}
}

// Resolve returns a location with coordinates for name.
func (r *Resolver) Resolve(ctx context.Context, name string) (weather.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return weather.Location{}, errors.New("empty location name")
	}
	if r.apiKey == "" {
		return weather.Location{}, ErrNoAPIKey
	}
	if err := ctx.Err(); err != nil {
		return weather.Location{}, err
	}

	keyMu.Lock()
	geocoder.ApiKey = r.apiKey
	loc, err := r.lookup(geocoder.Address{City: name})
	keyMu.Unlock()
	if err != nil {
		return weather.Location{}, fmt.Errorf("geocode %q: %w", name, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Location{}, fmt.Errorf("geocode %q: no result", name)
	}

	r.logger.Debug("resolved location",
		zap.String("name", name),
		zap.Float64("lat", loc.Latitude),
		zap.Float64("lon", loc.Longitude),
	)
	return weather.Location{
		Name:  name,
		Coord: &weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude},
	}, nil
}
