package geocode

import (
	"context"
	"errors"
	"testing"

	"github.com/kelvins/geocoder"
)

func TestResolve(t *testing.T) {
	r := NewResolver("test-key", nil)
	var gotCity, gotKey string
	r.lookup = func(a geocoder.Address) (geocoder.Location, error) {
		gotCity, gotKey = a.City, geocoder.ApiKey
		return geocoder.Location{Latitude: 59.91, Longitude: 10.75}, nil
	}

	loc, err := r.Resolve(context.Background(), "  Oslo ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCity != "Oslo" || gotKey != "test-key" {
		t.Errorf("lookup called with city %q key %q", gotCity, gotKey)
	}
	if loc.Name != "Oslo" || loc.Coord == nil || loc.Coord.Lat != 59.91 || loc.Coord.Lon != 10.75 {
		t.Fatalf("resolved %+v", loc)
	}
}

func TestResolveFailures(t *testing.T) {
	if _, err := NewResolver("", nil).Resolve(context.Background(), "Oslo"); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}

	r := NewResolver("k", nil)
	r.lookup = func(geocoder.Address) (geocoder.Location, error) {
		return geocoder.Location{}, errors.New("ZERO_RESULTS")
	}
	if _, err := r.Resolve(context.Background(), "Atlantis"); err == nil {
		t.Fatal("expected lookup error")
	}

	r.lookup = func(geocoder.Address) (geocoder.Location, error) { return geocoder.Location{}, nil }
	if _, err := r.Resolve(context.Background(), "Nowhere"); err == nil {
		t.Fatal("expected error for empty result")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Resolve(ctx, "Oslo"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
