package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	beijing = weather.Location{Name: "Beijing", CountryCode: "CN"}
	tokyo   = weather.Location{Name: "Tokyo", CountryCode: "JP"}
	base    = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
)

func obs(provider string, loc weather.Location, at time.Time, temp float64) weather.Observation {
	return weather.Observation{
		Provider:   provider,
		Location:   loc,
		RecordedAt: at,
		Model:      weather.DisplayModel{TemperatureC: temp},
	}
}

func TestGetLatestIsPerProviderAndLocation(t *testing.T) {
	s := NewMemoryStore(0, 0)
	s.Save(obs("openmeteo", beijing, base, 10))
	s.Save(obs("openmeteo", beijing, base.Add(time.Minute), 11))
	s.Save(obs("openweather", beijing, base, 20))

	got, err := s.GetLatest("openmeteo", beijing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model.TemperatureC != 11 {
		t.Errorf("latest temperature = %v, want 11", got.Model.TemperatureC)
	}

	got, _ = s.GetLatest("openweather", beijing)
	if got.Model.TemperatureC != 20 {
		t.Errorf("openweather temperature = %v, want 20", got.Model.TemperatureC)
	}

	if _, err := s.GetLatest("openmeteo", tokyo); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetentionByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	for i := range 4 {
		s.Save(obs("openmeteo", tokyo, base.Add(time.Duration(i)*time.Minute), float64(i)))
	}

	all, err := s.GetRange("openmeteo", tokyo, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].Model.TemperatureC != 2 || all[1].Model.TemperatureC != 3 {
		t.Fatalf("kept %+v, want the two newest", all)
	}
}

func TestRetentionByAge(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	s.now = func() time.Time { return base.Add(2 * time.Hour) }

	s.Save(obs("openmeteo", tokyo, base, 1))
	if _, err := s.GetLatest("openmeteo", tokyo); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale observation should be dropped, got %v", err)
	}

	s.Save(obs("openmeteo", tokyo, base.Add(90*time.Minute), 2))
	got, err := s.GetLatest("openmeteo", tokyo)
	if err != nil || got.Model.TemperatureC != 2 {
		t.Fatalf("GetLatest = %+v, %v", got, err)
	}
}

func TestGetRangeBounds(t *testing.T) {
	s := NewMemoryStore(0, 0)
	for i := range 5 {
		s.Save(obs("openweather", beijing, base.Add(time.Duration(i)*time.Hour), float64(i)))
	}

	got, err := s.GetRange("openweather", beijing, base.Add(time.Hour), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("range returned %d observations, want 3 (inclusive bounds)", len(got))
	}

	if _, err := s.GetRange("openweather", beijing, base.Add(10*time.Hour), time.Time{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty range, got %v", err)
	}
}
