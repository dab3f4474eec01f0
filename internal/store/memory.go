package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no observation is available for a provider/location.
	ErrNotFound = errors.New("no weather observations for location")
)

var _ weather.Store = (*MemoryStore)(nil)

// history holds a time-ordered list of observations for one provider/location.
type history struct {
	observations []weather.Observation
}

// MemoryStore is a concurrency-safe in-memory history of successful fetches.
type MemoryStore struct {
	mu sync.RWMutex

	// key: provider + "|" + location key
	data map[string]*history

	maxHistory int           // max observations per key (<= 0 = unlimited)
	maxAge     time.Duration // max observation age (<= 0 = unlimited)

	now func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*history),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

func storeKey(provider string, loc weather.Location) string {
	return provider + "|" + loc.Key()
}

// Save appends an observation and enforces retention.
func (s *MemoryStore) Save(obs weather.Observation) {
	key := storeKey(obs.Provider, obs.Location)

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.data[key]
	if !ok {
		h = &history{}
		s.data[key] = h
	}
	h.observations = append(h.observations, obs)

	if s.maxHistory > 0 && len(h.observations) > s.maxHistory {
		over := len(h.observations) - s.maxHistory
		h.observations = h.observations[over:]
	}

	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		i := 0
		for ; i < len(h.observations); i++ {
			if !h.observations[i].RecordedAt.Before(cutoff) {
				break
			}
		}
		h.observations = h.observations[i:]
	}
}

// GetLatest returns the most recent observation for provider/location.
func (s *MemoryStore) GetLatest(provider string, loc weather.Location) (weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[storeKey(provider, loc)]
	if !ok || len(h.observations) == 0 {
		return weather.Observation{}, ErrNotFound
	}
	return h.observations[len(h.observations)-1], nil
}

// GetRange returns observations recorded between from and to (inclusive).
// A zero from or to leaves that side open.
func (s *MemoryStore) GetRange(provider string, loc weather.Location, from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[storeKey(provider, loc)]
	if !ok || len(h.observations) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.Observation
	for _, obs := range h.observations {
		if !from.IsZero() && obs.RecordedAt.Before(from) {
			continue
		}
		if !to.IsZero() && obs.RecordedAt.After(to) {
			continue
		}
		result = append(result, obs)
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
