package store

import (
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrNotFound is returned when no data is available for a given location.
var ErrNotFound = weather.ErrNotFound

// recordHistory holds the daily records of a location in ascending date order.
type recordHistory struct {
	Records []weather.ObservationRecord
}

// MemoryStore is a concurrency-safe in-memory implementation of weather.Store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location key, value: history
	data map[string]*recordHistory

	// retention configuration
	maxHistory int           // max number of days kept per location
	maxAge     time.Duration // optional max age of a record's date
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*recordHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SaveRecords upserts records by date for a location and enforces retention.
func (s *MemoryStore) SaveRecords(loc weather.Location, records []weather.ObservationRecord) error {
	key := loc.Key()

	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[key]
	if !ok {
		history = &recordHistory{}
		s.data[key] = history
	}

	byDate := make(map[string]int, len(history.Records))
	for i, r := range history.Records {
		byDate[r.Date.String()] = i
	}
	for _, r := range records {
		if i, exists := byDate[r.Date.String()]; exists {
			history.Records[i] = r
			continue
		}
		byDate[r.Date.String()] = len(history.Records)
		history.Records = append(history.Records, r)
	}
	sort.Slice(history.Records, func(i, j int) bool {
		return history.Records[i].Date.Before(history.Records[j].Date.Time)
	})

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := weather.NewDate(s.now().Add(-s.maxAge))
		i := 0
		for ; i < len(history.Records); i++ {
			if !history.Records[i].Date.Before(cutoff.Time) {
				break
			}
		}
		history.Records = history.Records[i:]
	}
	return nil
}

// GetLatest returns the most recent record for a location.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.ObservationRecord, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return weather.ObservationRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// GetRange returns all records for a location dated between from and to (inclusive).
func (s *MemoryStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.ObservationRecord, error) {
	key := loc.Key()
	start, end := weather.NewDate(from), weather.NewDate(to)

	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[key]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.ObservationRecord
	for _, r := range history.Records {
		if !r.Date.Before(start.Time) && !r.Date.After(end.Time) {
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}
