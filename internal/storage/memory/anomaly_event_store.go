package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/storage"
)

// AnomalyEventStore is an in-memory implementation of storage.AnomalyEventStore.
type AnomalyEventStore struct {
	mu   sync.RWMutex
	data map[string]*domain.AnomalyEvent // keyed by (satellite_id, timestamp, parameter)
}

// NewAnomalyEventStore creates a new in-memory anomaly event store.
func NewAnomalyEventStore() *AnomalyEventStore {
	return &AnomalyEventStore{data: make(map[string]*domain.AnomalyEvent)}
}

var _ storage.AnomalyEventStore = (*AnomalyEventStore)(nil)

func anomalyKey(satelliteID string, ts time.Time, parameter string) string {
	return fmt.Sprintf("%s|%d|%s", satelliteID, ts.UnixNano(), parameter)
}

// InsertBulk adds multiple events. Fails the entire batch on duplicate.
func (s *AnomalyEventStore) InsertBulk(_ context.Context, events []*domain.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(events))
	for _, e := range events {
		if e == nil || e.SatelliteID == "" || !e.RootCause.Valid() {
			return storage.ErrInvalidInput
		}
		key := anomalyKey(e.SatelliteID, e.Timestamp, e.Parameter)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, e := range events {
		eventCopy := *e
		s.data[anomalyKey(e.SatelliteID, e.Timestamp, e.Parameter)] = &eventCopy
	}
	return nil
}

// GetBySatelliteID retrieves all events for a satellite, ordered by timestamp ASC.
func (s *AnomalyEventStore) GetBySatelliteID(_ context.Context, satelliteID string) ([]*domain.AnomalyEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnomalyEvent
	for _, e := range s.data {
		if e.SatelliteID == satelliteID {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}
	sortEvents(result)
	return result, nil
}

// GetByRootCause retrieves all events carrying the cause, ordered by timestamp ASC.
func (s *AnomalyEventStore) GetByRootCause(_ context.Context, cause domain.RootCause) ([]*domain.AnomalyEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AnomalyEvent
	for _, e := range s.data {
		if e.RootCause == cause {
			eventCopy := *e
			result = append(result, &eventCopy)
		}
	}
	sortEvents(result)
	return result, nil
}

func sortEvents(events []*domain.AnomalyEvent) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.Before(events[j].Timestamp)
		}
		return events[i].Parameter < events[j].Parameter
	})
}
