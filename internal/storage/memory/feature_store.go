package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/storage"
)

// FeatureStore is an in-memory implementation of storage.FeatureStore.
type FeatureStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FeatureRow // keyed by (satellite_id, timestamp)
}

// NewFeatureStore creates a new in-memory feature store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{data: make(map[string]*domain.FeatureRow)}
}

var _ storage.FeatureStore = (*FeatureStore)(nil)

// InsertBulk adds multiple rows. Fails the entire batch on duplicate.
func (s *FeatureStore) InsertBulk(_ context.Context, rows []*domain.FeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		if r == nil || r.SatelliteID == "" {
			return storage.ErrInvalidInput
		}
		key := telemetryKey(r.SatelliteID, r.Timestamp)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rows {
		rowCopy := *r
		s.data[telemetryKey(r.SatelliteID, r.Timestamp)] = &rowCopy
	}
	return nil
}

// GetBySatelliteID retrieves all rows for a satellite, ordered by timestamp ASC.
func (s *FeatureStore) GetBySatelliteID(_ context.Context, satelliteID string) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.SatelliteID == satelliteID {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}
	sortFeatureRows(result)
	return result, nil
}

// GetByTimeRange retrieves rows within [start, end] inclusive.
func (s *FeatureStore) GetByTimeRange(_ context.Context, satelliteID string, start, end time.Time) ([]*domain.FeatureRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FeatureRow
	for _, r := range s.data {
		if r.SatelliteID == satelliteID && !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			rowCopy := *r
			result = append(result, &rowCopy)
		}
	}
	sortFeatureRows(result)
	return result, nil
}

func sortFeatureRows(rows []*domain.FeatureRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
}
