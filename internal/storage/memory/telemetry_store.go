// Package memory provides in-memory store implementations, used by the
// in-process pipeline and by tests.
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

// TelemetryStore is an in-memory implementation of storage.TelemetryStore.
type TelemetryStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TelemetryRecord // keyed by (satellite_id, timestamp)
}

// NewTelemetryStore creates a new in-memory telemetry store.
func NewTelemetryStore() *TelemetryStore {
	return &TelemetryStore{data: make(map[string]*domain.TelemetryRecord)}
}

var _ storage.TelemetryStore = (*TelemetryStore)(nil)

func telemetryKey(satelliteID string, ts time.Time) string {
	return fmt.Sprintf("%s|%d", satelliteID, ts.UnixNano())
}

// InsertBulk adds multiple records. Fails the entire batch on duplicate.
func (s *TelemetryStore) InsertBulk(_ context.Context, records []*domain.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(records))
	for _, r := range records {
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

	for _, r := range records {
		recordCopy := *r
		s.data[telemetryKey(r.SatelliteID, r.Timestamp)] = &recordCopy
	}
	return nil
}

// GetBySatelliteID retrieves all records for a satellite, ordered by timestamp ASC.
func (s *TelemetryStore) GetBySatelliteID(_ context.Context, satelliteID string) ([]*domain.TelemetryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TelemetryRecord
	for _, r := range s.data {
		if r.SatelliteID == satelliteID {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	sortTelemetry(result)
	return result, nil
}

// GetByTimeRange retrieves records within [start, end] inclusive.
func (s *TelemetryStore) GetByTimeRange(_ context.Context, satelliteID string, start, end time.Time) ([]*domain.TelemetryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TelemetryRecord
	for _, r := range s.data {
		if r.SatelliteID == satelliteID && !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}
	sortTelemetry(result)
	return result, nil
}

func sortTelemetry(records []*domain.TelemetryRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
