package postgres

import (
	"context"
	"fmt"
	"time"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage"
)

// TelemetryStore implements storage.TelemetryStore using PostgreSQL.
type TelemetryStore struct {
	pool *Pool
}

// NewTelemetryStore creates a new TelemetryStore.
func NewTelemetryStore(pool *Pool) *TelemetryStore {
	return &TelemetryStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TelemetryStore = (*TelemetryStore)(nil)

const insertTelemetryQuery = `
	INSERT INTO telemetry (
		satellite_id, ts, orbit_position, in_eclipse,
		power, temperature, battery_health, signal_strength, memory_usage
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// InsertBulk adds multiple records atomically. Fails the entire batch on any
// duplicate (satellite_id, ts).
func (s *TelemetryStore) InsertBulk(ctx context.Context, records []*domain.TelemetryRecord) (err error) {
	if len(records) == 0 {
		return nil
	}
	done := observability.ObserveDBQuery("postgres", "telemetry_insert_bulk")
	defer func() { done(err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		_, err := tx.Exec(ctx, insertTelemetryQuery,
			r.SatelliteID, r.Timestamp, r.OrbitPosition, r.InEclipse,
			r.Power, r.Temperature, r.BatteryHealth, r.SignalStrength, r.MemoryUsage,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert telemetry record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectTelemetryColumns = `
	SELECT satellite_id, ts, orbit_position, in_eclipse,
	       power, temperature, battery_health, signal_strength, memory_usage
	FROM telemetry
`

// GetBySatelliteID retrieves all records for a satellite, ordered by timestamp ASC.
func (s *TelemetryStore) GetBySatelliteID(ctx context.Context, satelliteID string) (_ []*domain.TelemetryRecord, err error) {
	done := observability.ObserveDBQuery("postgres", "telemetry_get_by_satellite")
	defer func() { done(err) }()

	rows, err := s.pool.Query(ctx, selectTelemetryColumns+`
		WHERE satellite_id = $1
		ORDER BY ts ASC
	`, satelliteID)
	if err != nil {
		return nil, fmt.Errorf("query telemetry: %w", err)
	}
	defer rows.Close()

	return scanTelemetry(rows)
}

// GetByTimeRange retrieves records within [start, end] inclusive, ordered by
// timestamp ASC.
func (s *TelemetryStore) GetByTimeRange(ctx context.Context, satelliteID string, start, end time.Time) (_ []*domain.TelemetryRecord, err error) {
	done := observability.ObserveDBQuery("postgres", "telemetry_get_by_time_range")
	defer func() { done(err) }()

	rows, err := s.pool.Query(ctx, selectTelemetryColumns+`
		WHERE satellite_id = $1 AND ts >= $2 AND ts <= $3
		ORDER BY ts ASC
	`, satelliteID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query telemetry by time range: %w", err)
	}
	defer rows.Close()

	return scanTelemetry(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanTelemetry(rows rowScanner) ([]*domain.TelemetryRecord, error) {
	var result []*domain.TelemetryRecord
	for rows.Next() {
		r := &domain.TelemetryRecord{}
		err := rows.Scan(
			&r.SatelliteID, &r.Timestamp, &r.OrbitPosition, &r.InEclipse,
			&r.Power, &r.Temperature, &r.BatteryHealth, &r.SignalStrength, &r.MemoryUsage,
		)
		if err != nil {
			return nil, fmt.Errorf("scan telemetry record: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate telemetry rows: %w", err)
	}
	return result, nil
}
