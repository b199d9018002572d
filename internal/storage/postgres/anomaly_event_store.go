package postgres

import (
	"context"
	"fmt"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage"
)

// AnomalyEventStore implements storage.AnomalyEventStore using PostgreSQL.
type AnomalyEventStore struct {
	pool *Pool
}

// NewAnomalyEventStore creates a new AnomalyEventStore.
func NewAnomalyEventStore(pool *Pool) *AnomalyEventStore {
	return &AnomalyEventStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnomalyEventStore = (*AnomalyEventStore)(nil)

const insertAnomalyQuery = `
	INSERT INTO anomaly_events (
		satellite_id, ts, parameter, value, root_cause, severity
	) VALUES ($1, $2, $3, $4, $5, $6)
`

// InsertBulk adds multiple events atomically. Fails the entire batch on any
// duplicate (satellite_id, ts, parameter).
func (s *AnomalyEventStore) InsertBulk(ctx context.Context, events []*domain.AnomalyEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	done := observability.ObserveDBQuery("postgres", "anomaly_insert_bulk")
	defer func() { done(err) }()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range events {
		_, err := tx.Exec(ctx, insertAnomalyQuery,
			e.SatelliteID, e.Timestamp, e.Parameter, e.Value, string(e.RootCause), string(e.Severity),
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert anomaly event: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const selectAnomalyColumns = `
	SELECT satellite_id, ts, parameter, value, root_cause, severity
	FROM anomaly_events
`

// GetBySatelliteID retrieves all events for a satellite, ordered by timestamp ASC.
func (s *AnomalyEventStore) GetBySatelliteID(ctx context.Context, satelliteID string) (_ []*domain.AnomalyEvent, err error) {
	done := observability.ObserveDBQuery("postgres", "anomaly_get_by_satellite")
	defer func() { done(err) }()

	rows, err := s.pool.Query(ctx, selectAnomalyColumns+`
		WHERE satellite_id = $1
		ORDER BY ts ASC, parameter ASC
	`, satelliteID)
	if err != nil {
		return nil, fmt.Errorf("query anomaly events: %w", err)
	}
	defer rows.Close()

	return scanAnomalies(rows)
}

// GetByRootCause retrieves all events carrying the cause, ordered by timestamp ASC.
func (s *AnomalyEventStore) GetByRootCause(ctx context.Context, cause domain.RootCause) (_ []*domain.AnomalyEvent, err error) {
	done := observability.ObserveDBQuery("postgres", "anomaly_get_by_root_cause")
	defer func() { done(err) }()

	rows, err := s.pool.Query(ctx, selectAnomalyColumns+`
		WHERE root_cause = $1
		ORDER BY ts ASC, parameter ASC
	`, string(cause))
	if err != nil {
		return nil, fmt.Errorf("query anomaly events by root cause: %w", err)
	}
	defer rows.Close()

	return scanAnomalies(rows)
}

func scanAnomalies(rows rowScanner) ([]*domain.AnomalyEvent, error) {
	var result []*domain.AnomalyEvent
	for rows.Next() {
		e := &domain.AnomalyEvent{}
		var cause, severity string
		err := rows.Scan(&e.SatelliteID, &e.Timestamp, &e.Parameter, &e.Value, &cause, &severity)
		if err != nil {
			return nil, fmt.Errorf("scan anomaly event: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		e.RootCause = domain.RootCause(cause)
		e.Severity = domain.Severity(severity)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate anomaly rows: %w", err)
	}
	return result, nil
}
