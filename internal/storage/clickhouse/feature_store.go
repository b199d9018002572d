package clickhouse

import (
	"context"
	"fmt"
	"time"

	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage"
)

// FeatureStore implements storage.FeatureStore using ClickHouse.
type FeatureStore struct {
	conn *Conn
}

// NewFeatureStore creates a new FeatureStore.
func NewFeatureStore(conn *Conn) *FeatureStore {
	return &FeatureStore{conn: conn}
}

// Compile-time interface check.
var _ storage.FeatureStore = (*FeatureStore)(nil)

const featureColumns = `
	satellite_id, ts,
	power, temperature, battery_health, signal_strength, memory_usage,
	orbit_position, in_eclipse, hour, day_of_week,
	power_delta, power_mean_1h, power_std_1h, power_deviation,
	temperature_delta, temperature_mean_1h, temperature_std_1h, temperature_deviation,
	battery_health_delta, battery_health_mean_1h, battery_health_std_1h, battery_health_deviation,
	signal_strength_delta, signal_strength_mean_1h, signal_strength_std_1h, signal_strength_deviation,
	memory_usage_delta, memory_usage_mean_1h, memory_usage_std_1h, memory_usage_deviation,
	power_temp_ratio, battery_power_ratio,
	eclipse_change, time_since_eclipse_change,
	anomaly,
	cause_solar_panel_degradation, cause_cooling_system_failure, cause_battery_cell_degradation,
	cause_antenna_misalignment, cause_memory_leak
`

// InsertBulk adds multiple rows. Fails entire batch on duplicate
// (satellite_id, ts).
func (s *FeatureStore) InsertBulk(ctx context.Context, rows []*domain.FeatureRow) (err error) {
	if len(rows) == 0 {
		return nil
	}
	done := observability.ObserveDBQuery("clickhouse", "feature_insert_bulk")
	defer func() { done(err) }()

	// Check for intra-batch duplicates
	type key struct {
		satelliteID string
		ts          int64
	}
	seen := make(map[key]struct{})
	for _, r := range rows {
		k := key{r.SatelliteID, r.Timestamp.UnixNano()}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, r := range rows {
		exists, err := s.exists(ctx, r.SatelliteID, r.Timestamp)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO feature_rows ("+featureColumns+")")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range rows {
		vals := make([]any, 0, 41)
		vals = append(vals, r.SatelliteID, r.Timestamp.UTC())
		for _, raw := range r.Raw {
			vals = append(vals, raw)
		}
		vals = append(vals, r.OrbitPosition, boolToUint8(r.InEclipse), int32(r.Hour), int32(r.DayOfWeek))
		for _, st := range r.Stats {
			vals = append(vals, st.Delta, st.RollingMean, st.RollingStd, st.Deviation)
		}
		vals = append(vals, r.PowerTempRatio, r.BatteryPowerRatio)
		vals = append(vals, r.EclipseChange, int32(r.TimeSinceEclipseChange))
		vals = append(vals, boolToUint8(r.Anomaly))
		for _, c := range r.Causes {
			vals = append(vals, c)
		}

		if err := batch.Append(vals...); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySatelliteID retrieves all rows for a satellite, ordered by timestamp ASC.
func (s *FeatureStore) GetBySatelliteID(ctx context.Context, satelliteID string) (_ []*domain.FeatureRow, err error) {
	done := observability.ObserveDBQuery("clickhouse", "feature_get_by_satellite")
	defer func() { done(err) }()

	query := "SELECT " + featureColumns + `
		FROM feature_rows
		WHERE satellite_id = ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, satelliteID)
	if err != nil {
		return nil, fmt.Errorf("query by satellite id: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// GetByTimeRange retrieves rows for a satellite within [start, end] (inclusive).
func (s *FeatureStore) GetByTimeRange(ctx context.Context, satelliteID string, start, end time.Time) (_ []*domain.FeatureRow, err error) {
	done := observability.ObserveDBQuery("clickhouse", "feature_get_by_time_range")
	defer func() { done(err) }()

	query := "SELECT " + featureColumns + `
		FROM feature_rows
		WHERE satellite_id = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, satelliteID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanFeatureRows(rows)
}

// exists checks if a row with the given key exists.
func (s *FeatureStore) exists(ctx context.Context, satelliteID string, ts time.Time) (bool, error) {
	query := `
		SELECT count(*) FROM feature_rows
		WHERE satellite_id = ? AND ts = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, satelliteID, ts.UTC()).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func boolToUint8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// scanFeatureRows scans multiple rows.
func scanFeatureRows(rows chRows) ([]*domain.FeatureRow, error) {
	var result []*domain.FeatureRow

	for rows.Next() {
		var r domain.FeatureRow
		var inEclipse, anomaly uint8
		var hour, dayOfWeek, timeSinceEclipseChange int32

		dest := make([]any, 0, 41)
		dest = append(dest, &r.SatelliteID, &r.Timestamp)
		for i := range r.Raw {
			dest = append(dest, &r.Raw[i])
		}
		dest = append(dest, &r.OrbitPosition, &inEclipse, &hour, &dayOfWeek)
		for i := range r.Stats {
			dest = append(dest, &r.Stats[i].Delta, &r.Stats[i].RollingMean, &r.Stats[i].RollingStd, &r.Stats[i].Deviation)
		}
		dest = append(dest, &r.PowerTempRatio, &r.BatteryPowerRatio)
		dest = append(dest, &r.EclipseChange, &timeSinceEclipseChange)
		dest = append(dest, &anomaly)
		for i := range r.Causes {
			dest = append(dest, &r.Causes[i])
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan feature row: %w", err)
		}

		r.Timestamp = r.Timestamp.UTC()
		r.InEclipse = inEclipse != 0
		r.Anomaly = anomaly != 0
		r.Hour = int(hour)
		r.DayOfWeek = int(dayOfWeek)
		r.TimeSinceEclipseChange = int(timeSinceEclipseChange)

		result = append(result, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feature rows: %w", err)
	}

	return result, nil
}
