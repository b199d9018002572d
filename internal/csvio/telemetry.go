package csvio

import (
	"fmt"
	"strconv"

	"satellite-health-monitor/internal/domain"
)

var telemetryHeader = []string{
	"timestamp", "satellite_id", "orbit_position", "in_eclipse",
	"power", "temperature", "battery_health", "signal_strength", "memory_usage",
}

// WriteTelemetry writes records to a CSV file, creating parent directories.
func WriteTelemetry(path string, records []*domain.TelemetryRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatTime(r.Timestamp),
			r.SatelliteID,
			formatFloat(r.OrbitPosition),
			formatBool(r.InEclipse),
			formatFloat(r.Power),
			formatFloat(r.Temperature),
			formatFloat(r.BatteryHealth),
			formatFloat(r.SignalStrength),
			formatFloat(r.MemoryUsage),
		})
	}
	return writeFile(path, telemetryHeader, rows)
}

// ReadTelemetry reads records from a CSV file written by WriteTelemetry.
func ReadTelemetry(path string) ([]*domain.TelemetryRecord, error) {
	rows, err := readFile(path, len(telemetryHeader))
	if err != nil {
		return nil, err
	}

	records := make([]*domain.TelemetryRecord, 0, len(rows))
	for i, row := range rows {
		r, err := parseTelemetryRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, r)
	}
	return records, nil
}

func parseTelemetryRow(row []string) (*domain.TelemetryRecord, error) {
	ts, err := parseTime(row[0])
	if err != nil {
		return nil, err
	}
	eclipse, err := parseBool(row[3])
	if err != nil {
		return nil, err
	}

	r := &domain.TelemetryRecord{
		Timestamp:   ts,
		SatelliteID: row[1],
		InEclipse:   eclipse,
	}

	floats := []*float64{
		&r.OrbitPosition, &r.Power, &r.Temperature,
		&r.BatteryHealth, &r.SignalStrength, &r.MemoryUsage,
	}
	cols := []int{2, 4, 5, 6, 7, 8}
	for j, dst := range floats {
		v, err := strconv.ParseFloat(row[cols[j]], 64)
		if err != nil {
			return nil, fmt.Errorf("parse float %q: %w", row[cols[j]], err)
		}
		*dst = v
	}
	return r, nil
}
