package csvio

import (
	"fmt"

	"satellite-health-monitor/internal/domain"
)

var anomalyHeader = []string{
	"timestamp", "satellite_id", "parameter", "value", "root_cause", "severity",
}

// WriteAnomalies writes events to a CSV file, creating parent directories.
func WriteAnomalies(path string, events []*domain.AnomalyEvent) error {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{
			formatTime(e.Timestamp),
			e.SatelliteID,
			e.Parameter,
			formatFloat(e.Value),
			string(e.RootCause),
			string(e.Severity),
		})
	}
	return writeFile(path, anomalyHeader, rows)
}

// ReadAnomalies reads events from a CSV file written by WriteAnomalies.
func ReadAnomalies(path string) ([]*domain.AnomalyEvent, error) {
	rows, err := readFile(path, len(anomalyHeader))
	if err != nil {
		return nil, err
	}

	events := make([]*domain.AnomalyEvent, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTime(row[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		value, err := parseFloat(row[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		cause := domain.RootCause(row[4])
		if !cause.Valid() {
			return nil, fmt.Errorf("row %d: unknown root cause %q", i+1, row[4])
		}

		events = append(events, &domain.AnomalyEvent{
			Timestamp:   ts,
			SatelliteID: row[1],
			Parameter:   row[2],
			Value:       value,
			RootCause:   cause,
			Severity:    domain.Severity(row[5]),
		})
	}
	return events, nil
}
