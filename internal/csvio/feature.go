package csvio

import (
	"fmt"
	"math"

	"satellite-health-monitor/internal/domain"
)

func featureHeader() []string {
	header := []string{"timestamp", "satellite_id"}
	header = append(header, domain.FeatureColumns()...)
	header = append(header, "anomaly")
	return header
}

// WriteFeatures writes engineered rows to a CSV file. Columns follow
// domain.FeatureColumns with identifier columns first and the anomaly
// label last.
func WriteFeatures(path string, rows []*domain.FeatureRow) error {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		record := make([]string, 0, 2+domain.NumFeatureColumns+1)
		record = append(record, formatTime(r.Timestamp), r.SatelliteID)
		for _, v := range r.Vector() {
			record = append(record, formatFloat(v))
		}
		record = append(record, formatBool(r.Anomaly))
		out = append(out, record)
	}
	return writeFile(path, featureHeader(), out)
}

// ReadFeatures reads rows from a CSV file written by WriteFeatures.
func ReadFeatures(path string) ([]*domain.FeatureRow, error) {
	records, err := readFile(path, 2+domain.NumFeatureColumns+1)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.FeatureRow, 0, len(records))
	for i, record := range records {
		r, err := parseFeatureRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func parseFeatureRecord(record []string) (*domain.FeatureRow, error) {
	ts, err := parseTime(record[0])
	if err != nil {
		return nil, err
	}

	vec := make([]float64, domain.NumFeatureColumns)
	for i := range vec {
		v, err := parseFloat(record[2+i])
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}

	anomaly, err := parseBool(record[2+domain.NumFeatureColumns])
	if err != nil {
		return nil, err
	}

	r := &domain.FeatureRow{
		Timestamp:   ts,
		SatelliteID: record[1],
		Anomaly:     anomaly,
	}
	featureRowFromVector(r, vec)
	return r, nil
}

// featureRowFromVector is the inverse of FeatureRow.Vector.
func featureRowFromVector(r *domain.FeatureRow, vec []float64) {
	i := 0
	for c := range r.Raw {
		r.Raw[c] = vec[i]
		i++
	}
	r.OrbitPosition = vec[i]
	r.InEclipse = vec[i+1] != 0
	r.Hour = int(math.Round(vec[i+2]))
	r.DayOfWeek = int(math.Round(vec[i+3]))
	i += 4
	for c := range r.Stats {
		r.Stats[c].Delta = vec[i]
		r.Stats[c].RollingMean = vec[i+1]
		r.Stats[c].RollingStd = vec[i+2]
		r.Stats[c].Deviation = vec[i+3]
		i += 4
	}
	r.PowerTempRatio = vec[i]
	r.BatteryPowerRatio = vec[i+1]
	r.EclipseChange = vec[i+2]
	r.TimeSinceEclipseChange = int(math.Round(vec[i+3]))
	i += 4
	for c := range r.Causes {
		r.Causes[c] = vec[i]
		i++
	}
}
