// Package features derives engineered model features from raw telemetry:
// rolling statistics, deltas, cross-channel ratios, eclipse-transition
// timing, and an optional anomaly label merge.
package features

import (
	"satellite-health-monitor/internal/domain"
)

// zeroDenominator is substituted for a zero denominator in the
// cross-channel ratios instead of propagating a division fault.
const zeroDenominator = 0.1

// Engineer computes the engineered feature table from a telemetry table and
// an optional anomaly table. Rows lacking full rolling-window history are
// dropped, so the output is len(records) - (RollingWindow - 1) rows long.
//
// The function is pure: inputs are not mutated.
func Engineer(records []*domain.TelemetryRecord, events []*domain.AnomalyEvent) []*domain.FeatureRow {
	n := len(records)
	if n == 0 {
		return nil
	}

	// Per-channel raw series.
	raw := make([][]float64, domain.NumChannels)
	for ci, ch := range domain.Channels() {
		raw[ci] = make([]float64, n)
		for i, r := range records {
			raw[ci][i] = r.Value(ch)
		}
	}

	// Per-channel engineered series.
	deltas := make([][]float64, domain.NumChannels)
	means := make([][]float64, domain.NumChannels)
	stds := make([][]float64, domain.NumChannels)
	for ci := range raw {
		deltas[ci] = Delta(raw[ci])
		means[ci] = RollingMean(raw[ci], domain.RollingWindow)
		stds[ci] = RollingStd(raw[ci], domain.RollingWindow)
	}

	flags := make([]bool, n)
	for i, r := range records {
		flags[i] = r.InEclipse
	}
	eclipseChange := EclipseChange(flags)
	eclipseCounter := EclipseTransitionCounter(flags)

	labels := indexEvents(events)

	rows := make([]*domain.FeatureRow, 0, n)
	for i, r := range records {
		row := &domain.FeatureRow{
			Timestamp:     r.Timestamp,
			SatelliteID:   r.SatelliteID,
			OrbitPosition: r.OrbitPosition,
			InEclipse:     r.InEclipse,
			Hour:          r.Timestamp.Hour(),
			DayOfWeek:     (int(r.Timestamp.Weekday()) + 6) % 7, // Monday=0

			PowerTempRatio:    ratio(r.Power, r.Temperature),
			BatteryPowerRatio: ratio(r.BatteryHealth, r.Power),

			EclipseChange:          eclipseChange[i],
			TimeSinceEclipseChange: eclipseCounter[i],
		}
		for ci := range domain.Channels() {
			row.Raw[ci] = raw[ci][i]
			row.Stats[ci] = domain.ChannelStats{
				Delta:       deltas[ci][i],
				RollingMean: means[ci][i],
				RollingStd:  stds[ci][i],
				Deviation:   raw[ci][i] - means[ci][i],
			}
		}

		for _, ev := range labels[labelKey{r.SatelliteID, r.Timestamp.UnixNano()}] {
			row.Anomaly = true
			if idx := ev.RootCause.Index(); idx >= 0 {
				row.Causes[idx] = 1
			}
		}

		rows = append(rows, row)
	}

	// Drop rows with insufficient rolling-window history.
	if len(rows) >= domain.RollingWindow {
		return rows[domain.RollingWindow-1:]
	}
	return nil
}

func ratio(num, den float64) float64 {
	if den == 0 {
		den = zeroDenominator
	}
	return num / den
}

type labelKey struct {
	satelliteID string
	unixNano    int64
}

// indexEvents builds an exact-timestamp lookup for the anomaly merge.
func indexEvents(events []*domain.AnomalyEvent) map[labelKey][]*domain.AnomalyEvent {
	if len(events) == 0 {
		return nil
	}
	idx := make(map[labelKey][]*domain.AnomalyEvent, len(events))
	for _, ev := range events {
		k := labelKey{ev.SatelliteID, ev.Timestamp.UnixNano()}
		idx[k] = append(idx[k], ev)
	}
	return idx
}
