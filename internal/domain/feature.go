package domain

import (
	"fmt"
	"time"
)

// RollingWindow is the rolling statistics window in samples (1h at the
// default 10 minute cadence).
const RollingWindow = 6

// ChannelStats holds the engineered statistics for one sensor channel.
type ChannelStats struct {
	Delta       float64 // first difference, 0 for the first sample
	RollingMean float64 // mean over RollingWindow samples; raw value while incomplete
	RollingStd  float64 // std over RollingWindow samples; 0 while incomplete
	Deviation   float64 // raw value - rolling mean
}

// FeatureRow is one engineered feature row, derived 1:1 from a telemetry
// record. Corresponds to the feature_rows table in ClickHouse.
type FeatureRow struct {
	Timestamp   time.Time
	SatelliteID string

	Raw           [NumChannels]float64 // raw channel values in canonical order
	OrbitPosition float64
	InEclipse     bool
	Hour          int
	DayOfWeek     int // Monday = 0, matching the upstream convention

	Stats [NumChannels]ChannelStats

	PowerTempRatio    float64 // power / temperature, zero denominator -> 0.1
	BatteryPowerRatio float64 // battery_health / power, zero denominator -> 0.1

	EclipseChange          float64 // in_eclipse[i] - in_eclipse[i-1], 0 at i=0
	TimeSinceEclipseChange int     // samples since the last eclipse transition

	Anomaly bool
	Causes  [NumRootCauses]float64 // one-hot, independently settable
}

// NumFeatureColumns is the width of Vector(): raw channels, orbit/eclipse,
// time features, per-channel stats, ratios, eclipse features and cause
// indicators. Identifier and label columns are excluded.
const NumFeatureColumns = NumChannels + 4 + NumChannels*4 + 4 + NumRootCauses

// NumBaseFeatureColumns is NumFeatureColumns without the cause indicators,
// used as the root cause model's input width.
const NumBaseFeatureColumns = NumFeatureColumns - NumRootCauses

// FeatureColumns returns the names of the model feature columns in the order
// produced by Vector().
func FeatureColumns() []string {
	cols := make([]string, 0, NumFeatureColumns)
	for _, ch := range Channels() {
		cols = append(cols, ch.Name())
	}
	cols = append(cols, "orbit_position", "in_eclipse", "hour", "day_of_week")
	for _, ch := range Channels() {
		cols = append(cols,
			fmt.Sprintf("%s_delta", ch.Name()),
			fmt.Sprintf("%s_mean_1h", ch.Name()),
			fmt.Sprintf("%s_std_1h", ch.Name()),
			fmt.Sprintf("%s_deviation", ch.Name()),
		)
	}
	cols = append(cols,
		"power_temp_ratio", "battery_power_ratio",
		"eclipse_change", "time_since_eclipse_change",
	)
	for _, cause := range RootCauses() {
		cols = append(cols, fmt.Sprintf("cause_%s", cause))
	}
	return cols
}

// Vector flattens the row into the fixed model feature layout.
func (f *FeatureRow) Vector() []float64 {
	v := make([]float64, 0, NumFeatureColumns)
	v = append(v, f.Raw[:]...)
	v = append(v, f.OrbitPosition, boolToFloat(f.InEclipse), float64(f.Hour), float64(f.DayOfWeek))
	for _, s := range f.Stats {
		v = append(v, s.Delta, s.RollingMean, s.RollingStd, s.Deviation)
	}
	v = append(v, f.PowerTempRatio, f.BatteryPowerRatio, f.EclipseChange, float64(f.TimeSinceEclipseChange))
	v = append(v, f.Causes[:]...)
	return v
}

// BaseVector is Vector() without the trailing cause indicators.
func (f *FeatureRow) BaseVector() []float64 {
	v := f.Vector()
	return v[:NumBaseFeatureColumns]
}

// CauseVector returns the one-hot root cause target vector.
func (f *FeatureRow) CauseVector() []float64 {
	out := make([]float64, NumRootCauses)
	copy(out, f.Causes[:])
	return out
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
