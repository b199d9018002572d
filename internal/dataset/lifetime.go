package dataset

import (
	"satellite-health-monitor/internal/domain"
)

// Battery end-of-life derivation constants.
const (
	batteryEOL       = 60.0  // health percentage treated as end of life
	maxDaysToEOL     = 500.0 // cap when the battery is stable or improving
	minBatteryRate   = -1.0  // rows with steeper decline are discarded as noise
	maxBatteryRate   = 0.1
)

// RegressionDataset is a flat feature matrix with a scalar regression target.
type RegressionDataset struct {
	X        [][]float64
	Y        []float64
	Features []string
}

// Len returns the number of rows.
func (d *RegressionDataset) Len() int { return len(d.X) }

// LifetimeFeatures names the regression inputs in column order.
func LifetimeFeatures() []string {
	return []string{
		"battery_health", "power", "temperature", "day",
		"in_eclipse", "orbit_position", "memory_usage",
	}
}

// BuildLifetime derives days-until-battery-EOL labels from raw telemetry.
// The label extrapolates the current per-day battery degradation rate down
// to the EOL threshold; stable or improving batteries are capped at
// maxDaysToEOL. Rows with degradation rates outside the plausible band are
// dropped.
func BuildLifetime(records []*domain.TelemetryRecord) *RegressionDataset {
	ds := &RegressionDataset{Features: LifetimeFeatures()}
	if len(records) == 0 {
		return ds
	}

	start := records[0].Timestamp
	prevDay := make(map[string]float64)
	prevBattery := make(map[string]float64)

	for _, r := range records {
		day := r.Timestamp.Sub(start).Hours() / 24

		rate := 0.0
		if pd, seen := prevDay[r.SatelliteID]; seen {
			dayDelta := day - pd
			if dayDelta == 0 {
				dayDelta = 1
			}
			rate = (r.BatteryHealth - prevBattery[r.SatelliteID]) / dayDelta
		}
		prevDay[r.SatelliteID] = day
		prevBattery[r.SatelliteID] = r.BatteryHealth

		if rate <= minBatteryRate || rate >= maxBatteryRate {
			continue
		}

		daysToEOL := maxDaysToEOL
		if rate < 0 {
			daysToEOL = (r.BatteryHealth - batteryEOL) / -rate
		}
		if daysToEOL < 0 {
			daysToEOL = 0
		}
		if daysToEOL > maxDaysToEOL {
			daysToEOL = maxDaysToEOL
		}

		eclipse := 0.0
		if r.InEclipse {
			eclipse = 1.0
		}
		ds.X = append(ds.X, []float64{
			r.BatteryHealth, r.Power, r.Temperature, day,
			eclipse, r.OrbitPosition, r.MemoryUsage,
		})
		ds.Y = append(ds.Y, daysToEOL)
	}
	return ds
}
