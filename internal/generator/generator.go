// Package generator produces synthetic satellite telemetry with staged fault
// injection. Output shape is deterministic; noise amplitudes are randomized
// from a seeded source.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"satellite-health-monitor/internal/domain"
)

// Orbit constants for a typical LEO satellite.
const (
	orbitPeriodMinutes = 95.0
	eclipseBandLow     = 0.3
	eclipseBandHigh    = 0.7
)

// Config controls a generation run.
type Config struct {
	Days           int           // duration of the series
	SampleInterval time.Duration // time between samples
	SatelliteID    string
	Seed           int64
	Start          time.Time // series start; zero value means Days ago from now
}

// DefaultConfig matches the standard 90 day / 10 minute training run.
func DefaultConfig() Config {
	return Config{
		Days:           90,
		SampleInterval: 10 * time.Minute,
		SatelliteID:    "SAT-001",
		Seed:           42,
	}
}

// Samples returns the number of telemetry records the config produces.
func (c Config) Samples() int {
	return int(float64(c.Days) * 24 * 60 / c.SampleInterval.Minutes())
}

// Generate produces the telemetry table and the companion anomaly table.
// Records are strictly time-ordered; every channel value lies within its
// declared clip range, including inside fault windows.
func Generate(cfg Config) ([]*domain.TelemetryRecord, []*domain.AnomalyEvent, error) {
	records, err := baseline(cfg)
	if err != nil {
		return nil, nil, err
	}
	anomalies := injectFaults(records)
	return records, anomalies, nil
}

// baseline generates the fault-free telemetry series.
func baseline(cfg Config) ([]*domain.TelemetryRecord, error) {
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("generator: days must be positive, got %d", cfg.Days)
	}
	if cfg.SampleInterval <= 0 {
		return nil, fmt.Errorf("generator: sample interval must be positive, got %v", cfg.SampleInterval)
	}
	if cfg.SatelliteID == "" {
		return nil, fmt.Errorf("generator: satellite id is required")
	}

	samples := cfg.Samples()
	if samples == 0 {
		return nil, fmt.Errorf("generator: config produces zero samples")
	}

	start := cfg.Start
	if start.IsZero() {
		start = time.Now().UTC().AddDate(0, 0, -cfg.Days)
	}
	start = start.UTC().Truncate(time.Minute)

	rng := rand.New(rand.NewSource(cfg.Seed))
	intervalMin := cfg.SampleInterval.Minutes()

	records := make([]*domain.TelemetryRecord, samples)
	for i := 0; i < samples; i++ {
		pos := math.Mod(float64(i)*intervalMin, orbitPeriodMinutes) / orbitPeriodMinutes
		inEclipse := pos > eclipseBandLow && pos < eclipseBandHigh

		eclipse := 0.0
		if inEclipse {
			eclipse = 1.0
		}

		// Power: baseline minus slow solar degradation, orbit-phase swing,
		// eclipse drop, Gaussian noise.
		power := 90.0 -
			linspace(0, 5, samples, i) +
			5*math.Sin(pos*2*math.Pi) -
			20*eclipse +
			rng.NormFloat64()

		// Temperature couples to the (unclipped) power level.
		temperature := 25.0 +
			10*math.Sin(pos*2*math.Pi) +
			0.1*(power-85) +
			rng.NormFloat64()

		// Battery health degrades with accumulated charge cycles.
		battery := 95.0 - 0.02*linspace(0, 180, samples, i) + 0.5*rng.NormFloat64()

		// Signal strength follows ground station pass cycles (4h period).
		signal := 85.0 + 10*math.Sin(float64(i)*(intervalMin/240)*2*math.Pi) + 2*rng.NormFloat64()

		// Memory usage follows activity cycles (6h period).
		memory := 60.0 + 15*math.Sin(float64(i)*(intervalMin/360)*2*math.Pi) + 3*rng.NormFloat64()

		records[i] = &domain.TelemetryRecord{
			Timestamp:      start.Add(time.Duration(i) * cfg.SampleInterval),
			SatelliteID:    cfg.SatelliteID,
			OrbitPosition:  pos,
			InEclipse:      inEclipse,
			Power:          domain.ChannelPower.Clip(power),
			Temperature:    domain.ChannelTemperature.Clip(temperature),
			BatteryHealth:  domain.ChannelBatteryHealth.Clip(battery),
			SignalStrength: domain.ChannelSignalStrength.Clip(signal),
			MemoryUsage:    domain.ChannelMemoryUsage.Clip(memory),
		}
	}

	return records, nil
}

// linspace returns the i-th of n evenly spaced values across [lo, hi],
// endpoints included.
func linspace(lo, hi float64, n, i int) float64 {
	if n <= 1 {
		return lo
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}
