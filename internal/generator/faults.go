package generator

import (
	"math"

	"satellite-health-monitor/internal/domain"
)

// Fault stage fractions of the total series length. Windows are fixed and
// non-overlapping.
const (
	powerFaultStart   = 0.20
	powerFaultSpan    = 0.03
	tempFaultStart    = 0.40
	tempFaultSpan     = 0.02
	batteryFaultStart = 0.60
	batteryFaultSpan  = 0.05
	signalFaultStart  = 0.70
	signalFaultSpan   = 0.01
	memoryFaultStart  = 0.85
	memoryFaultSpan   = 0.04

	batteryDecayFactor = 0.997
	memoryLeakStep     = 0.5
	memoryLeakCeiling  = 95.0
)

// injectFaults mutates the telemetry in five staged, non-overlapping fault
// windows and returns the union of labeled anomaly events. Only every Nth
// in-window sample is labeled, simulating detection latency.
func injectFaults(records []*domain.TelemetryRecord) []*domain.AnomalyEvent {
	n := len(records)
	var events []*domain.AnomalyEvent

	// 1. Partial solar panel failure: 30% power drop.
	start, dur := windowBounds(n, powerFaultStart, powerFaultSpan)
	for i := start; i <= start+dur && i < n; i++ {
		scaleChannel(records[i], domain.ChannelPower, 0.7)
	}
	events = append(events, labelWindow(records, start, dur, 3, domain.ChannelPower,
		domain.CauseSolarPanelDegradation, domain.SeverityHigh, nil)...)

	// 2. Cooling system failure: 15 degree rise.
	start, dur = windowBounds(n, tempFaultStart, tempFaultSpan)
	for i := start; i <= start+dur && i < n; i++ {
		offsetChannel(records[i], domain.ChannelTemperature, 15)
	}
	events = append(events, labelWindow(records, start, dur, 3, domain.ChannelTemperature,
		domain.CauseCoolingSystemFailure, domain.SeverityHigh, nil)...)

	// 3. Accelerated battery degradation: multiplicative exponential decay.
	start, dur = windowBounds(n, batteryFaultStart, batteryFaultSpan)
	for i := start; i < start+dur && i < n; i++ {
		decay := math.Pow(batteryDecayFactor, float64(i-start))
		scaleChannel(records[i], domain.ChannelBatteryHealth, decay)
	}
	events = append(events, labelWindow(records, start, dur, 3, domain.ChannelBatteryHealth,
		domain.CauseBatteryCellDegradation, domain.SeverityMedium,
		func(v float64) bool { return v < 75 })...)

	// 4. Antenna misalignment: 50% signal drop, briefly.
	start, dur = windowBounds(n, signalFaultStart, signalFaultSpan)
	for i := start; i <= start+dur && i < n; i++ {
		scaleChannel(records[i], domain.ChannelSignalStrength, 0.5)
	}
	events = append(events, labelWindow(records, start, dur, 2, domain.ChannelSignalStrength,
		domain.CauseAntennaMisalignment, domain.SeverityMedium, nil)...)

	// 5. Memory leak: running accumulator capped at a ceiling.
	start, dur = windowBounds(n, memoryFaultStart, memoryFaultSpan)
	for i := start; i < start+dur && i < n; i++ {
		leak := memoryLeakCeiling
		if i > 0 {
			leak = math.Min(memoryLeakCeiling, records[i-1].MemoryUsage+memoryLeakStep)
		}
		records[i].MemoryUsage = domain.ChannelMemoryUsage.Clip(leak)
	}
	events = append(events, labelWindow(records, start, dur, 3, domain.ChannelMemoryUsage,
		domain.CauseMemoryLeak, domain.SeverityLow,
		func(v float64) bool { return v > 85 })...)

	return events
}

func windowBounds(n int, startFrac, spanFrac float64) (start, dur int) {
	return int(float64(n) * startFrac), int(float64(n) * spanFrac)
}

func scaleChannel(r *domain.TelemetryRecord, ch domain.Channel, factor float64) {
	r.SetValue(ch, ch.Clip(r.Value(ch)*factor))
}

func offsetChannel(r *domain.TelemetryRecord, ch domain.Channel, delta float64) {
	r.SetValue(ch, ch.Clip(r.Value(ch)+delta))
}

// labelWindow emits an anomaly event for every cadence-th sample index in
// [start, start+dur). An optional gate further restricts which samples are
// labeled (battery below threshold, memory above ceiling).
func labelWindow(
	records []*domain.TelemetryRecord,
	start, dur, cadence int,
	ch domain.Channel,
	cause domain.RootCause,
	severity domain.Severity,
	gate func(float64) bool,
) []*domain.AnomalyEvent {
	var events []*domain.AnomalyEvent
	for i := start; i < start+dur && i < len(records); i++ {
		if i%cadence != 0 {
			continue
		}
		v := records[i].Value(ch)
		if gate != nil && !gate(v) {
			continue
		}
		events = append(events, &domain.AnomalyEvent{
			Timestamp:   records[i].Timestamp,
			SatelliteID: records[i].SatelliteID,
			Parameter:   ch.Name(),
			Value:       v,
			RootCause:   cause,
			Severity:    severity,
		})
	}
	return events
}
