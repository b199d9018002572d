package domain

import "time"

// RootCause is one of the fixed, closed set of fault root causes.
// The deployed label set is known ahead of time, so the set is enumerated
// here rather than inferred from observed anomaly tables.
type RootCause string

const (
	CauseSolarPanelDegradation  RootCause = "solar_panel_degradation"
	CauseCoolingSystemFailure   RootCause = "cooling_system_failure"
	CauseBatteryCellDegradation RootCause = "battery_cell_degradation"
	CauseAntennaMisalignment    RootCause = "antenna_misalignment"
	CauseMemoryLeak             RootCause = "memory_leak"

	NumRootCauses = 5
)

// RootCauses returns all root causes in canonical order. The order fixes the
// layout of one-hot cause vectors across the whole pipeline.
func RootCauses() [NumRootCauses]RootCause {
	return [NumRootCauses]RootCause{
		CauseSolarPanelDegradation,
		CauseCoolingSystemFailure,
		CauseBatteryCellDegradation,
		CauseAntennaMisalignment,
		CauseMemoryLeak,
	}
}

// Index returns the position of the cause in the canonical order, or -1.
func (c RootCause) Index() int {
	for i, rc := range RootCauses() {
		if rc == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c belongs to the closed root cause set.
func (c RootCause) Valid() bool {
	return c.Index() >= 0
}

// Severity is the ordinal severity tier of an anomaly event.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// AnomalyEvent is one labeled anomaly observation.
// Its timestamp always matches an existing telemetry record. Only a
// sub-sampled fraction of in-fault samples carry events, simulating
// detection latency; the sparsity is intentional.
type AnomalyEvent struct {
	Timestamp   time.Time
	SatelliteID string
	Parameter   string  // channel name of the affected parameter
	Value       float64 // observed (already faulted) value
	RootCause   RootCause
	Severity    Severity
}
