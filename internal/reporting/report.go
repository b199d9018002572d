package reporting

import (
	"time"

	"satellite-health-monitor/internal/trainer"
)

// Report is the training run report written at the end of a pipeline run.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	SatelliteID string

	// Data Summary
	DataSummary DataSummary

	// Per-cause event counts, in canonical cause order.
	CauseBreakdown []CauseCountRow

	// Model sections; RootCause is nil when training was skipped for lack
	// of anomalous rows.
	Anomaly   *AnomalyModelSection
	Lifetime  *LifetimeModelSection
	RootCause *RootCauseModelSection
}

// DataSummary describes the inputs the models were trained on.
type DataSummary struct {
	TelemetryRecords int
	AnomalyEvents    int
	FeatureRows      int
	AnomalousRows    int
	DateRangeStart   time.Time
	DateRangeEnd     time.Time
}

// CauseCountRow counts labeled events for one root cause.
type CauseCountRow struct {
	Cause  string
	Events int
}

// AnomalyModelSection summarizes the sequence anomaly classifier.
type AnomalyModelSection struct {
	TrainSize        int
	TestSize         int
	SyntheticFlipped int
	Eval             trainer.BinaryEval
}

// LifetimeModelSection summarizes the battery lifetime regressor.
type LifetimeModelSection struct {
	TrainSize   int
	TestSize    int
	Eval        trainer.RegressionEval
	Features    []string
	Importances []float64
}

// RootCauseModelSection summarizes the root cause classifier.
type RootCauseModelSection struct {
	TrainSize int
	TestSize  int
	PerCause  []CauseMetricRow
}

// CauseMetricRow is one root cause's held-out metrics.
type CauseMetricRow struct {
	Cause     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}
