package reporting

import (
	"context"
	"fmt"
	"time"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/storage"
	"satellite-health-monitor/internal/trainer"
)

// TrainingResults bundles the trainer outputs a report covers.
type TrainingResults struct {
	FeatureRows   int
	AnomalousRows int
	Anomaly       *trainer.AnomalyResult
	Lifetime      *trainer.LifetimeResult
	RootCause     *trainer.RootCauseResult
}

// Generator produces reports from stored data and training results.
type Generator struct {
	telemetryStore storage.TelemetryStore
	anomalyStore   storage.AnomalyEventStore
	now            func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(telemetryStore storage.TelemetryStore, anomalyStore storage.AnomalyEventStore) *Generator {
	return &Generator{
		telemetryStore: telemetryStore,
		anomalyStore:   anomalyStore,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete training run report for one satellite.
func (g *Generator) Generate(ctx context.Context, satelliteID string, results *TrainingResults) (*Report, error) {
	records, err := g.telemetryStore.GetBySatelliteID(ctx, satelliteID)
	if err != nil {
		return nil, fmt.Errorf("load telemetry: %w", err)
	}
	events, err := g.anomalyStore.GetBySatelliteID(ctx, satelliteID)
	if err != nil {
		return nil, fmt.Errorf("load anomaly events: %w", err)
	}

	r := &Report{
		GeneratedAt:    g.now(),
		SatelliteID:    satelliteID,
		DataSummary:    buildDataSummary(records, events),
		CauseBreakdown: buildCauseBreakdown(events),
	}
	if results != nil {
		r.DataSummary.FeatureRows = results.FeatureRows
		r.DataSummary.AnomalousRows = results.AnomalousRows
		attachTrainingSections(r, results)
	}
	return r, nil
}

func buildDataSummary(records []*domain.TelemetryRecord, events []*domain.AnomalyEvent) DataSummary {
	s := DataSummary{
		TelemetryRecords: len(records),
		AnomalyEvents:    len(events),
	}
	if len(records) > 0 {
		// Store results are ordered by timestamp ASC.
		s.DateRangeStart = records[0].Timestamp
		s.DateRangeEnd = records[len(records)-1].Timestamp
	}
	return s
}

func buildCauseBreakdown(events []*domain.AnomalyEvent) []CauseCountRow {
	counts := make(map[domain.RootCause]int)
	for _, e := range events {
		counts[e.RootCause]++
	}

	rows := make([]CauseCountRow, 0, domain.NumRootCauses)
	for _, cause := range domain.RootCauses() {
		rows = append(rows, CauseCountRow{Cause: string(cause), Events: counts[cause]})
	}
	return rows
}

func attachTrainingSections(r *Report, results *TrainingResults) {
	if a := results.Anomaly; a != nil {
		r.Anomaly = &AnomalyModelSection{
			TrainSize:        a.TrainSize,
			TestSize:         a.TestSize,
			SyntheticFlipped: a.SyntheticFlipped,
			Eval:             a.Eval,
		}
	}
	if l := results.Lifetime; l != nil {
		r.Lifetime = &LifetimeModelSection{
			TrainSize:   l.TrainSize,
			TestSize:    l.TestSize,
			Eval:        l.Eval,
			Features:    dataset.LifetimeFeatures(),
			Importances: l.Importances,
		}
	}
	if rc := results.RootCause; rc != nil && !rc.Skipped {
		section := &RootCauseModelSection{
			TrainSize: rc.TrainSize,
			TestSize:  rc.TestSize,
		}
		for i, cause := range domain.RootCauses() {
			var ev trainer.BinaryEval
			if i < len(rc.PerCause) {
				ev = rc.PerCause[i]
			}
			section.PerCause = append(section.PerCause, CauseMetricRow{
				Cause:     string(cause),
				Precision: ev.Precision,
				Recall:    ev.Recall,
				F1:        ev.F1,
				Support:   ev.Support[1],
			})
		}
		r.RootCause = section
	}
}
