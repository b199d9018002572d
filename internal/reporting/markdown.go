package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Satellite Health Training Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Satellite: %s\n\n", r.SatelliteID))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Telemetry Records | %d |\n", r.DataSummary.TelemetryRecords))
	sb.WriteString(fmt.Sprintf("| Anomaly Events | %d |\n", r.DataSummary.AnomalyEvents))
	sb.WriteString(fmt.Sprintf("| Feature Rows | %d |\n", r.DataSummary.FeatureRows))
	sb.WriteString(fmt.Sprintf("| Anomalous Rows | %d |\n", r.DataSummary.AnomalousRows))
	if !r.DataSummary.DateRangeStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Date Range Start | %s |\n", r.DataSummary.DateRangeStart.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("| Date Range End | %s |\n", r.DataSummary.DateRangeEnd.Format(time.RFC3339)))
	}
	sb.WriteString("\n")

	// Cause Breakdown
	sb.WriteString("## Root Cause Breakdown\n\n")
	if len(r.CauseBreakdown) > 0 {
		sb.WriteString("| Root Cause | Events |\n")
		sb.WriteString("|------------|--------|\n")
		for _, row := range r.CauseBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d |\n", row.Cause, row.Events))
		}
	} else {
		sb.WriteString("No labeled anomaly events.\n")
	}
	sb.WriteString("\n")

	// Anomaly Detection
	sb.WriteString("## Anomaly Detection Model\n\n")
	if a := r.Anomaly; a != nil {
		sb.WriteString(fmt.Sprintf("Train/Test: %d/%d sequences\n\n", a.TrainSize, a.TestSize))
		if a.SyntheticFlipped > 0 {
			sb.WriteString(fmt.Sprintf("**Warning:** single-class training split; %d labels flipped synthetically.\n\n", a.SyntheticFlipped))
		}
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Threshold | %.2f |\n", a.Eval.Threshold))
		sb.WriteString(fmt.Sprintf("| Accuracy | %.4f |\n", a.Eval.Accuracy))
		sb.WriteString(fmt.Sprintf("| Precision | %.4f |\n", a.Eval.Precision))
		sb.WriteString(fmt.Sprintf("| Recall | %.4f |\n", a.Eval.Recall))
		sb.WriteString(fmt.Sprintf("| F1 | %.4f |\n", a.Eval.F1))
		sb.WriteString("\n")
		sb.WriteString("Confusion matrix (rows actual, columns predicted):\n\n")
		sb.WriteString("| | normal | anomaly |\n")
		sb.WriteString("|---|--------|--------|\n")
		sb.WriteString(fmt.Sprintf("| normal | %d | %d |\n", a.Eval.Confusion[0][0], a.Eval.Confusion[0][1]))
		sb.WriteString(fmt.Sprintf("| anomaly | %d | %d |\n", a.Eval.Confusion[1][0], a.Eval.Confusion[1][1]))
	} else {
		sb.WriteString("Not trained.\n")
	}
	sb.WriteString("\n")

	// Lifetime Prediction
	sb.WriteString("## Battery Lifetime Model\n\n")
	if l := r.Lifetime; l != nil {
		sb.WriteString(fmt.Sprintf("Train/Test: %d/%d samples\n\n", l.TrainSize, l.TestSize))
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| MAE | %.4f |\n", l.Eval.MAE))
		sb.WriteString(fmt.Sprintf("| RMSE | %.4f |\n", l.Eval.RMSE))
		sb.WriteString(fmt.Sprintf("| R2 | %.4f |\n", l.Eval.R2))
		sb.WriteString("\n")
		if len(l.Importances) == len(l.Features) {
			sb.WriteString("| Feature | Importance |\n")
			sb.WriteString("|---------|------------|\n")
			for i, name := range l.Features {
				sb.WriteString(fmt.Sprintf("| %s | %.4f |\n", name, l.Importances[i]))
			}
		}
	} else {
		sb.WriteString("Not trained.\n")
	}
	sb.WriteString("\n")

	// Root Cause Analysis
	sb.WriteString("## Root Cause Model\n\n")
	if rc := r.RootCause; rc != nil {
		sb.WriteString(fmt.Sprintf("Train/Test: %d/%d anomalous rows\n\n", rc.TrainSize, rc.TestSize))
		sb.WriteString(renderCauseMetricsTable(rc.PerCause))
	} else {
		sb.WriteString("Skipped: no anomalous rows in the training data.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func renderCauseMetricsTable(rows []CauseMetricRow) string {
	var sb strings.Builder
	sb.WriteString("| Root Cause | Precision | Recall | F1 | Support |\n")
	sb.WriteString("|------------|-----------|--------|----|--------|\n")
	for _, m := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %.4f | %.4f | %.4f | %d |\n",
			m.Cause, m.Precision, m.Recall, m.F1, m.Support))
	}
	return sb.String()
}
