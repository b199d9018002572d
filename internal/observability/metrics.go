// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Generation metrics
	TelemetryRecordsGenerated prometheus.Counter
	AnomalyEventsGenerated    *prometheus.CounterVec

	// Preprocessing metrics
	FeatureRowsBuilt    prometheus.Counter
	AnomalousRowsBuilt  prometheus.Counter
	SequencesBuilt      prometheus.Counter
	LifetimeSamplesKept prometheus.Counter

	// Training metrics
	TrainingRunsTotal    *prometheus.CounterVec
	SyntheticLabelsFlips prometheus.Counter

	// Stage metrics
	StageRunsTotal *prometheus.CounterVec
	StageDuration  *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "satellite_health_monitor"
	}

	return &Metrics{
		// Generation metrics
		TelemetryRecordsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "telemetry_records_total",
			Help:      "Total number of synthetic telemetry records generated",
		}),
		AnomalyEventsGenerated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "anomaly_events_total",
			Help:      "Total number of labeled anomaly events generated by root cause",
		}, []string{"root_cause"}),

		// Preprocessing metrics
		FeatureRowsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preprocessing",
			Name:      "feature_rows_total",
			Help:      "Total number of engineered feature rows built",
		}),
		AnomalousRowsBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preprocessing",
			Name:      "anomalous_rows_total",
			Help:      "Total number of feature rows labeled anomalous",
		}),
		SequencesBuilt: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preprocessing",
			Name:      "sequences_total",
			Help:      "Total number of training sequences built",
		}),
		LifetimeSamplesKept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "preprocessing",
			Name:      "lifetime_samples_total",
			Help:      "Total number of battery lifetime samples kept after rate filtering",
		}),

		// Training metrics
		TrainingRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "runs_total",
			Help:      "Total number of model training runs by model and status",
		}, []string{"model", "status"}),
		SyntheticLabelsFlips: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "training",
			Name:      "synthetic_label_flips_total",
			Help:      "Total number of labels flipped by the single-class fallback",
		}),

		// Stage metrics
		StageRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_runs_total",
			Help:      "Total number of pipeline stage runs by status",
		}, []string{"stage", "status"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage execution duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"stage"}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Health metrics
		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordGenerated records the output of a generation run.
func RecordGenerated(records int, eventsByCause map[string]int) {
	DefaultMetrics.TelemetryRecordsGenerated.Add(float64(records))
	for cause, n := range eventsByCause {
		DefaultMetrics.AnomalyEventsGenerated.WithLabelValues(cause).Add(float64(n))
	}
}

// RecordFeatureRows records the output of a preprocessing run.
func RecordFeatureRows(total, anomalous int) {
	DefaultMetrics.FeatureRowsBuilt.Add(float64(total))
	DefaultMetrics.AnomalousRowsBuilt.Add(float64(anomalous))
}

// RecordTrainingRun records a model training run.
func RecordTrainingRun(model, status string) {
	DefaultMetrics.TrainingRunsTotal.WithLabelValues(model, status).Inc()
}

// RecordSyntheticFlips records labels flipped by the single-class fallback.
func RecordSyntheticFlips(n int) {
	DefaultMetrics.SyntheticLabelsFlips.Add(float64(n))
}

// RecordStageRun records a pipeline stage run.
func RecordStageRun(stage, status string, durationSeconds float64) {
	DefaultMetrics.StageRunsTotal.WithLabelValues(stage, status).Inc()
	DefaultMetrics.StageDuration.WithLabelValues(stage).Observe(durationSeconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// ObserveDBQuery starts a query timer. Call the returned func with the
// query's final error, typically from a defer over a named return.
func ObserveDBQuery(database, operation string) func(err error) {
	start := time.Now()
	return func(err error) {
		RecordDBQuery(database, operation, time.Since(start).Seconds(), err)
	}
}
