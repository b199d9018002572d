// Package orchestrator provides E2E pipeline orchestration.
// It coordinates: generation → feature engineering → training → export → reporting
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/export"
	"satellite-health-monitor/internal/features"
	"satellite-health-monitor/internal/generator"
	"satellite-health-monitor/internal/model/forest"
	"satellite-health-monitor/internal/model/gbt"
	"satellite-health-monitor/internal/model/rnn"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/reporting"
	"satellite-health-monitor/internal/storage"
	"satellite-health-monitor/internal/trainer"
)

// Orchestrator coordinates the E2E pipeline execution.
// Flow: generation → feature engineering → dataset building → training → export
type Orchestrator struct {
	// Stores
	telemetryStore storage.TelemetryStore
	anomalyStore   storage.AnomalyEventStore
	featureStore   storage.FeatureStore
	artifactStore  storage.ArtifactStore

	// Configs
	genConfig    generator.Config
	rnnConfig    rnn.Config
	gbtConfig    gbt.Config
	forestConfig forest.Config
	seqLen       int
	horizon      int
	testFraction float64
	splitSeed    int64

	// Output
	outputDir string

	// Options
	skipGeneration bool // Skip if telemetry already exists
	verbose        bool
	logger         *log.Logger
}

// Options for creating Orchestrator.
type Options struct {
	// Required stores
	TelemetryStore storage.TelemetryStore
	AnomalyStore   storage.AnomalyEventStore
	FeatureStore   storage.FeatureStore

	// Optional artifact index; nil disables artifact recording
	ArtifactStore storage.ArtifactStore

	// Stage configs; zero values fall back to package defaults
	GeneratorConfig generator.Config
	RNNConfig       rnn.Config
	GBTConfig       gbt.Config
	ForestConfig    forest.Config
	SequenceLength  int
	Horizon         int
	TestFraction    float64
	SplitSeed       int64

	// OutputDir receives dataset dumps, model artifacts, the web bundle
	// and the run report.
	OutputDir string

	// Options
	SkipGeneration bool // Skip if telemetry already exists
	Verbose        bool
	Logger         *log.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	if opts.SequenceLength == 0 {
		opts.SequenceLength = dataset.DefaultSequenceLength
	}
	if opts.Horizon == 0 {
		opts.Horizon = dataset.DefaultPredictionHorizon
	}
	if opts.TestFraction == 0 {
		opts.TestFraction = dataset.DefaultTestFraction
	}
	if opts.SplitSeed == 0 {
		opts.SplitSeed = dataset.DefaultSplitSeed
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Orchestrator{
		telemetryStore: opts.TelemetryStore,
		anomalyStore:   opts.AnomalyStore,
		featureStore:   opts.FeatureStore,
		artifactStore:  opts.ArtifactStore,
		genConfig:      opts.GeneratorConfig,
		rnnConfig:      opts.RNNConfig,
		gbtConfig:      opts.GBTConfig,
		forestConfig:   opts.ForestConfig,
		seqLen:         opts.SequenceLength,
		horizon:        opts.Horizon,
		testFraction:   opts.TestFraction,
		splitSeed:      opts.SplitSeed,
		outputDir:      opts.OutputDir,
		skipGeneration: opts.SkipGeneration,
		verbose:        opts.Verbose,
		logger:         opts.Logger,
	}
}

// RunResult contains results from orchestrator execution.
type RunResult struct {
	TelemetryRecords int
	AnomalyEvents    int
	FeatureRows      int
	AnomalousRows    int

	Anomaly   *trainer.AnomalyResult
	Lifetime  *trainer.LifetimeResult
	RootCause *trainer.RootCauseResult

	ReportPath string
	BundleDir  string
	Errors     []string
}

// Run executes the full E2E pipeline.
// Phases:
//  1. Generate synthetic telemetry and labeled anomaly events
//  2. Engineer features and persist them
//  3. Build and split the three training datasets
//  4. Train the three models and persist artifacts
//  5. Export the web bundle and metadata sidecar
//  6. Write the run report
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}
	started := time.Now()

	// Phase 1: Generation
	records, events, err := o.runGeneration(ctx)
	if err != nil {
		observability.RecordStageRun("generate", "error", time.Since(started).Seconds())
		return nil, fmt.Errorf("phase 1 (generation) failed: %w", err)
	}
	result.TelemetryRecords = len(records)
	result.AnomalyEvents = len(events)

	// Phase 2: Feature engineering
	rows, err := o.runFeatureEngineering(ctx, records, events)
	if err != nil {
		return nil, fmt.Errorf("phase 2 (feature engineering) failed: %w", err)
	}
	result.FeatureRows = len(rows)
	for _, r := range rows {
		if r.Anomaly {
			result.AnomalousRows++
		}
	}
	observability.RecordFeatureRows(result.FeatureRows, result.AnomalousRows)

	// Phase 3: Dataset building
	sets, err := o.buildDatasets(records, rows)
	if err != nil {
		return nil, fmt.Errorf("phase 3 (dataset building) failed: %w", err)
	}

	// Phase 4: Training
	if err := o.runTraining(ctx, sets, result); err != nil {
		return nil, fmt.Errorf("phase 4 (training) failed: %w", err)
	}

	// Phase 5: Export
	o.runExport(result)

	// Phase 6: Report
	if err := o.writeReport(ctx, result); err != nil {
		return nil, fmt.Errorf("phase 6 (reporting) failed: %w", err)
	}

	observability.RecordStageRun("pipeline", "ok", time.Since(started).Seconds())
	observability.DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	o.log("Pipeline completed: %d records, %d events, %d feature rows (%d anomalous)",
		result.TelemetryRecords, result.AnomalyEvents, result.FeatureRows, result.AnomalousRows)
	return result, nil
}

// runGeneration produces or reloads the telemetry set.
func (o *Orchestrator) runGeneration(ctx context.Context) ([]*domain.TelemetryRecord, []*domain.AnomalyEvent, error) {
	if o.skipGeneration {
		o.log("Phase 1: Skipping generation (skipGeneration=true)")
		records, err := o.telemetryStore.GetBySatelliteID(ctx, o.genConfig.SatelliteID)
		if err != nil {
			return nil, nil, fmt.Errorf("load telemetry: %w", err)
		}
		events, err := o.anomalyStore.GetBySatelliteID(ctx, o.genConfig.SatelliteID)
		if err != nil {
			return nil, nil, fmt.Errorf("load anomaly events: %w", err)
		}
		return records, events, nil
	}

	o.log("Phase 1: Generating telemetry...")
	records, events, err := generator.Generate(o.genConfig)
	if err != nil {
		return nil, nil, err
	}

	if err := o.telemetryStore.InsertBulk(ctx, records); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, nil, fmt.Errorf("store telemetry: %w", err)
	}
	if err := o.anomalyStore.InsertBulk(ctx, events); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, nil, fmt.Errorf("store anomaly events: %w", err)
	}

	byCause := make(map[string]int)
	for _, e := range events {
		byCause[string(e.RootCause)]++
	}
	observability.RecordGenerated(len(records), byCause)
	o.log("  Generated %d records, %d labeled events", len(records), len(events))
	return records, events, nil
}

// runFeatureEngineering builds and persists feature rows.
func (o *Orchestrator) runFeatureEngineering(ctx context.Context, records []*domain.TelemetryRecord, events []*domain.AnomalyEvent) ([]*domain.FeatureRow, error) {
	o.log("Phase 2: Engineering features...")
	rows := features.Engineer(records, events)

	if err := o.featureStore.InsertBulk(ctx, rows); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
		return nil, fmt.Errorf("store feature rows: %w", err)
	}
	o.log("  Built %d feature rows", len(rows))
	return rows, nil
}

// datasets bundles the split training inputs for the three models.
type datasets struct {
	seqTrain, seqTest   *dataset.SequenceDataset
	rcTrain, rcTest     *dataset.TabularDataset
	rcOK                bool
	lifeTrain, lifeTest *dataset.RegressionDataset
}

// buildDatasets derives and splits the three datasets, persisting the gob
// dumps so the standalone train stage can reuse them.
func (o *Orchestrator) buildDatasets(records []*domain.TelemetryRecord, rows []*domain.FeatureRow) (*datasets, error) {
	o.log("Phase 3: Building datasets...")
	sets := &datasets{}

	seq := dataset.BuildSequence(rows, o.seqLen, o.horizon)
	sets.seqTrain, sets.seqTest = dataset.SplitSequence(seq, o.testFraction, o.splitSeed)

	rc, ok := dataset.BuildRootCause(rows)
	sets.rcOK = ok
	if ok {
		sets.rcTrain, sets.rcTest = dataset.SplitTabular(rc, o.testFraction, o.splitSeed)
	}

	life := dataset.BuildLifetime(records)
	sets.lifeTrain, sets.lifeTest = dataset.SplitRegression(life, o.testFraction, o.splitSeed)

	type dump struct {
		name string
		v    any
	}
	dir := o.datasetDir()
	dumps := []dump{
		{dataset.SequenceTrainFile, sets.seqTrain},
		{dataset.SequenceTestFile, sets.seqTest},
		{dataset.LifetimeTrainFile, sets.lifeTrain},
		{dataset.LifetimeTestFile, sets.lifeTest},
	}
	if ok {
		dumps = append(dumps,
			dump{dataset.RootCauseTrainFile, sets.rcTrain},
			dump{dataset.RootCauseTestFile, sets.rcTest},
		)
	}
	for _, d := range dumps {
		if err := dataset.Save(dir, d.name, d.v); err != nil {
			return nil, err
		}
	}

	observability.DefaultMetrics.SequencesBuilt.Add(float64(seq.Len()))
	observability.DefaultMetrics.LifetimeSamplesKept.Add(float64(life.Len()))
	o.log("  %d sequences, %d lifetime samples, root cause rows: %d",
		seq.Len(), life.Len(), rc.Len())
	return sets, nil
}

// runTraining fits the three models and records their artifacts.
func (o *Orchestrator) runTraining(ctx context.Context, sets *datasets, result *RunResult) error {
	o.log("Phase 4: Training models...")

	anomaly, err := trainer.TrainAnomaly(sets.seqTrain, sets.seqTest, o.rnnConfig, o.logger)
	if err != nil {
		observability.RecordTrainingRun("anomaly_detection", "error")
		return fmt.Errorf("train anomaly model: %w", err)
	}
	observability.RecordTrainingRun("anomaly_detection", "ok")
	if anomaly.SyntheticFlipped > 0 {
		observability.RecordSyntheticFlips(anomaly.SyntheticFlipped)
	}
	result.Anomaly = anomaly

	lifetime, err := trainer.TrainLifetime(sets.lifeTrain, sets.lifeTest, o.gbtConfig, o.logger)
	if err != nil {
		observability.RecordTrainingRun("lifetime_prediction", "error")
		return fmt.Errorf("train lifetime model: %w", err)
	}
	observability.RecordTrainingRun("lifetime_prediction", "ok")
	result.Lifetime = lifetime

	rootCause, err := trainer.TrainRootCause(sets.rcTrain, sets.rcTest, o.forestConfig, o.logger)
	if err != nil {
		observability.RecordTrainingRun("root_cause_analysis", "error")
		return fmt.Errorf("train root cause model: %w", err)
	}
	if rootCause.Skipped {
		observability.RecordTrainingRun("root_cause_analysis", "skipped")
	} else {
		observability.RecordTrainingRun("root_cause_analysis", "ok")
	}
	result.RootCause = rootCause

	return o.persistArtifacts(ctx, result)
}

// persistArtifacts serializes trained models and indexes them.
func (o *Orchestrator) persistArtifacts(ctx context.Context, result *RunResult) error {
	dir := o.modelDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	saves := []struct {
		kind  domain.ArtifactKind
		file  string
		save  func() ([]byte, error)
		notes string
		skip  bool
	}{
		{domain.ArtifactAnomalyDetection, "anomaly_detection.gob", result.Anomaly.Model.Save,
			fmt.Sprintf("f1=%.4f", result.Anomaly.Eval.F1), false},
		{domain.ArtifactLifetimePrediction, "lifetime_prediction.gob", result.Lifetime.Model.Save,
			fmt.Sprintf("rmse=%.4f", result.Lifetime.Eval.RMSE), false},
		{domain.ArtifactRootCauseAnalysis, "root_cause_analysis.gob", func() ([]byte, error) {
			return result.RootCause.Model.Save()
		}, "", result.RootCause.Skipped},
	}

	for _, s := range saves {
		if s.skip {
			continue
		}
		data, err := s.save()
		if err != nil {
			return fmt.Errorf("serialize %s model: %w", s.kind, err)
		}
		path := filepath.Join(dir, s.file)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s model: %w", s.kind, err)
		}
		if o.artifactStore != nil {
			artifact := &domain.ModelArtifact{
				ID:        uuid.NewString(),
				Kind:      s.kind,
				Path:      path,
				TrainedAt: time.Now().UTC(),
				Notes:     s.notes,
			}
			if err := o.artifactStore.Insert(ctx, artifact); err != nil {
				return fmt.Errorf("index %s artifact: %w", s.kind, err)
			}
		}
	}
	return nil
}

// runExport writes the web bundle and metadata sidecar. Bundle conversion
// failures are recoverable: the metadata sidecar is still written and manual
// instructions are logged.
func (o *Orchestrator) runExport(result *RunResult) {
	o.log("Phase 5: Exporting web bundle...")
	bundleDir := filepath.Join(o.outputDir, "web")
	result.BundleDir = bundleDir

	if err := export.WriteWebBundle(result.Anomaly.Model, bundleDir); err != nil {
		artifactPath := filepath.Join(o.modelDir(), "anomaly_detection.gob")
		result.Errors = append(result.Errors, fmt.Sprintf("web bundle: %v", err))
		o.logger.Printf("WARNING: %v", err)
		o.logger.Print(export.ManualInstructions(artifactPath, bundleDir))
	}

	md := export.NewMetadata(o.seqLen, domain.NumFeatureColumns, trainer.DecisionThreshold)
	mdPath := filepath.Join(o.outputDir, export.MetadataFile)
	if err := export.WriteMetadata(md, mdPath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("metadata: %v", err))
		o.logger.Printf("WARNING: %v", err)
	}
}

// writeReport renders and writes the markdown run report.
func (o *Orchestrator) writeReport(ctx context.Context, result *RunResult) error {
	o.log("Phase 6: Writing run report...")
	gen := reporting.NewGenerator(o.telemetryStore, o.anomalyStore)
	report, err := gen.Generate(ctx, o.genConfig.SatelliteID, &reporting.TrainingResults{
		FeatureRows:   result.FeatureRows,
		AnomalousRows: result.AnomalousRows,
		Anomaly:       result.Anomaly,
		Lifetime:      result.Lifetime,
		RootCause:     result.RootCause,
	})
	if err != nil {
		return err
	}

	path := filepath.Join(o.outputDir, "report.md")
	if err := os.MkdirAll(o.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	result.ReportPath = path

	if report.RootCause != nil {
		csvPath := filepath.Join(o.outputDir, "root_cause_metrics.csv")
		if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.RootCause.PerCause)), 0o644); err != nil {
			return fmt.Errorf("write root cause metrics: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) datasetDir() string {
	return filepath.Join(o.outputDir, "datasets")
}

func (o *Orchestrator) modelDir() string {
	return filepath.Join(o.outputDir, "models")
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		o.logger.Printf("[pipeline] "+format, args...)
	}
}
