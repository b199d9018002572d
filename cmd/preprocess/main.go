// Package main provides the feature engineering entry point.
// Reads generated telemetry, engineers feature rows and builds the three
// training datasets with deterministic splits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"satellite-health-monitor/internal/csvio"
	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/features"
	"satellite-health-monitor/internal/observability"
	chstore "satellite-health-monitor/internal/storage/clickhouse"
	"satellite-health-monitor/internal/storage/migrations"
)

func main() {
	// Parse flags
	inputDir := flag.String("input-dir", "data", "Directory holding telemetry.csv and anomalies.csv")
	outputDir := flag.String("output-dir", "data", "Output directory for features.csv and dataset dumps")
	seqLen := flag.Int("seq-len", dataset.DefaultSequenceLength, "Sequence length for the anomaly dataset")
	horizon := flag.Int("horizon", dataset.DefaultPredictionHorizon, "Prediction horizon in samples")
	testFraction := flag.Float64("test-fraction", dataset.DefaultTestFraction, "Held-out test fraction")
	splitSeed := flag.Int64("split-seed", dataset.DefaultSplitSeed, "Train/test split seed")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (optional feature row persistence)")

	flag.Parse()

	logger := log.New(os.Stdout, "[preprocess] ", log.LstdFlags)
	started := time.Now()

	records, err := csvio.ReadTelemetry(filepath.Join(*inputDir, "telemetry.csv"))
	if err != nil {
		logger.Fatalf("read telemetry: %v", err)
	}
	events, err := csvio.ReadAnomalies(filepath.Join(*inputDir, "anomalies.csv"))
	if err != nil {
		logger.Fatalf("read anomalies: %v", err)
	}
	logger.Printf("Loaded %d records, %d anomaly events", len(records), len(events))

	rows := features.Engineer(records, events)
	anomalous := 0
	for _, r := range rows {
		if r.Anomaly {
			anomalous++
		}
	}
	observability.RecordFeatureRows(len(rows), anomalous)
	logger.Printf("Engineered %d feature rows (%d anomalous)", len(rows), anomalous)

	featuresPath := filepath.Join(*outputDir, "features.csv")
	if err := csvio.WriteFeatures(featuresPath, rows); err != nil {
		logger.Fatalf("write features csv: %v", err)
	}
	logger.Printf("Wrote %s", featuresPath)

	if *clickhouseDSN != "" {
		ctx := context.Background()
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("run clickhouse migrations: %v", err)
		}
		defer conn.Close()

		if err := chstore.NewFeatureStore(conn).InsertBulk(ctx, rows); err != nil {
			logger.Fatalf("store feature rows: %v", err)
		}
		logger.Printf("Persisted feature rows to ClickHouse")
	}

	// Sequence dataset for the anomaly model
	seq := dataset.BuildSequence(rows, *seqLen, *horizon)
	seqTrain, seqTest := dataset.SplitSequence(seq, *testFraction, *splitSeed)
	observability.DefaultMetrics.SequencesBuilt.Add(float64(seq.Len()))
	logger.Printf("Sequence dataset: %d windows (%d train / %d test)", seq.Len(), seqTrain.Len(), seqTest.Len())

	// Root cause dataset from anomalous rows only
	rc, ok := dataset.BuildRootCause(rows)
	var rcTrain, rcTest *dataset.TabularDataset
	if ok {
		rcTrain, rcTest = dataset.SplitTabular(rc, *testFraction, *splitSeed)
		logger.Printf("Root cause dataset: %d rows (%d train / %d test)", rc.Len(), rcTrain.Len(), rcTest.Len())
	} else {
		logger.Printf("Root cause dataset: no anomalous rows, training will be skipped")
	}

	// Battery lifetime regression dataset
	life := dataset.BuildLifetime(records)
	lifeTrain, lifeTest := dataset.SplitRegression(life, *testFraction, *splitSeed)
	observability.DefaultMetrics.LifetimeSamplesKept.Add(float64(life.Len()))
	logger.Printf("Lifetime dataset: %d samples (%d train / %d test)", life.Len(), lifeTrain.Len(), lifeTest.Len())

	datasetDir := filepath.Join(*outputDir, "datasets")
	dumps := map[string]any{
		dataset.SequenceTrainFile: seqTrain,
		dataset.SequenceTestFile:  seqTest,
		dataset.LifetimeTrainFile: lifeTrain,
		dataset.LifetimeTestFile:  lifeTest,
	}
	if ok {
		dumps[dataset.RootCauseTrainFile] = rcTrain
		dumps[dataset.RootCauseTestFile] = rcTest
	}
	for name, v := range dumps {
		if err := dataset.Save(datasetDir, name, v); err != nil {
			logger.Fatalf("save dataset dump: %v", err)
		}
	}
	logger.Printf("Wrote dataset dumps to %s", datasetDir)

	observability.RecordStageRun("preprocess", "ok", time.Since(started).Seconds())
	logger.Printf("Done in %s", time.Since(started).Round(time.Millisecond))
}
