// Package main provides the model training entry point.
// Loads the preprocessed dataset dumps and fits the anomaly, lifetime and
// root cause models, persisting each trained model to disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/model/forest"
	"satellite-health-monitor/internal/model/gbt"
	"satellite-health-monitor/internal/model/rnn"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage"
	"satellite-health-monitor/internal/storage/migrations"
	pgstore "satellite-health-monitor/internal/storage/postgres"
	"satellite-health-monitor/internal/trainer"
)

func main() {
	// Parse flags
	dataDir := flag.String("data-dir", "data/datasets", "Directory holding the dataset dumps")
	modelDir := flag.String("model-dir", "data/models", "Output directory for trained models")
	hiddenSize := flag.Int("hidden-size", 16, "Anomaly model hidden state size")
	epochs := flag.Int("epochs", 30, "Anomaly model training epochs")
	learningRate := flag.Float64("learning-rate", 0.01, "Anomaly model learning rate")
	estimators := flag.Int("estimators", 200, "Lifetime model boosting rounds")
	gbtDepth := flag.Int("gbt-depth", 5, "Lifetime model tree depth")
	trees := flag.Int("trees", 100, "Root cause model forest size")
	forestDepth := flag.Int("forest-depth", 10, "Root cause model tree depth")
	seed := flag.Int64("seed", 42, "Training seed")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (optional artifact index)")

	flag.Parse()

	logger := log.New(os.Stdout, "[train] ", log.LstdFlags)
	started := time.Now()

	var artifactStore storage.ArtifactStore
	ctx := context.Background()
	if *postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
		artifactStore = pgstore.NewArtifactStore(pool)
	}

	if err := os.MkdirAll(*modelDir, 0o755); err != nil {
		logger.Fatalf("create model dir: %v", err)
	}

	// Anomaly detection
	var seqTrain, seqTest dataset.SequenceDataset
	if err := dataset.Load(*dataDir, dataset.SequenceTrainFile, &seqTrain); err != nil {
		logger.Fatalf("%v", err)
	}
	if err := dataset.Load(*dataDir, dataset.SequenceTestFile, &seqTest); err != nil {
		logger.Fatalf("%v", err)
	}

	rnnCfg := rnn.Config{HiddenSize: *hiddenSize, Epochs: *epochs, LearningRate: *learningRate, Seed: *seed}
	anomaly, err := trainer.TrainAnomaly(&seqTrain, &seqTest, rnnCfg, logger)
	if err != nil {
		observability.RecordTrainingRun("anomaly_detection", "error")
		logger.Fatalf("train anomaly model: %v", err)
	}
	observability.RecordTrainingRun("anomaly_detection", "ok")
	logger.Printf("Anomaly model: accuracy=%.4f precision=%.4f recall=%.4f f1=%.4f",
		anomaly.Eval.Accuracy, anomaly.Eval.Precision, anomaly.Eval.Recall, anomaly.Eval.F1)
	saveModel(ctx, logger, artifactStore, *modelDir, "anomaly_detection.gob",
		domain.ArtifactAnomalyDetection, anomaly.Model.Save, fmt.Sprintf("f1=%.4f", anomaly.Eval.F1))

	// Battery lifetime
	var lifeTrain, lifeTest dataset.RegressionDataset
	if err := dataset.Load(*dataDir, dataset.LifetimeTrainFile, &lifeTrain); err != nil {
		logger.Fatalf("%v", err)
	}
	if err := dataset.Load(*dataDir, dataset.LifetimeTestFile, &lifeTest); err != nil {
		logger.Fatalf("%v", err)
	}

	gbtCfg := gbt.Config{Estimators: *estimators, MaxDepth: *gbtDepth, LearningRate: 0.1}
	lifetime, err := trainer.TrainLifetime(&lifeTrain, &lifeTest, gbtCfg, logger)
	if err != nil {
		observability.RecordTrainingRun("lifetime_prediction", "error")
		logger.Fatalf("train lifetime model: %v", err)
	}
	observability.RecordTrainingRun("lifetime_prediction", "ok")
	logger.Printf("Lifetime model: mae=%.4f rmse=%.4f r2=%.4f",
		lifetime.Eval.MAE, lifetime.Eval.RMSE, lifetime.Eval.R2)
	for i, name := range dataset.LifetimeFeatures() {
		logger.Printf("  importance %s=%.4f", name, lifetime.Importances[i])
	}
	saveModel(ctx, logger, artifactStore, *modelDir, "lifetime_prediction.gob",
		domain.ArtifactLifetimePrediction, lifetime.Model.Save, fmt.Sprintf("rmse=%.4f", lifetime.Eval.RMSE))

	// Root cause analysis; the dumps are absent when preprocessing found no
	// anomalous rows.
	var rcTrain, rcTest dataset.TabularDataset
	trainErr := dataset.Load(*dataDir, dataset.RootCauseTrainFile, &rcTrain)
	testErr := dataset.Load(*dataDir, dataset.RootCauseTestFile, &rcTest)
	if trainErr != nil || testErr != nil {
		observability.RecordTrainingRun("root_cause_analysis", "skipped")
		logger.Printf("Root cause model: skipped (no anomalous rows in the training data)")
	} else {
		forestCfg := forest.Config{Trees: *trees, MaxDepth: *forestDepth, Seed: *seed}
		rootCause, err := trainer.TrainRootCause(&rcTrain, &rcTest, forestCfg, logger)
		if err != nil {
			observability.RecordTrainingRun("root_cause_analysis", "error")
			logger.Fatalf("train root cause model: %v", err)
		}
		if rootCause.Skipped {
			observability.RecordTrainingRun("root_cause_analysis", "skipped")
			logger.Printf("Root cause model: skipped (no anomalous rows in the training data)")
		} else {
			observability.RecordTrainingRun("root_cause_analysis", "ok")
			for i, cause := range domain.RootCauses() {
				if i >= len(rootCause.PerCause) {
					break
				}
				ev := rootCause.PerCause[i]
				logger.Printf("  %s: precision=%.4f recall=%.4f f1=%.4f", cause, ev.Precision, ev.Recall, ev.F1)
			}
			saveModel(ctx, logger, artifactStore, *modelDir, "root_cause_analysis.gob",
				domain.ArtifactRootCauseAnalysis, rootCause.Model.Save, "")
		}
	}

	observability.RecordStageRun("train", "ok", time.Since(started).Seconds())
	logger.Printf("Done in %s", time.Since(started).Round(time.Millisecond))
}

// saveModel serializes a trained model and records it in the artifact index
// when one is configured.
func saveModel(ctx context.Context, logger *log.Logger, store storage.ArtifactStore,
	dir, file string, kind domain.ArtifactKind, save func() ([]byte, error), notes string) {

	data, err := save()
	if err != nil {
		logger.Fatalf("serialize %s model: %v", kind, err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Fatalf("write %s model: %v", kind, err)
	}
	logger.Printf("Wrote %s", path)

	if store != nil {
		artifact := &domain.ModelArtifact{
			ID:        uuid.NewString(),
			Kind:      kind,
			Path:      path,
			TrainedAt: time.Now().UTC(),
			Notes:     notes,
		}
		if err := store.Insert(ctx, artifact); err != nil {
			logger.Fatalf("index %s artifact: %v", kind, err)
		}
	}
}
