// Package main provides the E2E pipeline entry point.
// Executes: generation → feature engineering → training → export → reporting
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"satellite-health-monitor/internal/generator"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/orchestrator"
	"satellite-health-monitor/internal/storage"
	chstore "satellite-health-monitor/internal/storage/clickhouse"
	"satellite-health-monitor/internal/storage/memory"
	"satellite-health-monitor/internal/storage/migrations"
	pgstore "satellite-health-monitor/internal/storage/postgres"
)

func main() {
	// Parse flags
	days := flag.Int("days", 90, "Number of days of telemetry to generate")
	interval := flag.Duration("interval", 10*time.Minute, "Sample interval")
	satelliteID := flag.String("satellite-id", "SAT-001", "Satellite identifier")
	seed := flag.Int64("seed", 42, "Random seed")
	outputDir := flag.String("output-dir", "data", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", true, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Verbose output")

	flag.Parse()

	logger := log.New(os.Stdout, "[pipeline] ", log.LstdFlags)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling pipeline...", sig)
		cancel()
	}()

	// Create stores
	var telemetryStore storage.TelemetryStore = memory.NewTelemetryStore()
	var anomalyStore storage.AnomalyEventStore = memory.NewAnomalyEventStore()
	var featureStore storage.FeatureStore = memory.NewFeatureStore()
	var artifactStore storage.ArtifactStore = memory.NewArtifactStore()

	if !*useMemory {
		if *postgresDSN == "" {
			logger.Fatal("--postgres-dsn is required when not using --use-memory (telemetry, anomaly events, artifacts)")
		}
		if *clickhouseDSN == "" {
			logger.Fatal("--clickhouse-dsn is required when not using --use-memory (feature rows)")
		}

		// PostgreSQL for telemetry, anomaly events and the artifact index
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run postgres migrations: %v", err)
		}
		telemetryStore = pgstore.NewTelemetryStore(pool)
		anomalyStore = pgstore.NewAnomalyEventStore(pool)
		artifactStore = pgstore.NewArtifactStore(pool)

		// ClickHouse for the wide feature rows
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("run clickhouse migrations: %v", err)
		}
		defer conn.Close()
		featureStore = chstore.NewFeatureStore(conn)
	}

	orch := orchestrator.New(orchestrator.Options{
		TelemetryStore: telemetryStore,
		AnomalyStore:   anomalyStore,
		FeatureStore:   featureStore,
		ArtifactStore:  artifactStore,
		GeneratorConfig: generator.Config{
			Days:           *days,
			SampleInterval: *interval,
			SatelliteID:    *satelliteID,
			Seed:           *seed,
		},
		OutputDir: *outputDir,
		Verbose:   *verbose,
		Logger:    logger,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Pipeline completed:")
	fmt.Printf("  Telemetry records: %d\n", result.TelemetryRecords)
	fmt.Printf("  Anomaly events: %d\n", result.AnomalyEvents)
	fmt.Printf("  Feature rows: %d (%d anomalous)\n", result.FeatureRows, result.AnomalousRows)
	if result.Anomaly != nil {
		fmt.Printf("  Anomaly model F1: %.4f\n", result.Anomaly.Eval.F1)
	}
	if result.Lifetime != nil {
		fmt.Printf("  Lifetime model RMSE: %.4f\n", result.Lifetime.Eval.RMSE)
	}
	if result.RootCause != nil && result.RootCause.Skipped {
		fmt.Println("  Root cause model: skipped")
	}
	fmt.Printf("  Report: %s\n", result.ReportPath)
	fmt.Printf("  Web bundle: %s\n", result.BundleDir)
	if len(result.Errors) > 0 {
		fmt.Printf("  Errors: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("    - %s\n", e)
		}
	}
}
