// Package main provides the telemetry generation entry point.
// Produces synthetic telemetry with staged faults and the matching
// labeled anomaly events.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"satellite-health-monitor/internal/csvio"
	"satellite-health-monitor/internal/generator"
	"satellite-health-monitor/internal/observability"
	"satellite-health-monitor/internal/storage/migrations"
	pgstore "satellite-health-monitor/internal/storage/postgres"
)

func main() {
	// Parse flags
	days := flag.Int("days", 90, "Number of days of telemetry to generate")
	interval := flag.Duration("interval", 10*time.Minute, "Sample interval")
	satelliteID := flag.String("satellite-id", "SAT-001", "Satellite identifier")
	seed := flag.Int64("seed", 42, "Random seed")
	start := flag.String("start", "", "Start timestamp (RFC3339, defaults to now minus the generated span)")
	outputDir := flag.String("output-dir", "data", "Output directory for CSV files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (optional persistence)")

	flag.Parse()

	logger := log.New(os.Stdout, "[generate] ", log.LstdFlags)

	cfg := generator.Config{
		Days:           *days,
		SampleInterval: *interval,
		SatelliteID:    *satelliteID,
		Seed:           *seed,
	}
	if *start != "" {
		t, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			logger.Fatalf("invalid --start: %v", err)
		}
		cfg.Start = t.UTC()
	}

	started := time.Now()
	records, events, err := generator.Generate(cfg)
	if err != nil {
		logger.Fatalf("generate telemetry: %v", err)
	}

	byCause := make(map[string]int)
	for _, e := range events {
		byCause[string(e.RootCause)]++
	}
	observability.RecordGenerated(len(records), byCause)
	logger.Printf("Generated %d records, %d labeled anomaly events", len(records), len(events))
	for cause, n := range byCause {
		logger.Printf("  %s: %d", cause, n)
	}

	telemetryPath := filepath.Join(*outputDir, "telemetry.csv")
	if err := csvio.WriteTelemetry(telemetryPath, records); err != nil {
		logger.Fatalf("write telemetry csv: %v", err)
	}
	anomalyPath := filepath.Join(*outputDir, "anomalies.csv")
	if err := csvio.WriteAnomalies(anomalyPath, events); err != nil {
		logger.Fatalf("write anomalies csv: %v", err)
	}
	logger.Printf("Wrote %s and %s", telemetryPath, anomalyPath)

	if *postgresDSN != "" {
		ctx := context.Background()
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run migrations: %v", err)
		}
		if err := pgstore.NewTelemetryStore(pool).InsertBulk(ctx, records); err != nil {
			logger.Fatalf("store telemetry: %v", err)
		}
		if err := pgstore.NewAnomalyEventStore(pool).InsertBulk(ctx, events); err != nil {
			logger.Fatalf("store anomaly events: %v", err)
		}
		logger.Printf("Persisted to PostgreSQL")
	}

	observability.RecordStageRun("generate", "ok", time.Since(started).Seconds())
	logger.Printf("Done in %s", time.Since(started).Round(time.Millisecond))
}
