// Package main provides the web export entry point.
// Converts the trained anomaly model into the JSON bundle the web front
// end loads, and writes the metadata sidecar next to it.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/export"
	"satellite-health-monitor/internal/model/rnn"
	"satellite-health-monitor/internal/trainer"
)

func main() {
	// Parse flags
	modelPath := flag.String("model", "data/models/anomaly_detection.gob", "Trained anomaly model artifact")
	outputDir := flag.String("output-dir", "data", "Output directory for the metadata sidecar")
	bundleDir := flag.String("bundle-dir", "", "Web bundle directory (defaults to <output-dir>/web)")
	seqLen := flag.Int("seq-len", dataset.DefaultSequenceLength, "Sequence length recorded in the metadata")

	flag.Parse()

	logger := log.New(os.Stdout, "[export] ", log.LstdFlags)

	dir := *bundleDir
	if dir == "" {
		dir = filepath.Join(*outputDir, "web")
	}

	// The metadata sidecar is written unconditionally so the front end can
	// detect a missing bundle.
	md := export.NewMetadata(*seqLen, domain.NumFeatureColumns, trainer.DecisionThreshold)
	mdPath := filepath.Join(*outputDir, export.MetadataFile)
	if err := export.WriteMetadata(md, mdPath); err != nil {
		logger.Fatalf("write metadata: %v", err)
	}
	logger.Printf("Wrote %s", mdPath)

	// Conversion failure is recoverable: the sidecar is already on disk, so
	// print the manual steps and exit clean.
	data, err := os.ReadFile(*modelPath)
	if err != nil {
		logger.Printf("WARNING: read model artifact: %v", err)
		logger.Print(export.ManualInstructions(*modelPath, dir))
		return
	}

	model := &rnn.Classifier{}
	if err := model.Load(data); err != nil {
		logger.Printf("WARNING: decode model artifact: %v", err)
		logger.Print(export.ManualInstructions(*modelPath, dir))
		return
	}

	if err := export.WriteWebBundle(model, dir); err != nil {
		logger.Printf("WARNING: %v", err)
		logger.Print(export.ManualInstructions(*modelPath, dir))
		return
	}
	logger.Printf("Wrote %s", filepath.Join(dir, export.ModelJSONFile))
}
