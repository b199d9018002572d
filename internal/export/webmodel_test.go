package export

import (
	"encoding/json"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"satellite-health-monitor/internal/model/rnn"
)

func trainedModel(t *testing.T) *rnn.Classifier {
	t.Helper()
	rng := rand.New(rand.NewSource(5))
	X := make([][][]float64, 20)
	y := make([]float64, 20)
	for i := range X {
		label := float64(i % 2)
		base := -1.0
		if label == 1 {
			base = 1.0
		}
		seq := make([][]float64, 3)
		for s := range seq {
			seq[s] = []float64{base + 0.1*rng.NormFloat64(), rng.Float64()}
		}
		X[i] = seq
		y[i] = label
	}

	m := rnn.New(rnn.Config{HiddenSize: 4, Epochs: 3, LearningRate: 0.05, Seed: 42})
	if err := m.Fit(X, y, nil); err != nil {
		t.Fatalf("fit: %v", err)
	}
	return m
}

func TestWriteWebBundle(t *testing.T) {
	m := trainedModel(t)
	dir := filepath.Join(t.TempDir(), "web")

	if err := WriteWebBundle(m, dir); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, ModelJSONFile))
	if err != nil {
		t.Fatalf("read bundle: %v", err)
	}

	var bundle struct {
		Format     string      `json:"format"`
		InputShape []int       `json:"input_shape"`
		Hidden     int         `json:"hidden_size"`
		Wxh        [][]float64 `json:"wxh"`
		Whh        [][]float64 `json:"whh"`
		Bh         []float64   `json:"bh"`
		Why        []float64   `json:"why"`
	}
	if err := json.Unmarshal(data, &bundle); err != nil {
		t.Fatalf("parse bundle: %v", err)
	}

	if bundle.Format != BundleFormat {
		t.Errorf("expected format %q, got %q", BundleFormat, bundle.Format)
	}
	if len(bundle.InputShape) != 2 || bundle.InputShape[0] != 3 || bundle.InputShape[1] != 2 {
		t.Errorf("expected input shape [3 2], got %v", bundle.InputShape)
	}
	if bundle.Hidden != 4 {
		t.Errorf("expected hidden size 4, got %d", bundle.Hidden)
	}
	if len(bundle.Wxh) != 4 || len(bundle.Wxh[0]) != 2 {
		t.Errorf("expected 4x2 input weights, got %dx%d", len(bundle.Wxh), len(bundle.Wxh[0]))
	}
	if len(bundle.Whh) != 4 || len(bundle.Whh[0]) != 4 {
		t.Errorf("expected 4x4 recurrent weights")
	}
	if len(bundle.Bh) != 4 || len(bundle.Why) != 4 {
		t.Errorf("expected 4 biases and 4 output weights, got %d/%d", len(bundle.Bh), len(bundle.Why))
	}
}

func TestWriteWebBundle_UntrainedModel(t *testing.T) {
	if err := WriteWebBundle(rnn.New(rnn.DefaultConfig()), t.TempDir()); err == nil {
		t.Fatal("expected error for untrained model")
	}
	if err := WriteWebBundle(nil, t.TempDir()); err == nil {
		t.Fatal("expected error for nil model")
	}
}

func TestManualInstructions(t *testing.T) {
	out := ManualInstructions("data/models/anomaly_detection.gob", "data/web")
	if !strings.Contains(out, "data/models/anomaly_detection.gob") {
		t.Error("expected the artifact path in the instructions")
	}
	if !strings.Contains(out, "cmd/export") {
		t.Error("expected the export command in the instructions")
	}
}
