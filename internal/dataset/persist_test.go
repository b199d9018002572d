package dataset

import (
	"strings"
	"testing"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	in := &SequenceDataset{
		X: [][][]float64{{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}}},
		Y: []float64{0, 1},
	}
	if err := Save(dir, SequenceTrainFile, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out SequenceDataset
	if err := Load(dir, SequenceTrainFile, &out); err != nil {
		t.Fatalf("load: %v", err)
	}

	if out.Len() != in.Len() {
		t.Fatalf("expected %d windows, got %d", in.Len(), out.Len())
	}
	for i := range in.X {
		for j := range in.X[i] {
			for k := range in.X[i][j] {
				if out.X[i][j][k] != in.X[i][j][k] {
					t.Fatalf("X[%d][%d][%d]: expected %v, got %v",
						i, j, k, in.X[i][j][k], out.X[i][j][k])
				}
			}
		}
		if out.Y[i] != in.Y[i] {
			t.Fatalf("Y[%d]: expected %v, got %v", i, in.Y[i], out.Y[i])
		}
	}
}

func TestSaveLoad_RegressionCarriesFeatures(t *testing.T) {
	dir := t.TempDir()

	in := &RegressionDataset{
		X:        [][]float64{{95, 80, 20, 1, 0, 0.5, 60}},
		Y:        []float64{350},
		Features: LifetimeFeatures(),
	}
	if err := Save(dir, LifetimeTrainFile, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out RegressionDataset
	if err := Load(dir, LifetimeTrainFile, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out.Features) != len(in.Features) {
		t.Fatalf("expected %d feature names, got %d", len(in.Features), len(out.Features))
	}
	if out.Features[0] != "battery_health" {
		t.Errorf("expected battery_health first, got %q", out.Features[0])
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var out SequenceDataset
	err := Load(t.TempDir(), SequenceTrainFile, &out)
	if err == nil {
		t.Fatal("expected error for missing dump")
	}
	if !strings.Contains(err.Error(), "run the preprocess stage first") {
		t.Errorf("expected a prerequisite hint, got %q", err)
	}
}
