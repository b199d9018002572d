package trainer

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/model/forest"
)

func tabularDataset(n int, seed int64) *dataset.TabularDataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &dataset.TabularDataset{}
	for i := 0; i < n; i++ {
		cause := i % domain.NumRootCauses
		x := make([]float64, domain.NumRootCauses)
		for j := range x {
			x[j] = rng.Float64()
		}
		x[cause] += 10

		y := make([]float64, domain.NumRootCauses)
		y[cause] = 1
		ds.X = append(ds.X, x)
		ds.Y = append(ds.Y, y)
	}
	return ds
}

func TestTrainRootCause(t *testing.T) {
	train := tabularDataset(100, 1)
	test := tabularDataset(25, 2)

	var buf bytes.Buffer
	cfg := forest.Config{Trees: 15, MaxDepth: 5, Seed: 42}
	res, err := TrainRootCause(train, test, cfg, quietLogger(&buf))
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	if res.Skipped {
		t.Fatal("expected training to run")
	}
	if res.Model == nil {
		t.Fatal("expected a fitted model")
	}
	if len(res.PerCause) != domain.NumRootCauses {
		t.Fatalf("expected %d per-cause evals, got %d", domain.NumRootCauses, len(res.PerCause))
	}
	for li, ev := range res.PerCause {
		if ev.F1 < 0.8 {
			t.Errorf("cause %d: expected F1 >= 0.8 on separable data, got %v", li, ev.F1)
		}
	}
}

func TestTrainRootCause_SkippedOnEmpty(t *testing.T) {
	var buf bytes.Buffer
	res, err := TrainRootCause(&dataset.TabularDataset{}, &dataset.TabularDataset{}, forest.DefaultConfig(), quietLogger(&buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected Skipped=true for empty dataset")
	}
	if res.Model != nil {
		t.Error("expected no model when skipped")
	}
	if !strings.Contains(buf.String(), "skipping") {
		t.Error("expected a skip diagnostic")
	}

	res, err = TrainRootCause(nil, nil, forest.DefaultConfig(), quietLogger(&buf))
	if err != nil {
		t.Fatalf("unexpected error for nil dataset: %v", err)
	}
	if !res.Skipped {
		t.Fatal("expected Skipped=true for nil dataset")
	}
}
