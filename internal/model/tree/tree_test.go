package tree

import (
	"math"
	"math/rand"
	"testing"
)

func TestGrow_SimpleSplit(t *testing.T) {
	// Feature 0 separates the targets perfectly at 5.
	X := [][]float64{{1}, {2}, {3}, {7}, {8}, {9}}
	y := []float64{0, 0, 0, 10, 10, 10}

	tr := Grow(X, y, nil, Config{MaxDepth: 3, MinLeafSize: 1}, nil)

	if got := tr.Predict([]float64{0}); got != 0 {
		t.Errorf("left side: expected 0, got %v", got)
	}
	if got := tr.Predict([]float64{10}); got != 10 {
		t.Errorf("right side: expected 10, got %v", got)
	}
	// The threshold is the midpoint between the closest values.
	root := tr.Root
	if root.Leaf {
		t.Fatal("expected a split at the root")
	}
	if root.Feature != 0 || root.Threshold != 5 {
		t.Errorf("expected split on feature 0 at 5, got feature %d at %v", root.Feature, root.Threshold)
	}
}

func TestGrow_PicksDiscriminativeFeature(t *testing.T) {
	// Feature 0 is noise, feature 1 carries the signal.
	X := [][]float64{{3, 0}, {1, 0}, {2, 0}, {1, 1}, {3, 1}, {2, 1}}
	y := []float64{0, 0, 0, 5, 5, 5}

	tr := Grow(X, y, nil, Config{MaxDepth: 2, MinLeafSize: 1}, nil)
	if tr.Root.Leaf || tr.Root.Feature != 1 {
		t.Errorf("expected root split on feature 1, got %+v", tr.Root)
	}
}

func TestGrow_MaxDepthLeaf(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}}
	y := []float64{1, 2, 3, 4}

	tr := Grow(X, y, nil, Config{MaxDepth: 0, MinLeafSize: 1}, nil)
	if !tr.Root.Leaf {
		t.Fatal("expected a single leaf at depth 0")
	}
	if got := tr.Root.Value; got != 2.5 {
		t.Errorf("expected leaf mean 2.5, got %v", got)
	}
}

func TestGrow_Weighted(t *testing.T) {
	// With all weight on the last sample the unsplittable leaf takes its value.
	X := [][]float64{{1}, {1}, {1}}
	y := []float64{0, 0, 9}
	w := []float64{0, 0, 1}

	tr := Grow(X, y, w, Config{MaxDepth: 2, MinLeafSize: 1}, nil)
	if got := tr.Predict([]float64{1}); got != 9 {
		t.Errorf("expected weighted leaf 9, got %v", got)
	}
}

func TestGrow_EmptyData(t *testing.T) {
	tr := Grow(nil, nil, nil, Config{MaxDepth: 3}, nil)
	if got := tr.Predict([]float64{1, 2, 3}); got != 0 {
		t.Errorf("expected 0 from empty tree, got %v", got)
	}
}

func TestGrow_FeatureSample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	X := make([][]float64, 40)
	y := make([]float64, 40)
	for i := range X {
		X[i] = []float64{rng.Float64(), rng.Float64(), rng.Float64()}
		y[i] = X[i][0] + X[i][1] + X[i][2]
	}

	tr := Grow(X, y, nil, Config{MaxDepth: 4, MinLeafSize: 2, FeatureSample: 1}, rng)

	// Predictions stay near the target range.
	for i, sample := range X {
		if p := tr.Predict(sample); math.IsNaN(p) || p < 0 || p > 3 {
			t.Fatalf("sample %d: prediction %v out of range", i, p)
		}
	}
}
