package dataset

import (
	"testing"
)

func TestSplitSequence_Stratified(t *testing.T) {
	ds := &SequenceDataset{}
	for i := 0; i < 100; i++ {
		ds.X = append(ds.X, [][]float64{{float64(i)}})
		label := 0.0
		if i < 20 {
			label = 1.0
		}
		ds.Y = append(ds.Y, label)
	}

	train, test := SplitSequence(ds, 0.2, 42)

	if got := train.Len() + test.Len(); got != ds.Len() {
		t.Fatalf("split loses rows: %d + %d != %d", train.Len(), test.Len(), ds.Len())
	}
	if test.Len() != 20 {
		t.Fatalf("expected 20 test rows, got %d", test.Len())
	}

	// Each class keeps its test fraction.
	count := func(ys []float64) (pos int) {
		for _, y := range ys {
			if y == 1 {
				pos++
			}
		}
		return pos
	}
	if got := count(test.Y); got != 4 {
		t.Errorf("expected 4 positive test rows, got %d", got)
	}
	if got := count(train.Y); got != 16 {
		t.Errorf("expected 16 positive train rows, got %d", got)
	}
}

func TestSplitSequence_Deterministic(t *testing.T) {
	ds := &SequenceDataset{}
	for i := 0; i < 50; i++ {
		ds.X = append(ds.X, [][]float64{{float64(i)}})
		ds.Y = append(ds.Y, float64(i%2))
	}

	trainA, testA := SplitSequence(ds, 0.2, 7)
	trainB, testB := SplitSequence(ds, 0.2, 7)

	if trainA.Len() != trainB.Len() || testA.Len() != testB.Len() {
		t.Fatal("same seed produced different split sizes")
	}
	for i := range testA.X {
		if testA.X[i][0][0] != testB.X[i][0][0] {
			t.Fatalf("same seed produced different test sets at %d", i)
		}
	}
}

func TestSplitRegression(t *testing.T) {
	ds := &RegressionDataset{Features: LifetimeFeatures()}
	for i := 0; i < 50; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, float64(i))
	}

	train, test := SplitRegression(ds, 0.2, 42)
	if test.Len() != 10 {
		t.Fatalf("expected 10 test rows, got %d", test.Len())
	}
	if train.Len() != 40 {
		t.Fatalf("expected 40 train rows, got %d", train.Len())
	}
	if len(train.Features) != len(ds.Features) || len(test.Features) != len(ds.Features) {
		t.Error("feature names not carried through the split")
	}

	// No row appears in both parts.
	seen := make(map[float64]bool)
	for _, x := range train.X {
		seen[x[0]] = true
	}
	for _, x := range test.X {
		if seen[x[0]] {
			t.Fatalf("row %v present in both train and test", x[0])
		}
	}
}

func TestSplitTabular(t *testing.T) {
	ds := &TabularDataset{}
	for i := 0; i < 30; i++ {
		ds.X = append(ds.X, []float64{float64(i)})
		ds.Y = append(ds.Y, []float64{1, 0, 0, 0, 0})
	}

	train, test := SplitTabular(ds, 0.2, 42)
	if test.Len() != 6 || train.Len() != 24 {
		t.Fatalf("expected 24/6 split, got %d/%d", train.Len(), test.Len())
	}
}
