package trainer

import (
	"math"
	"testing"
)

func TestEvaluateBinary(t *testing.T) {
	yTrue := []float64{1, 1, 1, 0, 0, 0, 0, 0}
	probs := []float64{0.9, 0.8, 0.2, 0.1, 0.6, 0.3, 0.4, 0.2}
	ev := EvaluateBinary(yTrue, probs, 0.5)

	// tp=2 fn=1 fp=1 tn=4
	if ev.Confusion[1][1] != 2 || ev.Confusion[1][0] != 1 ||
		ev.Confusion[0][1] != 1 || ev.Confusion[0][0] != 4 {
		t.Fatalf("unexpected confusion matrix %v", ev.Confusion)
	}
	if ev.Support != [2]int{5, 3} {
		t.Errorf("expected support [5 3], got %v", ev.Support)
	}
	if got := ev.Accuracy; math.Abs(got-0.75) > 1e-12 {
		t.Errorf("accuracy: expected 0.75, got %v", got)
	}
	if got := ev.Precision; math.Abs(got-2.0/3) > 1e-12 {
		t.Errorf("precision: expected 2/3, got %v", got)
	}
	if got := ev.Recall; math.Abs(got-2.0/3) > 1e-12 {
		t.Errorf("recall: expected 2/3, got %v", got)
	}
	wantF1 := 2 * (2.0 / 3) * (2.0 / 3) / (2.0/3 + 2.0/3)
	if got := ev.F1; math.Abs(got-wantF1) > 1e-12 {
		t.Errorf("f1: expected %v, got %v", wantF1, got)
	}
	if ev.Threshold != 0.5 {
		t.Errorf("expected threshold 0.5, got %v", ev.Threshold)
	}
}

func TestEvaluateBinary_NoPositives(t *testing.T) {
	ev := EvaluateBinary([]float64{0, 0}, []float64{0.1, 0.2}, 0.5)
	if ev.Accuracy != 1 || ev.Precision != 0 || ev.Recall != 0 || ev.F1 != 0 {
		t.Errorf("degenerate metrics: %+v", ev)
	}
}

func TestEvaluateRegression(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1.5, 2, 2.5, 4}
	ev := EvaluateRegression(yTrue, yPred)

	if got := ev.MAE; math.Abs(got-0.25) > 1e-12 {
		t.Errorf("mae: expected 0.25, got %v", got)
	}
	wantRMSE := math.Sqrt((0.25 + 0 + 0.25 + 0) / 4)
	if got := ev.RMSE; math.Abs(got-wantRMSE) > 1e-12 {
		t.Errorf("rmse: expected %v, got %v", wantRMSE, got)
	}
	// totSS = 5, sqSum = 0.5
	if got := ev.R2; math.Abs(got-0.9) > 1e-12 {
		t.Errorf("r2: expected 0.9, got %v", got)
	}
}

func TestEvaluateRegression_Empty(t *testing.T) {
	ev := EvaluateRegression(nil, nil)
	if ev.MAE != 0 || ev.RMSE != 0 || ev.R2 != 0 {
		t.Errorf("expected zero metrics, got %+v", ev)
	}
}

func TestClassWeights(t *testing.T) {
	y := []float64{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	w := ClassWeights(y)

	if got := w[1]; got != 5 { // 10 / (2*1)
		t.Errorf("positive weight: expected 5, got %v", got)
	}
	if got := w[0]; math.Abs(got-10.0/18) > 1e-12 {
		t.Errorf("negative weight: expected %v, got %v", 10.0/18, got)
	}
}

func TestClassWeights_MissingClass(t *testing.T) {
	w := ClassWeights([]float64{0, 0, 0})
	if w[1] != 1 {
		t.Errorf("missing positive class: expected weight 1, got %v", w[1])
	}
}
