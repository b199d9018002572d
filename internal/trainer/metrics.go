package trainer

import "math"

// BinaryEval holds held-out evaluation metrics for a binary classifier.
type BinaryEval struct {
	Threshold float64
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	// Confusion[actual][predicted] counts, 0 = normal, 1 = anomaly.
	Confusion [2][2]int
	Support   [2]int
}

// EvaluateBinary scores probabilities against 0/1 labels at the threshold.
func EvaluateBinary(yTrue, probs []float64, threshold float64) BinaryEval {
	ev := BinaryEval{Threshold: threshold}
	for i, p := range probs {
		actual := 0
		if yTrue[i] > 0.5 {
			actual = 1
		}
		pred := 0
		if p >= threshold {
			pred = 1
		}
		ev.Confusion[actual][pred]++
		ev.Support[actual]++
	}

	tp := float64(ev.Confusion[1][1])
	fp := float64(ev.Confusion[0][1])
	fn := float64(ev.Confusion[1][0])
	tn := float64(ev.Confusion[0][0])
	total := tp + fp + fn + tn

	if total > 0 {
		ev.Accuracy = (tp + tn) / total
	}
	if tp+fp > 0 {
		ev.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		ev.Recall = tp / (tp + fn)
	}
	if ev.Precision+ev.Recall > 0 {
		ev.F1 = 2 * ev.Precision * ev.Recall / (ev.Precision + ev.Recall)
	}
	return ev
}

// RegressionEval holds held-out evaluation metrics for a regressor.
type RegressionEval struct {
	MAE  float64
	RMSE float64
	R2   float64
}

// EvaluateRegression scores predictions against targets.
func EvaluateRegression(yTrue, yPred []float64) RegressionEval {
	var ev RegressionEval
	n := float64(len(yTrue))
	if n == 0 {
		return ev
	}

	var mean float64
	for _, v := range yTrue {
		mean += v
	}
	mean /= n

	var absSum, sqSum, totSS float64
	for i := range yTrue {
		d := yTrue[i] - yPred[i]
		absSum += math.Abs(d)
		sqSum += d * d
		t := yTrue[i] - mean
		totSS += t * t
	}

	ev.MAE = absSum / n
	ev.RMSE = math.Sqrt(sqSum / n)
	if totSS > 0 {
		ev.R2 = 1 - sqSum/totSS
	}
	return ev
}

// ClassWeights computes inverse-frequency weights n/(2*count) per binary
// class. A missing class keeps weight 1; callers repair degenerate label
// sets before training.
func ClassWeights(y []float64) map[int]float64 {
	var pos float64
	for _, v := range y {
		if v > 0.5 {
			pos++
		}
	}
	neg := float64(len(y)) - pos
	n := float64(len(y))

	w := map[int]float64{0: 1, 1: 1}
	if neg > 0 {
		w[0] = n / (2 * neg)
	}
	if pos > 0 {
		w[1] = n / (2 * pos)
	}
	return w
}
