// Package trainer fits the three models against their prepared datasets and
// evaluates them on held-out splits.
package trainer

import (
	"errors"
	"log"
	"math/rand"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/model/rnn"
)

// DecisionThreshold is the fixed probability threshold for classifying a
// sequence window as anomalous.
const DecisionThreshold = 0.5

// syntheticFlipFraction is the fraction of training labels flipped when the
// training split collapses to a single class.
const syntheticFlipFraction = 0.05

// AnomalyResult holds the fitted sequence classifier and its evaluation.
type AnomalyResult struct {
	Model            *rnn.Classifier
	ClassWeights     map[int]float64
	SyntheticFlipped int // labels flipped by the degenerate-split fallback
	Eval             BinaryEval
	TrainSize        int
	TestSize         int
}

// TrainAnomaly fits the sequence anomaly classifier. A single-class training
// split is repaired by flipping a small random fraction of labels to the
// missing class; this keeps the fit well-posed and is reported loudly rather
// than applied silently.
func TrainAnomaly(train, test *dataset.SequenceDataset, cfg rnn.Config, logger *log.Logger) (*AnomalyResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	if train.Len() == 0 {
		return nil, errors.New("trainer: empty sequence training split")
	}

	res := &AnomalyResult{TrainSize: train.Len(), TestSize: test.Len()}

	y := make([]float64, len(train.Y))
	copy(y, train.Y)

	if flipped := repairSingleClass(y, cfg.Seed); flipped > 0 {
		res.SyntheticFlipped = flipped
		logger.Printf("WARNING: training split has a single class; flipped %d of %d labels synthetically to keep the fit well-posed",
			flipped, len(y))
	}

	res.ClassWeights = ClassWeights(y)
	logger.Printf("class weights: normal=%.3f anomaly=%.3f", res.ClassWeights[0], res.ClassWeights[1])

	m := rnn.New(cfg)
	if err := m.Fit(train.X, y, res.ClassWeights); err != nil {
		return nil, err
	}
	res.Model = m

	if test.Len() > 0 {
		probs, err := m.Predict(test.X)
		if err != nil {
			return nil, err
		}
		res.Eval = EvaluateBinary(test.Y, probs, DecisionThreshold)
		logger.Printf("anomaly model: accuracy=%.3f precision=%.3f recall=%.3f f1=%.3f",
			res.Eval.Accuracy, res.Eval.Precision, res.Eval.Recall, res.Eval.F1)
	}
	return res, nil
}

// repairSingleClass flips max(5, 5% of n) random labels to the missing class
// when y contains only one class. Returns the number of flipped labels.
func repairSingleClass(y []float64, seed int64) int {
	var pos int
	for _, v := range y {
		if v > 0.5 {
			pos++
		}
	}
	if pos != 0 && pos != len(y) {
		return 0
	}

	count := int(syntheticFlipFraction * float64(len(y)))
	if count < 5 {
		count = 5
	}
	if count > len(y) {
		count = len(y)
	}

	target := 1.0
	if pos == len(y) {
		target = 0.0
	}

	rng := rand.New(rand.NewSource(seed))
	for _, i := range rng.Perm(len(y))[:count] {
		y[i] = target
	}
	return count
}
