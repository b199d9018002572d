package trainer

import (
	"log"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/domain"
	"satellite-health-monitor/internal/model/forest"
)

// RootCauseResult holds the fitted multi-output classifier and per-cause
// evaluation. Skipped is set when the dataset was empty; the result then
// carries no model and dependent stages are skipped, not failed.
type RootCauseResult struct {
	Model     *forest.MultiOutput
	PerCause  []BinaryEval // aligned with domain.RootCauses()
	Skipped   bool
	TrainSize int
	TestSize  int
}

// TrainRootCause fits the root cause classifier. An empty training dataset
// (zero anomalous rows) is a recoverable condition reported via
// Skipped=true with a diagnostic, never an error.
func TrainRootCause(train, test *dataset.TabularDataset, cfg forest.Config, logger *log.Logger) (*RootCauseResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	if train == nil || train.Len() == 0 {
		logger.Printf("no anomalous rows available; skipping root cause training")
		return &RootCauseResult{Skipped: true}, nil
	}

	m := forest.NewMultiOutput(cfg, domain.NumRootCauses)
	if err := m.Fit(train.X, train.Y); err != nil {
		return nil, err
	}

	res := &RootCauseResult{
		Model:     m,
		TrainSize: train.Len(),
		TestSize:  test.Len(),
	}

	if test.Len() > 0 {
		preds, err := m.Predict(test.X)
		if err != nil {
			return nil, err
		}
		res.PerCause = make([]BinaryEval, domain.NumRootCauses)
		for li := 0; li < domain.NumRootCauses; li++ {
			yTrue := make([]float64, len(test.Y))
			yPred := make([]float64, len(preds))
			for i := range test.Y {
				yTrue[i] = test.Y[i][li]
				yPred[i] = preds[i][li]
			}
			res.PerCause[li] = EvaluateBinary(yTrue, yPred, DecisionThreshold)
		}
		for li, cause := range domain.RootCauses() {
			ev := res.PerCause[li]
			logger.Printf("root cause %s: precision=%.3f recall=%.3f f1=%.3f",
				cause, ev.Precision, ev.Recall, ev.F1)
		}
	}
	return res, nil
}
