package trainer

import (
	"errors"
	"log"

	"satellite-health-monitor/internal/dataset"
	"satellite-health-monitor/internal/model/gbt"
)

// LifetimeResult holds the fitted lifetime regressor and its evaluation.
type LifetimeResult struct {
	Model       *gbt.Regressor
	Eval        RegressionEval
	Importances []float64 // aligned with dataset.LifetimeFeatures()
	TrainSize   int
	TestSize    int
}

// TrainLifetime fits the battery lifetime regressor.
func TrainLifetime(train, test *dataset.RegressionDataset, cfg gbt.Config, logger *log.Logger) (*LifetimeResult, error) {
	if logger == nil {
		logger = log.Default()
	}
	if train.Len() == 0 {
		return nil, errors.New("trainer: empty lifetime training split")
	}

	m := gbt.New(cfg)
	if err := m.Fit(train.X, train.Y); err != nil {
		return nil, err
	}

	res := &LifetimeResult{
		Model:       m,
		Importances: m.FeatureImportances(len(train.Features)),
		TrainSize:   train.Len(),
		TestSize:    test.Len(),
	}

	if test.Len() > 0 {
		preds, err := m.Predict(test.X)
		if err != nil {
			return nil, err
		}
		res.Eval = EvaluateRegression(test.Y, preds)
		logger.Printf("lifetime model: mae=%.2f days rmse=%.2f days r2=%.3f",
			res.Eval.MAE, res.Eval.RMSE, res.Eval.R2)
	}
	return res, nil
}
