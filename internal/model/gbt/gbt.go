// Package gbt implements a least-squares gradient-boosted tree regressor,
// the lifetime prediction model.
package gbt

import (
	"bytes"
	"encoding/gob"
	"errors"

	"satellite-health-monitor/internal/model/tree"
)

// Config holds the boosting hyperparameters.
type Config struct {
	Estimators   int
	MaxDepth     int
	LearningRate float64
}

// DefaultConfig matches the standard lifetime regressor setup.
func DefaultConfig() Config {
	return Config{
		Estimators:   200,
		MaxDepth:     5,
		LearningRate: 0.1,
	}
}

// Regressor is a fitted gradient-boosted tree ensemble. Fields are exported
// for gob serialization.
type Regressor struct {
	Cfg     Config
	Init    float64 // initial prediction (training mean)
	Trees   []*tree.Tree
	Trained bool
}

// New creates an unfitted regressor.
func New(cfg Config) *Regressor {
	if cfg.Estimators <= 0 {
		cfg = DefaultConfig()
	}
	return &Regressor{Cfg: cfg}
}

// Fit trains the ensemble by least-squares residual boosting.
func (r *Regressor) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("gbt: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("gbt: feature/target length mismatch")
	}

	var sum float64
	for _, v := range y {
		sum += v
	}
	r.Init = sum / float64(len(y))

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = r.Init
	}

	residual := make([]float64, len(y))
	treeCfg := tree.Config{MaxDepth: r.Cfg.MaxDepth, MinLeafSize: 1}
	r.Trees = make([]*tree.Tree, 0, r.Cfg.Estimators)

	for m := 0; m < r.Cfg.Estimators; m++ {
		for i := range y {
			residual[i] = y[i] - pred[i]
		}
		t := tree.Grow(X, residual, nil, treeCfg, nil)
		r.Trees = append(r.Trees, t)
		for i := range pred {
			pred[i] += r.Cfg.LearningRate * t.Predict(X[i])
		}
	}

	r.Trained = true
	return nil
}

// Predict returns predictions for each sample.
func (r *Regressor) Predict(X [][]float64) ([]float64, error) {
	if !r.Trained {
		return nil, errors.New("gbt: model not trained")
	}
	out := make([]float64, len(X))
	for i, sample := range X {
		out[i] = r.PredictOne(sample)
	}
	return out, nil
}

// PredictOne returns the prediction for a single sample.
func (r *Regressor) PredictOne(sample []float64) float64 {
	v := r.Init
	for _, t := range r.Trees {
		v += r.Cfg.LearningRate * t.Predict(sample)
	}
	return v
}

// FeatureImportances returns per-feature split counts normalized to sum to 1,
// a cheap proxy for impurity-based importance.
func (r *Regressor) FeatureImportances(nFeatures int) []float64 {
	counts := make([]float64, nFeatures)
	var total float64
	for _, t := range r.Trees {
		total += countSplits(t.Root, counts)
	}
	if total > 0 {
		for i := range counts {
			counts[i] /= total
		}
	}
	return counts
}

func countSplits(n *tree.Node, counts []float64) float64 {
	if n == nil || n.Leaf {
		return 0
	}
	if n.Feature < len(counts) {
		counts[n.Feature]++
	}
	return 1 + countSplits(n.Left, counts) + countSplits(n.Right, counts)
}

// Save serializes the trained model.
func (r *Regressor) Save() ([]byte, error) {
	if !r.Trained {
		return nil, errors.New("gbt: model not trained")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load deserializes a trained model.
func (r *Regressor) Load(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(r)
}
