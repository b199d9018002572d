// Package forest implements a random forest binary classifier and the
// multi-output wrapper used for root cause analysis.
package forest

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"

	"satellite-health-monitor/internal/model/tree"
)

// Config holds the forest hyperparameters.
type Config struct {
	Trees    int
	MaxDepth int
	Seed     int64
}

// DefaultConfig matches the standard root cause classifier setup.
func DefaultConfig() Config {
	return Config{
		Trees:    100,
		MaxDepth: 10,
		Seed:     42,
	}
}

// Classifier is a fitted random forest for a single binary label. Fields are
// exported for gob serialization.
type Classifier struct {
	Cfg     Config
	Trees   []*tree.Tree
	Trained bool
}

// New creates an unfitted classifier.
func New(cfg Config) *Classifier {
	if cfg.Trees <= 0 {
		cfg = DefaultConfig()
	}
	return &Classifier{Cfg: cfg}
}

// Fit trains the forest on binary targets. Samples are bootstrapped per
// tree; each split considers sqrt(F) random features. Class imbalance is
// compensated with inverse-frequency sample weights.
func (c *Classifier) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("forest: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("forest: feature/target length mismatch")
	}

	weights := balancedWeights(y)
	nFeatures := len(X[0])
	treeCfg := tree.Config{
		MaxDepth:      c.Cfg.MaxDepth,
		MinLeafSize:   1,
		FeatureSample: int(math.Ceil(math.Sqrt(float64(nFeatures)))),
	}

	rng := rand.New(rand.NewSource(c.Cfg.Seed))
	c.Trees = make([]*tree.Tree, 0, c.Cfg.Trees)
	for t := 0; t < c.Cfg.Trees; t++ {
		bootX := make([][]float64, len(X))
		bootY := make([]float64, len(y))
		bootW := make([]float64, len(y))
		for i := range X {
			j := rng.Intn(len(X))
			bootX[i] = X[j]
			bootY[i] = y[j]
			bootW[i] = weights[j]
		}
		c.Trees = append(c.Trees, tree.Grow(bootX, bootY, bootW, treeCfg, rng))
	}

	c.Trained = true
	return nil
}

// PredictProba returns the positive-class probability per sample, the mean
// of the tree leaf values.
func (c *Classifier) PredictProba(X [][]float64) ([]float64, error) {
	if !c.Trained {
		return nil, errors.New("forest: model not trained")
	}
	out := make([]float64, len(X))
	for i, sample := range X {
		var sum float64
		for _, t := range c.Trees {
			sum += t.Predict(sample)
		}
		out[i] = sum / float64(len(c.Trees))
	}
	return out, nil
}

// Predict returns hard 0/1 labels at the 0.5 threshold.
func (c *Classifier) Predict(X [][]float64) ([]float64, error) {
	probs, err := c.PredictProba(X)
	if err != nil {
		return nil, err
	}
	for i, p := range probs {
		if p >= 0.5 {
			probs[i] = 1
		} else {
			probs[i] = 0
		}
	}
	return probs, nil
}

// balancedWeights computes inverse-frequency sample weights n/(2*count).
func balancedWeights(y []float64) []float64 {
	var pos float64
	for _, v := range y {
		if v > 0.5 {
			pos++
		}
	}
	neg := float64(len(y)) - pos
	n := float64(len(y))

	posW, negW := 1.0, 1.0
	if pos > 0 {
		posW = n / (2 * pos)
	}
	if neg > 0 {
		negW = n / (2 * neg)
	}

	out := make([]float64, len(y))
	for i, v := range y {
		if v > 0.5 {
			out[i] = posW
		} else {
			out[i] = negW
		}
	}
	return out
}

// MultiOutput trains one forest per target column, mirroring a multi-label
// one-vs-rest classifier.
type MultiOutput struct {
	Forests []*Classifier
	Trained bool
}

// NewMultiOutput creates an unfitted multi-output classifier with one forest
// per label.
func NewMultiOutput(cfg Config, labels int) *MultiOutput {
	m := &MultiOutput{Forests: make([]*Classifier, labels)}
	for i := range m.Forests {
		// Offset seeds so the per-label forests are not clones.
		sub := cfg
		sub.Seed = cfg.Seed + int64(i)
		m.Forests[i] = New(sub)
	}
	return m
}

// Fit trains each per-label forest against its one-hot target column.
func (m *MultiOutput) Fit(X [][]float64, Y [][]float64) error {
	if len(X) == 0 {
		return errors.New("forest: empty training data")
	}
	if len(X) != len(Y) {
		return errors.New("forest: feature/target length mismatch")
	}
	for li, f := range m.Forests {
		col := make([]float64, len(Y))
		for i := range Y {
			col[i] = Y[i][li]
		}
		if err := f.Fit(X, col); err != nil {
			return err
		}
	}
	m.Trained = true
	return nil
}

// Predict returns the hard label matrix, one column per forest.
func (m *MultiOutput) Predict(X [][]float64) ([][]float64, error) {
	if !m.Trained {
		return nil, errors.New("forest: model not trained")
	}
	out := make([][]float64, len(X))
	for i := range out {
		out[i] = make([]float64, len(m.Forests))
	}
	for li, f := range m.Forests {
		col, err := f.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := range col {
			out[i][li] = col[i]
		}
	}
	return out, nil
}

// Save serializes the trained model.
func (m *MultiOutput) Save() ([]byte, error) {
	if !m.Trained {
		return nil, errors.New("forest: model not trained")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load deserializes a trained model.
func (m *MultiOutput) Load(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(m)
}
