// Package rnn implements a small recurrent binary sequence classifier, the
// anomaly detection model. One tanh hidden layer unrolled over the input
// window, a sigmoid output head, trained with class-weighted log loss and
// seeded stochastic gradient descent.
package rnn

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
)

// Config holds the network shape and training hyperparameters.
type Config struct {
	HiddenSize   int
	Epochs       int
	LearningRate float64
	Seed         int64
}

// DefaultConfig matches the standard anomaly detection setup.
func DefaultConfig() Config {
	return Config{
		HiddenSize:   16,
		Epochs:       30,
		LearningRate: 0.01,
		Seed:         42,
	}
}

// Classifier is a fitted recurrent sequence classifier. Fields are exported
// for gob serialization.
type Classifier struct {
	Cfg       Config
	InputSize int
	SeqLen    int
	Wxh       [][]float64 // hidden x input
	Whh       [][]float64 // hidden x hidden
	Bh        []float64
	Why       []float64 // output head weights, one per hidden unit
	By        float64
	Trained   bool
}

// New creates an unfitted classifier.
func New(cfg Config) *Classifier {
	if cfg.HiddenSize <= 0 {
		cfg = DefaultConfig()
	}
	return &Classifier{Cfg: cfg}
}

// Fit trains on sequences X (samples x steps x features) with binary labels
// y. classWeights maps label 0/1 to its loss weight; nil means uniform.
func (c *Classifier) Fit(X [][][]float64, y []float64, classWeights map[int]float64) error {
	if len(X) == 0 {
		return errors.New("rnn: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("rnn: feature/target length mismatch")
	}
	if len(X[0]) == 0 || len(X[0][0]) == 0 {
		return errors.New("rnn: empty sequence window")
	}

	c.SeqLen = len(X[0])
	c.InputSize = len(X[0][0])
	rng := rand.New(rand.NewSource(c.Cfg.Seed))
	c.initWeights(rng)

	weightFor := func(label float64) float64 {
		if classWeights == nil {
			return 1
		}
		if label > 0.5 {
			return classWeights[1]
		}
		return classWeights[0]
	}

	order := make([]int, len(X))
	for i := range order {
		order[i] = i
	}

	for epoch := 0; epoch < c.Cfg.Epochs; epoch++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		for _, i := range order {
			c.step(X[i], y[i], weightFor(y[i]))
		}
	}

	c.Trained = true
	return nil
}

// Predict returns the anomaly probability per sequence.
func (c *Classifier) Predict(X [][][]float64) ([]float64, error) {
	if !c.Trained {
		return nil, errors.New("rnn: model not trained")
	}
	out := make([]float64, len(X))
	for i, seq := range X {
		p, err := c.PredictOne(seq)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// PredictOne returns the anomaly probability for a single sequence.
func (c *Classifier) PredictOne(seq [][]float64) (float64, error) {
	if !c.Trained {
		return 0, errors.New("rnn: model not trained")
	}
	if len(seq) == 0 || len(seq[0]) != c.InputSize {
		return 0, errors.New("rnn: sequence shape mismatch")
	}
	_, p := c.forward(seq)
	return p, nil
}

func (c *Classifier) initWeights(rng *rand.Rand) {
	h, in := c.Cfg.HiddenSize, c.InputSize
	scaleIn := 1 / math.Sqrt(float64(in))
	scaleH := 1 / math.Sqrt(float64(h))

	c.Wxh = randomMatrix(rng, h, in, scaleIn)
	c.Whh = randomMatrix(rng, h, h, scaleH)
	c.Bh = make([]float64, h)
	c.Why = make([]float64, h)
	for i := range c.Why {
		c.Why[i] = rng.NormFloat64() * scaleH
	}
	c.By = 0
}

// forward unrolls the network and returns the hidden states per step
// (including the initial zero state at index 0) and the output probability.
func (c *Classifier) forward(seq [][]float64) ([][]float64, float64) {
	h := c.Cfg.HiddenSize
	states := make([][]float64, len(seq)+1)
	states[0] = make([]float64, h)

	for t, x := range seq {
		prev := states[t]
		next := make([]float64, h)
		for j := 0; j < h; j++ {
			z := c.Bh[j]
			for k, xv := range x {
				z += c.Wxh[j][k] * xv
			}
			for k, hv := range prev {
				z += c.Whh[j][k] * hv
			}
			next[j] = math.Tanh(z)
		}
		states[t+1] = next
	}

	last := states[len(states)-1]
	z := c.By
	for j, hv := range last {
		z += c.Why[j] * hv
	}
	return states, sigmoid(z)
}

// step performs one weighted SGD update with backpropagation through time.
func (c *Classifier) step(seq [][]float64, label, weight float64) {
	h := c.Cfg.HiddenSize
	lr := c.Cfg.LearningRate

	states, p := c.forward(seq)

	// d(loss)/d(logit) for weighted log loss.
	dz := weight * (p - label)

	last := states[len(states)-1]
	dh := make([]float64, h)
	for j := 0; j < h; j++ {
		dh[j] = c.Why[j] * dz
		c.Why[j] -= lr * dz * last[j]
	}
	c.By -= lr * dz

	for t := len(seq) - 1; t >= 0; t-- {
		state := states[t+1]
		prev := states[t]
		dnext := make([]float64, h)
		for j := 0; j < h; j++ {
			// Backprop through tanh.
			g := dh[j] * (1 - state[j]*state[j])
			c.Bh[j] -= lr * g
			for k, xv := range seq[t] {
				c.Wxh[j][k] -= lr * g * xv
			}
			for k, hv := range prev {
				dnext[k] += c.Whh[j][k] * g
				c.Whh[j][k] -= lr * g * hv
			}
		}
		dh = dnext
	}
}

// Save serializes the trained model.
func (c *Classifier) Save() ([]byte, error) {
	if !c.Trained {
		return nil, errors.New("rnn: model not trained")
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load deserializes a trained model.
func (c *Classifier) Load(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(c)
}

func randomMatrix(rng *rand.Rand, rows, cols int, scale float64) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
		for j := range m[i] {
			m[i][j] = rng.NormFloat64() * scale
		}
	}
	return m
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
