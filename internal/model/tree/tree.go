// Package tree implements weighted variance-reduction regression trees, the
// shared base learner for the boosted regressor and the random forest.
package tree

import (
	"math/rand"
	"sort"
)

// Node is one tree node. Leaves carry the prediction value; internal nodes
// carry the split. Fields are exported for gob serialization.
type Node struct {
	Leaf      bool
	Value     float64
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

// Tree is a fitted regression tree.
type Tree struct {
	Root *Node
}

// Config controls tree growth.
type Config struct {
	MaxDepth      int
	MinLeafSize   int
	FeatureSample int // features considered per split; 0 means all
}

// Grow fits a tree to (X, y) with per-sample weights. weights may be nil for
// uniform weighting. rng is only consulted when FeatureSample > 0.
func Grow(X [][]float64, y, weights []float64, cfg Config, rng *rand.Rand) *Tree {
	if len(X) == 0 {
		return &Tree{Root: &Node{Leaf: true}}
	}
	if cfg.MinLeafSize < 1 {
		cfg.MinLeafSize = 1
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	g := &grower{X: X, y: y, w: weights, cfg: cfg, rng: rng}
	return &Tree{Root: g.build(idx, 0)}
}

// Predict evaluates the tree for a single sample.
func (t *Tree) Predict(sample []float64) float64 {
	n := t.Root
	for n != nil && !n.Leaf {
		if sample[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	if n == nil {
		return 0
	}
	return n.Value
}

type grower struct {
	X   [][]float64
	y   []float64
	w   []float64
	cfg Config
	rng *rand.Rand
}

func (g *grower) weight(i int) float64 {
	if g.w == nil {
		return 1
	}
	return g.w[i]
}

func (g *grower) leaf(idx []int) *Node {
	var sum, wsum float64
	for _, i := range idx {
		w := g.weight(i)
		sum += w * g.y[i]
		wsum += w
	}
	v := 0.0
	if wsum > 0 {
		v = sum / wsum
	}
	return &Node{Leaf: true, Value: v}
}

func (g *grower) build(idx []int, depth int) *Node {
	if depth >= g.cfg.MaxDepth || len(idx) <= g.cfg.MinLeafSize {
		return g.leaf(idx)
	}

	feature, threshold, found := g.bestSplit(idx)
	if !found {
		return g.leaf(idx)
	}

	var left, right []int
	for _, i := range idx {
		if g.X[i][feature] < threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return g.leaf(idx)
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      g.build(left, depth+1),
		Right:     g.build(right, depth+1),
	}
}

// bestSplit scans candidate features for the split with the largest weighted
// squared-error reduction.
func (g *grower) bestSplit(idx []int) (feature int, threshold float64, found bool) {
	nFeatures := len(g.X[idx[0]])
	candidates := g.candidateFeatures(nFeatures)

	bestGain := 0.0
	for _, f := range candidates {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool {
			return g.X[sorted[a]][f] < g.X[sorted[b]][f]
		})

		var totalSum, totalSq, totalW float64
		for _, i := range sorted {
			w := g.weight(i)
			totalSum += w * g.y[i]
			totalSq += w * g.y[i] * g.y[i]
			totalW += w
		}
		if totalW == 0 {
			continue
		}
		totalSSE := totalSq - totalSum*totalSum/totalW

		var leftSum, leftSq, leftW float64
		for k := 0; k < len(sorted)-1; k++ {
			i := sorted[k]
			w := g.weight(i)
			leftSum += w * g.y[i]
			leftSq += w * g.y[i] * g.y[i]
			leftW += w

			// No split between equal feature values.
			if g.X[i][f] == g.X[sorted[k+1]][f] {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			rightW := totalW - leftW
			if leftW == 0 || rightW == 0 {
				continue
			}

			sse := (leftSq - leftSum*leftSum/leftW) + (rightSq - rightSum*rightSum/rightW)
			gain := totalSSE - sse
			if gain > bestGain {
				bestGain = gain
				feature = f
				threshold = (g.X[i][f] + g.X[sorted[k+1]][f]) / 2
				found = true
			}
		}
	}
	return feature, threshold, found
}

func (g *grower) candidateFeatures(nFeatures int) []int {
	all := make([]int, nFeatures)
	for i := range all {
		all[i] = i
	}
	if g.cfg.FeatureSample <= 0 || g.cfg.FeatureSample >= nFeatures || g.rng == nil {
		return all
	}
	g.rng.Shuffle(nFeatures, func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:g.cfg.FeatureSample]
}
