package dataset

import "math/rand"

// DefaultSplit matches the standard held-out evaluation setup.
const (
	DefaultTestFraction = 0.2
	DefaultSplitSeed    = 42
)

// splitIndices shuffles [0, n) with a seeded source and cuts off the test
// fraction from the front.
func splitIndices(n int, testFraction float64, seed int64) (train, test []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testFraction)
	return perm[nTest:], perm[:nTest]
}

// stratifiedIndices splits per binary class so the test fraction of each
// class is preserved, then interleaves deterministically.
func stratifiedIndices(labels []float64, testFraction float64, seed int64) (train, test []int) {
	var pos, neg []int
	for i, y := range labels {
		if y > 0.5 {
			pos = append(pos, i)
		} else {
			neg = append(neg, i)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for _, class := range [][]int{neg, pos} {
		rng.Shuffle(len(class), func(i, j int) { class[i], class[j] = class[j], class[i] })
		nTest := int(float64(len(class)) * testFraction)
		test = append(test, class[:nTest]...)
		train = append(train, class[nTest:]...)
	}
	return train, test
}

// SplitSequence cuts a sequence dataset into stratified train/test parts.
func SplitSequence(ds *SequenceDataset, testFraction float64, seed int64) (train, test *SequenceDataset) {
	trainIdx, testIdx := stratifiedIndices(ds.Y, testFraction, seed)
	pick := func(idx []int) *SequenceDataset {
		out := &SequenceDataset{}
		for _, i := range idx {
			out.X = append(out.X, ds.X[i])
			out.Y = append(out.Y, ds.Y[i])
		}
		return out
	}
	return pick(trainIdx), pick(testIdx)
}

// SplitTabular cuts a multi-label tabular dataset into train/test parts.
func SplitTabular(ds *TabularDataset, testFraction float64, seed int64) (train, test *TabularDataset) {
	trainIdx, testIdx := splitIndices(ds.Len(), testFraction, seed)
	pick := func(idx []int) *TabularDataset {
		out := &TabularDataset{}
		for _, i := range idx {
			out.X = append(out.X, ds.X[i])
			out.Y = append(out.Y, ds.Y[i])
		}
		return out
	}
	return pick(trainIdx), pick(testIdx)
}

// SplitRegression cuts a regression dataset into train/test parts.
func SplitRegression(ds *RegressionDataset, testFraction float64, seed int64) (train, test *RegressionDataset) {
	trainIdx, testIdx := splitIndices(ds.Len(), testFraction, seed)
	pick := func(idx []int) *RegressionDataset {
		out := &RegressionDataset{Features: ds.Features}
		for _, i := range idx {
			out.X = append(out.X, ds.X[i])
			out.Y = append(out.Y, ds.Y[i])
		}
		return out
	}
	return pick(trainIdx), pick(testIdx)
}
