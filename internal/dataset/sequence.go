// Package dataset slices engineered feature tables into the three training
// datasets: fixed-length sequence windows, anomalous-row root cause tables,
// and battery lifetime regression tables.
package dataset

import (
	"satellite-health-monitor/internal/domain"
)

// Default sequence shape: 12-sample input window predicting the anomaly flag
// one step past the window end.
const (
	DefaultSequenceLength    = 12
	DefaultPredictionHorizon = 1
)

// SequenceDataset pairs fixed-length feature windows with binary anomaly
// labels taken from a row offset past the window end.
type SequenceDataset struct {
	X [][][]float64 // windows x sequence length x feature columns
	Y []float64     // 0/1 anomaly flag
}

// Len returns the number of windows.
func (d *SequenceDataset) Len() int { return len(d.X) }

// BuildSequence slides a window of length seqLen across rows with stride 1.
// The label for window [i, i+L) is the anomaly flag at row i+L+H-1. For a
// table of n rows it produces max(0, n-L-H+1) windows; a table shorter than
// L+H yields an empty dataset, not an error.
func BuildSequence(rows []*domain.FeatureRow, seqLen, horizon int) *SequenceDataset {
	ds := &SequenceDataset{}
	n := len(rows)
	count := n - seqLen - horizon + 1
	if count <= 0 {
		return ds
	}

	vectors := make([][]float64, n)
	for i, r := range rows {
		vectors[i] = r.Vector()
	}

	ds.X = make([][][]float64, 0, count)
	ds.Y = make([]float64, 0, count)
	for i := 0; i < count; i++ {
		window := make([][]float64, seqLen)
		copy(window, vectors[i:i+seqLen])
		ds.X = append(ds.X, window)

		label := 0.0
		if rows[i+seqLen+horizon-1].Anomaly {
			label = 1.0
		}
		ds.Y = append(ds.Y, label)
	}
	return ds
}
