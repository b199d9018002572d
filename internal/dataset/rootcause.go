package dataset

import (
	"satellite-health-monitor/internal/domain"
)

// TabularDataset is a flat feature matrix with a multi-label target matrix.
type TabularDataset struct {
	X [][]float64
	Y [][]float64
}

// Len returns the number of rows.
func (d *TabularDataset) Len() int { return len(d.X) }

// BuildRootCause filters rows flagged anomalous and pairs their base feature
// vectors (cause indicators stripped) with the one-hot cause target matrix.
// Zero anomalous rows is an expected condition, signaled by ok=false rather
// than an error; callers skip the root cause training stage.
func BuildRootCause(rows []*domain.FeatureRow) (ds *TabularDataset, ok bool) {
	ds = &TabularDataset{}
	for _, r := range rows {
		if !r.Anomaly {
			continue
		}
		ds.X = append(ds.X, r.BaseVector())
		ds.Y = append(ds.Y, r.CauseVector())
	}
	return ds, ds.Len() > 0
}
