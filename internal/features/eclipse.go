package features

// EclipseTransitionCounter counts samples since the last eclipse-state
// transition. The counter is 0 at the first sample, resets to 0 at every
// index where the flag differs from the prior index, and increments by 1
// otherwise. Single left-to-right pass, no look-ahead.
func EclipseTransitionCounter(flags []bool) []int {
	out := make([]int, len(flags))
	counter := 0
	for i := range flags {
		if i == 0 {
			out[i] = 0
			continue
		}
		if flags[i] != flags[i-1] {
			counter = 0
		} else {
			counter++
		}
		out[i] = counter
	}
	return out
}

// EclipseChange returns the signed flag difference per sample
// (+1 entering eclipse, -1 leaving, 0 otherwise; 0 for the first sample).
func EclipseChange(flags []bool) []float64 {
	out := make([]float64, len(flags))
	for i := 1; i < len(flags); i++ {
		out[i] = boolTo(flags[i]) - boolTo(flags[i-1])
	}
	return out
}

func boolTo(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
