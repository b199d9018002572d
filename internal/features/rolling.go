package features

import "math"

// RollingMean computes window-sized rolling means over values.
// While fewer than window samples are available the raw value is used,
// matching the documented incomplete-window fill policy.
func RollingMean(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i < window-1 {
			out[i] = v
			continue
		}
		out[i] = sum / float64(window)
	}
	return out
}

// RollingStd computes window-sized rolling sample standard deviations.
// Incomplete windows yield 0.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 2 {
		return out
	}
	for i := range values {
		if i < window-1 {
			continue
		}
		var sum float64
		for j := i - window + 1; j <= i; j++ {
			sum += values[j]
		}
		mean := sum / float64(window)

		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(window-1))
	}
	return out
}

// Delta computes first differences; the first value is treated as zero.
func Delta(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}
