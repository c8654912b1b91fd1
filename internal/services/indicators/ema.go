package indicators

import "math"

// EMA computes an exponential moving average with smoothing factor
// alpha = 2/(span+1), seeded with the first value. The result has the same
// length as the input.
func EMA(values []float64, span int) []float64 {
	if len(values) == 0 || span < 1 {
		return nil
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// ewmMean computes an exponentially weighted mean with decay 1/(1+com) and
// adjust-style weighting: each output is a weighted average over the full
// history with weights (1-alpha)^k. NaN inputs are skipped but still decay
// the existing weights.
func ewmMean(values []float64, com float64) []float64 {
	if len(values) == 0 || com < 0 {
		return nil
	}
	alpha := 1.0 / (1.0 + com)
	decay := 1.0 - alpha
	out := make([]float64, len(values))
	num, den := 0.0, 0.0
	for i, v := range values {
		num *= decay
		den *= decay
		if !math.IsNaN(v) {
			num += v
			den++
		}
		if den == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = num / den
	}
	return out
}
