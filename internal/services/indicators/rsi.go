package indicators

import "math"

// DefaultRSIPeriod is the standard RSI lookback.
const DefaultRSIPeriod = 14

// RSI computes the Relative Strength Index over the closes using
// exponentially weighted averages of gains and losses with center of mass
// period-1. The first period outputs are NaN while the averages warm up.
func RSI(closes []float64, period int) []float64 {
	if period < 1 || len(closes) == 0 {
		return nil
	}
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	gains[0] = math.NaN()
	losses[0] = math.NaN()
	for i := 1; i < n; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	avgGain := ewmMean(gains, float64(period-1))
	avgLoss := ewmMean(losses, float64(period-1))

	out := make([]float64, n)
	for i := range out {
		if i < period {
			out[i] = math.NaN()
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}
