package signal

// Algorithm is a pluggable change-point solver. Fit precomputes whatever the
// solver needs for a series; Predict then returns segment boundaries for a
// penalty value, so one fit can be queried at several penalties.
type Algorithm interface {
	Fit(values []float64) Predictor
}

// Predictor returns sorted segment end indices for a penalized search.
// Following the usual segmentation convention the final index len(values)
// may be included as a trailing sentinel.
type Predictor interface {
	Predict(penalty float64) []int
}

// DetectChangePoints runs the solver over values and returns only indices
// that are valid positions in the series. The trailing sentinel (and any
// other out-of-range index a solver might produce) is filtered here because
// callers index directly with the result. A solver that cannot segment the
// series yields an empty set, which downstream treats as "no regime change".
func DetectChangePoints(alg Algorithm, values []float64, penalty float64) []int {
	if alg == nil || len(values) == 0 {
		return nil
	}
	raw := alg.Fit(values).Predict(penalty)
	out := make([]int, 0, len(raw))
	for _, idx := range raw {
		if idx >= 0 && idx < len(values) {
			out = append(out, idx)
		}
	}
	return out
}
