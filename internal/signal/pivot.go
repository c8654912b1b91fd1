package signal

import "math"

// PivotKind selects which local extremum a pivot pass looks for.
type PivotKind int

const (
	PivotHigh PivotKind = iota
	PivotLow
)

// Pivots scans an oscillator series and returns a slice of the same length
// where each detected pivot index carries the oscillator value and every
// other index is NaN.
//
// An index i is eligible only when it has left bars behind it and right bars
// ahead of it. A pivot high must be >= every value in the backward window and
// strictly > every value in the forward window; the strict forward comparison
// breaks plateaus toward the earlier bar. Pivot lows are symmetric with
// <= and <. A series shorter than left+right+1 yields an all-NaN result.
func Pivots(osc []float64, left, right int, kind PivotKind) []float64 {
	out := make([]float64, len(osc))
	for i := range out {
		out[i] = math.NaN()
	}
	if left < 0 || right < 0 {
		return out
	}
	for i := left; i < len(osc)-right; i++ {
		if isPivot(osc, i, left, right, kind) {
			out[i] = osc[i]
		}
	}
	return out
}

func isPivot(osc []float64, i, left, right int, kind PivotKind) bool {
	ref := osc[i]
	for j := i - left; j < i; j++ {
		if kind == PivotHigh && ref < osc[j] {
			return false
		}
		if kind == PivotLow && ref > osc[j] {
			return false
		}
	}
	for j := i + 1; j <= i+right; j++ {
		if kind == PivotHigh && ref <= osc[j] {
			return false
		}
		if kind == PivotLow && ref >= osc[j] {
			return false
		}
	}
	return true
}

// HasPivot reports whether the pivot pass marked index i.
func HasPivot(pivots []float64, i int) bool {
	return i >= 0 && i < len(pivots) && !math.IsNaN(pivots[i])
}
