package signal

import (
	"math"
	"testing"
)

func TestPivotsHighLow(t *testing.T) {
	osc := []float64{1, 5, 2, 8, 3, 1, 9, 2}

	highs := Pivots(osc, 1, 1, PivotHigh)
	lows := Pivots(osc, 1, 1, PivotLow)

	wantHigh := map[int]float64{1: 5, 3: 8, 6: 9}
	wantLow := map[int]float64{2: 2, 5: 1}

	for i := range osc {
		if v, ok := wantHigh[i]; ok {
			if highs[i] != v {
				t.Fatalf("expected pivot high %v at %d, got %v", v, i, highs[i])
			}
		} else if !math.IsNaN(highs[i]) {
			t.Fatalf("unexpected pivot high at %d: %v", i, highs[i])
		}
		if v, ok := wantLow[i]; ok {
			if lows[i] != v {
				t.Fatalf("expected pivot low %v at %d, got %v", v, i, lows[i])
			}
		} else if !math.IsNaN(lows[i]) {
			t.Fatalf("unexpected pivot low at %d: %v", i, lows[i])
		}
	}
}

func TestPivotsMarkedIndexDominatesWindows(t *testing.T) {
	osc := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5, 8, 9, 7, 9, 3, 2, 3, 8, 4}
	left, right := 2, 2

	highs := Pivots(osc, left, right, PivotHigh)
	for i := range osc {
		if math.IsNaN(highs[i]) {
			continue
		}
		for j := i - left; j < i; j++ {
			if osc[i] < osc[j] {
				t.Fatalf("pivot high at %d not >= back window value at %d", i, j)
			}
		}
		for j := i + 1; j <= i+right; j++ {
			if osc[i] <= osc[j] {
				t.Fatalf("pivot high at %d not > forward window value at %d", i, j)
			}
		}
	}
}

func TestPivotsBackwardTiesEligible(t *testing.T) {
	// Equal maxima in the backward window must not disqualify the reference,
	// only forward ties do.
	osc := []float64{7, 7, 3}
	highs := Pivots(osc, 1, 1, PivotHigh)
	if math.IsNaN(highs[1]) {
		t.Fatalf("expected backward tie at index 1 to remain a pivot high")
	}

	// Forward tie: strict comparison rejects the earlier bar.
	osc = []float64{3, 7, 7}
	highs = Pivots(osc, 1, 1, PivotHigh)
	if !math.IsNaN(highs[1]) {
		t.Fatalf("forward tie at index 1 must not be a pivot high")
	}
}

func TestPivotsShortSeriesAllAbsent(t *testing.T) {
	for _, n := range []int{0, 1, 2, 5} {
		osc := make([]float64, n)
		for i := range osc {
			osc[i] = float64(i)
		}
		got := Pivots(osc, 3, 3, PivotHigh)
		if len(got) != n {
			t.Fatalf("len(got)=%d want %d", len(got), n)
		}
		for i, v := range got {
			if !math.IsNaN(v) {
				t.Fatalf("series of length %d produced pivot at %d", n, i)
			}
		}
	}
}

func TestPivotsIdempotent(t *testing.T) {
	osc := []float64{1, 5, 2, 8, 3, 1, 9, 2}
	a := Pivots(osc, 1, 1, PivotLow)
	b := Pivots(osc, 1, 1, PivotLow)
	for i := range a {
		if math.IsNaN(a[i]) != math.IsNaN(b[i]) || (!math.IsNaN(a[i]) && a[i] != b[i]) {
			t.Fatalf("pivot pass not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
