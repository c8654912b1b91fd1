package signal

import "testing"

func stepSeries(low, high float64, n int) []float64 {
	out := make([]float64, 0, 2*n)
	for i := 0; i < n; i++ {
		out = append(out, low)
	}
	for i := 0; i < n; i++ {
		out = append(out, high)
	}
	return out
}

func TestPELTL2FindsMeanShift(t *testing.T) {
	values := stepSeries(0, 10, 10)

	ends := NewPELT("l2").Fit(values).Predict(1)
	if len(ends) != 2 {
		t.Fatalf("expected 2 segment ends, got %v", ends)
	}
	if ends[0] != 10 || ends[1] != 20 {
		t.Fatalf("expected ends [10 20], got %v", ends)
	}
}

func TestPELTRBFFindsMeanShift(t *testing.T) {
	values := stepSeries(0, 10, 10)

	ends := NewPELT("rbf").Fit(values).Predict(1)
	if len(ends) != 2 || ends[0] != 10 || ends[1] != 20 {
		t.Fatalf("expected ends [10 20], got %v", ends)
	}
}

func TestPELTHighPenaltySingleSegment(t *testing.T) {
	values := stepSeries(0, 1, 10)

	ends := NewPELT("l2").Fit(values).Predict(1e9)
	if len(ends) != 1 || ends[0] != len(values) {
		t.Fatalf("expected only the trailing sentinel, got %v", ends)
	}
}

func TestPELTShortSeries(t *testing.T) {
	if got := NewPELT("l2").Fit(nil).Predict(10); got != nil {
		t.Fatalf("empty series should yield no breakpoints, got %v", got)
	}
	if got := NewPELT("l2").Fit([]float64{1}).Predict(10); got != nil {
		t.Fatalf("sub-minimum series should yield no breakpoints, got %v", got)
	}
	// Exactly one minimum-size segment: only the sentinel comes back.
	got := NewPELT("l2").Fit([]float64{1, 2}).Predict(10)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected [2], got %v", got)
	}
}

func TestPELTConstantSeries(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 4.2
	}
	ends := NewPELT("rbf").Fit(values).Predict(5)
	if len(ends) != 1 || ends[0] != 50 {
		t.Fatalf("constant series should be one segment, got %v", ends)
	}
}

func TestPELTUnknownModelFallsBack(t *testing.T) {
	p := NewPELT("wavelet")
	if p.Model != CostRBF {
		t.Fatalf("unknown model should fall back to rbf, got %s", p.Model)
	}
}
