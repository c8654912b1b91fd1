package signal

import "testing"

// stubAlgorithm returns a fixed breakpoint list regardless of input.
type stubAlgorithm struct{ ends []int }

func (s stubAlgorithm) Fit([]float64) Predictor { return s }
func (s stubAlgorithm) Predict(float64) []int   { return s.ends }

func TestDetectChangePointsFiltersSentinel(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	got := DetectChangePoints(stubAlgorithm{ends: []int{2, 5}}, values, 10)
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("expected sentinel filtered, got %v", got)
	}
}

func TestDetectChangePointsFiltersOutOfRange(t *testing.T) {
	values := []float64{1, 2, 3}
	got := DetectChangePoints(stubAlgorithm{ends: []int{-1, 1, 3, 99}}, values, 10)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected only in-range indices, got %v", got)
	}
}

func TestDetectChangePointsEmptyInputs(t *testing.T) {
	if got := DetectChangePoints(nil, []float64{1, 2}, 10); got != nil {
		t.Fatalf("nil algorithm should yield nil, got %v", got)
	}
	if got := DetectChangePoints(stubAlgorithm{ends: []int{0}}, nil, 10); got != nil {
		t.Fatalf("empty series should yield nil, got %v", got)
	}
}
