package signal

import (
	"errors"
	"testing"
	"time"
)

func minuteIndex(n int) []time.Time {
	base := time.Date(2025, 2, 4, 9, 15, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = base.Add(time.Duration(i) * 15 * time.Minute)
	}
	return out
}

func frameWith(labels []Label, buy, sell []bool) *Frame {
	n := len(labels)
	return &Frame{
		Price:       make([]float64, n),
		Osc:         make([]float64, n),
		PivotHigh:   make([]float64, n),
		PivotLow:    make([]float64, n),
		ChangePoint: make([]int, n),
		BuyFlag:     buy,
		SellFlag:    sell,
		Labels:      labels,
	}
}

func TestMergeActivePreservesRowCount(t *testing.T) {
	index := minuteIndex(6)
	fr := frameWith(
		[]Label{Hold, Buy, Hold, Sell, Hold, Hold},
		[]bool{false, true, false, false, false, false},
		[]bool{false, false, false, true, false, false},
	)

	merged, err := MergeActive(index, index, fr)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != len(index) {
		t.Fatalf("merge changed row count: %d vs %d", len(merged), len(index))
	}
	if merged[1] == nil || *merged[1] != Buy {
		t.Fatalf("expected buy at row 1, got %v", merged[1])
	}
	if merged[3] == nil || *merged[3] != Sell {
		t.Fatalf("expected sell at row 3, got %v", merged[3])
	}
	for _, i := range []int{0, 2, 4, 5} {
		if merged[i] != nil {
			t.Fatalf("expected absent label at row %d, got %s", i, *merged[i])
		}
	}
}

func TestMergeActiveDropsInactiveRows(t *testing.T) {
	index := minuteIndex(3)
	// A hold row that never triggered a flag must not survive the join even
	// though its timestamp matches.
	fr := frameWith(
		[]Label{Hold, Hold, Hold},
		[]bool{false, false, false},
		[]bool{false, false, false},
	)
	merged, err := MergeActive(index, index, fr)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	for i, l := range merged {
		if l != nil {
			t.Fatalf("inactive row %d leaked into merge", i)
		}
	}
}

func TestMergeActiveUnmatchedTimestamps(t *testing.T) {
	index := minuteIndex(4)
	// Frame indexed on entirely different timestamps: all rows stay absent.
	other := make([]time.Time, 2)
	other[0] = index[0].Add(time.Hour * 24)
	other[1] = index[1].Add(time.Hour * 24)
	fr := frameWith([]Label{Buy, Sell}, []bool{true, false}, []bool{false, true})

	merged, err := MergeActive(index, other, fr)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 4 {
		t.Fatalf("row count %d, want 4", len(merged))
	}
	for i, l := range merged {
		if l != nil {
			t.Fatalf("unexpected label at %d", i)
		}
	}
}

func TestMergeActiveDuplicateTimestampsFailLoudly(t *testing.T) {
	index := minuteIndex(3)
	dup := []time.Time{index[1], index[1]}
	fr := frameWith([]Label{Buy, Sell}, []bool{true, false}, []bool{false, true})

	_, err := MergeActive(index, dup, fr)
	if !errors.Is(err, ErrMalformedFrame) {
		t.Fatalf("expected ErrMalformedFrame, got %v", err)
	}
}

func TestMergeActiveNilFrame(t *testing.T) {
	index := minuteIndex(2)
	merged, err := MergeActive(index, nil, nil)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(merged) != 2 || merged[0] != nil || merged[1] != nil {
		t.Fatalf("nil frame should produce all-absent labels")
	}
}
