package signal

import "testing"

func TestFuseNoChangePointsAllHold(t *testing.T) {
	price := []float64{1, 5, 2, 8, 3, 1, 9, 2}
	cfg := Config{LeftBars: 1, RightBars: 1, Penalty: 10, Model: "rbf", Window: 3}

	fr, err := Fuse(price, price, stubAlgorithm{ends: nil}, cfg)
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	for i := 0; i < fr.Len(); i++ {
		if fr.BuyFlag[i] || fr.SellFlag[i] {
			t.Fatalf("row %d eligible without any change point", i)
		}
		if fr.Labels[i] != Hold {
			t.Fatalf("row %d label %s, want hold", i, fr.Labels[i])
		}
	}
}

func TestFusePivotNearChangePoint(t *testing.T) {
	// Pivot low at index 10, change point at 12, window 3: |10-12| <= 3 so
	// index 10 is buy-eligible.
	osc := make([]float64, 20)
	for i := range osc {
		osc[i] = 5
	}
	osc[10] = 1
	cfg := Config{LeftBars: 1, RightBars: 1, Penalty: 10, Model: "rbf", Window: 3}

	fr, err := Fuse(osc, osc, stubAlgorithm{ends: []int{12}}, cfg)
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	if !fr.BuyFlag[10] {
		t.Fatalf("expected buy eligibility at index 10")
	}
	if fr.Labels[10] != Buy {
		t.Fatalf("expected buy label at index 10, got %s", fr.Labels[10])
	}
	// The bar before the dip is a pivot high (its forward window holds the
	// dip) and also sits inside the proximity window.
	if fr.Labels[9] != Sell {
		t.Fatalf("expected sell label at index 9, got %s", fr.Labels[9])
	}
	for i := 0; i < fr.Len(); i++ {
		if i != 9 && i != 10 && fr.Labels[i] != Hold {
			t.Fatalf("unexpected label %s at %d", fr.Labels[i], i)
		}
	}
}

func TestFuseSimultaneousFlagsResolveToHold(t *testing.T) {
	// With zero-width pivot windows every bar is both a pivot high and a
	// pivot low, so both flags fire everywhere near the change point and
	// every label must stay hold.
	values := []float64{4, 4, 4, 4, 4}
	cfg := Config{LeftBars: 0, RightBars: 0, Penalty: 10, Model: "rbf", Window: 2}

	fr, err := Fuse(values, values, stubAlgorithm{ends: []int{2}}, cfg)
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	for i := 0; i < fr.Len(); i++ {
		if fr.BuyFlag[i] != fr.SellFlag[i] {
			t.Fatalf("expected symmetric flags at %d", i)
		}
		if fr.Labels[i] != Hold {
			t.Fatalf("simultaneous flags at %d must resolve to hold, got %s", i, fr.Labels[i])
		}
	}
	if !fr.Active(2) {
		t.Fatalf("both-flag rows are still active rows")
	}
}

func TestFuseWindowClampsAtBoundaries(t *testing.T) {
	values := []float64{5, 1, 5}
	cfg := Config{LeftBars: 1, RightBars: 1, Penalty: 10, Model: "rbf", Window: 100}

	fr, err := Fuse(values, values, stubAlgorithm{ends: []int{0}}, cfg)
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	if fr.Labels[1] != Buy {
		t.Fatalf("expected buy at index 1, got %s", fr.Labels[1])
	}
}

func TestFuseLengthMismatch(t *testing.T) {
	_, err := Fuse([]float64{1, 2, 3}, []float64{1, 2}, stubAlgorithm{}, CombinedProfile())
	if err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestFuseChangePointFlagVector(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	fr, err := Fuse(values, values, stubAlgorithm{ends: []int{1, 4, 6}}, Config{LeftBars: 1, RightBars: 1, Penalty: 1, Model: "l2", Window: 0})
	if err != nil {
		t.Fatalf("fuse: %v", err)
	}
	want := []int{0, 1, 0, 0, 1, 0}
	for i, v := range want {
		if fr.ChangePoint[i] != v {
			t.Fatalf("change point flag at %d = %d, want %d", i, fr.ChangePoint[i], v)
		}
	}
}
