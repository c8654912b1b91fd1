package signal

import "fmt"

// Config is the full parameter surface of the structural engine.
type Config struct {
	LeftBars  int     // pivot look-back window
	RightBars int     // pivot look-ahead window
	Penalty   float64 // change-point penalty
	Model     string  // change-point cost model ("l2" or "rbf")
	Window    int     // bars around a change point that confirm a pivot
}

// CombinedProfile is the parameter set used for the full basket scan.
func CombinedProfile() Config {
	return Config{LeftBars: 5, RightBars: 5, Penalty: 20, Model: string(CostRBF), Window: 8}
}

// LightProfile is a cheaper variant for quick rescans.
func LightProfile() Config {
	return Config{LeftBars: 3, RightBars: 3, Penalty: 10, Model: string(CostRBF), Window: 5}
}

func (c Config) validate() error {
	if c.LeftBars < 0 || c.RightBars < 0 {
		return fmt.Errorf("signal: negative pivot window (%d/%d)", c.LeftBars, c.RightBars)
	}
	if c.Window < 0 {
		return fmt.Errorf("signal: negative proximity window %d", c.Window)
	}
	return nil
}

// Frame holds the per-bar state produced by Fuse. All slices have the same
// length as the input series.
type Frame struct {
	Price       []float64
	Osc         []float64
	PivotHigh   []float64 // pivot value or NaN
	PivotLow    []float64
	ChangePoint []int // 0/1 flag
	BuyFlag     []bool
	SellFlag    []bool
	Labels      []Label
}

// Len returns the number of rows in the frame.
func (f *Frame) Len() int { return len(f.Labels) }

// Active reports whether row i triggered either eligibility flag. Only
// active rows are forwarded into the merge.
func (f *Frame) Active(i int) bool { return f.BuyFlag[i] || f.SellFlag[i] }

// Fuse combines pivot detection over the oscillator with change-point
// detection over the price series.
//
// A bar is buy-eligible when it is a pivot low within cfg.Window bars of a
// detected change point, sell-eligible symmetrically for pivot highs. The
// label is buy or sell only when exactly one flag fires; a bar where both
// fire stays hold. An empty change-point set (short series, degenerate data)
// therefore fuses to an all-hold frame rather than an error.
//
// alg may be nil, in which case a PELT solver for cfg.Model is used.
func Fuse(price, osc []float64, alg Algorithm, cfg Config) (*Frame, error) {
	if len(price) != len(osc) {
		return nil, fmt.Errorf("signal: price/oscillator length mismatch (%d vs %d)", len(price), len(osc))
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if alg == nil {
		alg = NewPELT(cfg.Model)
	}

	n := len(price)
	fr := &Frame{
		Price:       price,
		Osc:         osc,
		PivotHigh:   Pivots(osc, cfg.LeftBars, cfg.RightBars, PivotHigh),
		PivotLow:    Pivots(osc, cfg.LeftBars, cfg.RightBars, PivotLow),
		ChangePoint: make([]int, n),
		BuyFlag:     make([]bool, n),
		SellFlag:    make([]bool, n),
		Labels:      make([]Label, n),
	}

	for _, cp := range DetectChangePoints(alg, price, cfg.Penalty) {
		fr.ChangePoint[cp] = 1
	}

	// Prefix sums make the windowed proximity check O(1) per bar.
	prefix := make([]int, n+1)
	for i, v := range fr.ChangePoint {
		prefix[i+1] = prefix[i] + v
	}

	for i := 0; i < n; i++ {
		lo := i - cfg.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + cfg.Window
		if hi > n-1 {
			hi = n - 1
		}
		near := prefix[hi+1]-prefix[lo] > 0
		if near {
			fr.BuyFlag[i] = HasPivot(fr.PivotLow, i)
			fr.SellFlag[i] = HasPivot(fr.PivotHigh, i)
		}

		switch {
		case fr.BuyFlag[i] && !fr.SellFlag[i]:
			fr.Labels[i] = Buy
		case fr.SellFlag[i] && !fr.BuyFlag[i]:
			fr.Labels[i] = Sell
		default:
			fr.Labels[i] = Hold
		}
	}
	return fr, nil
}
