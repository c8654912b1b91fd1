package signal

import (
	"math"
	"sort"
)

// CostModel selects the segment cost used by the PELT search.
type CostModel string

const (
	// CostL2 models piecewise-constant means (sum of squared deviations).
	CostL2 CostModel = "l2"
	// CostRBF is a kernel cost over a Gaussian Gram matrix; it reacts to
	// changes in the distribution, not just the mean.
	CostRBF CostModel = "rbf"
)

// ValidCostModel reports whether s names a supported cost model.
func ValidCostModel(s string) bool {
	switch CostModel(s) {
	case CostL2, CostRBF:
		return true
	}
	return false
}

// PELT is a penalized exact change-point search. It minimizes
// sum(segment costs) + penalty * #segments with pruning that keeps the
// search near-linear for typical penalty values.
type PELT struct {
	Model   CostModel
	MinSize int // minimum segment length, default 2
}

// NewPELT builds a solver for the given cost model. An unknown model name
// falls back to rbf, which is the default in every shipped profile.
func NewPELT(model string) *PELT {
	m := CostModel(model)
	if !ValidCostModel(model) {
		m = CostRBF
	}
	return &PELT{Model: m, MinSize: 2}
}

// Fit precomputes cost structures for the series.
func (p *PELT) Fit(values []float64) Predictor {
	minSize := p.MinSize
	if minSize < 1 {
		minSize = 2
	}
	m := &peltModel{n: len(values), minSize: minSize}
	switch p.Model {
	case CostL2:
		m.cost = newL2Cost(values)
	default:
		m.cost = newRBFCost(values)
	}
	return m
}

type segmentCost interface {
	// cost returns the cost of the half-open segment [start, end).
	cost(start, end int) float64
}

type peltModel struct {
	n       int
	minSize int
	cost    segmentCost
}

// Predict runs the pruned optimal-partitioning recursion and returns sorted
// segment ends, including n as the trailing sentinel. A series too short to
// hold a single segment yields nil.
func (m *peltModel) Predict(penalty float64) []int {
	n := m.n
	if n < m.minSize {
		return nil
	}

	// f[t] is the optimal penalized cost of values[:t]; prev[t] the start of
	// the last segment in that optimum.
	f := make([]float64, n+1)
	prev := make([]int, n+1)
	for i := range f {
		f[i] = math.Inf(1)
	}
	f[0] = -penalty

	cands := []int{0}
	for t := m.minSize; t <= n; t++ {
		if t >= 2*m.minSize {
			cands = append(cands, t-m.minSize)
		}
		best := math.Inf(1)
		bestS := 0
		for _, s := range cands {
			v := f[s] + m.cost.cost(s, t) + penalty
			if v < best {
				best = v
				bestS = s
			}
		}
		f[t] = best
		prev[t] = bestS

		// Prune candidates that can never beat the current optimum.
		kept := cands[:0]
		for _, s := range cands {
			if f[s]+m.cost.cost(s, t) <= f[t] {
				kept = append(kept, s)
			}
		}
		cands = kept
	}

	var ends []int
	for t := n; t > 0; t = prev[t] {
		ends = append(ends, t)
	}
	sort.Ints(ends)
	return ends
}

// l2Cost uses prefix sums so each segment cost is O(1).
type l2Cost struct {
	sum  []float64
	sum2 []float64
}

func newL2Cost(values []float64) *l2Cost {
	n := len(values)
	c := &l2Cost{sum: make([]float64, n+1), sum2: make([]float64, n+1)}
	for i, v := range values {
		c.sum[i+1] = c.sum[i] + v
		c.sum2[i+1] = c.sum2[i] + v*v
	}
	return c
}

func (c *l2Cost) cost(start, end int) float64 {
	if end <= start {
		return 0
	}
	n := float64(end - start)
	s := c.sum[end] - c.sum[start]
	s2 := c.sum2[end] - c.sum2[start]
	return s2 - s*s/n
}

// rbfCost precomputes a 2D prefix sum over the Gaussian Gram matrix so each
// segment cost is O(1) after an O(n^2) fit. The bandwidth follows the median
// heuristic over pairwise squared distances.
type rbfCost struct {
	pre [][]float64 // pre[i][j] = sum of K over [0,i) x [0,j)
}

func newRBFCost(values []float64) *rbfCost {
	n := len(values)
	gamma := medianGamma(values)

	pre := make([][]float64, n+1)
	pre[0] = make([]float64, n+1)
	for i := 0; i < n; i++ {
		row := make([]float64, n+1)
		for j := 0; j < n; j++ {
			d := values[i] - values[j]
			k := math.Exp(-gamma * d * d)
			row[j+1] = row[j] + k
		}
		prevRow := pre[i]
		for j := 0; j <= n; j++ {
			row[j] += prevRow[j]
		}
		pre[i+1] = row
	}
	return &rbfCost{pre: pre}
}

func (c *rbfCost) cost(start, end int) float64 {
	if end <= start {
		return 0
	}
	n := float64(end - start)
	block := c.pre[end][end] - c.pre[start][end] - c.pre[end][start] + c.pre[start][start]
	// diag(K) is all ones, so the within-segment scatter reduces to this.
	return n - block/n
}

func medianGamma(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 1
	}
	dists := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := values[i] - values[j]
			dists = append(dists, d*d)
		}
	}
	sort.Float64s(dists)
	med := dists[len(dists)/2]
	if med <= 0 {
		return 1
	}
	return 1 / med
}
