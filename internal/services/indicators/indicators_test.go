package indicators

import (
	"math"
	"testing"

	"Radon/internal/domain/models"
	"Radon/internal/signal"
)

func TestEMASpanOneTracksInput(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}
	out := EMA(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("span 1 EMA should equal input at %d: %v vs %v", i, out[i], values[i])
		}
	}
}

func TestEMAConstantSeries(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7, 7}
	out := EMA(values, 12)
	for i, v := range out {
		if v != 7 {
			t.Fatalf("constant series EMA drifted at %d: %v", i, v)
		}
	}
}

func TestEMARecursion(t *testing.T) {
	values := []float64{10, 20}
	out := EMA(values, 3) // alpha = 0.5
	if out[0] != 10 || out[1] != 15 {
		t.Fatalf("expected [10 15], got %v", out)
	}
}

func TestMACDHistogramConsistency(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/4)
	}
	m := DefaultMACD(closes)
	if len(m.Line) != len(closes) || len(m.Signal) != len(closes) || len(m.Histogram) != len(closes) {
		t.Fatalf("macd output lengths mismatch input")
	}
	for i := range closes {
		if diff := m.Histogram[i] - (m.Line[i] - m.Signal[i]); math.Abs(diff) > 1e-12 {
			t.Fatalf("histogram inconsistent at %d: %v", i, diff)
		}
	}
}

func TestMACDFlatSeriesIsZero(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 250
	}
	m := DefaultMACD(closes)
	for i := range closes {
		if m.Line[i] != 0 || m.Histogram[i] != 0 {
			t.Fatalf("flat series produced nonzero macd at %d", i)
		}
	}
}

func TestRSIWarmupAndMonotoneGains(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(100 + i)
	}
	out := RSI(closes, DefaultRSIPeriod)
	for i := 0; i < DefaultRSIPeriod; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("expected NaN during warmup at %d, got %v", i, out[i])
		}
	}
	for i := DefaultRSIPeriod; i < len(out); i++ {
		if out[i] != 100 {
			t.Fatalf("all-gain series should read RSI 100 at %d, got %v", i, out[i])
		}
	}
}

func TestRSIMonotoneLossesNearZero(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(200 - i)
	}
	out := RSI(closes, DefaultRSIPeriod)
	for i := DefaultRSIPeriod; i < len(out); i++ {
		if out[i] != 0 {
			t.Fatalf("all-loss series should read RSI 0 at %d, got %v", i, out[i])
		}
	}
}

func TestRSIRuleThresholds(t *testing.T) {
	cases := []struct {
		rsi  float64
		want signal.Label
	}{
		{25, signal.Buy},
		{30, signal.Hold},
		{50, signal.Hold},
		{65, signal.Hold},
		{70, signal.Sell},
		{math.NaN(), signal.Hold},
	}
	for _, tc := range cases {
		if got := RSIRule(tc.rsi); got != tc.want {
			t.Fatalf("RSIRule(%v) = %s, want %s", tc.rsi, got, tc.want)
		}
	}
}

func TestMACDRule(t *testing.T) {
	buy := models.IndicatorSnapshot{MACD: 2, MACDSig: 0.5, Histogram: 1.5, RSI: 55}
	if MACDRule(buy) != signal.Buy {
		t.Fatalf("expected buy")
	}
	sell := models.IndicatorSnapshot{MACD: -2, MACDSig: -0.5, Histogram: -1.5, RSI: 45}
	if MACDRule(sell) != signal.Sell {
		t.Fatalf("expected sell")
	}
	// Momentum up but RSI too weak: no buy.
	weak := models.IndicatorSnapshot{MACD: 2, MACDSig: 0.5, Histogram: 1.5, RSI: 35}
	if MACDRule(weak) != signal.Hold {
		t.Fatalf("expected hold on weak rsi")
	}
}

func TestConfirmerGatesOnMomentum(t *testing.T) {
	c := NewConfirmer()
	buy := models.IndicatorSnapshot{MACD: 2, MACDSig: 0.5, Histogram: 1.5, RSI: 55}
	if !c.Confirm(buy, "buy") {
		t.Fatalf("momentum buy should confirm structural buy")
	}
	if c.Confirm(buy, "sell") {
		t.Fatalf("momentum buy must not confirm structural sell")
	}
	if c.Confirm(buy, "hold") {
		t.Fatalf("hold is never confirmable")
	}
	if c.Confirm(buy, "exit") {
		t.Fatalf("unknown labels are rejected")
	}
}
