package indicators

import (
	"math"

	"Radon/internal/domain/models"
	"Radon/internal/signal"
)

// RSI thresholds for the standalone oversold/overbought rule.
const (
	RSIOversold   = 30
	RSIOverbought = 65
)

// RSIRule labels a bar from the RSI value alone: oversold is a buy,
// overbought is a sell. NaN stays hold.
func RSIRule(rsi float64) signal.Label {
	switch {
	case math.IsNaN(rsi):
		return signal.Hold
	case rsi < RSIOversold:
		return signal.Buy
	case rsi > RSIOverbought:
		return signal.Sell
	default:
		return signal.Hold
	}
}

// MACDRule labels a bar from the momentum state. A buy needs the MACD line
// above 1 and above its signal line, a histogram above 1, and RSI above 40.
// A sell mirrors those conditions below -1 with RSI under 60.
func MACDRule(s models.IndicatorSnapshot) signal.Label {
	switch {
	case s.MACD > 1 && s.MACD > s.MACDSig && s.Histogram > 1 && s.RSI > 40:
		return signal.Buy
	case s.MACD < -1 && s.MACD < s.MACDSig && s.Histogram < -1 && s.RSI < 60:
		return signal.Sell
	default:
		return signal.Hold
	}
}

// SnapshotAt collects the indicator state at bar i.
func SnapshotAt(m MACD, rsi []float64, i int) models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		MACD:      m.Line[i],
		MACDSig:   m.Signal[i],
		Histogram: m.Histogram[i],
		RSI:       rsi[i],
	}
}

// Confirmer gates structural labels on momentum agreement: a structural buy
// only passes when the MACD rule also says buy, and likewise for sells.
type Confirmer struct{}

func NewConfirmer() Confirmer { return Confirmer{} }

func (Confirmer) Confirm(s models.IndicatorSnapshot, label string) bool {
	want, err := signal.ParseLabel(label)
	if err != nil || want == signal.Hold {
		return false
	}
	return MACDRule(s) == want
}
