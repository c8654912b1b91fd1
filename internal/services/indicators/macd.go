package indicators

// Default MACD spans.
const (
	MACDFastSpan   = 12
	MACDSlowSpan   = 26
	MACDSignalSpan = 9
)

// MACD holds the MACD line, its signal line and the histogram, each aligned
// with the input series.
type MACD struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// ComputeMACD computes MACD = EMA(fast) - EMA(slow) over the closes, the
// signal line as an EMA of the MACD line, and the histogram as their
// difference.
func ComputeMACD(closes []float64, fast, slow, signalSpan int) MACD {
	if len(closes) == 0 {
		return MACD{}
	}
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = emaFast[i] - emaSlow[i]
	}
	sig := EMA(line, signalSpan)
	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = line[i] - sig[i]
	}
	return MACD{Line: line, Signal: sig, Histogram: hist}
}

// DefaultMACD computes MACD with the 12/26/9 spans.
func DefaultMACD(closes []float64) MACD {
	return ComputeMACD(closes, MACDFastSpan, MACDSlowSpan, MACDSignalSpan)
}
