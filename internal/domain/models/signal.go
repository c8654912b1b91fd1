package models

import "time"

// SignalEvent is one actionable structural signal for a symbol. It is what
// the pipeline persists and publishes.
type SignalEvent struct {
	ID        string
	Symbol    string
	Interval  string
	Timestamp time.Time
	Label     string // "buy" | "sell"
	Profile   string // "combined" | "light"
	Price     float64
	Osc       float64 // oscillator value at the signal bar
	RSI       float64
	MACD      float64
	CreatedAt time.Time
}

// IndicatorSnapshot carries the momentum indicator state at one bar. The
// pipeline uses it to confirm structural signals before they are emitted.
type IndicatorSnapshot struct {
	MACD      float64
	MACDSig   float64
	Histogram float64
	RSI       float64
}

// ScanResult summarizes one pipeline run over a symbol.
type ScanResult struct {
	Symbol   string
	Interval string
	Profile  string
	Bars     int
	Signals  []SignalEvent
	Started  time.Time
	Elapsed  time.Duration
}
