package models

import "time"

// SymbolOverview is a consolidated view of a symbol's latest pipeline output.
// Note: no transport (json/http) concerns here.
type SymbolOverview struct {
	Symbol     string
	Interval   string
	Timestamp  time.Time
	LastBar    *Bar
	Indicators *IndicatorSnapshot
	Signals    []SignalEvent
	Errors     map[string]string
}
