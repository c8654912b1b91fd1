package models

import "time"

// Bar is a single OHLCV record on a fixed interval.
type Bar struct {
	Symbol    string
	Interval  string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Quote is a realtime last-price tick from the market stream.
type Quote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp time.Time
}

// AnnotatedBar is a bar joined with the signal label produced for its
// timestamp. Label is nil when the bar carried no actionable signal.
type AnnotatedBar struct {
	Bar
	Label *string
}
