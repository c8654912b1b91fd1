package models

// Requests for the signal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"15m" validate:"oneof=1m 5m 15m 30m 1h 1d"`
	Profile  string `query:"profile" json:"profile" default:"combined" validate:"oneof=combined light"`
	Limit    int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=1000"`
}

type RecentSignalsRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type ScanRequest struct {
	Symbols  []string `json:"symbols" validate:"required,min=1,max=100,dive,required"`
	Interval string   `json:"interval" default:"15m" validate:"oneof=1m 5m 15m 30m 1h 1d"`
	Profile  string   `json:"profile" default:"combined" validate:"oneof=combined light"`
}

type OverviewRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"15m" validate:"oneof=1m 5m 15m 30m 1h 1d"`
}

type BarsRequest struct {
	Symbol   string `query:"symbol" json:"symbol" validate:"required"`
	Interval string `query:"interval" json:"interval" default:"15m" validate:"oneof=1m 5m 15m 30m 1h 1d"`
	N        int    `query:"n" json:"n" default:"600" validate:"gte=1,lte=5000"`
	Annotate bool   `query:"annotate" json:"annotate"`
}
