package marketdata

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"Radon/internal/domain/models"
	drepo "Radon/internal/domain/repository"
	"Radon/internal/service/ratelimit"
	xhttp "Radon/pkg/http"
)

// ErrThrottled is returned when the upstream rate budget is exhausted.
var ErrThrottled = fmt.Errorf("marketdata: upstream rate limit exhausted")

// ChartClient fetches historical bars from the chart HTTP API. It implements
// BarSource and throttles per symbol so a basket scan cannot hammer the
// upstream.
type ChartClient struct {
	baseURL string
	token   string
	suffix  string
	client  *xhttp.Client
	limiter *ratelimit.Limiter
}

type ChartOption func(*ChartClient)

func WithLimiter(l *ratelimit.Limiter) ChartOption {
	return func(c *ChartClient) { c.limiter = l }
}

// WithSuffix appends an exchange suffix (e.g. ".NS") to every symbol sent
// upstream. Returned bars keep the bare symbol.
func WithSuffix(s string) ChartOption {
	return func(c *ChartClient) { c.suffix = s }
}

func NewChartClient(baseURL, token string, timeout time.Duration, opts ...ChartOption) *ChartClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &ChartClient{
		baseURL: baseURL,
		token:   token,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chartBar struct {
	T int64   `json:"t"` // unix seconds
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

type chartResponse struct {
	Symbol   string     `json:"symbol"`
	Interval string     `json:"interval"`
	Bars     []chartBar `json:"bars"`
}

// GetBars fetches the latest n bars for symbol at the given interval,
// oldest first.
func (c *ChartClient) GetBars(ctx context.Context, symbol string, interval drepo.Interval, n int) ([]models.Bar, error) {
	if c.limiter != nil && !c.limiter.Allow(symbol) {
		return nil, ErrThrottled
	}

	var cr chartResponse
	err := c.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/v1/chart",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.token,
		},
		QueryParams: map[string][]string{
			"symbol":   {symbol + c.suffix},
			"interval": {string(interval)},
			"n":        {strconv.Itoa(n)},
		},
	}, &cr)
	if err != nil {
		return nil, fmt.Errorf("marketdata: chart %s: %w", symbol, err)
	}

	bars := make([]models.Bar, 0, len(cr.Bars))
	seen := make(map[int64]bool, len(cr.Bars))
	for _, b := range cr.Bars {
		if seen[b.T] {
			continue
		}
		seen[b.T] = true
		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Interval:  string(interval),
			Timestamp: time.Unix(b.T, 0).UTC(),
			Open:      b.O,
			High:      b.H,
			Low:       b.L,
			Close:     b.C,
			Volume:    b.V,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}

var _ drepo.BarSource = (*ChartClient)(nil)
