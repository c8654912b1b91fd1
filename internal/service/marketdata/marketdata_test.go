package marketdata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Radon/internal/domain/models"
	drepo "Radon/internal/domain/repository"
	"Radon/internal/service/cache"
	"Radon/internal/service/ratelimit"
)

func chartServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		if r.URL.Path != "/v1/chart" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("symbol") == "" {
			http.Error(w, "missing symbol", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"symbol": "RELIANCE",
			"interval": "15m",
			"bars": [
				{"t": 1738652400, "o": 100, "h": 105, "l": 99, "c": 104, "v": 1200},
				{"t": 1738653300, "o": 104, "h": 106, "l": 103, "c": 105, "v": 900}
			]
		}`))
	}))
}

func TestChartClientGetBars(t *testing.T) {
	hits := 0
	srv := chartServer(t, &hits)
	defer srv.Close()

	c := NewChartClient(srv.URL, "token", 5*time.Second)
	bars, err := c.GetBars(context.Background(), "RELIANCE", drepo.IV15m, 2)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 104 || bars[1].Close != 105 {
		t.Fatalf("bars decoded wrong: %+v", bars)
	}
	if bars[0].Symbol != "RELIANCE" || bars[0].Interval != "15m" {
		t.Fatalf("bar identity wrong: %+v", bars[0])
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Fatalf("bars should come back oldest first")
	}
}

func TestChartClientSuffixAndDedup(t *testing.T) {
	var gotSymbol string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSymbol = r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		// Out of order with a duplicate timestamp
		_, _ = w.Write([]byte(`{
			"symbol": "TCS",
			"interval": "15m",
			"bars": [
				{"t": 1738653300, "o": 104, "h": 106, "l": 103, "c": 105, "v": 900},
				{"t": 1738652400, "o": 100, "h": 105, "l": 99, "c": 104, "v": 1200},
				{"t": 1738653300, "o": 1, "h": 1, "l": 1, "c": 1, "v": 1}
			]
		}`))
	}))
	defer srv.Close()

	c := NewChartClient(srv.URL, "token", 5*time.Second, WithSuffix(".NS"))
	bars, err := c.GetBars(context.Background(), "TCS", drepo.IV15m, 3)
	if err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if gotSymbol != "TCS.NS" {
		t.Fatalf("suffix not applied upstream: %q", gotSymbol)
	}
	if len(bars) != 2 {
		t.Fatalf("duplicate timestamp not dropped: %d bars", len(bars))
	}
	if !bars[0].Timestamp.Before(bars[1].Timestamp) {
		t.Fatalf("bars not re-sorted: %+v", bars)
	}
	if bars[0].Symbol != "TCS" {
		t.Fatalf("returned bars must keep the bare symbol: %q", bars[0].Symbol)
	}
}

func TestChartClientThrottles(t *testing.T) {
	hits := 0
	srv := chartServer(t, &hits)
	defer srv.Close()

	c := NewChartClient(srv.URL, "token", 5*time.Second, WithLimiter(ratelimit.New(1, 0)))
	if _, err := c.GetBars(context.Background(), "X", drepo.IV15m, 2); err != nil {
		t.Fatalf("first call should pass: %v", err)
	}
	_, err := c.GetBars(context.Background(), "X", drepo.IV15m, 2)
	if !errors.Is(err, ErrThrottled) {
		t.Fatalf("expected ErrThrottled, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("throttled call must not reach upstream, hits=%d", hits)
	}
}

func TestChartClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewChartClient(srv.URL, "token", 5*time.Second)
	if _, err := c.GetBars(context.Background(), "X", drepo.IV15m, 2); err == nil {
		t.Fatalf("expected error on 500")
	}
}

// countingSource counts how often the inner source is hit.
type countingSource struct {
	calls int
	bars  []models.Bar
	err   error
}

func (s *countingSource) GetBars(context.Context, string, drepo.Interval, int) ([]models.Bar, error) {
	s.calls++
	return s.bars, s.err
}

func TestCachedSourceServesFromCache(t *testing.T) {
	inner := &countingSource{bars: []models.Bar{
		{Symbol: "TCS", Interval: "15m", Timestamp: time.Unix(1738652400, 0).UTC(), Close: 4100},
	}}
	src := NewCachedSource(inner, cache.NewTTLCache(), time.Hour, nil)

	for i := 0; i < 3; i++ {
		bars, err := src.GetBars(context.Background(), "TCS", drepo.IV15m, 100)
		if err != nil {
			t.Fatalf("get bars: %v", err)
		}
		if len(bars) != 1 || bars[0].Close != 4100 {
			t.Fatalf("unexpected bars on pass %d: %+v", i, bars)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner source hit %d times, want 1", inner.calls)
	}
}

func TestCachedSourceDistinctKeys(t *testing.T) {
	inner := &countingSource{bars: []models.Bar{{Symbol: "TCS", Close: 1}}}
	src := NewCachedSource(inner, cache.NewTTLCache(), time.Hour, nil)

	ctx := context.Background()
	if _, err := src.GetBars(ctx, "TCS", drepo.IV15m, 100); err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if _, err := src.GetBars(ctx, "TCS", drepo.IV1h, 100); err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if _, err := src.GetBars(ctx, "INFY", drepo.IV15m, 100); err != nil {
		t.Fatalf("get bars: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("distinct symbol/interval should miss, calls=%d", inner.calls)
	}
}

func TestCachedSourcePropagatesFetchError(t *testing.T) {
	inner := &countingSource{err: errors.New("upstream down")}
	src := NewCachedSource(inner, cache.NewTTLCache(), time.Hour, nil)
	if _, err := src.GetBars(context.Background(), "TCS", drepo.IV15m, 100); err == nil {
		t.Fatalf("expected fetch error to surface")
	}
}
