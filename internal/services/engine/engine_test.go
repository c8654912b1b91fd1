package engine

import (
	"context"
	"testing"
	"time"

	"Radon/internal/domain/models"
	"Radon/internal/signal"
)

func barSeries(closes []float64) []models.Bar {
	base := time.Date(2025, 2, 4, 9, 15, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Symbol:    "RELIANCE",
			Interval:  "15m",
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Close:     c,
		}
	}
	return bars
}

// fixedBreaks always reports the same segment ends.
type fixedBreaks struct{ ends []int }

func (f fixedBreaks) Fit([]float64) signal.Predictor { return f }
func (f fixedBreaks) Predict(float64) []int          { return f.ends }

// acceptAll confirms any actionable label.
type acceptAll struct{}

func (acceptAll) Confirm(models.IndicatorSnapshot, string) bool { return true }

// rejectAll confirms nothing.
type rejectAll struct{}

func (rejectAll) Confirm(models.IndicatorSnapshot, string) bool { return false }

func dipSeries() []float64 {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	closes[20] = 40
	return closes
}

func TestComputeUnknownProfile(t *testing.T) {
	e := New(nil, acceptAll{})
	if _, err := e.Compute(context.Background(), "X", "15m", barSeries([]float64{1, 2, 3}), "turbo"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestComputeEmitsConfirmedSignals(t *testing.T) {
	// One sharp dip: the bottom is the only pivot low, and the injected
	// change point sits right on it.
	closes := dipSeries()
	bars := barSeries(closes)
	profiles := map[string]signal.Config{"light": signal.LightProfile()}

	e := New(profiles, acceptAll{}, WithAlgorithm(fixedBreaks{ends: []int{20}}))
	res, err := e.Compute(context.Background(), "RELIANCE", "15m", bars, "light")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if res.Bars != 40 || res.Symbol != "RELIANCE" || res.Profile != "light" {
		t.Fatalf("scan metadata wrong: %+v", res)
	}
	if len(res.Signals) != 1 {
		t.Fatalf("expected exactly one signal, got %d", len(res.Signals))
	}
	ev := res.Signals[0]
	if ev.Label != "buy" {
		t.Fatalf("expected buy at the dip, got %q", ev.Label)
	}
	if !ev.Timestamp.Equal(bars[20].Timestamp) {
		t.Fatalf("signal bound to wrong bar: %v", ev.Timestamp)
	}
	if ev.Price != 40 || ev.Osc != 40 {
		t.Fatalf("signal should carry the dip close, got price=%v osc=%v", ev.Price, ev.Osc)
	}
	if ev.ID == "" {
		t.Fatalf("event missing id")
	}
}

func TestComputeConfirmationGatesEverything(t *testing.T) {
	bars := barSeries(dipSeries())
	profiles := map[string]signal.Config{"light": signal.LightProfile()}
	alg := WithAlgorithm(fixedBreaks{ends: []int{20}})

	accepted, err := New(profiles, acceptAll{}, alg).Compute(context.Background(), "X", "15m", bars, "light")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	rejected, err := New(profiles, rejectAll{}, alg).Compute(context.Background(), "X", "15m", bars, "light")
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if len(rejected.Signals) != 0 {
		t.Fatalf("rejecting confirmer must drop every signal, got %d", len(rejected.Signals))
	}
	if len(accepted.Signals) == 0 {
		t.Fatalf("accepting confirmer should keep the structural signals")
	}
}

func TestComputeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(nil, acceptAll{})
	if _, err := e.Compute(ctx, "X", "15m", barSeries([]float64{1, 2, 3}), "combined"); err == nil {
		t.Fatalf("expected context error")
	}
}
