package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"Radon/internal/domain/models"
	domsvc "Radon/internal/domain/service"
	"Radon/internal/services/indicators"
	"Radon/internal/signal"
)

// Engine computes structural signals over a bar series and gates them on
// momentum confirmation. It is pure computation; fetching and persistence
// live in the usecases around it.
type Engine struct {
	profiles  map[string]signal.Config
	confirmer domsvc.IndicatorConfirmer
	alg       signal.Algorithm
}

type Option func(*Engine)

// WithAlgorithm overrides the change point search. By default each profile
// builds a PELT instance for its configured cost model.
func WithAlgorithm(alg signal.Algorithm) Option {
	return func(e *Engine) { e.alg = alg }
}

func New(profiles map[string]signal.Config, confirmer domsvc.IndicatorConfirmer, opts ...Option) *Engine {
	if profiles == nil {
		profiles = map[string]signal.Config{
			"combined": signal.CombinedProfile(),
			"light":    signal.LightProfile(),
		}
	}
	if confirmer == nil {
		confirmer = indicators.NewConfirmer()
	}
	e := &Engine{profiles: profiles, confirmer: confirmer}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compute runs the full pass for one symbol: pivots plus change points fused
// into structural labels, merged back onto the bar index, then filtered
// through the momentum confirmation rule. Only confirmed buy and sell bars
// become events.
func (e *Engine) Compute(ctx context.Context, symbol, interval string, bars []models.Bar, profile string) (*models.ScanResult, error) {
	started := time.Now()
	cfg, ok := e.profiles[profile]
	if !ok {
		return nil, fmt.Errorf("engine: unknown profile %q", profile)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	closes := make([]float64, len(bars))
	index := make([]time.Time, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		index[i] = b.Timestamp
	}

	// The close series serves as both price and oscillator.
	fr, err := signal.Fuse(closes, closes, e.alg, cfg)
	if err != nil {
		return nil, fmt.Errorf("engine: fuse %s: %w", symbol, err)
	}
	labels, err := signal.MergeActive(index, index, fr)
	if err != nil {
		return nil, fmt.Errorf("engine: merge %s: %w", symbol, err)
	}

	macd := indicators.DefaultMACD(closes)
	rsi := indicators.RSI(closes, indicators.DefaultRSIPeriod)

	result := &models.ScanResult{
		Symbol:   symbol,
		Interval: interval,
		Profile:  profile,
		Bars:     len(bars),
		Started:  started,
	}
	for i, lbl := range labels {
		if lbl == nil || *lbl == signal.Hold {
			continue
		}
		snap := indicators.SnapshotAt(macd, rsi, i)
		if !e.confirmer.Confirm(snap, lbl.String()) {
			continue
		}
		result.Signals = append(result.Signals, models.SignalEvent{
			ID:        uuid.NewString(),
			Symbol:    symbol,
			Interval:  interval,
			Timestamp: bars[i].Timestamp,
			Label:     lbl.String(),
			Profile:   profile,
			Price:     bars[i].Close,
			Osc:       fr.Osc[i],
			RSI:       snap.RSI,
			MACD:      snap.MACD,
			CreatedAt: time.Now(),
		})
	}
	result.Elapsed = time.Since(started)
	return result, nil
}

var _ domsvc.SignalComputer = (*Engine)(nil)
