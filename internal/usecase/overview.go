package usecase

import (
	"context"
	"fmt"
	"math"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	"Radon/internal/services/indicators"
)

// OverviewUseCase assembles the consolidated per-symbol view: latest bar,
// current indicator state, and the most recent stored signals. Each part is
// best effort; partial failures land in the Errors map instead of failing
// the whole view.
type OverviewUseCase struct {
	source domrepo.BarSource
	store  domrepo.SignalStore
}

func NewOverviewUseCase(source domrepo.BarSource, store domrepo.SignalStore) *OverviewUseCase {
	return &OverviewUseCase{source: source, store: store}
}

const overviewBarCount = 200

func (uc *OverviewUseCase) Overview(ctx context.Context, symbol, interval string) (*models.SymbolOverview, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	iv := domrepo.NormalizeInterval(interval)

	ov := &models.SymbolOverview{
		Symbol:   symbol,
		Interval: string(iv),
		Errors:   map[string]string{},
	}

	bars, err := uc.source.GetBars(ctx, symbol, iv, overviewBarCount)
	if err != nil {
		ov.Errors["bars"] = err.Error()
	} else if len(bars) > 0 {
		last := bars[len(bars)-1]
		ov.LastBar = &last
		ov.Timestamp = last.Timestamp

		closes := make([]float64, len(bars))
		for i := range bars {
			closes[i] = bars[i].Close
		}
		m := indicators.DefaultMACD(closes)
		rsi := indicators.RSI(closes, indicators.DefaultRSIPeriod)
		snap := indicators.SnapshotAt(m, rsi, len(closes)-1)
		// Warmup bars carry NaN, which does not survive JSON encoding.
		if !math.IsNaN(snap.MACD) && !math.IsNaN(snap.RSI) {
			ov.Indicators = &snap
		} else {
			ov.Errors["indicators"] = "insufficient history"
		}
	}

	if uc.store != nil {
		evs, err := uc.store.BySymbol(ctx, symbol, string(iv), 20)
		if err != nil {
			ov.Errors["signals"] = err.Error()
		} else {
			ov.Signals = make([]models.SignalEvent, len(evs))
			for i, ev := range evs {
				ov.Signals[i] = *ev
			}
		}
	}

	if _, barsFailed := ov.Errors["bars"]; barsFailed {
		if _, sigsFailed := ov.Errors["signals"]; sigsFailed {
			return nil, fmt.Errorf("overview %s: all sources failed", symbol)
		}
	}
	return ov, nil
}
