package usecase

import (
	"context"
	"fmt"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	domsvc "Radon/internal/domain/service"
)

// BarsUseCase provides business logic for retrieving bars, optionally
// annotated with the labels a scan would attach to them.
type BarsUseCase struct {
	source   domrepo.BarSource
	computer domsvc.SignalComputer
}

func NewBarsUseCase(source domrepo.BarSource, computer domsvc.SignalComputer) *BarsUseCase {
	return &BarsUseCase{source: source, computer: computer}
}

type GetBarsParams struct {
	Symbol   string
	Interval string
	N        int
	Annotate bool
	Profile  string
}

type GetBarsResult struct {
	Symbol   string
	Interval string
	Count    int
	Bars     []models.AnnotatedBar
}

func (uc *BarsUseCase) GetBars(ctx context.Context, p GetBarsParams) (*GetBarsResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 600
	}
	if p.N > 5000 {
		p.N = 5000
	}
	if p.Profile == "" {
		p.Profile = "combined"
	}
	iv := domrepo.NormalizeInterval(p.Interval)

	bars, err := uc.source.GetBars(ctx, p.Symbol, iv, p.N)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}

	out := make([]models.AnnotatedBar, len(bars))
	for i, b := range bars {
		out[i] = models.AnnotatedBar{Bar: b}
	}

	if p.Annotate && uc.computer != nil && len(bars) > 0 {
		res, err := uc.computer.Compute(ctx, p.Symbol, string(iv), bars, p.Profile)
		if err != nil {
			return nil, fmt.Errorf("annotate bars: %w", err)
		}
		byTS := make(map[int64]string, len(res.Signals))
		for _, ev := range res.Signals {
			byTS[ev.Timestamp.UnixNano()] = ev.Label
		}
		for i := range out {
			if lbl, ok := byTS[out[i].Timestamp.UnixNano()]; ok {
				l := lbl
				out[i].Label = &l
			}
		}
	}

	return &GetBarsResult{
		Symbol:   p.Symbol,
		Interval: string(iv),
		Count:    len(out),
		Bars:     out,
	}, nil
}
