package usecase

import (
	"context"
	"fmt"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
)

// SignalsUseCase provides read access to persisted signals.
type SignalsUseCase struct {
	store domrepo.SignalStore
}

func NewSignalsUseCase(store domrepo.SignalStore) *SignalsUseCase {
	return &SignalsUseCase{store: store}
}

type GetSignalsParams struct {
	Symbol   string
	Interval string
	Limit    int
}

func (uc *SignalsUseCase) GetSignals(ctx context.Context, p GetSignalsParams) ([]*models.SignalEvent, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Limit > 1000 {
		p.Limit = 1000
	}
	iv := domrepo.NormalizeInterval(p.Interval)

	evs, err := uc.store.BySymbol(ctx, p.Symbol, string(iv), p.Limit)
	if err != nil {
		return nil, fmt.Errorf("get signals: %w", err)
	}
	return evs, nil
}

func (uc *SignalsUseCase) Recent(ctx context.Context, limit int) ([]*models.SignalEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	evs, err := uc.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	return evs, nil
}
