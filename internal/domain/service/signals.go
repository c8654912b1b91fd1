package service

import (
	"context"

	"Radon/internal/domain/models"
)

// SignalComputer runs the structural signal pass over a bar series and
// returns the confirmed events for the symbol.
type SignalComputer interface {
	Compute(ctx context.Context, symbol, interval string, bars []models.Bar, profile string) (*models.ScanResult, error)
}

// IndicatorConfirmer evaluates the momentum indicators at one bar and says
// whether they confirm a structural label.
type IndicatorConfirmer interface {
	Confirm(snapshot models.IndicatorSnapshot, label string) bool
}
