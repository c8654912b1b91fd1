package repository

import (
	"context"

	"Radon/internal/domain/models"
)

// BarSource provides read-only access to historical bars for the pipeline.
// Implementations fetch from the upstream chart API or a cache in front of it.
type BarSource interface {
	GetBars(ctx context.Context, symbol string, interval Interval, n int) ([]models.Bar, error)
}
