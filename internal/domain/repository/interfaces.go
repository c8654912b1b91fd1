package repository

import (
	"context"
	"time"

	"Radon/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, ev *models.SignalEvent) error
	PublishBatch(ctx context.Context, evs []*models.SignalEvent) error
	Close() error
}

type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBatch(ctx context.Context, bars []*models.Bar) error
	Query(ctx context.Context, symbol, interval string, from, to time.Time, limit int) ([]*models.Bar, error)
	Latest(ctx context.Context, symbol, interval string, n int) ([]*models.Bar, error)
	Health(ctx context.Context) error // ping
	Close() error
}

type SignalStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, ev *models.SignalEvent) error
	StoreBatch(ctx context.Context, evs []*models.SignalEvent) error
	BySymbol(ctx context.Context, symbol, interval string, limit int) ([]*models.SignalEvent, error)
	Recent(ctx context.Context, limit int) ([]*models.SignalEvent, error)
	Close() error
}

type Metrics interface {
	RecordSignal(symbol, label, profile string)
	RecordScan(symbol string, seconds float64)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
