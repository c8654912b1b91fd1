package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"Radon/internal/domain/models"
	drepo "Radon/internal/domain/repository"
	"Radon/internal/service/cache"
	"Radon/pkg/logger"
)

// CachedSource wraps a BarSource with a day-scoped cache: bars fetched today
// are served from cache until the day rolls over, so repeated basket scans
// do not refetch the same history.
type CachedSource struct {
	inner drepo.BarSource
	store cache.BytesCache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSource(inner drepo.BarSource, store cache.BytesCache, ttl time.Duration, log *logger.Logger) *CachedSource {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedSource{inner: inner, store: store, ttl: ttl, log: log}
}

func (s *CachedSource) key(symbol string, interval drepo.Interval, n int) string {
	day := time.Now().UTC().Format("2006-01-02")
	return fmt.Sprintf("radon:bars:%s:%s:%d:%s", symbol, interval, n, day)
}

func (s *CachedSource) GetBars(ctx context.Context, symbol string, interval drepo.Interval, n int) ([]models.Bar, error) {
	key := s.key(symbol, interval, n)

	if b, ok, err := s.store.GetBytes(ctx, key); err == nil && ok {
		var bars []models.Bar
		if err := json.Unmarshal(b, &bars); err == nil {
			return bars, nil
		}
		// Corrupt entry: fall through and refetch.
	} else if err != nil && s.log != nil {
		s.log.Warn("bar cache read failed", logger.String("key", key), logger.Error(err))
	}

	bars, err := s.inner.GetBars(ctx, symbol, interval, n)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(bars); err == nil {
		if err := s.store.SetBytes(ctx, key, b, s.ttl); err != nil && s.log != nil {
			s.log.Warn("bar cache write failed", logger.String("key", key), logger.Error(err))
		}
	}
	return bars, nil
}

var _ drepo.BarSource = (*CachedSource)(nil)
