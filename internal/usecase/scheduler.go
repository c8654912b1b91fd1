package usecase

import (
	"context"
	"time"

	"Radon/pkg/logger"
	"Radon/pkg/queue"
)

// ScanScheduler enqueues a basket scan on a fixed cadence. The queue workers
// do the actual scanning, so a slow scan never delays the next tick.
type ScanScheduler struct {
	queue    queue.QueueService
	symbols  []string
	every    time.Duration
	interval string
	profile  string
	log      *logger.Logger
	cancel   context.CancelFunc
}

func NewScanScheduler(q queue.QueueService, symbols []string, every time.Duration, interval, profile string, log *logger.Logger) *ScanScheduler {
	return &ScanScheduler{
		queue:    q,
		symbols:  symbols,
		every:    every,
		interval: interval,
		profile:  profile,
		log:      log,
	}
}

// Start launches the ticker loop. It enqueues one basket immediately so a
// fresh deployment has signals before the first full period elapses.
func (s *ScanScheduler) Start(ctx context.Context) {
	if s.every <= 0 || len(s.symbols) == 0 {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)

	go func() {
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()

		s.enqueue(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.enqueue(ctx)
			}
		}
	}()
	s.log.Info("scan scheduler started",
		logger.Int("symbols", len(s.symbols)),
		logger.Duration("every", s.every),
	)
}

func (s *ScanScheduler) enqueue(ctx context.Context) {
	err := EnqueueScan(ctx, s.queue, ScanPayload{
		Symbols:  s.symbols,
		Interval: s.interval,
		Profile:  s.profile,
	})
	if err != nil {
		s.log.Error("scheduled scan enqueue failed", logger.Error(err))
	}
}

func (s *ScanScheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
