package usecase

import (
	"context"
	"fmt"

	"Radon/internal/domain/models"
	drepo "Radon/internal/domain/repository"
	mid "Radon/internal/middleware"
	"Radon/internal/service/ratelimit"
	"Radon/pkg/queue"
)

// RescanTrigger turns accepted quotes into scan jobs. A per-symbol limiter
// keeps a chattering feed from flooding the queue with duplicate scans.
type RescanTrigger struct {
	queue    queue.QueueService
	limiter  *ratelimit.Limiter
	interval string
	profile  string
	metrics  drepo.Metrics
}

func NewRescanTrigger(q queue.QueueService, limiter *ratelimit.Limiter, interval, profile string, metrics drepo.Metrics) *RescanTrigger {
	if interval == "" {
		interval = string(drepo.DefaultInterval())
	}
	if profile == "" {
		profile = "combined"
	}
	return &RescanTrigger{queue: q, limiter: limiter, interval: interval, profile: profile, metrics: metrics}
}

func (t *RescanTrigger) Process(ctx context.Context, q *models.Quote) error {
	t.metrics.RecordLastPrice(q.Symbol, q.Price)
	if t.limiter != nil && !t.limiter.Allow(q.Symbol) {
		return nil
	}
	if err := EnqueueScan(ctx, t.queue, ScanPayload{
		Symbols:  []string{q.Symbol},
		Interval: t.interval,
		Profile:  t.profile,
	}); err != nil {
		t.metrics.RecordError("rescan_enqueue")
		return fmt.Errorf("rescan %s: %w", q.Symbol, err)
	}
	return nil
}

var _ mid.QuoteSink = (*RescanTrigger)(nil)

// QuoteCollector collects quotes from the market stream and feeds them
// through the pipeline.
type QuoteCollector struct {
	stream  drepo.MarketStream
	sink    mid.QuoteSink
	metrics drepo.Metrics
	pipe    *mid.QuotePipeline
}

// NewQuoteCollector creates a new QuoteCollector instance.
func NewQuoteCollector(stream drepo.MarketStream, sink mid.QuoteSink, metrics drepo.Metrics, pipe *mid.QuotePipeline) *QuoteCollector {
	return &QuoteCollector{stream: stream, sink: sink, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market stream is connected.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.sink.Process(ctx, q)
			}
		}
	}
}

func (c *QuoteCollector) Stop() error { return c.stream.Close() }

// Shutdown stops the pipeline and closes the stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
