package usecase

import (
	"context"
	"fmt"

	domrepo "Radon/internal/domain/repository"
	"Radon/pkg/logger"
	"Radon/pkg/queue"
)

// ScanMessageType is the queue message type basket scans travel under.
const ScanMessageType = "scan"

// ScanPayload is the queue payload for one basket scan.
type ScanPayload struct {
	Symbols  []string `json:"symbols"`
	Interval string   `json:"interval"`
	Profile  string   `json:"profile"`
}

// BasketScanner consumes scan jobs from the queue and runs the pipeline for
// each symbol. One failing symbol does not stop the basket; the job fails
// only when every symbol fails, so poison baskets still end up in the DLQ.
type BasketScanner struct {
	pipeline *SignalPipeline
	log      *logger.Logger
}

func NewBasketScanner(pipeline *SignalPipeline, log *logger.Logger) *BasketScanner {
	return &BasketScanner{pipeline: pipeline, log: log}
}

func (s *BasketScanner) Name() string { return "basket_scanner" }

func (s *BasketScanner) Type() string { return ScanMessageType }

func (s *BasketScanner) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ScanPayload](payload)
	if err != nil {
		return fmt.Errorf("scanner: parse payload: %w", err)
	}
	if len(p.Symbols) == 0 {
		return fmt.Errorf("scanner: empty basket")
	}
	if p.Interval == "" {
		p.Interval = string(domrepo.DefaultInterval())
	}
	if p.Profile == "" {
		p.Profile = "combined"
	}

	failed := 0
	for _, symbol := range p.Symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.pipeline.Run(ctx, symbol, p.Interval, p.Profile); err != nil {
			failed++
			s.log.Error("symbol scan failed",
				logger.String("symbol", symbol),
				logger.String("profile", p.Profile),
				logger.Error(err),
			)
		}
	}
	if failed == len(p.Symbols) {
		return fmt.Errorf("scanner: all %d symbols failed", failed)
	}
	return nil
}

var _ queue.Job = (*BasketScanner)(nil)

// EnqueueScan publishes a basket scan to the queue.
func EnqueueScan(ctx context.Context, q queue.QueueService, p ScanPayload) error {
	if len(p.Symbols) == 0 {
		return fmt.Errorf("scanner: empty basket")
	}
	return q.PublishMessage(ctx, ScanMessageType, p)
}
