package usecase

import (
	"context"
	"fmt"
	"time"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	domsvc "Radon/internal/domain/service"
	scanmetrics "Radon/internal/service/metrics"
	"Radon/pkg/logger"
)

// SignalPipeline runs the full scan for one symbol: fetch bars, compute
// confirmed signals, persist them, and publish them to the events topic.
type SignalPipeline struct {
	source   domrepo.BarSource
	barStore domrepo.BarStore
	sigStore domrepo.SignalStore
	pub      domrepo.Publisher
	computer domsvc.SignalComputer
	metrics  domrepo.Metrics
	log      *logger.Logger
	barCount int
}

type PipelineParams struct {
	Source   domrepo.BarSource
	BarStore domrepo.BarStore
	SigStore domrepo.SignalStore
	Pub      domrepo.Publisher
	Computer domsvc.SignalComputer
	Metrics  domrepo.Metrics
	Log      *logger.Logger
	BarCount int
}

func NewSignalPipeline(p PipelineParams) *SignalPipeline {
	if p.BarCount <= 0 {
		p.BarCount = 600
	}
	return &SignalPipeline{
		source:   p.Source,
		barStore: p.BarStore,
		sigStore: p.SigStore,
		pub:      p.Pub,
		computer: p.Computer,
		metrics:  p.Metrics,
		log:      p.Log,
		barCount: p.BarCount,
	}
}

// Run scans one symbol. Persistence of the raw bars is best effort; a store
// failure does not abort the scan. Signal persistence and publishing are
// authoritative and their errors surface.
func (p *SignalPipeline) Run(ctx context.Context, symbol, interval, profile string) (*models.ScanResult, error) {
	start := time.Now()
	iv := domrepo.NormalizeInterval(interval)

	bars, err := p.source.GetBars(ctx, symbol, iv, p.barCount)
	if err != nil {
		p.metrics.RecordError("fetch")
		scanmetrics.ScanErrors.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("pipeline: fetch %s: %w", symbol, err)
	}
	scanmetrics.ScanLatency.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	if len(bars) == 0 {
		return &models.ScanResult{Symbol: symbol, Interval: string(iv), Profile: profile, Started: start}, nil
	}

	if p.barStore != nil {
		ptrs := make([]*models.Bar, len(bars))
		for i := range bars {
			ptrs[i] = &bars[i]
		}
		if err := p.barStore.StoreBatch(ctx, ptrs); err != nil {
			p.metrics.RecordError("bar_store")
			p.log.Warn("bar persistence failed",
				logger.String("symbol", symbol),
				logger.Error(err),
			)
		}
	}

	computeStart := time.Now()
	res, err := p.computer.Compute(ctx, symbol, string(iv), bars, profile)
	if err != nil {
		p.metrics.RecordError("compute")
		scanmetrics.ScanErrors.WithLabelValues("compute").Inc()
		return nil, fmt.Errorf("pipeline: compute %s: %w", symbol, err)
	}
	scanmetrics.ScanLatency.WithLabelValues("compute").Observe(time.Since(computeStart).Seconds())

	if len(res.Signals) > 0 {
		evs := make([]*models.SignalEvent, len(res.Signals))
		for i := range res.Signals {
			evs[i] = &res.Signals[i]
		}
		if p.sigStore != nil {
			if err := p.sigStore.StoreBatch(ctx, evs); err != nil {
				p.metrics.RecordError("signal_store")
				scanmetrics.ScanErrors.WithLabelValues("store").Inc()
				return nil, fmt.Errorf("pipeline: store signals %s: %w", symbol, err)
			}
		}
		if p.pub != nil {
			if err := p.pub.PublishBatch(ctx, evs); err != nil {
				p.metrics.RecordError("publish")
				scanmetrics.ScanErrors.WithLabelValues("publish").Inc()
				return nil, fmt.Errorf("pipeline: publish signals %s: %w", symbol, err)
			}
		}
		for _, ev := range res.Signals {
			p.metrics.RecordSignal(ev.Symbol, ev.Label, ev.Profile)
			scanmetrics.SignalsEmitted.WithLabelValues(ev.Label).Inc()
		}
	}

	elapsed := time.Since(start)
	p.metrics.RecordScan(symbol, elapsed.Seconds())
	p.log.Info("scan complete",
		logger.String("symbol", symbol),
		logger.String("interval", string(iv)),
		logger.String("profile", profile),
		logger.Int("bars", res.Bars),
		logger.Int("signals", len(res.Signals)),
		logger.Duration("duration_ms", elapsed),
	)
	return res, nil
}
