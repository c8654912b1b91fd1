package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	"Radon/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type fakeSource struct {
	bars []models.Bar
	err  error
}

func (f *fakeSource) GetBars(context.Context, string, domrepo.Interval, int) ([]models.Bar, error) {
	return f.bars, f.err
}

type fakeBarStore struct {
	stored int
	err    error
}

func (f *fakeBarStore) Init(context.Context) error { return nil }
func (f *fakeBarStore) StoreBatch(_ context.Context, bars []*models.Bar) error {
	f.stored += len(bars)
	return f.err
}
func (f *fakeBarStore) Query(context.Context, string, string, time.Time, time.Time, int) ([]*models.Bar, error) {
	return nil, nil
}
func (f *fakeBarStore) Latest(context.Context, string, string, int) ([]*models.Bar, error) {
	return nil, nil
}
func (f *fakeBarStore) Health(context.Context) error { return nil }
func (f *fakeBarStore) Close() error                 { return nil }

type fakeSignalStore struct {
	stored []*models.SignalEvent
	err    error
}

func (f *fakeSignalStore) Init(context.Context) error { return nil }
func (f *fakeSignalStore) Store(ctx context.Context, ev *models.SignalEvent) error {
	return f.StoreBatch(ctx, []*models.SignalEvent{ev})
}
func (f *fakeSignalStore) StoreBatch(_ context.Context, evs []*models.SignalEvent) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, evs...)
	return nil
}
func (f *fakeSignalStore) BySymbol(context.Context, string, string, int) ([]*models.SignalEvent, error) {
	return f.stored, nil
}
func (f *fakeSignalStore) Recent(context.Context, int) ([]*models.SignalEvent, error) {
	return f.stored, nil
}
func (f *fakeSignalStore) Close() error { return nil }

type fakePublisher struct {
	published []*models.SignalEvent
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, ev *models.SignalEvent) error {
	return f.PublishBatch(ctx, []*models.SignalEvent{ev})
}
func (f *fakePublisher) PublishBatch(_ context.Context, evs []*models.SignalEvent) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, evs...)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	errors map[string]int
	scans  int
}

func (m *fakeMetrics) RecordSignal(string, string, string) {}
func (m *fakeMetrics) RecordScan(string, float64)          { m.scans++ }
func (m *fakeMetrics) RecordError(kind string) {
	if m.errors == nil {
		m.errors = map[string]int{}
	}
	m.errors[kind]++
}
func (m *fakeMetrics) RecordLastPrice(string, float64) {}
func (m *fakeMetrics) RecordLatency(string, float64)   {}

type fakeComputer struct {
	res *models.ScanResult
	err error
}

func (f *fakeComputer) Compute(_ context.Context, symbol, interval string, bars []models.Bar, profile string) (*models.ScanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.res != nil {
		return f.res, nil
	}
	return &models.ScanResult{Symbol: symbol, Interval: interval, Profile: profile, Bars: len(bars)}, nil
}

func testBars(n int) []models.Bar {
	base := time.Date(2025, 2, 4, 9, 15, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Symbol:    "TCS",
			Interval:  "15m",
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Close:     100,
		}
	}
	return bars
}

func TestPipelineRunStoresAndPublishes(t *testing.T) {
	bars := testBars(10)
	sig := models.SignalEvent{ID: "1", Symbol: "TCS", Label: "buy", Profile: "combined", Timestamp: bars[4].Timestamp}
	barStore := &fakeBarStore{}
	sigStore := &fakeSignalStore{}
	pub := &fakePublisher{}
	metrics := &fakeMetrics{}

	p := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{bars: bars},
		BarStore: barStore,
		SigStore: sigStore,
		Pub:      pub,
		Computer: &fakeComputer{res: &models.ScanResult{Symbol: "TCS", Bars: 10, Signals: []models.SignalEvent{sig}}},
		Metrics:  metrics,
		Log:      testLogger(t),
	})

	res, err := p.Run(context.Background(), "TCS", "15m", "combined")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Signals) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(res.Signals))
	}
	if barStore.stored != 10 {
		t.Fatalf("bars not persisted: %d", barStore.stored)
	}
	if len(sigStore.stored) != 1 || sigStore.stored[0].ID != "1" {
		t.Fatalf("signal not stored: %+v", sigStore.stored)
	}
	if len(pub.published) != 1 {
		t.Fatalf("signal not published: %+v", pub.published)
	}
	if metrics.scans != 1 {
		t.Fatalf("scan metric missing")
	}
}

func TestPipelineRunFetchError(t *testing.T) {
	p := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{err: errors.New("upstream down")},
		Computer: &fakeComputer{},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	if _, err := p.Run(context.Background(), "TCS", "15m", "combined"); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestPipelineRunBarStoreFailureIsBestEffort(t *testing.T) {
	metrics := &fakeMetrics{}
	p := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{bars: testBars(5)},
		BarStore: &fakeBarStore{err: errors.New("ch down")},
		SigStore: &fakeSignalStore{},
		Pub:      &fakePublisher{},
		Computer: &fakeComputer{},
		Metrics:  metrics,
		Log:      testLogger(t),
	})
	if _, err := p.Run(context.Background(), "TCS", "15m", "combined"); err != nil {
		t.Fatalf("bar store failure should not abort the scan: %v", err)
	}
	if metrics.errors["bar_store"] != 1 {
		t.Fatalf("bar store failure should be recorded")
	}
}

func TestPipelineRunPublishFailureSurfaces(t *testing.T) {
	sig := models.SignalEvent{ID: "1", Symbol: "TCS", Label: "buy"}
	p := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{bars: testBars(5)},
		SigStore: &fakeSignalStore{},
		Pub:      &fakePublisher{err: errors.New("kafka down")},
		Computer: &fakeComputer{res: &models.ScanResult{Signals: []models.SignalEvent{sig}}},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	if _, err := p.Run(context.Background(), "TCS", "15m", "combined"); err == nil {
		t.Fatalf("expected publish error to surface")
	}
}

func TestPipelineRunEmptySeries(t *testing.T) {
	p := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{},
		Computer: &fakeComputer{},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	res, err := p.Run(context.Background(), "TCS", "15m", "combined")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Signals) != 0 {
		t.Fatalf("no bars should mean no signals")
	}
}

func TestBasketScannerPartialFailure(t *testing.T) {
	// Source fails for every symbol: the whole basket fails. With a working
	// source the basket succeeds even if no signals come out.
	bad := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{err: errors.New("down")},
		Computer: &fakeComputer{},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	s := NewBasketScanner(bad, testLogger(t))
	err := s.Handle(context.Background(), ScanPayload{Symbols: []string{"A", "B"}})
	if err == nil {
		t.Fatalf("all-failed basket should fail")
	}

	good := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{bars: testBars(5)},
		Computer: &fakeComputer{},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	s = NewBasketScanner(good, testLogger(t))
	if err := s.Handle(context.Background(), ScanPayload{Symbols: []string{"A", "B"}}); err != nil {
		t.Fatalf("healthy basket: %v", err)
	}
}

func TestBasketScannerPayloadFromMap(t *testing.T) {
	good := NewSignalPipeline(PipelineParams{
		Source:   &fakeSource{bars: testBars(5)},
		Computer: &fakeComputer{},
		Metrics:  &fakeMetrics{},
		Log:      testLogger(t),
	})
	s := NewBasketScanner(good, testLogger(t))
	payload := map[string]interface{}{
		"symbols":  []interface{}{"TCS"},
		"interval": "15m",
		"profile":  "light",
	}
	if err := s.Handle(context.Background(), payload); err != nil {
		t.Fatalf("map payload: %v", err)
	}
}
