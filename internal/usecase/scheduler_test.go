package usecase

import (
	"context"
	"sync"
	"testing"
	"time"
)

type captureQueue struct {
	mu       sync.Mutex
	payloads []ScanPayload
}

func (q *captureQueue) PublishMessage(_ context.Context, _ string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if p, ok := payload.(ScanPayload); ok {
		q.payloads = append(q.payloads, p)
	}
	return nil
}

func (q *captureQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.payloads)
}

func TestSchedulerEnqueuesBasket(t *testing.T) {
	q := &captureQueue{}
	s := NewScanScheduler(q, []string{"TCS", "INFY"}, time.Hour, "15m", "combined", testLogger(t))
	s.Start(context.Background())
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for q.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if q.count() == 0 {
		t.Fatalf("scheduler never enqueued the initial basket")
	}
	q.mu.Lock()
	p := q.payloads[0]
	q.mu.Unlock()
	if len(p.Symbols) != 2 || p.Interval != "15m" || p.Profile != "combined" {
		t.Fatalf("payload wrong: %+v", p)
	}
}

func TestSchedulerDisabledWithoutCadence(t *testing.T) {
	q := &captureQueue{}
	s := NewScanScheduler(q, []string{"TCS"}, 0, "15m", "combined", testLogger(t))
	s.Start(context.Background())
	s.Stop()

	time.Sleep(20 * time.Millisecond)
	if q.count() != 0 {
		t.Fatalf("zero cadence must not schedule scans")
	}
}
