package usecase

import (
	"context"
	"encoding/json"
	"time"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	pkgkafka "Radon/pkg/kafka"
)

// KafkaSignalsHandler consumes signal events from Kafka and writes them to
// storage. It backs the consumer deployment mode, where scanning and
// persistence run in separate processes.
type KafkaSignalsHandler struct {
	topic   string
	store   domrepo.SignalStore
	metrics domrepo.Metrics
}

func NewKafkaSignalsHandler(topic string, store domrepo.SignalStore, metrics domrepo.Metrics) *KafkaSignalsHandler {
	return &KafkaSignalsHandler{topic: topic, store: store, metrics: metrics}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

// incoming message schema mirrors KafkaSignalPublisher's payload.
func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		ID       string  `json:"id"`
		Symbol   string  `json:"symbol"`
		Interval string  `json:"interval"`
		TS       int64   `json:"ts"`
		Label    string  `json:"label"`
		Profile  string  `json:"profile"`
		Price    float64 `json:"price"`
		RSI      float64 `json:"rsi"`
		MACD     float64 `json:"macd"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// E2E latency from signal bar time to now (approx)
	h.metrics.RecordLatency("signal_e2e_seconds", time.Since(time.Unix(m.TS, 0)).Seconds())

	start := time.Now()
	err := h.store.Store(ctx, &models.SignalEvent{
		ID:        m.ID,
		Symbol:    m.Symbol,
		Interval:  m.Interval,
		Timestamp: time.Unix(m.TS, 0).UTC(),
		Label:     m.Label,
		Profile:   m.Profile,
		Price:     m.Price,
		RSI:       m.RSI,
		MACD:      m.MACD,
		CreatedAt: time.Now(),
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSignalsHandler)(nil)
