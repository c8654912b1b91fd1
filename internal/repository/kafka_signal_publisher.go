package repository

import (
	"context"

	"Radon/internal/domain/models"
	domrepo "Radon/internal/domain/repository"
	pkgkafka "Radon/pkg/kafka"
)

// KafkaSignalPublisher implements Publisher for the signal events topic.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalPublisher creates the Kafka publisher.
func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) domrepo.Publisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func signalPayload(ev *models.SignalEvent) map[string]interface{} {
	return map[string]interface{}{
		"id":       ev.ID,
		"symbol":   ev.Symbol,
		"interval": ev.Interval,
		"ts":       ev.Timestamp.Unix(),
		"label":    ev.Label,
		"profile":  ev.Profile,
		"price":    ev.Price,
		"rsi":      ev.RSI,
		"macd":     ev.MACD,
	}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, ev *models.SignalEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Symbol), signalPayload(ev))
}

func (p *KafkaSignalPublisher) PublishBatch(ctx context.Context, evs []*models.SignalEvent) error {
	if len(evs) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(evs))
	for i, ev := range evs {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(ev.Symbol),
			Value: signalPayload(ev),
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
