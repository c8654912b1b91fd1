package usecase

import (
	"context"
	"fmt"

	domrepo "Radon/internal/domain/repository"
	applogger "Radon/pkg/logger"
	"Radon/pkg/queue"
)

// ErrorLogMessageType is the queue message type aggregated error logs travel under.
const ErrorLogMessageType = "error_logs"

// ErrorLogSink drains aggregated error-log batches published by the logger's
// collector and turns them into error metrics. It must not log at error level
// itself, or its own output would feed back into the collector.
type ErrorLogSink struct {
	metrics domrepo.Metrics
	log     *applogger.Logger
}

func NewErrorLogSink(metrics domrepo.Metrics, log *applogger.Logger) *ErrorLogSink {
	return &ErrorLogSink{metrics: metrics, log: log}
}

func (s *ErrorLogSink) Name() string { return "error_log_sink" }

func (s *ErrorLogSink) Type() string { return ErrorLogMessageType }

func (s *ErrorLogSink) Handle(ctx context.Context, payload interface{}) error {
	entries, err := queue.ParsePayload[[]applogger.AggregatedLogEntry](payload)
	if err != nil {
		return fmt.Errorf("error log sink: parse payload: %w", err)
	}
	total := 0
	for _, e := range *entries {
		s.metrics.RecordError("log_" + e.Level)
		total += e.Count
	}
	s.log.Info("aggregated error logs drained",
		applogger.Int("entries", len(*entries)),
		applogger.Int("occurrences", total),
	)
	return nil
}

var _ queue.Job = (*ErrorLogSink)(nil)
