package main

import (
	"context"

	"ledgerpos/internal/infrastructure/storage/postgres"
	"ledgerpos/pkg/logger"
)

// LogSink delivers outbox messages to the log. It stands in for a broker.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a sink writing to log.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log.WithComponent("outbox")}
}

// Handle implements postgres.OutboxHandler.
func (s *LogSink) Handle(ctx context.Context, msg *postgres.OutboxMessage) error {
	s.log.WithContext(ctx).Infow("domain event",
		"event_id", msg.ID,
		"event_type", msg.EventType,
		"aggregate_type", msg.AggregateType,
		"aggregate_id", msg.AggregateID,
		"retry_count", msg.RetryCount,
		"payload", string(msg.Payload),
	)
	return nil
}

var _ postgres.OutboxHandler = (*LogSink)(nil)
