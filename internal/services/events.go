package services

import (
	"context"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/metrics"
)

// publishEvent hands ev to the broker. Failures are logged and swallowed:
// the store write already succeeded.
func publishEvent(ctx context.Context, pub EventPublisher, ev *amqp.TransactionEvent) {
	if pub == nil {
		slog.DebugContext(ctx, "AMQP publisher not configured, skipping event",
			"event", ev.Event, "type", ev.Type, "id", ev.ID)
		return
	}

	err := pub.PublishTransactionEvent(ctx, ev)
	metrics.RecordEventPublished(ev.Event, err == nil)
	if err != nil {
		fields := log.NewFields().
			WithUser(ev.UserID).
			WithTransaction(ev.Type, ev.Label, ev.AmountCents).
			WithError(err)
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			append(fields.ToSlice(), "event", ev.Event, "id", ev.ID)...)
	}
}
