package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/metrics"
	"fintrack/internal/sheets"
)

const defaultRetryDelay = 500 * time.Millisecond

// SyncWorker mirrors ledger events into an external spreadsheet.
type SyncWorker struct {
	mirror     sheets.LedgerMirror
	attempts   int
	retryDelay time.Duration
}

// NewSyncWorker builds a worker that tries each mirror call up to attempts
// times before handing the error back to the consumer for redelivery.
func NewSyncWorker(mirror sheets.LedgerMirror, attempts int) *SyncWorker {
	if attempts < 1 {
		attempts = 1
	}
	return &SyncWorker{mirror: mirror, attempts: attempts, retryDelay: defaultRetryDelay}
}

// HandleEvent processes a single transaction event from AMQP.
// Malformed events are logged and dropped.
func (w *SyncWorker) HandleEvent(ctx context.Context, ev *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"event", ev.Event,
		"type", ev.Type,
		"id", ev.ID)

	txType := core.TransactionType(ev.Type)
	if ev.ID == "" || (txType != core.TypeIncome && txType != core.TypeExpense) {
		slog.WarnContext(ctx, "Dropping malformed transaction event", "event", ev.Event, "type", ev.Type, "id", ev.ID)
		return nil
	}

	var op func(context.Context) error
	switch ev.Event {
	case amqp.EventCreated:
		row := sheets.LedgerRow{
			ID:     ev.ID,
			UserID: ev.UserID,
			Type:   txType,
			Label:  ev.Label,
			Amount: core.Money{Cents: ev.AmountCents},
			Date:   ev.Date,
			Icon:   ev.Icon,
		}
		op = func(ctx context.Context) error { return w.mirror.AppendRow(ctx, row) }
	case amqp.EventDeleted:
		op = func(ctx context.Context) error { return w.mirror.DeleteRow(ctx, txType, ev.ID) }
	default:
		slog.WarnContext(ctx, "Dropping unknown event kind", "event", ev.Event, "id", ev.ID)
		return nil
	}

	err := w.retry(ctx, op)
	metrics.RecordEventMirrored(ev.Event, err == nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to mirror transaction event",
			"event", ev.Event,
			"id", ev.ID,
			"attempts", w.attempts,
			"error", err,
			"timestamp", ev.Timestamp)
		return fmt.Errorf("mirror %s %s: %w", ev.Event, ev.ID, err)
	}

	slog.InfoContext(ctx, "Transaction event mirrored", "event", ev.Event, "id", ev.ID)
	return nil
}

func (w *SyncWorker) retry(ctx context.Context, op func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= w.attempts; attempt++ {
		if err = op(ctx); err == nil {
			return nil
		}
		if attempt == w.attempts {
			break
		}
		slog.WarnContext(ctx, "Mirror call failed, retrying", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.retryDelay * time.Duration(attempt)):
		}
	}
	return err
}
