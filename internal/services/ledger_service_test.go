package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyPublisher struct {
	mu     sync.Mutex
	events []*amqp.TransactionEvent
	err    error
}

func (p *spyPublisher) PublishTransactionEvent(_ context.Context, ev *amqp.TransactionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func TestIncomeAddAndList(t *testing.T) {
	ctx := context.Background()
	pub := &spyPublisher{}
	svc := NewIncomeService(memory.New(), pub)

	_, err := svc.Add(ctx, "u1", IncomeInput{Source: "Salary", Amount: core.Money{Cents: 100000}, Date: "2025-03-01"})
	require.NoError(t, err)
	newest, err := svc.Add(ctx, "u1", IncomeInput{Source: "Bonus", Amount: core.Money{Cents: 5000}, Date: "2025-03-10", Icon: "🎁"})
	require.NoError(t, err)

	rows, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newest.ID, rows[0].ID, "list is newest first")

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventCreated, pub.events[1].Event)
	assert.Equal(t, "income", pub.events[1].Type)
	assert.Equal(t, "Bonus", pub.events[1].Label)

	empty, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestIncomeAddValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewIncomeService(memory.New(), nil)

	cases := []IncomeInput{
		{Amount: core.Money{Cents: 1}, Date: "2025-01-01"},
		{Source: "Salary", Date: "2025-01-01"},
		{Source: "Salary", Amount: core.Money{Cents: 1}},
	}
	for _, in := range cases {
		_, err := svc.Add(ctx, "u1", in)
		require.ErrorIs(t, err, core.ErrValidation)
		assert.Equal(t, core.MsgMissingFields, core.PublicMessage(err, ""))
	}

	_, err := svc.Add(ctx, "u1", IncomeInput{Source: "Salary", Amount: core.Money{Cents: 1}, Date: "yesterday"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestExpenseDeleteIsIdempotentAndScoped(t *testing.T) {
	ctx := context.Background()
	pub := &spyPublisher{}
	svc := NewExpenseService(memory.New(), pub)

	e, err := svc.Add(ctx, "alice", ExpenseInput{Category: "Rent", Amount: core.Money{Cents: 40000}, Date: "2025-02-01"})
	require.NoError(t, err)

	// Bob cannot see or delete Alice's row, but the call still succeeds.
	require.NoError(t, svc.Delete(ctx, "bob", e.ID))
	bobRows, _ := svc.List(ctx, "bob")
	assert.Empty(t, bobRows)
	aliceRows, _ := svc.List(ctx, "alice")
	assert.Len(t, aliceRows, 1)

	require.NoError(t, svc.Delete(ctx, "alice", e.ID))
	require.NoError(t, svc.Delete(ctx, "alice", e.ID))

	aliceRows, _ = svc.List(ctx, "alice")
	assert.Empty(t, aliceRows)

	// created + one effective delete
	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventDeleted, pub.events[1].Event)
	assert.Equal(t, e.ID, pub.events[1].ID)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	pub := &spyPublisher{err: errors.New("broker down")}
	store := memory.New()
	svc := NewExpenseService(store, pub)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	_, err := svc.Add(ctx, "u1", ExpenseInput{Category: "Food", Amount: core.Money{Cents: 1250}, Date: "2025-02-01T12:00"})
	require.NoError(t, err)

	rows, _ := store.ListExpenses(ctx, "u1")
	assert.Len(t, rows, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &rec))
	assert.Equal(t, "Failed to publish transaction event", rec["msg"])
	assert.Equal(t, "u1", rec[log.FieldUserID])
	assert.Equal(t, "Food", rec[log.FieldLabel])
	assert.Equal(t, float64(1250), rec[log.FieldAmountCents])
	assert.Equal(t, "broker down", rec[log.FieldError])
}

func TestExpenseExport(t *testing.T) {
	ctx := context.Background()
	svc := NewExpenseService(memory.New(), nil)
	svc.now = func() time.Time { return time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC) }

	_, err := svc.Add(ctx, "u1", ExpenseInput{Category: "Rent", Amount: core.Money{Cents: 40000}, Date: "2025-01-31"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "u1", ExpenseInput{Category: "Food", Amount: core.Money{Cents: 1999}, Date: "2025-02-01"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(ctx, "u1", &buf))

	rows, err := export.ReadXLSX(&buf, "Expenses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Food", rows[0].Label)
	assert.Equal(t, int64(1999), rows[0].Amount.Cents)
	assert.Equal(t, "01/02/2025", rows[0].Date.Format(export.DateLayout))
	assert.Equal(t, "Rent", rows[1].Label)

	var pdf bytes.Buffer
	require.NoError(t, svc.ExportPDF(ctx, "u1", &pdf))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))
}
