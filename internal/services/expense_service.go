package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/export"

	"github.com/google/uuid"
)

const MsgExpenseDeleted = "Expense deleted successfully"

type ExpenseInput struct {
	Category string     `json:"category"`
	Amount   core.Money `json:"amount"`
	Date     string     `json:"date"`
	Icon     string     `json:"icon"`
}

// ExpenseService orchestrates expense operations across the store and AMQP
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	now       func() time.Time
}

func NewExpenseService(store ExpenseStore, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher, now: time.Now}
}

// Add saves an expense and publishes a created event
func (s *ExpenseService) Add(ctx context.Context, userID string, in ExpenseInput) (core.Expense, error) {
	if strings.TrimSpace(in.Date) == "" {
		return core.Expense{}, core.Validation(core.MsgMissingFields)
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Expense{}, core.Validation("Invalid date")
	}

	expense := core.Expense{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  strings.TrimSpace(in.Category),
		Amount:    in.Amount,
		Date:      date,
		Icon:      in.Icon,
		CreatedAt: s.now().UTC(),
	}
	if err := expense.Validate(); err != nil {
		return core.Expense{}, err
	}

	// Store first; the event is best effort.
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.EventCreated, string(core.TypeExpense),
		expense.ID, userID, expense.Category, expense.Amount.Cents, expense.Date, expense.Icon))
	return expense, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := s.store.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	if rows == nil {
		rows = []core.Expense{}
	}
	return rows, nil
}

// Delete removes an owned expense. Missing rows are not an error.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.store.DeleteExpense(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if deleted {
		publishEvent(ctx, s.publisher, &amqp.TransactionEvent{
			Event:     amqp.EventDeleted,
			Type:      string(core.TypeExpense),
			ID:        id,
			UserID:    userID,
			Timestamp: s.now(),
		})
	}
	return nil
}

func (s *ExpenseService) Export(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, export.ExpenseSheet(rows))
}

func (s *ExpenseService) ExportPDF(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	return export.WritePDF(w, "Expense statement", export.ExpenseSheet(rows))
}
