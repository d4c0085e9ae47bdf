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

const MsgIncomeDeleted = "Income source deleted successfully"

// IncomeInput is the add-income payload. Date is parsed with core.ParseDate.
type IncomeInput struct {
	Source string     `json:"source"`
	Amount core.Money `json:"amount"`
	Date   string     `json:"date"`
	Icon   string     `json:"icon"`
}

// IncomeService persists income rows, then publishes an event for each
// effective change.
type IncomeService struct {
	store     IncomeStore
	publisher EventPublisher
	now       func() time.Time
}

// NewIncomeService wires the service. publisher may be nil.
func NewIncomeService(store IncomeStore, publisher EventPublisher) *IncomeService {
	return &IncomeService{store: store, publisher: publisher, now: time.Now}
}

func (s *IncomeService) Add(ctx context.Context, userID string, in IncomeInput) (core.Income, error) {
	if strings.TrimSpace(in.Date) == "" {
		return core.Income{}, core.Validation(core.MsgMissingFields)
	}
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Income{}, core.Validation("Invalid date")
	}

	income := core.Income{
		ID:        uuid.NewString(),
		UserID:    userID,
		Source:    strings.TrimSpace(in.Source),
		Amount:    in.Amount,
		Date:      date,
		Icon:      in.Icon,
		CreatedAt: s.now().UTC(),
	}
	if err := income.Validate(); err != nil {
		return core.Income{}, err
	}

	if err := s.store.CreateIncome(ctx, income); err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	publishEvent(ctx, s.publisher, amqp.NewTransactionEvent(amqp.EventCreated, string(core.TypeIncome),
		income.ID, userID, income.Source, income.Amount.Cents, income.Date, income.Icon))
	return income, nil
}

func (s *IncomeService) List(ctx context.Context, userID string) ([]core.Income, error) {
	rows, err := s.store.ListIncomes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	if rows == nil {
		rows = []core.Income{}
	}
	return rows, nil
}

// Delete removes an owned row. Unknown or foreign IDs succeed silently.
func (s *IncomeService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.store.DeleteIncome(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	if deleted {
		publishEvent(ctx, s.publisher, &amqp.TransactionEvent{
			Event:     amqp.EventDeleted,
			Type:      string(core.TypeIncome),
			ID:        id,
			UserID:    userID,
			Timestamp: s.now(),
		})
	}
	return nil
}

// Export writes the user's incomes as an XLSX workbook in list order.
func (s *IncomeService) Export(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, export.IncomeSheet(rows))
}

func (s *IncomeService) ExportPDF(ctx context.Context, userID string, w io.Writer) error {
	rows, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	return export.WritePDF(w, "Income statement", export.IncomeSheet(rows))
}
