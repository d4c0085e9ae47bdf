package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultIncomesSheet  = "Incomes"
	DefaultExpensesSheet = "Expenses"

	// Columns: ID, Date, User, Label, Amount, Icon
	columnRange = "A:F"
	dateLayout  = "02/01/2006"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	incomesSheet  string
	expensesSheet string
}

// Ensure interface conformance
var _ ports.LedgerMirror = (*Client)(nil)

// Config selects the spreadsheet and the service account used to reach it.
type Config struct {
	SpreadsheetID   string
	IncomesSheet    string
	ExpensesSheet   string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client authenticated with a service account.
// CredentialsJSON wins over CredentialsFile; with neither set,
// GOOGLE_APPLICATION_CREDENTIALS is read.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	credentialsJSON, err := loadCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created", "spreadsheet_id", cfg.SpreadsheetID)
	return NewWithService(svc, cfg), nil
}

// NewWithService wraps an existing service. Tests point it at a fake endpoint.
func NewWithService(svc *gsheet.Service, cfg Config) *Client {
	c := &Client{
		svc:           svc,
		spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID),
		incomesSheet:  strings.TrimSpace(cfg.IncomesSheet),
		expensesSheet: strings.TrimSpace(cfg.ExpensesSheet),
	}
	if c.incomesSheet == "" {
		c.incomesSheet = DefaultIncomesSheet
	}
	if c.expensesSheet == "" {
		c.expensesSheet = DefaultExpensesSheet
	}
	return c
}

func loadCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading service account credentials", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) sheetFor(txType core.TransactionType) (string, error) {
	switch txType {
	case core.TypeIncome:
		return c.incomesSheet, nil
	case core.TypeExpense:
		return c.expensesSheet, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", txType)
}

// AppendRow appends the row after the last non-empty line of its tab.
func (c *Client) AppendRow(ctx context.Context, row ports.LedgerRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	sheet, err := c.sheetFor(row.Type)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!%s", sheet, columnRange)
	vr := &gsheet.ValueRange{Values: [][]any{toRecord(row)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	var updated string
	if resp.Updates != nil {
		updated = resp.Updates.UpdatedRange
	}
	slog.InfoContext(ctx, "Row mirrored", "id", row.ID, "sheet", sheet, "range", updated)
	return nil
}

// DeleteRow clears the line holding id. The row stays in place as a blank
// line so the row numbers of other entries do not shift.
func (c *Client) DeleteRow(ctx context.Context, txType core.TransactionType, id string) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	sheet, err := c.sheetFor(txType)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read %s: %w", rng, err)
	}

	idx := findRow(resp.Values, id)
	if idx < 0 {
		slog.WarnContext(ctx, "Mirrored row not found, nothing to delete", "id", id, "sheet", sheet)
		return nil
	}

	line := idx + 1
	target := fmt.Sprintf("%s!A%d:F%d", sheet, line, line)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, target, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", target, err)
	}

	slog.InfoContext(ctx, "Mirrored row cleared", "id", id, "range", target)
	return nil
}

// toRecord lays a row out in sheet column order. Amounts are written as
// numbers so sheet formulas can sum them.
func toRecord(row ports.LedgerRow) []any {
	return []any{row.ID, row.Date.Format(dateLayout), row.UserID, row.Label, row.Amount.Float(), row.Icon}
}

// findRow returns the zero-based index of the first line whose column A
// equals id, or -1.
func findRow(values [][]any, id string) int {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return i
		}
	}
	return -1
}
