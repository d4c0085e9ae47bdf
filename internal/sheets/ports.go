package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// LedgerRow is one mirrored transaction. Type selects the target tab.
type LedgerRow struct {
	ID     string
	UserID string
	Type   core.TransactionType
	Label  string
	Amount core.Money
	Date   time.Time
	Icon   string
}

// Ports for outbound adapters.
type (
	// LedgerMirror keeps an external copy of every user's ledger.
	LedgerMirror interface {
		AppendRow(ctx context.Context, row LedgerRow) error
		// DeleteRow removes the row with the given ID from the tab of txType.
		// A missing row is not an error.
		DeleteRow(ctx context.Context, txType core.TransactionType, id string) error
	}
)
