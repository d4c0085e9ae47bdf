package memory

import (
	"context"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// Mirror is an in-process LedgerMirror used when no spreadsheet is
// configured and in tests.
type Mirror struct {
	mu   sync.Mutex
	rows []sheets.LedgerRow
}

var _ sheets.LedgerMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) AppendRow(_ context.Context, row sheets.LedgerRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, row)
	return nil
}

func (m *Mirror) DeleteRow(_ context.Context, txType core.TransactionType, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id && r.Type == txType {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Rows returns a copy of the mirrored rows in append order.
func (m *Mirror) Rows() []sheets.LedgerRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sheets.LedgerRow(nil), m.rows...)
}
