package core

import (
	"sort"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"

	// UnlabeledCategory is shown for rows that carry neither a category nor a source.
	UnlabeledCategory = "Other"
)

type TransactionType string

// Row is the closed set of stored ledger rows: Income and Expense.
type Row interface {
	isRow()
}

func (Income) isRow()  {}
func (Expense) isRow() {}

// NormalizedTransaction is the common shape both collections are mapped to
// for the dashboard feed.
type NormalizedTransaction struct {
	ID       string          `json:"_id"`
	Category string          `json:"category"`
	Icon     string          `json:"icon"`
	Date     time.Time       `json:"date"`
	Amount   Money           `json:"amount"`
	Type     TransactionType `json:"type"`
}

// Normalize maps a stored row to the common feed shape. A zero date is
// replaced with now.
func Normalize(r Row, now time.Time) NormalizedTransaction {
	var n NormalizedTransaction
	switch v := r.(type) {
	case Income:
		n = NormalizedTransaction{ID: v.ID, Category: v.Source, Icon: v.Icon, Date: v.Date, Amount: v.Amount, Type: TypeIncome}
	case Expense:
		n = NormalizedTransaction{ID: v.ID, Category: v.Category, Icon: v.Icon, Date: v.Date, Amount: v.Amount, Type: TypeExpense}
	}
	if n.Category == "" {
		n.Category = UnlabeledCategory
	}
	if n.Date.IsZero() {
		n.Date = now
	}
	return n
}

func NormalizeIncomes(rows []Income, now time.Time) []NormalizedTransaction {
	out := make([]NormalizedTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, Normalize(r, now))
	}
	return out
}

func NormalizeExpenses(rows []Expense, now time.Time) []NormalizedTransaction {
	out := make([]NormalizedTransaction, 0, len(rows))
	for _, r := range rows {
		out = append(out, Normalize(r, now))
	}
	return out
}

// SortNewestFirst orders by date descending. Ties keep their input order.
func SortNewestFirst(txs []NormalizedTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// ConcatNewest appends incomes after expenses and re-sorts the result.
func ConcatNewest(expenses, incomes []NormalizedTransaction) []NormalizedTransaction {
	out := make([]NormalizedTransaction, 0, len(expenses)+len(incomes))
	out = append(out, expenses...)
	out = append(out, incomes...)
	SortNewestFirst(out)
	return out
}

// MergeNewest merges two date-descending streams and keeps the first limit
// entries. On equal dates the expense comes first.
func MergeNewest(expenses, incomes []NormalizedTransaction, limit int) []NormalizedTransaction {
	out := make([]NormalizedTransaction, 0, min(limit, len(expenses)+len(incomes)))
	i, j := 0, 0
	for len(out) < limit && (i < len(expenses) || j < len(incomes)) {
		switch {
		case j >= len(incomes):
			out = append(out, expenses[i])
			i++
		case i >= len(expenses):
			out = append(out, incomes[j])
			j++
		case incomes[j].Date.After(expenses[i].Date):
			out = append(out, incomes[j])
			j++
		default:
			out = append(out, expenses[i])
			i++
		}
	}
	return out
}

// SumIncomes and SumExpenses total a window of rows.
func SumIncomes(rows []Income) Money {
	var total Money
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}

func SumExpenses(rows []Expense) Money {
	var total Money
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}
