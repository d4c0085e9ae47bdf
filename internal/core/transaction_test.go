package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day := now.Add(-24 * time.Hour)

	in := Normalize(Income{ID: "i1", Source: "Salary", Icon: "💰", Date: day, Amount: Money{Cents: 1000}}, now)
	assert.Equal(t, NormalizedTransaction{ID: "i1", Category: "Salary", Icon: "💰", Date: day, Amount: Money{Cents: 1000}, Type: TypeIncome}, in)

	ex := Normalize(Expense{ID: "e1", Category: "Rent", Date: day, Amount: Money{Cents: 400}}, now)
	assert.Equal(t, "Rent", ex.Category)
	assert.Equal(t, TypeExpense, ex.Type)

	legacy := Normalize(Expense{ID: "e2"}, now)
	assert.Equal(t, UnlabeledCategory, legacy.Category)
	assert.Equal(t, now, legacy.Date)
	assert.Equal(t, int64(0), legacy.Amount.Cents)
}

func feed(typ TransactionType, base time.Time, offsetsHours ...int) []NormalizedTransaction {
	out := make([]NormalizedTransaction, 0, len(offsetsHours))
	for i, h := range offsetsHours {
		out = append(out, NormalizedTransaction{
			ID:   string(typ) + string(rune('a'+i)),
			Date: base.Add(-time.Duration(h) * time.Hour),
			Type: typ,
		})
	}
	return out
}

func assertNewestFirst(t *testing.T, txs []NormalizedTransaction) {
	t.Helper()
	for i := 1; i < len(txs); i++ {
		require.False(t, txs[i].Date.After(txs[i-1].Date), "entry %d is newer than entry %d", i, i-1)
	}
}

func TestConcatNewest(t *testing.T) {
	now := time.Now()
	expenses := feed(TypeExpense, now, 1, 3, 5, 7, 9)
	incomes := feed(TypeIncome, now, 2, 4, 6, 8, 10)

	got := ConcatNewest(expenses, incomes)
	require.Len(t, got, 10)
	assertNewestFirst(t, got)
	assert.Equal(t, TypeExpense, got[0].Type)
	assert.Equal(t, TypeIncome, got[1].Type)
}

func TestConcatNewestKeepsExpenseFirstOnTies(t *testing.T) {
	now := time.Now()
	got := ConcatNewest(feed(TypeExpense, now, 0), feed(TypeIncome, now, 0))
	require.Len(t, got, 2)
	assert.Equal(t, TypeExpense, got[0].Type)
}

func TestMergeNewest(t *testing.T) {
	now := time.Now()
	// Incomes dominate the most recent slots; a global merge must reflect that.
	expenses := feed(TypeExpense, now, 20, 21, 22)
	incomes := feed(TypeIncome, now, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)

	got := MergeNewest(expenses, incomes, 10)
	require.Len(t, got, 10)
	assertNewestFirst(t, got)
	for _, tx := range got {
		assert.Equal(t, TypeIncome, tx.Type)
	}

	short := MergeNewest(expenses, nil, 10)
	assert.Len(t, short, 3)
	assert.Empty(t, MergeNewest(nil, nil, 10))
}

func TestSums(t *testing.T) {
	assert.Equal(t, Money{Cents: 300}, SumIncomes([]Income{{Amount: Money{Cents: 100}}, {Amount: Money{Cents: 200}}}))
	assert.Equal(t, Money{}, SumExpenses(nil))
}
