package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/metrics"

	"golang.org/x/sync/errgroup"
)

// RecentPolicy selects how the recent-activity feed is assembled.
type RecentPolicy string

const (
	// RecentCompat takes the 5 newest rows of each collection, concatenates
	// expenses then incomes and re-sorts.
	RecentCompat RecentPolicy = "compat"
	// RecentMerged merges the two newest-first streams into the global top 10.
	RecentMerged RecentPolicy = "merged"
)

const (
	IncomeWindow  = 60 * 24 * time.Hour
	ExpenseWindow = 30 * 24 * time.Hour

	recentPerCollection = 5
	recentLimit         = 10
)

func (p RecentPolicy) Valid() bool {
	return p == RecentCompat || p == RecentMerged
}

type DashboardService struct {
	incomes  IncomeStore
	expenses ExpenseStore
	policy   RecentPolicy
	now      func() time.Time
}

func NewDashboardService(incomes IncomeStore, expenses ExpenseStore, policy RecentPolicy) *DashboardService {
	if !policy.Valid() {
		policy = RecentCompat
	}
	return &DashboardService{incomes: incomes, expenses: expenses, policy: policy, now: time.Now}
}

// Get aggregates the dashboard for userID. The six store reads run
// concurrently; the first failure cancels the others and fails the whole call.
func (s *DashboardService) Get(ctx context.Context, userID string) (dash core.Dashboard, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDashboard(time.Since(start), err) }()

	now := s.now().UTC()
	perCollection := recentPerCollection
	if s.policy == RecentMerged {
		perCollection = recentLimit
	}

	var (
		totalIncome, totalExpense core.Money
		incomeWindow              []core.Income
		expenseWindow             []core.Expense
		recentIncomes             []core.Income
		recentExpenses            []core.Expense
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalIncome, err = s.incomes.SumIncomes(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		totalExpense, err = s.expenses.SumExpenses(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		incomeWindow, err = s.incomes.ListIncomesSince(gctx, userID, now.Add(-IncomeWindow))
		return err
	})
	g.Go(func() (err error) {
		expenseWindow, err = s.expenses.ListExpensesSince(gctx, userID, now.Add(-ExpenseWindow))
		return err
	})
	g.Go(func() (err error) {
		recentIncomes, err = s.incomes.RecentIncomes(gctx, userID, perCollection)
		return err
	})
	g.Go(func() (err error) {
		recentExpenses, err = s.expenses.RecentExpenses(gctx, userID, perCollection)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Dashboard{}, fmt.Errorf("aggregate dashboard: %w", err)
	}

	incomeTxs := core.NormalizeIncomes(incomeWindow, now)
	core.SortNewestFirst(incomeTxs)
	expenseTxs := core.NormalizeExpenses(expenseWindow, now)
	core.SortNewestFirst(expenseTxs)

	recentExp := core.NormalizeExpenses(recentExpenses, now)
	recentInc := core.NormalizeIncomes(recentIncomes, now)
	var recent []core.NormalizedTransaction
	if s.policy == RecentMerged {
		core.SortNewestFirst(recentExp)
		core.SortNewestFirst(recentInc)
		recent = core.MergeNewest(recentExp, recentInc, recentLimit)
	} else {
		recent = core.ConcatNewest(recentExp, recentInc)
	}

	dash = core.Dashboard{
		TotalBalance: totalIncome.Sub(totalExpense),
		TotalIncome:  totalIncome,
		TotalExpense: totalExpense,
		Last30DaysExpenses: core.WindowSummary{
			Total:        core.SumExpenses(expenseWindow),
			Transactions: expenseTxs,
		},
		Last60DaysIncome: core.WindowSummary{
			Total:        core.SumIncomes(incomeWindow),
			Transactions: incomeTxs,
		},
		RecentTransactions: recent,
	}

	slog.DebugContext(ctx, "Dashboard aggregated", append(log.NewFields().WithUser(userID).ToSlice(),
		"policy", s.policy,
		"income_window_rows", len(incomeTxs),
		"expense_window_rows", len(expenseTxs),
		"recent_rows", len(recent))...)
	return dash, nil
}
