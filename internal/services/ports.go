package services

import (
	"context"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Store lookups of a missing row return an error wrapping core.ErrNotFound;
// duplicate emails wrap core.ErrConflict. Every ledger and goal method is
// scoped to userID.

type UserStore interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUserByEmail(ctx context.Context, email string) (core.User, error)
	GetUserByID(ctx context.Context, id string) (core.User, error)
}

type IncomeStore interface {
	CreateIncome(ctx context.Context, in core.Income) error
	ListIncomes(ctx context.Context, userID string) ([]core.Income, error)
	ListIncomesSince(ctx context.Context, userID string, since time.Time) ([]core.Income, error)
	RecentIncomes(ctx context.Context, userID string, limit int) ([]core.Income, error)
	SumIncomes(ctx context.Context, userID string) (core.Money, error)
	DeleteIncome(ctx context.Context, userID, id string) (bool, error)
}

type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) error
	ListExpenses(ctx context.Context, userID string) ([]core.Expense, error)
	ListExpensesSince(ctx context.Context, userID string, since time.Time) ([]core.Expense, error)
	RecentExpenses(ctx context.Context, userID string, limit int) ([]core.Expense, error)
	SumExpenses(ctx context.Context, userID string) (core.Money, error)
	DeleteExpense(ctx context.Context, userID, id string) (bool, error)
}

type GoalStore interface {
	CreateGoal(ctx context.Context, g core.Goal) error
	ListGoals(ctx context.Context, userID string) ([]core.Goal, error)
	ListGoalsByStatus(ctx context.Context, userID string, status core.GoalStatus) ([]core.Goal, error)
	GetGoal(ctx context.Context, userID, id string) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, userID, id string) (bool, error)
}

// EventPublisher delivers ledger events to the message broker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, ev *amqp.TransactionEvent) error
}
