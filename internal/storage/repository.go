package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return NewSQLiteRepositoryFromDB(db), nil
}

// NewSQLiteRepositoryFromDB wraps an already open handle. Migrations are not run.
func NewSQLiteRepositoryFromDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func toMillis(t time.Time) int64 { return t.UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Users

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	err := r.queries.CreateUser(ctx, User{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       toMillis(u.CreatedAt),
		UpdatedAt:       toMillis(u.UpdatedAt),
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("create user: %w", core.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User saved to SQLite", "id", u.ID)
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	u, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by email: %w", mapNoRows(err))
	}
	return userFromRow(u), nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (core.User, error) {
	u, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		return core.User{}, fmt.Errorf("get user by id: %w", mapNoRows(err))
	}
	return userFromRow(u), nil
}

func userFromRow(u User) core.User {
	return core.User{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       fromMillis(u.CreatedAt),
		UpdatedAt:       fromMillis(u.UpdatedAt),
	}
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}

// Incomes

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) error {
	err := r.queries.insertLedgerRow(ctx, incomeQueries, LedgerRow{
		ID:          in.ID,
		UserID:      in.UserID,
		Label:       in.Source,
		AmountCents: in.Amount.Cents,
		Date:        toMillis(in.Date),
		Icon:        in.Icon,
		CreatedAt:   toMillis(in.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", in.ID,
		"source", in.Source,
		"amount_cents", in.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context, userID string) ([]core.Income, error) {
	rows, err := r.queries.queryLedgerRows(ctx, incomeQueries.list, userID)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	return incomesFromRows(rows), nil
}

func (r *SQLiteRepository) ListIncomesSince(ctx context.Context, userID string, since time.Time) ([]core.Income, error) {
	rows, err := r.queries.queryLedgerRows(ctx, incomeQueries.since, userID, toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("list incomes since: %w", err)
	}
	return incomesFromRows(rows), nil
}

func (r *SQLiteRepository) RecentIncomes(ctx context.Context, userID string, limit int) ([]core.Income, error) {
	rows, err := r.queries.queryLedgerRows(ctx, incomeQueries.recent, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent incomes: %w", err)
	}
	return incomesFromRows(rows), nil
}

func (r *SQLiteRepository) SumIncomes(ctx context.Context, userID string) (core.Money, error) {
	total, err := r.queries.sumLedger(ctx, incomeQueries, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum incomes: %w", err)
	}
	return core.Money{Cents: total}, nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, userID, id string) (bool, error) {
	n, err := r.queries.deleteLedgerRow(ctx, incomeQueries, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete income: %w", err)
	}
	return n > 0, nil
}

func incomesFromRows(rows []LedgerRow) []core.Income {
	out := make([]core.Income, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Income{
			ID:        r.ID,
			UserID:    r.UserID,
			Source:    r.Label,
			Amount:    core.Money{Cents: r.AmountCents},
			Date:      fromMillis(r.Date),
			Icon:      r.Icon,
			CreatedAt: fromMillis(r.CreatedAt),
		})
	}
	return out
}

// Expenses

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) error {
	err := r.queries.insertLedgerRow(ctx, expenseQueries, LedgerRow{
		ID:          e.ID,
		UserID:      e.UserID,
		Label:       e.Category,
		AmountCents: e.Amount.Cents,
		Date:        toMillis(e.Date),
		Icon:        e.Icon,
		CreatedAt:   toMillis(e.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", e.ID,
		"category", e.Category,
		"amount_cents", e.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	rows, err := r.queries.queryLedgerRows(ctx, expenseQueries.list, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expensesFromRows(rows), nil
}

func (r *SQLiteRepository) ListExpensesSince(ctx context.Context, userID string, since time.Time) ([]core.Expense, error) {
	rows, err := r.queries.queryLedgerRows(ctx, expenseQueries.since, userID, toMillis(since))
	if err != nil {
		return nil, fmt.Errorf("list expenses since: %w", err)
	}
	return expensesFromRows(rows), nil
}

func (r *SQLiteRepository) RecentExpenses(ctx context.Context, userID string, limit int) ([]core.Expense, error) {
	rows, err := r.queries.queryLedgerRows(ctx, expenseQueries.recent, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent expenses: %w", err)
	}
	return expensesFromRows(rows), nil
}

func (r *SQLiteRepository) SumExpenses(ctx context.Context, userID string) (core.Money, error) {
	total, err := r.queries.sumLedger(ctx, expenseQueries, userID)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum expenses: %w", err)
	}
	return core.Money{Cents: total}, nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, userID, id string) (bool, error) {
	n, err := r.queries.deleteLedgerRow(ctx, expenseQueries, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	return n > 0, nil
}

func expensesFromRows(rows []LedgerRow) []core.Expense {
	out := make([]core.Expense, 0, len(rows))
	for _, r := range rows {
		out = append(out, core.Expense{
			ID:        r.ID,
			UserID:    r.UserID,
			Category:  r.Label,
			Amount:    core.Money{Cents: r.AmountCents},
			Date:      fromMillis(r.Date),
			Icon:      r.Icon,
			CreatedAt: fromMillis(r.CreatedAt),
		})
	}
	return out
}

// Goals

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) error {
	if err := r.queries.CreateGoal(ctx, goalToRow(g)); err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal saved to SQLite", "id", g.ID, "title", g.Title)
	return nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goalsFromRows(rows), nil
}

func (r *SQLiteRepository) ListGoalsByStatus(ctx context.Context, userID string, status core.GoalStatus) ([]core.Goal, error) {
	rows, err := r.queries.ListGoalsByStatus(ctx, userID, string(status))
	if err != nil {
		return nil, fmt.Errorf("list goals by status: %w", err)
	}
	return goalsFromRows(rows), nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, userID, id string) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, userID, id)
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", mapNoRows(err))
	}
	return goalFromRow(row), nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	n, err := r.queries.UpdateGoal(ctx, goalToRow(g))
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update goal: %w", core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Goal updated in SQLite", "id", g.ID, "status", g.Status)
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, userID, id string) (bool, error) {
	n, err := r.queries.DeleteGoal(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("delete goal: %w", err)
	}
	return n > 0, nil
}

func goalToRow(g core.Goal) Goal {
	row := Goal{
		ID:                 g.ID,
		UserID:             g.UserID,
		Title:              g.Title,
		Description:        g.Description,
		TargetAmountCents:  g.TargetAmount.Cents,
		CurrentAmountCents: g.CurrentAmount.Cents,
		Category:           string(g.Category),
		Status:             string(g.Status),
		Icon:               g.Icon,
		CreatedAt:          toMillis(g.CreatedAt),
		UpdatedAt:          toMillis(g.UpdatedAt),
	}
	if g.TargetDate != nil {
		row.TargetDate = sql.NullInt64{Int64: toMillis(*g.TargetDate), Valid: true}
	}
	return row
}

func goalFromRow(row Goal) core.Goal {
	g := core.Goal{
		ID:            row.ID,
		UserID:        row.UserID,
		Title:         row.Title,
		Description:   row.Description,
		TargetAmount:  core.Money{Cents: row.TargetAmountCents},
		CurrentAmount: core.Money{Cents: row.CurrentAmountCents},
		Category:      core.GoalCategory(row.Category),
		Status:        core.GoalStatus(row.Status),
		Icon:          row.Icon,
		CreatedAt:     fromMillis(row.CreatedAt),
		UpdatedAt:     fromMillis(row.UpdatedAt),
	}
	if row.TargetDate.Valid {
		t := fromMillis(row.TargetDate.Int64)
		g.TargetDate = &t
	}
	return g
}

func goalsFromRows(rows []Goal) []core.Goal {
	out := make([]core.Goal, 0, len(rows))
	for _, r := range rows {
		out = append(out, goalFromRow(r))
	}
	return out
}
