package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Time columns hold unix milliseconds.

type User struct {
	ID              string
	FullName        string
	Email           string
	PasswordHash    string
	ProfileImageURL string
	CreatedAt       int64
	UpdatedAt       int64
}

// LedgerRow is a row of either ledger table. Label is source for incomes and
// category for expenses.
type LedgerRow struct {
	ID          string
	UserID      string
	Label       string
	AmountCents int64
	Date        int64
	Icon        string
	CreatedAt   int64
}

type Goal struct {
	ID                 string
	UserID             string
	Title              string
	Description        string
	TargetAmountCents  int64
	CurrentAmountCents int64
	Category           string
	TargetDate         sql.NullInt64
	Status             string
	Icon               string
	CreatedAt          int64
	UpdatedAt          int64
}

const createUser = `INSERT INTO users (id, full_name, email, password_hash, profile_image_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateUser(ctx context.Context, u User) error {
	_, err := q.db.ExecContext(ctx, createUser, u.ID, u.FullName, u.Email, u.PasswordHash, u.ProfileImageURL, u.CreatedAt, u.UpdatedAt)
	return err
}

const selectUser = `SELECT id, full_name, email, password_hash, profile_image_url, created_at, updated_at FROM users`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email)
	return scanUser(row)
}

func (q *Queries) GetUserByID(ctx context.Context, id string) (User, error) {
	row := q.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.ProfileImageURL, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ledgerQueries holds the statements for one ledger table.
type ledgerQueries struct {
	insert   string
	list     string
	since    string
	recent   string
	sum      string
	deleteBy string
}

func newLedgerQueries(table, label string) ledgerQueries {
	cols := fmt.Sprintf("id, user_id, %s, amount_cents, date, icon, created_at", label)
	order := "ORDER BY date DESC, created_at DESC"
	return ledgerQueries{
		insert:   fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)", table, cols),
		list:     fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? %s", cols, table, order),
		since:    fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? AND date >= ? %s", cols, table, order),
		recent:   fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? %s LIMIT ?", cols, table, order),
		sum:      fmt.Sprintf("SELECT COALESCE(SUM(amount_cents), 0) FROM %s WHERE user_id = ?", table),
		deleteBy: fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", table),
	}
}

var (
	incomeQueries  = newLedgerQueries("incomes", "source")
	expenseQueries = newLedgerQueries("expenses", "category")
)

func (q *Queries) insertLedgerRow(ctx context.Context, lq ledgerQueries, r LedgerRow) error {
	_, err := q.db.ExecContext(ctx, lq.insert, r.ID, r.UserID, r.Label, r.AmountCents, r.Date, r.Icon, r.CreatedAt)
	return err
}

func (q *Queries) queryLedgerRows(ctx context.Context, query string, args ...interface{}) ([]LedgerRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LedgerRow
	for rows.Next() {
		var r LedgerRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Label, &r.AmountCents, &r.Date, &r.Icon, &r.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (q *Queries) sumLedger(ctx context.Context, lq ledgerQueries, userID string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, lq.sum, userID).Scan(&total)
	return total, err
}

func (q *Queries) deleteLedgerRow(ctx context.Context, lq ledgerQueries, userID, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, lq.deleteBy, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const goalColumns = `id, user_id, title, description, target_amount_cents, current_amount_cents, category, target_date, status, icon, created_at, updated_at`

const createGoal = `INSERT INTO goals (` + goalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) CreateGoal(ctx context.Context, g Goal) error {
	_, err := q.db.ExecContext(ctx, createGoal,
		g.ID, g.UserID, g.Title, g.Description, g.TargetAmountCents, g.CurrentAmountCents,
		g.Category, g.TargetDate, g.Status, g.Icon, g.CreatedAt, g.UpdatedAt)
	return err
}

const updateGoal = `UPDATE goals
SET title = ?, description = ?, target_amount_cents = ?, current_amount_cents = ?, category = ?,
    target_date = ?, status = ?, icon = ?, updated_at = ?
WHERE id = ? AND user_id = ?`

func (q *Queries) UpdateGoal(ctx context.Context, g Goal) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoal,
		g.Title, g.Description, g.TargetAmountCents, g.CurrentAmountCents, g.Category,
		g.TargetDate, g.Status, g.Icon, g.UpdatedAt, g.ID, g.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const getGoal = `SELECT ` + goalColumns + ` FROM goals WHERE id = ? AND user_id = ?`

func (q *Queries) GetGoal(ctx context.Context, userID, id string) (Goal, error) {
	row := q.db.QueryRowContext(ctx, getGoal, id, userID)
	var g Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmountCents, &g.CurrentAmountCents,
		&g.Category, &g.TargetDate, &g.Status, &g.Icon, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

const listGoals = `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ? ORDER BY created_at DESC`

const listGoalsByStatus = `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ? AND status = ? ORDER BY created_at DESC`

func (q *Queries) ListGoals(ctx context.Context, userID string) ([]Goal, error) {
	return q.queryGoals(ctx, listGoals, userID)
}

func (q *Queries) ListGoalsByStatus(ctx context.Context, userID, status string) ([]Goal, error) {
	return q.queryGoals(ctx, listGoalsByStatus, userID, status)
}

func (q *Queries) queryGoals(ctx context.Context, query string, args ...interface{}) ([]Goal, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.TargetAmountCents, &g.CurrentAmountCents,
			&g.Category, &g.TargetDate, &g.Status, &g.Icon, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteGoal = `DELETE FROM goals WHERE id = ? AND user_id = ?`

func (q *Queries) DeleteGoal(ctx context.Context, userID, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
