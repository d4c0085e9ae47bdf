package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
	now  time.Time
}

func (s *RepositorySuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "data", "test.db"))
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RepositorySuite) TearDownTest() {
	s.Require().NoError(s.repo.Close())
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) TestUsers() {
	u := core.User{ID: "u1", FullName: "Ada", Email: "ada@example.com", PasswordHash: "hash", CreatedAt: s.now, UpdatedAt: s.now}
	s.Require().NoError(s.repo.CreateUser(s.ctx, u))

	got, err := s.repo.GetUserByEmail(s.ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(u, got)

	got, err = s.repo.GetUserByID(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Ada", got.FullName)

	dup := u
	dup.ID = "u2"
	err = s.repo.CreateUser(s.ctx, dup)
	s.ErrorIs(err, core.ErrConflict)

	_, err = s.repo.GetUserByID(s.ctx, "missing")
	s.ErrorIs(err, core.ErrNotFound)
}

func (s *RepositorySuite) TestIncomeLifecycle() {
	for i, d := range []int{1, 40, 3, 90} {
		s.Require().NoError(s.repo.CreateIncome(s.ctx, core.Income{
			ID:        "i" + string(rune('0'+i)),
			UserID:    "u1",
			Source:    "Salary",
			Amount:    core.Money{Cents: int64(100 * (i + 1))},
			Date:      s.now.AddDate(0, 0, -d),
			CreatedAt: s.now,
		}))
	}
	s.Require().NoError(s.repo.CreateIncome(s.ctx, core.Income{ID: "other", UserID: "u2", Source: "Gift", Amount: core.Money{Cents: 5}, Date: s.now, CreatedAt: s.now}))

	all, err := s.repo.ListIncomes(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(all, 4)
	s.Equal([]string{"i0", "i2", "i1", "i3"}, incomeIDs(all))

	since, err := s.repo.ListIncomesSince(s.ctx, "u1", s.now.AddDate(0, 0, -60))
	s.Require().NoError(err)
	s.Equal([]string{"i0", "i2", "i1"}, incomeIDs(since))

	recent, err := s.repo.RecentIncomes(s.ctx, "u1", 2)
	s.Require().NoError(err)
	s.Equal([]string{"i0", "i2"}, incomeIDs(recent))

	total, err := s.repo.SumIncomes(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(int64(1000), total.Cents)

	// Foreign rows are invisible to deletes.
	deleted, err := s.repo.DeleteIncome(s.ctx, "u1", "other")
	s.Require().NoError(err)
	s.False(deleted)

	deleted, err = s.repo.DeleteIncome(s.ctx, "u1", "i0")
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.DeleteIncome(s.ctx, "u1", "i0")
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *RepositorySuite) TestExpenseSumEmpty() {
	total, err := s.repo.SumExpenses(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(core.Money{}, total)

	rows, err := s.repo.ListExpenses(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(rows)
}

func (s *RepositorySuite) TestExpenseRoundTrip() {
	e := core.Expense{ID: "e1", UserID: "u1", Category: "Rent", Amount: core.Money{Cents: 40000}, Date: s.now, Icon: "🏠", CreatedAt: s.now}
	s.Require().NoError(s.repo.CreateExpense(s.ctx, e))

	got, err := s.repo.RecentExpenses(s.ctx, "u1", 5)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(e, got[0])

	window, err := s.repo.ListExpensesSince(s.ctx, "u1", s.now)
	s.Require().NoError(err)
	s.Len(window, 1, "the window start is inclusive")
}

func (s *RepositorySuite) TestGoals() {
	target := s.now.AddDate(1, 0, 0)
	g1 := core.Goal{ID: "g1", UserID: "u1", Title: "Car", TargetAmount: core.Money{Cents: 1000}, Category: core.GoalSavings, Status: core.GoalActive, Icon: core.DefaultGoalIcon, TargetDate: &target, CreatedAt: s.now, UpdatedAt: s.now}
	g2 := core.Goal{ID: "g2", UserID: "u1", Title: "Trip", TargetAmount: core.Money{Cents: 500}, Category: core.GoalExpense, Status: core.GoalPaused, CreatedAt: s.now.Add(time.Minute), UpdatedAt: s.now}
	s.Require().NoError(s.repo.CreateGoal(s.ctx, g1))
	s.Require().NoError(s.repo.CreateGoal(s.ctx, g2))

	all, err := s.repo.ListGoals(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("g2", all[0].ID)

	active, err := s.repo.ListGoalsByStatus(s.ctx, "u1", core.GoalActive)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(g1, active[0])

	g1.CurrentAmount = core.Money{Cents: 1000}
	g1.Status = core.GoalCompleted
	s.Require().NoError(s.repo.UpdateGoal(s.ctx, g1))
	got, err := s.repo.GetGoal(s.ctx, "u1", "g1")
	s.Require().NoError(err)
	s.Equal(core.GoalCompleted, got.Status)

	foreign := g1
	foreign.UserID = "u2"
	s.ErrorIs(s.repo.UpdateGoal(s.ctx, foreign), core.ErrNotFound)

	_, err = s.repo.GetGoal(s.ctx, "u2", "g1")
	s.ErrorIs(err, core.ErrNotFound)

	deleted, err := s.repo.DeleteGoal(s.ctx, "u1", "g2")
	s.Require().NoError(err)
	s.True(deleted)
	deleted, err = s.repo.DeleteGoal(s.ctx, "u1", "g2")
	s.Require().NoError(err)
	s.False(deleted)
}

func incomeIDs(rows []core.Income) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestRepositoryFaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSQLiteRepositoryFromDB(db)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_cents\\), 0\\) FROM incomes").
		WithArgs("u1").
		WillReturnError(boom)
	_, err = repo.SumIncomes(ctx, "u1")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "sum incomes")

	mock.ExpectQuery("FROM expenses WHERE user_id = \\? AND date >= \\?").
		WillReturnError(boom)
	_, err = repo.ListExpensesSince(ctx, "u1", time.Now())
	assert.ErrorIs(t, err, boom)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
	err = repo.CreateUser(ctx, core.User{ID: "u1", Email: "a@b.c"})
	assert.ErrorIs(t, err, core.ErrConflict)

	mock.ExpectExec("UPDATE goals").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err = repo.UpdateGoal(ctx, core.Goal{ID: "g1", UserID: "u1"})
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
