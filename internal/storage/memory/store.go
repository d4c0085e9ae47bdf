// Package memory is an in-process store used for development and tests.
// Nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fintrack/internal/core"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]core.User
	emails   map[string]string
	incomes  []core.Income
	expenses []core.Expense
	goals    []core.Goal
}

func New() *Store {
	return &Store{
		users:  make(map[string]core.User),
		emails: make(map[string]string),
	}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, u core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[u.Email]; ok {
		return fmt.Errorf("create user: %w", core.ErrConflict)
	}
	s.users[u.ID] = u
	s.emails[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.emails[email]
	if !ok {
		return core.User{}, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	return s.users[id], nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, fmt.Errorf("get user by id: %w", core.ErrNotFound)
	}
	return u, nil
}

func (s *Store) CreateIncome(_ context.Context, in core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, in)
	return nil
}

func (s *Store) ListIncomes(_ context.Context, userID string) ([]core.Income, error) {
	return s.selectIncomes(userID, time.Time{}, 0), nil
}

func (s *Store) ListIncomesSince(_ context.Context, userID string, since time.Time) ([]core.Income, error) {
	return s.selectIncomes(userID, since, 0), nil
}

func (s *Store) RecentIncomes(_ context.Context, userID string, limit int) ([]core.Income, error) {
	return s.selectIncomes(userID, time.Time{}, limit), nil
}

func (s *Store) SumIncomes(_ context.Context, userID string) (core.Money, error) {
	return core.SumIncomes(s.selectIncomes(userID, time.Time{}, 0)), nil
}

func (s *Store) DeleteIncome(_ context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, in := range s.incomes {
		if in.ID == id && in.UserID == userID {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) selectIncomes(userID string, since time.Time, limit int) []core.Income {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Income, 0)
	for _, in := range s.incomes {
		if in.UserID == userID && !in.Date.Before(since) {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i].Date, out[i].CreatedAt, out[j].Date, out[j].CreatedAt)
	})
	return truncate(out, limit)
}

func (s *Store) CreateExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, userID string) ([]core.Expense, error) {
	return s.selectExpenses(userID, time.Time{}, 0), nil
}

func (s *Store) ListExpensesSince(_ context.Context, userID string, since time.Time) ([]core.Expense, error) {
	return s.selectExpenses(userID, since, 0), nil
}

func (s *Store) RecentExpenses(_ context.Context, userID string, limit int) ([]core.Expense, error) {
	return s.selectExpenses(userID, time.Time{}, limit), nil
}

func (s *Store) SumExpenses(_ context.Context, userID string) (core.Money, error) {
	return core.SumExpenses(s.selectExpenses(userID, time.Time{}, 0)), nil
}

func (s *Store) DeleteExpense(_ context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.expenses {
		if e.ID == id && e.UserID == userID {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) selectExpenses(userID string, since time.Time, limit int) []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, 0)
	for _, e := range s.expenses {
		if e.UserID == userID && !e.Date.Before(since) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return newer(out[i].Date, out[i].CreatedAt, out[j].Date, out[j].CreatedAt)
	})
	return truncate(out, limit)
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append(s.goals, g)
	return nil
}

func (s *Store) ListGoals(_ context.Context, userID string) ([]core.Goal, error) {
	return s.selectGoals(userID, ""), nil
}

func (s *Store) ListGoalsByStatus(_ context.Context, userID string, status core.GoalStatus) ([]core.Goal, error) {
	return s.selectGoals(userID, status), nil
}

func (s *Store) GetGoal(_ context.Context, userID, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id && g.UserID == userID {
			return g, nil
		}
	}
	return core.Goal{}, fmt.Errorf("get goal: %w", core.ErrNotFound)
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.goals {
		if existing.ID == g.ID && existing.UserID == g.UserID {
			s.goals[i] = g
			return nil
		}
	}
	return fmt.Errorf("update goal: %w", core.ErrNotFound)
}

func (s *Store) DeleteGoal(_ context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.goals {
		if g.ID == id && g.UserID == userID {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) selectGoals(userID string, status core.GoalStatus) []core.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, 0)
	for _, g := range s.goals {
		if g.UserID == userID && (status == "" || g.Status == status) {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// newer orders by date, then creation time, both descending.
func newer(d1, c1, d2, c2 time.Time) bool {
	if !d1.Equal(d2) {
		return d1.After(d2)
	}
	return c1.After(c2)
}

func truncate[T any](rows []T, limit int) []T {
	if limit > 0 && len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
