package core

import (
	"strings"
	"time"
)

const (
	GoalSavings GoalCategory = "savings"
	GoalExpense GoalCategory = "expense"
	GoalIncome  GoalCategory = "income"

	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"

	DefaultGoalIcon = "🎯"
)

type (
	GoalCategory string
	GoalStatus   string

	User struct {
		ID              string    `json:"_id"`
		FullName        string    `json:"fullName"`
		Email           string    `json:"email"`
		PasswordHash    string    `json:"-"`
		ProfileImageURL string    `json:"profileImageURL,omitempty"`
		CreatedAt       time.Time `json:"createdAt"`
		UpdatedAt       time.Time `json:"updatedAt"`
	}

	Income struct {
		ID        string    `json:"_id"`
		UserID    string    `json:"userId"`
		Source    string    `json:"source"`
		Amount    Money     `json:"amount"`
		Date      time.Time `json:"date"`
		Icon      string    `json:"icon,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Expense struct {
		ID        string    `json:"_id"`
		UserID    string    `json:"userId"`
		Category  string    `json:"category"`
		Amount    Money     `json:"amount"`
		Date      time.Time `json:"date"`
		Icon      string    `json:"icon,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	Goal struct {
		ID            string       `json:"_id"`
		UserID        string       `json:"userId"`
		Title         string       `json:"title"`
		Description   string       `json:"description"`
		TargetAmount  Money        `json:"targetAmount"`
		CurrentAmount Money        `json:"currentAmount"`
		Category      GoalCategory `json:"category"`
		TargetDate    *time.Time   `json:"targetDate"`
		Status        GoalStatus   `json:"status"`
		Icon          string       `json:"icon"`
		CreatedAt     time.Time    `json:"createdAt"`
		UpdatedAt     time.Time    `json:"updatedAt"`
	}

	// GoalProgress is one row of the progress report.
	GoalProgress struct {
		GoalID        string  `json:"goalId"`
		Title         string  `json:"title"`
		Progress      float64 `json:"progress"`
		CurrentAmount Money   `json:"currentAmount"`
		TargetAmount  Money   `json:"targetAmount"`
	}
)

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalSavings, GoalExpense, GoalIncome:
		return true
	}
	return false
}

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalPaused:
		return true
	}
	return false
}

// NormalizeEmail is applied to every email before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Source) == "" || i.Amount.Cents <= 0 || i.Date.IsZero() {
		return Validation(MsgMissingFields)
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Category) == "" || e.Amount.Cents <= 0 || e.Date.IsZero() {
		return Validation(MsgMissingFields)
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" || g.TargetAmount.Cents <= 0 {
		return Validation("Please provide title and target amount")
	}
	if g.CurrentAmount.Cents < 0 {
		return Validation("Current amount cannot be negative")
	}
	if !g.Category.Valid() {
		return Validation("Invalid goal category: " + string(g.Category))
	}
	if !g.Status.Valid() {
		return Validation("Invalid goal status: " + string(g.Status))
	}
	return nil
}

// ReconcileStatus promotes the goal to completed once the target is reached.
// It never moves a goal out of completed.
func (g *Goal) ReconcileStatus() {
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents && g.Status != GoalCompleted {
		g.Status = GoalCompleted
	}
}

// Progress returns current/target as an uncapped percentage.
func (g Goal) Progress() float64 {
	if g.TargetAmount.Cents == 0 {
		return 0
	}
	return float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
}

// ParseDate accepts the date layouts the web client sends.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
