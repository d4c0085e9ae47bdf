package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/google/uuid"
)

const (
	MsgGoalNotFound = "Goal not found"
	MsgGoalFields   = "Please provide title and target amount"
	MsgGoalDeleted  = "Goal deleted successfully"
)

type CreateGoalInput struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	TargetAmount  core.Money `json:"targetAmount"`
	CurrentAmount core.Money `json:"currentAmount"`
	Category      string     `json:"category"`
	TargetDate    string     `json:"targetDate"`
	Icon          string     `json:"icon"`
}

// UpdateGoalInput carries a partial update. A nil field was absent from the
// request.
type UpdateGoalInput struct {
	Title         *string     `json:"title"`
	Description   *string     `json:"description"`
	TargetAmount  *core.Money `json:"targetAmount"`
	CurrentAmount *core.Money `json:"currentAmount"`
	Category      *string     `json:"category"`
	TargetDate    *string     `json:"targetDate"`
	Status        *string     `json:"status"`
	Icon          *string     `json:"icon"`
}

type GoalService struct {
	store GoalStore
	now   func() time.Time
}

func NewGoalService(store GoalStore) *GoalService {
	return &GoalService{store: store, now: time.Now}
}

func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (core.Goal, error) {
	if strings.TrimSpace(in.Title) == "" || in.TargetAmount.Cents <= 0 {
		return core.Goal{}, core.Validation(MsgGoalFields)
	}

	now := s.now().UTC()
	goal := core.Goal{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Category:      core.GoalSavings,
		Status:        core.GoalActive,
		Icon:          core.DefaultGoalIcon,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Category != "" {
		goal.Category = core.GoalCategory(in.Category)
	}
	if in.Icon != "" {
		goal.Icon = in.Icon
	}
	if in.TargetDate != "" {
		d, err := core.ParseDate(in.TargetDate)
		if err != nil {
			return core.Goal{}, core.Validation("Invalid target date")
		}
		goal.TargetDate = &d
	}

	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}
	goal.ReconcileStatus()

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]core.Goal, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	if goals == nil {
		goals = []core.Goal{}
	}
	return goals, nil
}

// Update applies the present fields of in, then promotes the goal to
// completed when the target is reached.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in UpdateGoalInput) (core.Goal, error) {
	goal, err := s.store.GetGoal(ctx, userID, goalID)
	if errors.Is(err, core.ErrNotFound) {
		return core.Goal{}, core.NotFound(MsgGoalNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("get goal: %w", err)
	}

	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		goal.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		goal.Description = *in.Description
	}
	if in.TargetAmount != nil && in.TargetAmount.Cents > 0 {
		goal.TargetAmount = *in.TargetAmount
	}
	if in.CurrentAmount != nil {
		goal.CurrentAmount = *in.CurrentAmount
	}
	if in.Category != nil && *in.Category != "" {
		goal.Category = core.GoalCategory(*in.Category)
	}
	if in.TargetDate != nil && *in.TargetDate != "" {
		d, err := core.ParseDate(*in.TargetDate)
		if err != nil {
			return core.Goal{}, core.Validation("Invalid target date")
		}
		goal.TargetDate = &d
	}
	if in.Status != nil && *in.Status != "" {
		goal.Status = core.GoalStatus(*in.Status)
	}
	if in.Icon != nil && *in.Icon != "" {
		goal.Icon = *in.Icon
	}

	if err := goal.Validate(); err != nil {
		return core.Goal{}, err
	}
	previous := goal.Status
	goal.ReconcileStatus()
	goal.UpdatedAt = s.now().UTC()

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Goal{}, core.NotFound(MsgGoalNotFound)
		}
		return core.Goal{}, fmt.Errorf("update goal: %w", err)
	}

	if previous != goal.Status {
		slog.InfoContext(ctx, "Goal completed",
			append(log.NewFields().WithUser(userID).ToSlice(), "goal_id", goal.ID)...)
	}
	return goal, nil
}

// Delete reports NotFound when no owned goal matches.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	deleted, err := s.store.DeleteGoal(ctx, userID, goalID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if !deleted {
		return core.NotFound(MsgGoalNotFound)
	}
	return nil
}

// Progress reports completion percentages for active goals only.
func (s *GoalService) Progress(ctx context.Context, userID string) ([]core.GoalProgress, error) {
	goals, err := s.store.ListGoalsByStatus(ctx, userID, core.GoalActive)
	if err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}

	out := make([]core.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, core.GoalProgress{
			GoalID:        g.ID,
			Title:         g.Title,
			Progress:      g.Progress(),
			CurrentAmount: g.CurrentAmount,
			TargetAmount:  g.TargetAmount,
		})
	}
	return out, nil
}
