package services

import (
	"context"
	"encoding/json"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestGoalCreateDefaults(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.New())

	g, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Emergency fund", TargetAmount: core.Money{Cents: 100000}})
	require.NoError(t, err)
	assert.Equal(t, core.GoalSavings, g.Category)
	assert.Equal(t, core.GoalActive, g.Status)
	assert.Equal(t, core.DefaultGoalIcon, g.Icon)
	assert.Equal(t, "", g.Description)
	assert.Nil(t, g.TargetDate)
	assert.Zero(t, g.CurrentAmount.Cents)

	_, err = svc.Create(ctx, "u1", CreateGoalInput{Title: "No target"})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, MsgGoalFields, core.PublicMessage(err, ""))

	_, err = svc.Create(ctx, "u1", CreateGoalInput{Title: "Bad", TargetAmount: core.Money{Cents: 1}, Category: "travel"})
	assert.ErrorIs(t, err, core.ErrValidation)

	var in CreateGoalInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Bike","targetAmount":300,"status":"paused"}`), &in))
	bike, err := svc.Create(ctx, "u1", in)
	require.NoError(t, err)
	assert.Equal(t, core.GoalActive, bike.Status, "status is not accepted on create")

	done, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Done", TargetAmount: core.Money{Cents: 10}, CurrentAmount: core.Money{Cents: 10}})
	require.NoError(t, err)
	assert.Equal(t, core.GoalCompleted, done.Status)
}

func TestGoalUpdateCompletesAndNeverReverts(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.New())
	g, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Car", TargetAmount: core.Money{Cents: 1000}})
	require.NoError(t, err)

	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{CurrentAmount: ptr(core.Money{Cents: 1000})})
	require.NoError(t, err)
	assert.Equal(t, core.GoalCompleted, g.Status)

	// Idempotent
	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{CurrentAmount: ptr(core.Money{Cents: 1000})})
	require.NoError(t, err)
	assert.Equal(t, core.GoalCompleted, g.Status)

	// No auto-demotion
	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{CurrentAmount: ptr(core.Money{Cents: 10})})
	require.NoError(t, err)
	assert.Equal(t, core.GoalCompleted, g.Status)

	// Explicit status change is honoured
	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{Status: ptr("active")})
	require.NoError(t, err)
	assert.Equal(t, core.GoalActive, g.Status)
}

func TestGoalUpdatePartialFields(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.New())
	g, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Trip", Description: "Japan", TargetAmount: core.Money{Cents: 5000}, Icon: "✈️"})
	require.NoError(t, err)

	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{
		Title:        ptr(""),
		Description:  ptr(""),
		TargetAmount: ptr(core.Money{}),
		Icon:         ptr(""),
		TargetDate:   ptr("2026-01-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Trip", g.Title, "empty title is ignored")
	assert.Equal(t, "", g.Description, "description accepts empty")
	assert.Equal(t, int64(5000), g.TargetAmount.Cents, "zero target is ignored")
	assert.Equal(t, "✈️", g.Icon)
	require.NotNil(t, g.TargetDate)
	assert.Equal(t, 2026, g.TargetDate.Year())

	_, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{Status: ptr("archived")})
	assert.ErrorIs(t, err, core.ErrValidation)

	g, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{CurrentAmount: ptr(core.Money{})})
	require.NoError(t, err)
	assert.Zero(t, g.CurrentAmount.Cents, "current amount may be reset to zero")

	var negative UpdateGoalInput
	assert.Error(t, json.Unmarshal([]byte(`{"currentAmount":-5}`), &negative))
	_, err = svc.Update(ctx, "u1", g.ID, UpdateGoalInput{CurrentAmount: ptr(core.Money{Cents: -1})})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Update(ctx, "u2", g.ID, UpdateGoalInput{Title: ptr("Hijack")})
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, MsgGoalNotFound, core.PublicMessage(err, ""))
}

func TestGoalDeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.New())
	g, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Car", TargetAmount: core.Money{Cents: 1000}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", g.ID))
	err = svc.Delete(ctx, "u1", g.ID)
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, MsgGoalNotFound, core.PublicMessage(err, ""))
}

func TestGoalProgressOnlyActive(t *testing.T) {
	ctx := context.Background()
	svc := NewGoalService(memory.New())

	active, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Active", TargetAmount: core.Money{Cents: 200}, CurrentAmount: core.Money{Cents: 50}})
	require.NoError(t, err)
	paused, err := svc.Create(ctx, "u1", CreateGoalInput{Title: "Paused", TargetAmount: core.Money{Cents: 200}})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "u1", paused.ID, UpdateGoalInput{Status: ptr("paused")})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "u1", CreateGoalInput{Title: "Done", TargetAmount: core.Money{Cents: 200}, CurrentAmount: core.Money{Cents: 300}})
	require.NoError(t, err)

	progress, err := svc.Progress(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, active.ID, progress[0].GoalID)
	assert.InDelta(t, 25.0, progress[0].Progress, 1e-9)

	none, err := svc.Progress(ctx, "u2")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
