package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
)

func TestAggregate_EmptyMonth(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")

	d, err := Aggregate(context.Background(), store, user.ID, internal.YearMonth{Year: 2024, Month: time.March})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", d.Month)
	assert.Empty(t, d.Habits)
	assert.Empty(t, d.Logs)
	assert.Empty(t, d.MonthlyMetas)
	assert.NotNil(t, d.Habits)
	assert.NotNil(t, d.MonthlyMetas)
}

func TestAggregate_ToggleSequence(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")
	ctx := context.Background()

	// Toggle the 1st, the 2nd, then the 1st again: only the 2nd survives.
	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-01"} {
		_, err := ToggleLog(ctx, store, store, user, habit.ID, date)
		require.NoError(t, err)
	}

	month := internal.YearMonth{Year: 2024, Month: time.March}
	d, err := Aggregate(ctx, store, user.ID, month)
	require.NoError(t, err)

	require.Len(t, d.Logs, 1)
	key := internal.CompletionKey{HabitID: habit.ID, Date: internal.Date{Year: 2024, Month: time.March, Day: 2}}
	assert.True(t, d.Logs[key])

	progress := ProgressFor(d, month)
	require.Len(t, progress, 1)
	assert.Equal(t, "Reading", progress[0].Title)
	assert.Equal(t, 1, progress[0].CompletedDays)
	assert.Equal(t, 31, progress[0].TotalDays)
	assert.InDelta(t, 100.0/31.0, progress[0].CompletionRate, 0.001)
}

func TestAggregate_ArchivedHabitsHidden(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	active := newTestHabit(t, store, user, "Active")
	ctx := context.Background()

	archived := newTestHabit(t, store, user, "Archived")
	archived.IsArchived = true
	require.NoError(t, store.UpdateHabit(ctx, archived))

	d, err := Aggregate(ctx, store, user.ID, internal.YearMonth{Year: 2024, Month: time.March})
	require.NoError(t, err)
	require.Len(t, d.Habits, 1)
	assert.Equal(t, active.ID, d.Habits[0].ID)
}

func TestAggregate_DeletedHabitCascades(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")
	ctx := context.Background()

	_, err := ToggleLog(ctx, store, store, user, habit.ID, "2024-03-10")
	require.NoError(t, err)
	require.NoError(t, store.DeleteHabit(ctx, habit.ID))

	d, err := Aggregate(ctx, store, user.ID, internal.YearMonth{Year: 2024, Month: time.March})
	require.NoError(t, err)
	assert.Empty(t, d.Habits)
	assert.Empty(t, d.Logs)
}

func TestAggregate_MetasScopedToMonth(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	march := &internal.MonthlyMeta{UserID: user.ID, TargetDate: "2024-03", Description: "Read two books", CreatedAt: time.Now()}
	april := &internal.MonthlyMeta{UserID: user.ID, TargetDate: "2024-04", Description: "Run 50km", CreatedAt: time.Now()}
	require.NoError(t, store.CreateMeta(ctx, march))
	require.NoError(t, store.CreateMeta(ctx, april))

	d, err := Aggregate(ctx, store, user.ID, internal.YearMonth{Year: 2024, Month: time.March})
	require.NoError(t, err)
	require.Len(t, d.MonthlyMetas, 1)
	assert.Equal(t, "Read two books", d.MonthlyMetas[0].Description)
}

func TestYearMonthDays(t *testing.T) {
	cases := []struct {
		month string
		days  int
	}{
		{"2024-02", 29},
		{"2023-02", 28},
		{"2024-03", 31},
		{"2024-04", 30},
	}
	for _, tc := range cases {
		ym, err := internal.ParseYearMonth(tc.month)
		require.NoError(t, err)
		assert.Equal(t, tc.days, ym.Days(), tc.month)
	}
}
