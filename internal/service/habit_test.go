package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
)

func TestCreateHabit_DefaultColor(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")

	habit, err := CreateHabit(context.Background(), store, user, &CreateHabitRequest{Title: "Reading"})
	require.NoError(t, err)
	assert.Equal(t, internal.DefaultHabitColor, habit.ColorHex)
	assert.NotZero(t, habit.ID)

	custom, err := CreateHabit(context.Background(), store, user, &CreateHabitRequest{Title: "Running", ColorHex: "#FF0000"})
	require.NoError(t, err)
	assert.Equal(t, "#FF0000", custom.ColorHex)
}

func TestCreateHabit_Validation(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	_, err := CreateHabit(ctx, store, user, &CreateHabitRequest{Title: ""})
	assert.Equal(t, internal.KindInvalidArgument, internal.KindOf(err))

	_, err = CreateHabit(ctx, store, user, &CreateHabitRequest{Title: "Reading", ColorHex: "blue"})
	assert.Equal(t, internal.KindInvalidArgument, internal.KindOf(err))
}

func TestUpdateHabit_ArchiveHidesFromList(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	habit, err := CreateHabit(ctx, store, user, &CreateHabitRequest{Title: "Reading"})
	require.NoError(t, err)

	_, err = UpdateHabit(ctx, store, user, habit.ID, &UpdateHabitRequest{Title: "Reading", IsArchived: true})
	require.NoError(t, err)

	active, err := ListHabits(ctx, store, user, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := ListHabits(ctx, store, user, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHabitOwnership(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "owner")
	intruder := newTestUser(t, store, "intruder")
	ctx := context.Background()

	habit, err := CreateHabit(ctx, store, owner, &CreateHabitRequest{Title: "Reading"})
	require.NoError(t, err)

	_, err = UpdateHabit(ctx, store, intruder, habit.ID, &UpdateHabitRequest{Title: "Hijacked"})
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))

	err = DeleteHabit(ctx, store, intruder, habit.ID)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))

	// Owner still sees the untouched habit.
	list, err := ListHabits(ctx, store, owner, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Reading", list[0].Title)
}
