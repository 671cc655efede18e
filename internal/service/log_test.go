package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(filepath.Join(t.TempDir(), "data.json"), internal.NopLogger{})
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func newTestUser(t *testing.T, store *storage.FileStore, id string) *internal.User {
	t.Helper()
	u := &internal.User{ID: id, Email: id + "@example.com", Name: "Test User", CreatedAt: time.Now()}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func newTestHabit(t *testing.T, store *storage.FileStore, user *internal.User, title string) *internal.Habit {
	t.Helper()
	h := &internal.Habit{UserID: user.ID, Title: title, ColorHex: internal.DefaultHabitColor, CreatedAt: time.Now()}
	require.NoError(t, store.CreateHabit(context.Background(), h))
	return h
}

func TestToggleLog_CreatesCompletedRow(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")

	state, err := ToggleLog(context.Background(), store, store, user, habit.ID, "2024-03-01")
	require.NoError(t, err)
	assert.True(t, state.Completed)
	require.NotNil(t, state.Log)
	assert.True(t, state.Log.IsCompleted)

	stored, err := store.GetLog(context.Background(), habit.ID, state.Date)
	require.NoError(t, err)
	assert.Equal(t, state.Log.ID, stored.ID)
}

func TestToggleLog_Parity(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")
	date := "2024-03-15"

	for i := 1; i <= 5; i++ {
		state, err := ToggleLog(context.Background(), store, store, user, habit.ID, date)
		require.NoError(t, err)

		odd := i%2 == 1
		assert.Equal(t, odd, state.Completed, "toggle %d", i)

		d, _ := internal.ParseDate(date)
		_, err = store.GetLog(context.Background(), habit.ID, d)
		if odd {
			assert.NoError(t, err, "row must exist after %d toggles", i)
		} else {
			assert.ErrorIs(t, err, storage.ErrNotFound, "no row may survive after %d toggles", i)
			assert.Nil(t, state.Log)
		}
	}
}

func TestToggleLog_InvalidDate(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")

	_, err := ToggleLog(context.Background(), store, store, user, habit.ID, "03/01/2024")
	require.Error(t, err)
	assert.Equal(t, internal.KindInvalidArgument, internal.KindOf(err))
}

func TestToggleLog_UnknownHabit(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")

	_, err := ToggleLog(context.Background(), store, store, user, 999, "2024-03-01")
	require.Error(t, err)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))
}

func TestToggleLog_ForeignHabitHidden(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "owner")
	other := newTestUser(t, store, "other")
	habit := newTestHabit(t, store, owner, "Reading")

	_, err := ToggleLog(context.Background(), store, store, other, habit.ID, "2024-03-01")
	require.Error(t, err)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))
}

// conflictingLogRepo simulates a concurrent toggle that wins the insert
// race: the first lookup sees nothing, the create conflicts, and the
// second lookup sees the winner's row.
type conflictingLogRepo struct {
	storage.DailyLogRepository
	store    *storage.FileStore
	conflict *internal.DailyLog
	calls    int
}

func (r *conflictingLogRepo) GetLog(ctx context.Context, habitID int64, date internal.Date) (*internal.DailyLog, error) {
	r.calls++
	if r.calls == 1 {
		return nil, storage.ErrNotFound
	}
	return r.store.GetLog(ctx, habitID, date)
}

func (r *conflictingLogRepo) CreateLog(ctx context.Context, l *internal.DailyLog) error {
	return storage.ErrConflict
}

func TestToggleLog_InsertConflictRetriesAgainstWinner(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	habit := newTestHabit(t, store, user, "Reading")

	// The "winner" row the concurrent request inserted.
	winner := &internal.DailyLog{HabitID: habit.ID, Date: internal.Date{Year: 2024, Month: 3, Day: 1}, IsCompleted: true, LoggedAt: time.Now()}
	require.NoError(t, store.CreateLog(context.Background(), winner))

	repo := &conflictingLogRepo{DailyLogRepository: store, store: store}
	state, err := ToggleLog(context.Background(), store, repo, user, habit.ID, "2024-03-01")
	require.NoError(t, err)

	// Toggling against the winner's completed row un-completes it.
	assert.False(t, state.Completed)
	_, err = store.GetLog(context.Background(), habit.ID, winner.Date)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
