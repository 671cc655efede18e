package service

import (
	"context"
	"errors"
	"time"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

// now is overridden in tests.
var now = time.Now

// LogState is the result of a toggle: either the day is completed and a
// row survives, or the day is absent and Log is nil. There is no third
// state; an uncompleted log is never persisted.
type LogState struct {
	HabitID   int64
	Date      internal.Date
	Completed bool
	Log       *internal.DailyLog
}

// ToggleLog flips the completion state of (habit, date). A missing log
// becomes a completed row; a completed row inverts and, being no longer
// completed, is deleted outright. Exactly one row is created, updated,
// or deleted per call. The operation is intentionally not idempotent.
func ToggleLog(ctx context.Context, habits storage.HabitRepository, logs storage.DailyLogRepository, user *internal.User, habitID int64, dateStr string) (*LogState, error) {
	habit, err := habits.GetHabit(ctx, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFoundError("habit not found")
		}
		return nil, err
	}
	if habit.UserID != user.ID {
		// Hide other users' habits entirely.
		return nil, internal.NotFoundError("habit not found")
	}

	date, err := internal.ParseDate(dateStr)
	if err != nil {
		return nil, internal.InvalidError(err.Error())
	}

	return toggle(ctx, logs, habitID, date)
}

func toggle(ctx context.Context, logs storage.DailyLogRepository, habitID int64, date internal.Date) (*LogState, error) {
	existing, err := logs.GetLog(ctx, habitID, date)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log := &internal.DailyLog{
			HabitID:     habitID,
			Date:        date,
			IsCompleted: true,
			LoggedAt:    now(),
		}
		err := logs.CreateLog(ctx, log)
		if errors.Is(err, storage.ErrConflict) {
			// A concurrent toggle inserted first; retry against the
			// row that won instead of failing the request.
			return toggle(ctx, logs, habitID, date)
		}
		if err != nil {
			return nil, err
		}
		return &LogState{HabitID: habitID, Date: date, Completed: true, Log: log}, nil

	case err != nil:
		return nil, err

	default:
		existing.IsCompleted = !existing.IsCompleted
		if !existing.IsCompleted {
			// An uncompleted log is equivalent to no log; delete the
			// row rather than keeping a false record.
			if err := logs.DeleteLog(ctx, existing.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return nil, err
			}
			return &LogState{HabitID: habitID, Date: date, Completed: false}, nil
		}
		existing.LoggedAt = now()
		if err := logs.UpdateLog(ctx, existing); err != nil {
			return nil, err
		}
		return &LogState{HabitID: habitID, Date: date, Completed: true, Log: existing}, nil
	}
}
