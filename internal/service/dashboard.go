package service

import (
	"context"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type Dashboard struct {
	Month        string                 `json:"month"`
	Habits       []internal.Habit       `json:"habits"`
	Logs         internal.CompletionMap `json:"logs"`
	MonthlyMetas []internal.MonthlyMeta `json:"monthlyMetas"`
}

// Aggregate builds the calendar view for one user and month: the user's
// non-archived habits, the completion mapping for every completed log of
// the calendar month, and the month's goals. Nothing is cached; every
// call re-reads the store. Month defaulting is a caller convenience and
// happens at the HTTP boundary, not here.
func Aggregate(ctx context.Context, store storage.Store, userID string, month internal.YearMonth) (*Dashboard, error) {
	habits, err := store.ListHabits(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	logs, err := store.ListLogsByMonth(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	completion := make(internal.CompletionMap, len(logs))
	for _, l := range logs {
		// Tolerate uncompleted rows even though toggle deletes them.
		if !l.IsCompleted {
			continue
		}
		completion[internal.CompletionKey{HabitID: l.HabitID, Date: l.Date}] = true
	}

	metas, err := store.ListMetasByMonth(ctx, userID, month.String())
	if err != nil {
		return nil, err
	}

	if habits == nil {
		habits = []internal.Habit{}
	}
	if metas == nil {
		metas = []internal.MonthlyMeta{}
	}
	return &Dashboard{
		Month:        month.String(),
		Habits:       habits,
		Logs:         completion,
		MonthlyMetas: metas,
	}, nil
}

// HabitProgress summarizes one habit's month for downstream callers,
// notably the review-guidance assistant.
type HabitProgress struct {
	Title          string  `json:"title"`
	CompletedDays  int     `json:"completedDays"`
	TotalDays      int     `json:"totalDays"`
	CompletionRate float64 `json:"completionRate"`
}

// ProgressFor derives per-habit completion rates from the completion
// mapping: completed days over the month's actual length, as a percent.
func ProgressFor(d *Dashboard, month internal.YearMonth) []HabitProgress {
	days := month.Days()
	progress := make([]HabitProgress, 0, len(d.Habits))
	for _, h := range d.Habits {
		completed := 0
		for day := 1; day <= days; day++ {
			key := internal.CompletionKey{
				HabitID: h.ID,
				Date:    internal.Date{Year: month.Year, Month: month.Month, Day: day},
			}
			if d.Logs[key] {
				completed++
			}
		}
		progress = append(progress, HabitProgress{
			Title:          h.Title,
			CompletedDays:  completed,
			TotalDays:      days,
			CompletionRate: float64(completed) / float64(days) * 100,
		})
	}
	return progress
}
