package storage

import (
	"context"
	"errors"

	"github.com/danilofortes/stackhabit/internal"
)

// Sentinel errors shared by every backend. Services translate these into
// the request-level error taxonomy.
var (
	ErrNotFound = errors.New("storage: not found")
	ErrConflict = errors.New("storage: uniqueness conflict")
)

type UserRepository interface {
	CreateUser(ctx context.Context, u *internal.User) error
	GetUserByEmail(ctx context.Context, email string) (*internal.User, error)
	GetUserByID(ctx context.Context, id string) (*internal.User, error)
}

type HabitRepository interface {
	ListHabits(ctx context.Context, userID string, includeArchived bool) ([]internal.Habit, error)
	GetHabit(ctx context.Context, id int64) (*internal.Habit, error)
	CreateHabit(ctx context.Context, h *internal.Habit) error
	UpdateHabit(ctx context.Context, h *internal.Habit) error
	// DeleteHabit cascades the habit's daily logs.
	DeleteHabit(ctx context.Context, id int64) error
}

type DailyLogRepository interface {
	GetLog(ctx context.Context, habitID int64, date internal.Date) (*internal.DailyLog, error)
	// CreateLog returns ErrConflict when a row already exists for the
	// (habit, date) pair; the uniqueness constraint is the only
	// concurrency guard.
	CreateLog(ctx context.Context, l *internal.DailyLog) error
	UpdateLog(ctx context.Context, l *internal.DailyLog) error
	DeleteLog(ctx context.Context, id int64) error
	ListLogsByMonth(ctx context.Context, userID string, month internal.YearMonth) ([]internal.DailyLog, error)
}

type MonthlyMetaRepository interface {
	ListMetasByMonth(ctx context.Context, userID string, targetDate string) ([]internal.MonthlyMeta, error)
	GetMeta(ctx context.Context, id int64) (*internal.MonthlyMeta, error)
	CreateMeta(ctx context.Context, m *internal.MonthlyMeta) error
	UpdateMeta(ctx context.Context, m *internal.MonthlyMeta) error
	DeleteMeta(ctx context.Context, id int64) error
}

type MonthlyReviewRepository interface {
	GetReviewByMonth(ctx context.Context, userID string, targetDate string) (*internal.MonthlyReview, error)
	ListReviews(ctx context.Context, userID string) ([]internal.MonthlyReview, error)
	// CreateReview returns ErrConflict when the (user, month) pair
	// already has a review.
	CreateReview(ctx context.Context, r *internal.MonthlyReview) error
	UpdateReview(ctx context.Context, r *internal.MonthlyReview) error
	DeleteReview(ctx context.Context, id int64) error
}

// Store bundles every repository a backend provides.
type Store interface {
	UserRepository
	HabitRepository
	DailyLogRepository
	MonthlyMetaRepository
	MonthlyReviewRepository
}
