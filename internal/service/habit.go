package service

import (
	"context"
	"errors"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type CreateHabitRequest struct {
	Title    string `json:"title" validate:"required,max=100"`
	ColorHex string `json:"colorHex" validate:"omitempty,hexcolor"`
}

type UpdateHabitRequest struct {
	Title      string `json:"title" validate:"required,max=100"`
	ColorHex   string `json:"colorHex" validate:"omitempty,hexcolor"`
	IsArchived bool   `json:"isArchived"`
}

func ListHabits(ctx context.Context, habits storage.HabitRepository, user *internal.User, includeArchived bool) ([]internal.Habit, error) {
	list, err := habits.ListHabits(ctx, user.ID, includeArchived)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.Habit{}
	}
	return list, nil
}

func CreateHabit(ctx context.Context, habits storage.HabitRepository, user *internal.User, req *CreateHabitRequest) (*internal.Habit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	color := req.ColorHex
	if color == "" {
		color = internal.DefaultHabitColor
	}
	habit := &internal.Habit{
		UserID:    user.ID,
		Title:     req.Title,
		ColorHex:  color,
		CreatedAt: now(),
	}
	if err := habits.CreateHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func UpdateHabit(ctx context.Context, habits storage.HabitRepository, user *internal.User, id int64, req *UpdateHabitRequest) (*internal.Habit, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	habit, err := ownedHabit(ctx, habits, user, id)
	if err != nil {
		return nil, err
	}
	habit.Title = req.Title
	habit.ColorHex = req.ColorHex
	if habit.ColorHex == "" {
		habit.ColorHex = internal.DefaultHabitColor
	}
	habit.IsArchived = req.IsArchived
	if err := habits.UpdateHabit(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit removes the habit and, through the storage cascade, every
// daily log it owns; later aggregations see no orphaned entries.
func DeleteHabit(ctx context.Context, habits storage.HabitRepository, user *internal.User, id int64) error {
	if _, err := ownedHabit(ctx, habits, user, id); err != nil {
		return err
	}
	return habits.DeleteHabit(ctx, id)
}

func ownedHabit(ctx context.Context, habits storage.HabitRepository, user *internal.User, id int64) (*internal.Habit, error) {
	habit, err := habits.GetHabit(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFoundError("habit not found")
		}
		return nil, err
	}
	if habit.UserID != user.ID {
		return nil, internal.NotFoundError("habit not found")
	}
	return habit, nil
}
