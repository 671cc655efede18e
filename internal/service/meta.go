package service

import (
	"context"
	"errors"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type CreateMetaRequest struct {
	TargetDate  string `json:"targetDate" validate:"required"`
	Description string `json:"description" validate:"required,max=255"`
}

func ListMetas(ctx context.Context, metas storage.MonthlyMetaRepository, user *internal.User, targetDate string) ([]internal.MonthlyMeta, error) {
	if _, err := internal.ParseYearMonth(targetDate); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	list, err := metas.ListMetasByMonth(ctx, user.ID, targetDate)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.MonthlyMeta{}
	}
	return list, nil
}

func CreateMeta(ctx context.Context, metas storage.MonthlyMetaRepository, user *internal.User, req *CreateMetaRequest) (*internal.MonthlyMeta, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	if _, err := internal.ParseYearMonth(req.TargetDate); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	meta := &internal.MonthlyMeta{
		UserID:      user.ID,
		TargetDate:  req.TargetDate,
		Description: req.Description,
		CreatedAt:   now(),
	}
	if err := metas.CreateMeta(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// ToggleMetaDone flips the done flag. Unlike daily logs, metas are real
// rows either way; nothing is deleted on un-toggle.
func ToggleMetaDone(ctx context.Context, metas storage.MonthlyMetaRepository, user *internal.User, id int64) (*internal.MonthlyMeta, error) {
	meta, err := ownedMeta(ctx, metas, user, id)
	if err != nil {
		return nil, err
	}
	meta.IsDone = !meta.IsDone
	if err := metas.UpdateMeta(ctx, meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func DeleteMeta(ctx context.Context, metas storage.MonthlyMetaRepository, user *internal.User, id int64) error {
	if _, err := ownedMeta(ctx, metas, user, id); err != nil {
		return err
	}
	return metas.DeleteMeta(ctx, id)
}

func ownedMeta(ctx context.Context, metas storage.MonthlyMetaRepository, user *internal.User, id int64) (*internal.MonthlyMeta, error) {
	meta, err := metas.GetMeta(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFoundError("meta not found")
		}
		return nil, err
	}
	if meta.UserID != user.ID {
		return nil, internal.NotFoundError("meta not found")
	}
	return meta, nil
}
