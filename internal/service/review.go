package service

import (
	"context"
	"errors"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/storage"
)

type CreateReviewRequest struct {
	TargetDate string `json:"targetDate" validate:"required"`
	Content    string `json:"content" validate:"required,max=2000"`
}

type UpdateReviewRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func ListReviews(ctx context.Context, reviews storage.MonthlyReviewRepository, user *internal.User) ([]internal.MonthlyReview, error) {
	list, err := reviews.ListReviews(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []internal.MonthlyReview{}
	}
	return list, nil
}

func GetReview(ctx context.Context, reviews storage.MonthlyReviewRepository, user *internal.User, targetDate string) (*internal.MonthlyReview, error) {
	if _, err := internal.ParseYearMonth(targetDate); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	review, err := reviews.GetReviewByMonth(ctx, user.ID, targetDate)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NotFoundError("no review for this month")
		}
		return nil, err
	}
	return review, nil
}

// CreateReview enforces at most one review per (user, month): a second
// create conflicts, and the caller should switch to update.
func CreateReview(ctx context.Context, reviews storage.MonthlyReviewRepository, user *internal.User, req *CreateReviewRequest) (*internal.MonthlyReview, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	if _, err := internal.ParseYearMonth(req.TargetDate); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	ts := now()
	review := &internal.MonthlyReview{
		UserID:     user.ID,
		TargetDate: req.TargetDate,
		Content:    req.Content,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	}
	if err := reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, internal.ConflictError("a review for this month already exists; use update instead")
		}
		return nil, err
	}
	return review, nil
}

func UpdateReview(ctx context.Context, reviews storage.MonthlyReviewRepository, user *internal.User, targetDate string, req *UpdateReviewRequest) (*internal.MonthlyReview, error) {
	if err := validate.Struct(req); err != nil {
		return nil, internal.InvalidError(err.Error())
	}
	review, err := GetReview(ctx, reviews, user, targetDate)
	if err != nil {
		return nil, err
	}
	review.Content = req.Content
	review.UpdatedAt = now()
	if err := reviews.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func DeleteReview(ctx context.Context, reviews storage.MonthlyReviewRepository, user *internal.User, targetDate string) error {
	review, err := GetReview(ctx, reviews, user, targetDate)
	if err != nil {
		return err
	}
	return reviews.DeleteReview(ctx, review.ID)
}
