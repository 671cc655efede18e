package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
)

func TestCreateReview_OnePerMonth(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	first, err := CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-03", Content: "Good month."})
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-03", Content: "Second attempt."})
	require.Error(t, err)
	assert.Equal(t, internal.KindConflict, internal.KindOf(err))

	// A different month is fine, as is a different user for the same month.
	_, err = CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-04", Content: "New month."})
	assert.NoError(t, err)

	other := newTestUser(t, store, "u2")
	_, err = CreateReview(ctx, store, other, &CreateReviewRequest{TargetDate: "2024-03", Content: "Their month."})
	assert.NoError(t, err)
}

func TestCreateReview_InvalidMonth(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")

	_, err := CreateReview(context.Background(), store, user, &CreateReviewRequest{TargetDate: "March 2024", Content: "Good month."})
	require.Error(t, err)
	assert.Equal(t, internal.KindInvalidArgument, internal.KindOf(err))
}

func TestUpdateReview_NeverDuplicates(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	created, err := CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-03", Content: "Draft."})
	require.NoError(t, err)

	updated, err := UpdateReview(ctx, store, user, "2024-03", &UpdateReviewRequest{Content: "Final."})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Final.", updated.Content)

	list, err := ListReviews(ctx, store, user)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Final.", list[0].Content)
}

func TestUpdateReview_MissingMonth(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")

	_, err := UpdateReview(context.Background(), store, user, "2024-03", &UpdateReviewRequest{Content: "Final."})
	require.Error(t, err)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))
}

func TestDeleteReview(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	_, err := CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-03", Content: "Draft."})
	require.NoError(t, err)

	require.NoError(t, DeleteReview(ctx, store, user, "2024-03"))
	_, err = GetReview(ctx, store, user, "2024-03")
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))

	// Month is free again after deletion.
	_, err = CreateReview(ctx, store, user, &CreateReviewRequest{TargetDate: "2024-03", Content: "Redone."})
	assert.NoError(t, err)
}
