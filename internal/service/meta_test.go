package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danilofortes/stackhabit/internal"
)

func TestCreateMeta(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	meta, err := CreateMeta(ctx, store, user, &CreateMetaRequest{TargetDate: "2024-03", Description: "Read two books"})
	require.NoError(t, err)
	assert.False(t, meta.IsDone)

	_, err = CreateMeta(ctx, store, user, &CreateMetaRequest{TargetDate: "2024-3", Description: "Bad month format"})
	assert.Equal(t, internal.KindInvalidArgument, internal.KindOf(err))
}

func TestToggleMetaDone_KeepsRow(t *testing.T) {
	store := newTestStore(t)
	user := newTestUser(t, store, "u1")
	ctx := context.Background()

	meta, err := CreateMeta(ctx, store, user, &CreateMetaRequest{TargetDate: "2024-03", Description: "Read two books"})
	require.NoError(t, err)

	done, err := ToggleMetaDone(ctx, store, user, meta.ID)
	require.NoError(t, err)
	assert.True(t, done.IsDone)

	undone, err := ToggleMetaDone(ctx, store, user, meta.ID)
	require.NoError(t, err)
	assert.False(t, undone.IsDone)

	// Un-toggling keeps the row, unlike daily logs.
	list, err := ListMetas(ctx, store, user, "2024-03")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMetaOwnership(t *testing.T) {
	store := newTestStore(t)
	owner := newTestUser(t, store, "owner")
	intruder := newTestUser(t, store, "intruder")
	ctx := context.Background()

	meta, err := CreateMeta(ctx, store, owner, &CreateMetaRequest{TargetDate: "2024-03", Description: "Read two books"})
	require.NoError(t, err)

	_, err = ToggleMetaDone(ctx, store, intruder, meta.ID)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))

	err = DeleteMeta(ctx, store, intruder, meta.ID)
	assert.Equal(t, internal.KindNotFound, internal.KindOf(err))
}
