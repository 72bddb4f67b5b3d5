package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahmoudsallem/Backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestMemoryRepo_CreateAssignsSequentialIDs(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	first, err := r.Create(ctx, domain.Task{Title: "one"})
	require.NoError(t, err)
	second, err := r.Create(ctx, domain.Task{Title: "two"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestMemoryRepo_IDsNotReusedAfterDelete(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	first, err := r.Create(ctx, domain.Task{Title: "one"})
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, first.ID))

	second, err := r.Create(ctx, domain.Task{Title: "two"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryRepo_GetByID(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Task{Title: "one", Description: strPtr("desc")})
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NotNil(t, got.Description)
	assert.Equal(t, "desc", *got.Description)

	_, err = r.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMemoryRepo_ReturnedDescriptionDoesNotAliasStore(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Task{Title: "one", Description: strPtr("original")})
	require.NoError(t, err)
	*created.Description = "mutated via create result"

	got, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *got.Description)
	*got.Description = "mutated via get result"

	again, err := r.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Description)
}

func TestMemoryRepo_ListAscending(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := r.Create(ctx, domain.Task{Title: title})
		require.NoError(t, err)
	}
	require.NoError(t, r.Delete(ctx, 2))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)
}

func TestMemoryRepo_UpdatePatchSemantics(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Task{Title: "one", Description: strPtr("keep me")})
	require.NoError(t, err)

	updated, err := r.Update(ctx, created.ID, TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "one", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	assert.True(t, updated.Completed)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	_, err = r.Update(ctx, 999, TaskPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMemoryRepo_Delete(t *testing.T) {
	r := NewMemoryTaskRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Task{Title: "one"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), ErrTaskNotFound)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
