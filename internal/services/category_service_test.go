package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	svc := NewCategoryService(newStore(), obs, quiet())

	c, err := svc.Create(ctx, "  Reading ", "#112233")
	require.NoError(t, err)
	assert.Equal(t, "Reading", c.Name)
	assert.NotEmpty(t, c.ID)

	c, err = svc.Update(ctx, c.ID, "", "#445566")
	require.NoError(t, err)
	assert.Equal(t, "Reading", c.Name)
	assert.Equal(t, "#445566", c.Color)

	require.NoError(t, svc.Delete(ctx, c.ID))
	cats, err := svc.List(ctx)
	require.NoError(t, err)
	for _, cat := range cats {
		assert.NotEqual(t, c.ID, cat.ID)
	}
	assert.Equal(t, 3, obs.categories)
}

func TestCategoryServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewCategoryService(newStore(), nil, quiet())

	_, err := svc.Create(ctx, "", "#112233")
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, "Reading", "blue")
	assert.True(t, IsValidation(err))

	_, err = svc.Update(ctx, "missing", "x", "")
	assert.True(t, IsNotFound(err))
}

func TestDeletingCategoryKeepsActivities(t *testing.T) {
	ctx := context.Background()
	st := newStore()
	cats := NewCategoryService(st, nil, quiet())
	acts := NewActivityService(st, st, nil, quiet())

	_, err := acts.Create(ctx, input("2024-03-04", "09:00", "10:00", "work"))
	require.NoError(t, err)
	require.NoError(t, cats.Delete(ctx, "work"))

	got, err := acts.ListByDate(ctx, day("2024-03-04"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
