package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.categories.CreateCategory(ctx, ports.CategoryInput{Icon: ptr("heart")})
	assert.EqualError(t, err, "Missing required field: name")

	created, err := env.categories.CreateCategory(ctx, ports.CategoryInput{Name: "Health", Icon: ptr("heart"), Color: ptr("#22c55e")})
	require.NoError(t, err)

	replaced, err := env.categories.ReplaceCategory(ctx, created.ID, ports.CategoryInput{Name: "Fitness"})
	require.NoError(t, err)
	assert.Equal(t, "Fitness", replaced.Name)
	assert.Nil(t, replaced.Icon)
	assert.Nil(t, replaced.Color)

	list, err := env.categories.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Fitness", list[0].Name)
	assert.EqualValues(t, 0, list[0].Count.Tasks)

	_, err = env.categories.ReplaceCategory(ctx, "nope", ports.CategoryInput{Name: "x"})
	assert.EqualError(t, err, "Category not found")
}

func TestDeleteCategoryKeepsTasks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := validCreate()
	in.CategoryID = ptr("c1")
	task, err := env.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	category, err := env.categories.GetCategory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, category.Tasks, 1)
	assert.Equal(t, task.ID, category.Tasks[0].ID)

	require.NoError(t, env.categories.DeleteCategory(ctx, "c1"))

	got, err := env.tasks.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	err = env.categories.DeleteCategory(ctx, "c1")
	assert.True(t, entities.IsNotFound(err))
}
