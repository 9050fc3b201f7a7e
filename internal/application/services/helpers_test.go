package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/adapters/repository/memory"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

type testEnv struct {
	repos      ports.Repositories
	tasks      *TaskService
	statuses   *ReferenceService
	priorities *ReferenceService
	categories *CategoryService
	users      *UserService
}

// newTestEnv builds every service over a memory store holding statuses s1
// (Not Started), s2 (In Progress), s3 (Completed), priority p1, category c1
// and users u1 and u2.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	repos := memory.New().Repositories()
	log := logger.NewNop()

	for i, name := range []string{entities.StatusNameNotStarted, entities.StatusNameInProgress, entities.StatusNameCompleted} {
		id := []string{"s1", "s2", "s3"}[i]
		require.NoError(t, repos.Statuses.Create(ctx, &entities.Reference{ID: id, Name: name, Order: i + 1}))
	}
	require.NoError(t, repos.Priorities.Create(ctx, &entities.Reference{ID: "p1", Name: "Moderate", Order: 1}))
	require.NoError(t, repos.Categories.Create(ctx, &entities.Category{ID: "c1", Name: "Work"}))
	require.NoError(t, repos.Users.Create(ctx, &entities.User{ID: "u1", Name: "Demo User", Email: "demo@example.com"}))
	require.NoError(t, repos.Users.Create(ctx, &entities.User{ID: "u2", Name: "Sarah Johnson", Email: "sarah@example.com"}))

	return &testEnv{
		repos:      repos,
		tasks:      NewTaskService(repos.Tasks, repos.Statuses, repos.Priorities, log),
		statuses:   NewReferenceService(repos.Statuses, repos.Tasks, log),
		priorities: NewReferenceService(repos.Priorities, repos.Tasks, log),
		categories: NewCategoryService(repos.Categories, repos.Tasks, log),
		users:      NewUserService(repos.Users, repos.Tasks, log),
	}
}

// addTask inserts a task straight into the store
func (e *testEnv) addTask(t *testing.T, id, statusID string, vital bool) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, e.repos.Tasks.Create(context.Background(), &entities.Task{
		ID:         id,
		Title:      "task " + id,
		IsVital:    vital,
		StatusID:   statusID,
		PriorityID: "p1",
		OwnerID:    "u1",
		CreatedAt:  now,
		UpdatedAt:  now,
	}))
}

func ptr[T any](v T) *T { return &v }
