package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

func validCreate() ports.CreateTaskInput {
	return ports.CreateTaskInput{Title: "Walk dog", StatusID: "s1", PriorityID: "p1", OwnerID: "u1"}
}

func decodeUpdate(t *testing.T, body string) ports.UpdateTaskInput {
	t.Helper()
	var in ports.UpdateTaskInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestCreateTask(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	task, err := env.tasks.CreateTask(ctx, validCreate())
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Walk dog", task.Title)
	assert.False(t, task.IsVital)
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	require.NotNil(t, task.Status)
	assert.Equal(t, entities.StatusNameNotStarted, task.Status.Name)
	require.NotNil(t, task.Owner)
	assert.Equal(t, "u1", task.Owner.ID)
	assert.Nil(t, task.Category)
	assert.Nil(t, task.Assignee)
}

func TestCreateTaskOptionalFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := validCreate()
	in.Description = ptr("Take the dog to the park")
	in.IsVital = ptr(true)
	in.DueDate = ptr("2023-06-25")
	in.CategoryID = ptr("c1")
	in.AssigneeID = ptr("u2")

	task, err := env.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	assert.True(t, task.IsVital)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, time.Date(2023, 6, 25, 0, 0, 0, 0, time.UTC), *task.DueDate)
	assert.Equal(t, "Work", task.Category.Name)
	assert.Equal(t, "Sarah Johnson", task.Assignee.Name)
}

func TestCreateTaskMissingFields(t *testing.T) {
	ctx := context.Background()
	fields := []string{"title", "statusId", "priorityId", "ownerId"}

	// Every non-empty subset of required fields removed
	for mask := 1; mask < 1<<len(fields); mask++ {
		in := validCreate()
		var missing []string
		for i, f := range fields {
			if mask&(1<<i) == 0 {
				continue
			}
			missing = append(missing, f)
			switch f {
			case "title":
				in.Title = ""
			case "statusId":
				in.StatusID = ""
			case "priorityId":
				in.PriorityID = ""
			case "ownerId":
				in.OwnerID = ""
			}
		}

		t.Run(strings.Join(missing, "+"), func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.tasks.CreateTask(ctx, in)

			var ve *entities.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, missing, ve.Fields)
			noun := "fields"
			if len(missing) == 1 {
				noun = "field"
			}
			assert.Equal(t, "Missing required "+noun+": "+strings.Join(missing, ", "), ve.Error())

			n, err := env.repos.Tasks.Count(ctx, ports.TaskFilter{})
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestCreateTaskInvalidReferences(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(in *ports.CreateTaskInput)
		message string
	}{
		{
			name:    "unknown status",
			mutate:  func(in *ports.CreateTaskInput) { in.StatusID = "bogus" },
			message: "Invalid statusId: bogus",
		},
		{
			name:    "unknown priority",
			mutate:  func(in *ports.CreateTaskInput) { in.PriorityID = "bogus" },
			message: "Invalid priorityId: bogus",
		},
		{
			name: "status checked before priority",
			mutate: func(in *ports.CreateTaskInput) {
				in.StatusID = "nope"
				in.PriorityID = "bogus"
			},
			message: "Invalid statusId: nope",
		},
		{
			name: "presence checked before references",
			mutate: func(in *ports.CreateTaskInput) {
				in.Title = ""
				in.StatusID = "bogus"
			},
			message: "Missing required field: title",
		},
		{
			name:    "unparseable due date",
			mutate:  func(in *ports.CreateTaskInput) { in.DueDate = ptr("next week") },
			message: "Invalid dueDate: next week",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			in := validCreate()
			tt.mutate(&in)

			_, err := env.tasks.CreateTask(ctx, in)
			require.Error(t, err)
			assert.True(t, entities.IsClientError(err))
			assert.Equal(t, tt.message, err.Error())

			n, err := env.repos.Tasks.Count(ctx, ports.TaskFilter{})
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestCreateTaskUnknownOwnerIsStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	in := validCreate()
	in.OwnerID = "ghost"

	_, err := env.tasks.CreateTask(context.Background(), in)
	require.Error(t, err)
	assert.False(t, entities.IsClientError(err))
}

func TestUpdateTaskPartialMerge(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := validCreate()
	in.Description = ptr("original")
	in.Image = ptr("https://example.com/a.png")
	in.DueDate = ptr("2023-06-25T10:00:00Z")
	in.CategoryID = ptr("c1")
	in.AssigneeID = ptr("u2")
	created, err := env.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	t.Run("absent fields are untouched", func(t *testing.T) {
		got, err := env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t, `{"title": "Walk the dog"}`))
		require.NoError(t, err)

		assert.Equal(t, "Walk the dog", got.Title)
		assert.Equal(t, created.Description, got.Description)
		assert.Equal(t, created.Image, got.Image)
		assert.Equal(t, created.DueDate, got.DueDate)
		assert.Equal(t, created.CategoryID, got.CategoryID)
		assert.Equal(t, created.AssigneeID, got.AssigneeID)
		assert.Equal(t, created.StatusID, got.StatusID)
		assert.Equal(t, created.CreatedAt, got.CreatedAt)
	})

	t.Run("null clears nullable fields", func(t *testing.T) {
		got, err := env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t,
			`{"dueDate": null, "description": null, "categoryId": null, "assigneeId": null}`))
		require.NoError(t, err)

		assert.Nil(t, got.DueDate)
		assert.Nil(t, got.Description)
		assert.Nil(t, got.CategoryID)
		assert.Nil(t, got.Category)
		assert.Nil(t, got.AssigneeID)
		assert.Equal(t, created.Image, got.Image)
	})

	t.Run("values overwrite", func(t *testing.T) {
		got, err := env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t,
			`{"statusId": "s3", "isVital": true, "completedAt": "2023-06-18T00:00:00.000Z", "image": "https://example.com/b.png"}`))
		require.NoError(t, err)

		assert.Equal(t, "s3", got.StatusID)
		assert.Equal(t, entities.StatusNameCompleted, got.Status.Name)
		assert.True(t, got.IsVital)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, time.Date(2023, 6, 18, 0, 0, 0, 0, time.UTC), *got.CompletedAt)
		require.NotNil(t, got.Image)
		assert.Equal(t, "https://example.com/b.png", *got.Image)
	})

	t.Run("empty payload changes nothing but updatedAt", func(t *testing.T) {
		before, err := env.tasks.GetTask(ctx, created.ID)
		require.NoError(t, err)

		got, err := env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t, `{}`))
		require.NoError(t, err)

		assert.Equal(t, before.Title, got.Title)
		assert.Equal(t, before.StatusID, got.StatusID)
		assert.Equal(t, before.IsVital, got.IsVital)
		assert.Equal(t, before.CompletedAt, got.CompletedAt)
		assert.False(t, got.UpdatedAt.Before(before.UpdatedAt))
	})
}

func TestUpdateTaskDueDateScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	in := validCreate()
	in.DueDate = ptr("2023-06-25")
	created, err := env.tasks.CreateTask(ctx, in)
	require.NoError(t, err)

	got, err := env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t, `{"title": "Renamed"}`))
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, *created.DueDate, *got.DueDate)

	got, err = env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t, `{"dueDate": null}`))
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)

	stored, err := env.repos.Tasks.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DueDate)
}

func TestUpdateTaskRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"unknown status", `{"statusId": "bogus"}`, "Invalid statusId: bogus"},
		{"unknown priority", `{"priorityId": "bogus"}`, "Invalid priorityId: bogus"},
		{"null title", `{"title": null}`, "Field cannot be null: title"},
		{"empty title", `{"title": ""}`, "Field cannot be empty: title"},
		{"null isVital", `{"isVital": null}`, "Field cannot be null: isVital"},
		{"null status", `{"statusId": null}`, "Field cannot be null: statusId"},
		{"bad date", `{"dueDate": "soon"}`, "Invalid dueDate: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			created, err := env.tasks.CreateTask(ctx, validCreate())
			require.NoError(t, err)

			body := tt.body[:len(tt.body)-1] + `, "description": "should not be written"}`
			_, err = env.tasks.UpdateTask(ctx, created.ID, decodeUpdate(t, body))
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())

			stored, err := env.tasks.GetTask(ctx, created.ID)
			require.NoError(t, err)
			assert.Nil(t, stored.Description)
			assert.Equal(t, created.UpdatedAt, stored.UpdatedAt)
		})
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.tasks.UpdateTask(context.Background(), "missing", decodeUpdate(t, `{"title": "x"}`))
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
	assert.Equal(t, "Task not found", err.Error())

	n, err := env.repos.Tasks.Count(context.Background(), ports.TaskFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addTask(t, "t1", "s1", false)

	require.NoError(t, env.tasks.DeleteTask(ctx, "t1"))

	_, err := env.tasks.GetTask(ctx, "t1")
	assert.True(t, entities.IsNotFound(err))

	err = env.tasks.DeleteTask(ctx, "t1")
	assert.True(t, entities.IsNotFound(err))
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		env := newTestEnv(t)

		stats, err := env.tasks.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, entities.TaskStats{}, *stats)
	})

	t.Run("ten tasks", func(t *testing.T) {
		env := newTestEnv(t)
		statuses := []string{"s3", "s3", "s3", "s3", "s2", "s2", "s2", "s1", "s1", "s1"}
		for i, s := range statuses {
			env.addTask(t, "t"+string(rune('a'+i)), s, i%5 == 0)
		}

		stats, err := env.tasks.GetStats(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 10, stats.Total)
		assert.EqualValues(t, 4, stats.Completed)
		assert.EqualValues(t, 3, stats.InProgress)
		assert.EqualValues(t, 3, stats.NotStarted)
		assert.EqualValues(t, 2, stats.Vital)
		assert.EqualValues(t, 40, stats.CompletedPercentage)
		assert.EqualValues(t, 30, stats.InProgressPercentage)
		assert.EqualValues(t, 30, stats.NotStartedPercentage)
	})

	t.Run("other statuses are not summed", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, env.repos.Statuses.Create(ctx, &entities.Reference{ID: "s4", Name: "Blocked"}))
		env.addTask(t, "t1", "s4", false)
		env.addTask(t, "t2", "s3", false)
		env.addTask(t, "t3", "s4", false)

		stats, err := env.tasks.GetStats(ctx)
		require.NoError(t, err)

		assert.EqualValues(t, 3, stats.Total)
		assert.LessOrEqual(t, stats.Completed+stats.InProgress+stats.NotStarted, stats.Total)
		assert.EqualValues(t, 33, stats.CompletedPercentage)
		assert.EqualValues(t, 0, stats.InProgressPercentage)
	})
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addTask(t, "t1", "s1", true)
	env.addTask(t, "t2", "s3", false)

	all, err := env.tasks.ListTasks(ctx, ports.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	completed := entities.StatusNameCompleted
	yes := true
	none, err := env.tasks.ListTasks(ctx, ports.TaskFilter{StatusName: &completed, IsVital: &yes})
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}
