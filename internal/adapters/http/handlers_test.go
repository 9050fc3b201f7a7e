package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskboard/core/internal/adapters/repository/memory"
	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

type testAPI struct {
	echo  *echo.Echo
	repos ports.Repositories
}

// newTestAPI mounts every handler over a memory store holding statuses s1
// (Not Started), s2 (In Progress), s3 (Completed), priority p1, category c1
// and user u1.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	repos := memory.New().Repositories()
	log := logger.NewNop()

	for i, name := range []string{entities.StatusNameNotStarted, entities.StatusNameInProgress, entities.StatusNameCompleted} {
		id := fmt.Sprintf("s%d", i+1)
		require.NoError(t, repos.Statuses.Create(ctx, &entities.Reference{ID: id, Name: name, Order: i + 1}))
	}
	require.NoError(t, repos.Priorities.Create(ctx, &entities.Reference{ID: "p1", Name: "Moderate", Order: 1}))
	require.NoError(t, repos.Categories.Create(ctx, &entities.Category{ID: "c1", Name: "Work"}))
	require.NoError(t, repos.Users.Create(ctx, &entities.User{ID: "u1", Name: "Demo User", Email: "demo@example.com"}))

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)

	api := e.Group("/api")
	NewTaskHandler(services.NewTaskService(repos.Tasks, repos.Statuses, repos.Priorities, log), log).Register(api.Group("/tasks"))
	NewUserHandler(services.NewUserService(repos.Users, repos.Tasks, log), log).Register(api.Group("/users"))
	NewCategoryHandler(services.NewCategoryService(repos.Categories, repos.Tasks, log), log).Register(api.Group("/categories"))
	NewReferenceHandler(services.NewReferenceService(repos.Statuses, repos.Tasks, log), log).Register(api.Group("/config/statuses"))
	NewReferenceHandler(services.NewReferenceService(repos.Priorities, repos.Tasks, log), log).Register(api.Group("/config/priorities"))

	return &testAPI{echo: e, repos: repos}
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) addTask(t *testing.T, id, statusID string, vital bool, createdAt time.Time) {
	t.Helper()
	require.NoError(t, a.repos.Tasks.Create(context.Background(), &entities.Task{
		ID:         id,
		Title:      "task " + id,
		IsVital:    vital,
		StatusID:   statusID,
		PriorityID: "p1",
		OwnerID:    "u1",
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error
}

func TestCreateTaskHandler(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodPost, "/api/tasks", `{"title":"Walk dog","statusId":"s1","priorityId":"p1","ownerId":"u1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decode[map[string]interface{}](t, rec)
		assert.Equal(t, "Walk dog", body["title"])
		assert.Equal(t, false, body["isVital"])
		assert.Nil(t, body["description"])
		assert.Nil(t, body["dueDate"])
		assert.Equal(t, body["createdAt"], body["updatedAt"])
		status, ok := body["status"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, entities.StatusNameNotStarted, status["name"])
	})

	t.Run("reports every missing field", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodPost, "/api/tasks", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing required fields: title, statusId, priorityId, ownerId", errorMessage(t, rec))
	})

	t.Run("rejects unknown status without writing", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodPost, "/api/tasks", `{"title":"Walk dog","statusId":"bogus","priorityId":"p1","ownerId":"u1"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid statusId: bogus", errorMessage(t, rec))

		list := api.do(t, http.MethodGet, "/api/tasks", "")
		assert.Equal(t, http.StatusOK, list.Code)
		assert.JSONEq(t, `[]`, list.Body.String())
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodPost, "/api/tasks", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, msgInvalidBody, errorMessage(t, rec))
	})
}

func TestUpdateTaskHandler(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodPost, "/api/tasks", `{"title":"Report","statusId":"s1","priorityId":"p1","ownerId":"u1","dueDate":"2023-06-25"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[entities.Task](t, rec).ID

	t.Run("null clears the due date only", func(t *testing.T) {
		rec := api.do(t, http.MethodPatch, "/api/tasks/"+id, `{"dueDate":null}`)
		require.Equal(t, http.StatusOK, rec.Code)

		task := decode[entities.Task](t, rec)
		assert.Nil(t, task.DueDate)
		assert.Equal(t, "Report", task.Title)
		assert.Equal(t, "s1", task.StatusID)
	})

	t.Run("PUT behaves like PATCH", func(t *testing.T) {
		rec := api.do(t, http.MethodPut, "/api/tasks/"+id, `{"statusId":"s2"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		task := decode[entities.Task](t, rec)
		assert.Equal(t, "s2", task.StatusID)
		assert.Equal(t, "Report", task.Title)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		rec := api.do(t, http.MethodPatch, "/api/tasks/"+id, `{"priorityId":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid priorityId: nope", errorMessage(t, rec))
	})

	t.Run("absent task", func(t *testing.T) {
		rec := api.do(t, http.MethodPatch, "/api/tasks/missing", `{"title":"x"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", errorMessage(t, rec))
	})
}

func TestGetAndDeleteTaskHandler(t *testing.T) {
	api := newTestAPI(t)
	api.addTask(t, "t1", "s1", false, time.Now().UTC())

	rec := api.do(t, http.MethodGet, "/api/tasks/t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t1", decode[entities.Task](t, rec).ID)

	rec = api.do(t, http.MethodDelete, "/api/tasks/t1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/tasks/t1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", errorMessage(t, rec))

	rec = api.do(t, http.MethodDelete, "/api/tasks/t1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTasksHandlerFilters(t *testing.T) {
	api := newTestAPI(t)
	base := time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC)
	api.addTask(t, "t1", "s1", true, base)
	api.addTask(t, "t2", "s2", false, base.Add(time.Hour))
	api.addTask(t, "t3", "s1", false, base.Add(2*time.Hour))

	ids := func(rec *httptest.ResponseRecorder) []string {
		var out []string
		for _, task := range decode[[]entities.Task](t, rec) {
			out = append(out, task.ID)
		}
		return out
	}

	rec := api.do(t, http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"t3", "t2", "t1"}, ids(rec))

	rec = api.do(t, http.MethodGet, "/api/tasks?status=Not+Started", "")
	assert.Equal(t, []string{"t3", "t1"}, ids(rec))

	rec = api.do(t, http.MethodGet, "/api/tasks?isVital=true", "")
	assert.Equal(t, []string{"t1"}, ids(rec))

	rec = api.do(t, http.MethodGet, "/api/tasks?isVital=no", "")
	assert.Equal(t, []string{"t3", "t2"}, ids(rec))

	rec = api.do(t, http.MethodGet, "/api/tasks?category=Work", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskStatsHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/tasks/stats/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.TaskStats{}, decode[entities.TaskStats](t, rec))

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		status := "s1"
		switch {
		case i < 4:
			status = "s3"
		case i < 7:
			status = "s2"
		}
		api.addTask(t, fmt.Sprintf("t%d", i), status, i == 0, now)
	}

	rec = api.do(t, http.MethodGet, "/api/tasks/stats/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, entities.TaskStats{
		Total:                10,
		Completed:            4,
		InProgress:           3,
		NotStarted:           3,
		Vital:                1,
		CompletedPercentage:  40,
		InProgressPercentage: 30,
		NotStartedPercentage: 30,
	}, decode[entities.TaskStats](t, rec))
}

func TestReferenceHandler(t *testing.T) {
	t.Run("delete guard", func(t *testing.T) {
		api := newTestAPI(t)
		for i := 0; i < 5; i++ {
			api.addTask(t, fmt.Sprintf("t%d", i), "s2", false, time.Now().UTC())
		}

		rec := api.do(t, http.MethodDelete, "/api/config/statuses/s2", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Cannot delete status: 5 tasks are using it", errorMessage(t, rec))

		rec = api.do(t, http.MethodGet, "/api/config/statuses/s2", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unused row is deleted", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodDelete, "/api/config/statuses/s3", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = api.do(t, http.MethodGet, "/api/config/statuses/s3", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Status not found", errorMessage(t, rec))
	})

	t.Run("create and replace", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodPost, "/api/config/priorities", `{"name":"Urgent","color":"#f00","order":4}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		created := decode[entities.Reference](t, rec)
		assert.Equal(t, 4, created.Order)

		rec = api.do(t, http.MethodPut, "/api/config/priorities/"+created.ID, `{"name":"Critical"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		replaced := decode[entities.Reference](t, rec)
		assert.Equal(t, "Critical", replaced.Name)
		assert.Nil(t, replaced.Color)
		assert.Equal(t, 0, replaced.Order)

		rec = api.do(t, http.MethodPost, "/api/config/priorities", `{"color":"#f00"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing required field: name", errorMessage(t, rec))
	})

	t.Run("list in display order", func(t *testing.T) {
		api := newTestAPI(t)
		rec := api.do(t, http.MethodGet, "/api/config/statuses", "")
		require.Equal(t, http.StatusOK, rec.Code)

		refs := decode[[]entities.Reference](t, rec)
		require.Len(t, refs, 3)
		assert.Equal(t, entities.StatusNameNotStarted, refs[0].Name)
		assert.Equal(t, entities.StatusNameCompleted, refs[2].Name)
	})
}

func TestUserHandler(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/users", `{"name":"Mike Chen","email":"mike@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[entities.User](t, rec)

	rec = api.do(t, http.MethodPost, "/api/users", `{"name":"Bad","email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email: not-an-email", errorMessage(t, rec))

	rec = api.do(t, http.MethodGet, "/api/users", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]entities.User](t, rec), 2)

	rec = api.do(t, http.MethodPut, "/api/users/"+user.ID, `{"name":"Mike C.","email":"mike@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mike C.", decode[entities.User](t, rec).Name)

	rec = api.do(t, http.MethodDelete, "/api/users/"+user.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/users/"+user.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", errorMessage(t, rec))
}

func TestCategoryHandler(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.repos.Tasks.Create(context.Background(), &entities.Task{
		ID: "t1", Title: "Report", StatusID: "s1", PriorityID: "p1", OwnerID: "u1",
		CategoryID: func() *string { s := "c1"; return &s }(),
		CreatedAt:  time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}))

	rec := api.do(t, http.MethodGet, "/api/categories/c1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	category := decode[entities.Category](t, rec)
	require.Len(t, category.Tasks, 1)
	assert.Equal(t, "t1", category.Tasks[0].ID)

	rec = api.do(t, http.MethodDelete, "/api/categories/c1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/tasks/t1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[entities.Task](t, rec).CategoryID)

	rec = api.do(t, http.MethodPost, "/api/categories", `[]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, msgInvalidBody, errorMessage(t, rec))
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, errorMessage(t, rec))
}

type failingTaskService struct {
	ports.TaskService
}

func (failingTaskService) ListTasks(context.Context, ports.TaskFilter) ([]*entities.Task, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailureIsHidden(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := logger.FromZap(zap.New(core))

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	NewTaskHandler(failingTaskService{}, log).Register(e.Group("/api/tasks"))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch tasks", errorMessage(t, rec))
	assert.NotContains(t, rec.Body.String(), "connection refused")

	entries := logs.FilterMessage("Store operation failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Failed to fetch tasks", entries[0].ContextMap()["operation"])
}
