package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.WithComponent("task_handler"),
	}
}

// Register mounts the task routes on g
func (h *TaskHandler) Register(g *echo.Group) {
	g.GET("", h.ListTasks)
	g.POST("", h.CreateTask)
	g.GET("/stats/summary", h.GetStats)
	g.GET("/:id", h.GetTask)
	g.PATCH("/:id", h.UpdateTask)
	g.PUT("/:id", h.UpdateTask)
	g.DELETE("/:id", h.DeleteTask)
}

// ListTasks handles listing tasks
// @Summary List tasks
// @Description Newest first. Status, priority and category filter by name.
// @Tags tasks
// @Produce json
// @Param status query string false "Status name"
// @Param priority query string false "Priority name"
// @Param category query string false "Category name"
// @Param ownerId query string false "Owner ID"
// @Param isVital query string false "true to list vital tasks only"
// @Success 200 {array} entities.Task
// @Failure 500 {object} ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(requestContext(c), taskFilterFromQuery(c))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch tasks")
	}

	if tasks == nil {
		tasks = []*entities.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// GetTask handles getting a task by ID
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} entities.Task
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(requestContext(c), c.Param("id"))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch task")
	}

	return c.JSON(http.StatusOK, task)
}

// CreateTask handles task creation
// @Summary Create task
// @Tags tasks
// @Accept json
// @Produce json
// @Param task body ports.CreateTaskInput true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	task, err := h.taskService.CreateTask(requestContext(c), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to create task")
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask handles partial task updates. PUT is accepted with the same
// semantics as PATCH.
// @Summary Update task
// @Description Only the fields present in the body change; null clears optional fields.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param task body ports.UpdateTaskInput true "Fields to change"
// @Success 200 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var req ports.UpdateTaskInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	task, err := h.taskService.UpdateTask(requestContext(c), c.Param("id"), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to update task")
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask handles task deletion
// @Summary Delete task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	if err := h.taskService.DeleteTask(requestContext(c), c.Param("id")); err != nil {
		return mapError(h.logger, err, "Failed to delete task")
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStats handles the dashboard summary
// @Summary Task statistics
// @Tags tasks
// @Produce json
// @Success 200 {object} entities.TaskStats
// @Failure 500 {object} ErrorResponse
// @Router /tasks/stats/summary [get]
func (h *TaskHandler) GetStats(c echo.Context) error {
	stats, err := h.taskService.GetStats(requestContext(c))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch task statistics")
	}

	return c.JSON(http.StatusOK, stats)
}

func taskFilterFromQuery(c echo.Context) ports.TaskFilter {
	var f ports.TaskFilter
	f.StatusName = queryPtr(c, "status")
	f.PriorityName = queryPtr(c, "priority")
	f.CategoryName = queryPtr(c, "category")
	f.OwnerID = queryPtr(c, "ownerId")
	if v := queryPtr(c, "isVital"); v != nil {
		vital := *v == "true"
		f.IsVital = &vital
	}
	return f
}

func queryPtr(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

// requestContext detaches the store calls from client disconnects so a
// mutation that has started always runs to completion.
func requestContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}
