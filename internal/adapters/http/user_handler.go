package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// UserHandler handles user-related requests
type UserHandler struct {
	userService ports.UserService
	logger      *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService ports.UserService, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger.WithComponent("user_handler"),
	}
}

// Register mounts the user routes on g
func (h *UserHandler) Register(g *echo.Group) {
	g.GET("", h.ListUsers)
	g.POST("", h.CreateUser)
	g.GET("/:id", h.GetUser)
	g.PUT("/:id", h.ReplaceUser)
	g.DELETE("/:id", h.DeleteUser)
}

// ListUsers handles listing users
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} entities.User
// @Failure 500 {object} ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userService.ListUsers(requestContext(c))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch users")
	}

	if users == nil {
		users = []*entities.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser handles getting a user with owned and assigned tasks
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} entities.User
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userService.GetUser(requestContext(c), c.Param("id"))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}

// CreateUser handles user creation
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param user body ports.UserInput true "User data"
// @Success 201 {object} entities.User
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req ports.UserInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	user, err := h.userService.CreateUser(requestContext(c), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to create user")
	}

	return c.JSON(http.StatusCreated, user)
}

// ReplaceUser handles full user replacement
// @Summary Replace user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body ports.UserInput true "User data"
// @Success 200 {object} entities.User
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) ReplaceUser(c echo.Context) error {
	var req ports.UserInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	user, err := h.userService.ReplaceUser(requestContext(c), c.Param("id"), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to update user")
	}

	return c.JSON(http.StatusOK, user)
}

// DeleteUser handles user deletion
// @Summary Delete user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.userService.DeleteUser(requestContext(c), c.Param("id")); err != nil {
		return mapError(h.logger, err, "Failed to delete user")
	}

	return c.NoContent(http.StatusNoContent)
}
