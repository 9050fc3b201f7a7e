package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryService ports.CategoryService
	logger          *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService ports.CategoryService, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger.WithComponent("category_handler"),
	}
}

// Register mounts the category routes on g
func (h *CategoryHandler) Register(g *echo.Group) {
	g.GET("", h.ListCategories)
	g.POST("", h.CreateCategory)
	g.GET("/:id", h.GetCategory)
	g.PUT("/:id", h.ReplaceCategory)
	g.DELETE("/:id", h.DeleteCategory)
}

// ListCategories handles listing categories with task counts
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} entities.Category
// @Failure 500 {object} ErrorResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(requestContext(c))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch categories")
	}

	if categories == nil {
		categories = []*entities.Category{}
	}
	return c.JSON(http.StatusOK, categories)
}

// GetCategory handles getting a category with its tasks
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} entities.Category
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c echo.Context) error {
	category, err := h.categoryService.GetCategory(requestContext(c), c.Param("id"))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch category")
	}

	return c.JSON(http.StatusOK, category)
}

// CreateCategory handles category creation
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Param category body ports.CategoryInput true "Category data"
// @Success 201 {object} entities.Category
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req ports.CategoryInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	category, err := h.categoryService.CreateCategory(requestContext(c), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to create category")
	}

	return c.JSON(http.StatusCreated, category)
}

// ReplaceCategory handles full category replacement
// @Summary Replace category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body ports.CategoryInput true "Category data"
// @Success 200 {object} entities.Category
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) ReplaceCategory(c echo.Context) error {
	var req ports.CategoryInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	category, err := h.categoryService.ReplaceCategory(requestContext(c), c.Param("id"), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to update category")
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory handles category deletion. Tasks in the category keep
// existing with no category.
// @Summary Delete category
// @Tags categories
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	if err := h.categoryService.DeleteCategory(requestContext(c), c.Param("id")); err != nil {
		return mapError(h.logger, err, "Failed to delete category")
	}

	return c.NoContent(http.StatusNoContent)
}
