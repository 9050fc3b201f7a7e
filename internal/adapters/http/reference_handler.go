package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// ReferenceHandler serves one kind of reference data under /config. The
// same handler type backs both /config/statuses and /config/priorities.
type ReferenceHandler struct {
	service ports.ReferenceService
	logger  *logger.Logger
	one     string
	many    string
}

// NewReferenceHandler creates a handler for the service's kind
func NewReferenceHandler(service ports.ReferenceService, logger *logger.Logger) *ReferenceHandler {
	kind := service.Kind()
	return &ReferenceHandler{
		service: service,
		logger:  logger.WithComponent(string(kind) + "_handler"),
		one:     string(kind),
		many:    kind.Plural(),
	}
}

// Register mounts the routes on g, which should be /config/<plural>
func (h *ReferenceHandler) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Replace)
	g.DELETE("/:id", h.Delete)
}

// List handles listing rows in display order with task counts
// @Summary List statuses or priorities
// @Tags config
// @Produce json
// @Param kind path string true "statuses or priorities"
// @Success 200 {array} entities.Reference
// @Failure 500 {object} ErrorResponse
// @Router /config/{kind} [get]
func (h *ReferenceHandler) List(c echo.Context) error {
	refs, err := h.service.List(requestContext(c))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch "+h.many)
	}

	if refs == nil {
		refs = []*entities.Reference{}
	}
	return c.JSON(http.StatusOK, refs)
}

// Get handles getting one row
// @Summary Get status or priority
// @Tags config
// @Produce json
// @Param kind path string true "statuses or priorities"
// @Param id path string true "Row ID"
// @Success 200 {object} entities.Reference
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /config/{kind}/{id} [get]
func (h *ReferenceHandler) Get(c echo.Context) error {
	ref, err := h.service.Get(requestContext(c), c.Param("id"))
	if err != nil {
		return mapError(h.logger, err, "Failed to fetch "+h.one)
	}

	return c.JSON(http.StatusOK, ref)
}

// Create handles row creation
// @Summary Create status or priority
// @Tags config
// @Accept json
// @Produce json
// @Param kind path string true "statuses or priorities"
// @Param row body ports.ReferenceInput true "Row data"
// @Success 201 {object} entities.Reference
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /config/{kind} [post]
func (h *ReferenceHandler) Create(c echo.Context) error {
	var req ports.ReferenceInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	ref, err := h.service.Create(requestContext(c), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to create "+h.one)
	}

	return c.JSON(http.StatusCreated, ref)
}

// Replace handles full row replacement
// @Summary Replace status or priority
// @Tags config
// @Accept json
// @Produce json
// @Param kind path string true "statuses or priorities"
// @Param id path string true "Row ID"
// @Param row body ports.ReferenceInput true "Row data"
// @Success 200 {object} entities.Reference
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /config/{kind}/{id} [put]
func (h *ReferenceHandler) Replace(c echo.Context) error {
	var req ports.ReferenceInput
	if err := c.Bind(&req); err != nil {
		return invalidBody(err)
	}

	ref, err := h.service.Replace(requestContext(c), c.Param("id"), req)
	if err != nil {
		return mapError(h.logger, err, "Failed to update "+h.one)
	}

	return c.JSON(http.StatusOK, ref)
}

// Delete handles row deletion. Rows still used by tasks are kept.
// @Summary Delete status or priority
// @Tags config
// @Param kind path string true "statuses or priorities"
// @Param id path string true "Row ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /config/{kind}/{id} [delete]
func (h *ReferenceHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(requestContext(c), c.Param("id")); err != nil {
		return mapError(h.logger, err, "Failed to delete "+h.one)
	}

	return c.NoContent(http.StatusNoContent)
}
