package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/taskboard/core/docs"
	httpHandlers "github.com/taskboard/core/internal/adapters/http"
	"github.com/taskboard/core/internal/application/services"
	"github.com/taskboard/core/internal/infrastructure/config"
	"github.com/taskboard/core/internal/infrastructure/database"
	"github.com/taskboard/core/internal/infrastructure/logger"
	"github.com/taskboard/core/internal/ports"
)

// Server represents the HTTP server
type Server struct {
	echo     *echo.Echo
	config   *config.Config
	logger   *logger.Logger
	repos    ports.Repositories
	db       *database.DB
	registry *prometheus.Registry
}

// New creates a new server instance over repos. db is only used for pool
// metrics and may be nil when the memory store backs repos.
func New(cfg *config.Config, repos ports.Repositories, db *database.DB, appLogger *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.App.IsDevelopment()
	e.HTTPErrorHandler = httpHandlers.ErrorHandler(appLogger.WithComponent("http"))
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		repos:  repos,
		db:     db,
	}

	server.setupMiddleware()
	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}
	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// setupRoutes wires repositories into services and handlers
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/ready", s.readinessCheck)
	s.echo.GET("/docs/*", echoSwagger.WrapHandler)

	taskService := services.NewTaskService(s.repos.Tasks, s.repos.Statuses, s.repos.Priorities, s.logger)
	userService := services.NewUserService(s.repos.Users, s.repos.Tasks, s.logger)
	categoryService := services.NewCategoryService(s.repos.Categories, s.repos.Tasks, s.logger)
	statusService := services.NewReferenceService(s.repos.Statuses, s.repos.Tasks, s.logger)
	priorityService := services.NewReferenceService(s.repos.Priorities, s.repos.Tasks, s.logger)

	api := s.echo.Group("/api")
	api.GET("/health", s.healthCheck)

	httpHandlers.NewTaskHandler(taskService, s.logger).Register(api.Group("/tasks"))
	httpHandlers.NewUserHandler(userService, s.logger).Register(api.Group("/users"))
	httpHandlers.NewCategoryHandler(categoryService, s.logger).Register(api.Group("/categories"))

	cfg := api.Group("/config")
	httpHandlers.NewReferenceHandler(statusService, s.logger).Register(cfg.Group("/statuses"))
	httpHandlers.NewReferenceHandler(priorityService, s.logger).Register(cfg.Group("/priorities"))
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status    string `json:"status" example:"ok"`
	Timestamp string `json:"timestamp" example:"2023-06-20T10:00:00Z"`
}

// healthCheck reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.repos.Health != nil {
		if err := s.repos.Health.Ping(c.Request().Context()); err != nil {
			s.logger.Warnw("Readiness check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "store_unreachable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start listens on the configured address. It returns nil once Shutdown
// has been called.
func (s *Server) Start() error {
	address := s.config.Server.Address()
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.echo.Shutdown(ctx)
}
