package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			s.logger.LogHTTPRequest(
				values.Method,
				values.URI,
				values.RequestID,
				values.RemoteIP,
				values.Status,
				float64(values.Latency.Nanoseconds())/1e6,
			)
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.config.Security.AllowedOrigins(),
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	secure := middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}
	if s.config.App.IsProduction() {
		secure.HSTSMaxAge = 31536000
	}
	s.echo.Use(middleware.SecureWithConfig(secure))

	s.echo.Use(middleware.BodyLimit(s.config.Security.BodyLimit))

	if s.config.Security.RateLimitRequests > 0 {
		s.echo.Use(middleware.RateLimiterWithConfig(s.rateLimiterConfig()))
	}
}

// rateLimiterConfig allows RateLimitRequests per RateLimitWindow per client IP
func (s *Server) rateLimiterConfig() middleware.RateLimiterConfig {
	sec := s.config.Security
	window := sec.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/ready" || c.Path() == "/metrics"
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(sec.RateLimitRequests) / window.Seconds()),
			Burst:     sec.RateLimitRequests,
			ExpiresIn: window,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Rate limit exceeded").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
		},
	}
}

// setupMetrics configures Prometheus metrics and mounts /metrics
func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	s.registry.MustRegister(
		requestsTotal,
		requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if s.db != nil {
		s.registry.MustRegister(collectors.NewDBStatsCollector(s.db.DB.DB, "taskboard"))
	}

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			requestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
}
