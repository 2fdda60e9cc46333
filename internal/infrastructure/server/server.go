package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/taskboard/api/internal/adapters/gateway"
	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/database"
	"github.com/taskboard/api/internal/infrastructure/logger"
)

// Server hosts the event dispatcher behind an HTTP listener. Every incoming
// request is converted to a gateway.Request, dispatched, and the resulting
// envelope is written back verbatim (status, headers, pre-serialized body).
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	router *gateway.Router
	db     *database.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *database.DB, router *gateway.Router, appLogger *logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		router: router,
		db:     db,
	}

	s.setupMiddleware()

	if cfg.Metrics.Enabled {
		s.setupMetrics()
	}

	e.GET("/health", s.healthCheck)
	e.Any("/*", s.dispatchEvent)

	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))
}

// dispatchEvent adapts the HTTP request to the invocation contract and
// writes the dispatched envelope back.
func (s *Server) dispatchEvent(c echo.Context) error {
	httpReq := c.Request()

	body, err := io.ReadAll(httpReq.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read request body")
	}

	headers := make(map[string]string, len(httpReq.Header))
	for name, values := range httpReq.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	var query map[string]string
	if params := c.QueryParams(); len(params) > 0 {
		query = make(map[string]string, len(params))
		for name, values := range params {
			if len(values) > 0 {
				query[name] = values[0]
			}
		}
	}

	resp := s.router.Dispatch(httpReq.Context(), gateway.Request{
		HTTPMethod:            httpReq.Method,
		Resource:              httpReq.URL.Path,
		Headers:               headers,
		Body:                  string(body),
		QueryStringParameters: query,
	})

	for name, value := range resp.Headers {
		c.Response().Header().Set(name, value)
	}

	if resp.Body == "" {
		return c.NoContent(resp.StatusCode)
	}
	return c.Blob(resp.StatusCode, echo.MIMEApplicationJSON, []byte(resp.Body))
}

func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := s.db.HealthCheck(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"detail": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Start begins listening on the configured address
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout
	return s.echo.Start(s.config.Server.Addr())
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
