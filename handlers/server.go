package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"iotview/config"
)

// Server is the web front-end: an Echo application over the shared auth
// controller, gateway client and viewer registry.
type Server struct {
	echo     *echo.Echo
	addr     string
	registry *Registry
	logger   *slog.Logger
}

func NewServer(cfg *config.Config, apiHandler *APIHandler, registry *Registry, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogging(logger))

	setupRoutes(e, apiHandler)

	return &Server{
		echo:     e,
		addr:     cfg.ListenAddr,
		registry: registry,
		logger:   logger.With("component", "http_server"),
	}
}

func setupRoutes(e *echo.Echo, h *APIHandler) {
	e.GET("/health", h.HealthCheck)

	e.POST("/auth/login", h.Login)
	e.POST("/auth/logout", h.Logout)

	api := e.Group("", h.RequireAuth)
	api.GET("/connections", h.ListConnections)
	api.GET("/connections/:id", h.GetConnection)

	api.POST("/connections/:id/viewer", h.OpenViewer)
	api.DELETE("/connections/:id/viewer", h.CloseViewer)
	api.GET("/connections/:id/viewer", h.ViewerStatus)
	api.GET("/connections/:id/viewer/messages", h.ViewerMessages)
	api.GET("/connections/:id/viewer/export/:format", h.ExportViewer)
}

func requestLogging(logger *slog.Logger) echo.MiddlewareFunc {
	requestLogger := logger.With("component", "http")
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			requestLogger.Info("request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"remote", c.Request().RemoteAddr,
				"duration", time.Since(start).String(),
			)
			return err
		}
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.addr)
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains the HTTP server and closes every open viewer so no
// broker session outlives the process.
func (s *Server) Shutdown(ctx context.Context) error {
	s.registry.CloseAll()
	return s.echo.Shutdown(ctx)
}
