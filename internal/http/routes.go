package http

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	middleware "task-manager.com/task-manager/internal/http/middlewares"
	"task-manager.com/task-manager/internal/http/web"
	"task-manager.com/task-manager/internal/limiter"
)

// NewServer builds the echo instance with middleware and routes. A nil
// limiter turns rate limiting off.
func NewServer(h *Handler, l limiter.Limiter, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	Register(e, h, l, logger)
	return e
}

func Register(e *echo.Echo, h *Handler, l limiter.Limiter, logger *slog.Logger) {
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomiddleware.CORS())
	if l != nil {
		e.Use(middleware.RateLimiter(l, logger))
	}

	e.GET("/", h.Health)

	e.POST("/tasks", h.CreateTask)
	e.GET("/tasks", h.ListTasks)
	e.GET("/tasks/:id", h.GetTask)
	e.PUT("/tasks/:id", h.UpdateTask)
	e.DELETE("/tasks/:id", h.DeleteTask)

	e.StaticFS("/ui", web.Static())
}
