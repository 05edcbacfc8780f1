package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/limiter"
)

// RateLimiter budgets requests per client IP. When the limiter itself fails
// the request is let through.
func RateLimiter(l limiter.Limiter, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			allowed, err := l.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				logger.Warn("rate limiter unavailable", slog.String("error", err.Error()))
				return next(c)
			}
			if !allowed {
				return apperrors.ErrRateLimited
			}
			return next(c)
		}
	}
}
