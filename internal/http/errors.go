package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "task-manager.com/task-manager/internal/errors"
)

// ErrorHandler renders every failure as {"error": "..."}. Causes of server
// errors are logged and never sent to the client.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := http.StatusInternalServerError, "internal server error"

		var appErr *apperrors.Exception
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &appErr):
			code, message = appErr.StatusCode, appErr.Message
		case errors.As(err, &httpErr):
			code, message = httpErr.Code, fmt.Sprint(httpErr.Message)
		}

		if code >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			logger.Error("failed to write error response", slog.String("error", err.Error()))
		}
	}
}
