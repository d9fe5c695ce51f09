package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "task-tracker.com/task-tracker/internal/data_models"
	"task-tracker.com/task-tracker/internal/exceptions"
)

const MIMEApplicationProblemJSON = "application/problem+json"

// ErrorHandler renders every error as problem details. Errors that are not
// exceptions are unexpected faults: they are logged and hidden behind a generic 500.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			appErr  *exceptions.Exception
			httpErr *echo.HTTPError
		)
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &httpErr):
			appErr = exceptions.FromStatus(httpErr.Code, fmt.Sprint(httpErr.Message))
		default:
			appErr = exceptions.ErrInternal
		}

		if appErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("An unexpected error occurred",
				zap.Error(err),
				zap.String("path", c.Request().URL.Path),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
		}

		c.Response().Header().Set(echo.HeaderContentType, MIMEApplicationProblemJSON)
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(appErr.StatusCode)
		} else {
			err = c.JSON(appErr.StatusCode, dto.NewProblem(appErr, c.Request().URL.Path))
		}
		if err != nil {
			logger.Error("failed to write error response", zap.Error(err))
		}
	}
}
