package middleware

import (
	"github.com/labstack/echo/v4"

	"task-tracker.com/task-tracker/internal/exceptions"
)

const (
	HeaderUserID = "X-User-Id"
	userIDKey    = "user_id"
)

// UserIdentity trusts the X-User-Id header as the caller's identity. Requests
// without it never reach the task handlers.
func UserIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get(HeaderUserID)
			if userID == "" {
				return exceptions.ErrMissingUserID
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func UserID(c echo.Context) string {
	if userID, ok := c.Get(userIDKey).(string); ok {
		return userID
	}
	return ""
}
