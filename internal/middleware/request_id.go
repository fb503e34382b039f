package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const CtxRequestIDKey = "request_id"

// RequestID assigns every request a unique id, reusing the caller's
// X-Request-ID when present, and echoes it on the response.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Response().Header().Set("X-Request-ID", requestID)
		c.Set(CtxRequestIDKey, requestID)

		return next(c)
	}
}
