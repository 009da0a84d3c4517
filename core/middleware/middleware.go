package middleware

import (
	"context"
	"time"

	"clinic-booking/core/constants"
	"clinic-booking/core/logger"
	"clinic-booking/core/utils"

	"github.com/labstack/echo/v4"
)

type requestIDKey struct{}

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// RequestID reuses the caller's X-Request-ID or generates one, and exposes it
// on the echo context, the request context and the response header.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(constants.HeaderRequestID)
			if id == "" || len(id) > 64 {
				id = utils.GenerateIDOfLength(16)
			}

			c.Set(constants.ContextRequestID, id)
			c.Response().Header().Set(constants.HeaderRequestID, id)
			ctx := context.WithValue(c.Request().Context(), requestIDKey{}, id)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequestLogger logs one line per request after the handler ran.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			fields := []any{
				"request_id", RequestIDFromContext(req.Context()),
				"method", req.Method,
				"path", req.URL.Path,
				"status", status,
				"duration", time.Since(start),
				"remote_addr", c.RealIP(),
			}
			if status >= 500 {
				logger.Error("HTTP:Request:Completed", fields...)
			} else {
				logger.Info("HTTP:Request:Completed", fields...)
			}
			return nil
		}
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
