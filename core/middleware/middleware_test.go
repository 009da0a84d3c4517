package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/core/constants"
	"clinic-booking/core/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDGenerated(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	e := echo.New()
	mw := NewMiddleware()

	var seen string
	e.Use(mw.RequestID(), mw.RequestLogger())
	e.GET("/ping", func(c echo.Context) error {
		seen = RequestIDFromContext(c.Request().Context())
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, seen, 16)
	assert.Equal(t, seen, rec.Header().Get(constants.HeaderRequestID))
}

func TestRequestIDPropagated(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	e := echo.New()
	mw := NewMiddleware()

	e.Use(mw.RequestID())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get(constants.ContextRequestID).(string))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Body.String())
	assert.Equal(t, "abc-123", rec.Header().Get(constants.HeaderRequestID))
}
