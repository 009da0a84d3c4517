package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/core/errors"
	"clinic-booking/core/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStatusFor(t *testing.T) {
	tests := map[errors.ErrorCode]int{
		errors.ErrInvalidInput:       http.StatusBadRequest,
		errors.ErrInvalidRequestData: http.StatusBadRequest,
		errors.ErrNotFound:           http.StatusNotFound,
		errors.ErrSlotNotFound:       http.StatusNotFound,
		errors.ErrAlreadyExists:      http.StatusConflict,
		errors.ErrSlotAlreadyBooked:  http.StatusConflict,
		errors.ErrTransactionFailed:  http.StatusServiceUnavailable,
		errors.ErrCreateFailed:       http.StatusInternalServerError,
		errors.ErrInternalServer:     http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, StatusFor(code), code)
	}
}

func TestErrorResponseRendering(t *testing.T) {
	logger.SetLogger(zap.NewNop())
	e := echo.New()
	base := NewBaseController()

	e.GET("/missing", func(c echo.Context) error {
		return base.ErrorResponse(c, errors.NewAppError(errors.ErrNotFound, "Doctor not found", nil))
	})
	e.GET("/plain", func(c echo.Context) error {
		return base.ErrorResponse(c, errors.New("boom"))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, errors.ErrNotFound, body.Code)
	assert.Equal(t, "Doctor not found", body.Message)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrInternalServer, body.Code)
	assert.Equal(t, "internal server error", body.Message)
}

func TestSuccessResponse(t *testing.T) {
	e := echo.New()
	base := NewBaseController()
	e.GET("/ok", func(c echo.Context) error {
		return base.SuccessResponse(c, map[string]string{"id": "1"}, "Success")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status  int               `json:"status"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 200, body.Status)
	assert.Equal(t, "Success", body.Message)
	assert.Equal(t, "1", body.Data["id"])
}
