package controller

import (
	"net/http"

	"clinic-booking/core/controller"
	"clinic-booking/core/errors"
	"clinic-booking/core/logger"
	"clinic-booking/core/validator"
	"clinic-booking/modules/booking/dto"
	"clinic-booking/modules/booking/mapper"
	"clinic-booking/modules/booking/service"

	"github.com/labstack/echo/v4"
)

// BookingController handles reservation HTTP requests
type BookingController struct {
	Engine service.ReservationEngineInterface
}

func NewBookingController(engine service.ReservationEngineInterface) *BookingController {
	return &BookingController{Engine: engine}
}

// CreateBooking handles POST /bookings. A lost race answers 409 and is final;
// only 503 responses carry Retry-After.
func (c *BookingController) CreateBooking(ctx echo.Context) error {
	var req dto.ReservationRequest
	if err := ctx.Bind(&req); err != nil {
		return c.invalid(ctx, "Invalid request body", nil)
	}
	if err := ctx.Validate(&req); err != nil {
		fields, _ := validator.FieldErrors(err)
		return c.invalid(ctx, "Validation failed", fields)
	}

	booking, appErr := c.Engine.Reserve(ctx.Request().Context(), req.Requester(), req.SlotID)
	if appErr != nil {
		return c.failed(ctx, appErr)
	}

	return ctx.JSON(http.StatusOK, mapper.ToConfirmedResponse(booking))
}

func (c *BookingController) invalid(ctx echo.Context, message string, details any) error {
	resp := mapper.ToFailedResponse(errors.NewAppError(errors.ErrInvalidRequestData, message, nil))
	if details != nil {
		resp.Details = details
	}
	return ctx.JSON(http.StatusBadRequest, resp)
}

func (c *BookingController) failed(ctx echo.Context, appErr *errors.AppError) error {
	status := controller.StatusFor(appErr.Code)
	if status == http.StatusInternalServerError {
		logger.Error("BookingController:CreateBooking:Error", "code", appErr.Code, "error", appErr)
	}
	if appErr.Retryable() {
		ctx.Response().Header().Set("Retry-After", "1")
	}
	return ctx.JSON(status, mapper.ToFailedResponse(appErr))
}
