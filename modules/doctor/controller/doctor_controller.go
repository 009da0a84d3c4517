package controller

import (
	"strconv"

	"clinic-booking/core/controller"
	"clinic-booking/core/errors"
	"clinic-booking/modules/doctor/dto"
	"clinic-booking/modules/doctor/service"

	"github.com/labstack/echo/v4"
)

// DoctorController handles catalog HTTP requests
type DoctorController struct {
	controller.BaseController
	CatalogService service.CatalogServiceInterface
}

func NewDoctorController(svc service.CatalogServiceInterface) *DoctorController {
	return &DoctorController{
		BaseController: controller.NewBaseController(),
		CatalogService: svc,
	}
}

// CreateDoctor handles POST /doctors
func (c *DoctorController) CreateDoctor(ctx echo.Context) error {
	var req dto.CreateDoctorRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ValidationError(err)
	}

	result, appErr := c.CatalogService.CreateDoctor(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Doctor created successfully")
}

// ListDoctors handles GET /doctors
func (c *DoctorController) ListDoctors(ctx echo.Context) error {
	result, appErr := c.CatalogService.ListDoctors(ctx.Request().Context())
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// CreateSlot handles POST /slots
func (c *DoctorController) CreateSlot(ctx echo.Context) error {
	var req dto.CreateSlotRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}
	if err := ctx.Validate(&req); err != nil {
		return c.ValidationError(err)
	}

	result, appErr := c.CatalogService.CreateSlot(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.CreatedResponse(ctx, result, "Slot created successfully")
}

// ListSlots handles GET /doctors/:doctorId/slots
func (c *DoctorController) ListSlots(ctx echo.Context) error {
	onlyAvailable := false
	if raw := ctx.QueryParam("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.BadRequest(errors.ErrInvalidInput, "available must be a boolean")
		}
		onlyAvailable = v
	}

	result, appErr := c.CatalogService.ListSlots(ctx.Request().Context(), ctx.Param("doctorId"), onlyAvailable)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
