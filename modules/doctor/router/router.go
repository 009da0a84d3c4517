package router

import (
	"clinic-booking/modules/doctor/controller"

	"github.com/labstack/echo/v4"
)

// DoctorRouter handles catalog routes
type DoctorRouter struct {
	DoctorController *controller.DoctorController
}

func NewDoctorRouter(doctorController *controller.DoctorController) *DoctorRouter {
	return &DoctorRouter{
		DoctorController: doctorController,
	}
}

// Setup registers catalog routes under the api group
func (r *DoctorRouter) Setup(api *echo.Group) {
	doctorRoutes := api.Group("/doctors")
	doctorRoutes.POST("", r.DoctorController.CreateDoctor)
	doctorRoutes.GET("", r.DoctorController.ListDoctors)
	doctorRoutes.GET("/:doctorId/slots", r.DoctorController.ListSlots)

	api.POST("/slots", r.DoctorController.CreateSlot)
}
