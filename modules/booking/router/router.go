package router

import (
	"clinic-booking/modules/booking/controller"

	"github.com/labstack/echo/v4"
)

// BookingRouter handles reservation routes
type BookingRouter struct {
	BookingController *controller.BookingController
}

func NewBookingRouter(bookingController *controller.BookingController) *BookingRouter {
	return &BookingRouter{
		BookingController: bookingController,
	}
}

func (r *BookingRouter) Setup(api *echo.Group) {
	api.POST("/bookings", r.BookingController.CreateBooking)
}
