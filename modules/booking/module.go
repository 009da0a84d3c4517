package booking

import (
	"time"

	"clinic-booking/modules/booking/controller"
	"clinic-booking/modules/booking/repository"
	"clinic-booking/modules/booking/router"
	"clinic-booking/modules/booking/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the booking module and registers routes
func Init(api *echo.Group, store repository.ReservationStore, publisher service.Publisher, timeout time.Duration) *service.ReservationEngine {
	engine := service.NewReservationEngine(store, publisher, timeout)
	ctrl := controller.NewBookingController(engine)
	rtr := router.NewBookingRouter(ctrl)

	rtr.Setup(api)
	return engine
}
