package doctor

import (
	"time"

	"clinic-booking/core/cache"
	"clinic-booking/modules/doctor/controller"
	"clinic-booking/modules/doctor/repository"
	"clinic-booking/modules/doctor/router"
	"clinic-booking/modules/doctor/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the catalog module and registers routes. The service is
// returned so other modules can invalidate the cached catalog.
func Init(api *echo.Group, repo repository.CatalogRepositoryInterface, c cache.Cache, cacheTTL time.Duration) *service.CatalogService {
	svc := service.NewCatalogService(repo, c, cacheTTL)
	ctrl := controller.NewDoctorController(svc)
	rtr := router.NewDoctorRouter(ctrl)

	rtr.Setup(api)
	return svc
}
