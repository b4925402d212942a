package routes

import (
	"sklad/internal/auditlog"
	"sklad/internal/inventory/devices"
	"sklad/internal/inventory/movements"
	"sklad/internal/inventory/parts"
	"sklad/internal/inventory/suppliers"
	"sklad/internal/inventory/variants"
	"sklad/internal/middleware"
	"sklad/internal/repository"
	"sklad/internal/users"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register wires every feature onto the router. Each feature guards its own
// routes; only the recovery middleware is global.
func Register(router *gin.Engine, r *repository.Repository, log *zap.Logger) {
	router.Use(middleware.Recovery(log))

	deviceRepo := devices.NewRepository(r)

	security.NewLoginHandler(r).RegisterRoutes(router)
	parts.RegisterRoutes(router, r, deviceRepo)
	movements.RegisterRoutes(router, r, log)
	variants.RegisterRoutes(router, r)
	suppliers.RegisterRoutes(router, r)
	devices.RegisterRoutes(router, r)
	auditlog.RegisterRoutes(router, r)
	users.RegisterRoutes(router, r)

	router.GET("/health", middleware.Health(r.DB))
}
