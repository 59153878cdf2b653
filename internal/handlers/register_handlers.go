package handlers

import (
	"github.com/gin-gonic/gin"
	portssvc "github.com/pennypusher/pennypusher/internal/core/ports/services"
	"github.com/pennypusher/pennypusher/internal/middleware"
	"github.com/pennypusher/pennypusher/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service container.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public authentication routes
	registerAuthRoutes(r, services)

	// Everything else sits behind the auth middleware.
	authed := r.Group("/", middleware.AuthMiddleware(cfg.JWTSecret))
	registerUserRoutes(authed, services.User)
	registerPusherRoutes(authed, services.Pusher, services.User)
	registerEncapsulationRoutes(authed, services.Encapsulation, services.Pusher)
	registerEntityRoutes(authed, services.Entity, services.Pusher)
	registerNetWorthRoutes(authed, services.NetWorth, services.Pusher)
}
