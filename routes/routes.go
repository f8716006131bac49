package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"master-data-service/controllers"
	middlewares "master-data-service/middleware"
)

// RouteConfig carries the route-level knobs RegisterRoutes needs.
type RouteConfig struct {
	MaintenanceMode bool
}

// RegisterRoutes wires the API surface: login and session probing stay open,
// everything else sits behind the session cookie and, optionally, the
// maintenance gate.
func RegisterRoutes(r *gin.Engine, gate *middlewares.AuthGate, auth *controllers.AuthController, upload *controllers.MasterUploadController, search *controllers.SearchController, cfg RouteConfig) {
	loginLimiter := middlewares.NewRateLimiter(rate.Every(time.Minute/10), 10)
	uploadLimiter := middlewares.NewRateLimiter(rate.Every(time.Minute/10), 5)
	searchLimiter := middlewares.NewRateLimiter(rate.Every(time.Minute/120), 30)

	api := r.Group("/api")
	{
		api.POST("/login",
			loginLimiter.Middleware("Too many login attempts. Try again in 1 minute."),
			auth.Login,
		)
		api.GET("/session", auth.Session)

		protected := api.Group("")
		protected.Use(
			middlewares.MaintenanceMode(cfg.MaintenanceMode, "Service is under maintenance. Try again later."),
			gate.Middleware(),
		)
		{
			protected.POST("/master-upload",
				uploadLimiter.Middleware("Too many requests. Try again in 1 minute."),
				upload.Upload,
			)
			protected.POST("/search",
				searchLimiter.Middleware("Too many search requests. Please slow down."),
				search.Search,
			)
		}
	}
}
