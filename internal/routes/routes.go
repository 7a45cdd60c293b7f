package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/catalog/internal/handlers"
)

// RegisterRoutes mounts every HTTP endpoint under /api. The rate limiter
// covers only the auth group; authRequired is attached per route by each
// handler's own registration.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers, authRequired, rateLimit gin.HandlerFunc) {
	api := router.Group("/api")
	{
		authGroup := api.Group("")
		authGroup.Use(rateLimit)
		appHandlers.AuthHandler.RegisterRoutes(authGroup, authRequired)

		appHandlers.CategoryHandler.RegisterRoutes(api, authRequired)
		appHandlers.ProductHandler.RegisterRoutes(api, authRequired)
	}
}
