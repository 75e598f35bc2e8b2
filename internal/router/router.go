package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipez/backend/internal/api"
	"github.com/recipez/backend/internal/middleware"
	"github.com/recipez/backend/internal/models"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	imageHandler *api.ImageHandler,
	authService middleware.TokenValidator,
	health gin.HandlerFunc,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())

	if health != nil {
		router.GET("/health", health)
	}

	v1 := router.Group("/api/v1")

	authHandler.RegisterRoutes(v1)

	v1.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
	})

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/me", authHandler.Me)
		recipeHandler.RegisterRoutes(protected)
		if imageHandler != nil {
			imageHandler.RegisterRoutes(protected)
		}
	}

	return router
}
