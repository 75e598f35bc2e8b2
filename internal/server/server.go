package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/recipez/backend/config"
	"github.com/recipez/backend/internal/api"
	"github.com/recipez/backend/internal/cache"
	"github.com/recipez/backend/internal/database"
	"github.com/recipez/backend/internal/router"
	"github.com/recipez/backend/internal/service"
)

const listCacheTTL = 5 * time.Minute

// Server wires the services together and owns the HTTP listener.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance. rdb and s3cfg may be nil: caching and
// photo upload are then disabled, everything else keeps working.
func New(cfg *config.Config, db *database.DB, rdb *redis.Client, s3cfg *config.S3Config) *Server {
	recipeCache := cache.New(rdb, listCacheTTL)
	authService := service.NewAuthService(db.Gorm, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db.Gorm, recipeCache)

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService)

	var imageHandler *api.ImageHandler
	if s3cfg != nil {
		imageHandler = api.NewImageHandler(service.NewImageService(s3cfg))
	}

	health := func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}

	r := router.SetupRouter(authHandler, recipeHandler, imageHandler, authService, health)

	return &Server{
		router: r,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: r,
		},
	}
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
