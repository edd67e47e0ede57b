package router

import (
	"context"
	"net/http"
	"time"

	"user-api/api/swagger"
	"user-api/internal/adapter/gin/handler"
	"user-api/internal/adapter/gin/middleware"

	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// SpecPath is where the OpenAPI document is served
const SpecPath = "/openapi/user.swagger.json"

const healthCheckTimeout = 2 * time.Second

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker func(ctx context.Context) error

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(userHandler *handler.UserHandler, health HealthChecker, log *zap.Logger) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()

			if err := health(ctx); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "user-api",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "user-api",
		})
	})

	// API docs
	router.GET(SpecPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", swagger.UserSpec)
	})
	router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(SpecPath))))

	// User routes
	users := router.Group("/api/users")
	{
		users.POST("", userHandler.CreateUser)
		users.POST("/login", userHandler.Login)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
	}

	return router
}
