package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/oilslickpad/storeops/internal/api/handlers"
	"github.com/oilslickpad/storeops/internal/api/middleware"
	"github.com/oilslickpad/storeops/internal/config"
	"github.com/oilslickpad/storeops/internal/repository"
)

// Reporters are the read-only runs the server exposes
type Reporters struct {
	Collections handlers.CollectionReporter
	Tags        handlers.TagReporter
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, reporters Reporters, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "storeops report API",
			"endpoints": []string{
				"GET /health",
				"GET /v1/reports/collections",
				"GET /v1/reports/tags",
				"GET /v1/audit/recent",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(middleware.AuthMiddleware(cfg.API.KeyHash, logger))
	{
		v1.GET("/reports/collections", handlers.HandleCollectionReport(reporters.Collections, logger))
		v1.GET("/reports/tags", handlers.HandleTagReport(reporters.Tags, logger))
		v1.GET("/audit/recent", handlers.HandleRecentAudit(repos, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
