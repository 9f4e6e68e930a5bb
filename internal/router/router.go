package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/internal/app/controller"
	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/middleware"
)

type Router struct {
	searchController       *controller.SearchController
	businessController     *controller.BusinessController
	categoryController     *controller.CategoryController
	keywordController      *controller.KeywordController
	recategorizeController *controller.RecategorizeController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
	healthCheck            HealthCheck
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(
	searchController *controller.SearchController,
	businessController *controller.BusinessController,
	categoryController *controller.CategoryController,
	keywordController *controller.KeywordController,
	recategorizeController *controller.RecategorizeController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
	healthCheck HealthCheck,
) *Router {
	return &Router{
		searchController:       searchController,
		businessController:     businessController,
		categoryController:     categoryController,
		keywordController:      keywordController,
		recategorizeController: recategorizeController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
		healthCheck:            healthCheck,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", r.health)

	v1 := router.Group("/api/v1")
	{
		businesses := v1.Group("/businesses")
		{
			businesses.GET("/search", r.searchController.SearchBusinesses)
			businesses.GET("/:id", r.businessController.GetBusiness)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
		}

		admin := v1.Group("/admin")
		admin.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleAdmin),
		)
		{
			admin.POST("/businesses", r.businessController.CreateBusiness)
			admin.PUT("/businesses/:id", r.businessController.UpdateBusiness)
			admin.DELETE("/businesses/:id", r.businessController.DeleteBusiness)

			admin.POST("/categories", r.categoryController.CreateCategory)
			admin.PUT("/categories/:id", r.categoryController.UpdateCategory)
			admin.DELETE("/categories/:id", r.categoryController.DeleteCategory)

			keywords := admin.Group("/keywords")
			{
				keywords.GET("", r.keywordController.ListKeywords)
				keywords.POST("", r.keywordController.CreateKeyword)
				keywords.POST("/preview", r.keywordController.PreviewCategorization)
				keywords.PUT("/:id", r.keywordController.UpdateKeyword)
				keywords.DELETE("/:id", r.keywordController.DeleteKeyword)
				keywords.PATCH("/:id/toggle", r.keywordController.ToggleKeyword)
			}

			admin.POST("/recategorize", r.recategorizeController.Recategorize)
			admin.GET("/recategorize/report.xlsx", r.recategorizeController.ExportReport)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func (r *Router) health(c *gin.Context) {
	if r.healthCheck != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := r.healthCheck(ctx); err != nil {
			middleware.GetLoggerFromContext(c).Warn("Health check failed", map[string]interface{}{
				"error": err.Error(),
			})
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unreachable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "ok",
		"message":  "Business directory API is running",
	})
}
