package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpHandler "github.com/YouSangSon/admin-backoffice/internal/interfaces/http/handler"
	"github.com/YouSangSon/admin-backoffice/internal/interfaces/http/middleware"
)

// Options는 라우터 구성 옵션입니다
type Options struct {
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
	AllowedOrigins []string
	Auth           middleware.AuthConfig
}

// SetupRouter sets up all routes for the admin API server
func SetupRouter(
	resourceHandler *httpHandler.ResourceHandler,
	healthHandler *httpHandler.HealthHandler,
	reportHandler *httpHandler.ReportHandler,
	opts Options,
) *gin.Engine {
	// Set Gin mode based on environment
	if opts.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global Middlewares
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware(opts.AllowedOrigins))

	if opts.EnableTracing {
		router.Use(middleware.TracingMiddleware())
	}

	if opts.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}

	// ============================================
	// Health & Metrics Endpoints (no auth)
	// ============================================
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================
	// Admin API Group
	// ============================================
	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(opts.Auth))
	api.Use(middleware.NegotiateMiddleware())
	{
		// ========================================
		// Reports
		// ========================================
		api.GET("/reports/summary", reportHandler.Summary)

		// ========================================
		// Generic Resource CRUD
		// ========================================
		api.GET("/:resource", resourceHandler.List)
		api.POST("/:resource", resourceHandler.Create)
		api.GET("/:resource/stats", resourceHandler.Stats)
		api.GET("/:resource/export", resourceHandler.Export)
		api.POST("/:resource/bulk-action", resourceHandler.BulkAction)
		api.GET("/:resource/:id", resourceHandler.Get)
		api.PUT("/:resource/:id", resourceHandler.Update)
		api.DELETE("/:resource/:id", resourceHandler.Delete)
	}

	return router
}
