// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/categorizer/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	authController         *controller.AuthController
	categoryController     *controller.CategoryController
	categoryRuleController *controller.CategoryRuleController
	transactionController  *controller.TransactionController
	auditLogController     *controller.AuditLogController
	authRateLimiter        *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	categoryRuleController *controller.CategoryRuleController,
	transactionController *controller.TransactionController,
	auditLogController *controller.AuditLogController,
	authRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:       healthController,
		authController:         authController,
		categoryController:     categoryController,
		categoryRuleController: categoryRuleController,
		transactionController:  transactionController,
		auditLogController:     auditLogController,
		authRateLimiter:        authRateLimiter,
		authMiddleware:         authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil && r.authRateLimiter != nil {
			auth := v1.Group("/auth")
			auth.Use(r.authRateLimiter.Middleware())
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.authController.Login)
			}
		}

		if r.authMiddleware == nil {
			return
		}

		if r.categoryController != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PATCH("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		if r.categoryRuleController != nil {
			rules := v1.Group("/category-rules")

			// Pattern checks touch no stored data
			rules.POST("/test", r.categoryRuleController.TestPattern)
			rules.POST("/validate", r.categoryRuleController.ValidatePattern)

			authenticated := rules.Group("")
			authenticated.Use(r.authMiddleware.Authenticate())
			{
				authenticated.GET("", r.categoryRuleController.List)
				authenticated.POST("", r.categoryRuleController.Create)
				authenticated.PATCH("/reorder", r.categoryRuleController.Reorder)
				authenticated.POST("/preview", r.categoryRuleController.Preview)
				authenticated.POST("/apply", r.categoryRuleController.Apply)
				authenticated.PATCH("/:id", r.categoryRuleController.Update)
				authenticated.DELETE("/:id", r.categoryRuleController.Delete)
			}
		}

		if r.transactionController != nil {
			transactions := v1.Group("/transactions")
			transactions.Use(r.authMiddleware.Authenticate())
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.POST("/import", r.transactionController.Import)
				transactions.POST("/bulk-categorize", r.transactionController.BulkCategorize)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
			}
		}

		if r.auditLogController != nil {
			auditLogs := v1.Group("/audit-logs")
			auditLogs.Use(r.authMiddleware.Authenticate())
			{
				auditLogs.GET("", r.auditLogController.List)
			}
		}
	}
}
