// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopsmith/storefront/internal/config"
	"github.com/shopsmith/storefront/internal/handlers"
	"github.com/shopsmith/storefront/internal/middleware"
	"github.com/shopsmith/storefront/internal/services"
	"github.com/shopsmith/storefront/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	productService := services.NewProductService(db, notificationService, cfg.Inventory.DefaultLowStockThreshold)
	preorderService := services.NewPreorderService(db, notificationService)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	productHandler := handlers.NewProductHandler(productService)
	preorderHandler := handlers.NewPreorderHandler(preorderService, productService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authHandler := handlers.NewAuthHandler(authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Product routes
		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/low-stock", middleware.AuthRequired(), productHandler.GetLowStockProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/preorder", preorderHandler.GetEligibility)
			products.POST("/:id/preorder/reserve", preorderHandler.Reserve)

			// Staff routes
			protected := products.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", productHandler.CreateProduct)
				protected.PUT("/:id", productHandler.UpdateProduct)
				protected.PUT("/:id/stock", productHandler.SetStock)
				protected.POST("/:id/stock/adjust", productHandler.AdjustStock)
				protected.GET("/:id/movements", productHandler.GetStockMovements)
				protected.POST("/:id/preorder/enable", preorderHandler.EnablePreorder)
				protected.POST("/:id/preorder/disable", preorderHandler.DisablePreorder)
				protected.GET("/:id/preorder/reservations", preorderHandler.GetReservations)
			}
		}

		// Reservation routes
		reservations := v1.Group("/preorder-reservations")
		reservations.Use(middleware.AuthRequired())
		{
			reservations.DELETE("/:id", preorderHandler.CancelReservation)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.DELETE("/products/:id", productHandler.DeleteProduct)
			admin.POST("/products/:id/restore", productHandler.RestoreProduct)
			admin.POST("/inventory/reevaluate", preorderHandler.ReevaluateStockouts)
			admin.GET("/notifications", notificationHandler.GetUnread)
			admin.POST("/notifications/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
