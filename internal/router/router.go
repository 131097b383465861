// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phonebay/phonebay-backend/internal/config"
	"github.com/phonebay/phonebay-backend/internal/handlers"
	"github.com/phonebay/phonebay-backend/internal/middleware"
	"github.com/phonebay/phonebay-backend/internal/services"
	"github.com/phonebay/phonebay-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(cfg)
	storageService, _ := services.NewStorageService(cfg)
	auditService := services.NewAuditService(db)
	cascadeService := services.NewCascadeService(db, storageService, auditService)

	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, cascadeService)
	phoneService := services.NewPhoneService(db, cascadeService)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db, notificationService)
	reviewService := services.NewReviewService(db)
	paymentService := services.NewPaymentService(db, cfg)
	adminService := services.NewAdminService(db, cascadeService, auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	phoneHandler := handlers.NewPhoneHandler(phoneService, storageService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService, paymentService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	adminHandler := handlers.NewAdminHandler(adminService, auditService, phoneService, reviewService, paymentService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

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
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)

			// Authenticated user routes
			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("/profile", userHandler.GetProfile)
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.GET("/wishlist", userHandler.GetWishlist)
				protected.POST("/wishlist/:phoneId", userHandler.AddToWishlist)
				protected.DELETE("/wishlist/:phoneId", userHandler.RemoveFromWishlist)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// Phone listing routes
		phones := v1.Group("/phones")
		{
			phones.GET("", middleware.OptionalAuth(), phoneHandler.GetPhones)
			phones.GET("/popular", phoneHandler.GetPopularPhones)
			phones.GET("/:id", middleware.OptionalAuth(), phoneHandler.GetPhone)
			phones.GET("/:id/reviews", middleware.OptionalAuth(), reviewHandler.GetPhoneReviews)

			// Authenticated routes
			protected := phones.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", phoneHandler.CreatePhone)
				protected.PUT("/:id", phoneHandler.UpdatePhone)
				protected.DELETE("/:id", phoneHandler.DeletePhone)
				protected.POST("/upload-image", middleware.UploadRateLimit(), phoneHandler.UploadPhoneImage)
				protected.POST("/:id/reviews", reviewHandler.AddReview)
				protected.PUT("/:id/reviews/:reviewId/visibility", reviewHandler.SetReviewVisibility)
				protected.DELETE("/:id/reviews/:reviewId", reviewHandler.DeleteReview)
			}
		}

		// Cart routes
		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.GET("", cartHandler.GetCart)
			cart.POST("/items", cartHandler.AddToCart)
			cart.PUT("/items/:phoneId", cartHandler.UpdateCartItem)
			cart.DELETE("/items/:phoneId", cartHandler.RemoveFromCart)
		}

		// Order routes
		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("/checkout", middleware.CheckoutRateLimit(), orderHandler.Checkout)
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrder)
			orders.POST("/:id/payment-intent", orderHandler.CreatePaymentIntent)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.SetUserStatus)
				adminUsers.DELETE("/:id", adminHandler.DeleteUser)
			}

			adminPhones := admin.Group("/phones")
			{
				adminPhones.PUT("/:id/status", adminHandler.SetPhoneStatus)
				adminPhones.DELETE("/:id", adminHandler.DeletePhone)
				adminPhones.GET("/:id/reviews", adminHandler.GetPhoneReviews)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
			admin.POST("/refunds", adminHandler.ProcessRefund)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
