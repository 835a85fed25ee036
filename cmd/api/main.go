package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/roomhaven/roomhaven-backend/internal/booking"
	"github.com/roomhaven/roomhaven-backend/internal/database"
	"github.com/roomhaven/roomhaven-backend/internal/handlers"
	"github.com/roomhaven/roomhaven-backend/internal/middleware"
	"github.com/roomhaven/roomhaven-backend/internal/payments"
	"github.com/roomhaven/roomhaven-backend/internal/services"
	"github.com/roomhaven/roomhaven-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Wire the reservation engine to its collaborators
	gateway := payments.NewStripeGateway()
	engine := booking.NewEngine(
		booking.NewGormRoomStore(db),
		booking.NewGormBookingStore(db),
		gateway,
		utils.NewBookingReference,
	)

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"}
	r.Use(cors.New(config))

	// Serve locally stored room images
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	api.Use(middleware.LogAPIRequest(db))
	{
		// Public routes
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit(5, time.Minute))
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
			auth.POST("/forgot-password", handlers.RequestPasswordReset(db))
			auth.POST("/verify-password-reset-code", handlers.VerifyPasswordResetCode(db))
			auth.POST("/reset-password", handlers.ResetPassword(db))
		}

		// Machine-client availability feed, authenticated by API key
		partner := api.Group("/partner")
		partner.Use(middleware.APIClientAuth(db, "rooms:read"))
		{
			partner.GET("/rooms", handlers.ListAvailableRooms(engine))
		}

		// Payment gateway callbacks (no auth; webhook is signature-verified)
		paymentCallbacks := api.Group("/payments")
		{
			paymentCallbacks.POST("/webhook", handlers.StripeWebhook(engine))
			paymentCallbacks.GET("/success", handlers.PaymentSuccess(engine))
			paymentCallbacks.GET("/cancel", handlers.PaymentCancel(engine))
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			users.Use(middleware.RateLimit(10, time.Minute))
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
			}

			protected.POST("/change-password", middleware.RateLimit(4, time.Minute), handlers.ChangePassword(db))

			// Room catalog routes
			rooms := protected.Group("/rooms")
			{
				rooms.GET("", handlers.ListAvailableRooms(engine))
				rooms.GET("/:id", handlers.GetRoom(engine))
				rooms.POST("/:id/reserve", handlers.ReserveRoom(engine))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.GET("", handlers.ListBookings(engine))
				bookings.GET("/:reference", handlers.GetBooking(engine))
				bookings.PUT("/:reference", handlers.UpdateBooking(engine))
				bookings.DELETE("/:reference", handlers.CancelBooking(engine, db))
			}

			protected.POST("/payments/checkout-session", handlers.CreateCheckoutSession(engine, gateway))

			// Admin room management
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminOnly())
			{
				admin.POST("/rooms", handlers.CreateRoom(db))
				admin.PUT("/rooms/:id", handlers.UpdateRoom(db))
				admin.DELETE("/rooms/:id", handlers.DeleteRoom(db))
				admin.POST("/rooms/:id/image", handlers.UploadRoomImage(db))
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
