package routes

import (
	"time"

	"groundbook/config"
	"groundbook/handlers"
	"groundbook/middleware"
	"groundbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers account and profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api/users")
	{
		api.POST("/register", hb.RegisterUserHandler)
		api.POST("/login", hb.LoginUserHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("", auth)
		protected.POST("/refresh", hb.RefreshTokenHandler)
		protected.POST("/logout", hb.LogoutUserHandler)
		protected.GET("/me", hb.GetMeHandler)
		protected.PUT("/me", hb.UpdateMeHandler)
		protected.PUT("/me/fcm-token", hb.UpdateFCMTokenHandler)
	}
}

// RegisterGroundRoutes registers the public catalogue plus reviews.
func RegisterGroundRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api/grounds")
	{
		api.GET("", hb.ListGroundsHandler)
		api.GET("/featured", hb.ListFeaturedGroundsHandler)
		api.GET("/:id", hb.GetGroundHandler)
		api.GET("/:id/availability", hb.GroundAvailabilityHandler)
		api.GET("/:id/reviews", hb.ListGroundReviewsHandler)
		api.POST("/:id/reviews", auth, hb.SubmitReviewHandler)
	}
	r.POST("/api/slots/quote", hb.QuoteSlotHandler)
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	bookingGroup := r.Group("/api/bookings", auth)
	{
		bookingGroup.POST("", hb.CreateBookingHandler)
		bookingGroup.POST("/checkout", hb.CheckoutHandler)
		bookingGroup.GET("", hb.ListMyBookingsHandler)
		bookingGroup.GET("/feed", hb.BookingFeedHandler)
		bookingGroup.GET("/:id", hb.GetBookingHandler)
		bookingGroup.POST("/:id/cancel", hb.CancelBookingHandler)
	}
}

// RegisterNotificationRoutes registers the user's notification inbox.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	api := r.Group("/api/notifications", auth)
	{
		api.GET("", hb.ListNotificationsHandler)
		api.GET("/unread-count", hb.UnreadNotificationsHandler)
		api.PATCH("/read-all", hb.MarkAllNotificationsReadHandler)
		api.PATCH("/:id/read", hb.MarkNotificationReadHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle, auth gin.HandlerFunc) {
	adminGroup := r.Group("/api/admin", auth, middleware.RequireAdmin())
	{
		adminGroup.GET("/bookings", hb.AdminListBookingsHandler)
		adminGroup.PATCH("/bookings/:id/status", hb.AdminUpdateBookingStatusHandler)

		adminGroup.POST("/grounds", hb.AdminCreateGroundHandler)
		adminGroup.PUT("/grounds/:id", hb.AdminUpdateGroundHandler)
		adminGroup.DELETE("/grounds/:id", hb.AdminDeleteGroundHandler)
		adminGroup.PATCH("/grounds/:id/featured", hb.AdminSetFeaturedHandler)
		adminGroup.POST("/grounds/:id/image", hb.AdminUploadGroundImageHandler)

		adminGroup.GET("/users", hb.AdminListUsersHandler)
		adminGroup.PATCH("/users/:id/admin", hb.AdminSetUserAdminHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(utils.ErrorHandler())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	r.GET("/health", handlers.HealthHandler)

	auth := middleware.JWTAuthMiddleware(hb.Users)
	RegisterUserRoutes(r, hb, auth)
	RegisterGroundRoutes(r, hb, auth)
	RegisterBookingRoutes(r, hb, auth)
	RegisterNotificationRoutes(r, hb, auth)
	RegisterAdminRoutes(r, hb, auth)
}
