package api

import (
	"log"
	stdhttp "net/http"

	intconfig "taskerhub/internal/config"
	"taskerhub/internal/domain/models"
	"taskerhub/internal/events"
	h "taskerhub/internal/http/handlers"
	"taskerhub/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, publisher *events.Publisher) *gin.Engine {
	h.Configure(env.JWTSecret, publisher)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition"},
		AllowCredentials: false,
	}))
	r.Use(middleware.Locale())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		// Auth (public)
		auth := api.Group("/auth")
		auth.POST("/signup", h.SignUp)
		auth.POST("/verify-otp", h.VerifyOTP)
		auth.POST("/resend-otp", h.ResendOTP)
		auth.POST("/login", h.Login)

		// Public browsing
		api.GET("/listings", h.BrowseListings)
		api.GET("/taskers/:id/reviews", h.ListTaskerReviews)

		// Everything below requires a valid token
		authed := api.Group("")
		authed.Use(middleware.RequireAuth(env.JWTSecret))
		{
			// Profile & addresses
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)
			authed.GET("/profile/addresses", h.ListAddresses)
			authed.POST("/profile/addresses", h.AddAddress)
			authed.PUT("/profile/addresses/:id/default", h.SetDefaultAddress)
			authed.DELETE("/profile/addresses/:id", h.DeleteAddress)

			// Bookings
			bookings := authed.Group("/bookings")
			bookings.GET("/:id", h.GetBooking)
			bookings.GET("/:id/invoice", h.DownloadBookingInvoice)
			bookings.POST("", middleware.RequireRoles(models.RoleCustomer), h.CreateBooking)
			bookings.GET("/customer", middleware.RequireRoles(models.RoleCustomer), h.ListCustomerBookings)
			bookings.GET("/tasker", middleware.RequireRoles(models.RoleTasker), h.ListTaskerBookings)
			bookings.PUT("/:id/status", middleware.RequireRoles(models.RoleTasker), h.UpdateBookingStatus)
			bookings.POST("/:id/cancel", middleware.RequireRoles(models.RoleCustomer), h.CancelBooking)
			bookings.POST("/:id/confirm", middleware.RequireRoles(models.RoleCustomer), h.ConfirmBookingCompletion)

			// Jobs & applications
			jobs := authed.Group("/jobs")
			jobs.GET("", h.ListOpenJobs)
			jobs.GET("/mine", middleware.RequireRoles(models.RoleCustomer), h.ListMyJobs)
			jobs.GET("/:id", h.GetJob)
			jobs.POST("", middleware.RequireRoles(models.RoleCustomer), h.CreateJob)
			jobs.POST("/:id/cancel", middleware.RequireRoles(models.RoleCustomer), h.CancelJob)
			jobs.POST("/:id/applications", middleware.RequireRoles(models.RoleTasker), h.ApplyToJob)
			jobs.GET("/:id/applications", middleware.RequireRoles(models.RoleCustomer), h.ListJobApplications)

			applications := authed.Group("/applications")
			applications.GET("/mine", middleware.RequireRoles(models.RoleTasker), h.ListMyApplications)
			applications.PUT("/:id/accept", middleware.RequireRoles(models.RoleCustomer), h.AcceptJobApplication)
			applications.PUT("/:id/reject", middleware.RequireRoles(models.RoleCustomer), h.RejectJobApplication)

			// Listings management (tasker)
			listings := authed.Group("/listings", middleware.RequireRoles(models.RoleTasker))
			listings.GET("/mine", h.ListMyListings)
			listings.POST("", h.CreateListing)
			listings.PUT("/:id", h.UpdateListing)

			// Reviews
			authed.POST("/reviews", h.CreateReview)
			authed.POST("/reviews/:id/reply", h.ReplyToReview)

			// Messaging
			messages := authed.Group("/messages")
			messages.POST("", h.SendMessage)
			messages.GET("/conversations", h.ListConversations)
			messages.GET("/with/:id", h.GetConversation)
			messages.POST("/with/:id/read", h.MarkConversationRead)

			// Notifications
			notifications := authed.Group("/notifications")
			notifications.GET("", h.ListNotifications)
			notifications.PUT("/read-all", h.MarkAllNotificationsRead)
			notifications.PUT("/:id/read", h.MarkNotificationRead)

			// Finance
			authed.GET("/wallet", h.GetWallet)
			authed.POST("/wallet/topup", h.TopUpWallet)
			authed.GET("/transactions", h.ListTransactions)
			authed.GET("/earnings", middleware.RequireRoles(models.RoleTasker), h.GetEarnings)
			authed.GET("/earnings/report", middleware.RequireRoles(models.RoleTasker), h.DownloadEarningsReport)
		}
	}

	return r
}
