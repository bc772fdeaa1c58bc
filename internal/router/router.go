package router

import (
	"context"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/internal/gateway"
	"github.com/driveline/driveline/internal/handler"
	"github.com/driveline/driveline/internal/middleware"
	"github.com/hertz-contrib/websocket"
)

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Car     *handler.CarHandler
	Booking *handler.BookingHandler
	Staff   *handler.StaffHandler
	Form    *handler.FormHandler
	Chat    *handler.ChatHandler
}

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer) {
	cfg := config.GlobalConfig

	// CORS middleware
	h.Use(middleware.CORS())

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]interface{}{
			"status":       "ok",
			"online_users": wsServer.GetOnlineUserCount(),
			"online_conns": wsServer.GetOnlineConnCount(),
		})
	})

	// Uploaded images are served straight off disk
	h.Static("/uploads", cfg.Upload.Dir)

	// Auth routes
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/change-password", middleware.JWTAuth(), handlers.Auth.ChangePassword)
		authGroup.POST("/delete-account", middleware.JWTAuth(), handlers.Auth.DeleteAccount)
	}

	// Profile routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth())
	{
		userGroup.GET("/profile", handlers.User.GetProfile)
		userGroup.PUT("/profile", handlers.User.UpdateProfile)
		userGroup.POST("/avatar", handlers.User.UploadAvatar)
	}

	// Car inventory: browsing is public, management needs staff role
	carGroup := h.Group("/api/cars")
	{
		carGroup.GET("", handlers.Car.List)
		carGroup.GET("/:id", handlers.Car.Get)

		staffOnly := carGroup.Group("", middleware.JWTAuth(), middleware.RequireStaff())
		staffOnly.POST("", handlers.Car.Create)
		staffOnly.PUT("/:id", handlers.Car.Update)
		staffOnly.DELETE("/:id", handlers.Car.Delete)
		staffOnly.POST("/upload-image", handlers.Car.UploadImage)
		staffOnly.POST("/upload-gallery", handlers.Car.UploadGallery)
	}

	// Booking routes (auth required)
	bookingGroup := h.Group("/api/bookings", middleware.JWTAuth())
	{
		bookingGroup.POST("", handlers.Booking.Create)
		bookingGroup.GET("/mine", handlers.Booking.ListMine)
		bookingGroup.PUT("/:id", handlers.Booking.Edit)
		bookingGroup.POST("/:id/cancel", handlers.Booking.Cancel)
	}

	// Public staff directory
	h.GET("/api/staff", handlers.Staff.ListPublic)

	// Verification forms (auth required)
	formGroup := h.Group("/forms", middleware.JWTAuth())
	{
		formGroup.POST("", handlers.Form.Submit)
		formGroup.PUT("/:id", handlers.Form.Update)
		formGroup.GET("/mine", handlers.Form.GetMine)
	}

	// Admin surfaces (staff role required)
	adminGroup := h.Group("/admin", middleware.JWTAuth(), middleware.RequireStaff())
	{
		adminGroup.GET("/users", handlers.User.List)
		adminGroup.POST("/users", handlers.User.Create)
		adminGroup.PUT("/users/:id", handlers.User.Update)
		adminGroup.DELETE("/users/:id", handlers.User.Delete)

		adminGroup.GET("/bookings", handlers.Booking.ListAll)
		adminGroup.PATCH("/bookings/:id/status", handlers.Booking.UpdateStatus)
		adminGroup.DELETE("/bookings/:id", handlers.Booking.Delete)

		adminGroup.GET("/staff", handlers.Staff.List)
		adminGroup.POST("/staff", handlers.Staff.Create)
		adminGroup.PUT("/staff/:id", handlers.Staff.Update)
		adminGroup.PATCH("/staff/:id/visibility", handlers.Staff.SetVisibility)
		adminGroup.DELETE("/staff/:id", handlers.Staff.Delete)
		adminGroup.POST("/staff/upload-avatar", handlers.Staff.UploadAvatar)

		adminGroup.GET("/forms", handlers.Form.ListAll)
		adminGroup.GET("/forms/:id", handlers.Form.Get)
		adminGroup.PATCH("/forms/:id/status", handlers.Form.UpdateStatus)
		adminGroup.DELETE("/forms/:id", handlers.Form.Delete)
	}

	// Chat API. Caller identity travels in the request per the client contract.
	chatGroup := h.Group("/api/chat")
	{
		chatGroup.POST("/messages", handlers.Chat.SendMessage)
		chatGroup.GET("/messages/:otherUserId", handlers.Chat.GetMessages)
		chatGroup.POST("/messages/read", handlers.Chat.MarkRead)
		chatGroup.GET("/unread-summary", handlers.Chat.UnreadSummary)
		chatGroup.GET("/presence", handlers.Chat.Presence)
		chatGroup.POST("/upload-image", handlers.Chat.UploadImage)
	}

	// WebSocket route using hertz-contrib/websocket with origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// If no origin header, allow (same-origin request or non-browser client)
	if origin == "" {
		return true
	}

	// If no allowed origins configured, reject all cross-origin requests in production
	if len(allowedOrigins) == 0 {
		return false
	}

	// Check against allowed origins
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			// Wildcard - allow all (only use in development!)
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}
