package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/internal/gateway"
	"github.com/driveline/driveline/internal/handler"
	"github.com/driveline/driveline/internal/repository"
	"github.com/driveline/driveline/internal/router"
	"github.com/driveline/driveline/internal/service"
	"github.com/driveline/driveline/internal/upload"
	"github.com/driveline/driveline/pkg/constant"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
)

func main() {
	ctx := context.TODO()

	// Load configuration
	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	// Initialize Redis key prefix
	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	// Initialize repositories
	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	// Check database connection
	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Initialize services
	saver := upload.NewSaver(cfg)
	authService := service.NewAuthService(repos.User, cfg)
	userService := service.NewUserService(repos.User)
	carService := service.NewCarService(repos)
	bookingService := service.NewBookingService(repos)
	staffService := service.NewStaffService(repos.Staff)
	formService := service.NewFormService(repos)
	chatService := service.NewChatService(repos)
	presenceService := service.NewPresenceService(repos)

	// Initialize WebSocket server around its presence registry
	registry := gateway.NewPresenceRegistry(repos.Redis, repos.User)
	wsServer := gateway.NewWsServer(cfg, registry)

	// Wire real-time delivery into the chat service
	chatService.SetPusher(wsServer)

	// Start WebSocket server
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket server started")

	// Initialize handlers
	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService, saver),
		User:    handler.NewUserHandler(userService, saver),
		Car:     handler.NewCarHandler(carService, saver),
		Booking: handler.NewBookingHandler(bookingService),
		Staff:   handler.NewStaffHandler(staffService, saver),
		Form:    handler.NewFormHandler(formService, saver),
		Chat:    handler.NewChatHandler(chatService, presenceService, saver),
	}

	// Create Hertz server
	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	// Setup routes
	router.SetupRouter(h, handlers, wsServer)

	// Optional standalone WebSocket listener on a dedicated port
	var wsListener *http.Server
	if cfg.Server.WSPort != cfg.Server.HTTPPort {
		wsListener = startStandaloneWsListener(cfg, wsServer)
	}

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	// Start server in goroutine
	go func() {
		h.Spin()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	// Graceful shutdown
	if wsListener != nil {
		if err := wsListener.Shutdown(ctx); err != nil {
			log.CtxError(ctx, "ws listener shutdown error: %v", err)
		}
	}
	if err := h.Shutdown(ctx); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}

// startStandaloneWsListener serves /ws on its own port for deployments that
// keep websocket traffic off the main HTTP listener
func startStandaloneWsListener(cfg *config.Config, wsServer *gateway.WsServer) *http.Server {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		wsServer.HandleConnection(upgrader, w, r)
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.WSPort),
		Handler: mux,
	}

	go func() {
		log.Info("standalone websocket listener on port %d", cfg.Server.WSPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn("ws listener stopped: %v", err)
		}
	}()

	return srv
}
