package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livechat-backend/internal/config"
	"livechat-backend/internal/database"
	"livechat-backend/internal/handler"
	"livechat-backend/internal/middleware"
	"livechat-backend/internal/repository"
	"livechat-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations applied successfully")

	// Repositories
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Services
	hub := service.NewHub()
	responder := service.NewResponder(
		service.NewCompletionClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AITimeout),
		cfg.AIModel,
	)
	chatSvc := service.NewChatService(convRepo, msgRepo, hub, responder)
	authSvc := service.NewAuthService(adminRepo, cfg.JWTSecret)

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// Embeddable widget script
	app.Static("/widget", cfg.WidgetDir)

	// Dashboard read surface
	api := app.Group("/api")
	convH := handler.NewConversationHandler(convRepo, msgRepo)
	api.Get("/conversations", convH.List)
	api.Get("/conversations/:id", convH.Get)
	api.Get("/search", convH.Search)
	api.Get("/stats", convH.Stats)

	// Admin auth
	authH := handler.NewAuthHandler(authSvc)
	admin := api.Group("/admin")
	admin.Post("/register", middleware.RateLimit(5, time.Minute), authH.Register)
	admin.Post("/login", middleware.RateLimit(10, time.Minute), authH.Login)
	admin.Get("/me", middleware.Auth(cfg.JWTSecret), authH.Me)

	// WebSocket
	wsH := handler.NewWSHandler(hub, chatSvc)
	app.Get("/ws", wsH.Upgrade)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("Livechat backend running on :%s (%s)", cfg.Port, cfg.Env)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	log.Println("Server stopped")
}
