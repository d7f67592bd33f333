package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"amberreview/config"
	"amberreview/internal/catalog"
	"amberreview/internal/model"
	"amberreview/internal/repository"
	"amberreview/internal/service"
	"amberreview/internal/transport/rest"
	"amberreview/internal/transport/ws"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// The prompt catalog is the only thing that lives outside the process.
	// Without a Mongo URI the embedded catalog is used.
	prompts := loadPrompts(ctx, cfg)
	log.Printf("Prompt catalog loaded: %d prompts", len(prompts))

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize registry and background sweeper
	registry := service.NewRegistry(cfg.RoomTTL)
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	defer sweepCancel()
	registry.StartSweeper(sweepCtx, cfg.SweepInterval)
	log.Printf("Room sweeper started (ttl=%s interval=%s)", cfg.RoomTTL, cfg.SweepInterval)

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWTSecret)
	gameSvc := service.NewGameService(registry, prompts, cfg.RevealDelay)
	roomSvc := service.NewRoomService(registry, gameSvc, authSvc, prompts)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	gameSvc.SetBroadcaster(wsHub)
	roomSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService: authSvc,
		RoomService: roomSvc,
		GameService: gameSvc,
		WSHub:       wsHub,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Println("Endpoints:")
		log.Println("  POST /v1/rooms")
		log.Println("  POST /v1/rooms/{code}/join")
		log.Println("  GET  /v1/rooms/{code}/state")
		log.Println("  POST /v1/rooms/{code}/start")
		log.Println("  POST /v1/rooms/{code}/review")
		log.Println("  POST /v1/rooms/{code}/vote")
		log.Println("  POST /v1/rooms/{code}/advance")
		log.Println("  POST /v1/rooms/{code}/leave")
		log.Println("  WS   /v1/ws/rooms/{code}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

func loadPrompts(ctx context.Context, cfg *config.Config) []model.Prompt {
	if cfg.MongoURI == "" {
		log.Println("Warning: MONGO_URI not set, using embedded prompt catalog")
		return catalog.Default
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Printf("Warning: MongoDB connect failed (%v), using embedded prompt catalog", err)
		return catalog.Default
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(connectCtx, nil); err != nil {
		log.Printf("Warning: MongoDB ping failed (%v), using embedded prompt catalog", err)
		return catalog.Default
	}

	repo := repository.NewPromptRepo(client.Database(cfg.MongoDatabase))
	prompts, err := repo.LoadAll(connectCtx)
	if err != nil {
		log.Printf("Warning: prompt catalog load failed (%v), using embedded prompt catalog", err)
		return catalog.Default
	}
	if len(prompts) == 0 {
		log.Println("Warning: prompt catalog is empty, using embedded prompt catalog")
		return catalog.Default
	}

	log.Println("Connected to MongoDB")
	return prompts
}
