package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finn/cloudcost-dashboard/internal/api"
	"github.com/finn/cloudcost-dashboard/internal/config"
	"github.com/finn/cloudcost-dashboard/internal/directory"
	"github.com/finn/cloudcost-dashboard/internal/service"
	"github.com/finn/cloudcost-dashboard/internal/store"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Open the persistent store
	st, err := store.OpenSQLite(cfg.StorePath)
	if err != nil {
		log.Fatalf("failed to open store at %s: %v", cfg.StorePath, err)
	}

	// Seed the credential directory with the demo accounts
	dir, err := directory.Seed()
	if err != nil {
		log.Fatalf("failed to seed credential directory: %v", err)
	}

	// Initialize services
	services, err := service.NewServices(dir, st, cfg)
	if err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	// Settle any persisted session before serving requests
	if profile := services.Session.CheckSession(); profile != nil {
		log.Printf("Resumed session for %s", profile.Email)
	}

	// Initialize router
	router := api.NewRouter(services, dir)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
