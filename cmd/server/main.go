package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/madara4356/zama-rank-checker/internal/api"
	"github.com/madara4356/zama-rank-checker/internal/cache"
	"github.com/madara4356/zama-rank-checker/internal/config"
	"github.com/madara4356/zama-rank-checker/internal/leaderboard"
	"github.com/madara4356/zama-rank-checker/internal/scheduler"
	"github.com/madara4356/zama-rank-checker/internal/upstream"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Zama Rank Checker")

	// Wire the aggregator: upstream client and snapshot cache are
	// constructed once here and injected.
	fetcher := upstream.NewClient(cfg.UpstreamBaseURL, cfg.FetchTimeout)
	snapshots := cache.NewMemoryCache(cfg.CacheTTL)
	aggregator := leaderboard.NewService(cfg, fetcher, snapshots)

	// Optional background snapshot warmer
	if cfg.EnableSnapshotWarmer {
		warmer := scheduler.NewService(aggregator)
		if err := warmer.Start(); err != nil {
			logrus.Fatalf("Failed to start snapshot warmer: %v", err)
		}
		defer warmer.Stop()
	}

	// Set up HTTP server
	handler := api.NewHandler(aggregator)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(handler.Router())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
