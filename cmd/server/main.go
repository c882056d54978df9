package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cesargomez89/vibefinder/internal/catalog"
	"github.com/cesargomez89/vibefinder/internal/config"
	httpapp "github.com/cesargomez89/vibefinder/internal/http"
	"github.com/cesargomez89/vibefinder/internal/logger"
	"github.com/cesargomez89/vibefinder/internal/ratelimit"
	"github.com/cesargomez89/vibefinder/internal/search"
	"github.com/cesargomez89/vibefinder/internal/store"
	"github.com/cesargomez89/vibefinder/internal/worker"
)

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(cfg.LoggerConfig())

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize providers and aggregator
	registry := catalog.NewRegistry(cfg.Credentials(), db, appLogger)
	aggregator := search.NewAggregator(registry.Providers(), cfg.SearchConfig(), appLogger).WithRecorder(db)

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateLimitBurst)

	// Initialize Worker
	w := worker.NewWorker(db, limiter, 5*time.Minute, appLogger)
	w.Start()
	defer w.Stop()

	// Routes
	h := httpapp.NewHandler(aggregator, db, limiter, appLogger)
	h.TrustProxy = cfg.TrustProxy

	// Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapp.NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr, "mock", cfg.Mock)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exiting")
}
