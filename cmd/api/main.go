package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/classifier"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/http/router"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/cache"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/config"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/logger"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/metrics"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log, logger.WithService("triage-api"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	// Load the model once; a failure leaves the service up but not ready
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Model.Timeout)
	model, err := classifier.Load(loadCtx, &cfg.Model, log)
	cancelLoad()
	if err != nil {
		log.Error("Failed to load model, serving with model_loaded=false", zap.Error(err))
	}

	// Prediction cache (optional, continue without it)
	predictionCache, redisClient := setupCache(cfg, log)
	if model != nil && predictionCache != nil {
		model = classifier.Cached(model, predictionCache, m, log)
	}

	triageUC := usecase.NewTriageUsecase(model, cfg.Model.Device, m, log)

	// Setup router
	r := router.Setup(router.Deps{
		Triage:   triageUC,
		Cache:    predictionCache,
		Metrics:  m,
		Gatherer: registry,
		Logger:   log,
	})

	// Create HTTP server
	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Model.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Close Redis connection
	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("Server exited")
	return nil
}

func setupCache(cfg *config.Config, log *zap.Logger) (cache.PredictionCache, *redis.Client) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		c, err := cache.NewMemoryPredictionCache(cfg.Cache.SizeMB, cfg.Cache.TTL)
		if err != nil {
			log.Warn("Failed to create memory cache, continuing without cache", zap.Error(err))
			return nil, nil
		}
		log.Info("Using in-memory prediction cache", zap.Int("size_mb", cfg.Cache.SizeMB))
		return c, nil
	case config.CacheRedis:
		client, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", zap.Error(err))
			return nil, nil
		}
		log.Info("Connected to Redis", zap.String("address", cfg.Redis.Address()))
		return cache.NewRedisPredictionCache(client, cfg.Cache.TTL), client
	default:
		return nil, nil
	}
}
