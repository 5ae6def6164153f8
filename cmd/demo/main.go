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
	"go.uber.org/zap"

	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/adapter/client"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/demo"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/config"
	"github.com/James-Crockett/Support-Ticket-Auto-Triage/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Log, logger.WithService("triage-demo"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	gin.SetMode(cfg.Server.Mode)

	api := client.NewTriageClient(cfg.Demo.APIURL, cfg.Demo.HealthTimeout, cfg.Demo.PredictTimeout)
	server := demo.NewServer(api, log)

	addr := cfg.Demo.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Demo.HealthTimeout + cfg.Demo.PredictTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Starting demo", zap.String("address", addr), zap.String("api_url", api.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Demo server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down demo...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Demo forced to shutdown", zap.Error(err))
	}

	log.Info("Demo exited")
	return nil
}
