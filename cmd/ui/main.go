package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"futures-review/internal/config"
	"futures-review/internal/logger"
	"futures-review/internal/server"
	"futures-review/internal/store"
	"futures-review/internal/tracing"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	stopTracing, err := tracing.Setup(cfg.Tracing, "journal-api")
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Create the trades table before serving
	journal := store.New(cfg.Database.Path, log)
	if err := journal.Initialize(context.Background()); err != nil {
		log.Fatal("Failed to initialize journal database", zap.Error(err))
	}
	log.Info("Journal database ready", zap.String("path", journal.Path()))

	srv := server.New(cfg.Server.Port, journal, log)
	srv.Start()

	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
	<-sigchan
	log.Info("Shutdown signal received, gracefully shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := stopTracing(ctx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	log.Info("Server has been shut down.")
}
