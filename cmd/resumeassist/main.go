package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"resumeassist/internal/cli"
	"resumeassist/internal/config"
	"resumeassist/internal/errors"
	"resumeassist/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel, cfg.App.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Close() }()

	om, err := observability.NewObservabilityManager(observability.GetObservabilityConfig(cfg, cli.Version))
	if err != nil {
		logger.LogError(err, "Failed to initialize observability, continuing without it")
		om = observability.NewDisabledManager()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := om.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "Failed to flush telemetry")
		}
	}()

	logger.Debug("Starting resumeassist",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"backend", cfg.Backend.BaseURL)

	// Execute command with cancellable context
	if err := cli.Execute(ctx, cfg, logger, om); err != nil {
		logger.LogError(err, "Command failed")
		return 1
	}
	return 0
}
