package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"insightseo/infrastructure/config"
	"insightseo/infrastructure/di"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if container.Telemetry.CloudWatch != nil {
		go container.Telemetry.CloudWatch.Run(ctx, 30*time.Second)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           container.Router.Setup(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("metrics", cfg.Metrics.Provider),
			zap.Bool("tracing", cfg.Tracing.Enabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		container.Logger.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-serverErr:
		container.Logger.Error("Server failed", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Server shutdown error", zap.Error(err))
	}

	// Stops the CloudWatch flusher, which flushes once more on exit
	cancel()

	if err := container.Shutdown(shutdownCtx); err != nil {
		container.Logger.Error("Telemetry shutdown error", zap.Error(err))
	}

	// Clean up resources
	_ = container.Logger.Sync()

	log.Println("Server stopped")
}
