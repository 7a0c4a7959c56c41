package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dia-app/dia/backend/config"
	"github.com/dia-app/dia/backend/internal/logger"
	"github.com/dia-app/dia/backend/internal/server"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogOutput,
	})
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	srv, err := server.Open(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	exitCode := 0
	select {
	case err := <-errChan:
		if err != nil {
			log.Error("Server error", "error", err)
			exitCode = 1
		}
	case sig := <-quit:
		log.Info("Received signal", "signal", sig.String())
	}

	log.Info("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Error("Server shutdown error", "error", err)
		exitCode = 1
	}
	log.Info("Server stopped")
	os.Exit(exitCode)
}
