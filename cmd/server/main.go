package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/windfall/readaloud_service/internal/config"
	"github.com/windfall/readaloud_service/internal/handler/http"
	"github.com/windfall/readaloud_service/internal/logger"
	"github.com/windfall/readaloud_service/internal/prompt"
	"github.com/windfall/readaloud_service/internal/server"
	"github.com/windfall/readaloud_service/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("env", cfg.Environment).Msg("Starting readaloud_service")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prompts, err := prompt.Load(cfg.PromptsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load prompts")
	}

	// Initialize the model gateway. Without one the server still starts and
	// reports not ready; model calls fail with an upstream error.
	var gateway service.ModelGateway
	var providerName string

	gw, err := newModelGateway(ctx, cfg)
	var missing errMissingCredentials
	switch {
	case errors.As(err, &missing):
		log.Warn().Err(err).Msg("Model gateway not initialized")
	case err != nil:
		log.Error().Err(err).Str("provider", cfg.ModelProvider).Msg("Failed to initialize model gateway")
	default:
		gateway = gw
		providerName = gw.Name()
		log.Info().
			Str("provider", gw.Name()).
			Str("model", gw.Model()).
			Msg("Model gateway initialized")
	}

	// Initialize services
	passageService := service.NewPassageService(gateway, prompts, log)
	feedbackService := service.NewFeedbackService(gateway, prompts, log)

	// Initialize handlers
	healthHandler := http.NewHealthHandler(providerName)
	readingHandler := http.NewReadingHandler(log, passageService, feedbackService)

	// Initialize HTTP server
	httpServer := server.NewHTTPServer(cfg, log, healthHandler, readingHandler)

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server error")
			cancel()
		}
	}()

	log.Info().
		Str("http_addr", cfg.HTTPAddress()).
		Str("static_dir", cfg.StaticDir).
		Msg("Servers started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	healthHandler.SetReady(false)
	log.Info().Msg("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// Close clients
	if gw != nil {
		if err := gw.Close(); err != nil {
			log.Error().Err(err).Msg("Model gateway close error")
		}
	}

	log.Info().Msg("Server stopped")
}
