package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"opsassistant/internal/config"
	"opsassistant/internal/server"
)

// janitorInterval is how often expired session entries are purged
const janitorInterval = 10 * time.Minute

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logger
	logger := cfg.SetupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the session store
	store, closeStore, err := server.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("session_store", cfg.SessionStore).Msg("Session store unavailable")
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close session store")
		}
	}()

	go server.RunJanitor(ctx, store, janitorInterval, logger)

	// Create and initialize server
	srv := server.New(cfg, store, logger)
	srv.Initialize()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}
}
