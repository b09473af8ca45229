package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"restaurant-api/internal/common/config"
	"restaurant-api/internal/common/logger"
	"restaurant-api/internal/common/observability"
	"restaurant-api/internal/common/places"
	getrestaurants "restaurant-api/internal/handlers/get-restaurants"
	"restaurant-api/internal/server"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}
	_ = bootLog.Sync()

	zapLog := logger.NewFromConfig(cfg.Logging).With(
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting restaurant API...")

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	placesClient := places.NewClient(&places.Config{
		BaseURL:      cfg.Places.BaseURL,
		PhotoBaseURL: cfg.Places.PhotoBaseURL,
		APIKey:       cfg.Places.APIKey,
		Timeout:      config.GetDuration(cfg.Places.Timeout),
	}, log, obs)

	handler := getrestaurants.NewHandler(getrestaurants.LoadConfig(cfg), placesClient, log)
	srv := server.New(cfg, handler, obs, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
		return
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, stopping server...", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down http server", zap.Error(err))
	}

	zapLog.Info("Restaurant API stopped gracefully")
}
