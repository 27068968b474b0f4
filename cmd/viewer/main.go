// Command viewer serves the storm viewer's view API: per-client sessions that
// hold navigation state, fetch from the weather/storm backend and expose the
// composed screens as JSON.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/storm-viewer/internal/adapter/backend"
	httpadapter "github.com/couchcryptid/storm-viewer/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/storm-viewer/internal/adapter/kafka"
	"github.com/couchcryptid/storm-viewer/internal/adapter/mapbox"
	"github.com/couchcryptid/storm-viewer/internal/background"
	"github.com/couchcryptid/storm-viewer/internal/config"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/observability"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := backend.NewClient(cfg.BackendURL, logger,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithGridTimeout(cfg.GridTimeout),
		backend.WithMetrics(metrics),
	)
	var source backend.Source = client
	if cfg.ArchiveCacheSize > 0 {
		source = backend.NewCachedClient(client, cfg.ArchiveCacheSize, metrics)
		logger.Info("archive cache enabled", "size", cfg.ArchiveCacheSize)
	}

	// Initialize place namer (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var places domain.PlaceNamer
	if cfg.MapboxEnabled {
		mb := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		places = mapbox.NewCachedPlaceNamer(mb, cfg.MapboxCacheSize)
		logger.Info("mapbox place names enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox place names disabled")
	}

	var events viewer.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, metrics, logger)
		events = writer
		logger.Info("view events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	manager := viewer.NewManager(viewer.Deps{
		Backend:     source,
		Places:      places,
		Events:      events,
		Background:  background.NewParticleField(background.DefaultConfig()),
		Logger:      logger,
		Metrics:     metrics,
		GridSize:    cfg.GridSize,
		GridDensity: cfg.GridDensity,
	}, cfg.SessionTTL, clockwork.NewRealClock())

	srv := httpadapter.NewServer(cfg.HTTPAddr, manager, cfg.CORSOrigins, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start session manager.
	managerDone := make(chan struct{})
	go func() {
		defer close(managerDone)
		if err := manager.Run(ctx); err != nil {
			logger.Error("session manager error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-managerDone:
	case <-shutdownCtx.Done():
		logger.Warn("session manager did not stop in time")
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
