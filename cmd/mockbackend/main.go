// Command mockbackend serves the deterministic weather/storm fixtures on the
// production backend routes, for running the viewer and stormctl locally.
//
// Usage:
//
//	go run ./cmd/mockbackend -addr :8000 -grid-delay 2s
//	BACKEND_URL=http://localhost:8000 go run ./cmd/viewer
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/storm-viewer/internal/mockbackend"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", sharedcfg.EnvOrDefault("MOCK_ADDR", ":8000"), "listen address")
	gridDelay := flag.Duration("grid-delay", 0, "hold realtime grid responses this long")
	logLevel := flag.String("log-level", sharedcfg.EnvOrDefault("LOG_LEVEL", "info"), "log level")
	logFormat := flag.String("log-format", sharedcfg.EnvOrDefault("LOG_FORMAT", "pretty"), "log format (json, text, pretty)")
	flag.Parse()

	var logger *slog.Logger
	if *logFormat == "pretty" {
		logger = observability.NewPrettyLogger(os.Stderr, *logLevel)
		slog.SetDefault(logger)
	} else {
		logger = sharedobs.NewLogger(*logLevel, *logFormat)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockbackend.NewHandler(mockbackend.Options{GridDelay: *gridDelay, Logger: logger}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("mock backend listening", "addr", *addr, "archive_date", mockbackend.ArchiveDate, "grid_delay", *gridDelay)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
