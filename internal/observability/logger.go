package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/storm-viewer/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and sets
// it as the slog default. "json" and "text" come from the shared package;
// "pretty" is the colourised terminal handler.
func NewLogger(cfg *config.Config) *slog.Logger {
	if strings.EqualFold(cfg.LogFormat, "pretty") {
		logger := NewPrettyLogger(os.Stderr, cfg.LogLevel)
		slog.SetDefault(logger)
		return logger
	}
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// NewPrettyLogger builds a charmbracelet handler writing to w, for
// terminals and CLI tools.
func NewPrettyLogger(w io.Writer, level string) *slog.Logger {
	h := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmLevel(level),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return slog.New(h)
}

// DiscardLogger drops everything; used by tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func charmLevel(s string) charmlog.Level {
	if strings.EqualFold(s, "warning") {
		s = "warn"
	}
	lvl, err := charmlog.ParseLevel(s)
	if err != nil {
		return charmlog.InfoLevel
	}
	return lvl
}
