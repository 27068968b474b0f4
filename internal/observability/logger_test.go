package observability

import (
	"bytes"
	"log/slog"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/storm-viewer/internal/config"
)

func TestNewLogger_SharedFormats(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, format := range []string{"json", "text"} {
		logger := NewLogger(&config.Config{LogLevel: "debug", LogFormat: format})
		assert.NotNil(t, logger)
		assert.Same(t, logger, slog.Default(), "format %s", format)
		assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
	}
}

func TestNewLogger_Pretty(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := NewLogger(&config.Config{LogLevel: "error", LogFormat: "pretty"})
	assert.Same(t, logger, slog.Default())
	assert.False(t, logger.Enabled(t.Context(), slog.LevelWarn))
}

func TestNewPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewPrettyLogger(&buf, "warn")
	logger.Info("quiet")
	logger.Warn("loud", "storms", 3)
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Contains(t, buf.String(), "storms=3")
}

func TestCharmLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, charmLevel("DEBUG"))
	assert.Equal(t, charmlog.WarnLevel, charmLevel("warning"))
	assert.Equal(t, charmlog.ErrorLevel, charmLevel("error"))
	assert.Equal(t, charmlog.InfoLevel, charmLevel("nonsense"))
}
