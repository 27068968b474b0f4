//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, 10*time.Second, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_NearestPlace(t *testing.T) {
	c := smokeClient(t)

	// Centro Histórico, Ciudad de México
	place, err := c.NearestPlace(context.Background(), 19.4326, -99.1332)
	require.NoError(t, err)

	assert.NotEmpty(t, place.Name)
	assert.Contains(t, place.FormattedAddress, "México")
	assert.Greater(t, place.Confidence, 0.0)
}

func TestSmoke_NearestPlace_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	// Mid-Pacific is outside the country filter; any answer must not error.
	_, err := c.NearestPlace(context.Background(), 10, -130)
	require.NoError(t, err)
}

func TestSmoke_CachedPlaceNamer(t *testing.T) {
	cached := NewCachedPlaceNamer(smokeClient(t), 10)

	p1, err := cached.NearestPlace(context.Background(), 20.6597, -103.3496)
	require.NoError(t, err)
	assert.NotEmpty(t, p1.Name)

	p2, err := cached.NearestPlace(context.Background(), 20.6597, -103.3496)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}
