package viewer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/couchcryptid/storm-viewer/internal/background"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// Backend is the weather/storm backend as seen by a session.
type Backend interface {
	URLs() domain.ImageURLs
	LatestStorms(ctx context.Context) (map[string]json.RawMessage, error)
	StormsByDate(ctx context.Context, date string) (map[string]json.RawMessage, error)
	LatestSnapshotJSON(ctx context.Context) (json.RawMessage, error)
	SnapshotJSON(ctx context.Context, date string) (json.RawMessage, error)
	StormJSON(ctx context.Context, date, id string) (json.RawMessage, error)
	ImageIndices(ctx context.Context, date, imageContext string) ([]int, error)
	CheckLatestImage(ctx context.Context, id string) error
	CityPrecipitation(ctx context.Context, name string) (domain.CityPrecipitation, error)
	RealtimeGrid(ctx context.Context, gridSize, density int) ([]domain.WeatherSample, error)
}

// EventPublisher receives a record of every applied navigation action.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ViewEvent) error
}

// Deps are the collaborators shared by all sessions.
type Deps struct {
	Backend Backend
	// Places labels the heaviest-rain sample of the grid. Optional.
	Places domain.PlaceNamer
	// Events receives view events. Optional.
	Events EventPublisher
	// Background describes the home screen animation. Defaults to
	// background.Disabled.
	Background background.Renderer
	// Kernel sizes heatmap blobs. Defaults to heatmap.DefaultKernel.
	Kernel heatmap.Kernel

	Logger  *slog.Logger
	Metrics *observability.Metrics

	GridSize    int
	GridDensity int
}

func (d Deps) withDefaults() Deps {
	if d.Background == nil {
		d.Background = background.Disabled{}
	}
	if d.Kernel == nil {
		d.Kernel = heatmap.DefaultKernel()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = observability.NewMetricsForTesting()
	}
	if d.GridSize == 0 {
		d.GridSize = 15
	}
	if d.GridDensity == 0 {
		d.GridDensity = 100
	}
	return d
}
