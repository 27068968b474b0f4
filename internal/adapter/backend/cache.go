package backend

import (
	"context"
	"encoding/json"

	"github.com/couchcryptid/storm-viewer/internal/cache"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/observability"
)

// Source is the full set of backend reads used by the viewer.
type Source interface {
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

// CachedClient wraps a Source with an in-memory LRU cache for the
// date-scoped endpoints. Archived days do not change, so their responses
// are reused; latest and realtime calls always pass through. Cached values
// are shared and must be treated as read-only.
type CachedClient struct {
	Source
	cache   *cache.LRU[any]
	metrics *observability.Metrics
}

// NewCachedClient creates a cache decorator around a backend source.
func NewCachedClient(inner Source, maxEntries int, metrics *observability.Metrics) *CachedClient {
	return &CachedClient{
		Source:  inner,
		cache:   cache.NewLRU[any](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedClient) StormsByDate(ctx context.Context, date string) (map[string]json.RawMessage, error) {
	key := "storms:" + date
	if v, ok := c.lookup(key); ok {
		return v.(map[string]json.RawMessage), nil
	}
	storms, err := c.Source.StormsByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty snapshots so a day still being written can be retried.
	if len(storms) > 0 {
		c.cache.Put(key, storms)
	}
	return storms, nil
}

func (c *CachedClient) SnapshotJSON(ctx context.Context, date string) (json.RawMessage, error) {
	key := "snapshot:" + date
	if v, ok := c.lookup(key); ok {
		return v.(json.RawMessage), nil
	}
	raw, err := c.Source.SnapshotJSON(ctx, date)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, raw)
	return raw, nil
}

func (c *CachedClient) StormJSON(ctx context.Context, date, id string) (json.RawMessage, error) {
	key := "storm:" + date + "|" + id
	if v, ok := c.lookup(key); ok {
		return v.(json.RawMessage), nil
	}
	raw, err := c.Source.StormJSON(ctx, date, id)
	if err != nil {
		return nil, err
	}
	c.cache.Put(key, raw)
	return raw, nil
}

func (c *CachedClient) ImageIndices(ctx context.Context, date, imageContext string) ([]int, error) {
	key := "images:" + date + "|" + imageContext
	if v, ok := c.lookup(key); ok {
		return v.([]int), nil
	}
	indices, err := c.Source.ImageIndices(ctx, date, imageContext)
	if err != nil {
		return nil, err
	}
	if len(indices) > 0 {
		c.cache.Put(key, indices)
	}
	return indices, nil
}

func (c *CachedClient) lookup(key string) (any, bool) {
	v, ok := c.cache.Get(key)
	if ok {
		c.metrics.ArchiveCache.WithLabelValues("hit").Inc()
	} else {
		c.metrics.ArchiveCache.WithLabelValues("miss").Inc()
	}
	return v, ok
}
