package mapbox

import (
	"context"
	"fmt"

	"github.com/couchcryptid/storm-viewer/internal/cache"
	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// CachedPlaceNamer wraps a PlaceNamer with an in-memory LRU cache. The rain
// grid is a fixed lattice, so the same peak coordinates come back on every
// reload.
type CachedPlaceNamer struct {
	inner domain.PlaceNamer
	cache *cache.LRU[domain.Place]
}

// NewCachedPlaceNamer creates a cache decorator around a place namer.
func NewCachedPlaceNamer(inner domain.PlaceNamer, maxEntries int) *CachedPlaceNamer {
	return &CachedPlaceNamer{
		inner: inner,
		cache: cache.NewLRU[domain.Place](maxEntries),
	}
}

// NearestPlace answers from the cache when a lookup within about 100 m was
// already made.
func (c *CachedPlaceNamer) NearestPlace(ctx context.Context, lat, lon float64) (domain.Place, error) {
	key := fmt.Sprintf("%.3f,%.3f", lat, lon)
	if place, ok := c.cache.Get(key); ok {
		return place, nil
	}
	place, err := c.inner.NearestPlace(ctx, lat, lon)
	if err != nil {
		return place, err
	}
	// Only cache named places so transient empty answers can be retried.
	if place.Name != "" {
		c.cache.Put(key, place)
	}
	return place, nil
}
