// Package mockbackend serves deterministic weather/storm fixtures on the
// same routes as the production backend. It backs local development
// (cmd/mockbackend) and the HTTP-level tests of the viewer.
package mockbackend

import (
	"math"
	"sort"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// ArchiveDate is the only date with a historical snapshot.
const ArchiveDate = "20240915"

// Storm ids present in the fixtures.
const (
	HurricaneID = "ep092024"
	StormID     = "al052024"
	InvestID    = "ep902024"
)

// LatestStorms is the /api/storms payload.
func LatestStorms() map[string]any {
	return map[string]any{
		"storm_1": map[string]any{
			"id":           HurricaneID,
			"name":         "Ileana",
			"basin":        domain.BasinEastPacific,
			"storm_type":   []string{"TD", "TS", "HU"},
			"max_wind":     85,
			"min_pressure": 982,
			"year":         2024,
			"season":       "2024",
			"ace":          3.1,
		},
		"storm_2": map[string]any{
			"id":           StormID,
			"name":         "Ernesto",
			"basin":        domain.BasinNorthAtlantic,
			"storm_type":   []string{"TD", "TS"},
			"max_wind":     55,
			"min_pressure": 1001,
			"year":         2024,
			"season":       "2024",
		},
		"storm_3": map[string]any{
			"id":         InvestID,
			"name":       nil,
			"basin":      domain.BasinEastPacific,
			"storm_type": []string{"DB"},
			"invest":     true,
			"max_wind":   25,
		},
		// Entries without an id are dropped by the normalizer.
		"storm_4": map[string]any{"name": "Orphan"},
	}
}

// ArchiveStorms is the snapshot stored for ArchiveDate, wrapped the way the
// dated endpoint wraps it.
func ArchiveStorms() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"tormentas_" + ArchiveDate: map[string]any{
				"storm_1": map[string]any{
					"id":           HurricaneID,
					"name":         "Ileana",
					"basin":        domain.BasinEastPacific,
					"storm_type":   []string{"TD", "TS"},
					"max_wind":     60,
					"min_pressure": 998,
					"year":         2024,
				},
				"storm_2": map[string]any{
					"id":           StormID,
					"name":         "Ernesto",
					"basin":        domain.BasinNorthAtlantic,
					"storm_type":   []string{"TS", "HU"},
					"max_wind":     90,
					"min_pressure": 975,
					"year":         2024,
				},
			},
		},
	}
}

// ImageIndices lists the archived image indices for a context on
// ArchiveDate; nil means the context has no images.
func ImageIndices(imageContext string) []int {
	switch imageContext {
	case domain.GeneralContext:
		return []int{0, 1, 2, 3}
	case HurricaneID:
		return []int{0, 1}
	case StormID:
		return []int{0}
	default:
		return nil
	}
}

// HasLatestImage reports whether /api/maps/{id} serves an image.
// Invests have no storm map.
func HasLatestImage(id string) bool {
	return id == HurricaneID || id == StormID
}

type rainCell struct {
	lat, lon, peak, spread float64
}

// Two rain cells: one over the Valley of Mexico, one off the Yucatán.
var rainCells = []rainCell{
	{lat: 19.4, lon: -99.1, peak: 4.5, spread: 2.5},
	{lat: 20.8, lon: -87.5, peak: 2.2, spread: 3},
}

// Precipitation is the fixture rain field at a coordinate, in mm.
func Precipitation(lat, lon float64) float64 {
	var total float64
	for _, c := range rainCells {
		d2 := (lat-c.lat)*(lat-c.lat) + (lon-c.lon)*(lon-c.lon)
		total += c.peak * math.Exp(-d2/(2*c.spread*c.spread))
	}
	return math.Round(total*100) / 100
}

// Bounding box of the realtime grid.
const (
	minLat, maxLat = 14.5, 32.7
	minLon, maxLon = -117.1, -86.7
)

// Grid lays a size x size lattice over Mexico. density thins the lattice to
// that percentage of points, keeping the wettest ones.
func Grid(size, density int) []domain.WeatherSample {
	if size < 2 {
		size = 2
	}
	samples := make([]domain.WeatherSample, 0, size*size)
	for i := range size {
		lat := minLat + (maxLat-minLat)*float64(i)/float64(size-1)
		for j := range size {
			lon := minLon + (maxLon-minLon)*float64(j)/float64(size-1)
			samples = append(samples, domain.WeatherSample{
				Lat:           math.Round(lat*1000) / 1000,
				Lon:           math.Round(lon*1000) / 1000,
				Precipitation: Precipitation(lat, lon),
			})
		}
	}

	if density <= 0 || density >= 100 {
		return samples
	}
	keep := len(samples) * density / 100
	sort.SliceStable(samples, func(a, b int) bool {
		return samples[a].Precipitation > samples[b].Precipitation
	})
	return samples[:keep]
}
