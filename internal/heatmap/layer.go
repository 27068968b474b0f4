package heatmap

import (
	"math"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

const (
	// SourceID and LayerID name the rain heatmap on the map surface.
	SourceID = "intensity-data"
	LayerID  = "rain-heatmap"

	// MinPrecipitation is the lowest reading (mm) that gets plotted.
	MinPrecipitation = 0.5
	// SaturationPrecipitation is the reading (mm) at which intensity reaches 1.
	SaturationPrecipitation = 3.0
)

// GeoJSON types for the heatmap source.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Paint holds the heatmap layer styling.
type Paint struct {
	Radius    float64 `json:"radius"`
	Blur      float64 `json:"blur"`
	Intensity float64 `json:"intensity"`
	Opacity   float64 `json:"opacity"`
	Colors    Ramp    `json:"colors"`
}

// Layer is a ready-to-draw heatmap.
type Layer struct {
	SourceID string               `json:"source_id"`
	LayerID  string               `json:"layer_id"`
	Data     FeatureCollection    `json:"data"`
	Paint    Paint                `json:"paint"`
	Total    int                  `json:"total"`
	Plotted  int                  `json:"plotted"`
	Peak     domain.WeatherSample `json:"peak"`
}

// Filter keeps samples with at least MinPrecipitation.
func Filter(samples []domain.WeatherSample) []domain.WeatherSample {
	out := make([]domain.WeatherSample, 0, len(samples))
	for _, s := range samples {
		if s.Precipitation >= MinPrecipitation {
			out = append(out, s)
		}
	}
	return out
}

// Intensity maps precipitation to [0, 1], saturating at SaturationPrecipitation.
func Intensity(precipitation float64) float64 {
	return math.Min(precipitation/SaturationPrecipitation, 1)
}

// BuildLayer converts samples into a heatmap layer. It returns false when no
// sample survives the filter.
func BuildLayer(samples []domain.WeatherSample, zoom float64, k Kernel) (Layer, bool) {
	features := make([]Feature, 0, len(samples))
	var peak domain.WeatherSample
	for i, s := range samples {
		if s.Precipitation < MinPrecipitation {
			continue
		}
		if len(features) == 0 || s.Precipitation > peak.Precipitation {
			peak = s
		}
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{s.Lon, s.Lat},
			},
			Properties: map[string]any{
				"intensity":     Intensity(s.Precipitation),
				"precipitation": s.Precipitation,
				"id":            i,
			},
		})
	}
	if len(features) == 0 {
		return Layer{}, false
	}

	return Layer{
		SourceID: SourceID,
		LayerID:  LayerID,
		Data:     FeatureCollection{Type: "FeatureCollection", Features: features},
		Paint:    paintFor(zoom, k),
		Total:    len(samples),
		Plotted:  len(features),
		Peak:     peak,
	}, true
}

func paintFor(zoom float64, k Kernel) Paint {
	return Paint{
		Radius:    k.Radius(zoom),
		Blur:      k.Blur(zoom),
		Intensity: 1,
		Opacity:   1,
		Colors:    DensityRamp,
	}
}
