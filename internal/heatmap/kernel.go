package heatmap

import "math"

// Kernel sizes the heatmap blobs for a map zoom level.
type Kernel interface {
	Radius(zoom float64) float64
	Blur(zoom float64) float64
}

// ZoomKernel scales radius and blur as base * growth^(reference - zoom),
// so blobs keep a similar geographic footprint as the map zooms.
type ZoomKernel struct {
	BaseRadius    float64
	BaseBlur      float64
	Growth        float64
	ReferenceZoom float64
}

// DefaultKernel gives a 20px radius at the reference zoom 5.
func DefaultKernel() ZoomKernel {
	return ZoomKernel{BaseRadius: 20, BaseBlur: 1, Growth: 1.5, ReferenceZoom: 5}
}

func (k ZoomKernel) Radius(zoom float64) float64 {
	return k.BaseRadius * k.scale(zoom)
}

func (k ZoomKernel) Blur(zoom float64) float64 {
	return k.BaseBlur * k.scale(zoom)
}

func (k ZoomKernel) scale(zoom float64) float64 {
	return math.Pow(k.Growth, k.ReferenceZoom-zoom)
}

// Fixed ignores zoom.
type Fixed struct {
	RadiusPx float64
	BlurPx   float64
}

func (f Fixed) Radius(float64) float64 { return f.RadiusPx }
func (f Fixed) Blur(float64) float64   { return f.BlurPx }
