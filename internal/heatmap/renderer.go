package heatmap

import (
	"fmt"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// Surface is the map that draws the heatmap.
type Surface interface {
	HasLayer(id string) bool
	AddLayer(l Layer) error
	SetData(sourceID string, data FeatureCollection) error
	RemoveLayer(id string) error
}

// Renderer keeps a single heatmap layer on a surface in sync with the
// latest samples.
type Renderer struct {
	surface Surface
	kernel  Kernel
	paint   Paint
}

// NewRenderer creates a renderer drawing onto surface.
func NewRenderer(surface Surface, kernel Kernel) *Renderer {
	return &Renderer{surface: surface, kernel: kernel}
}

// Render draws samples at zoom. An existing layer has its data replaced in
// place; a changed paint re-adds it. When nothing survives the filter the
// layer is removed and false is returned.
func (r *Renderer) Render(samples []domain.WeatherSample, zoom float64) (Layer, bool, error) {
	layer, ok := BuildLayer(samples, zoom, r.kernel)
	if !ok {
		if err := r.Clear(); err != nil {
			return Layer{}, false, err
		}
		return Layer{}, false, nil
	}

	if r.surface.HasLayer(LayerID) {
		if samePaint(r.paint, layer.Paint) {
			if err := r.surface.SetData(SourceID, layer.Data); err != nil {
				return Layer{}, false, fmt.Errorf("set heatmap data: %w", err)
			}
			return layer, true, nil
		}
		if err := r.surface.RemoveLayer(LayerID); err != nil {
			return Layer{}, false, fmt.Errorf("remove heatmap layer: %w", err)
		}
	}

	if err := r.surface.AddLayer(layer); err != nil {
		return Layer{}, false, fmt.Errorf("add heatmap layer: %w", err)
	}
	r.paint = layer.Paint
	return layer, true, nil
}

// Clear removes the heatmap layer if present.
func (r *Renderer) Clear() error {
	if !r.surface.HasLayer(LayerID) {
		return nil
	}
	if err := r.surface.RemoveLayer(LayerID); err != nil {
		return fmt.Errorf("remove heatmap layer: %w", err)
	}
	return nil
}

func samePaint(a, b Paint) bool {
	return a.Radius == b.Radius && a.Blur == b.Blur && a.Intensity == b.Intensity && a.Opacity == b.Opacity
}

// Canvas is an in-memory Surface holding at most one layer per id. Sessions
// use it to keep the current heatmap for the view snapshot.
type Canvas struct {
	layers map[string]Layer
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{layers: make(map[string]Layer)}
}

func (c *Canvas) HasLayer(id string) bool {
	_, ok := c.layers[id]
	return ok
}

func (c *Canvas) AddLayer(l Layer) error {
	if _, ok := c.layers[l.LayerID]; ok {
		return fmt.Errorf("layer %q already exists", l.LayerID)
	}
	c.layers[l.LayerID] = l
	return nil
}

func (c *Canvas) SetData(sourceID string, data FeatureCollection) error {
	for id, l := range c.layers {
		if l.SourceID == sourceID {
			l.Data = data
			c.layers[id] = l
			return nil
		}
	}
	return fmt.Errorf("source %q not found", sourceID)
}

func (c *Canvas) RemoveLayer(id string) error {
	if _, ok := c.layers[id]; !ok {
		return fmt.Errorf("layer %q not found", id)
	}
	delete(c.layers, id)
	return nil
}

// Layer returns the layer stored under id.
func (c *Canvas) Layer(id string) (Layer, bool) {
	l, ok := c.layers[id]
	return l, ok
}
