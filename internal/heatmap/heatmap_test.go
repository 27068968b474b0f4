package heatmap

import (
	"testing"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_Threshold(t *testing.T) {
	samples := []domain.WeatherSample{
		{Lat: 1, Lon: 1, Precipitation: 0.49},
		{Lat: 2, Lon: 2, Precipitation: 0.5},
		{Lat: 3, Lon: 3, Precipitation: 0},
		{Lat: 4, Lon: 4, Precipitation: 7},
	}

	got := Filter(samples)
	want := []domain.WeatherSample{
		{Lat: 2, Lon: 2, Precipitation: 0.5},
		{Lat: 4, Lon: 4, Precipitation: 7},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Filter() mismatch (-want +got):\n%s", diff)
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		p    float64
		want float64
	}{
		{0.5, 0.5 / 3},
		{1.5, 0.5},
		{3, 1},
		{3.2, 1},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Intensity(tt.p), 1e-9, "p=%v", tt.p)
	}
}

func TestBuildLayer(t *testing.T) {
	samples := []domain.WeatherSample{
		{Lat: 19.4, Lon: -99.1, Precipitation: 0.2},
		{Lat: 20.6, Lon: -103.3, Precipitation: 3.2},
		{Lat: 21.1, Lon: -86.8, Precipitation: 1.5},
	}

	layer, ok := BuildLayer(samples, 5, DefaultKernel())
	require.True(t, ok)

	assert.Equal(t, 3, layer.Total)
	assert.Equal(t, 2, layer.Plotted)
	assert.Equal(t, "FeatureCollection", layer.Data.Type)
	require.Len(t, layer.Data.Features, 2)

	f := layer.Data.Features[0]
	assert.Equal(t, []float64{-103.3, 20.6}, f.Geometry.Coordinates, "GeoJSON is lon,lat")
	assert.InDelta(t, 1.0, f.Properties["intensity"], 1e-9)
	assert.Equal(t, 1, f.Properties["id"])
	assert.Equal(t, 3.2, layer.Peak.Precipitation)
	assert.InDelta(t, 20, layer.Paint.Radius, 1e-9)
}

func TestBuildLayer_AllBelowThreshold(t *testing.T) {
	_, ok := BuildLayer([]domain.WeatherSample{{Precipitation: 0.1}}, 5, DefaultKernel())
	assert.False(t, ok)
}

func TestZoomKernel(t *testing.T) {
	k := DefaultKernel()
	assert.InDelta(t, 20, k.Radius(5), 1e-9)
	assert.InDelta(t, 30, k.Radius(4), 1e-9)
	assert.InDelta(t, 20.0/1.5, k.Radius(6), 1e-9)
	assert.InDelta(t, 1.5, k.Blur(4), 1e-9)

	f := Fixed{RadiusPx: 12, BlurPx: 0.5}
	assert.InDelta(t, 12, f.Radius(1), 1e-9)
	assert.InDelta(t, 12, f.Radius(12), 1e-9)
}

func TestRamp_At(t *testing.T) {
	assert.Equal(t, RGBA{0, 200, 0, 0}, DensityRamp.At(-1))
	assert.Equal(t, RGBA{255, 0, 0, 1}, DensityRamp.At(2))
	assert.Equal(t, RGBA{120, 0, 150, 0.6}, DensityRamp.At(0.2))
	assert.Equal(t, RGBA{150, 0, 135, 0.65}, DensityRamp.At(0.3))
	assert.Equal(t, "rgba(255, 100, 0, 0.9)", DensityRamp.At(0.8).String())
}

func TestMarkerColor(t *testing.T) {
	assert.Equal(t, "rgba(0, 200, 0, 1)", MarkerColor(0).String())
	assert.Equal(t, "rgba(255, 0, 0, 1)", MarkerColor(4).String())
	assert.Equal(t, RGBA{180, 0, 120, 0.7}, MarkerColor(1))
}

// recordingSurface wraps a Canvas and counts calls.
type recordingSurface struct {
	*Canvas
	adds, sets, removes int
}

func (s *recordingSurface) AddLayer(l Layer) error {
	s.adds++
	return s.Canvas.AddLayer(l)
}

func (s *recordingSurface) SetData(id string, data FeatureCollection) error {
	s.sets++
	return s.Canvas.SetData(id, data)
}

func (s *recordingSurface) RemoveLayer(id string) error {
	s.removes++
	return s.Canvas.RemoveLayer(id)
}

func TestRenderer_ReplacesDataInPlace(t *testing.T) {
	surface := &recordingSurface{Canvas: NewCanvas()}
	r := NewRenderer(surface, DefaultKernel())

	_, ok, err := r.Render([]domain.WeatherSample{{Precipitation: 1}}, 5)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = r.Render([]domain.WeatherSample{{Precipitation: 2}, {Precipitation: 0.7}}, 5)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, 1, surface.adds)
	assert.Equal(t, 1, surface.sets)
	assert.Equal(t, 0, surface.removes)

	stored, ok := surface.Layer(LayerID)
	require.True(t, ok)
	assert.Len(t, stored.Data.Features, 2)
}

func TestRenderer_ZoomChangeReAdds(t *testing.T) {
	surface := &recordingSurface{Canvas: NewCanvas()}
	r := NewRenderer(surface, DefaultKernel())

	_, _, err := r.Render([]domain.WeatherSample{{Precipitation: 1}}, 5)
	require.NoError(t, err)
	layer, _, err := r.Render([]domain.WeatherSample{{Precipitation: 1}}, 4)
	require.NoError(t, err)

	assert.Equal(t, 2, surface.adds)
	assert.Equal(t, 1, surface.removes)
	assert.InDelta(t, 30, layer.Paint.Radius, 1e-9)
}

func TestRenderer_EmptyRemovesLayer(t *testing.T) {
	surface := &recordingSurface{Canvas: NewCanvas()}
	r := NewRenderer(surface, DefaultKernel())

	_, _, err := r.Render([]domain.WeatherSample{{Precipitation: 1}}, 5)
	require.NoError(t, err)

	_, ok, err := r.Render([]domain.WeatherSample{{Precipitation: 0.2}}, 5)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, surface.HasLayer(LayerID))
	assert.Equal(t, 1, surface.removes)

	// Clearing an absent layer is a no-op.
	require.NoError(t, r.Clear())
	assert.Equal(t, 1, surface.removes)
}

func TestRGBA_TextRoundTrip(t *testing.T) {
	in := RGBA{R: 230, G: 80, B: 0, A: 0.8}
	text, err := in.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "rgba(230, 80, 0, 0.8)", string(text))

	var out RGBA
	require.NoError(t, out.UnmarshalText(text))
	assert.Equal(t, in, out)

	require.Error(t, out.UnmarshalText([]byte("#ff0000")))
	require.Error(t, out.UnmarshalText([]byte("rgba(300, 0, 0, 1)")))
}
