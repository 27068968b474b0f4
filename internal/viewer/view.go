package viewer

import (
	"encoding/json"

	"github.com/couchcryptid/storm-viewer/internal/background"
	"github.com/couchcryptid/storm-viewer/internal/carousel"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/nav"
)

// View is the immutable snapshot a shell renders. Only the section of the
// current view is set.
type View struct {
	SessionID string         `json:"session_id"`
	Version   uint64         `json:"version"`
	View      nav.View       `json:"view"`
	Home      *HomeView      `json:"home,omitempty"`
	Map       *MapView       `json:"map,omitempty"`
	Dashboard *DashboardView `json:"dashboard,omitempty"`

	// heatmap holds the full layer for the heatmap endpoint; the map
	// section only carries its summary.
	heatmap *heatmap.Layer
}

// Heatmap returns the current heatmap layer, if any.
func (v View) Heatmap() (heatmap.Layer, bool) {
	if v.heatmap == nil {
		return heatmap.Layer{}, false
	}
	return *v.heatmap, true
}

// HomeView is the landing screen.
type HomeView struct {
	Background background.Descriptor `json:"background"`
}

// MapView is the rain map with the city picker.
type MapView struct {
	QuickCities  []domain.City   `json:"quick_cities"`
	SelectedCity *domain.City    `json:"selected_city,omitempty"`
	Weather      *WeatherCard    `json:"weather,omitempty"`
	CityLoading  bool            `json:"city_loading"`
	CityError    string          `json:"city_error,omitempty"`
	Heatmap      *HeatmapSummary `json:"heatmap,omitempty"`
	GridLoading  bool            `json:"grid_loading"`
	GridError    string          `json:"grid_error,omitempty"`
	Zoom         float64         `json:"zoom"`
}

// WeatherCard is the selected city's reading.
type WeatherCard struct {
	City          string  `json:"city"`
	State         string  `json:"state"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Precipitation float64 `json:"precipitation"`
	Glyph         string  `json:"glyph"`
	Percent       string  `json:"percent"`
	UpdatedAt     string  `json:"updated_at"`
	MarkerColor   string  `json:"marker_color"`
}

// HeatmapSummary describes the drawn heatmap without its point data.
type HeatmapSummary struct {
	Total     int                  `json:"total"`
	Plotted   int                  `json:"plotted"`
	Paint     heatmap.Paint        `json:"paint"`
	Peak      domain.WeatherSample `json:"peak"`
	PeakPlace string               `json:"peak_place,omitempty"`
}

// Dashboard modes.
const (
	ModeLatest     = "latest"
	ModeHistorical = "historical"
)

// Danger levels of a storm tile.
const (
	DangerNormal   = "normal"
	DangerElevated = "elevated"
	DangerSevere   = "danger"
)

// DashboardView is the storm dashboard.
type DashboardView struct {
	Mode        string               `json:"mode"`
	Date        string               `json:"date,omitempty"`
	DisplayDate string               `json:"display_date,omitempty"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	Tiles       []Tile               `json:"tiles"`
	Stats       domain.Stats         `json:"stats"`
	Selected    *StormDetail         `json:"selected,omitempty"`
	Panel       DetailPanel          `json:"panel"`
	Inspect     InspectOverlay       `json:"inspect"`
	Calendar    domain.CalendarMonth `json:"calendar"`
}

// Tile is one entry of the storm list. The general tile has an empty ID.
type Tile struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Category   domain.Category `json:"category,omitempty"`
	Danger     string          `json:"danger"`
	PreviewURL string          `json:"preview_url,omitempty"`
	Invest     bool            `json:"invest"`
	Selected   bool            `json:"selected"`
}

// StormDetail is the card of the selected storm.
type StormDetail struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  domain.Category `json:"category"`
	WindSpeed float64         `json:"wind_speed"`
	Pressure  float64         `json:"pressure"`
	Location  domain.Label    `json:"location"`
	Status    string          `json:"status"`
	Invest    bool            `json:"invest"`
}

// Detail panel kinds.
const (
	PanelGeneralImage      = "general_image"
	PanelCarousel          = "carousel"
	PanelInvestPlaceholder = "invest_placeholder"
)

// DetailPanel is the image area beside the storm list.
type DetailPanel struct {
	Kind     string             `json:"kind"`
	Title    string             `json:"title"`
	Loading  bool               `json:"loading"`
	Error    string             `json:"error,omitempty"`
	Carousel *carousel.Carousel `json:"carousel,omitempty"`
	Strip    carousel.Strip     `json:"strip,omitempty"`
	Counter  string             `json:"counter,omitempty"`
}

// InspectOverlay shows raw backend JSON.
type InspectOverlay struct {
	Open    bool            `json:"open"`
	Title   string          `json:"title,omitempty"`
	Loading bool            `json:"loading"`
	Content json.RawMessage `json:"content,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// DangerLevel classifies a category for tile colouring.
func DangerLevel(c domain.Category) string {
	switch {
	case c >= domain.CategoryHurricane:
		return DangerSevere
	case c >= domain.CategoryStorm:
		return DangerElevated
	default:
		return DangerNormal
	}
}
