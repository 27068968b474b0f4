package viewer

import (
	"context"
	"time"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/nav"
	"github.com/google/uuid"
)

const eventTimeout = 5 * time.Second

// publish stores a fresh immutable snapshot of the current state.
func (s *Session) publish() {
	s.version++
	v := &View{SessionID: s.id, Version: s.version, View: s.state.View}

	switch s.state.View {
	case nav.ViewHome:
		v.Home = &HomeView{Background: s.deps.Background.Describe()}
	case nav.ViewMap:
		v.Map = s.mapView()
		v.heatmap = s.grid.layer
	case nav.ViewDashboard:
		v.Dashboard = s.dashboardView()
	}
	s.snapshot.Store(v)
}

func (s *Session) mapView() *MapView {
	m := &MapView{
		QuickCities:  domain.QuickCities(),
		SelectedCity: s.state.SelectedCity,
		CityLoading:  s.city.loading,
		CityError:    s.city.err,
		GridLoading:  s.grid.loading,
		GridError:    s.grid.err,
		Zoom:         s.grid.zoom,
	}
	if w := s.city.weather; w != nil {
		m.Weather = &WeatherCard{
			City:          w.City,
			State:         w.State,
			Lat:           w.Lat,
			Lon:           w.Lon,
			Precipitation: w.Precipitation,
			Glyph:         w.Glyph(),
			Percent:       w.PercentLabel(),
			UpdatedAt:     w.UpdatedAt(),
			MarkerColor:   heatmap.MarkerColor(w.Precipitation).String(),
		}
	}
	if l := s.grid.layer; l != nil {
		m.Heatmap = &HeatmapSummary{
			Total:     l.Total,
			Plotted:   l.Plotted,
			Paint:     l.Paint,
			Peak:      l.Peak,
			PeakPlace: s.grid.peakPlace,
		}
	}
	return m
}

func (s *Session) dashboardView() *DashboardView {
	date := s.state.SelectedDate
	d := &DashboardView{
		Mode:    ModeLatest,
		Loading: s.storms.loading,
		Error:   s.storms.err,
		Stats:   domain.SummarizeStorms(s.storms.records),
		Inspect: s.inspect,
	}

	display := domain.Now()
	if date != "" {
		d.Mode = ModeHistorical
		d.Date = date
		d.DisplayDate = domain.DisplayDate(date)
		if t, err := domain.ParseDate(date); err == nil {
			display = t
		}
	}
	d.Calendar = domain.NewCalendarMonth(display, date)

	selected := s.state.SelectedStorm
	d.Tiles = make([]Tile, 0, len(s.storms.records)+1)
	d.Tiles = append(d.Tiles, Tile{Title: generalTitle, Danger: DangerNormal, Selected: selected == nil})
	for _, r := range s.storms.records {
		t := Tile{
			ID:       r.ID,
			Title:    r.DisplayName(),
			Category: r.Category,
			Danger:   DangerLevel(r.Category),
			Invest:   r.Invest,
			Selected: selected != nil && selected.ID == r.ID,
		}
		if !r.Invest {
			t.PreviewURL = r.ImageURL
		}
		d.Tiles = append(d.Tiles, t)
	}

	if selected != nil {
		d.Selected = &StormDetail{
			ID:        selected.ID,
			Name:      selected.DisplayName(),
			Category:  selected.Category,
			WindSpeed: selected.WindSpeed,
			Pressure:  selected.Pressure,
			Location:  selected.Location,
			Status:    selected.Status,
			Invest:    selected.Invest,
		}
	}

	d.Panel = DetailPanel{
		Kind:    s.panel.kind,
		Title:   s.panel.title,
		Loading: s.panel.loading,
		Error:   s.panel.err,
	}
	if c := s.panel.carousel; c != nil {
		cp := *c
		d.Panel.Carousel = &cp
		d.Panel.Strip = c.Strip()
		d.Panel.Counter = c.Counter()
	}
	return d
}

// publishEvent sends a view event for an applied navigation action.
func (s *Session) publishEvent(a nav.Action) {
	if s.deps.Events == nil {
		return
	}
	ev := domain.ViewEvent{
		ID:         uuid.NewString(),
		SessionID:  s.id,
		Action:     actionName(a),
		View:       string(s.state.View),
		Date:       s.state.SelectedDate,
		OccurredAt: domain.Now(),
	}
	if st := s.state.SelectedStorm; st != nil {
		ev.StormID = st.ID
	}
	if c := s.state.SelectedCity; c != nil {
		ev.City = c.Name
	}

	events, logger, parent := s.deps.Events, s.deps.Logger, s.ctx
	go func() {
		ctx, cancel := context.WithTimeout(parent, eventTimeout)
		defer cancel()
		if err := events.Publish(ctx, ev); err != nil {
			logger.Warn("publish view event failed", "session", ev.SessionID, "action", ev.Action, "error", err)
		}
	}()
}

func actionName(a nav.Action) string {
	switch a.(type) {
	case nav.NavigateHome:
		return "navigate_home"
	case nav.NavigateTo:
		return "navigate"
	case nav.SelectCity:
		return "select_city"
	case nav.SelectStorm:
		return "select_storm"
	case nav.SelectDate:
		return "select_date"
	case nav.ClearDate:
		return "clear_date"
	default:
		return "unknown"
	}
}
