package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/storm-viewer/internal/carousel"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/nav"
)

// Panel titles.
const (
	generalTitle = "General map"
	inspectTitle = "JSON data"
)

// spawn runs fetch on its own goroutine and posts the returned apply func
// back to the loop tagged with tok. fetch must not touch session state.
func (s *Session) spawn(c nav.Context, tok nav.Token, fetch func(ctx context.Context) func()) {
	ctx := s.ctx
	go func() {
		apply := fetch(ctx)
		select {
		case s.inbox <- message{result: &result{context: c, token: tok, apply: apply}}:
		case <-ctx.Done():
		}
	}()
}

func (s *Session) fetchStorms(date string) {
	tok := s.tokens.Issue(nav.ContextStorms)
	// Records of the previous context must not be pickable while loading.
	s.storms = stormsState{loading: true}

	backend, urls, logger := s.deps.Backend, s.urls, s.deps.Logger
	s.spawn(nav.ContextStorms, tok, func(ctx context.Context) func() {
		var raw map[string]json.RawMessage
		var err error
		if date == "" {
			raw, err = backend.LatestStorms(ctx)
		} else {
			raw, err = backend.StormsByDate(ctx, date)
		}
		if err != nil {
			logger.Warn("load storms failed", "session", s.id, "date", date, "error", err)
			msg := stormsErrorMessage(date, err)
			return func() { s.storms = stormsState{err: msg} }
		}

		records := domain.NormalizeStorms(raw, date, urls)
		return func() { s.storms = stormsState{records: records} }
	})
}

// stormsErrorMessage distinguishes a date without data from other failures.
func stormsErrorMessage(date string, err error) string {
	if date != "" && errors.Is(err, domain.ErrNotFound) {
		return fmt.Sprintf("no storm data found for date %s", date)
	}
	return "could not load storm data"
}

func (s *Session) loadDetail(storm *domain.StormRecord, date string) {
	tok := s.tokens.Issue(nav.ContextDetail)
	backend, urls := s.deps.Backend, s.urls

	switch {
	case storm != nil && storm.Invest:
		s.panel = panelState{kind: PanelInvestPlaceholder, title: storm.DisplayName()}
		return

	case storm == nil && date == "":
		s.panel = panelState{kind: PanelGeneralImage, title: generalTitle, loading: true}
		s.spawn(nav.ContextDetail, tok, func(ctx context.Context) func() {
			if err := backend.CheckLatestImage(ctx, ""); err != nil {
				return s.panelFailed("no recent general map found", err)
			}
			return s.panelLoaded([]string{urls.LatestGeneral(domain.Now())})
		})

	case storm == nil:
		s.panel = panelState{kind: PanelCarousel, title: generalTitle, loading: true}
		s.spawn(nav.ContextDetail, tok, func(ctx context.Context) func() {
			indices, err := backend.ImageIndices(ctx, date, domain.GeneralContext)
			if err != nil {
				return s.panelFailed("could not load general maps", err)
			}
			return s.panelLoaded(urls.HistoricalSet(date, domain.GeneralContext, indices))
		})

	case date == "":
		id := storm.ID
		s.panel = panelState{kind: PanelCarousel, title: storm.DisplayName(), loading: true}
		s.spawn(nav.ContextDetail, tok, func(ctx context.Context) func() {
			if err := backend.CheckLatestImage(ctx, id); err != nil {
				return s.panelFailed(fmt.Sprintf("no map found for %s", id), err)
			}
			return s.panelLoaded([]string{urls.LatestStorm(id, domain.Now())})
		})

	default:
		id := storm.ID
		s.panel = panelState{kind: PanelCarousel, title: storm.DisplayName(), loading: true}
		s.spawn(nav.ContextDetail, tok, func(ctx context.Context) func() {
			indices, err := backend.ImageIndices(ctx, date, id)
			if err != nil {
				return s.panelFailed(fmt.Sprintf("could not load maps for %s", id), err)
			}
			return s.panelLoaded(urls.HistoricalSet(date, id, indices))
		})
	}
}

func (s *Session) panelLoaded(images []string) func() {
	return func() {
		c := carousel.New(images)
		s.panel.loading = false
		s.panel.err = ""
		s.panel.carousel = &c
	}
}

func (s *Session) panelFailed(msg string, err error) func() {
	s.deps.Logger.Warn("load detail images failed", "session", s.id, "error", err)
	return func() {
		s.panel.loading = false
		s.panel.err = msg
		s.panel.carousel = nil
	}
}

func (s *Session) openInspect(stormID string) error {
	if s.state.View != nav.ViewDashboard {
		return fmt.Errorf("inspect: %w", nav.ErrWrongView)
	}
	tok := s.tokens.Issue(nav.ContextInspect)
	date := s.state.SelectedDate
	s.inspect = InspectOverlay{Open: true, Title: s.inspectTitle(stormID, date), Loading: true}

	backend := s.deps.Backend
	s.spawn(nav.ContextInspect, tok, func(ctx context.Context) func() {
		raw, err := fetchInspect(ctx, backend, date, stormID)
		if err != nil {
			s.deps.Logger.Warn("load inspection json failed", "session", s.id, "storm", stormID, "date", date, "error", err)
			msg := errorMessage(err)
			return func() {
				s.inspect.Loading = false
				s.inspect.Error = msg
			}
		}
		return func() {
			s.inspect.Loading = false
			s.inspect.Content = raw
		}
	})
	return nil
}

func (s *Session) inspectTitle(stormID, date string) string {
	if stormID == "" {
		if date == "" {
			return inspectTitle + ": General view"
		}
		return fmt.Sprintf("%s: General view (%s)", inspectTitle, date)
	}
	for _, r := range s.storms.records {
		if r.ID == stormID {
			return inspectTitle + ": " + r.DisplayName()
		}
	}
	return inspectTitle + ": " + stormID
}

// fetchInspect returns the raw record behind the overlay. In latest mode
// single storms are picked out of the latest snapshot.
func fetchInspect(ctx context.Context, backend Backend, date, stormID string) (json.RawMessage, error) {
	switch {
	case date != "" && stormID == "":
		return backend.SnapshotJSON(ctx, date)
	case date != "":
		return backend.StormJSON(ctx, date, stormID)
	case stormID == "":
		return backend.LatestSnapshotJSON(ctx)
	}

	snapshot, err := backend.LatestStorms(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := domain.FindRawStorm(snapshot, stormID)
	if !ok {
		return nil, fmt.Errorf("storm %s not found", stormID)
	}
	return raw, nil
}

// errorMessage is the overlay text for a failed request.
func errorMessage(err error) string {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return err.Error()
}

func (s *Session) fetchCity(city domain.City) {
	tok := s.tokens.Issue(nav.ContextCity)
	s.city = cityState{loading: true}

	backend := s.deps.Backend
	s.spawn(nav.ContextCity, tok, func(ctx context.Context) func() {
		p, err := backend.CityPrecipitation(ctx, city.Name)
		if err != nil {
			s.deps.Logger.Warn("load city weather failed", "session", s.id, "city", city.Name, "error", err)
			msg := fmt.Sprintf("could not load weather for %s", city.Name)
			return func() { s.city = cityState{err: msg} }
		}
		w := domain.NewCityWeather(city, p)
		return func() { s.city = cityState{weather: &w} }
	})
}

func (s *Session) fetchGrid() {
	tok := s.tokens.Issue(nav.ContextGrid)
	s.grid.loading = true
	s.grid.err = ""

	backend, size, density := s.deps.Backend, s.deps.GridSize, s.deps.GridDensity
	s.spawn(nav.ContextGrid, tok, func(ctx context.Context) func() {
		samples, err := backend.RealtimeGrid(ctx, size, density)
		if err != nil {
			s.deps.Logger.Warn("load rain grid failed", "session", s.id, "error", err)
			msg := "could not load rain map"
			if errors.Is(err, domain.ErrTimeout) {
				msg = "rain map request timed out"
			}
			return func() {
				s.grid.loading = false
				s.grid.err = msg
			}
		}
		return func() {
			s.grid.loading = false
			s.grid.samples = samples
			s.grid.peakPlace = ""
			s.renderHeatmap()
			if s.grid.layer != nil && s.deps.Places != nil {
				s.lookupPeak(tok, s.grid.layer.Peak)
			}
		}
	})
}

// lookupPeak names the heaviest-rain sample. It shares the grid token so a
// newer grid discards the label.
func (s *Session) lookupPeak(tok nav.Token, peak domain.WeatherSample) {
	places := s.deps.Places
	s.spawn(nav.ContextGrid, tok, func(ctx context.Context) func() {
		place, err := places.NearestPlace(ctx, peak.Lat, peak.Lon)
		if err != nil {
			s.deps.Logger.Warn("name heaviest rain failed", "session", s.id, "lat", peak.Lat, "lon", peak.Lon, "error", err)
			return func() {}
		}
		label := place.Name
		if label == "" {
			label = place.FormattedAddress
		}
		return func() { s.grid.peakPlace = label }
	})
}
