package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/couchcryptid/storm-viewer/internal/carousel"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/nav"
)

var (
	ErrSessionClosed = errors.New("session closed")
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownStorm  = errors.New("unknown storm")
	ErrNoImages      = errors.New("no images to show")
	ErrInvalidZoom   = errors.New("zoom out of range")
)

const (
	defaultZoom = 5
	maxZoom     = 22
)

// Action is a nav.Action or one of the session actions below.
type Action any

// Session actions that do not change navigation state.
type (
	// PickStorm selects a dashboard tile by storm id; "" is the general tile.
	PickStorm struct{ ID string }
	// CarouselNext, CarouselPrev and CarouselSelect move the detail carousel.
	CarouselNext   struct{}
	CarouselPrev   struct{}
	CarouselSelect struct{ Index int }
	// ImageLoaded and ImageFailed report the outcome of an image load.
	ImageLoaded struct{ URL string }
	ImageFailed struct{ URL string }
	// Inspect opens the raw JSON overlay for a storm; "" is the whole snapshot.
	Inspect      struct{ StormID string }
	CloseInspect struct{}
	// ReloadGrid refetches the realtime rain grid.
	ReloadGrid struct{}
	// SetZoom resizes the heatmap for a new map zoom.
	SetZoom struct{ Zoom float64 }
)

type message struct {
	action Action
	done   chan error
	result *result
}

// result is a finished fetch. apply mutates session state and must only be
// called from the Run goroutine.
type result struct {
	context nav.Context
	token   nav.Token
	apply   func()
}

type stormsState struct {
	records []domain.StormRecord
	loading bool
	err     string
}

type panelState struct {
	kind     string
	title    string
	loading  bool
	err      string
	carousel *carousel.Carousel
}

type cityState struct {
	weather *domain.CityWeather
	loading bool
	err     string
}

type gridState struct {
	samples   []domain.WeatherSample
	loading   bool
	err       string
	zoom      float64
	layer     *heatmap.Layer
	peakPlace string
	renderer  *heatmap.Renderer
}

// Session is one client's view state machine.
type Session struct {
	id   string
	deps Deps
	urls domain.ImageURLs

	inbox    chan message
	stopped  chan struct{}
	snapshot atomic.Pointer[View]

	// onResult is called after every fetch result with whether it applied.
	onResult func(c nav.Context, applied bool)

	// Owned by the Run goroutine.
	ctx     context.Context
	state   nav.State
	tokens  *nav.Tokens
	version uint64
	storms  stormsState
	panel   panelState
	inspect InspectOverlay
	city    cityState
	grid    gridState
}

// NewSession creates a session on the home view. Call Run to start it.
func NewSession(id string, deps Deps) *Session {
	deps = deps.withDefaults()
	s := &Session{
		id:      id,
		deps:    deps,
		urls:    deps.Backend.URLs(),
		inbox:   make(chan message, 16),
		stopped: make(chan struct{}),
		state:   nav.Initial(),
		tokens:  nav.NewTokens(),
		grid: gridState{
			zoom:     defaultZoom,
			renderer: heatmap.NewRenderer(heatmap.NewCanvas(), deps.Kernel),
		},
	}
	s.publish()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Snapshot returns the latest published view.
func (s *Session) Snapshot() View {
	return *s.snapshot.Load()
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.stopped }

// Run applies actions and fetch results until ctx is cancelled. In-flight
// fetches are cancelled on return. Run must be called at most once.
func (s *Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer close(s.stopped)

	s.ctx = ctx
	s.deps.Logger.Debug("session started", "session", s.id)

	for {
		select {
		case <-ctx.Done():
			s.deps.Logger.Debug("session stopping", "session", s.id, "reason", ctx.Err())
			return nil
		case m := <-s.inbox:
			s.handle(m)
		}
	}
}

// Dispatch applies a and waits until it has been applied. The returned
// error is the action's validation error, if any; fetches it starts report
// their failures through the view instead.
func (s *Session) Dispatch(ctx context.Context, a Action) error {
	done := make(chan error, 1)
	select {
	case s.inbox <- message{action: a, done: done}:
	case <-s.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-s.stopped:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle applies one message. The snapshot is published before a
// dispatcher is released so it observes its own action.
func (s *Session) handle(m message) {
	if m.result != nil {
		s.applyResult(*m.result)
		s.publish()
		return
	}
	err := s.apply(m.action)
	s.publish()
	m.done <- err
}

func (s *Session) applyResult(r result) {
	current := s.tokens.Current(r.context, r.token)
	if current {
		r.apply()
	} else {
		s.deps.Metrics.StaleResults.WithLabelValues(string(r.context)).Inc()
		s.deps.Logger.Debug("stale result discarded", "session", s.id, "context", r.context, "token", r.token)
	}
	if s.onResult != nil {
		s.onResult(r.context, current)
	}
}

func (s *Session) apply(a Action) error {
	switch a := a.(type) {
	case nav.Action:
		return s.navigate(a)
	case PickStorm:
		return s.pickStorm(a.ID)
	case CarouselNext:
		return s.withCarousel(func(c *carousel.Carousel) error { c.Next(); return nil })
	case CarouselPrev:
		return s.withCarousel(func(c *carousel.Carousel) error { c.Prev(); return nil })
	case CarouselSelect:
		return s.withCarousel(func(c *carousel.Carousel) error { return c.Select(a.Index) })
	case ImageLoaded:
		return s.withCarousel(func(c *carousel.Carousel) error { c.Loaded(a.URL); return nil })
	case ImageFailed:
		return s.withCarousel(func(c *carousel.Carousel) error { c.Failed(a.URL); return nil })
	case Inspect:
		return s.openInspect(a.StormID)
	case CloseInspect:
		s.tokens.Invalidate(nav.ContextInspect)
		s.inspect = InspectOverlay{}
		return nil
	case ReloadGrid:
		if s.state.View != nav.ViewMap {
			return fmt.Errorf("reload grid: %w", nav.ErrWrongView)
		}
		s.fetchGrid()
		return nil
	case SetZoom:
		if a.Zoom < 0 || a.Zoom > maxZoom {
			return fmt.Errorf("%w: %v", ErrInvalidZoom, a.Zoom)
		}
		s.grid.zoom = a.Zoom
		s.renderHeatmap()
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func (s *Session) navigate(a nav.Action) error {
	next, effects, err := nav.Reduce(s.state, a)
	if err != nil {
		return err
	}
	if next.View == nav.ViewHome {
		s.tokens.InvalidateAll()
	}
	s.state = next
	for _, e := range effects {
		s.run(e)
	}
	s.publishEvent(a)
	return nil
}

func (s *Session) pickStorm(id string) error {
	if id == "" {
		return s.navigate(nav.SelectStorm{})
	}
	for i := range s.storms.records {
		if s.storms.records[i].ID == id {
			storm := s.storms.records[i]
			return s.navigate(nav.SelectStorm{Storm: &storm})
		}
	}
	return fmt.Errorf("pick storm %q: %w", id, ErrUnknownStorm)
}

func (s *Session) withCarousel(fn func(c *carousel.Carousel) error) error {
	if s.state.View != nav.ViewDashboard {
		return fmt.Errorf("carousel: %w", nav.ErrWrongView)
	}
	if s.panel.carousel == nil {
		return ErrNoImages
	}
	return fn(s.panel.carousel)
}

func (s *Session) run(e nav.Effect) {
	switch e := e.(type) {
	case nav.FetchLatestStorms:
		s.fetchStorms("")
	case nav.FetchStormsByDate:
		s.fetchStorms(e.Date)
	case nav.FetchCityWeather:
		s.fetchCity(e.City)
	case nav.FetchRealtimeGrid:
		s.fetchGrid()
	case nav.LoadDetail:
		s.loadDetail(e.Storm, e.Date)
	case nav.ResetStorms:
		s.resetStorms()
	case nav.ResetMap:
		s.resetMap()
	}
}

func (s *Session) resetStorms() {
	s.tokens.Invalidate(nav.ContextStorms)
	s.tokens.Invalidate(nav.ContextDetail)
	s.tokens.Invalidate(nav.ContextInspect)
	s.storms = stormsState{}
	s.panel = panelState{}
	s.inspect = InspectOverlay{}
}

func (s *Session) resetMap() {
	s.tokens.Invalidate(nav.ContextCity)
	s.tokens.Invalidate(nav.ContextGrid)
	s.city = cityState{}
	if err := s.grid.renderer.Clear(); err != nil {
		s.deps.Logger.Warn("clear heatmap failed", "session", s.id, "error", err)
	}
	s.grid = gridState{zoom: s.grid.zoom, renderer: s.grid.renderer}
}

func (s *Session) renderHeatmap() {
	layer, ok, err := s.grid.renderer.Render(s.grid.samples, s.grid.zoom)
	if err != nil {
		s.deps.Logger.Error("render heatmap failed", "session", s.id, "error", err)
		s.grid.layer = nil
		return
	}
	if !ok {
		s.grid.layer = nil
		return
	}
	s.grid.layer = &layer
}
