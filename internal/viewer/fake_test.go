package viewer_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/observability"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

const testBase = "http://backend.test"

var frozenNow = time.Date(2025, 10, 27, 18, 30, 0, 0, time.UTC)

// --- fakes ---

type fakeBackend struct {
	mu sync.Mutex

	latest      map[string]json.RawMessage
	latestErr   error
	latestCalls int
	byDate      map[string]map[string]json.RawMessage
	dateErr     error
	dateGate    map[string]chan struct{}
	indices     map[string][]int // key: date|context
	imageErr    error
	city        map[string]domain.CityPrecipitation
	cityGate    map[string]chan struct{}
	grid        []domain.WeatherSample
	gridErr     error
	stormJSON   map[string]json.RawMessage // key: date|id
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		latest:    map[string]json.RawMessage{},
		byDate:    map[string]map[string]json.RawMessage{},
		dateGate:  map[string]chan struct{}{},
		indices:   map[string][]int{},
		city:      map[string]domain.CityPrecipitation{},
		cityGate:  map[string]chan struct{}{},
		stormJSON: map[string]json.RawMessage{},
	}
}

func notFound(op string) error {
	return &domain.APIError{Op: op, Kind: domain.ErrNotFound, Status: http.StatusNotFound}
}

func (f *fakeBackend) URLs() domain.ImageURLs { return domain.NewImageURLs(testBase) }

func (f *fakeBackend) LatestStorms(context.Context) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestCalls++
	return f.latest, f.latestErr
}

func (f *fakeBackend) latestCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latestCalls
}

func (f *fakeBackend) StormsByDate(ctx context.Context, date string) (map[string]json.RawMessage, error) {
	f.mu.Lock()
	gate := f.dateGate[date]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dateErr != nil {
		return nil, f.dateErr
	}
	storms, ok := f.byDate[date]
	if !ok {
		return nil, notFound("storms by date")
	}
	return storms, nil
}

func (f *fakeBackend) LatestSnapshotJSON(context.Context) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return json.Marshal(f.latest)
}

func (f *fakeBackend) SnapshotJSON(_ context.Context, date string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	storms, ok := f.byDate[date]
	if !ok {
		return nil, notFound("storms by date")
	}
	return json.Marshal(map[string]any{"data": map[string]any{"tormentas": storms}})
}

func (f *fakeBackend) StormJSON(_ context.Context, date, id string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.stormJSON[date+"|"+id]
	if !ok {
		return nil, &domain.APIError{Op: "storm by date", Kind: domain.ErrNotFound, Status: http.StatusNotFound, Detail: "storm not in archive"}
	}
	return raw, nil
}

func (f *fakeBackend) ImageIndices(_ context.Context, date, imageContext string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	return f.indices[date+"|"+imageContext], nil
}

func (f *fakeBackend) CheckLatestImage(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.imageErr
}

func (f *fakeBackend) CityPrecipitation(ctx context.Context, name string) (domain.CityPrecipitation, error) {
	f.mu.Lock()
	gate := f.cityGate[name]
	p, ok := f.city[name]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.CityPrecipitation{}, ctx.Err()
		}
	}
	if !ok {
		return domain.CityPrecipitation{}, &domain.APIError{Op: "city precipitation", Kind: domain.ErrNetwork, Status: http.StatusInternalServerError}
	}
	return p, nil
}

func (f *fakeBackend) RealtimeGrid(context.Context, int, int) ([]domain.WeatherSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.grid, f.gridErr
}

type fakePlaces struct {
	place domain.Place
	err   error
}

func (p *fakePlaces) NearestPlace(context.Context, float64, float64) (domain.Place, error) {
	return p.place, p.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ViewEvent
}

func (r *recordingPublisher) Publish(_ context.Context, ev domain.ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingPublisher) snapshot() []domain.ViewEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ViewEvent(nil), r.events...)
}

var errBoom = errors.New("boom")

// --- helpers ---

func freezeClock(t *testing.T) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(frozenNow))
	t.Cleanup(func() { domain.SetClock(nil) })
}

func testDeps(b viewer.Backend) viewer.Deps {
	return viewer.Deps{
		Backend: b,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: observability.NewMetricsForTesting(),
	}
}

func startSession(t *testing.T, deps viewer.Deps, hook func(*viewer.Session)) *viewer.Session {
	t.Helper()
	s := viewer.NewSession("test-session", deps)
	if hook != nil {
		hook(s)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s
}

func dispatch(t *testing.T, s *viewer.Session, actions ...viewer.Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, s.Dispatch(context.Background(), a), "action %T", a)
	}
}

func waitFor(t *testing.T, s *viewer.Session, msg string, cond func(v viewer.View) bool) viewer.View {
	t.Helper()
	var last viewer.View
	require.Eventually(t, func() bool {
		last = s.Snapshot()
		return cond(last)
	}, 2*time.Second, 5*time.Millisecond, msg)
	return last
}

func dashboardLoaded(v viewer.View) bool {
	return v.Dashboard != nil && !v.Dashboard.Loading && !v.Dashboard.Panel.Loading
}
