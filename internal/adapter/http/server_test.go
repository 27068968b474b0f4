package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-viewer/internal/adapter/backend"
	httpadapter "github.com/couchcryptid/storm-viewer/internal/adapter/http"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/heatmap"
	"github.com/couchcryptid/storm-viewer/internal/mockbackend"
	"github.com/couchcryptid/storm-viewer/internal/nav"
	"github.com/couchcryptid/storm-viewer/internal/observability"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServer wires the view API to a manager backed by the mock backend.
// The manager is only started when run is true.
func newTestServer(t *testing.T, run bool) *httpadapter.Server {
	t.Helper()
	upstream := httptest.NewServer(mockbackend.NewHandler(mockbackend.Options{Logger: discardLogger()}))
	t.Cleanup(upstream.Close)

	metrics := observability.NewMetricsForTesting()
	client := backend.NewClient(upstream.URL, discardLogger(), backend.WithMetrics(metrics))
	m := viewer.NewManager(viewer.Deps{
		Backend:  client,
		Logger:   discardLogger(),
		Metrics:  metrics,
		GridSize: 10,
	}, 30*time.Minute, clockwork.NewFakeClock())

	if run {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = m.Run(ctx)
		}()
		t.Cleanup(func() {
			cancel()
			<-done
		})
		require.Eventually(t, func() bool {
			return m.CheckReadiness(context.Background()) == nil
		}, time.Second, 5*time.Millisecond)
	}

	return httpadapter.NewServer(":0", m, []string{"http://localhost:3000"}, discardLogger())
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, srv http.Handler) string {
	t.Helper()
	rec := do(t, srv, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		ID   string      `json:"id"`
		View viewer.View `json:"view"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.ID)
	assert.Equal(t, nav.ViewHome, body.View.View)
	return body.ID
}

func getView(t *testing.T, srv http.Handler, id string) viewer.View {
	t.Helper()
	rec := do(t, srv, http.MethodGet, "/api/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var v viewer.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, false)
	rec := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReflectsManager(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, do(t, newTestServer(t, false), http.MethodGet, "/readyz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, newTestServer(t, true), http.MethodGet, "/readyz", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestCities(t *testing.T) {
	srv := newTestServer(t, false)

	var quick []domain.City
	rec := do(t, srv, http.MethodGet, "/api/cities", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quick))
	assert.Len(t, quick, domain.SuggestionLimit)

	var found []domain.City
	rec = do(t, srv, http.MethodGet, "/api/cities?q=leon", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	names := make([]string, len(found))
	for i, c := range found {
		names[i] = c.Name
	}
	assert.Contains(t, names, "León")
	assert.Contains(t, names, "Monterrey", "state Nuevo León matches too")

	rec = do(t, srv, http.MethodGet, "/api/cities?q=zzzz", "")
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateSessionNotRunning(t *testing.T) {
	rec := do(t, newTestServer(t, false), http.MethodPost, "/api/sessions", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUnknownSession(t *testing.T) {
	srv := newTestServer(t, true)

	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/sessions/nope", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodPost, "/api/sessions/nope/actions", `{"type":"clear_date"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodDelete, "/api/sessions/nope", "").Code)
}

func TestActionValidation(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)
	path := "/api/sessions/" + id + "/actions"

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"unknown type", `{"type":"fly"}`, http.StatusBadRequest},
		{"unknown view", `{"type":"navigate","view":"radar"}`, http.StatusBadRequest},
		{"unknown city", `{"type":"select_city","city":"Atlantis"}`, http.StatusBadRequest},
		{"missing index", `{"type":"carousel_select"}`, http.StatusBadRequest},
		{"zoom out of range", `{"type":"map_zoom","zoom":40}`, http.StatusBadRequest},
		{"general tile outside dashboard", `{"type":"select_storm"}`, http.StatusConflict},
		{"city outside map", `{"type":"select_city","city":"Puebla"}`, http.StatusConflict},
		{"date outside dashboard", `{"type":"select_date","date":"20240915"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDashboardFlow(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)
	path := "/api/sessions/" + id + "/actions"

	rec := do(t, srv, http.MethodPost, path, `{"type":"navigate","view":"dashboard"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		v := getView(t, srv, id)
		return v.Dashboard != nil && !v.Dashboard.Loading && len(v.Dashboard.Tiles) == 4
	}, 2*time.Second, 10*time.Millisecond)

	v := getView(t, srv, id)
	assert.Equal(t, "latest", v.Dashboard.Mode)
	assert.Equal(t, 3, v.Dashboard.Stats.Active)

	rec = do(t, srv, http.MethodPost, path, `{"type":"select_date","date":"`+mockbackend.ArchiveDate+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		v := getView(t, srv, id)
		return v.Dashboard.Mode == "historical" && !v.Dashboard.Loading && !v.Dashboard.Panel.Loading &&
			v.Dashboard.Panel.Carousel != nil && len(v.Dashboard.Panel.Carousel.Images) == 4
	}, 2*time.Second, 10*time.Millisecond)

	v = getView(t, srv, id)
	assert.Equal(t, "15/09/2024", v.Dashboard.DisplayDate)
	assert.Len(t, v.Dashboard.Panel.Carousel.Images, 4)

	rec = do(t, srv, http.MethodPost, path, `{"type":"carousel_select","index":2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, 2, v.Dashboard.Panel.Carousel.Index)
	assert.Equal(t, "3 / 4", v.Dashboard.Panel.Counter)

	rec = do(t, srv, http.MethodPost, path, `{"type":"carousel_select","index":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, path, `{"type":"select_date","date":"2024-09-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHeatmapEndpoint(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodGet, "/api/sessions/"+id+"/heatmap", "").Code)

	rec := do(t, srv, http.MethodPost, "/api/sessions/"+id+"/actions", `{"type":"navigate","view":"map"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Eventually(t, func() bool {
		return do(t, srv, http.MethodGet, "/api/sessions/"+id+"/heatmap", "").Code == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	var layer heatmap.Layer
	rec = do(t, srv, http.MethodGet, "/api/sessions/"+id+"/heatmap", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layer))
	assert.Equal(t, heatmap.SourceID, layer.SourceID)
	assert.Equal(t, "FeatureCollection", layer.Data.Type)
	assert.NotEmpty(t, layer.Data.Features)
	for _, f := range layer.Data.Features {
		assert.GreaterOrEqual(t, f.Properties["precipitation"], heatmap.MinPrecipitation)
	}

	rec = do(t, srv, http.MethodPost, "/api/sessions/"+id+"/actions", `{"type":"navigate_home"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodGet, "/api/sessions/"+id+"/heatmap", "").Code)
}

func TestDeleteSession(t *testing.T) {
	srv := newTestServer(t, true)
	id := createSession(t, srv)

	assert.Equal(t, http.StatusNoContent, do(t, srv, http.MethodDelete, "/api/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, srv, http.MethodGet, "/api/sessions/"+id, "").Code)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, false)
	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
