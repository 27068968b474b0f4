package mockbackend

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/storm-viewer/internal/domain"
)

// Options tune the mock.
type Options struct {
	// GridDelay holds every realtime grid response, to exercise client
	// timeouts.
	GridDelay time.Duration
	Logger    *slog.Logger
}

// cityCoords places the quick-pick cities; other directory cities fall back
// to the centre of the country.
var cityCoords = map[string][2]float64{
	"Ciudad de Mexico": {19.4326, -99.1332},
	"Guadalajara":      {20.6597, -103.3496},
	"Monterrey":        {25.6866, -100.3161},
	"Puebla":           {19.0414, -98.2063},
	"Tijuana":          {32.5149, -117.0382},
	"León":             {21.1250, -101.6860},
	"Juárez":           {31.6904, -106.4245},
	"Zapopan":          {20.7236, -103.3848},
}

// onePixelPNG is served for every map image.
var onePixelPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x60, 0x60, 0x60, 0xf8,
	0x0f, 0x00, 0x01, 0x04, 0x01, 0x00, 0x5f, 0xe5, 0xc3, 0x4b, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

// NewHandler returns a router serving the backend routes.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{opts: opts, logger: logger}

	r := chi.NewRouter()
	r.Get("/api/storms", h.latestStorms)
	r.Get("/api/maps", h.latestMap)
	r.Get("/api/maps/{id}", h.latestMap)
	r.Route("/api/date/{date}", func(dr chi.Router) {
		dr.Get("/storms", h.archiveStorms)
		dr.Get("/storms/{id}", h.archiveStorm)
		dr.Get("/maps/{context}/list", h.imageList)
		dr.Get("/maps/{context}/{index}", h.archiveImage)
	})
	r.Get("/rainmap/city", h.city)
	r.Get("/rainmap/realtime", h.realtime)
	return r
}

type handler struct {
	opts   Options
	logger *slog.Logger
}

func (h *handler) latestStorms(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, LatestStorms())
}

func (h *handler) latestMap(w http.ResponseWriter, r *http.Request) {
	if id := chi.URLParam(r, "id"); id != "" && !HasLatestImage(id) {
		writeDetail(w, http.StatusNotFound, "No map for storm "+id)
		return
	}
	writePNG(w)
}

func (h *handler) archiveStorms(w http.ResponseWriter, r *http.Request) {
	if !h.archived(w, r) {
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, ArchiveStorms())
}

func (h *handler) archiveStorm(w http.ResponseWriter, r *http.Request) {
	if !h.archived(w, r) {
		return
	}
	id := chi.URLParam(r, "id")
	snapshot := ArchiveStorms()["data"].(map[string]any)["tormentas_"+ArchiveDate].(map[string]any)
	for _, v := range snapshot {
		if storm := v.(map[string]any); storm["id"] == id {
			sharedobs.WriteJSON(w, http.StatusOK, storm)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Storm "+id+" not found")
}

func (h *handler) imageList(w http.ResponseWriter, r *http.Request) {
	if !h.archived(w, r) {
		return
	}
	indices := ImageIndices(chi.URLParam(r, "context"))
	if indices == nil {
		writeDetail(w, http.StatusNotFound, "No maps found")
		return
	}
	type image struct {
		Index int `json:"index"`
	}
	images := make([]image, len(indices))
	for i, idx := range indices {
		images[i] = image{Index: idx}
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"images": images})
}

func (h *handler) archiveImage(w http.ResponseWriter, r *http.Request) {
	if !h.archived(w, r) {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid image index")
		return
	}
	for _, i := range ImageIndices(chi.URLParam(r, "context")) {
		if i == idx {
			writePNG(w)
			return
		}
	}
	writeDetail(w, http.StatusNotFound, "Map not found")
}

func (h *handler) city(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("selectedCity")
	city, ok := domain.LookupCity(name)
	if !ok {
		writeDetail(w, http.StatusNotFound, "City not found")
		return
	}
	coords, ok := cityCoords[city.Name]
	if !ok {
		coords = [2]float64{23.6345, -102.5528}
	}
	sharedobs.WriteJSON(w, http.StatusOK, domain.CityPrecipitation{
		Lat:           coords[0],
		Lon:           coords[1],
		Precipitation: Precipitation(coords[0], coords[1]),
	})
}

func (h *handler) realtime(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.URL.Query().Get("grid_size"))
	if err != nil || size <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "grid_size must be a positive integer")
		return
	}
	density, err := strconv.Atoi(r.URL.Query().Get("density"))
	if err != nil {
		density = 100
	}

	if d := h.opts.GridDelay; d > 0 {
		select {
		case <-time.After(d):
		case <-r.Context().Done():
			return
		}
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{"data": Grid(size, density)})
}

// archived rejects dates other than ArchiveDate the way the backend does.
func (h *handler) archived(w http.ResponseWriter, r *http.Request) bool {
	date := chi.URLParam(r, "date")
	if _, err := domain.ParseDate(date); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid date format")
		return false
	}
	if date != ArchiveDate {
		h.logger.Debug("no archive for date", "date", date)
		writeDetail(w, http.StatusNotFound, "No data for date "+date)
		return false
	}
	return true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	sharedobs.WriteJSON(w, status, map[string]string{"detail": detail})
}

func writePNG(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(onePixelPNG) //nolint:errcheck // best-effort fixture response
}
