package http

import (
	"encoding/json"
	"errors"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"

	"github.com/couchcryptid/storm-viewer/internal/carousel"
	"github.com/couchcryptid/storm-viewer/internal/domain"
	"github.com/couchcryptid/storm-viewer/internal/nav"
	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

// maxActionBytes caps an action request body.
const maxActionBytes = 4 << 10

func (s *Server) handleCities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	cities := domain.QuickCities()
	if q != "" {
		cities = domain.SearchCities(q, domain.SuggestionLimit)
	}
	if cities == nil {
		cities = []domain.City{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, cities)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess, err := s.sessions.Create()
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := sess.Snapshot()
	sharedobs.WriteJSON(w, http.StatusCreated, map[string]any{"id": sess.ID(), "view": v})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxActionBytes)).Decode(&req); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody{Error: "invalid action body"})
		return
	}
	action, err := req.action()
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := sess.Dispatch(r.Context(), action); err != nil {
		s.writeError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	v := sess.Snapshot()
	layer, ok := v.Heatmap()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, layer)
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps session and validation errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, viewer.ErrSessionNotFound), errors.Is(err, viewer.ErrSessionClosed):
		status = http.StatusNotFound
	case errors.Is(err, viewer.ErrNotRunning):
		status = http.StatusServiceUnavailable
	case errors.Is(err, nav.ErrWrongView):
		status = http.StatusConflict
	case errors.Is(err, viewer.ErrUnknownAction),
		errors.Is(err, viewer.ErrUnknownStorm),
		errors.Is(err, viewer.ErrNoImages),
		errors.Is(err, viewer.ErrInvalidZoom),
		errors.Is(err, nav.ErrUnknownView),
		errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, carousel.ErrOutOfRange),
		errors.Is(err, errUnknownCity):
		status = http.StatusBadRequest
	default:
		s.logger.Error("view api request failed", "error", err)
	}
	sharedobs.WriteJSON(w, status, errorBody{Error: err.Error()})
}
