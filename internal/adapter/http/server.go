package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/storm-viewer/internal/viewer"
)

// Sessions is the session store behind the view API.
type Sessions interface {
	sharedobs.ReadinessChecker
	Create() (*viewer.Session, error)
	Get(id string) (*viewer.Session, error)
	Delete(id string) error
}

// Server exposes the view API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	sessions   Sessions
	logger     *slog.Logger
}

// NewServer creates an HTTP server. corsOrigins lists the app shell origins
// allowed to call the view API.
func NewServer(addr string, sessions Sessions, corsOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		sessions: sessions,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(sessions))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/cities", s.handleCities)
		api.Route("/sessions", func(sr chi.Router) {
			sr.Post("/", s.handleCreateSession)
			sr.Route("/{id}", func(ir chi.Router) {
				ir.Get("/", s.handleGetSession)
				ir.Delete("/", s.handleDeleteSession)
				ir.Post("/actions", s.handleAction)
				ir.Get("/heatmap", s.handleHeatmap)
			})
		})
	})

	// The realtime grid can take minutes; actions only wait for the state
	// change, so the write timeout stays short.
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
