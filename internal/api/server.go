package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mdtrack/internal/config"
	"github.com/dgallion1/mdtrack/internal/events"
	"github.com/dgallion1/mdtrack/internal/scanner"
	"github.com/dgallion1/mdtrack/internal/status"
)

// Server is the HTTP API server for mdtrack.
type Server struct {
	router   chi.Router
	registry *scanner.Registry
	scanner  *scanner.Scanner
	statuses *status.Store
	hub      *events.Hub
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(reg *scanner.Registry, sc *scanner.Scanner, st *status.Store, hub *events.Hub, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		registry: reg,
		scanner:  sc,
		statuses: st,
		hub:      hub,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/documents", s.handleListDocuments)
		r.Get("/api/documents/{docID}", s.handleGetDocument)
		r.Get("/api/documents/{docID}/items/{itemID}/slice", s.handleGetSlice)
		r.Get("/api/documents/{docID}/progress", s.handleGetProgress)

		r.Put("/api/items/{itemID}/status", s.handleSetStatus)
		r.Get("/api/statuses", s.handleListStatuses)

		r.Post("/api/scan", s.handleScan)
		r.Get("/api/events", s.hub.ServeHTTP)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
