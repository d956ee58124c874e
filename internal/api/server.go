package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/metrics"
	"github.com/dgallion1/docstruct/internal/session"
)

// Server is the HTTP API server for docstruct.
type Server struct {
	router   chi.Router
	store    *session.Store
	metrics  *metrics.Recorder
	gatherer prometheus.Gatherer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. gatherer backs the
// /metrics endpoint and may be nil to disable it.
func NewServer(store *session.Store, rec *metrics.Recorder, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:    store,
		metrics:  rec,
		gatherer: gatherer,
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
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Get("/api/stats/engine", s.handleEngineStats)

		r.Post("/api/documents", s.handleCreateDocument)
		r.Get("/api/documents", s.handleListDocuments)

		r.Route("/api/documents/{docID}", func(r chi.Router) {
			r.Use(s.withSession)

			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Post("/cleanup", s.handleCleanup)

			r.Get("/outline", s.handleOutline)
			r.Get("/fold", s.handleFold)
			r.Get("/numbering", s.handleNumbering)
			r.Post("/numbering", s.handleRecomputeNumbering)
			r.Post("/headings/{pos}/toggle", s.handleToggleHeading)
			r.Patch("/headings/{pos}", s.handleUpdateHeading)

			r.Post("/columns/rebalance", s.handleRebalance)
			r.Post("/columns/{pos}/add", s.handleAddColumn)
			r.Post("/columns/{pos}/remove", s.handleRemoveColumn)
			r.Post("/columns/{pos}/resize", s.handleResizeColumns)
			r.Post("/columns/{pos}/layout", s.handleColumnLayout)

			r.Post("/hover", s.handleHover)
			r.Post("/drag-end", s.handleDragEnd)
			r.Post("/drop", s.handleDrop)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
