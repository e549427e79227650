package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/FungiProxy/QuoteTemplate-sub001/internal/config"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/generator"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/pipeline"
	"github.com/FungiProxy/QuoteTemplate-sub001/internal/review"
)

// Server is the HTTP API for quote generation.
type Server struct {
	router       chi.Router
	gen          *generator.Generator
	orchestrator *pipeline.Orchestrator
	scanner      *review.Scanner
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. orch may be nil, in which
// case batch endpoints answer 503.
func NewServer(gen *generator.Generator, orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		gen:          gen,
		orchestrator: orch,
		scanner:      &review.Scanner{FallbackPdftotext: true},
		log:          log,
		cfg:          cfg,
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

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Post("/api/quotes", s.handleGenerate)
		r.Post("/api/quotes/batch", s.handleBatchGenerate)
		r.Get("/api/quotes/batch/{jobID}", s.handleBatchStatus)
		r.Get("/api/files/{name}", s.handleDownload)

		r.Get("/api/models/{model}/config", s.handleModelConfig)
		r.Post("/api/review", s.handleReview)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
