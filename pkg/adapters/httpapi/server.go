// Package httpapi exposes catalog search and batch planning over HTTP.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/internal/pipeline"
	"github.com/ncardoz/cesta/pkg/catalog"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

// Server serves the REST surface.
type Server struct {
	catalog  ports.CatalogSource
	pipeline *pipeline.Pipeline
	metrics  http.Handler
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler mounts a /metrics endpoint.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates the server over a catalog source and a compiled pipeline.
func New(source ports.CatalogSource, p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		catalog:  source,
		pipeline: p,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/plan", s.handlePlan)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// searchRequest is the /v1/search body: the filter criteria.
type searchRequest struct {
	catalog.Criteria
}

type searchResponse struct {
	Results []domain.Product `json:"results"`
	Count   int              `json:"count"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products, err := s.catalog.Products(r.Context())
	if err != nil {
		s.logger.Error("catalog load failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "catalog unavailable")
		return
	}

	results := catalog.Filter(products, req.Criteria)
	s.writeJSON(w, http.StatusOK, searchResponse{Results: results, Count: len(results)})
}

// planRequest is the /v1/plan body. Budget is optional; SearchCriteria
// optionally runs the post-plan catalog search.
type planRequest struct {
	Budget         *float64       `json:"budget"`
	SearchCriteria map[string]any `json:"search_criteria,omitempty"`
}

type planResponse struct {
	Plan          *domain.ShoppingPlan  `json:"plan"`
	Wishlist      []domain.InterestItem `json:"wishlist"`
	SearchResults []map[string]any      `json:"search_results,omitempty"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	final, err := s.pipeline.Run(r.Context(), req.Budget, req.SearchCriteria)
	if err != nil {
		s.logger.Error("pipeline run failed", "err", err)
		s.writeError(w, http.StatusBadGateway, "planning failed")
		return
	}

	s.writeJSON(w, http.StatusOK, planResponse{
		Plan:          final.Plan,
		Wishlist:      final.Wishlist,
		SearchResults: final.SearchResults,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
