// Package server exposes the comparator and trainer to reporting layers
// over a small JSON API.
package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/me/edgesentry/internal/config"
	"github.com/me/edgesentry/internal/dtree"
	"github.com/me/edgesentry/internal/load"
	"github.com/me/edgesentry/internal/metrics"
	"github.com/me/edgesentry/internal/store"
	"github.com/me/edgesentry/internal/trainer"
)

// Server is the edgesentry reporting API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.Config
	startTime time.Time

	estimator *load.Estimator
	trainer   *trainer.Trainer
	store     store.DecisionStore
	recorder  *metrics.Recorder
	registry  *prometheus.Registry

	mu   sync.Mutex // guards tree and serializes comparison runs
	tree *dtree.Tree
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithClassifier injects a pre-fitted classifier so the intelligent policy
// is available before the first POST /train.
func WithClassifier(tree *dtree.Tree) Option {
	return func(s *Server) {
		s.tree = tree
	}
}

// New creates a Server with all routes registered. st is the decision log
// shared by comparison runs; each run resets it first.
func New(cfg config.Config, st store.DecisionStore, logger *slog.Logger, opts ...Option) *Server {
	registry := prometheus.NewRegistry()
	treeCfg := dtree.Config{MaxDepth: cfg.MaxDepth, MinSamplesLeaf: cfg.MinSamplesLeaf}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		startTime: time.Now(),
		estimator: load.New(cfg.Multipliers, cfg.JitterPercent),
		trainer:   trainer.New(cfg.BudgetPercent, treeCfg, logger),
		store:     st,
		recorder:  metrics.NewRecorder(registry),
		registry:  registry,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(withRequestID)
	r.Use(withAccessLog(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/policies", s.handleListPolicies)
		r.Get("/scenarios", s.handleListScenarios)
		r.Post("/train", s.handleTrain)
		r.Post("/compare", s.handleCompare)
	})

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}
