// Package rest wires the HTTP surface: routing, middleware, and probes.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lifeline-backend/application/services"
	"lifeline-backend/infrastructure/config"
	"lifeline-backend/infrastructure/observability"
	"lifeline-backend/interfaces/http/rest/handlers"
	"lifeline-backend/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg     *config.Config
	tracker *services.TrackerService
	query   *services.QueryService
	metrics *observability.Collector
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	tracker *services.TrackerService,
	query *services.QueryService,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:     cfg,
		tracker: tracker,
		query:   query,
		metrics: metrics,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	// CORS: the extension and the dashboard run on their own origins.
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Probes and metrics
	router.Get("/", rt.root)
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", promhttp.HandlerFor(rt.metrics.Registry(), promhttp.HandlerOpts{}))
	}

	// Ingestion endpoint
	activityHandler := handlers.NewActivityHandler(rt.tracker, rt.logger)
	router.Post("/track/activity", activityHandler.TrackActivity)

	// Read API
	timelineHandler := handlers.NewTimelineHandler(rt.query, rt.logger)
	router.Get("/timeline", timelineHandler.GetTimeline)

	insightHandler := handlers.NewInsightHandler(rt.query, rt.logger)
	router.Get("/insights", insightHandler.GetInsights)
	router.Get("/quiz", insightHandler.GetQuiz)
	router.Get("/mindmap", insightHandler.GetMindMap)
	router.Get("/search", insightHandler.GetSearch)

	fileHandler := handlers.NewFileHandler(rt.query, rt.logger)
	router.Get("/files", fileHandler.ListFiles)
	router.Post("/query-file", fileHandler.QueryFile)

	return router
}

// root answers with a running banner for quick manual checks
func (rt *Router) root(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"Lifeline backend running"}`))
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
