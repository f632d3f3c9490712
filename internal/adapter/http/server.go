package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-data-service/internal/config"
	"github.com/couchcryptid/quake-data-service/internal/domain"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// QueryService answers the public quake operations.
type QueryService interface {
	Search(ctx context.Context, p domain.SearchParams) (domain.SearchResult, error)
	Nearby(ctx context.Context, p domain.NearbyParams) (domain.NearbyResult, error)
	Top(ctx context.Context, p domain.TopParams) (domain.TopResult, error)
	ByMagnitudeTier(ctx context.Context, p domain.TierParams) (domain.FeedResult, error)
	Event(ctx context.Context, p domain.EventParams) (domain.QuakeRecord, error)
	Compare(ctx context.Context, p domain.CompareParams) (domain.ComparisonResult, error)
	RegionalReport(ctx context.Context, p domain.ReportParams) (domain.RegionalReport, error)
	Overview(ctx context.Context) (domain.Overview, error)
	AssessLocation(ctx context.Context, p domain.RiskParams) (domain.LocationRisk, error)
}

// ResultSink receives a record of every successful operation. A nil sink
// disables publishing.
type ResultSink interface {
	Publish(ctx context.Context, events ...domain.ResultEvent) error
}

// Server exposes the quake API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        QueryService
	sink       ResultSink
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer wires the router. sink may be nil.
func NewServer(cfg *config.Config, svc QueryService, ready sharedobs.ReadinessChecker, sink ResultSink, metrics *observability.Metrics, logger *slog.Logger) *Server {
	s := &Server{
		svc:     svc,
		sink:    sink,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(ready))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(rateLimit(cfg.APIRateLimit, cfg.APIRateBurst, metrics, logger))
		if cfg.RequestTimeout > 0 {
			api.Use(chimw.Timeout(cfg.RequestTimeout))
		}

		api.Get("/", s.handleCatalog)
		api.Get("/overview", s.handleOverview)
		api.Get("/regions", s.handleRegions)
		api.Get("/regions/{name}/report", s.handleRegionReport)
		api.Get("/report", s.handleBoundsReport)
		api.Get("/risk", s.handleRisk)
		api.Post("/compare", s.handleCompare)

		api.Route("/quakes", func(q chi.Router) {
			q.Get("/search", s.handleSearch)
			q.Get("/nearby", s.handleNearby)
			q.Get("/top", s.handleTop)
			q.Get("/tier/{tier}/{window}", s.handleTier)
			q.Get("/{id}", s.handleEvent)
		})
	})

	s.httpServer = &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// API handlers stop at RequestTimeout; the margin leaves room to write the 504.
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func writeTimeout(cfg *config.Config) time.Duration {
	if cfg.RequestTimeout > 0 {
		return cfg.RequestTimeout + 5*time.Second
	}
	return cfg.USGSTimeout + 10*time.Second
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
