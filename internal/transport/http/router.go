package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/trace"

	"github.com/Jtofah/pdsnd-github/internal/config"
	apierrors "github.com/Jtofah/pdsnd-github/internal/errors"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/middleware"
)

// RouterDeps holds everything the router needs. Tracer, Metrics and
// MetricsHandler are optional.
type RouterDeps struct {
	Service        *StatsService
	Logger         *slog.Logger
	Server         config.ServerConfig
	Tracer         trace.Tracer
	Metrics        *infrastructure.AnalyticsMetrics
	MetricsHandler http.Handler
}

// NewRouter builds the chi router with the middleware chain and all routes
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	errorHandler := apierrors.NewErrorHandler(logger, infrastructure.TraceIDFromContext)
	handler := NewStatsHandler(deps.Service, errorHandler, deps.Metrics, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.NewOTelMiddleware(deps.Tracer, deps.Metrics, logger).Handler)
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.StripSlashes)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleError(w, r, apierrors.NotFoundError("route "+r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleError(w, r, apierrors.New(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed"))
	})

	r.Get("/healthz", handler.Health)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		if deps.Server.RateLimit.Enabled {
			r.Use(middleware.NewRateLimiter(deps.Server.RateLimit.RPS, deps.Server.RateLimit.Burst, logger).Handler)
		}
		r.Use(middleware.Timeout(deps.Server.RequestTimeout))

		r.Get("/cities", handler.Cities)
		r.Get("/stats", handler.Stats)
		r.Get("/rows", handler.Rows)
	})

	return r
}
