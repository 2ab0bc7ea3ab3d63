package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	querybus "insightseo/application/queries/bus"
	"insightseo/interfaces/http/rest/handlers"
	"insightseo/interfaces/http/rest/middleware"
	"insightseo/pkg/common"
	"insightseo/pkg/errors"
	"insightseo/pkg/ratelimit"
)

// GrammarStatus reports the state of the grammar service circuit breaker
type GrammarStatus interface {
	Healthy() bool
	State() string
}

// RateLimitSettings configures per-client limiting. A nil Limiter disables it.
type RateLimitSettings struct {
	Limiter           ratelimit.RateLimiter
	RequestsPerMinute int
	RetryAfter        time.Duration
}

// Options carries everything the router needs
type Options struct {
	Environment    string
	MaxBodyBytes   int64
	EnableCORS     bool
	AllowedOrigins []string
	RateLimit      RateLimitSettings

	// Optional
	Metrics        middleware.HTTPRecorder
	MetricsHandler http.Handler
	Tracer         trace.Tracer
	Grammar        GrammarStatus
}

// Router creates and configures the HTTP router
type Router struct {
	queryBus     *querybus.QueryBus
	errorHandler *errors.ErrorHandler
	options      Options
	logger       *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	queryBus *querybus.QueryBus,
	errorHandler *errors.ErrorHandler,
	options Options,
	logger *zap.Logger,
) *Router {
	if options.MaxBodyBytes <= 0 {
		options.MaxBodyBytes = 1 << 20
	}
	return &Router{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		options:      options,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errorHandler.Middleware)
	if rt.options.Tracer != nil {
		router.Use(middleware.Tracing(rt.options.Tracer))
	}
	if rt.options.Metrics != nil {
		router.Use(middleware.Metrics(rt.options.Metrics))
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.options.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.Handle(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.Handle(w, r, errors.NewMethodNotAllowedError(r.Method, r.URL.Path))
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.MetricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", rt.options.MetricsHandler)
	}

	analysisHandler := handlers.NewAnalysisHandler(rt.queryBus, rt.errorHandler, rt.options.MaxBodyBytes, rt.logger)
	grammarHandler := handlers.NewGrammarHandler(rt.queryBus, rt.errorHandler, rt.options.MaxBodyBytes, rt.logger)

	router.Group(func(r chi.Router) {
		if rl := rt.options.RateLimit; rl.Limiter != nil {
			r.Use(middleware.RateLimit(rl.Limiter, rl.RequestsPerMinute, rl.RetryAfter, rt.errorHandler))
		}

		r.Post("/analyze", analysisHandler.Analyze)
		r.Post("/insert-keyword", analysisHandler.InsertKeyword)

		r.Route("/api/nlp", func(r chi.Router) {
			r.Post("/check-grammar", grammarHandler.CheckGrammar)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, common.HealthResponse{
		Status:      "healthy",
		Environment: rt.options.Environment,
	})
}

// readinessCheck reports ready while the analysis engine can serve. An open
// grammar breaker degrades readiness without failing it.
func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	response := common.HealthResponse{Status: "ready", Checks: map[string]string{}}

	if rt.options.Grammar != nil {
		response.Checks["grammar"] = rt.options.Grammar.State()
		if !rt.options.Grammar.Healthy() {
			response.Status = "degraded"
		}
	}

	common.RespondJSON(w, http.StatusOK, response)
}
