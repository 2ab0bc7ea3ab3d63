package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"go.uber.org/zap"

	"insightseo/application/ports"
	"insightseo/application/queries"
	querybus "insightseo/application/queries/bus"
	queries_handlers "insightseo/application/queries/handlers"
	domainconfig "insightseo/domain/config"
	"insightseo/domain/services"
	"insightseo/infrastructure/cache"
	"insightseo/infrastructure/config"
	"insightseo/infrastructure/extract"
	"insightseo/infrastructure/grammar"
	"insightseo/infrastructure/observability"
	"insightseo/interfaces/http/rest"
	"insightseo/pkg/errors"
	"insightseo/pkg/ratelimit"
)

// Telemetry bundles the configured metrics backend
type Telemetry struct {
	Recorder observability.Recorder
	// Handler serves /metrics; nil unless the provider is prometheus
	Handler http.Handler
	// CloudWatch must be flushed; nil unless the provider is cloudwatch
	CloudWatch *observability.CloudWatchMetrics
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	return zapCfg.Build()
}

// ProvideAnalysisConfig resolves the analysis thresholds for the environment
func ProvideAnalysisConfig(cfg *config.Config) (*domainconfig.AnalysisConfig, error) {
	return cfg.AnalysisConfig()
}

// ProvideEngine creates the analysis engine
func ProvideEngine(analysisConfig *domainconfig.AnalysisConfig) *services.Engine {
	return services.NewEngine(analysisConfig)
}

// ProvideTextExtractor creates the markdown/html extractor
func ProvideTextExtractor() ports.TextExtractor {
	return extract.NewExtractor()
}

// ProvideGrammarClient creates the LanguageTool client
func ProvideGrammarClient(cfg *config.Config, logger *zap.Logger) (*grammar.Client, error) {
	return grammar.NewClient(grammar.Config{
		BaseURL:          cfg.Grammar.URL,
		Timeout:          cfg.Grammar.Timeout,
		MaxRequests:      cfg.Grammar.MaxRequests,
		Interval:         cfg.Grammar.Interval,
		OpenTimeout:      cfg.Grammar.OpenTimeout,
		FailureThreshold: cfg.Grammar.FailureThreshold,
		MinRequests:      cfg.Grammar.MinRequests,
	}, nil, logger.Named("grammar"))
}

// ProvideCache creates the query result cache. It returns nil when caching
// is disabled.
func ProvideCache(cfg *config.Config) (ports.Cache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	c, err := cache.NewLRUCache(cfg.Cache.Size, cfg.Cache.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return c, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideTelemetry creates the metrics backend selected by configuration
func ProvideTelemetry(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Telemetry, error) {
	switch cfg.Metrics.Provider {
	case config.MetricsPrometheus:
		collector := observability.NewCollector(cfg.Metrics.Namespace)
		return &Telemetry{Recorder: collector, Handler: collector.Handler()}, nil
	case config.MetricsCloudWatch:
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		namespace := fmt.Sprintf("%s/%s", cfg.Metrics.Namespace, cfg.Environment)
		metrics := observability.NewCloudWatchMetrics(namespace, awscloudwatch.NewFromConfig(awsCfg), logger.Named("metrics"))
		return &Telemetry{Recorder: metrics, CloudWatch: metrics}, nil
	default:
		return &Telemetry{Recorder: observability.NopRecorder{}}, nil
	}
}

// ProvideTracerProvider creates the tracer provider
func ProvideTracerProvider(ctx context.Context, cfg *config.Config) (*observability.TracerProvider, error) {
	return observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
}

// ProvideQueryBus creates a query bus with registered handlers. Middleware
// runs tracing, then metrics, then the cache.
func ProvideQueryBus(
	engine *services.Engine,
	extractor ports.TextExtractor,
	checker ports.GrammarChecker,
	resultCache ports.Cache,
	telemetry *Telemetry,
	tracing *observability.TracerProvider,
	cfg *config.Config,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	var middlewares []querybus.Middleware
	if cfg.Tracing.Enabled {
		middlewares = append(middlewares, querybus.NewTracingMiddleware(tracing.Tracer()))
	}
	middlewares = append(middlewares, querybus.NewMetricsMiddleware(telemetry.Recorder))
	if resultCache != nil {
		middlewares = append(middlewares, querybus.NewCachingMiddleware(resultCache, int(cfg.Cache.TTL/time.Second)))
	}

	queryBus := querybus.NewQueryBus(middlewares...)

	registrations := []struct {
		query   querybus.Query
		handler querybus.QueryHandler
	}{
		{
			query: queries.AnalyzeTextQuery{},
			handler: querybus.Adapt[queries.AnalyzeTextQuery, *queries.AnalyzeTextResult](
				queries_handlers.NewAnalyzeTextHandler(engine, extractor, logger),
			),
		},
		{
			query: queries.InsertKeywordQuery{},
			handler: querybus.Adapt[queries.InsertKeywordQuery, *queries.InsertKeywordResult](
				queries_handlers.NewInsertKeywordHandler(engine, logger),
			),
		},
		{
			query: queries.CheckGrammarQuery{},
			handler: querybus.Adapt[queries.CheckGrammarQuery, *queries.CheckGrammarResult](
				queries_handlers.NewCheckGrammarHandler(checker, logger),
			),
		},
	}

	for _, reg := range registrations {
		if err := queryBus.Register(reg.query, reg.handler); err != nil {
			return nil, fmt.Errorf("failed to register %T: %w", reg.query, err)
		}
	}

	return queryBus, nil
}

// ProvideErrorHandler creates the HTTP error renderer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *errors.ErrorHandler {
	return errors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideRateLimiter creates the per-client limiter. It returns nil when
// rate limiting is disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.TokenBucketLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	limiter := ratelimit.NewPerMinuteLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	limiter.StartCleanup(5 * time.Minute)
	return limiter
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	queryBus *querybus.QueryBus,
	errorHandler *errors.ErrorHandler,
	grammarClient *grammar.Client,
	limiter *ratelimit.TokenBucketLimiter,
	telemetry *Telemetry,
	tracing *observability.TracerProvider,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	options := rest.Options{
		Environment:    cfg.Environment,
		MaxBodyBytes:   cfg.MaxBodyBytes,
		EnableCORS:     cfg.EnableCORS,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        telemetry.Recorder,
		MetricsHandler: telemetry.Handler,
		Grammar:        grammarClient,
	}
	if limiter != nil {
		options.RateLimit = rest.RateLimitSettings{
			Limiter:           limiter,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			RetryAfter:        limiter.RetryAfter(),
		}
	}
	if cfg.Tracing.Enabled {
		options.Tracer = tracing.Tracer()
	}

	return rest.NewRouter(queryBus, errorHandler, options, logger)
}
