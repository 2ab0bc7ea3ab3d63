package di

import (
	"context"
	"errors"

	"go.uber.org/zap"

	querybus "insightseo/application/queries/bus"
	"insightseo/domain/services"
	"insightseo/infrastructure/config"
	"insightseo/infrastructure/grammar"
	"insightseo/infrastructure/observability"
	"insightseo/interfaces/http/rest"
	"insightseo/pkg/ratelimit"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Engine      *services.Engine
	Grammar     *grammar.Client
	QueryBus    *querybus.QueryBus
	Telemetry   *Telemetry
	Tracing     *observability.TracerProvider
	RateLimiter *ratelimit.TokenBucketLimiter
	Router      *rest.Router
}

// FlushMetrics ships buffered CloudWatch metrics, if any
func (c *Container) FlushMetrics(ctx context.Context) {
	if c.Telemetry == nil || c.Telemetry.CloudWatch == nil {
		return
	}
	if err := c.Telemetry.CloudWatch.Flush(ctx); err != nil {
		c.Logger.Warn("Failed to flush metrics", zap.Error(err))
	}
}

// Shutdown flushes telemetry and stops background work
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.RateLimiter != nil {
		c.RateLimiter.Close()
	}
	c.FlushMetrics(ctx)
	if c.Tracing != nil {
		if err := c.Tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
