//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"github.com/google/wire"

	"insightseo/application/ports"
	"insightseo/infrastructure/config"
	"insightseo/infrastructure/grammar"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAnalysisConfig,
	ProvideEngine,
	ProvideTextExtractor,
	ProvideGrammarClient,
	wire.Bind(new(ports.GrammarChecker), new(*grammar.Client)),
	ProvideCache,
	ProvideTelemetry,
	ProvideTracerProvider,
	ProvideQueryBus,
	ProvideErrorHandler,
	ProvideRateLimiter,
	ProvideRouter,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
