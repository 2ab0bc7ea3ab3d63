package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"insightseo/application/ports"
	"insightseo/application/queries"
	"insightseo/domain/core/valueobjects"
	"insightseo/domain/services"
)

// AnalyzeTextHandler handles text analysis queries
type AnalyzeTextHandler struct {
	engine    *services.Engine
	extractor ports.TextExtractor
	logger    *zap.Logger
}

// NewAnalyzeTextHandler creates a new analyze text handler
func NewAnalyzeTextHandler(engine *services.Engine, extractor ports.TextExtractor, logger *zap.Logger) *AnalyzeTextHandler {
	return &AnalyzeTextHandler{
		engine:    engine,
		extractor: extractor,
		logger:    logger,
	}
}

// Handle executes the analysis query
func (h *AnalyzeTextHandler) Handle(ctx context.Context, query queries.AnalyzeTextQuery) (*queries.AnalyzeTextResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	format, err := valueobjects.ParseContentFormat(query.Format)
	if err != nil {
		return nil, err
	}

	text := query.Text
	if format != valueobjects.FormatPlainText {
		text, err = h.extractor.Extract(ctx, format, query.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to extract %s text: %w", format, err)
		}
	}

	result, err := h.engine.Analyze(text)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Text analyzed",
		zap.String("format", string(format)),
		zap.Int("words", result.Stats().WordCount),
		zap.String("readability", string(result.Readability())),
		zap.Int("keywords", len(result.Keywords())),
		zap.Strings("rules", h.engine.FiredRules(result)),
	)

	return queries.NewAnalyzeTextResult(result), nil
}
