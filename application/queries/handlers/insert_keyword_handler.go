package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"insightseo/application/queries"
	"insightseo/domain/services"
)

// InsertKeywordHandler handles keyword insertion queries
type InsertKeywordHandler struct {
	engine *services.Engine
	logger *zap.Logger
}

// NewInsertKeywordHandler creates a new insert keyword handler
func NewInsertKeywordHandler(engine *services.Engine, logger *zap.Logger) *InsertKeywordHandler {
	return &InsertKeywordHandler{
		engine: engine,
		logger: logger,
	}
}

// Handle executes the insertion query. Insertion is pure, so the query is
// safe to cache and to repeat.
func (h *InsertKeywordHandler) Handle(ctx context.Context, query queries.InsertKeywordQuery) (*queries.InsertKeywordResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	insertion, err := h.engine.InsertKeyword(query.Text, query.Keyword)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Keyword inserted",
		zap.String("keyword", query.Keyword),
		zap.String("strategy", string(insertion.Strategy)),
		zap.Int("length_before", len(query.Text)),
		zap.Int("length_after", len(insertion.UpdatedText)),
	)

	return &queries.InsertKeywordResult{UpdatedText: insertion.UpdatedText}, nil
}
