package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"insightseo/application/ports"
	"insightseo/application/queries"
	pkgerrors "insightseo/pkg/errors"
)

// CheckGrammarHandler relays grammar checks to the external service
type CheckGrammarHandler struct {
	checker ports.GrammarChecker
	logger  *zap.Logger
}

// NewCheckGrammarHandler creates a new check grammar handler
func NewCheckGrammarHandler(checker ports.GrammarChecker, logger *zap.Logger) *CheckGrammarHandler {
	return &CheckGrammarHandler{
		checker: checker,
		logger:  logger,
	}
}

// Handle executes the grammar check. Any upstream failure is reported as
// GrammarServiceUnavailable.
func (h *CheckGrammarHandler) Handle(ctx context.Context, query queries.CheckGrammarQuery) (*queries.CheckGrammarResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	language := query.LanguageOrDefault()
	matches, err := h.checker.Check(ctx, query.Text, language)
	if err != nil {
		h.logger.Warn("Grammar check failed",
			zap.String("language", language),
			zap.Error(err),
		)
		if pkgerrors.IsGrammarServiceUnavailable(err) {
			return nil, err
		}
		return nil, pkgerrors.NewGrammarServiceUnavailableError(err)
	}

	if matches == nil {
		matches = []json.RawMessage{}
	}

	return &queries.CheckGrammarResult{Matches: matches}, nil
}
