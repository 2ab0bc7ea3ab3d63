package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"insightseo/application/queries"
	querybus "insightseo/application/queries/bus"
	"insightseo/pkg/common"
	"insightseo/pkg/utils"
)

// GrammarHandler proxies grammar checks
type GrammarHandler struct {
	queryBus     *querybus.QueryBus
	errors       ErrorWriter
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewGrammarHandler creates a new grammar handler
func NewGrammarHandler(
	queryBus *querybus.QueryBus,
	errors ErrorWriter,
	maxBodyBytes int64,
	logger *zap.Logger,
) *GrammarHandler {
	return &GrammarHandler{
		queryBus:     queryBus,
		errors:       errors,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// CheckGrammarRequest represents the request body for POST /api/nlp/check-grammar
type CheckGrammarRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty" validate:"omitempty,min=2,max=16"`
}

// CheckGrammar handles POST /api/nlp/check-grammar
func (h *GrammarHandler) CheckGrammar(w http.ResponseWriter, r *http.Request) {
	var req CheckGrammarRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := querybus.AskAs[*queries.CheckGrammarResult](r.Context(), h.queryBus, queries.CheckGrammarQuery{
		Text:     req.Text,
		Language: req.Language,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
