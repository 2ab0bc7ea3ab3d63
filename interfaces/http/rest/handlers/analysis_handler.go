package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"insightseo/application/queries"
	querybus "insightseo/application/queries/bus"
	"insightseo/pkg/common"
	"insightseo/pkg/utils"
)

// ErrorWriter renders an error response
type ErrorWriter interface {
	Handle(w http.ResponseWriter, r *http.Request, err error)
}

// AnalysisHandler handles analysis and keyword insertion requests
type AnalysisHandler struct {
	queryBus     *querybus.QueryBus
	errors       ErrorWriter
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(
	queryBus *querybus.QueryBus,
	errors ErrorWriter,
	maxBodyBytes int64,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		queryBus:     queryBus,
		errors:       errors,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// AnalyzeRequest represents the request body for POST /analyze
type AnalyzeRequest struct {
	Text   string `json:"text"`
	Format string `json:"format,omitempty" validate:"omitempty,max=16"`
}

// InsertKeywordRequest represents the request body for POST /insert-keyword
type InsertKeywordRequest struct {
	Text    string `json:"text"`
	Keyword string `json:"keyword" validate:"max=200"`
}

// Analyze handles POST /analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := querybus.AskAs[*queries.AnalyzeTextResult](r.Context(), h.queryBus, queries.AnalyzeTextQuery{
		Text:   req.Text,
		Format: req.Format,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// InsertKeyword handles POST /insert-keyword
func (h *AnalysisHandler) InsertKeyword(w http.ResponseWriter, r *http.Request) {
	var req InsertKeywordRequest
	if err := common.ParseJSONBody(w, r, &req, h.maxBodyBytes); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := querybus.AskAs[*queries.InsertKeywordResult](r.Context(), h.queryBus, queries.InsertKeywordQuery{
		Text:    req.Text,
		Keyword: req.Keyword,
	})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
