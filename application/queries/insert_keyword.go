package queries

import (
	"strings"

	pkgerrors "insightseo/pkg/errors"
)

// InsertKeywordQuery represents a request to work a keyword into text
type InsertKeywordQuery struct {
	Text    string
	Keyword string
}

// Validate validates the InsertKeywordQuery. Text is checked first.
func (q InsertKeywordQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.NewEmptyInputError()
	}
	if strings.TrimSpace(q.Keyword) == "" {
		return pkgerrors.NewInvalidKeywordError("")
	}
	return nil
}

// InsertKeywordResult represents the rewritten text
type InsertKeywordResult struct {
	UpdatedText string `json:"updatedText"`
}
