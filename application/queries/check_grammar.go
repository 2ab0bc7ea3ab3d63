package queries

import (
	"encoding/json"
	"strings"

	pkgerrors "insightseo/pkg/errors"
)

// DefaultGrammarLanguage is used when a request names no language
const DefaultGrammarLanguage = "en-US"

// CheckGrammarQuery represents a request to grammar-check text
type CheckGrammarQuery struct {
	Text     string
	Language string
}

// Validate validates the CheckGrammarQuery
func (q CheckGrammarQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.NewEmptyInputError()
	}
	return nil
}

// LanguageOrDefault returns the requested language or the default
func (q CheckGrammarQuery) LanguageOrDefault() string {
	if lang := strings.TrimSpace(q.Language); lang != "" {
		return lang
	}
	return DefaultGrammarLanguage
}

// CheckGrammarResult relays the grammar service's matches verbatim
type CheckGrammarResult struct {
	Matches []json.RawMessage `json:"matches"`
}
