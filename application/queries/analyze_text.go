package queries

import (
	"strings"

	"insightseo/domain/core/entities"
	"insightseo/domain/core/valueobjects"
	pkgerrors "insightseo/pkg/errors"
)

// AnalyzeTextQuery represents a request to analyze a block of prose
type AnalyzeTextQuery struct {
	Text   string
	Format string
}

// Validate validates the AnalyzeTextQuery
func (q AnalyzeTextQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return pkgerrors.NewEmptyInputError()
	}
	if _, err := valueobjects.ParseContentFormat(q.Format); err != nil {
		return err
	}
	return nil
}

// AnalyzeTextResult represents the analysis returned to clients
type AnalyzeTextResult struct {
	Readability      string         `json:"readability"`
	ReadabilityScore float64        `json:"readabilityScore"`
	Stats            Stats          `json:"stats"`
	KeywordAnalysis  []KeywordEntry `json:"keywordAnalysis"`
	Suggestions      []string       `json:"suggestions"`
}

// Stats represents content statistics
type Stats struct {
	WordCount      int `json:"wordCount"`
	SentenceCount  int `json:"sentenceCount"`
	CharacterCount int `json:"characterCount"`
}

// KeywordEntry represents one ranked keyword
type KeywordEntry struct {
	Keyword   string  `json:"keyword"`
	Type      string  `json:"type"`
	Count     int     `json:"count"`
	Density   float64 `json:"density"`
	Relevance float64 `json:"relevance"`
}

// NewAnalyzeTextResult maps a domain analysis onto the response shape
func NewAnalyzeTextResult(result *entities.AnalysisResult) *AnalyzeTextResult {
	stats := result.Stats()
	keywords := result.Keywords()

	entries := make([]KeywordEntry, len(keywords))
	for i, k := range keywords {
		entries[i] = KeywordEntry{
			Keyword:   k.Keyword,
			Type:      string(k.Type),
			Count:     k.Count,
			Density:   k.Density,
			Relevance: k.Relevance,
		}
	}

	return &AnalyzeTextResult{
		Readability:      string(result.Readability()),
		ReadabilityScore: result.ReadabilityScore(),
		Stats: Stats{
			WordCount:      stats.WordCount,
			SentenceCount:  stats.SentenceCount,
			CharacterCount: stats.CharacterCount,
		},
		KeywordAnalysis: entries,
		Suggestions:     result.Suggestions(),
	}
}
