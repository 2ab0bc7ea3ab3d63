package entities

import (
	"insightseo/domain/core/valueobjects"
)

// AnalysisResult aggregates everything computed for one text.
// It is built once per request and never modified afterwards, so a cached
// instance can be shared between callers.
type AnalysisResult struct {
	readability valueobjects.Readability
	stats       valueobjects.Stats
	keywords    []valueobjects.KeywordEntry
	suggestions []string
}

// NewAnalysisResult creates a result, copying the slices it is given
func NewAnalysisResult(
	readability valueobjects.Readability,
	stats valueobjects.Stats,
	keywords []valueobjects.KeywordEntry,
	suggestions []string,
) *AnalysisResult {
	return &AnalysisResult{
		readability: readability,
		stats:       stats,
		keywords:    append([]valueobjects.KeywordEntry{}, keywords...),
		suggestions: append([]string{}, suggestions...),
	}
}

// Readability returns the readability label
func (r *AnalysisResult) Readability() valueobjects.ReadabilityLabel {
	return r.readability.Label
}

// ReadabilityScore returns the numeric reading-ease score behind the label
func (r *AnalysisResult) ReadabilityScore() float64 {
	return r.readability.Score
}

// Stats returns the content statistics
func (r *AnalysisResult) Stats() valueobjects.Stats {
	return r.stats
}

// Keywords returns a copy of the ranked keyword list
func (r *AnalysisResult) Keywords() []valueobjects.KeywordEntry {
	return append([]valueobjects.KeywordEntry{}, r.keywords...)
}

// Suggestions returns a copy of the suggestions in priority order
func (r *AnalysisResult) Suggestions() []string {
	return append([]string{}, r.suggestions...)
}

// TopKeyword returns the highest ranked keyword, if any
func (r *AnalysisResult) TopKeyword() (valueobjects.KeywordEntry, bool) {
	if len(r.keywords) == 0 {
		return valueobjects.KeywordEntry{}, false
	}
	return r.keywords[0], true
}
