package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
)

func extractText(extractor *KeywordExtractor, text string) []valueobjects.KeywordEntry {
	seg := NewSegmenter().Segment(text)
	return extractor.Extract(seg.Words, seg.Sentences)
}

func keywordsOf(entries []valueobjects.KeywordEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Keyword
	}
	return out
}

func TestKeywordExtractor_Scenario(t *testing.T) {
	extractor := NewKeywordExtractor(config.DefaultAnalysisConfig())

	entries := extractText(extractor, "SEO is great. SEO helps websites rank.")

	require.Len(t, entries, 10)
	assert.Equal(t, valueobjects.KeywordEntry{
		Keyword:   "seo",
		Type:      valueobjects.KeywordSingle,
		Count:     2,
		Density:   28.57,
		Relevance: 0.9,
	}, entries[0])

	assert.Equal(t, "seo is great", entries[1].Keyword)
	assert.Equal(t, valueobjects.KeywordPhrase, entries[1].Type)
	assert.Equal(t, 0.65, entries[1].Relevance)
	assert.Equal(t, "great", entries[2].Keyword)

	// Grams that start or end with a stop word never qualify
	assert.NotContains(t, keywordsOf(entries), "seo is")
	assert.NotContains(t, keywordsOf(entries), "is great")
}

func TestKeywordExtractor_Filtering(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
		excluded []string
	}{
		{
			name:     "only stop words",
			text:     "The and of it. Is it?",
			expected: []string{},
		},
		{
			name:     "numbers never rank",
			text:     "2024 2024 2024 report",
			expected: []string{"report"},
			excluded: []string{"2024", "2024 report"},
		},
		{
			name:     "phrases do not cross sentences",
			text:     "Buy shoes. Cheap deals.",
			expected: []string{"buy shoes", "cheap deals", "buy", "shoes", "cheap", "deals"},
			excluded: []string{"shoes cheap"},
		},
		{
			name:     "single letters are too short",
			text:     "x y z marks",
			expected: []string{"marks"},
		},
	}

	extractor := NewKeywordExtractor(nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := extractText(extractor, tt.text)
			require.NotNil(t, entries)

			got := keywordsOf(entries)
			assert.ElementsMatch(t, tt.expected, got)
			for _, ex := range tt.excluded {
				assert.NotContains(t, got, ex)
			}
		})
	}
}

func TestKeywordExtractor_Invariants(t *testing.T) {
	text := strings.Repeat("Content marketing drives organic traffic. ", 3) +
		"Search engines reward helpful content. Marketing teams publish weekly guides. " +
		"Organic traffic grows when content answers real questions."

	extractor := NewKeywordExtractor(nil)
	entries := extractText(extractor, text)

	require.NotEmpty(t, entries)
	assert.LessOrEqual(t, len(entries), 10)

	seen := make(map[string]bool)
	for i, e := range entries {
		assert.False(t, seen[e.Keyword], "duplicate keyword %q", e.Keyword)
		seen[e.Keyword] = true

		assert.GreaterOrEqual(t, e.Density, 0.0)
		assert.LessOrEqual(t, e.Density, 100.0)
		assert.GreaterOrEqual(t, e.Relevance, 0.0)
		assert.LessOrEqual(t, e.Relevance, 1.0)

		if i > 0 {
			prev := entries[i-1]
			assert.GreaterOrEqual(t, prev.Relevance, e.Relevance, "entries must be ordered by relevance")
			if prev.Relevance == e.Relevance {
				assert.True(t, prev.Count > e.Count || (prev.Count == e.Count && prev.Keyword < e.Keyword),
					"ties must be broken by count then keyword: %q before %q", prev.Keyword, e.Keyword)
			}
		}
	}

	assert.Equal(t, "content", entries[0].Keyword)
	assert.Equal(t, entries, extractText(extractor, text), "extraction must be deterministic")
}

func TestKeywordExtractor_RelevanceGrowsWithFrequency(t *testing.T) {
	cfg := config.DefaultAnalysisConfig().WithOverrides(config.Overrides{MaxKeywords: 50})
	extractor := NewKeywordExtractor(cfg)

	entries := extractText(extractor, "Intro line here. Apples apples apples pears pears kiwis.")
	byKeyword := make(map[string]valueobjects.KeywordEntry)
	for _, e := range entries {
		byKeyword[e.Keyword] = e
	}

	assert.Greater(t, byKeyword["apples"].Relevance, byKeyword["pears"].Relevance)
	assert.Greater(t, byKeyword["pears"].Relevance, byKeyword["kiwis"].Relevance)
	assert.Greater(t, byKeyword["kiwis"].Relevance, 0.0)
}

func TestKeywordExtractor_Cap(t *testing.T) {
	cfg := config.DefaultAnalysisConfig().WithOverrides(config.Overrides{MaxKeywords: 3})
	extractor := NewKeywordExtractor(cfg)

	entries := extractText(extractor, "Alpha beta gamma delta epsilon zeta eta theta.")
	assert.Len(t, entries, 3)
}

func TestDensity(t *testing.T) {
	assert.Equal(t, 0.0, Density(1, 0))
	assert.Equal(t, 28.57, Density(2, 7))
	assert.Equal(t, 100.0, Density(3, 3))
	assert.Equal(t, 100.0, Density(5, 3))
}
