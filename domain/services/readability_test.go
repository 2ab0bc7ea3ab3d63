package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
)

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word     string
		expected int
	}{
		{"seo", 1},
		{"great", 1},
		{"websites", 3},
		{"rhythm", 1},
		{"beautiful", 3},
		{"queue", 1},
		{"123", 1},
		{"sentences", 3},
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountSyllables(tt.word))
		})
	}
}

func scoreText(scorer *ReadabilityScorer, text string) valueobjects.Readability {
	seg := NewSegmenter().Segment(text)
	return scorer.Score(seg.Stats(), seg.Sentences, seg.Words)
}

func TestReadabilityScorer_Labels(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		label    valueobjects.ReadabilityLabel
		score    float64
		anyScore bool
	}{
		{
			name:  "short simple words",
			text:  "The cat sat on the mat.",
			label: valueobjects.ReadabilityEasy,
			score: 116.145,
		},
		{
			name:  "moderate sentence",
			text:  "Reading longer sentences takes more effort than reading short ones.",
			label: valueobjects.ReadabilityMedium,
			score: 35.945,
		},
		{
			name:     "dense vocabulary",
			text:     "Internationalization considerations necessitate comprehensive organizational documentation.",
			label:    valueobjects.ReadabilityHard,
			anyScore: true,
		},
		{
			name:  "blank",
			text:  "   ",
			label: valueobjects.ReadabilityHard,
			score: 0,
		},
		{
			name:  "punctuation only",
			text:  "?!",
			label: valueobjects.ReadabilityHard,
			score: 0,
		},
	}

	scorer := NewReadabilityScorer(config.DefaultAnalysisConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scoreText(scorer, tt.text)
			assert.Equal(t, tt.label, got.Label)
			if tt.anyScore {
				assert.Less(t, got.Score, 30.0)
				return
			}
			assert.InDelta(t, tt.score, got.Score, 0.01)
		})
	}
}

func TestReadabilityScorer_Monotonic(t *testing.T) {
	scorer := NewReadabilityScorer(nil)

	short := scoreText(scorer, "The dog ran. The cat sat. The bird sang.")
	long := scoreText(scorer, "The dog ran and the cat sat and the bird sang.")
	assert.Greater(t, short.Score, long.Score, "longer sentences must not score higher")

	simple := scoreText(scorer, "We use big words.")
	dense := scoreText(scorer, "We utilize enormous vocabulary.")
	assert.Greater(t, simple.Score, dense.Score, "more syllables must not score higher")
}

func TestReadabilityScorer_StableUnderWhitespace(t *testing.T) {
	scorer := NewReadabilityScorer(nil)

	a := scoreText(scorer, "Good content wins. Readers stay longer.")
	b := scoreText(scorer, "  Good   content\twins.\n\nReaders  stay longer.  ")
	assert.Equal(t, a, b)
	assert.Equal(t, a, scoreText(scorer, "Good content wins. Readers stay longer."))
}
