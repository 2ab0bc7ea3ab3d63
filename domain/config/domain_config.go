package config

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AnalysisConfig holds the scoring weights, thresholds and word lists used by
// the analysis engine. It is built once at start-up and must not be modified
// afterwards; the engine reads it from many goroutines without locking.
type AnalysisConfig struct {
	// Keyword extraction
	MaxKeywords      int
	MinKeywordLength int
	MinPhraseWords   int
	MaxPhraseWords   int

	// Relevance weights, must sum to 1
	FrequencyWeight float64
	PositionWeight  float64
	LengthWeight    float64

	// Readability bands on the Flesch reading-ease scale
	EasyReadingMin   float64
	MediumReadingMin float64

	// Suggestion thresholds
	MinWordCount        int
	MaxAvgSentenceWords float64
	MaxKeywordDensity   float64
	MinKeywordDensity   float64

	// Keyword insertion policy
	SufficientKeywordDensity float64
	DominantKeywordDensity   float64
	MaxSentenceWords         int

	// Input limits
	MaxTextLength int

	stopWords map[string]struct{}
}

// DefaultAnalysisConfig returns the default analysis configuration
func DefaultAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		MaxKeywords:      10,
		MinKeywordLength: 2,
		MinPhraseWords:   2,
		MaxPhraseWords:   3,

		FrequencyWeight: 0.7,
		PositionWeight:  0.2,
		LengthWeight:    0.1,

		EasyReadingMin:   60,
		MediumReadingMin: 30,

		MinWordCount:        300,
		MaxAvgSentenceWords: 20,
		MaxKeywordDensity:   3.0,
		MinKeywordDensity:   0.5,

		SufficientKeywordDensity: 2.0,
		DominantKeywordDensity:   10.0,
		MaxSentenceWords:         25,

		MaxTextLength: 100000,

		stopWords: newWordSet(defaultStopWords),
	}
}

// ProductionAnalysisConfig returns production-specific configuration
func ProductionAnalysisConfig() *AnalysisConfig {
	cfg := DefaultAnalysisConfig()

	// Tighter input ceiling for the public endpoint
	cfg.MaxTextLength = 50000

	return cfg
}

// DevelopmentAnalysisConfig returns development-specific configuration
func DevelopmentAnalysisConfig() *AnalysisConfig {
	cfg := DefaultAnalysisConfig()

	cfg.MaxKeywords = 15
	cfg.MaxTextLength = 500000

	return cfg
}

// LoadAnalysisConfig loads analysis configuration based on environment
func LoadAnalysisConfig(environment string) *AnalysisConfig {
	switch environment {
	case "production":
		return ProductionAnalysisConfig()
	case "development":
		return DevelopmentAnalysisConfig()
	default:
		return DefaultAnalysisConfig()
	}
}

// Overrides carries operator-supplied adjustments applied on top of a preset.
// Zero values leave the preset untouched.
type Overrides struct {
	MaxKeywords      int
	MinWordCount     int
	MaxTextLength    int
	ExtraStopWords   []string
	AllowedStopWords []string
}

// WithOverrides returns a copy of the configuration with the overrides applied.
// The receiver is left unchanged.
func (c *AnalysisConfig) WithOverrides(o Overrides) *AnalysisConfig {
	clone := *c
	clone.stopWords = make(map[string]struct{}, len(c.stopWords)+len(o.ExtraStopWords))
	for w := range c.stopWords {
		clone.stopWords[w] = struct{}{}
	}

	if o.MaxKeywords > 0 {
		clone.MaxKeywords = o.MaxKeywords
	}
	if o.MinWordCount > 0 {
		clone.MinWordCount = o.MinWordCount
	}
	if o.MaxTextLength > 0 {
		clone.MaxTextLength = o.MaxTextLength
	}
	for _, w := range o.ExtraStopWords {
		if w = normalizeWord(w); w != "" {
			clone.stopWords[w] = struct{}{}
		}
	}
	for _, w := range o.AllowedStopWords {
		delete(clone.stopWords, normalizeWord(w))
	}

	return &clone
}

// IsStopWord reports whether the normalized word is excluded from keyword candidacy
func (c *AnalysisConfig) IsStopWord(word string) bool {
	_, ok := c.stopWords[word]
	return ok
}

// StopWords returns the stop-word list in sorted order
func (c *AnalysisConfig) StopWords() []string {
	words := make([]string, 0, len(c.stopWords))
	for w := range c.stopWords {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Validate checks if the configuration is valid
func (c *AnalysisConfig) Validate() error {
	if c.MaxKeywords < 1 {
		return fmt.Errorf("max keywords must be positive, got %d", c.MaxKeywords)
	}
	if c.MinPhraseWords < 2 || c.MaxPhraseWords < c.MinPhraseWords {
		return fmt.Errorf("invalid phrase length range %d-%d", c.MinPhraseWords, c.MaxPhraseWords)
	}
	for name, w := range map[string]float64{
		"frequency": c.FrequencyWeight,
		"position":  c.PositionWeight,
		"length":    c.LengthWeight,
	} {
		if w < 0 {
			return fmt.Errorf("%s weight must not be negative", name)
		}
	}
	if sum := c.FrequencyWeight + c.PositionWeight + c.LengthWeight; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("relevance weights must sum to 1, got %.4f", sum)
	}
	if c.FrequencyWeight == 0 {
		return fmt.Errorf("frequency weight must be positive")
	}
	if c.EasyReadingMin <= c.MediumReadingMin {
		return fmt.Errorf("easy band (%.1f) must start above medium band (%.1f)", c.EasyReadingMin, c.MediumReadingMin)
	}
	if c.MinKeywordDensity > c.MaxKeywordDensity {
		return fmt.Errorf("min keyword density exceeds max keyword density")
	}
	if c.SufficientKeywordDensity > c.DominantKeywordDensity {
		return fmt.Errorf("sufficient keyword density exceeds dominant keyword density")
	}
	if c.MaxSentenceWords < 1 {
		return fmt.Errorf("max sentence words must be positive")
	}
	if c.MaxTextLength < 1 {
		return fmt.Errorf("max text length must be positive")
	}
	if c.stopWords == nil {
		return fmt.Errorf("stop-word list is not initialised; use a constructor")
	}
	return nil
}

func newWordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func normalizeWord(w string) string {
	return strings.ToLower(strings.TrimSpace(w))
}
