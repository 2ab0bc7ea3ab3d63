package services

import (
	"math"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
)

// Flesch reading-ease coefficients
const (
	fleschBase          = 206.835
	fleschSentenceCoeff = 1.015
	fleschSyllableCoeff = 84.6
)

// ReadabilityScorer maps sentence and word statistics onto a readability band
type ReadabilityScorer struct {
	config *config.AnalysisConfig
}

// NewReadabilityScorer creates a new readability scorer
func NewReadabilityScorer(cfg *config.AnalysisConfig) *ReadabilityScorer {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	return &ReadabilityScorer{config: cfg}
}

// Score computes the Flesch reading-ease score and its label. Longer
// sentences and longer words only ever lower the score. Text without words
// or sentences is labelled Hard with a score of 0.
func (s *ReadabilityScorer) Score(stats valueobjects.Stats, sentences []Sentence, words []Token) valueobjects.Readability {
	if stats.WordCount == 0 || stats.SentenceCount == 0 || len(words) == 0 {
		return valueobjects.Readability{Label: valueobjects.ReadabilityHard, Score: 0}
	}

	sentenceCount := stats.SentenceCount
	if len(sentences) > 0 {
		sentenceCount = len(sentences)
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w.Normalized)
	}

	wordsPerSentence := float64(len(words)) / float64(sentenceCount)
	syllablesPerWord := float64(syllables) / float64(len(words))
	score := fleschBase - fleschSentenceCoeff*wordsPerSentence - fleschSyllableCoeff*syllablesPerWord

	return valueobjects.Readability{
		Label: s.label(score),
		Score: math.Round(score*100) / 100,
	}
}

func (s *ReadabilityScorer) label(score float64) valueobjects.ReadabilityLabel {
	switch {
	case score >= s.config.EasyReadingMin:
		return valueobjects.ReadabilityEasy
	case score >= s.config.MediumReadingMin:
		return valueobjects.ReadabilityMedium
	default:
		return valueobjects.ReadabilityHard
	}
}

// CountSyllables approximates syllables as the number of vowel groups,
// with a minimum of one per word.
func CountSyllables(word string) int {
	count := 0
	inVowel := false
	for _, r := range word {
		if isVowel(r) {
			if !inVowel {
				count++
			}
			inVowel = true
			continue
		}
		inVowel = false
	}
	if count == 0 {
		return 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}
