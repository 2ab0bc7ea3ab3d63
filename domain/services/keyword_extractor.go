package services

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
)

// KeywordExtractor derives ranked keyword candidates from segmented text
type KeywordExtractor struct {
	config *config.AnalysisConfig
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor(cfg *config.AnalysisConfig) *KeywordExtractor {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	return &KeywordExtractor{config: cfg}
}

type keywordCandidate struct {
	keyword       string
	words         int
	count         int
	firstSentence bool
}

// Extract returns single-word and phrase keywords ordered by relevance,
// then count, then keyword. Phrases are built within a sentence only. The
// list is capped at MaxKeywords and never padded.
func (e *KeywordExtractor) Extract(words []Token, sentences []Sentence) []valueobjects.KeywordEntry {
	totalWords := len(words)
	if totalWords == 0 {
		return []valueobjects.KeywordEntry{}
	}

	candidates := make(map[string]*keywordCandidate)
	add := func(keyword string, n int, first bool) {
		c, ok := candidates[keyword]
		if !ok {
			c = &keywordCandidate{keyword: keyword, words: n}
			candidates[keyword] = c
		}
		c.count++
		c.firstSentence = c.firstSentence || first
	}

	for si, sentence := range sentences {
		first := si == 0
		for i, w := range sentence.Words {
			if e.isCandidateWord(w.Normalized) {
				add(w.Normalized, 1, first)
			}
			for n := e.config.MinPhraseWords; n <= e.config.MaxPhraseWords && i+n <= len(sentence.Words); n++ {
				gram := sentence.Words[i : i+n]
				if e.isCandidatePhrase(gram) {
					add(joinNormalized(gram), n, first)
				}
			}
		}
	}

	if len(candidates) == 0 {
		return []valueobjects.KeywordEntry{}
	}

	maxCount := 0
	for _, c := range candidates {
		if c.count > maxCount {
			maxCount = c.count
		}
	}

	entries := make([]valueobjects.KeywordEntry, 0, len(candidates))
	for _, c := range candidates {
		entries = append(entries, e.entry(c, maxCount, totalWords))
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Relevance != b.Relevance {
			return a.Relevance > b.Relevance
		}
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Keyword < b.Keyword
	})

	if len(entries) > e.config.MaxKeywords {
		entries = entries[:e.config.MaxKeywords]
	}

	return entries
}

func (e *KeywordExtractor) entry(c *keywordCandidate, maxCount, totalWords int) valueobjects.KeywordEntry {
	keywordType := valueobjects.KeywordSingle
	if c.words > 1 {
		keywordType = valueobjects.KeywordPhrase
	}

	frequency := float64(c.count) / float64(maxCount)
	position := 0.0
	if c.firstSentence {
		position = 1
	}
	length := float64(c.words-1) / float64(e.config.MaxPhraseWords-1)

	relevance := e.config.FrequencyWeight*frequency +
		e.config.PositionWeight*position +
		e.config.LengthWeight*length

	return valueobjects.KeywordEntry{
		Keyword:   c.keyword,
		Type:      keywordType,
		Count:     c.count,
		Density:   Density(c.count, totalWords),
		Relevance: round(clamp(relevance, 0, 1), 3),
	}
}

// Density returns occurrences per 100 words, rounded to two decimals
func Density(count, totalWords int) float64 {
	if totalWords <= 0 {
		return 0
	}
	return round(clamp(100*float64(count)/float64(totalWords), 0, 100), 2)
}

func (e *KeywordExtractor) isCandidateWord(word string) bool {
	if e.config.IsStopWord(word) {
		return false
	}
	if utf8.RuneCountInString(word) < e.config.MinKeywordLength {
		return false
	}
	return hasLetter(word)
}

// isCandidatePhrase requires both ends of the gram to be candidate words,
// which rules out grams that start or end with a stop word, and rejects
// grams containing a purely numeric token.
func (e *KeywordExtractor) isCandidatePhrase(gram []Token) bool {
	if !e.isCandidateWord(gram[0].Normalized) || !e.isCandidateWord(gram[len(gram)-1].Normalized) {
		return false
	}
	for _, w := range gram {
		if !hasLetter(w.Normalized) {
			return false
		}
	}
	return true
}

func joinNormalized(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.Normalized
	}
	return strings.Join(parts, " ")
}

func hasLetter(word string) bool {
	for _, r := range word {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
