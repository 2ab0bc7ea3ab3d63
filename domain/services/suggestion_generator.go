package services

import (
	"fmt"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
)

// Suggestion rule identifiers, listed in priority order
const (
	RuleThinContent        = "thin-content"
	RuleHardReadability    = "hard-readability"
	RuleLongSentences      = "long-sentences"
	RuleNoKeywords         = "no-keywords"
	RuleKeywordStuffing    = "keyword-stuffing"
	RuleWeakPrimaryKeyword = "weak-primary-keyword"
	RuleNoLongTail         = "no-long-tail"
	RuleWellOptimized      = "well-optimized"
)

// suggestionInput is what every rule is evaluated against
type suggestionInput struct {
	stats       valueobjects.Stats
	readability valueobjects.ReadabilityLabel
	keywords    []valueobjects.KeywordEntry
}

type suggestionRule struct {
	id      string
	applies func(cfg *config.AnalysisConfig, in suggestionInput) bool
	message func(cfg *config.AnalysisConfig, in suggestionInput) string
}

// suggestionRules is evaluated top to bottom; output follows this order
var suggestionRules = []suggestionRule{
	{
		id: RuleThinContent,
		applies: func(cfg *config.AnalysisConfig, in suggestionInput) bool {
			return in.stats.WordCount < cfg.MinWordCount
		},
		message: func(cfg *config.AnalysisConfig, in suggestionInput) string {
			return fmt.Sprintf("Add more content: %d words is thin, aim for at least %d words.", in.stats.WordCount, cfg.MinWordCount)
		},
	},
	{
		id: RuleHardReadability,
		applies: func(_ *config.AnalysisConfig, in suggestionInput) bool {
			return in.readability == valueobjects.ReadabilityHard
		},
		message: func(_ *config.AnalysisConfig, _ suggestionInput) string {
			return "Simplify sentence structure and prefer shorter words to make the text easier to read."
		},
	},
	{
		id: RuleLongSentences,
		applies: func(cfg *config.AnalysisConfig, in suggestionInput) bool {
			return in.stats.AverageSentenceLength() > cfg.MaxAvgSentenceWords
		},
		message: func(cfg *config.AnalysisConfig, in suggestionInput) string {
			return fmt.Sprintf("Shorten your sentences: they average %.1f words, keep them under %.0f.", in.stats.AverageSentenceLength(), cfg.MaxAvgSentenceWords)
		},
	},
	{
		id: RuleNoKeywords,
		applies: func(_ *config.AnalysisConfig, in suggestionInput) bool {
			return len(in.keywords) == 0
		},
		message: func(_ *config.AnalysisConfig, _ suggestionInput) string {
			return "Add descriptive terms: no meaningful keywords were found in the text."
		},
	},
	{
		id: RuleKeywordStuffing,
		applies: func(cfg *config.AnalysisConfig, in suggestionInput) bool {
			return len(in.keywords) > 0 && in.keywords[0].Density > cfg.MaxKeywordDensity
		},
		message: func(cfg *config.AnalysisConfig, in suggestionInput) string {
			top := in.keywords[0]
			return fmt.Sprintf("Reduce keyword stuffing: \"%s\" has a density of %.2f%%, keep it below %.1f%%.", top.Keyword, top.Density, cfg.MaxKeywordDensity)
		},
	},
	{
		id: RuleWeakPrimaryKeyword,
		applies: func(cfg *config.AnalysisConfig, in suggestionInput) bool {
			return len(in.keywords) > 0 && in.keywords[0].Density < cfg.MinKeywordDensity
		},
		message: func(cfg *config.AnalysisConfig, in suggestionInput) string {
			top := in.keywords[0]
			return fmt.Sprintf("Strengthen your primary keyword: \"%s\" appears at only %.2f%%, aim for at least %.1f%%.", top.Keyword, top.Density, cfg.MinKeywordDensity)
		},
	},
	{
		id: RuleNoLongTail,
		applies: func(_ *config.AnalysisConfig, in suggestionInput) bool {
			if len(in.keywords) == 0 {
				return false
			}
			for _, k := range in.keywords {
				if k.IsPhrase() {
					return false
				}
			}
			return true
		},
		message: func(_ *config.AnalysisConfig, _ suggestionInput) string {
			return "Use long-tail keyword phrases of two or three words to target more specific searches."
		},
	},
}

const wellOptimizedMessage = "Your content looks well optimized. Keep it up!"

// SuggestionGenerator turns statistics and keyword analysis into improvement suggestions
type SuggestionGenerator struct {
	config *config.AnalysisConfig
}

// NewSuggestionGenerator creates a new suggestion generator
func NewSuggestionGenerator(cfg *config.AnalysisConfig) *SuggestionGenerator {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	return &SuggestionGenerator{config: cfg}
}

// Suggest evaluates every rule independently and returns the messages of
// those that fire, in rule priority order. When no rule fires a single
// confirmation message is returned.
func (g *SuggestionGenerator) Suggest(stats valueobjects.Stats, readability valueobjects.ReadabilityLabel, keywords []valueobjects.KeywordEntry) []string {
	in := suggestionInput{stats: stats, readability: readability, keywords: keywords}

	fired := g.evaluate(in)
	if len(fired) == 0 {
		return []string{wellOptimizedMessage}
	}

	suggestions := make([]string, len(fired))
	for i, rule := range fired {
		suggestions[i] = rule.message(g.config, in)
	}
	return suggestions
}

// FiredRules returns the identifiers of the rules that apply, in priority order
func (g *SuggestionGenerator) FiredRules(stats valueobjects.Stats, readability valueobjects.ReadabilityLabel, keywords []valueobjects.KeywordEntry) []string {
	fired := g.evaluate(suggestionInput{stats: stats, readability: readability, keywords: keywords})
	if len(fired) == 0 {
		return []string{RuleWellOptimized}
	}

	ids := make([]string, len(fired))
	for i, rule := range fired {
		ids[i] = rule.id
	}
	return ids
}

func (g *SuggestionGenerator) evaluate(in suggestionInput) []suggestionRule {
	var fired []suggestionRule
	for _, rule := range suggestionRules {
		if rule.applies(g.config, in) {
			fired = append(fired, rule)
		}
	}
	return fired
}
