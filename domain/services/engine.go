package services

import (
	"insightseo/domain/config"
	"insightseo/domain/core/entities"
	"insightseo/domain/core/valueobjects"
)

// Engine runs the analysis pipeline: segmentation, readability and keyword
// scoring, then suggestions. It holds only read-only configuration and is
// safe for concurrent use.
type Engine struct {
	config    *config.AnalysisConfig
	segmenter *Segmenter
	scorer    *ReadabilityScorer
	extractor *KeywordExtractor
	suggester *SuggestionGenerator
	inserter  *KeywordInserter
}

// NewEngine wires the analysis components around one configuration
func NewEngine(cfg *config.AnalysisConfig) *Engine {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}

	segmenter := NewSegmenter()
	extractor := NewKeywordExtractor(cfg)

	return &Engine{
		config:    cfg,
		segmenter: segmenter,
		scorer:    NewReadabilityScorer(cfg),
		extractor: extractor,
		suggester: NewSuggestionGenerator(cfg),
		inserter:  NewKeywordInserter(cfg, segmenter, extractor),
	}
}

// Config returns the configuration the engine was built with
func (e *Engine) Config() *config.AnalysisConfig {
	return e.config
}

// Analyze validates text and computes its full analysis.
// Blank text fails with EmptyInput before any work is done.
func (e *Engine) Analyze(text string) (*entities.AnalysisResult, error) {
	input, err := valueobjects.NewAnalysisTextWithConfig(text, e.config)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(input.String()), nil
}

// Evaluate computes the analysis without validating the input. Blank text
// yields zero statistics, a Hard label and no keywords.
func (e *Engine) Evaluate(text string) *entities.AnalysisResult {
	seg := e.segmenter.Segment(text)
	stats := seg.Stats()

	readability := e.scorer.Score(stats, seg.Sentences, seg.Words)
	keywords := e.extractor.Extract(seg.Words, seg.Sentences)
	suggestions := e.suggester.Suggest(stats, readability.Label, keywords)

	return entities.NewAnalysisResult(readability, stats, keywords, suggestions)
}

// InsertKeyword returns text rewritten to mention keyword once more
func (e *Engine) InsertKeyword(text, keyword string) (Insertion, error) {
	return e.inserter.Insert(text, keyword)
}

// FiredRules lists the suggestion rules behind a result, in priority order
func (e *Engine) FiredRules(result *entities.AnalysisResult) []string {
	return e.suggester.FiredRules(result.Stats(), result.Readability(), result.Keywords())
}
