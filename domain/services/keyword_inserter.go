package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"insightseo/domain/config"
	"insightseo/domain/core/valueobjects"
	pkgerrors "insightseo/pkg/errors"
)

// InsertionStrategy records how a keyword was worked into the text
type InsertionStrategy string

const (
	InsertionUnchanged      InsertionStrategy = "unchanged"
	InsertionFirstSentence  InsertionStrategy = "first-sentence"
	InsertionClosingSummary InsertionStrategy = "closing-summary"
	InsertionNewSentence    InsertionStrategy = "new-sentence"
)

const (
	insertionConnector      = ", focusing on "
	insertionConnectorWords = 2
	minClauseSentenceWords  = 2
	closingSummaryTemplate  = "In summary, it all comes back to %s."
	newSentenceTemplate     = "Read on to learn more about %s."
)

// Insertion is the outcome of a keyword insertion
type Insertion struct {
	UpdatedText string
	Strategy    InsertionStrategy
}

// KeywordInserter rewrites text so that it mentions a keyword once more
type KeywordInserter struct {
	config    *config.AnalysisConfig
	segmenter *Segmenter
	extractor *KeywordExtractor
}

// NewKeywordInserter creates a new keyword inserter
func NewKeywordInserter(cfg *config.AnalysisConfig, segmenter *Segmenter, extractor *KeywordExtractor) *KeywordInserter {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}
	if segmenter == nil {
		segmenter = NewSegmenter()
	}
	if extractor == nil {
		extractor = NewKeywordExtractor(cfg)
	}
	return &KeywordInserter{
		config:    cfg,
		segmenter: segmenter,
		extractor: extractor,
	}
}

// Insert adds one more mention of keyword to text. The text is left
// unchanged only when the keyword already dominates it. Text is validated
// before the keyword, so blank text reports EmptyInput even when the
// keyword is blank too.
func (ins *KeywordInserter) Insert(text, keyword string) (Insertion, error) {
	input, err := valueobjects.NewAnalysisTextWithConfig(text, ins.config)
	if err != nil {
		return Insertion{}, err
	}

	display, kwTokens, err := ins.parseKeyword(keyword)
	if err != nil {
		return Insertion{}, err
	}

	raw := input.String()
	seg := ins.segmenter.Segment(raw)
	kwKey := joinNormalized(kwTokens)
	density := Density(countOccurrences(seg.Sentences, kwTokens), len(seg.Words))

	if ins.isDominant(seg, kwKey) {
		return Insertion{UpdatedText: raw, Strategy: InsertionUnchanged}, nil
	}

	if density >= ins.config.SufficientKeywordDensity {
		return Insertion{
			UpdatedText: appendSentence(raw, fmt.Sprintf(closingSummaryTemplate, display)),
			Strategy:    InsertionClosingSummary,
		}, nil
	}

	if len(seg.Sentences) > 0 {
		first := seg.Sentences[0]
		pos, terminated := insertionPoint(raw, first)
		// A one-word opener is usually an abbreviation such as "Mr."
		fits := first.WordCount() >= minClauseSentenceWords &&
			first.WordCount()+insertionConnectorWords+len(kwTokens) <= ins.config.MaxSentenceWords
		if pos >= 0 && fits {
			insert := insertionConnector + display
			if !terminated {
				insert += "."
			}
			return Insertion{
				UpdatedText: raw[:pos] + insert + raw[pos:],
				Strategy:    InsertionFirstSentence,
			}, nil
		}
	}

	return Insertion{
		UpdatedText: appendSentence(raw, fmt.Sprintf(newSentenceTemplate, display)),
		Strategy:    InsertionNewSentence,
	}, nil
}

// parseKeyword returns the keyword as it should appear in prose, trimmed to
// its first and last word, together with its word tokens.
func (ins *KeywordInserter) parseKeyword(keyword string) (string, []Token, error) {
	keyword = strings.Join(strings.Fields(keyword), " ")
	if keyword == "" {
		return "", nil, pkgerrors.NewInvalidKeywordError("")
	}

	tokens := ins.segmenter.Tokenize(keyword)
	if len(tokens) == 0 {
		return "", nil, pkgerrors.NewInvalidKeywordError("keyword must contain at least one word")
	}

	display := keyword[tokens[0].Start:tokens[len(tokens)-1].End]
	if len(ins.segmenter.Segment(display).Sentences) > 1 {
		return "", nil, pkgerrors.NewInvalidKeywordError("keyword must not span more than one sentence")
	}

	return display, ins.segmenter.Tokenize(display), nil
}

// isDominant reports whether the keyword is already the top term of the text
// with a density at or above the dominant threshold.
func (ins *KeywordInserter) isDominant(seg Segmentation, kwKey string) bool {
	keywords := ins.extractor.Extract(seg.Words, seg.Sentences)
	if len(keywords) == 0 {
		return false
	}
	top := keywords[0]
	return top.Keyword == kwKey && top.Density >= ins.config.DominantKeywordDensity
}

// insertionPoint finds where a connector clause can go in the sentence: just
// before a closing "." or at the end of an unterminated sentence. It returns
// -1 when the sentence ends any other way or the preceding character is not
// part of a word.
func insertionPoint(text string, s Sentence) (int, bool) {
	body := text[s.Start:s.End]
	last, size := utf8.DecodeLastRuneInString(body)

	switch {
	case last == '.':
		pos := s.End - size
		prev, _ := utf8.DecodeLastRuneInString(text[s.Start:pos])
		if !isWordRune(prev) {
			return -1, true
		}
		return pos, true
	case isWordRune(last):
		return s.End, false
	default:
		return -1, false
	}
}

// appendSentence adds a sentence after the last non-space character,
// completing the body's punctuation first. Trailing whitespace is kept.
func appendSentence(text, sentence string) string {
	body := strings.TrimRightFunc(text, unicode.IsSpace)
	trailing := text[len(body):]

	stripped := strings.TrimRightFunc(body, isCloser)
	last, size := utf8.DecodeLastRuneInString(stripped)
	switch {
	case isTerminal(last):
	case len(stripped) == len(body) && (last == ',' || last == ';' || last == ':'):
		body = body[:len(body)-size] + "."
	case len(stripped) == len(body) && isDash(last) && strings.TrimRightFunc(body, isDashOrSpace) != "":
		body = strings.TrimRightFunc(body, isDashOrSpace) + "."
	default:
		body += "."
	}

	return body + " " + sentence + trailing
}

func isDash(r rune) bool {
	return r == '-' || r == '\u2013' || r == '\u2014'
}

func isDashOrSpace(r rune) bool {
	return isDash(r) || unicode.IsSpace(r)
}

// countOccurrences counts keyword token sequences inside sentences
func countOccurrences(sentences []Sentence, keyword []Token) int {
	if len(keyword) == 0 {
		return 0
	}

	count := 0
	for _, s := range sentences {
		for i := 0; i+len(keyword) <= len(s.Words); i++ {
			match := true
			for j, k := range keyword {
				if s.Words[i+j].Normalized != k.Normalized {
					match = false
					break
				}
			}
			if match {
				count++
			}
		}
	}
	return count
}
