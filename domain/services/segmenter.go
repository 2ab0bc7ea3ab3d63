package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"insightseo/domain/core/valueobjects"
)

// Token is a word found in the text. Start and End are byte offsets into the
// original input; Normalized is the lowercase form used for counting.
type Token struct {
	Text       string
	Normalized string
	Start      int
	End        int
}

// Sentence is a span of the original text together with the words inside it
type Sentence struct {
	Text  string
	Start int
	End   int
	Words []Token
}

// WordCount returns the number of words in the sentence
func (s Sentence) WordCount() int {
	return len(s.Words)
}

// Segmentation is the tokenized form of a text
type Segmentation struct {
	Words          []Token
	Sentences      []Sentence
	CharacterCount int
}

// Stats derives content statistics from the segmentation
func (s Segmentation) Stats() valueobjects.Stats {
	return valueobjects.Stats{
		WordCount:      len(s.Words),
		SentenceCount:  len(s.Sentences),
		CharacterCount: s.CharacterCount,
	}
}

// NormalizedWords returns the lowercase form of every word in order
func (s Segmentation) NormalizedWords() []string {
	words := make([]string, len(s.Words))
	for i, w := range s.Words {
		words[i] = w.Normalized
	}
	return words
}

// Segmenter splits text into sentences and words
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// Segment splits text into sentences and words. It never fails: blank input
// yields an empty segmentation with zero counts.
func (s *Segmenter) Segment(text string) Segmentation {
	seg := Segmentation{
		CharacterCount: utf8.RuneCountInString(text),
	}

	spans := splitSentences(text)

	// Fragments without any word (a stray "..." or "!!") are folded into the
	// neighbouring sentence so they don't inflate the sentence count.
	pendingStart := -1
	for _, sp := range spans {
		words := tokenize(text, sp.start, sp.end)
		if len(words) == 0 {
			if n := len(seg.Sentences); n > 0 {
				last := &seg.Sentences[n-1]
				last.End = sp.end
				last.Text = text[last.Start:last.End]
			} else if pendingStart < 0 {
				pendingStart = sp.start
			}
			continue
		}

		start := sp.start
		if pendingStart >= 0 {
			start = pendingStart
			pendingStart = -1
		}
		seg.Sentences = append(seg.Sentences, Sentence{
			Text:  text[start:sp.end],
			Start: start,
			End:   sp.end,
			Words: words,
		})
		seg.Words = append(seg.Words, words...)
	}

	// Non-blank text without a single word still counts as one sentence
	if pendingStart >= 0 {
		end := spans[len(spans)-1].end
		seg.Sentences = append(seg.Sentences, Sentence{
			Text:  text[pendingStart:end],
			Start: pendingStart,
			End:   end,
		})
	}

	return seg
}

// Tokenize returns the words of a text without sentence information
func (s *Segmenter) Tokenize(text string) []Token {
	return tokenize(text, 0, len(text))
}

type span struct {
	start int
	end   int
}

// splitSentences finds sentence spans. A sentence ends after a run of
// terminal punctuation, optionally followed by closing quotes or brackets,
// when whitespace or the end of the text comes next.
func splitSentences(text string) []span {
	var spans []span
	start := -1

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if start < 0 {
			if unicode.IsSpace(r) {
				i += size
				continue
			}
			start = i
		}
		if !isTerminal(r) {
			i += size
			continue
		}

		end := i + size
		end = skipWhile(text, end, isTerminal)
		end = skipWhile(text, end, isCloser)

		if end == len(text) || startsWithSpace(text[end:]) {
			spans = append(spans, span{start: start, end: end})
			start = -1
		}
		i = end
	}

	if start >= 0 {
		end := len(strings.TrimRightFunc(text, unicode.IsSpace))
		spans = append(spans, span{start: start, end: end})
	}

	return spans
}

// tokenize extracts words from text[from:to]. Apostrophes and hyphens join
// two alphanumeric runs ("don't", "e-mail") and a point or comma joins two
// digits ("3.5", "1,000"); none of them starts or ends a word.
func tokenize(text string, from, to int) []Token {
	var tokens []Token
	start := -1
	var prev rune

	for i := from; i < to; {
		r, size := utf8.DecodeRuneInString(text[i:to])
		rest := text[i+size : to]
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case start >= 0 && unicode.Is(unicode.Mn, r):
			// combining mark inside a word
		case start >= 0 && isJoiner(r) && startsWithWordRune(rest):
			// intra-word apostrophe or hyphen
		case start >= 0 && (r == '.' || r == ',') && unicode.IsDigit(prev) && startsWithDigit(rest):
			// decimal point or thousands separator
		default:
			if start >= 0 {
				tokens = append(tokens, newToken(text, start, i))
				start = -1
			}
		}
		prev = r
		i += size
	}

	if start >= 0 {
		tokens = append(tokens, newToken(text, start, to))
	}

	return tokens
}

var normalizer = strings.NewReplacer(
	"’", "'",
	"‘", "'",
	"‐", "-",
	"‑", "-",
)

func newToken(text string, start, end int) Token {
	word := text[start:end]
	return Token{
		Text:       word,
		Normalized: normalizeWord(word),
		Start:      start,
		End:        end,
	}
}

func normalizeWord(word string) string {
	return normalizer.Replace(strings.ToLower(word))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '-', '‐', '‑':
		return true
	}
	return false
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', '”', '’', ')', ']', '}', '»':
		return true
	}
	return false
}

func skipWhile(text string, i int, pred func(rune) bool) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !pred(r) {
			break
		}
		i += size
	}
	return i
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithWordRune(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return isWordRune(r)
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}
