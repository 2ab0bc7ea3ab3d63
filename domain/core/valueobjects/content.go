package valueobjects

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"insightseo/domain/config"
	pkgerrors "insightseo/pkg/errors"
)

// ContentFormat represents the format of submitted text
type ContentFormat string

const (
	FormatPlainText ContentFormat = "text"
	FormatMarkdown  ContentFormat = "markdown"
	FormatHTML      ContentFormat = "html"
)

// ParseContentFormat maps a request value onto a ContentFormat.
// An empty value means plain text.
func ParseContentFormat(value string) (ContentFormat, error) {
	format := ContentFormat(strings.ToLower(strings.TrimSpace(value)))
	if format == "" {
		return FormatPlainText, nil
	}
	if !isValidFormat(format) {
		return "", pkgerrors.NewUnsupportedFormatError(value, fmt.Errorf("expected one of text, markdown, html"))
	}
	return format, nil
}

// AnalysisText is raw prose accepted for analysis. The original string is
// kept untrimmed because character counts and insertion offsets refer to it.
type AnalysisText struct {
	raw string
}

// NewAnalysisText validates text using default configuration
func NewAnalysisText(raw string) (AnalysisText, error) {
	return NewAnalysisTextWithConfig(raw, config.DefaultAnalysisConfig())
}

// NewAnalysisTextWithConfig validates text against the configured limits
func NewAnalysisTextWithConfig(raw string, cfg *config.AnalysisConfig) (AnalysisText, error) {
	if cfg == nil {
		cfg = config.DefaultAnalysisConfig()
	}

	if strings.TrimSpace(raw) == "" {
		return AnalysisText{}, pkgerrors.NewEmptyInputError()
	}

	if utf8.RuneCountInString(raw) > cfg.MaxTextLength {
		return AnalysisText{}, pkgerrors.NewTextTooLongError(cfg.MaxTextLength)
	}

	return AnalysisText{raw: raw}, nil
}

// String returns the original text
func (t AnalysisText) String() string {
	return t.raw
}

// Trimmed returns the text without surrounding whitespace
func (t AnalysisText) Trimmed() string {
	return strings.TrimSpace(t.raw)
}

func isValidFormat(format ContentFormat) bool {
	switch format {
	case FormatPlainText, FormatMarkdown, FormatHTML:
		return true
	default:
		return false
	}
}
