// Package extract turns formatted input into plain text for analysis.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"insightseo/application/ports"
	"insightseo/domain/core/valueobjects"
	pkgerrors "insightseo/pkg/errors"
)

// Extractor dispatches on the declared content format
type Extractor struct {
	markdown *MarkdownExtractor
	html     *HTMLExtractor
}

// NewExtractor creates an extractor for every supported format
func NewExtractor() *Extractor {
	return &Extractor{
		markdown: NewMarkdownExtractor(),
		html:     NewHTMLExtractor(),
	}
}

// Extract implements ports.TextExtractor. Plain text is returned unchanged.
func (e *Extractor) Extract(ctx context.Context, format valueobjects.ContentFormat, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch format {
	case valueobjects.FormatPlainText:
		return input, nil
	case valueobjects.FormatMarkdown:
		return e.markdown.Extract(input), nil
	case valueobjects.FormatHTML:
		out, err := e.html.Extract(input)
		if err != nil {
			return "", pkgerrors.NewUnsupportedFormatError(string(format), fmt.Errorf("failed to parse html: %w", err))
		}
		return out, nil
	default:
		return "", pkgerrors.NewUnsupportedFormatError(string(format), nil)
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// closeSentence terminates a block so it is segmented on its own.
func closeSentence(block string) string {
	body := strings.TrimRight(block, "\"'”’)]}»")
	last, _ := utf8.DecodeLastRuneInString(body)
	switch {
	case last == '.' || last == '!' || last == '?':
		return block
	case last == ':' || last == ';' || last == ',':
		return block[:len(body)-1] + "." + block[len(body):]
	default:
		return block + "."
	}
}

var _ ports.TextExtractor = (*Extractor)(nil)
