package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	noiseSelector = "script, style, noscript, template, iframe, svg, head"
	blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, td, th, dt, dd, figcaption, caption"
)

// HTMLExtractor reduces an HTML document or fragment to its prose.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns one line per innermost text block. Documents without
// block elements fall back to the body text.
func (e *HTMLExtractor) Extract(input string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", err
	}

	doc.Find(noiseSelector).Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks are reported by the innermost one.
		if s.Find(blockSelector).Length() > 0 {
			return
		}
		if block := collapseSpace(s.Text()); block != "" {
			blocks = append(blocks, closeSentence(block))
		}
	})

	if len(blocks) == 0 {
		return collapseSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(blocks, "\n"), nil
}
