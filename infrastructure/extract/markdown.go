package extract

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor reduces Markdown to its prose. Code blocks and raw HTML
// are dropped; link and image labels are kept.
type MarkdownExtractor struct {
	parser parser.Parser
}

// NewMarkdownExtractor creates an extractor that understands GitHub
// flavoured Markdown.
func NewMarkdownExtractor() *MarkdownExtractor {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	return &MarkdownExtractor{parser: md.Parser()}
}

// Extract returns one line per text block (heading, paragraph, list item,
// table cell), each closed as a sentence.
func (e *MarkdownExtractor) Extract(input string) string {
	source := []byte(input)
	doc := e.parser.Parse(text.NewReader(source))

	var blocks []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if !isTextBlock(n) {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		collectInline(&b, n, source)
		if block := collapseSpace(b.String()); block != "" {
			blocks = append(blocks, closeSentence(block))
		}
		return ast.WalkSkipChildren, nil
	})

	return strings.Join(blocks, "\n")
}

// isTextBlock reports whether n is a block whose children are inline content.
func isTextBlock(n ast.Node) bool {
	if n.Type() != ast.TypeBlock || !n.HasChildren() {
		return false
	}
	return n.FirstChild().Type() == ast.TypeInline
}

func collectInline(b *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.Label(source))
		case *ast.RawHTML:
			// markup only
		default:
			collectInline(b, c, source)
		}
	}
}
