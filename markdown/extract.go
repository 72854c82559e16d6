// Package markdown adapts a single Markdown document into several
// indexable fields by walking its goldmark AST, producing plain
// fts.FieldOptions extractors instead of a parallel field-weighted
// scorer (BM25F scoring of the resulting fields is the fts.Index's
// job).
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/trailmark/fts"
)

// SourceField is the conventional Document key holding the raw Markdown
// source that every extractor in this package reads from.
const SourceField = "markdown"

const (
	sectionH1     = "h1"
	sectionH2     = "h2"
	sectionH3     = "h3"
	sectionH4     = "h4"
	sectionH5     = "h5"
	sectionH6     = "h6"
	sectionBold   = "bold"
	sectionItalic = "italic"
	sectionCode   = "code"
	sectionBody   = "body"
)

// Parser extracts section text from Markdown source via an AST walk.
type Parser struct {
	parser parser.Parser
}

// NewParser returns a Parser using goldmark's default parser config.
func NewParser() *Parser {
	return &Parser{parser: goldmark.DefaultParser()}
}

var defaultParser = NewParser()

// Extract splits content into its sections: heading levels 1-6, bold
// and italic emphasis, code (spans and blocks), and the remaining body
// prose.
func (p *Parser) Extract(content string) map[string]string {
	source := []byte(content)
	doc := p.parser.Parse(text.NewReader(source))

	texts := map[string][]string{}
	appendText := func(key, s string) {
		if s != "" {
			texts[key] = append(texts[key], s)
		}
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			appendText(headingSection(n.Level), extractInline(n, source))
			return ast.WalkSkipChildren, nil

		case *ast.CodeSpan:
			appendText(sectionCode, extractInline(n, source))
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			appendText(sectionCode, extractCodeBlock(n, source))
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			appendText(sectionCode, extractCodeBlock(n, source))
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			if !insideSpecialElement(node) {
				appendText(sectionBody, strings.TrimSpace(string(n.Segment.Value(source))))
			}

		default:
			if node.Kind() == ast.KindEmphasis {
				if em, ok := node.(*ast.Emphasis); ok {
					s := extractInline(em, source)
					if em.Level == 2 {
						appendText(sectionBold, s)
					} else if em.Level == 1 {
						appendText(sectionItalic, s)
					}
					return ast.WalkSkipChildren, nil
				}
			}
		}
		return ast.WalkContinue, nil
	})

	sections := map[string]string{}
	if err != nil {
		sections[sectionBody] = content
		return sections
	}
	for key, parts := range texts {
		sections[key] = strings.Join(parts, " ")
	}
	return sections
}

func headingSection(level int) string {
	switch level {
	case 1:
		return sectionH1
	case 2:
		return sectionH2
	case 3:
		return sectionH3
	case 4:
		return sectionH4
	case 5:
		return sectionH5
	default:
		return sectionH6
	}
}

func extractInline(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		extractRecursive(child, source, &buf)
	}
	return strings.TrimSpace(buf.String())
}

func extractRecursive(node ast.Node, source []byte, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
	case *ast.String:
		buf.WriteString(string(n.Value))
	default:
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			extractRecursive(child, source, buf)
		}
	}
	if node.NextSibling() != nil {
		buf.WriteString(" ")
	}
}

func extractCodeBlock(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	if fenced, ok := node.(*ast.FencedCodeBlock); ok {
		for i := 0; i < fenced.Lines().Len(); i++ {
			buf.Write(fenced.Lines().At(i).Value(source))
		}
	} else {
		extractRecursive(node, source, &buf)
	}

	result := strings.TrimSpace(buf.String())
	lines := strings.Split(result, "\n")
	if len(lines) > 1 {
		first := strings.TrimSpace(lines[0])
		if len(first) < 12 && !strings.Contains(first, " ") {
			result = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}
	return result
}

func insideSpecialElement(node ast.Node) bool {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.(type) {
		case *ast.Heading, *ast.CodeSpan, *ast.FencedCodeBlock, *ast.CodeBlock:
			return true
		default:
			if parent.Kind() == ast.KindEmphasis {
				return true
			}
		}
	}
	return false
}

func section(doc fts.Document, key string) any {
	raw, _ := doc[SourceField].(string)
	if raw == "" {
		return ""
	}
	return defaultParser.Extract(raw)[key]
}

// H1 through H6 extract the text of headings at that level.
func H1(doc fts.Document) any { return section(doc, sectionH1) }
func H2(doc fts.Document) any { return section(doc, sectionH2) }
func H3(doc fts.Document) any { return section(doc, sectionH3) }
func H4(doc fts.Document) any { return section(doc, sectionH4) }
func H5(doc fts.Document) any { return section(doc, sectionH5) }
func H6(doc fts.Document) any { return section(doc, sectionH6) }

// Bold and Italic extract strong/regular emphasis text.
func Bold(doc fts.Document) any   { return section(doc, sectionBold) }
func Italic(doc fts.Document) any { return section(doc, sectionItalic) }

// Code extracts inline code spans and fenced/indented code blocks.
func Code(doc fts.Document) any { return section(doc, sectionCode) }

// Body extracts the remaining prose text outside any of the above.
func Body(doc fts.Document) any { return section(doc, sectionBody) }

// Extractors returns every section extractor keyed by the field name a
// caller would typically register it under.
func Extractors() map[string]func(fts.Document) any {
	return map[string]func(fts.Document) any{
		sectionH1: H1, sectionH2: H2, sectionH3: H3,
		sectionH4: H4, sectionH5: H5, sectionH6: H6,
		sectionBold: Bold, sectionItalic: Italic,
		sectionCode: Code, sectionBody: Body,
	}
}
