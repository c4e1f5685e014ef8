package htmldoc

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var spaceRunPattern = regexp.MustCompile(`[ \t]+`)

// Extractor turns a cached HTML page into readable plain text by walking
// the parsed tree and collecting text nodes. Script, style and other
// non-content subtrees are skipped entirely.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source document: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	collectText(doc, &b)
	return normalizeLines(b.String()), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript, atom.Head, atom.Svg, atom.Iframe:
			return
		case atom.Br, atom.Hr:
			b.WriteString("\n")
			return
		}
	case html.TextNode:
		b.WriteString(n.Data)
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}

	if n.Type == html.ElementNode && isBlockElement(n.DataAtom) {
		b.WriteString("\n")
	}
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Tr, atom.Blockquote, atom.Pre, atom.Table,
		atom.Section, atom.Article, atom.Ul, atom.Ol, atom.Title:
		return true
	default:
		return false
	}
}

// normalizeLines collapses intra-line whitespace and drops blank lines so
// chunking sees compact paragraphs instead of markup indentation.
func normalizeLines(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(spaceRunPattern.ReplaceAllString(line, " "))
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
