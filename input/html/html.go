package html

import (
	"fmt"
	"io"

	"github.com/foliopress/folio/core"
	"github.com/npillmayer/cords"
	"golang.org/x/net/html"
)

// A StyledRun is a stretch of paragraph text set in a single style.
type StyledRun struct {
	Text  string
	Style RunStyle
}

// A Paragraph is the text of one block-level element, together with the
// styled runs it decomposes into. Runs concatenate to the cord's text.
type Paragraph struct {
	Text cords.Cord
	Runs []StyledRun
}

// String returns the paragraph's text.
func (para Paragraph) String() string {
	return para.Text.String()
}

// block-level elements treated as paragraphs
var paragraphElements = map[string]bool{
	"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "li": true, "blockquote": true, "figcaption": true,
}

// Paragraphs parses HTML and extracts its block-level paragraphs, with
// per-run styles computed from the given selector rules and from inline
// style attributes. Container elements contribute their style to nested
// paragraphs but no text of their own.
func Paragraphs(input io.Reader, rules []Rule) ([]Paragraph, error) {
	doc, err := html.Parse(input)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse HTML input")
	}
	var paras []Paragraph
	var walk func(n *html.Node, style RunStyle)
	walk = func(n *html.Node, style RunStyle) {
		if n.Type == html.ElementNode {
			style = styleFor(n, style, rules)
			if paragraphElements[n.Data] {
				if para, ok := collectParagraph(n, style, rules); ok {
					paras = append(paras, para)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, style)
		}
	}
	walk(doc, DefaultStyle())
	tracer().Debugf("extracted %d paragraphs", len(paras))
	return paras, nil
}

// collectParagraph gathers the text of a paragraph element and all its
// descendents into a cord, annotating stretches with their computed style.
// Returns false for paragraphs without any text.
func collectParagraph(n *html.Node, style RunStyle, rules []Rule) (Paragraph, bool) {
	builder := cords.NewBuilder()
	var runs []StyledRun
	var collect func(n *html.Node, style RunStyle)
	collect = func(n *html.Node, style RunStyle) {
		switch n.Type {
		case html.TextNode:
			if n.Data == "" {
				return
			}
			builder.Append(textLeaf{element: elementName(n), content: n.Data})
			if len(runs) > 0 && runs[len(runs)-1].Style == style {
				runs[len(runs)-1].Text += n.Data // coalesce equal-styled neighbors
				return
			}
			runs = append(runs, StyledRun{Text: n.Data, Style: style})
		case html.ElementNode:
			style = styleFor(n, style, rules)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, style)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, style)
	}
	para := Paragraph{Text: builder.Cord(), Runs: runs}
	return para, len(runs) > 0
}

func elementName(n *html.Node) string {
	parent := n.Parent
	for parent != nil && parent.Type != html.ElementNode {
		parent = parent.Parent
	}
	if parent == nil {
		return "?"
	}
	return parent.Data
}

// --- Cord leafs ------------------------------------------------------------

// textLeaf is the cord leaf type for text fragments of a paragraph. It
// remembers the name of the element the fragment came from.
type textLeaf struct {
	element string
	content string
}

// Weight of a leaf is its string length in bytes.
func (l textLeaf) Weight() uint64 {
	return uint64(len(l.content))
}

func (l textLeaf) String() string {
	return l.content
}

// Split splits a leaf at position i, resulting in 2 new leafs.
func (l textLeaf) Split(i uint64) (cords.Leaf, cords.Leaf) {
	left := textLeaf{element: l.element, content: l.content[:i]}
	right := textLeaf{element: l.element, content: l.content[i:]}
	return left, right
}

// Substring returns a string segment of the leaf's text fragment.
func (l textLeaf) Substring(i, j uint64) []byte {
	return []byte(l.content)[i:j]
}

var _ cords.Leaf = textLeaf{}

func (l textLeaf) dbgString() string {
	return fmt.Sprintf("{<%s> %q}", l.element, l.content)
}
