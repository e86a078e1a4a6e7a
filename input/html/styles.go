package html

import (
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/engine/frame/linebreak"
	"golang.org/x/net/html"
)

// RunStyle holds the typographic properties of a stretch of text.
// Lengths are in (fractional) pixels.
type RunStyle struct {
	FontFamily    string
	FontSize      float64
	FontStyle     string // normal | italic
	FontWeight    string // normal | bold
	LetterSpacing float64
	WordSpacing   float64
	WhiteSpace    linebreak.WhiteSpace
}

// DefaultStyle is the style text is set in when no rule says otherwise.
func DefaultStyle() RunStyle {
	return RunStyle{
		FontFamily: "serif",
		FontSize:   16,
		FontStyle:  "normal",
		FontWeight: "normal",
	}
}

// A Rule attaches CSS declarations to the elements matching a selector.
type Rule struct {
	selector cascadia.Selector
	props    map[string]string
}

// NewRule compiles a selector and parses a block of CSS declarations,
// e.g. NewRule("h1", "font-size: 24px; font-weight: bold").
func NewRule(selector string, declarations string) (Rule, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return Rule{}, core.WrapError(err, core.EINVALID, "cannot compile selector '%s'", selector)
	}
	props, err := parseDeclarations(declarations)
	if err != nil {
		return Rule{}, err
	}
	return Rule{selector: sel, props: props}, nil
}

// MustRule is NewRule for rules known to be well-formed; it panics on error.
func MustRule(selector string, declarations string) Rule {
	rule, err := NewRule(selector, declarations)
	if err != nil {
		panic(err)
	}
	return rule
}

func parseDeclarations(declarations string) (map[string]string, error) {
	decls, err := parser.ParseDeclarations(declarations)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse style declarations")
	}
	props := make(map[string]string, len(decls))
	for _, d := range decls {
		props[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
	}
	return props, nil
}

// styleFor computes the style of an element from its parent's style, the
// matching selector rules, tag defaults, and the inline style attribute,
// in ascending order of precedence.
func styleFor(n *html.Node, parent RunStyle, rules []Rule) RunStyle {
	style := parent
	switch n.Data {
	case "b", "strong":
		style.FontWeight = "bold"
	case "i", "em":
		style.FontStyle = "italic"
	case "pre":
		style.WhiteSpace = linebreak.WSPre
	}
	for _, rule := range rules {
		if rule.selector.Match(n) {
			applyProps(&style, rule.props)
		}
	}
	for _, attr := range n.Attr {
		if attr.Key != "style" {
			continue
		}
		props, err := parseDeclarations(attr.Val)
		if err != nil {
			tracer().Errorf("ignoring style attribute: %v", err)
			continue
		}
		applyProps(&style, props)
	}
	return style
}

func applyProps(style *RunStyle, props map[string]string) {
	for prop, value := range props {
		switch prop {
		case "font-family":
			style.FontFamily = strings.Trim(value, `"'`)
		case "font-size":
			if px, ok := parseLength(value); ok {
				style.FontSize = px
			}
		case "font-style":
			style.FontStyle = value
		case "font-weight":
			style.FontWeight = value
		case "letter-spacing":
			if px, ok := parseLength(value); ok {
				style.LetterSpacing = px
			}
		case "word-spacing":
			if px, ok := parseLength(value); ok {
				style.WordSpacing = px
			}
		case "white-space":
			switch value {
			case "normal":
				style.WhiteSpace = linebreak.WSNormal
			case "pre":
				style.WhiteSpace = linebreak.WSPre
			case "pre-wrap":
				style.WhiteSpace = linebreak.WSPreWrap
			default:
				tracer().Infof("unsupported white-space mode '%s'", value)
			}
		}
	}
}

// parseLength converts a CSS length to pixels. Points convert at the CSS
// ratio of 96 px per 72 pt; unsupported units are rejected.
func parseLength(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	unit := 1.0
	switch {
	case strings.HasSuffix(value, "px"):
		value = strings.TrimSuffix(value, "px")
	case strings.HasSuffix(value, "pt"):
		value = strings.TrimSuffix(value, "pt")
		unit = 96.0 / 72.0
	case value == "0":
		return 0, true
	default:
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, false
	}
	return n * unit, true
}
