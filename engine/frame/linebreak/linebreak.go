package linebreak

import (
	"math"
	"strings"

	"github.com/foliopress/folio/core/dimen"
)

// WhiteSpace selects how whitespace in a paragraph is treated, following
// the CSS 'white-space' property.
type WhiteSpace int

// Whitespace treatment modes.
const (
	WSNormal  WhiteSpace = iota // collapse whitespace runs, wrap
	WSPre                       // preserve whitespace, break at newlines only
	WSPreWrap                   // preserve whitespace, wrap
)

// Options control paragraph breaking.
type Options struct {
	WhiteSpace   WhiteSpace
	OverflowWrap bool // split over-long words at code-point boundaries
}

// Measure is a measuring function bound to a font and style by the caller.
// It reports the width a piece of text will occupy when set.
type Measure func(text string) dimen.Dimen

// A LineBox is one typeset line of a broken paragraph.
type LineBox struct {
	Text        string      // text of the line
	Width       dimen.Dimen // measured width of Text
	SpaceCount  int         // number of spaces in Text, for justification
	TargetWidth dimen.Dimen // width the line was broken to fit
}

// linePenalty is the fixed cost charged per line, on top of the squared
// slack. It lets the breaker trade slack against the number of lines.
const linePenalty = 100.0

// BreakParagraph breaks a paragraph of text into lines no wider than
// available, using measure to determine text widths.
//
// Line breaks minimize the total cost over all lines, where a single line
// costs 100 plus the square of its slack (the unused width, in fractional
// pixels). If a stretch of text cannot be broken within the available
// width, e.g. an unsplittable over-long word, the breaker falls back to
// first-fit and places the culprit on an overflowing line of its own.
func BreakParagraph(text string, measure Measure, available dimen.Dimen,
	opts Options) []LineBox {
	//
	if opts.WhiteSpace == WSPre {
		return breakPreformatted(text, measure, available)
	}
	collapse := opts.WhiteSpace == WSNormal
	if collapse {
		whole := strings.Trim(collapseWhitespace(text), " ")
		if measure(whole) <= available { // fast path: everything fits
			return emitSingleLine(whole, measure, available)
		}
	}
	var lines []LineBox
	for _, para := range splitForcedBreaks(text, opts.WhiteSpace) {
		items := segment(para, measure, opts.WhiteSpace)
		if opts.OverflowWrap {
			items = splitOversizeWords(items, measure, available)
		}
		breaks, ok := breakItems(items, available, collapse)
		if !ok {
			tracer().Infof("no feasible line breaks, falling back to first-fit")
			breaks = breakItemsGreedily(items, available, collapse)
		}
		lines = append(lines, emitLines(items, breaks, measure, available, collapse)...)
	}
	return lines
}

// --- Items -----------------------------------------------------------------

// An item is a maximal run of either non-whitespace or whitespace text.
type item struct {
	text    string
	isSpace bool
	width   dimen.Dimen
}

func isASCIIWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// segment splits a paragraph into alternating word and whitespace items.
// With collapsing enabled, every whitespace run becomes a single space.
func segment(text string, measure Measure, ws WhiteSpace) []item {
	var items []item
	appendItem := func(run string, isSpace bool) {
		if isSpace && ws == WSNormal {
			run = " "
		}
		items = append(items, item{text: run, isSpace: isSpace, width: measure(run)})
	}
	start := 0
	inSpace := false
	for i := 0; i < len(text); i++ {
		if isASCIIWhitespace(text[i]) == inSpace {
			continue
		}
		if i > start {
			appendItem(text[start:i], inSpace)
		}
		start = i
		inSpace = !inSpace
	}
	if len(text) > start {
		appendItem(text[start:], inSpace)
	}
	return items
}

func collapseWhitespace(text string) string {
	var b strings.Builder
	inSpace := false
	for i := 0; i < len(text); i++ {
		if isASCIIWhitespace(text[i]) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteByte(text[i])
	}
	if inSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// splitForcedBreaks isolates the stretches between forced line breaks.
// Preserving modes break at every newline; collapsing treats newlines as
// ordinary whitespace and returns the paragraph whole.
func splitForcedBreaks(text string, ws WhiteSpace) []string {
	if ws == WSNormal {
		return []string{text}
	}
	return strings.Split(text, "\n")
}

// splitOversizeWords pre-splits every word item wider than the available
// width into maximal fragments that fit, at code-point boundaries. A single
// code-point wider than the line is kept as a fragment of its own.
func splitOversizeWords(items []item, measure Measure, available dimen.Dimen) []item {
	var result []item
	for _, it := range items {
		if it.isSpace || it.width <= available {
			result = append(result, it)
			continue
		}
		runes := []rune(it.text)
		start := 0
		for start < len(runes) {
			end := start + 1
			for end < len(runes) && measure(string(runes[start:end+1])) <= available {
				end++
			}
			frag := string(runes[start:end])
			result = append(result, item{text: frag, width: measure(frag)})
			start = end
		}
	}
	return result
}

// --- Breaking --------------------------------------------------------------

// breakItems finds cost-minimal line breaks over the items. The returned
// slice holds the item index at which each line starts, in order. The
// second return value is false if no feasible chain of breaks exists.
func breakItems(items []item, available dimen.Dimen, collapse bool) ([]int, bool) {
	n := len(items)
	cost := make([]float64, n+1) // cost[i]: minimal total cost to break items[0:i]
	prev := make([]int, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = math.Inf(1)
	}
	for i := 1; i <= n; i++ {
		sum := dimen.Zero
		for j := i - 1; j >= 0; j-- {
			sum += items[j].width
			width := sum
			if collapse && items[j].isSpace {
				width -= items[j].width // leading collapsible space is dropped
			}
			if width > available {
				break
			}
			if math.IsInf(cost[j], 1) {
				continue
			}
			slack := (available - width).Px()
			if c := cost[j] + linePenalty + slack*slack; c < cost[i] {
				cost[i] = c
				prev[i] = j
			}
		}
	}
	if math.IsInf(cost[n], 1) {
		return nil, false
	}
	return chainToBreaks(prev, n), true
}

func chainToBreaks(prev []int, n int) []int {
	var breaks []int
	for i := n; i > 0; i = prev[i] {
		breaks = append(breaks, prev[i])
	}
	for l, r := 0, len(breaks)-1; l < r; l, r = l+1, r-1 {
		breaks[l], breaks[r] = breaks[r], breaks[l]
	}
	return breaks
}

// breakItemsGreedily is the first-fit fallback. Items accumulate onto the
// current line until it would overflow; an item too wide for an empty line
// is placed on an overflowing line of its own.
func breakItemsGreedily(items []item, available dimen.Dimen, collapse bool) []int {
	var breaks []int
	lineStart := 0
	width := dimen.Zero
	for i, it := range items {
		w := it.width
		if collapse && it.isSpace && i == lineStart {
			w = 0
		}
		if width+w > available && i > lineStart {
			breaks = append(breaks, lineStart)
			lineStart = i
			width = it.width
			if collapse && it.isSpace {
				width = 0
			}
			continue
		}
		width += w
	}
	if lineStart < len(items) {
		breaks = append(breaks, lineStart)
	}
	return breaks
}

// --- Emitting line boxes ---------------------------------------------------

func emitSingleLine(text string, measure Measure, available dimen.Dimen) []LineBox {
	if text == "" {
		return nil
	}
	return []LineBox{{
		Text:        text,
		Width:       measure(text),
		SpaceCount:  strings.Count(text, " "),
		TargetWidth: available,
	}}
}

func emitLines(items []item, breaks []int, measure Measure, available dimen.Dimen,
	collapse bool) []LineBox {
	//
	var lines []LineBox
	for b, start := range breaks {
		end := len(items)
		if b+1 < len(breaks) {
			end = breaks[b+1]
		}
		var text strings.Builder
		for _, it := range items[start:end] {
			text.WriteString(it.text)
		}
		line := text.String()
		if collapse {
			line = strings.Trim(line, " ")
		}
		if line == "" {
			continue
		}
		lines = append(lines, LineBox{
			Text:        line,
			Width:       measure(line),
			SpaceCount:  strings.Count(line, " "),
			TargetWidth: available,
		})
	}
	return lines
}

// breakPreformatted handles the 'pre' whitespace mode: lines are taken
// verbatim between newlines, regardless of the available width.
func breakPreformatted(text string, measure Measure, available dimen.Dimen) []LineBox {
	var lines []LineBox
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, LineBox{
			Text:        line,
			Width:       measure(line),
			SpaceCount:  strings.Count(line, " "),
			TargetWidth: available,
		})
	}
	return lines
}
