/*
Package glyphing turns styled text into positioned glyph runs.

Shapers consume Unicode text and produce glyph indices together with pen
positions in fractional pixels. Positioning includes horizontal advances,
pair kerning, letter-spacing and word-spacing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"

	"github.com/foliopress/folio/core/font/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
)

// tracer traces with key 'folio.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("folio.glyphs")
}

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

// Style collects the spacing properties a shaper applies to a run of text.
// All values are in (fractional) pixels.
type Style struct {
	Size          float64 // font size
	LetterSpacing float64 // inserted after every glyph except the last
	WordSpacing   float64 // added to the pen at every ASCII space
}

// Params collects shaping parameters.
type Params struct {
	Style     Style
	Direction Direction    // writing direction
	Language  language.Tag // BCP 47 language tag
}

// Point is a pen position in fractional pixels.
type Point struct {
	X, Y float64
}

// A GlyphRun is the result of shaping a run of text with a single style.
// Glyphs and Positions run in lockstep; Positions hold the pen position at
// which each glyph is to be set.
type GlyphRun struct {
	Text      string
	Style     Style
	Glyphs    []ot.GlyphIndex
	Positions []Point
	Width     float64 // final pen position in pixels
}

func (run GlyphRun) String() string {
	return fmt.Sprintf("(%d glyphs, width=%.2fpx)", len(run.Glyphs), run.Width)
}

// A Shaper creates a positioned sequence of glyphs from Unicode text.
// Glyphs are taken from a font at a given size.
type Shaper interface {
	Shape(text string, params Params) (GlyphRun, error)
}
