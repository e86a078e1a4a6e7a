package simple

import (
	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/core/dimen"
	"github.com/foliopress/folio/core/font/ot"
	"github.com/foliopress/folio/core/font/otquery"
	"github.com/foliopress/folio/engine/glyphing"
	"golang.org/x/text/unicode/norm"
)

type shaper struct {
	face *otquery.Face
}

// Shaper creates a simple horizontal shaper over an OpenType font facade.
func Shaper(face *otquery.Face) glyphing.Shaper {
	return &shaper{face: face}
}

// Shape maps every Unicode scalar of text to a glyph and positions it.
// Unmapped code-points map to glyph 0 (.notdef) and still consume their
// advance width. The pen only ever moves left to right.
func (sh *shaper) Shape(text string, params glyphing.Params) (glyphing.GlyphRun, error) {
	if sh.face == nil {
		return glyphing.GlyphRun{}, core.Error(core.EINVALID, "shaper has no font to take glyphs from")
	}
	style := params.Style
	run := glyphing.GlyphRun{
		Text:      text,
		Style:     style,
		Glyphs:    make([]ot.GlyphIndex, 0, len(text)),
		Positions: make([]glyphing.Point, 0, len(text)),
	}
	pen := 0.0
	first := true
	var prev ot.GlyphIndex
	for _, codepoint := range text {
		gid := sh.face.GlyphIndex(codepoint)
		if !first {
			pen += style.LetterSpacing
			if kern := sh.face.ScaledKerning(prev, gid, style.Size); kern != 0 {
				tracer().Debugf("kerning pair (%d,%d) adjusts pen by %.2fpx", prev, gid, kern)
				pen += kern
			}
		}
		run.Glyphs = append(run.Glyphs, gid)
		run.Positions = append(run.Positions, glyphing.Point{X: pen})
		pen += sh.face.ScaledAdvance(gid, style.Size)
		if codepoint == ' ' {
			pen += style.WordSpacing
		}
		prev = gid
		first = false
	}
	run.Width = pen
	return run, nil
}

// Measure returns a measuring closure for the line breaker: it reports the
// width a piece of text will occupy when shaped with the given face and
// style. Text is NFC-normalized before shaping.
func Measure(face *otquery.Face, style glyphing.Style) func(string) dimen.Dimen {
	sh := Shaper(face)
	params := glyphing.Params{Style: style}
	return func(text string) dimen.Dimen {
		run, err := sh.Shape(norm.NFC.String(text), params)
		if err != nil {
			tracer().Errorf("measuring failed: %v", err)
			return 0
		}
		return dimen.FromPx(run.Width)
	}
}
