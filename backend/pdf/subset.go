package pdf

import (
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/foliopress/folio/core/font/ot"
	"github.com/foliopress/folio/core/font/otquery"
	"github.com/foliopress/folio/engine/glyphing"
)

// A FontSubset collects the glyphs of a font actually used by a document.
// Every used glyph is remapped to a sequential 2-byte character code, with
// code 0 reserved for .notdef. The subset also remembers which Unicode
// code-point produced a glyph, which later feeds the ToUnicode CMap.
type FontSubset struct {
	face  *otquery.Face
	used  *treeset.Set // glyph IDs in font order
	codes map[ot.GlyphIndex]uint16
	runes map[uint16]rune // subset code to code-point, first use wins
	next  uint16
}

// NewFontSubset creates an empty subset of a font.
func NewFontSubset(face *otquery.Face) *FontSubset {
	subset := &FontSubset{
		face:  face,
		used:  treeset.NewWithIntComparator(),
		codes: make(map[ot.GlyphIndex]uint16),
		runes: make(map[uint16]rune),
		next:  1,
	}
	subset.used.Add(0) // .notdef is always part of a subset
	subset.codes[0] = 0
	return subset
}

// Face returns the font this subset draws from.
func (subset *FontSubset) Face() *otquery.Face {
	return subset.face
}

// Use registers all glyphs of a shaped run with the subset. Glyphs and the
// code-points of the run's text walk in lockstep, so the subset can record
// which code-point a glyph stands for.
func (subset *FontSubset) Use(run glyphing.GlyphRun) {
	i := 0
	for _, codepoint := range run.Text {
		if i >= len(run.Glyphs) {
			break
		}
		code := subset.register(run.Glyphs[i])
		if _, ok := subset.runes[code]; !ok && code != 0 {
			subset.runes[code] = codepoint
		}
		i++
	}
	for ; i < len(run.Glyphs); i++ { // glyphs without a code-point still count
		subset.register(run.Glyphs[i])
	}
}

func (subset *FontSubset) register(gid ot.GlyphIndex) uint16 {
	if code, ok := subset.codes[gid]; ok {
		return code
	}
	code := subset.next
	subset.next++
	subset.codes[gid] = code
	subset.used.Add(int(gid))
	tracer().Debugf("subset code %d for glyph %d", code, gid)
	return code
}

// CodeFor returns the subset code for a glyph, or 0 if the glyph has not
// been registered.
func (subset *FontSubset) CodeFor(gid ot.GlyphIndex) uint16 {
	return subset.codes[gid]
}

// Codes returns the subset codes for all glyphs of a run, in order.
func (subset *FontSubset) Codes(run glyphing.GlyphRun) []uint16 {
	codes := make([]uint16, len(run.Glyphs))
	for i, gid := range run.Glyphs {
		codes[i] = subset.codes[gid]
	}
	return codes
}

// Glyphs returns the glyph IDs of the subset in font order, including
// glyph 0.
func (subset *FontSubset) Glyphs() []ot.GlyphIndex {
	values := subset.used.Values()
	glyphs := make([]ot.GlyphIndex, len(values))
	for i, v := range values {
		glyphs[i] = ot.GlyphIndex(v.(int))
	}
	return glyphs
}

// Len returns the number of glyphs in the subset, including glyph 0.
func (subset *FontSubset) Len() int {
	return subset.used.Size()
}
