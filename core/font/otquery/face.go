// Package otquery is a unified query facade over parsed OpenType fonts.
//
// A Face bundles the per-table lookups of package ot behind one
// interface: character-to-glyph mapping, horizontal metrics, pair
// kerning and glyph outlines. Face construction validates the font
// once; all per-glyph queries afterwards are non-failing and degrade to
// zero values for glyphs a font does not cover.
package otquery

import (
	"github.com/foliopress/folio/core"
	"github.com/foliopress/folio/core/font/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'folio.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("folio.fonts")
}

// Face is a font parsed and prepared for metric, kerning and outline
// queries. Faces are safe for concurrent use.
type Face struct {
	otf        *ot.Font
	hmtx       *ot.HMtxTable
	glyf       *ot.GlyfTable
	hhea       *ot.HHeaTable
	kerning    ot.KernMap
	unitsPerEm uint16
	numGlyphs  int
}

// Wrap prepares a parsed font for queries.
func Wrap(otf *ot.Font) (*Face, error) {
	if otf == nil {
		return nil, core.Error(core.EINVALID, "cannot query null font")
	}
	face := &Face{
		otf:        otf,
		unitsPerEm: otf.UnitsPerEm(),
		numGlyphs:  otf.NumGlyphs(),
		kerning:    otf.Kerning(),
	}
	if face.unitsPerEm == 0 || face.numGlyphs == 0 {
		return nil, core.Error(core.EINVALID, "font without glyphs or design grid")
	}
	face.hhea = otf.Table(ot.T("hhea")).Self().AsHHea()
	if hmtx := otf.Table(ot.T("hmtx")); hmtx != nil {
		face.hmtx = hmtx.Self().AsHMtx()
	}
	if glyf := otf.Table(ot.T("glyf")); glyf != nil {
		face.glyf = glyf.Self().AsGlyf()
	}
	tracer().Debugf("face wraps font with %d glyphs, %d kern pairs",
		face.numGlyphs, len(face.kerning))
	return face, nil
}

// Parse parses a font binary and wraps it for queries.
func Parse(fontBinary []byte) (*Face, error) {
	otf, err := ot.Parse(fontBinary)
	if err != nil {
		return nil, err
	}
	return Wrap(otf)
}

// Font returns the underlying parsed font.
func (face *Face) Font() *ot.Font { return face.otf }

// UnitsPerEm returns the font's design grid resolution.
func (face *Face) UnitsPerEm() uint16 { return face.unitsPerEm }

// NumGlyphs returns the number of glyphs in the font.
func (face *Face) NumGlyphs() int { return face.numGlyphs }

// GlyphIndex maps a code-point to a glyph, 0 (.notdef) for code-points
// the font does not cover.
func (face *Face) GlyphIndex(codepoint rune) ot.GlyphIndex {
	return face.otf.GlyphIndex(codepoint)
}

// CodePointFor is the inverse of GlyphIndex. It is slow and intended
// for diagnostics and subsetting, not for shaping.
func (face *Face) CodePointFor(gid ot.GlyphIndex) rune {
	if face.otf.CMap == nil {
		return 0
	}
	return face.otf.CMap.GlyphIndexMap.ReverseLookup(gid)
}

// AdvanceWidth returns the horizontal advance of a glyph in font units.
func (face *Face) AdvanceWidth(gid ot.GlyphIndex) uint16 {
	if face.hmtx == nil {
		return 0
	}
	adv, _ := face.hmtx.Metrics(gid)
	return adv
}

// LeftSideBearing returns the left side bearing of a glyph in font units.
func (face *Face) LeftSideBearing(gid ot.GlyphIndex) int16 {
	if face.hmtx == nil {
		return 0
	}
	_, lsb := face.hmtx.Metrics(gid)
	return lsb
}

// Kerning returns the kern adjustment for a glyph pair in font units,
// 0 for pairs without one. Legacy kern table and GPOS pair positioning
// contribute additively.
func (face *Face) Kerning(left, right ot.GlyphIndex) int32 {
	return face.kerning.Adjust(left, right)
}

// Outline returns the decoded outline of a glyph; ok is false if the
// font provides none (composite glyphs, CFF-only fonts, corrupt data).
func (face *Face) Outline(gid ot.GlyphIndex) (*ot.Outline, bool) {
	if face.glyf == nil {
		return nil, false
	}
	return face.glyf.Outline(gid)
}

// Ascender returns the typographic ascender in font units.
func (face *Face) Ascender() int16 {
	if face.hhea == nil {
		return 0
	}
	return face.hhea.Ascender
}

// Descender returns the typographic descender in font units, typically
// negative.
func (face *Face) Descender() int16 {
	if face.hhea == nil {
		return 0
	}
	return face.hhea.Descender
}

// LineGap returns the typographic line gap in font units.
func (face *Face) LineGap() int16 {
	if face.hhea == nil {
		return 0
	}
	return face.hhea.LineGap
}

// Scale converts a font-unit value to pixels at a given font size.
func (face *Face) Scale(v int32, size float64) float64 {
	return float64(v) * size / float64(face.unitsPerEm)
}

// ScaledAdvance returns the horizontal advance of a glyph in pixels at
// a given font size.
func (face *Face) ScaledAdvance(gid ot.GlyphIndex, size float64) float64 {
	return face.Scale(int32(face.AdvanceWidth(gid)), size)
}

// ScaledKerning returns the kern adjustment of a glyph pair in pixels
// at a given font size.
func (face *Face) ScaledKerning(left, right ot.GlyphIndex, size float64) float64 {
	return face.Scale(face.Kerning(left, right), size)
}
