// Package ot provides access to OpenType font tables and features.
//
// The package parses the binary table structure of OpenType and TrueType
// fonts into typed, bounds-checked views. It covers the tables folio's
// typesetting core needs: font-wide metrics, character-to-glyph mapping,
// glyph outlines, and pair-wise kerning from both the legacy kern table
// and GPOS pair positioning.
//
// It is not a full OpenType layout implementation. Shaping of complex
// scripts, glyph substitution and positioning beyond pair adjustment are
// out of scope.
package ot

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// tracer traces with key 'folio.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("folio.fonts")
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tags -------------------------------------------------------------------

// Tag is an identifier for OpenType tables, scripts, features, etc.
// It is a 4-byte value interpreted as ASCII characters.
type Tag uint32

// T creates a tag from (the first 4 bytes of) a string.
func T(str string) Tag {
	for len(str) < 4 {
		str += " "
	}
	return Tag(u32([]byte(str)))
}

// MakeTag creates a tag from 4 bytes.
func MakeTag(b []byte) Tag {
	if len(b) < 4 {
		b = append(b, []byte("    ")...)[:4]
	}
	return Tag(u32(b))
}

func (t Tag) String() string {
	return string([]byte{
		byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t),
	})
}

// --- Font -------------------------------------------------------------------

// Font represents the parsed table structure of an OpenType font.
//
// A Font is created by Parse. Clients get access to tables by calling
// Font.Table with a table tag, and convert the result to a concrete
// table type using the TableSelf converters:
//
//	head := otf.Table(ot.T("head")).Self().AsHead()
//
// CMap is the font's character-to-glyph mapping, set for every
// successfully parsed font (possibly mapping everything to glyph 0 if no
// supported cmap subtable is present).
type Font struct {
	Header *FontHeader
	CMap   *CMapTable
	tables map[Tag]Table

	kernOnce sync.Once
	kerning  KernMap
}

// FontHeader is the directory header of an OpenType font file.
type FontHeader struct {
	FontType   uint32
	TableCount int
}

// Table returns the font table with the given tag, or nil if the font
// does not contain such a table.
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns the tags of all tables contained in the font.
func (otf *Font) TableTags() []Tag {
	tags := make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	return tags
}

// GlyphIndex returns the glyph for a code-point. Unmapped code-points
// yield glyph 0 (.notdef).
func (otf *Font) GlyphIndex(codepoint rune) GlyphIndex {
	if otf.CMap == nil {
		return 0
	}
	return otf.CMap.GlyphIndexMap.Lookup(codepoint)
}

// NumGlyphs returns the number of glyphs in the font.
func (otf *Font) NumGlyphs() int {
	if maxp := otf.Table(T("maxp")); maxp != nil {
		return maxp.Self().AsMaxP().NumGlyphs
	}
	return 0
}

// UnitsPerEm returns the design grid resolution of the font.
func (otf *Font) UnitsPerEm() uint16 {
	if head := otf.Table(T("head")); head != nil {
		return head.Self().AsHead().UnitsPerEm
	}
	return 0
}

// --- Table and table base ---------------------------------------------------

// Table represents one table of an OpenType font.
type Table interface {
	Binary() []byte  // bytes of this table
	Offset() uint32  // offset of the table within the font file
	Len() uint32     // byte length of the table
	Self() TableSelf // reference to self, usable for type conversion
}

type tableBase struct {
	data   binarySegm
	name   Tag
	offset uint32
	length uint32
	self   interface{}
}

// Binary returns the bytes of the table.
func (tb *tableBase) Binary() []byte { return tb.data }

// Offset returns the offset of the table within the font file.
func (tb *tableBase) Offset() uint32 { return tb.offset }

// Len returns the byte length of the table.
func (tb *tableBase) Len() uint32 { return tb.length }

// Self returns a table reference, usable for conversion to concrete
// table types.
func (tb *tableBase) Self() TableSelf { return TableSelf{tableBase: tb} }

func (tb *tableBase) bytes() binarySegm { return tb.data }

// TableSelf is a reference to a table, used to convert a generic table to
// a concrete table type.
type TableSelf struct {
	tableBase *tableBase
}

// AsHead converts a table to HeadTable, or nil.
func (ts TableSelf) AsHead() *HeadTable {
	t, _ := ts.tableBase.self.(*HeadTable)
	return t
}

// AsHHea converts a table to HHeaTable, or nil.
func (ts TableSelf) AsHHea() *HHeaTable {
	t, _ := ts.tableBase.self.(*HHeaTable)
	return t
}

// AsMaxP converts a table to MaxPTable, or nil.
func (ts TableSelf) AsMaxP() *MaxPTable {
	t, _ := ts.tableBase.self.(*MaxPTable)
	return t
}

// AsHMtx converts a table to HMtxTable, or nil.
func (ts TableSelf) AsHMtx() *HMtxTable {
	t, _ := ts.tableBase.self.(*HMtxTable)
	return t
}

// AsLoca converts a table to LocaTable, or nil.
func (ts TableSelf) AsLoca() *LocaTable {
	t, _ := ts.tableBase.self.(*LocaTable)
	return t
}

// AsGlyf converts a table to GlyfTable, or nil.
func (ts TableSelf) AsGlyf() *GlyfTable {
	t, _ := ts.tableBase.self.(*GlyfTable)
	return t
}

// AsCMap converts a table to CMapTable, or nil.
func (ts TableSelf) AsCMap() *CMapTable {
	t, _ := ts.tableBase.self.(*CMapTable)
	return t
}

// AsKern converts a table to KernTable, or nil.
func (ts TableSelf) AsKern() *KernTable {
	t, _ := ts.tableBase.self.(*KernTable)
	return t
}

// AsGPos converts a table to GPosTable, or nil.
func (ts TableSelf) AsGPos() *GPosTable {
	t, _ := ts.tableBase.self.(*GPosTable)
	return t
}

// AsName converts a table to NameTable, or nil.
func (ts TableSelf) AsName() *NameTable {
	t, _ := ts.tableBase.self.(*NameTable)
	return t
}

// genericTable is a table without a parser for its inner structure.
type genericTable struct {
	tableBase
}

func newGenericTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}}
	t.self = t
	return t
}

// --- Concrete table types ---------------------------------------------------

// HeadTable gives global information about the font.
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16
	IndexToLocFormat int16 // needed to interpret the loca table
}

// HHeaTable contains information for horizontal layout.
type HHeaTable struct {
	tableBase
	Ascender         int16
	Descender        int16
	LineGap          int16
	NumberOfHMetrics int
}

// MaxPTable establishes the memory requirements of the font, most
// importantly the number of glyphs.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

// HMtxTable contains paired advance-width and left-side-bearing values
// for each glyph.
type HMtxTable struct {
	tableBase
	numberOfHMetrics int
	numGlyphs        int
}

// Metrics returns advance width and left side bearing of a glyph.
// Glyphs beyond numberOfHMetrics repeat the last advance width. Out of
// range glyphs yield (0, 0).
func (t *HMtxTable) Metrics(gid GlyphIndex) (advance uint16, lsb int16) {
	g, nm := int(gid), t.numberOfHMetrics
	if g >= t.numGlyphs || nm == 0 {
		return 0, 0
	}
	if g < nm {
		rec, err := t.data.view(g*4, 4)
		if err != nil {
			return 0, 0
		}
		return u16(rec), i16(rec[2:])
	}
	last, err := t.data.view((nm-1)*4, 4)
	if err != nil {
		return 0, 0
	}
	advance = u16(last)
	if sb, err := t.data.i16(nm*4 + (g-nm)*2); err == nil {
		lsb = sb
	}
	return advance, lsb
}

// LocaTable indexes the location of glyph outlines within the glyf table.
type LocaTable struct {
	tableBase
	format  int16 // 0 = short offsets, 1 = long offsets
	entries int   // number of glyphs + 1
}

// IndexToLocation returns the byte offset of a glyph's outline within the
// glyf table, together with the offset of the following glyph. ok is
// false for out-of-range glyph indices.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) (start, next uint32, ok bool) {
	g := int(gid)
	if g+1 >= t.entries {
		return 0, 0, false
	}
	if t.format == 0 {
		s, err1 := t.data.u16(g * 2)
		n, err2 := t.data.u16(g*2 + 2)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return uint32(s) * 2, uint32(n) * 2, true
	}
	s, err1 := t.data.u32(g * 4)
	n, err2 := t.data.u32(g*4 + 4)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return s, n, true
}

// --- Name table -------------------------------------------------------------

// Name IDs for NameTable.Get.
const (
	NameCopyright  = 0
	NameFamily     = 1
	NameSubfamily  = 2
	NameUniqueID   = 3
	NameFull       = 4
	NameVersion    = 5
	NamePostscript = 6
)

// NameTable contains human-readable names for font properties.
type NameTable struct {
	tableBase
	strbuf binarySegm
	recs   array
}

// Get returns the (English) name table entry for a name ID, or "".
// Windows platform entries are stored UTF-16BE and decoded; Macintosh
// entries are taken verbatim.
func (t *NameTable) Get(nameID int) string {
	var mac string
	for i := 0; i < t.recs.Len(); i++ {
		rec := t.recs.Get(i)
		if rec.Size() < 12 {
			continue
		}
		if int(u16(rec[6:])) != nameID {
			continue
		}
		plat, length, offset := u16(rec), int(u16(rec[8:])), int(u16(rec[10:]))
		str, err := t.strbuf.view(offset, length)
		if err != nil {
			continue
		}
		switch plat {
		case 3: // Windows, UTF-16BE
			if dec, err := decodeUTF16(str); err == nil {
				return dec
			}
		case 1: // Macintosh
			if mac == "" {
				mac = string(str)
			}
		}
	}
	return mac
}

func decodeUTF16(b []byte) (string, error) {
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	out, _, err := transform.Bytes(dec, b)
	if err != nil {
		return "", err
	}
	return string(bytes.ToValidUTF8(out, nil)), nil
}

// --- Diagnostics ------------------------------------------------------------

func (otf *Font) String() string {
	return fmt.Sprintf("OpenType font with %d tables", len(otf.tables))
}
