package ot

import (
	"github.com/foliopress/folio/core"
)

// Accepted sfnt version tags. 'OTTO' fonts carry CFF outlines; their glyf
// dependent features degrade gracefully.
const (
	sfntVersionTrueType = 0x00010000
	sfntVersionOTTO     = 0x4f54544f // 'OTTO'
	sfntVersionAppleTT  = 0x74727565 // 'true'
)

func errFontFormat(x string) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", x)
}

// Parse parses an OpenType font from a byte slice.
//
// The font binary is not copied; the returned Font holds views into it.
// Parse fails with an error for a corrupt table directory, for table
// records pointing outside the binary, and for fonts lacking one of the
// mandatory tables head, hhea, maxp and cmap.
func Parse(font []byte) (*Font, error) {
	if font == nil {
		return nil, core.Error(core.EINVALID, "cannot parse empty font binary")
	}
	b := binarySegm(font)
	if len(b) < 12 {
		return nil, errFontFormat("table directory truncated")
	}
	version := u32(b)
	switch version {
	case sfntVersionTrueType, sfntVersionOTTO, sfntVersionAppleTT:
		// ok
	default:
		return nil, errFontFormat("not a recognized OpenType font")
	}
	numTables := int(u16(b[4:]))
	if len(b) < 12+numTables*16 {
		return nil, errFontFormat("table directory truncated")
	}
	otf := &Font{
		Header: &FontHeader{FontType: version, TableCount: numTables},
		tables: make(map[Tag]Table, numTables),
	}
	for i := 0; i < numTables; i++ {
		rec := b[12+i*16:]
		tag := MakeTag(rec[:4])
		offset, size := u32(rec[8:]), u32(rec[12:])
		if offset > uint32(len(b)) || size > uint32(len(b))-offset {
			return nil, errFontFormat("table " + tag.String() + " exceeds font binary")
		}
		seg, err := b.view(int(offset), int(size))
		if err != nil {
			return nil, errFontFormat("table " + tag.String() + " exceeds font binary")
		}
		t, err := parseTable(tag, seg, offset, size)
		if err != nil {
			return nil, err
		}
		tracer().Debugf("font table %s (%d bytes)", tag, size)
		otf.tables[tag] = t
	}
	for _, tag := range []Tag{T("head"), T("hhea"), T("maxp"), T("cmap")} {
		if _, ok := otf.tables[tag]; !ok {
			return nil, core.Error(core.EMISSING, "font lacks mandatory table %s", tag)
		}
	}
	if err := linkTables(otf); err != nil {
		return nil, err
	}
	otf.CMap = otf.Table(T("cmap")).Self().AsCMap()
	return otf, nil
}

func parseTable(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch tag {
	case T("head"):
		return parseHead(tag, b, offset, size)
	case T("hhea"):
		return parseHHea(tag, b, offset, size)
	case T("maxp"):
		return parseMaxP(tag, b, offset, size)
	case T("hmtx"):
		return parseHMtx(tag, b, offset, size)
	case T("loca"):
		return parseLoca(tag, b, offset, size)
	case T("glyf"):
		return parseGlyf(tag, b, offset, size)
	case T("cmap"):
		return parseCMap(tag, b, offset, size)
	case T("kern"):
		return parseKern(tag, b, offset, size)
	case T("GPOS"):
		return parseGPos(tag, b, offset, size)
	case T("name"):
		return parseName(tag, b, offset, size)
	}
	return newGenericTable(tag, b, offset, size), nil
}

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	t.Flags, _ = b.u16(16)
	t.UnitsPerEm, _ = b.u16(18)
	t.IndexToLocFormat, _ = b.i16(50)
	if t.UnitsPerEm == 0 {
		return nil, errFontFormat("unitsPerEm is zero")
	}
	return t, nil
}

func parseHHea(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 36 {
		return nil, errFontFormat("size of hhea table")
	}
	t := &HHeaTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	n, _ := b.u16(34)
	t.NumberOfHMetrics = int(n)
	return t, nil
}

func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := &MaxPTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}

func parseHMtx(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &HMtxTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t, nil
}

func parseLoca(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &LocaTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t, nil
}

func parseGlyf(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &GlyfTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	return t, nil
}

func parseName(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of name table")
	}
	t := &NameTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	count := int(b.U16(2))
	strOffset := int(b.U16(4))
	if recs, err := b.view(6, count*12); err == nil {
		t.recs = viewArray(recs, 12)
	}
	if strOffset <= len(b) {
		t.strbuf = b[strOffset:]
	}
	return t, nil
}

// linkTables wires inter-table dependencies and validates their
// consistency. hmtx depends on hhea and maxp, loca on head and maxp,
// glyf on loca.
func linkTables(otf *Font) error {
	maxp := otf.Table(T("maxp")).Self().AsMaxP()
	head := otf.Table(T("head")).Self().AsHead()
	hhea := otf.Table(T("hhea")).Self().AsHHea()
	if hmtx := otf.Table(T("hmtx")); hmtx != nil {
		m := hmtx.Self().AsHMtx()
		nm, ng := hhea.NumberOfHMetrics, maxp.NumGlyphs
		if nm > ng {
			return errFontFormat("hhea numberOfHMetrics exceeds glyph count")
		}
		if int(hmtx.Len()) < nm*4+(ng-nm)*2 {
			return errFontFormat("hmtx table too short for glyph count")
		}
		m.numberOfHMetrics, m.numGlyphs = nm, ng
	}
	if loca := otf.Table(T("loca")); loca != nil {
		l := loca.Self().AsLoca()
		l.format = head.IndexToLocFormat
		l.entries = maxp.NumGlyphs + 1
		entrySize := 2
		if l.format != 0 {
			entrySize = 4
		}
		if int(loca.Len()) < l.entries*entrySize {
			return errFontFormat("loca table too short for glyph count")
		}
		if glyf := otf.Table(T("glyf")); glyf != nil {
			glyf.Self().AsGlyf().loca = l
		}
	} else if otf.Table(T("glyf")) != nil {
		return errFontFormat("glyf table without loca table")
	}
	return nil
}
