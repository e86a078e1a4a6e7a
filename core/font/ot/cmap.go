package ot

// CMapTable maps character codes to glyph indices.
//
// Of the subtable formats defined by OpenType, formats 4 (segmented
// BMP coverage) and 12 (segmented coverage of the full Unicode range)
// are supported. These two cover virtually every font in circulation.
// A font whose cmap carries none of the supported formats still loads;
// its glyph index map then resolves every code-point to glyph 0.
type CMapTable struct {
	tableBase
	GlyphIndexMap CMapGlyphIndex
}

// CMapGlyphIndex maps code-points to glyph indices. Lookup cannot fail;
// unmapped code-points map to glyph 0 (.notdef).
type CMapGlyphIndex interface {
	Lookup(rune) GlyphIndex
	ReverseLookup(GlyphIndex) rune
}

// Subtable selection: we prefer a Unicode platform subtable with full
// repertoire over a BMP-only one, and the Unicode platform over the
// Windows platform. Within a platform, format 12 beats format 4.
func cmapSubtablePriority(platformID, encodingID, format uint16) int {
	switch {
	case platformID == 0 && format == 12:
		return 5
	case platformID == 0 && format == 4:
		return 4
	case platformID == 3 && encodingID == 10 && format == 12:
		return 3
	case platformID == 3 && encodingID == 1 && format == 4:
		return 2
	case format == 4:
		return 1
	}
	return 0
}

func parseCMap(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 4 {
		return nil, errFontFormat("size of cmap table")
	}
	t := &CMapTable{}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	numRecords := int(b.U16(2))
	best, bestPrio := binarySegm(nil), 0
	for i := 0; i < numRecords; i++ {
		rec, err := b.view(4+i*8, 8)
		if err != nil {
			break
		}
		pltf, enc := u16(rec), u16(rec[2:])
		link := u32(rec[4:])
		if link >= uint32(len(b)) {
			continue
		}
		sub := b[link:]
		format, err := sub.u16(0)
		if err != nil {
			continue
		}
		prio := cmapSubtablePriority(pltf, enc, format)
		tracer().Debugf("cmap subtable (%d,%d) format %d", pltf, enc, format)
		if prio > bestPrio {
			best, bestPrio = sub, prio
		}
	}
	if best == nil {
		tracer().Infof("font has no supported cmap subtable")
		t.GlyphIndexMap = cmapNone{}
		return t, nil
	}
	var gi CMapGlyphIndex
	var err error
	switch best.U16(0) {
	case 4:
		gi, err = makeGlyphIndexFormat4(best)
	case 12:
		gi, err = makeGlyphIndexFormat12(best)
	}
	if err != nil {
		return nil, err
	}
	t.GlyphIndexMap = gi
	return t, nil
}

// cmapNone is the glyph index map of a font without a usable cmap
// subtable.
type cmapNone struct{}

func (cmapNone) Lookup(rune) GlyphIndex { return 0 }

func (cmapNone) ReverseLookup(GlyphIndex) rune { return 0 }

// --- Format 4 ---------------------------------------------------------------

// format4GlyphIndex is a segmented mapping of the basic multilingual
// plane. Segments are searched by binary search over the endCode array.
type format4GlyphIndex struct {
	segCount int
	endCodes binarySegm // segCount * u16, ascending
	starts   binarySegm // segCount * u16
	deltas   binarySegm // segCount * i16
	rngOffs  binarySegm // segCount * u16, followed by glyphIdArray
}

func makeGlyphIndexFormat4(b binarySegm) (CMapGlyphIndex, error) {
	length := int(b.U16(2))
	if length > len(b) {
		length = len(b) // trust the font directory over the subtable header
	}
	b = b[:length]
	segX2 := int(b.U16(6))
	if segX2 == 0 || segX2%2 != 0 {
		return nil, errFontFormat("cmap format 4 segment count")
	}
	segCount := segX2 / 2
	// layout: endCodes, pad, startCodes, deltas, rangeOffsets, glyphIds
	if len(b) < 16+segX2*4 {
		return nil, errFontFormat("cmap format 4 truncated")
	}
	f := &format4GlyphIndex{
		segCount: segCount,
		endCodes: b[14 : 14+segX2],
		starts:   b[16+segX2 : 16+segX2*2],
		deltas:   b[16+segX2*2 : 16+segX2*3],
		rngOffs:  b[16+segX2*3:],
	}
	return f, nil
}

func (f *format4GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xFFFF {
		return 0
	}
	c := uint16(r)
	lo, hi := 0, f.segCount-1
	for lo < hi { // find first segment with endCode >= c
		mid := (lo + hi) / 2
		if u16(f.endCodes[mid*2:]) < c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	seg := lo
	if u16(f.endCodes[seg*2:]) < c || u16(f.starts[seg*2:]) > c {
		return 0
	}
	delta := i16(f.deltas[seg*2:])
	rngOff := u16(f.rngOffs[seg*2:])
	if rngOff == 0 {
		return GlyphIndex(uint16(int(c) + int(delta)))
	}
	// rngOff is a byte offset relative to the position of the
	// idRangeOffset entry itself
	start := u16(f.starts[seg*2:])
	inx := seg*2 + int(rngOff) + 2*int(c-start)
	gid, err := f.rngOffs.u16(inx)
	if err != nil || gid == 0 {
		return 0
	}
	return GlyphIndex(uint16(int(gid) + int(delta)))
}

func (f *format4GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	for seg := 0; seg < f.segCount; seg++ {
		start, end := u16(f.starts[seg*2:]), u16(f.endCodes[seg*2:])
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xFFFF {
				break
			}
			if f.Lookup(rune(c)) == gid {
				return rune(c)
			}
		}
	}
	return 0
}

// --- Format 12 --------------------------------------------------------------

// format12GlyphIndex is a list of sequential map groups covering the
// full Unicode range.
type format12GlyphIndex struct {
	numGroups int
	groups    binarySegm // numGroups * (startChar, endChar, startGlyph)
}

func makeGlyphIndexFormat12(b binarySegm) (CMapGlyphIndex, error) {
	if len(b) < 16 {
		return nil, errFontFormat("cmap format 12 truncated")
	}
	numGroups := int(b.U32(12))
	groups, err := b.view(16, numGroups*12)
	if err != nil {
		return nil, errFontFormat("cmap format 12 truncated")
	}
	return &format12GlyphIndex{numGroups: numGroups, groups: groups}, nil
}

func (f *format12GlyphIndex) Lookup(r rune) GlyphIndex {
	if r < 0 {
		return 0
	}
	c := uint32(r)
	lo, hi := 0, f.numGroups-1
	for lo <= hi {
		mid := (lo + hi) / 2
		g := f.groups[mid*12:]
		start, end := u32(g), u32(g[4:])
		switch {
		case c < start:
			hi = mid - 1
		case c > end:
			lo = mid + 1
		default:
			return GlyphIndex(u32(g[8:]) + (c - start))
		}
	}
	return 0
}

func (f *format12GlyphIndex) ReverseLookup(gid GlyphIndex) rune {
	if gid == 0 {
		return 0
	}
	g32 := uint32(gid)
	for i := 0; i < f.numGroups; i++ {
		g := f.groups[i*12:]
		start, end, sg := u32(g), u32(g[4:]), u32(g[8:])
		if g32 >= sg && g32-sg <= end-start {
			return rune(start + (g32 - sg))
		}
	}
	return 0
}
