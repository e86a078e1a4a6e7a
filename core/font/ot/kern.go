package ot

import "math/bits"

// Pair-wise kerning, assembled from the legacy kern table and from GPOS
// pair positioning. Both sources are reduced to a flat map of glyph
// pairs to horizontal adjustments in font units.

// GlyphPair is an ordered pair of glyphs, used as a kerning key.
type GlyphPair uint32

// MakeGlyphPair packs a left and a right glyph into a pair key.
func MakeGlyphPair(left, right GlyphIndex) GlyphPair {
	return GlyphPair(uint32(left)<<16 | uint32(right))
}

// KernMap maps glyph pairs to horizontal kern adjustments in font units.
type KernMap map[GlyphPair]int32

// Adjust returns the kern adjustment for a glyph pair, 0 for pairs
// without an entry.
func (m KernMap) Adjust(left, right GlyphIndex) int32 {
	return m[MakeGlyphPair(left, right)]
}

// Kerning returns the font's combined pair kerning. Adjustments from the
// kern table and from GPOS pair positioning are summed. Fonts carrying
// neither source yield an empty map. The map is built once and shared.
func (otf *Font) Kerning() KernMap {
	otf.kernOnce.Do(func() {
		m := KernMap{}
		if kern := otf.Table(T("kern")); kern != nil {
			for pair, v := range kern.Self().AsKern().pairs {
				m[pair] += v
			}
		}
		if gpos := otf.Table(T("GPOS")); gpos != nil {
			for pair, v := range gpos.Self().AsGPos().pairs {
				m[pair] += v
			}
		}
		tracer().Debugf("font has %d kerning pairs", len(m))
		otf.kerning = m
	})
	return otf.kerning
}

// --- Legacy kern table ------------------------------------------------------

// KernTable is the legacy kerning table. Only horizontal format 0
// subtables contribute; minimum, cross-stream and vertical subtables are
// skipped. Both the Microsoft (version 0, 16 bit fields) and the Apple
// (version 1.0, 32 bit fields) header layouts occur in the wild and both
// are understood.
type KernTable struct {
	tableBase
	pairs KernMap
}

func parseKern(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &KernTable{pairs: KernMap{}}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	if size < 4 {
		return t, nil // tolerate an empty kern table
	}
	if b.U32(0) == 0x00010000 { // Apple layout
		n := int(b.U32(4))
		pos := 8
		for i := 0; i < n && pos+8 <= len(b); i++ {
			length := int(b.U32(pos))
			coverage := b.U16(pos + 4)
			format := coverage & 0x00FF
			vertical := coverage&0x8000 != 0
			crossStream := coverage&0x4000 != 0
			if format == 0 && !vertical && !crossStream {
				t.readPairs(b, pos+8)
			}
			if length < 8 {
				break
			}
			pos += length
		}
		return t, nil
	}
	n := int(b.U16(2))
	pos := 4
	for i := 0; i < n && pos+6 <= len(b); i++ {
		length := int(b.U16(pos + 2))
		coverage := b.U16(pos + 4)
		format := coverage >> 8
		horizontal := coverage&0x0001 != 0
		crossStream := coverage&0x0004 != 0
		if format == 0 && horizontal && !crossStream {
			t.readPairs(b, pos+6)
		}
		if length < 6 {
			break
		}
		pos += length
	}
	return t, nil
}

// readPairs reads a format 0 subtable payload: a sorted list of
// (left, right, value) records. Pairs repeated in later subtables
// overwrite earlier values.
func (t *KernTable) readPairs(b binarySegm, pos int) {
	nPairs, err := b.u16(pos)
	if err != nil {
		return
	}
	pos += 8 // nPairs, searchRange, entrySelector, rangeShift
	for i := 0; i < int(nPairs); i++ {
		rec, err := b.view(pos+i*6, 6)
		if err != nil {
			return
		}
		left, right := GlyphIndex(u16(rec)), GlyphIndex(u16(rec[2:]))
		t.pairs[MakeGlyphPair(left, right)] = int32(i16(rec[4:]))
	}
}

// --- GPOS pair positioning --------------------------------------------------

// GPosTable carries the pair adjustments extracted from the GPOS table.
//
// Lookup type 2 (pair adjustment) subtables in format 1 are read,
// including ones reached through type 9 extension subtables. Class-based
// pair positioning (format 2) and contextual lookups are not
// interpreted. Of the value records only the fields affecting horizontal
// advance matter here: x-placement and x-advance.
type GPosTable struct {
	tableBase
	pairs KernMap
}

// GPOS lookup types.
const (
	gposLookupSingle    = 1
	gposLookupPair      = 2
	gposLookupExtension = 9
)

// ValueFormat flags of GPOS value records.
const (
	valueXPlacement uint16 = 0x0001
	valueYPlacement uint16 = 0x0002
	valueXAdvance   uint16 = 0x0004
	valueYAdvance   uint16 = 0x0008
)

func parseGPos(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	t := &GPosTable{pairs: KernMap{}}
	t.tableBase = tableBase{data: b, name: tag, offset: offset, length: size}
	t.self = t
	if size < 10 {
		return t, nil
	}
	lookupListOffset := int(b.U16(8))
	lookupList, err := b.view(lookupListOffset, len(b)-lookupListOffset)
	if err != nil {
		return t, nil
	}
	lookupCount := int(lookupList.U16(0))
	for i := 0; i < lookupCount; i++ {
		off, err := lookupList.u16(2 + i*2)
		if err != nil {
			break
		}
		t.readLookup(lookupList, int(off))
	}
	return t, nil
}

func (t *GPosTable) readLookup(list binarySegm, offset int) {
	lookup, err := list.view(offset, len(list)-offset)
	if err != nil {
		return
	}
	lookupType := lookup.U16(0)
	if lookupType != gposLookupPair && lookupType != gposLookupExtension {
		return
	}
	subCount := int(lookup.U16(4))
	for i := 0; i < subCount; i++ {
		off, err := lookup.u16(6 + i*2)
		if err != nil {
			return
		}
		sub, err := lookup.view(int(off), len(lookup)-int(off))
		if err != nil {
			continue
		}
		if lookupType == gposLookupExtension {
			// extension header: format, extensionLookupType, extensionOffset
			if sub.U16(0) != 1 || sub.U16(2) != gposLookupPair {
				continue
			}
			extOff := int(sub.U32(4))
			if sub, err = sub.view(extOff, len(sub)-extOff); err != nil {
				continue
			}
		}
		t.readPairPos(sub)
	}
}

// readPairPos reads a PairPos format 1 subtable and accumulates its
// adjustments.
func (t *GPosTable) readPairPos(sub binarySegm) {
	if sub.U16(0) != 1 {
		tracer().Debugf("skipping pair positioning format %d", sub.U16(0))
		return
	}
	coverage := coveredGlyphs(sub, int(sub.U16(2)))
	if coverage == nil {
		return
	}
	vf1, vf2 := sub.U16(4), sub.U16(6)
	vr1Size, vr2Size := valueRecordSize(vf1), valueRecordSize(vf2)
	pairSetCount := int(sub.U16(8))
	for i := 0; i < pairSetCount; i++ {
		left, ok := coverage[i]
		if !ok {
			continue
		}
		psOff, err := sub.u16(10 + i*2)
		if err != nil {
			return
		}
		pairSet, err := sub.view(int(psOff), len(sub)-int(psOff))
		if err != nil {
			continue
		}
		recSize := 2 + vr1Size + vr2Size
		count := int(pairSet.U16(0))
		for k := 0; k < count; k++ {
			rec, err := pairSet.view(2+k*recSize, recSize)
			if err != nil {
				break
			}
			right := GlyphIndex(u16(rec))
			adj := pairAdjustment(rec[2:], vf1, vf2)
			if adj != 0 {
				t.pairs[MakeGlyphPair(left, right)] += adj
			}
		}
	}
}

// valueRecordSize returns the byte size of a value record: two bytes per
// set format flag.
func valueRecordSize(vf uint16) int {
	return 2 * bits.OnesCount16(vf&0x00FF)
}

// pairAdjustment extracts the horizontal adjustment of a pair value
// record: the first glyph's x-advance and x-placement plus the second
// glyph's x-placement. Other fields only position glyphs vertically or
// reference device corrections and are skipped.
func pairAdjustment(rec binarySegm, vf1, vf2 uint16) int32 {
	adj, pos := int32(0), 0
	read := func(vf uint16, wantPlacement, wantAdvance bool) {
		for bit := uint16(0x0001); bit <= 0x0080; bit <<= 1 {
			if vf&bit == 0 {
				continue
			}
			if (bit == valueXPlacement && wantPlacement) || (bit == valueXAdvance && wantAdvance) {
				if v, err := rec.i16(pos); err == nil {
					adj += int32(v)
				}
			}
			pos += 2
		}
	}
	read(vf1, true, true)
	read(vf2, true, false)
	return adj
}

// coveredGlyphs expands a coverage structure into a map from coverage
// index to glyph. Coverage format 1 lists glyphs directly, format 2
// stores ranges with a start coverage index per range.
func coveredGlyphs(b binarySegm, offset int) map[int]GlyphIndex {
	cov, err := b.view(offset, len(b)-offset)
	if err != nil {
		return nil
	}
	glyphs := map[int]GlyphIndex{}
	switch cov.U16(0) {
	case 1:
		count := int(cov.U16(2))
		for i := 0; i < count; i++ {
			g, err := cov.u16(4 + i*2)
			if err != nil {
				return nil
			}
			glyphs[i] = GlyphIndex(g)
		}
	case 2:
		count := int(cov.U16(2))
		for i := 0; i < count; i++ {
			rec, err := cov.view(4+i*6, 6)
			if err != nil {
				return nil
			}
			first, last := u16(rec), u16(rec[2:])
			covInx := int(u16(rec[4:]))
			for g := uint32(first); g <= uint32(last); g++ {
				glyphs[covInx+int(g-uint32(first))] = GlyphIndex(g)
			}
		}
	default:
		return nil
	}
	return glyphs
}
