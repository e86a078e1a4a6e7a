package ot

import (
	"encoding/binary"
	"sort"
)

// Helpers to assemble small TrueType binaries in memory. Tests build
// fonts table by table instead of shipping font files.

type fontBuilder struct {
	tables map[string][]byte
}

func newFontBuilder() *fontBuilder {
	return &fontBuilder{tables: make(map[string][]byte)}
}

func (fb *fontBuilder) add(tag string, data []byte) *fontBuilder {
	fb.tables[tag] = data
	return fb
}

// build assembles the font binary: directory header, table records
// sorted by tag, then the table payloads, 4-byte aligned.
func (fb *fontBuilder) build() []byte {
	tags := make([]string, 0, len(fb.tables))
	for tag := range fb.tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	font := make([]byte, 12+16*len(tags))
	binary.BigEndian.PutUint32(font, 0x00010000)
	binary.BigEndian.PutUint16(font[4:], uint16(len(tags)))
	for i, tag := range tags {
		data := fb.tables[tag]
		for len(font)%4 != 0 {
			font = append(font, 0)
		}
		rec := font[12+16*i:]
		copy(rec, tag)
		binary.BigEndian.PutUint32(rec[8:], uint32(len(font)))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(data)))
		font = append(font, data...)
	}
	return font
}

func beBuf(words ...interface{}) []byte {
	var buf []byte
	for _, w := range words {
		switch v := w.(type) {
		case uint16:
			buf = binary.BigEndian.AppendUint16(buf, v)
		case int16:
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		case uint32:
			buf = binary.BigEndian.AppendUint32(buf, v)
		case int:
			buf = binary.BigEndian.AppendUint16(buf, uint16(v))
		case []byte:
			buf = append(buf, v...)
		default:
			panic("beBuf: unsupported word type")
		}
	}
	return buf
}

// --- Table payloads ---------------------------------------------------------

func headPayload(unitsPerEm uint16, indexToLocFormat int16) []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b, 0x00010000)          // version
	binary.BigEndian.PutUint32(b[12:], 0x5F0F3CF5)     // magicNumber
	binary.BigEndian.PutUint16(b[18:], unitsPerEm)
	binary.BigEndian.PutUint16(b[50:], uint16(indexToLocFormat))
	return b
}

func hheaPayload(ascender, descender, lineGap int16, numberOfHMetrics uint16) []byte {
	b := make([]byte, 36)
	binary.BigEndian.PutUint32(b, 0x00010000)
	binary.BigEndian.PutUint16(b[4:], uint16(ascender))
	binary.BigEndian.PutUint16(b[6:], uint16(descender))
	binary.BigEndian.PutUint16(b[8:], uint16(lineGap))
	binary.BigEndian.PutUint16(b[34:], numberOfHMetrics)
	return b
}

func maxpPayload(numGlyphs uint16) []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b, 0x00005000)
	binary.BigEndian.PutUint16(b[4:], numGlyphs)
	return b
}

// hmtxPayload encodes full (advance, lsb) records plus trailing
// left-side bearings for glyphs reusing the last advance.
func hmtxPayload(metrics [][2]int16, trailingLSBs []int16) []byte {
	var b []byte
	for _, m := range metrics {
		b = beBuf([]byte(b), uint16(m[0]), m[1])
	}
	for _, lsb := range trailingLSBs {
		b = beBuf([]byte(b), lsb)
	}
	return b
}

// cmapSegment is one format 4 segment mapping [start…end] via delta.
type cmapSegment struct {
	start, end uint16
	delta      int16
}

// cmapFormat4Payload builds a cmap table with a single (3,1) format 4
// subtable. The terminating 0xFFFF segment is appended automatically.
func cmapFormat4Payload(segments []cmapSegment) []byte {
	segments = append(segments, cmapSegment{0xFFFF, 0xFFFF, 1})
	segCount := len(segments)
	sub := beBuf(
		uint16(4),             // format
		uint16(16+segCount*8), // length
		uint16(0),             // language
		uint16(segCount*2),    // segCountX2
		uint16(0), uint16(0), uint16(0), // search helpers, unused
	)
	for _, s := range segments {
		sub = beBuf(sub, s.end)
	}
	sub = beBuf(sub, uint16(0)) // reservedPad
	for _, s := range segments {
		sub = beBuf(sub, s.start)
	}
	for _, s := range segments {
		sub = beBuf(sub, s.delta)
	}
	for range segments {
		sub = beBuf(sub, uint16(0)) // idRangeOffset: delta arithmetic only
	}
	return beBuf(
		uint16(0), uint16(1), // version, numTables
		uint16(3), uint16(1), uint32(12), // (3,1) at offset 12
		sub,
	)
}

// cmapGroup is one format 12 sequential map group.
type cmapGroup struct {
	startChar, endChar uint32
	startGlyph         uint32
}

// cmapFormat12Payload builds a cmap table with a single (0,4) format 12
// subtable.
func cmapFormat12Payload(groups []cmapGroup) []byte {
	sub := beBuf(
		uint16(12), uint16(0), // format, reserved
		uint32(16+uint32(len(groups))*12), // length
		uint32(0),                         // language
		uint32(len(groups)),
	)
	for _, g := range groups {
		sub = beBuf(sub, g.startChar, g.endChar, g.startGlyph)
	}
	return beBuf(
		uint16(0), uint16(1),
		uint16(0), uint16(4), uint32(12),
		sub,
	)
}

// glyphSquare encodes a simple one-contour glyph description, a square
// with side length d, all points on-curve, long coordinates.
func glyphSquare(d int16) []byte {
	b := beBuf(
		int16(1),                           // numberOfContours
		int16(0), int16(0), d, d,           // bbox
		uint16(3),                          // endPtsOfContours[0]
		uint16(0),                          // instructionLength
	)
	for i := 0; i < 4; i++ {
		b = append(b, flagOnCurve) // long x, long y deltas
	}
	b = beBuf(b, int16(0), d, int16(0), -d) // x deltas
	b = beBuf(b, int16(0), int16(0), d, int16(0)) // y deltas
	return b
}

// glyphDiamond encodes a one-contour glyph alternating on- and
// off-curve points, exercising quadratic segments. d must be even.
// Points: (0,d/2) on, (d/2,d) off, (d,d/2) on, (d/2,0) off.
func glyphDiamond(d int16) []byte {
	b := beBuf(
		int16(1),
		int16(0), int16(0), d, d,
		uint16(3),
		uint16(0),
	)
	h := d / 2
	b = append(b, flagOnCurve, 0x00, flagOnCurve, 0x00) // on, off, on, off
	b = beBuf(b, int16(0), h, h, int16(-h))             // x deltas
	b = beBuf(b, h, h, int16(-h), int16(-h))            // y deltas
	return b
}

// glyphComposite encodes the header of a composite glyph. The component
// data itself is irrelevant for the tests.
func glyphComposite() []byte {
	return beBuf(
		int16(-1),
		int16(0), int16(0), int16(100), int16(100),
		uint16(0), uint16(1), // flags, glyphIndex of component
	)
}

// glyfAndLoca lays out glyph descriptions and the matching short-format
// loca table. A nil entry produces an empty glyph.
func glyfAndLoca(glyphs [][]byte) (glyf []byte, loca []byte) {
	offsets := make([]uint16, 0, len(glyphs)+1)
	for _, g := range glyphs {
		offsets = append(offsets, uint16(len(glyf)/2))
		glyf = append(glyf, g...)
		for len(glyf)%2 != 0 {
			glyf = append(glyf, 0)
		}
	}
	offsets = append(offsets, uint16(len(glyf)/2))
	for _, off := range offsets {
		loca = beBuf(loca, off)
	}
	return glyf, loca
}

// kernPayload builds a Microsoft-style kern table with one horizontal
// format 0 subtable.
func kernPayload(pairs [][3]int16) []byte {
	sub := beBuf(
		uint16(0),                       // subtable version
		uint16(14+len(pairs)*6),         // length
		uint16(0x0001),                  // coverage: horizontal, format 0
		uint16(len(pairs)),              // nPairs
		uint16(0), uint16(0), uint16(0), // search helpers
	)
	for _, p := range pairs {
		sub = beBuf(sub, uint16(p[0]), uint16(p[1]), p[2])
	}
	return beBuf(uint16(0), uint16(1), sub)
}

// gposPair is a pair adjustment: left and right glyph plus the three
// value fields PairPos format 1 can contribute.
type gposPair struct {
	left, right       GlyphIndex
	xAdv1, xPla1, xPla2 int16
}

// gposPayload builds a GPOS table with one pair adjustment lookup in
// format 1, one pair set per distinct left glyph. Coverage is written in
// format 1 (glyph list). Value formats: value1 = x-placement+x-advance,
// value2 = x-placement.
func gposPayload(pairs []gposPair) []byte {
	lefts := make([]GlyphIndex, 0)
	byLeft := map[GlyphIndex][]gposPair{}
	for _, p := range pairs {
		if _, ok := byLeft[p.left]; !ok {
			lefts = append(lefts, p.left)
		}
		byLeft[p.left] = append(byLeft[p.left], p)
	}
	sort.Slice(lefts, func(i, j int) bool { return lefts[i] < lefts[j] })

	// pair sets, collected first to know their offsets
	pairSets := make([][]byte, len(lefts))
	for i, left := range lefts {
		ps := beBuf(uint16(len(byLeft[left])))
		for _, p := range byLeft[left] {
			ps = beBuf(ps, uint16(p.right), p.xPla1, p.xAdv1, p.xPla2)
		}
		pairSets[i] = ps
	}
	coverage := beBuf(uint16(1), uint16(len(lefts)))
	for _, left := range lefts {
		coverage = beBuf(coverage, uint16(left))
	}
	subHeader := 10 + 2*len(lefts)
	covOff := subHeader
	pos := covOff + len(coverage)
	sub := beBuf(
		uint16(1),           // posFormat
		uint16(covOff),      // coverage offset
		valueXPlacement|valueXAdvance, // valueFormat1
		valueXPlacement,     // valueFormat2
		uint16(len(lefts)),  // pairSetCount
	)
	for i := range lefts {
		sub = beBuf(sub, uint16(pos))
		pos += len(pairSets[i])
	}
	sub = append(sub, coverage...)
	for _, ps := range pairSets {
		sub = append(sub, ps...)
	}
	lookup := beBuf(uint16(gposLookupPair), uint16(0), uint16(1), uint16(8), sub)
	lookupList := beBuf(uint16(1), uint16(4), lookup)
	return beBuf(
		uint32(0x00010000),
		uint16(10), uint16(10), // script and feature list, unused
		uint16(10),             // lookup list offset
		lookupList,
	)
}

// testFont builds a complete small font: 4 glyphs (.notdef, square,
// empty, diamond), 1000 units per em, cmap mapping 'A'…'C' to glyphs
// 1…3.
func testFont() []byte {
	glyf, loca := glyfAndLoca([][]byte{
		nil,              // .notdef, empty
		glyphSquare(500), // 'A'
		nil,              // 'B', no outline data
		glyphDiamond(400), // 'C'
	})
	return newFontBuilder().
		add("head", headPayload(1000, 0)).
		add("hhea", hheaPayload(800, -200, 90, 3)).
		add("maxp", maxpPayload(4)).
		add("hmtx", hmtxPayload([][2]int16{{600, 50}, {500, 0}, {250, 0}}, []int16{10})).
		add("cmap", cmapFormat4Payload([]cmapSegment{{start: 'A', end: 'C', delta: int16(1 - 'A')}})).
		add("loca", loca).
		add("glyf", glyf).
		add("kern", kernPayload([][3]int16{{1, 3, -80}, {3, 1, 25}})).
		add("GPOS", gposPayload([]gposPair{{left: 1, right: 3, xAdv1: -40}})).
		build()
}
