package ot

import "sync"

// GlyfTable contains TrueType glyph outlines.
//
// Outlines are decoded on first access and memoized per glyph; the
// cache is safe for concurrent readers.
type GlyfTable struct {
	tableBase
	loca  *LocaTable
	cache sync.Map // GlyphIndex -> *Outline, nil = no outline available
}

// PathOp is the operator of an outline path segment.
type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	QuadTo
	ClosePath
)

// Point is a point of a glyph outline, in font units, y growing upwards.
type Point struct {
	X, Y int32
}

func midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Segment is one path segment of a glyph outline. Ctrl is the quadratic
// Bézier control point and only set for QuadTo; To is unused for
// ClosePath.
type Segment struct {
	Op   PathOp
	Ctrl Point
	To   Point
}

// Outline is a decoded glyph outline: a sequence of closed contours of
// lines and quadratic Bézier curves.
type Outline struct {
	Segments []Segment
}

// Empty returns true for outlines without any contour, e.g. a space glyph.
func (o *Outline) Empty() bool {
	return o == nil || len(o.Segments) == 0
}

// Outline returns the decoded outline of a glyph.
//
// ok is false if no outline is available: for composite glyphs, for
// out-of-range glyph indices, and for structurally corrupt glyph
// descriptions. A glyph without contours (such as a space) yields an
// empty outline with ok = true.
func (t *GlyfTable) Outline(gid GlyphIndex) (*Outline, bool) {
	if t.loca == nil {
		return nil, false
	}
	if cached, found := t.cache.Load(gid); found {
		o := cached.(*Outline)
		return o, o != nil
	}
	o := t.decode(gid)
	cached, _ := t.cache.LoadOrStore(gid, o)
	o = cached.(*Outline)
	return o, o != nil
}

func (t *GlyfTable) decode(gid GlyphIndex) *Outline {
	start, next, ok := t.loca.IndexToLocation(gid)
	if !ok || start > next || next > uint32(len(t.data)) {
		return nil
	}
	if start == next {
		return &Outline{} // glyph without outline data, e.g. space
	}
	b, err := t.data.view(int(start), int(next-start))
	if err != nil {
		return nil
	}
	numContours, err := b.i16(0)
	if err != nil {
		return nil
	}
	if numContours < 0 {
		tracer().Debugf("glyph %d is a composite glyph", gid)
		return nil
	}
	o, err := decodeSimpleGlyph(b, int(numContours))
	if err != nil {
		tracer().Infof("corrupt outline for glyph %d: %v", gid, err)
		return nil
	}
	return o
}

// Point flags of the glyph description.
const (
	flagOnCurve     = 0x01
	flagXShort      = 0x02
	flagYShort      = 0x04
	flagRepeat      = 0x08
	flagXSameOrPlus = 0x10
	flagYSameOrPlus = 0x20
)

type glyphPoint struct {
	Point
	onCurve bool
}

// decodeSimpleGlyph decodes the contours of a non-composite glyph
// description. b starts at numberOfContours, the bounding box follows,
// then the contour end points, instructions, flags and coordinates.
func decodeSimpleGlyph(b binarySegm, numContours int) (*Outline, error) {
	offset := 10 // numberOfContours i16 + bbox 4*i16
	endPts := make([]int, numContours)
	prevEnd := -1
	for i := 0; i < numContours; i++ {
		e, err := b.u16(offset)
		if err != nil {
			return nil, err
		}
		if int(e) < prevEnd {
			return nil, errFontFormat("contour end points not ascending")
		}
		prevEnd = int(e)
		endPts[i] = int(e)
		offset += 2
	}
	numPoints := 0
	if numContours > 0 {
		numPoints = endPts[numContours-1] + 1
	}
	instrLen, err := b.u16(offset)
	if err != nil {
		return nil, err
	}
	offset += 2 + int(instrLen) // instructions are irrelevant here

	// flags, run-length encoded
	flags := make([]uint8, numPoints)
	for i := 0; i < numPoints; {
		if offset >= len(b) {
			return nil, errFontFormat("glyph flags truncated")
		}
		f := b[offset]
		offset++
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			if offset >= len(b) {
				return nil, errFontFormat("glyph flags truncated")
			}
			n := int(b[offset])
			offset++
			if i+n > numPoints {
				return nil, errFontFormat("glyph flag repeat overrun")
			}
			for ; n > 0; n-- {
				flags[i] = f
				i++
			}
		}
	}

	points := make([]glyphPoint, numPoints)
	// x coordinates, delta-encoded
	x := int32(0)
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		if f&flagXShort != 0 {
			if offset >= len(b) {
				return nil, errFontFormat("glyph coordinates truncated")
			}
			dx := int32(b[offset])
			offset++
			if f&flagXSameOrPlus == 0 {
				dx = -dx
			}
			x += dx
		} else if f&flagXSameOrPlus == 0 {
			dx, err := b.i16(offset)
			if err != nil {
				return nil, errFontFormat("glyph coordinates truncated")
			}
			offset += 2
			x += int32(dx)
		} // else: same as previous x
		points[i].X = x
		points[i].onCurve = f&flagOnCurve != 0
	}
	// y coordinates, delta-encoded
	y := int32(0)
	for i := 0; i < numPoints; i++ {
		f := flags[i]
		if f&flagYShort != 0 {
			if offset >= len(b) {
				return nil, errFontFormat("glyph coordinates truncated")
			}
			dy := int32(b[offset])
			offset++
			if f&flagYSameOrPlus == 0 {
				dy = -dy
			}
			y += dy
		} else if f&flagYSameOrPlus == 0 {
			dy, err := b.i16(offset)
			if err != nil {
				return nil, errFontFormat("glyph coordinates truncated")
			}
			offset += 2
			y += int32(dy)
		}
		points[i].Y = y
	}

	o := &Outline{}
	first := 0
	for _, end := range endPts {
		if err := emitContour(o, points[first:end+1]); err != nil {
			return nil, err
		}
		first = end + 1
	}
	return o, nil
}

// emitContour converts one closed contour of glyph points into path
// segments. Consecutive off-curve points imply an on-curve point at
// their midpoint.
func emitContour(o *Outline, pts []glyphPoint) error {
	if len(pts) == 0 {
		return nil
	}
	// determine a start point on the curve and the remaining loop
	var start Point
	var loop []glyphPoint
	switch {
	case pts[0].onCurve:
		start, loop = pts[0].Point, pts[1:]
	case pts[len(pts)-1].onCurve:
		start, loop = pts[len(pts)-1].Point, pts[:len(pts)-1]
	default: // contour has no on-curve point at either end, synthesize one
		start, loop = midpoint(pts[0].Point, pts[len(pts)-1].Point), pts
	}
	if n := len(loop); n > 0 && loop[n-1].onCurve && loop[n-1].Point == start {
		loop = loop[:n-1] // explicit closing point, ClosePath covers it
	}
	o.Segments = append(o.Segments, Segment{Op: MoveTo, To: start})

	var ctrl Point
	pending := false
	for _, p := range loop {
		if p.onCurve {
			if pending {
				o.Segments = append(o.Segments, Segment{Op: QuadTo, Ctrl: ctrl, To: p.Point})
				pending = false
			} else {
				o.Segments = append(o.Segments, Segment{Op: LineTo, To: p.Point})
			}
			continue
		}
		if pending {
			mid := midpoint(ctrl, p.Point)
			o.Segments = append(o.Segments, Segment{Op: QuadTo, Ctrl: ctrl, To: mid})
		}
		ctrl, pending = p.Point, true
	}
	if pending {
		o.Segments = append(o.Segments, Segment{Op: QuadTo, Ctrl: ctrl, To: start})
	}
	o.Segments = append(o.Segments, Segment{Op: ClosePath})
	return nil
}
