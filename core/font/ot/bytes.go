package ot

import "github.com/foliopress/folio/core"

// Low-level byte handling for font binaries.
//
// OpenType fonts are organized as a collection of tables, which in turn
// contain records and fields of various sizes. All multi-byte values are
// stored big-endian. Parsing is done on segments of the font's binary data,
// where every view into a segment re-checks its bounds. A font file is
// untrusted input and a corrupt offset must never panic.

func u16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func i16(b []byte) int16 {
	return int16(b[0])<<8 | int16(b[1])
}

func u32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// binarySegm is a segment of a font's binary data.
type binarySegm []byte

// Size returns the length of the segment in bytes.
func (b binarySegm) Size() int { return len(b) }

// Bytes returns the segment as a byte slice.
func (b binarySegm) Bytes() []byte { return b }

// view returns a sub-segment [offset … offset+n), bounds-checked.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, core.Error(core.EINVALID, "data segment too short")
	}
	return b[offset : offset+n : offset+n], nil
}

// u16 reads an unsigned 16 bit integer at offset i, bounds-checked.
func (b binarySegm) u16(i int) (uint16, error) {
	if i < 0 || i+2 > len(b) {
		return 0, core.Error(core.EINVALID, "data segment too short")
	}
	return u16(b[i:]), nil
}

// i16 reads a signed 16 bit integer at offset i, bounds-checked.
func (b binarySegm) i16(i int) (int16, error) {
	if i < 0 || i+2 > len(b) {
		return 0, core.Error(core.EINVALID, "data segment too short")
	}
	return i16(b[i:]), nil
}

// u32 reads an unsigned 32 bit integer at offset i, bounds-checked.
func (b binarySegm) u32(i int) (uint32, error) {
	if i < 0 || i+4 > len(b) {
		return 0, core.Error(core.EINVALID, "data segment too short")
	}
	return u32(b[i:]), nil
}

// U16 reads an unsigned 16 bit integer, returning 0 for out-of-bounds access.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 reads an unsigned 32 bit integer, returning 0 for out-of-bounds access.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// --- Fixed-size record arrays ----------------------------------------------

// array is a view onto a run of fixed-size records within a segment.
type array struct {
	recordSize int
	length     int
	loc        binarySegm
}

// viewArray interprets a segment as records of a given size.
func viewArray(b binarySegm, recordSize int) array {
	if recordSize <= 0 {
		return array{}
	}
	return array{
		recordSize: recordSize,
		length:     len(b) / recordSize,
		loc:        b,
	}
}

// Len returns the number of records.
func (a array) Len() int { return a.length }

// Get returns record i, or an empty segment for out-of-range i.
func (a array) Get(i int) binarySegm {
	if i < 0 || i >= a.length {
		return binarySegm{}
	}
	from := i * a.recordSize
	if from+a.recordSize > len(a.loc) {
		return binarySegm{}
	}
	return a.loc[from : from+a.recordSize]
}
