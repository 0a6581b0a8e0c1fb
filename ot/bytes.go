package ot

import (
	"errors"
)

// Reading bytes from a font's binary representation

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// binarySegm is a segment of byte data, i.e. a sub-slice of a font's binary.
// All reads are bounds-checked; a failing read reports errBufferBounds.
type binarySegm []byte

// Size returns the number of bytes in b.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns b as a plain byte slice.
func (b binarySegm) Bytes() []byte {
	return b
}

// U16 returns the uint16 at byte index i, or 0 if i is out of bounds.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 returns the uint32 at byte index i, or 0 if i is out of bounds.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n <= 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// from returns the tail of b starting at offset. An offset equal to len(b)
// yields an empty (but valid) segment, an offset beyond it an error.
func (b binarySegm) from(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// offset16 reads an Offset16 at byte index i. OpenType uses a NULL offset
// to mark a missing sub-table, which is reported as None.
func (b binarySegm) offset16(i int) (Option[int], error) {
	n, err := b.u16(i)
	if err != nil {
		return None[int](), err
	}
	if n == 0 {
		return None[int](), nil
	}
	return Some(int(n)), nil
}

// --- Arrays ----------------------------------------------------------------

// array is a counted array of fixed-size records, as found all over
// OpenType tables: a uint16 count followed by count records.
type array struct {
	name       string
	recordSize int
	length     int
	loc        binarySegm
}

// parseArray reads a uint16 record count at offset and returns a view onto
// the records following it. It is an error if the records do not fit into b.
// parseArray does not allocate, as it is called during glyph lookups.
func parseArray(b binarySegm, offset int, recordSize int, name string) (array, error) {
	n, err := b.u16(offset)
	if err != nil {
		return array{name: name}, err
	}
	headerSize := offset + 2
	requiredSize := headerSize + int(n)*recordSize
	if requiredSize > len(b) { // count exceeds the data
		return array{name: name}, errBufferBounds
	}
	return array{
		name:       name,
		recordSize: recordSize,
		length:     int(n),
		loc:        b[headerSize:requiredSize],
	}, nil
}

// Name returns the diagnostic name of the array.
func (a array) Name() string {
	return a.name
}

// Len returns the number of entries in the list.
func (a array) Len() int {
	return a.length
}

// Get returns item #i as a byte segment, or nil if i is out of range.
func (a array) Get(i int) binarySegm {
	if i < 0 || i >= a.length {
		return nil
	}
	b, _ := a.loc.view(i*a.recordSize, a.recordSize)
	return b
}

// offset32 returns entry #i of an array of Offset32 records.
func (a array) offset32(i int) (uint32, bool) {
	if a.recordSize != 4 {
		return 0, false
	}
	rec := a.Get(i)
	if rec == nil {
		return 0, false
	}
	return u32(rec), true
}
