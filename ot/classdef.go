package ot

// --- Class definition tables -----------------------------------------------

// ClassDefinitions groups glyphs into classes, denoted as integer values.
//
// From the OpenType specification:
// For efficiency and ease of representation, a font developer can group glyph indices
// to form glyph classes. Class assignments vary in meaning from one lookup subtable
// to another. For example, in the GSUB and GPOS tables, classes are used to describe
// glyph contexts. GDEF tables also use the idea of glyph classes.
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#class-definition-table)
//
// ClassDefinitions is a view onto the bytes of a class definition table and is
// decoded lazily, on lookup. Any glyph not explicitly assigned a class falls
// into class 0. This includes every glyph of a table with an unknown format or
// with truncated data.
type ClassDefinitions struct {
	data binarySegm
}

const (
	classDefFmt1RecSize = 2 // class value
	classDefFmt2RecSize = 6 // start glyph ID, end glyph ID, class
)

func viewClassDefinitions(b binarySegm) ClassDefinitions {
	return ClassDefinitions{data: b}
}

// Format returns the format of the class definition table, 1 or 2, or 0 if
// the table is empty.
func (cdef ClassDefinitions) Format() uint16 {
	return cdef.data.U16(0)
}

// Lookup returns the class defined for a glyph, or 0 (= default class).
func (cdef ClassDefinitions) Lookup(glyph GlyphIndex) int {
	switch cdef.Format() {
	case 1:
		return cdef.lookupFormat1(glyph)
	case 2:
		return cdef.lookupFormat2(glyph)
	}
	return 0
}

// Class returns the class defined for a glyph, or 0 (= default class).
func (cdef ClassDefinitions) Class(glyph GlyphIndex) int {
	return cdef.Lookup(glyph)
}

// Format 1: startGlyphID, glyphCount, classValueArray[glyphCount]
func (cdef ClassDefinitions) lookupFormat1(glyph GlyphIndex) int {
	start, err := cdef.data.u16(2)
	if err != nil || glyph < GlyphIndex(start) {
		return 0
	}
	values, err := parseArray(cdef.data, 4, classDefFmt1RecSize, "ClassValueArray")
	if err != nil {
		return 0
	}
	inx := int(glyph - GlyphIndex(start))
	if inx >= values.Len() {
		return 0
	}
	return int(u16(values.Get(inx)))
}

// Format 2: classRangeCount, classRangeRecords[classRangeCount],
// ordered by startGlyphID.
func (cdef ClassDefinitions) lookupFormat2(glyph GlyphIndex) int {
	ranges, err := parseArray(cdef.data, 2, classDefFmt2RecSize, "ClassRangeRecords")
	if err != nil {
		return 0
	}
	lo, hi := 0, ranges.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		rec := ranges.Get(mid)
		switch {
		case glyph < GlyphIndex(rec.U16(0)):
			hi = mid
		case glyph > GlyphIndex(rec.U16(2)):
			lo = mid + 1
		default:
			return int(rec.U16(4))
		}
	}
	return 0
}
