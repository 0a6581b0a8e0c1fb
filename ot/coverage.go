package ot

// --- Coverage table module -------------------------------------------------

// Coverage denotes an indexed set of glyphs.
// The GSUB, GPOS, and GDEF tables rely on this notion of coverage. GDEF uses
// coverage tables to define mark glyph sets.
//
// A Coverage is a view onto the bytes of a coverage table. It is decoded on
// demand, when a glyph is looked up. Coverage tables come in two formats:
// format 1 lists glyph IDs, format 2 lists ranges of glyph IDs. Both are
// sorted by glyph ID, allowing binary search. A coverage table with an
// unknown format or truncated data covers no glyph at all.
type Coverage struct {
	format uint16
	count  int
	data   binarySegm // records, following the 4-byte header
}

const (
	coverageHeaderSize  = 4
	coverageFmt1RecSize = 2 // glyph ID
	coverageFmt2RecSize = 6 // start glyph ID, end glyph ID, start coverage index
)

// parseCoverage creates a view onto a coverage table. It does not fail;
// broken data results in an empty coverage.
func parseCoverage(b binarySegm) Coverage {
	format, err := b.u16(0)
	if err != nil {
		return Coverage{}
	}
	var recsize int
	switch format {
	case 1:
		recsize = coverageFmt1RecSize
	case 2:
		recsize = coverageFmt2RecSize
	default:
		return Coverage{}
	}
	recs, err := parseArray(b, 2, recsize, "Coverage")
	if err != nil {
		return Coverage{}
	}
	return Coverage{format: format, count: recs.Len(), data: recs.loc}
}

// Match returns the Coverage Index for a glyph, and true if present.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	switch c.format {
	case 1:
		return c.matchGlyphArray(g)
	case 2:
		return c.matchRangeRecords(g)
	}
	return 0, false
}

// Contains reports whether a glyph is present in the coverage.
func (c Coverage) Contains(g GlyphIndex) bool {
	_, ok := c.Match(g)
	return ok
}

// Len returns the number of records of the coverage table, i.e. glyphs for
// format 1 and glyph ranges for format 2.
func (c Coverage) Len() int {
	return c.count
}

func (c Coverage) matchGlyphArray(g GlyphIndex) (int, bool) {
	lo, hi := 0, c.count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		k := GlyphIndex(c.data.U16(mid * coverageFmt1RecSize))
		switch {
		case k < g:
			lo = mid + 1
		case k > g:
			hi = mid
		default:
			return mid, true
		}
	}
	return 0, false
}

func (c Coverage) matchRangeRecords(g GlyphIndex) (int, bool) {
	lo, hi := 0, c.count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		rec := mid * coverageFmt2RecSize
		from := GlyphIndex(c.data.U16(rec))
		to := GlyphIndex(c.data.U16(rec + 2))
		switch {
		case g < from:
			hi = mid
		case g > to:
			lo = mid + 1
		default:
			index := int(c.data.U16(rec + 4))
			return index + int(g-from), true
		}
	}
	return 0, false
}
