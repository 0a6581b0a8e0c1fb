package otlayout

import "github.com/npillmayer/otgdef/ot"

// GlyphBuffer is a read-only sequence of glyph IDs, as seen by lookup matching.
//
// Indices are zero-based in the range [0, Len()). Out-of-range indices are
// programmer errors and may panic.
type GlyphBuffer interface {
	// Len returns the number of glyphs in the buffer.
	Len() int
	// At returns the glyph at index i.
	At(i int) ot.GlyphIndex
}

// GlyphSlice is the default GlyphBuffer implementation backed by a slice.
type GlyphSlice []ot.GlyphIndex

func (b GlyphSlice) Len() int {
	return len(b)
}

func (b GlyphSlice) At(i int) ot.GlyphIndex {
	return b[i]
}
