package otlayout

import (
	"encoding/binary"
	"testing"

	"github.com/npillmayer/otgdef/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u16s(vals ...uint16) []byte {
	var b []byte
	for _, v := range vals {
		b = binary.BigEndian.AppendUint16(b, v)
	}
	return b
}

// testGDef builds a GDEF 1.2 table:
//
//	glyph classes     1–9 base, 10 ligature, 20–29 mark, 30 component
//	mark attachment   20–24 class 1, 25–29 class 2
//	mark glyph sets   #0 = {20, 21}, #1 = {25}
func testGDef(t *testing.T) *ot.GDefTable {
	glyphClasses := u16s(2, 4, 1, 9, 1, 10, 10, 2, 20, 29, 3, 30, 30, 4)
	markAttach := u16s(2, 2, 20, 24, 1, 25, 29, 2)
	set0, set1 := u16s(1, 2, 20, 21), u16s(1, 1, 25)
	mgs := u16s(1, 2)
	mgs = binary.BigEndian.AppendUint32(mgs, 12)
	mgs = binary.BigEndian.AppendUint32(mgs, uint32(12+len(set0)))
	mgs = append(append(mgs, set0...), set1...)
	//
	gcOff := 14
	maOff := gcOff + len(glyphClasses)
	mgsOff := maOff + len(markAttach)
	b := binary.BigEndian.AppendUint32(nil, 0x00010002)
	b = append(b, u16s(uint16(gcOff), 0, 0, uint16(maOff), uint16(mgsOff))...)
	b = append(append(append(b, glyphClasses...), markAttach...), mgs...)
	gdef := ot.ParseGDef(b)
	require.NotNil(t, gdef, "test GDEF table must parse")
	return gdef
}

func TestSkipGlyphByClass(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	gdef := testGDef(t)
	assert.True(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS, 0, 5))
	assert.False(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS, 0, 10))
	assert.True(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_LIGATURES, 0, 10))
	assert.True(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_MARKS, 0, 22))
	assert.False(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_MARKS, 0, 30), "components are never skipped")
	assert.False(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_IGNORE_MARKS, 0, 100), "unclassified glyphs are never skipped")
	assert.False(t, SkipGlyph(gdef, ot.LOOKUP_FLAG_RIGHT_TO_LEFT, 0, 22))
}

func TestSkipGlyphMarkFilteringSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	gdef := testGDef(t)
	flag := ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET
	assert.False(t, SkipGlyph(gdef, flag, 0, 20))
	assert.True(t, SkipGlyph(gdef, flag, 0, 25))
	assert.False(t, SkipGlyph(gdef, flag, 1, 25))
	assert.True(t, SkipGlyph(gdef, flag, 7, 25), "set index out of range contains no glyphs")
	assert.False(t, SkipGlyph(gdef, flag, 1, 5), "base glyphs are not filtered by mark sets")
}

func TestSkipGlyphMarkAttachmentType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	gdef := testGDef(t)
	flag := ot.LayoutTableLookupFlag(0x0200) // attachment type 2
	assert.True(t, SkipGlyph(gdef, flag, 0, 22))
	assert.False(t, SkipGlyph(gdef, flag, 0, 27))
	assert.False(t, SkipGlyph(gdef, flag, 0, 3))
}

func TestSkipGlyphWithoutGDef(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	all := ot.LayoutTableLookupFlag(0xff1e)
	for _, g := range []ot.GlyphIndex{0, 5, 10, 22, 30} {
		assert.False(t, SkipGlyph(nil, all, 0, g))
	}
}

func TestMatchable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	gdef := testGDef(t)
	buf := GlyphSlice{5, 20, 21, 10, 22, 6}
	l := Lookup{Flag: ot.LOOKUP_FLAG_IGNORE_MARKS}
	pos, ok := NextMatchable(gdef, l, buf, 1)
	assert.True(t, ok)
	assert.Equal(t, 3, pos)
	pos, ok = PrevMatchable(gdef, l, buf, 2)
	assert.True(t, ok)
	assert.Equal(t, 0, pos)
	pos, ok = PrevMatchable(gdef, l, buf, 99)
	assert.True(t, ok)
	assert.Equal(t, 5, pos)
	_, ok = NextMatchable(gdef, l, GlyphSlice{20, 21, 22}, 0)
	assert.False(t, ok)
	//
	l = Lookup{Flag: ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS | ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET, MarkFilteringSet: 0}
	pos, ok = NextMatchable(gdef, l, buf, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, pos)
	pos, ok = NextMatchable(gdef, l, buf, 3)
	assert.True(t, ok)
	assert.Equal(t, 3, pos, "ligature is not skipped")
	_, ok = NextMatchable(gdef, l, buf, 4)
	assert.False(t, ok, "mark 22 is not in set 0, glyph 6 is a base glyph")
}

func TestCheckLookups(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	gdef := testGDef(t)
	assert.NoError(t, CheckLookups(gdef,
		Lookup{Flag: ot.LOOKUP_FLAG_IGNORE_MARKS},
		Lookup{Flag: 0x0100},
		Lookup{Flag: ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET, MarkFilteringSet: 1}))
	assert.Error(t, CheckLookups(gdef,
		Lookup{Flag: ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET, MarkFilteringSet: 2}))
	assert.NoError(t, CheckLookups(nil, Lookup{Flag: ot.LOOKUP_FLAG_RIGHT_TO_LEFT}))
	err := CheckLookups(nil, Lookup{Flag: ot.LOOKUP_FLAG_IGNORE_LIGATURES})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), ot.GDefGlyphClassDefSection)
	}
}
