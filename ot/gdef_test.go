package ot

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func putU16(b []byte, at int, v uint16) {
	binary.BigEndian.PutUint16(b[at:at+2], v)
}

func putU32(b []byte, at int, v uint32) {
	binary.BigEndian.PutUint32(b[at:at+4], v)
}

func coverageFmt1(glyphs ...uint16) []byte {
	out := make([]byte, 4+len(glyphs)*2)
	putU16(out, 0, 1)
	putU16(out, 2, uint16(len(glyphs)))
	for i, g := range glyphs {
		putU16(out, 4+i*2, g)
	}
	return out
}

// coverageFmt2 expects triples of (start glyph, end glyph, start coverage index).
func coverageFmt2(ranges ...uint16) []byte {
	n := len(ranges) / 3
	out := make([]byte, 4+n*6)
	putU16(out, 0, 2)
	putU16(out, 2, uint16(n))
	for i, v := range ranges[:n*3] {
		putU16(out, 4+i*2, v)
	}
	return out
}

func classDefFmt1(start uint16, classes ...uint16) []byte {
	out := make([]byte, 6+len(classes)*2)
	putU16(out, 0, 1)
	putU16(out, 2, start)
	putU16(out, 4, uint16(len(classes)))
	for i, clz := range classes {
		putU16(out, 6+i*2, clz)
	}
	return out
}

// classDefFmt2 expects triples of (start glyph, end glyph, class).
func classDefFmt2(ranges ...uint16) []byte {
	n := len(ranges) / 3
	out := make([]byte, 4+n*6)
	putU16(out, 0, 2)
	putU16(out, 2, uint16(n))
	for i, v := range ranges[:n*3] {
		putU16(out, 4+i*2, v)
	}
	return out
}

// gdefBytes assembles a GDEF table. Sub-tables given as nil are left out
// (NULL offset). Mark glyph sets are written only for versions above 1.0.
// It returns the table and the offset of the MarkGlyphSets sub-table (0 if
// not written).
func gdefBytes(version uint32, glyphClasses, markAttach []byte, sets ...[]byte) ([]byte, int) {
	hlen := 12
	switch version {
	case gdefVersion1_2:
		hlen = 14
	case gdefVersion1_3:
		hlen = 18
	}
	b := make([]byte, hlen)
	putU32(b, 0, version)
	if glyphClasses != nil {
		putU16(b, gdefGlyphClassDefField, uint16(len(b)))
		b = append(b, glyphClasses...)
	}
	if markAttach != nil {
		putU16(b, gdefMarkAttachClassDefField, uint16(len(b)))
		b = append(b, markAttach...)
	}
	mgs := 0
	if sets != nil && hlen > 12 {
		mgs = len(b)
		putU16(b, gdefMarkGlyphSetsDefField, uint16(mgs))
		sub := make([]byte, 4+4*len(sets))
		putU16(sub, 0, 1)
		putU16(sub, 2, uint16(len(sets)))
		for i, cov := range sets {
			putU32(sub, 4+4*i, uint32(len(sub)))
			sub = append(sub, cov...)
		}
		b = append(b, sub...)
	}
	return b, mgs
}

// scenarioGDef is GDEF 1.2 with glyph classes {10→Base, 11→Mark}, without
// mark attachment classes, and with mark glyph sets {5} and {7}.
func scenarioGDef() ([]byte, int) {
	return gdefBytes(gdefVersion1_2, classDefFmt1(10, 1, 3), nil, coverageFmt1(5), coverageFmt1(7))
}

// --- Tests -----------------------------------------------------------------

func TestGDefUnrecognizedVersion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	valid, _ := scenarioGDef()
	for _, v := range []uint32{0, 0x00010001, 0x00010004, 0x00020000, 0x00000001, 0xffffffff} {
		b := make([]byte, len(valid))
		copy(b, valid)
		putU32(b, 0, v)
		if gdef := ParseGDef(b); gdef != nil {
			t.Errorf("expected GDEF with version %#08x to be absent", v)
		}
	}
	for _, b := range [][]byte{nil, {}, {0, 1, 0}} {
		if gdef := ParseGDef(b); gdef != nil {
			t.Errorf("expected GDEF of %d bytes to be absent", len(b))
		}
	}
}

func TestGDefRecognizedVersions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, v := range []uint32{gdefVersion1_0, gdefVersion1_2, gdefVersion1_3} {
		b, _ := gdefBytes(v, classDefFmt1(1, 3), nil)
		gdef := ParseGDef(b)
		if gdef == nil {
			t.Fatalf("expected GDEF version %#08x to be recognized", v)
		}
		major, minor := gdef.Header().Version()
		if uint32(major)<<16|uint32(minor) != v {
			t.Errorf("expected header version %#08x, have %d.%d", v, major, minor)
		}
		if clz, ok := gdef.GlyphClass(1); !ok || clz != MarkGlyph {
			t.Errorf("expected glyph 1 to be a mark glyph for version %#08x", v)
		}
	}
}

func TestGDefVersion10DoesNotReadMarkGlyphSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// header of exactly 12 bytes: nothing to read beyond
	b, _ := gdefBytes(gdefVersion1_0, nil, nil)
	if len(b) != 12 {
		t.Fatalf("test setup: expected 12 header bytes, have %d", len(b))
	}
	gdef := ParseGDef(b)
	if gdef == nil {
		t.Fatalf("expected a 12-byte GDEF 1.0 table to be present")
	}
	if gdef.HasMarkGlyphSets() || gdef.Header().MarkGlyphSetsDefOffset.IsSome() {
		t.Errorf("expected GDEF 1.0 to have no mark glyph sets")
	}
	// a 1.2 table relabeled as 1.0 must not pick up its mark glyph sets
	b, _ = scenarioGDef()
	putU32(b, 0, gdefVersion1_0)
	gdef = ParseGDef(b)
	if gdef == nil {
		t.Fatalf("expected GDEF 1.0 table to be present")
	}
	if gdef.HasMarkGlyphSets() {
		t.Errorf("expected field at offset 12 to be ignored for GDEF 1.0")
	}
	if gdef.IsMarkGlyph(5, None[uint16]()) {
		t.Errorf("expected no mark glyphs for GDEF 1.0")
	}
}

func TestGDefTruncatedHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, _ := gdefBytes(gdefVersion1_0, nil, nil)
	if gdef := ParseGDef(b[:11]); gdef != nil {
		t.Errorf("expected truncated GDEF 1.0 header to make table absent")
	}
	b, _ = gdefBytes(gdefVersion1_2, nil, nil)
	if gdef := ParseGDef(b[:13]); gdef != nil {
		t.Errorf("expected truncated GDEF 1.2 header to make table absent")
	}
}

func TestGDefGlyphClassRawValues(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, _ := gdefBytes(gdefVersion1_0, classDefFmt1(0, 0, 1, 2, 3, 4, 5, 0xffff), nil)
	gdef := ParseGDef(b)
	if gdef == nil || !gdef.HasGlyphClasses() {
		t.Fatalf("expected GDEF with glyph classes")
	}
	expected := map[GlyphIndex]GlyphClassDefEnum{
		1: BaseGlyph, 2: LigatureGlyph, 3: MarkGlyph, 4: ComponentGlyph,
	}
	for g := GlyphIndex(0); g < 10; g++ {
		clz, ok := gdef.GlyphClass(g)
		want, isClass := expected[g]
		if ok != isClass || clz != want {
			t.Errorf("glyph %d: expected (%v, %v), have (%v, %v)", g, want, isClass, clz, ok)
		}
	}
	if _, ok := gdef.GlyphClass(0xffff); ok {
		t.Errorf("expected glyph 0xffff to have no class")
	}
}

func TestGDefMarkAttachmentClassDefault(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	var none *GDefTable
	if clz := none.MarkAttachmentClass(1); clz != 0 {
		t.Errorf("expected class 0 for absent GDEF, have %d", clz)
	}
	b, _ := gdefBytes(gdefVersion1_0, classDefFmt1(1, 3), nil)
	gdef := ParseGDef(b)
	if gdef.HasMarkAttachmentClasses() {
		t.Fatalf("expected no mark attachment classes")
	}
	if clz := gdef.MarkAttachmentClass(1); clz != 0 {
		t.Errorf("expected class 0 for absent sub-table, have %d", clz)
	}
	b, _ = gdefBytes(gdefVersion1_0, nil, classDefFmt2(20, 29, 2, 40, 40, 0x1234))
	gdef = ParseGDef(b)
	if !gdef.HasMarkAttachmentClasses() {
		t.Fatalf("expected mark attachment classes")
	}
	for _, tc := range []struct {
		g   GlyphIndex
		clz Class
	}{
		{19, 0}, {20, 2}, {25, 2}, {29, 2}, {30, 0}, {40, 0x1234}, {41, 0}, {0xffff, 0},
	} {
		if clz := gdef.MarkAttachmentClass(tc.g); clz != tc.clz {
			t.Errorf("glyph %d: expected mark attachment class %d, have %d", tc.g, tc.clz, clz)
		}
	}
}

func TestGDefScenario(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, _ := scenarioGDef()
	gdef := ParseGDef(b)
	if gdef == nil {
		t.Fatalf("expected GDEF to be present")
	}
	if clz, ok := gdef.GlyphClass(10); !ok || clz != BaseGlyph {
		t.Errorf("expected glyph 10 to be Base, have %v/%v", clz, ok)
	}
	if clz, ok := gdef.GlyphClass(11); !ok || clz != MarkGlyph {
		t.Errorf("expected glyph 11 to be Mark, have %v/%v", clz, ok)
	}
	if _, ok := gdef.GlyphClass(99); ok {
		t.Errorf("expected glyph 99 to have no class")
	}
	if clz := gdef.MarkAttachmentClass(10); clz != 0 {
		t.Errorf("expected mark attachment class 0 for glyph 10, have %d", clz)
	}
	if gdef.MarkGlyphSetCount() != 2 {
		t.Errorf("expected 2 mark glyph sets, have %d", gdef.MarkGlyphSetCount())
	}
	if !gdef.IsMarkGlyph(5, None[uint16]()) {
		t.Errorf("expected glyph 5 to be in a mark glyph set")
	}
	if gdef.IsMarkGlyph(7, Some[uint16](0)) {
		t.Errorf("expected glyph 7 not to be in mark glyph set 0")
	}
	if !gdef.IsMarkGlyph(7, Some[uint16](1)) {
		t.Errorf("expected glyph 7 to be in mark glyph set 1")
	}
	if gdef.IsMarkGlyph(9, None[uint16]()) {
		t.Errorf("expected glyph 9 not to be in any mark glyph set")
	}
	for _, k := range []uint16{2, 3, 0xffff} {
		if gdef.IsMarkGlyph(5, Some(k)) || gdef.IsMarkGlyph(7, Some(k)) {
			t.Errorf("expected set index %d out of range to report false", k)
		}
	}
}

func TestGDefScanStopsAtCorruptSet(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, mgs := scenarioGDef()
	putU32(b, mgs+4, 0x7fff) // set 0 points outside of the table
	gdef := ParseGDef(b)
	if gdef == nil || !gdef.HasMarkGlyphSets() {
		t.Fatalf("expected GDEF with mark glyph sets")
	}
	if gdef.IsMarkGlyph(7, None[uint16]()) {
		t.Errorf("expected scan to abort at corrupt set 0")
	}
	if !gdef.IsMarkGlyph(7, Some[uint16](1)) {
		t.Errorf("expected indexed query for set 1 to find glyph 7")
	}
	if gdef.IsMarkGlyph(5, Some[uint16](0)) {
		t.Errorf("expected indexed query for corrupt set 0 to report false")
	}
	// corrupt set in the middle: earlier sets still match
	b, mgs = gdefBytes(gdefVersion1_2, nil, nil, coverageFmt1(5), coverageFmt1(6), coverageFmt1(7))
	putU32(b, mgs+4+4, 0) // set 1 has a NULL offset
	gdef = ParseGDef(b)
	if !gdef.IsMarkGlyph(5, None[uint16]()) {
		t.Errorf("expected glyph 5 to be found in set 0 before the corrupt set")
	}
	if gdef.IsMarkGlyph(7, None[uint16]()) {
		t.Errorf("expected glyph 7 in set 2 to be unreachable by scan")
	}
	if !gdef.IsMarkGlyph(7, Some[uint16](2)) {
		t.Errorf("expected glyph 7 to be found in set 2 by index")
	}
}

func TestGDefUnresolvableOffsets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, _ := gdefBytes(gdefVersion1_2, classDefFmt1(10, 1), classDefFmt1(10, 7), coverageFmt1(5))
	putU16(b, gdefGlyphClassDefField, uint16(len(b)+1))
	ec := &errorCollector{}
	gdef := parseGDef(T("GDEF"), b, 0, ec)
	if gdef == nil {
		t.Fatalf("expected GDEF to be present")
	}
	if gdef.HasGlyphClasses() {
		t.Errorf("expected out of bounds glyph class definitions to be absent")
	}
	if _, ok := gdef.GlyphClass(10); ok {
		t.Errorf("expected no glyph class for glyph 10")
	}
	if clz := gdef.MarkAttachmentClass(10); clz != 7 {
		t.Errorf("expected mark attachment classes to survive, have class %d", clz)
	}
	if !gdef.IsMarkGlyph(5, None[uint16]()) {
		t.Errorf("expected mark glyph sets to survive")
	}
	if !ec.hasWarnings() || len(ec.warnings) != 1 {
		t.Errorf("expected 1 warning, have %v", ec.warnings)
	}
	// offset == length resolves to an empty sub-table
	putU16(b, gdefGlyphClassDefField, uint16(len(b)))
	gdef = ParseGDef(b)
	if !gdef.HasGlyphClasses() {
		t.Errorf("expected glyph class definitions at end of table to be present")
	}
	if _, ok := gdef.GlyphClass(10); ok {
		t.Errorf("expected empty glyph class definitions to define no class")
	}
	// mark glyph sets out of bounds
	putU16(b, gdefMarkGlyphSetsDefField, 0xfff0)
	gdef = ParseGDef(b)
	if gdef.HasMarkGlyphSets() || gdef.IsMarkGlyph(5, None[uint16]()) {
		t.Errorf("expected out of bounds mark glyph sets to be absent")
	}
}

func TestGDefMarkGlyphSetsFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, mgs := scenarioGDef()
	putU16(b, mgs, 2)
	ec := &errorCollector{}
	gdef := parseGDef(T("GDEF"), b, 0, ec)
	if gdef == nil {
		t.Fatalf("expected GDEF to be present")
	}
	if gdef.HasMarkGlyphSets() || gdef.MarkGlyphSetCount() != 0 {
		t.Errorf("expected mark glyph sets of format 2 to be absent")
	}
	if gdef.IsMarkGlyph(5, None[uint16]()) || gdef.IsMarkGlyph(7, Some[uint16](1)) {
		t.Errorf("expected no mark glyphs for unsupported format")
	}
	if !gdef.HasGlyphClasses() {
		t.Errorf("expected glyph classes to be unaffected by mark glyph sets format")
	}
	if len(ec.warnings) != 1 {
		t.Errorf("expected a warning for unsupported format, have %v", ec.warnings)
	}
	// count claiming more offsets than present
	b, mgs = scenarioGDef()
	putU16(b, mgs+2, 100)
	if gdef := ParseGDef(b); gdef == nil || gdef.HasMarkGlyphSets() {
		t.Errorf("expected truncated coverage offsets to make mark glyph sets absent")
	}
	// mark glyph sets starting at the very end of the table
	b, _ = gdefBytes(gdefVersion1_2, nil, nil)
	putU16(b, gdefMarkGlyphSetsDefField, uint16(len(b)))
	if gdef := ParseGDef(b); gdef == nil || gdef.HasMarkGlyphSets() {
		t.Errorf("expected unreadable format to make mark glyph sets absent")
	}
}

func TestGDefNilTable(t *testing.T) {
	var gdef *GDefTable
	if gdef.HasGlyphClasses() || gdef.HasMarkAttachmentClasses() || gdef.HasMarkGlyphSets() {
		t.Errorf("expected nil GDEF to have no sub-tables")
	}
	if _, ok := gdef.GlyphClass(1); ok {
		t.Errorf("expected nil GDEF to have no glyph classes")
	}
	if gdef.IsMarkGlyph(1, None[uint16]()) || gdef.IsMarkGlyph(1, Some[uint16](0)) {
		t.Errorf("expected nil GDEF to have no mark glyphs")
	}
	if gdef.MarkGlyphSetCount() != 0 {
		t.Errorf("expected nil GDEF to have no mark glyph sets")
	}
}

func TestGDefQueriesDoNotAllocate(t *testing.T) {
	b, _ := scenarioGDef()
	gdef := ParseGDef(b)
	allocs := testing.AllocsPerRun(100, func() {
		gdef.GlyphClass(11)
		gdef.MarkAttachmentClass(11)
		gdef.IsMarkGlyph(7, None[uint16]())
		gdef.IsMarkGlyph(7, Some[uint16](1))
	})
	if allocs != 0 {
		t.Errorf("expected queries not to allocate, have %v allocations", allocs)
	}
}

func TestGDefConcurrentQueries(t *testing.T) {
	b, _ := scenarioGDef()
	gdef := ParseGDef(b)
	var wg sync.WaitGroup
	errs := make(chan GlyphIndex, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if clz, ok := gdef.GlyphClass(11); !ok || clz != MarkGlyph {
					errs <- 11
					return
				}
				if !gdef.IsMarkGlyph(7, None[uint16]()) {
					errs <- 7
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for g := range errs {
		t.Errorf("concurrent query for glyph %d failed", g)
	}
}

func TestGDefParseIsIdempotent(t *testing.T) {
	b, _ := scenarioGDef()
	first, second := ParseGDef(b), ParseGDef(b)
	for g := GlyphIndex(0); g < 20; g++ {
		c1, ok1 := first.GlyphClass(g)
		c2, ok2 := second.GlyphClass(g)
		if c1 != c2 || ok1 != ok2 {
			t.Errorf("glyph %d: parses disagree on glyph class", g)
		}
		if first.IsMarkGlyph(g, None[uint16]()) != second.IsMarkGlyph(g, None[uint16]()) {
			t.Errorf("glyph %d: parses disagree on mark glyph sets", g)
		}
	}
}

func TestGlyphClassString(t *testing.T) {
	if MarkGlyph.String() != "Mark" {
		t.Errorf("expected MarkGlyph to print as 'Mark', is %s", MarkGlyph)
	}
	if s := GlyphClassDefEnum(0).String(); s != "GlyphClass(0)" {
		t.Errorf("expected class 0 to print as 'GlyphClass(0)', is %s", s)
	}
}

func TestGDefZeroCoverageOffset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, mgs := scenarioGDef()
	putU32(b, mgs+4, 0) // set 0 has offset 0
	gdef := ParseGDef(b)
	if gdef.IsMarkGlyph(7, None[uint16]()) {
		t.Errorf("expected scan to stop at set 0 with offset 0")
	}
	if gdef.IsMarkGlyph(0, Some[uint16](0)) {
		t.Errorf("expected set with offset 0 to contain no glyphs")
	}
	if !gdef.IsMarkGlyph(7, Some[uint16](1)) {
		t.Errorf("expected set 1 to be reachable by index")
	}
}
