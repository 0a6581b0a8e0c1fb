package ot

import "fmt"

// --- GDEF table ------------------------------------------------------------

// GDefTable, the Glyph Definition (GDEF) table, provides various glyph properties
// used in OpenType Layout processing.
//
// A GDefTable is resolved once from the bytes of a GDEF table and holds
// views into these bytes only. Each of the sub-tables used for shaping is
// either present and resolved or absent; a sub-table whose offset is NULL,
// points outside of the table, or has an unsupported format, is absent.
// All query methods accept a nil receiver, which behaves like a GDEF table
// without any sub-tables.
//
// See also
// https://docs.microsoft.com/en-us/typography/opentype/spec/gdef
type GDefTable struct {
	tableBase
	header            GDefHeader
	glyphClasses      Option[ClassDefinitions]
	markAttachClasses Option[ClassDefinitions]
	markGlyphSets     Option[markGlyphSets]
}

// markGlyphSets holds the MarkGlyphSets sub-table: its bytes and the array
// of Offset32 entries to the coverage tables, which are relative to the
// start of the sub-table.
type markGlyphSets struct {
	base      binarySegm
	coverages array
}

// GDEF versions recognized by this package. Tables with a different version
// are ignored altogether.
const (
	gdefVersion1_0 uint32 = 0x00010000
	gdefVersion1_2 uint32 = 0x00010002
	gdefVersion1_3 uint32 = 0x00010003
)

// Header returns the Glyph Definition header for t.
func (t *GDefTable) Header() GDefHeader {
	if t == nil {
		return GDefHeader{}
	}
	return t.header
}

// GDefHeader contains general information for a Glyph Definition table (GDEF).
type GDefHeader struct {
	versionHeader
	GlyphClassDefOffset      Option[int]
	MarkAttachClassDefOffset Option[int]
	MarkGlyphSetsDefOffset   Option[int] // GDEF 1.2 and above
}

// Version returns major and minor version numbers for this GDef table.
func (h GDefHeader) Version() (int, int) {
	return int(h.Major), int(h.Minor)
}

// versionHeader is the beginning of on-disk format of some format headers.
// See https://docs.microsoft.com/en-us/typography/opentype/spec/gdef#gdef-header
type versionHeader struct {
	Major uint16
	Minor uint16
}

// Sections of a GDEF table.
const (
	GDefGlyphClassDefSection    = "GlyphClassDef"
	GDefAttachListSection       = "AttachList"
	GDefLigCaretListSection     = "LigCaretList"
	GDefMarkAttachClassSection  = "MarkAttachClassDef"
	GDefMarkGlyphSetsDefSection = "MarkGlyphSetsDef"
	GDefItemVarStoreSection     = "ItemVarStore"
)

// Byte positions of the fields of a GDEF header.
const (
	gdefGlyphClassDefField      = 4
	gdefAttachListField         = 6 // skipped
	gdefLigCaretListField       = 8 // skipped
	gdefMarkAttachClassDefField = 10
	gdefMarkGlyphSetsDefField   = 12 // version 1.2 and above
)

// --- Glyph classes ---------------------------------------------------------

// GlyphClassDefEnum lists the glyph classes of the glyph class definition
// table of GDEF. Raw class values outside of this enumeration (including 0)
// do not denote a glyph class.
type GlyphClassDefEnum uint16

const (
	BaseGlyph      GlyphClassDefEnum = 1 // single character, spacing glyph
	LigatureGlyph  GlyphClassDefEnum = 2 // multiple character, spacing glyph
	MarkGlyph      GlyphClassDefEnum = 3 // non-spacing combining glyph
	ComponentGlyph GlyphClassDefEnum = 4 // part of single character, spacing glyph
)

func (c GlyphClassDefEnum) String() string {
	switch c {
	case BaseGlyph:
		return "Base"
	case LigatureGlyph:
		return "Ligature"
	case MarkGlyph:
		return "Mark"
	case ComponentGlyph:
		return "Component"
	}
	return fmt.Sprintf("GlyphClass(%d)", uint16(c))
}

// Class is a mark attachment class. Class 0 is the default for glyphs not
// assigned to any class.
type Class uint16

// --- Parsing ---------------------------------------------------------------

// ParseGDef resolves a GDEF table from its bytes. b has to start at the
// first byte of the GDEF table.
//
// If b does not start with a GDEF version header we know of (1.0, 1.2 or
// 1.3), nil is returned: the font is treated as having no GDEF table.
// Otherwise ParseGDef will never fail, but drop sub-tables it is unable to
// resolve.
func ParseGDef(b []byte) *GDefTable {
	return parseGDef(T("GDEF"), b, 0, nil)
}

// parseGDef resolves a GDEF table at offset within the font. Sub-tables
// which cannot be resolved are reported to ec as warnings.
func parseGDef(tag Tag, b binarySegm, offset uint32, ec *errorCollector) *GDefTable {
	version, err := b.u32(0)
	if err != nil || !(version == gdefVersion1_0 || version == gdefVersion1_2 || version == gdefVersion1_3) {
		tracer().Infof("GDEF table has unsupported version %#08x, ignoring it", version)
		ec.addWarning(tag, fmt.Sprintf("unsupported GDEF version %#08x, table ignored", version), offset)
		return nil
	}
	h := GDefHeader{versionHeader: versionHeader{
		Major: uint16(version >> 16),
		Minor: uint16(version),
	}}
	if h.GlyphClassDefOffset, err = b.offset16(gdefGlyphClassDefField); err != nil {
		return gdefHeaderTruncated(tag, offset, ec)
	}
	// We do not parse the Attachment List or the Ligature Caret List
	// (used for text editing/cursor positioning).
	if h.MarkAttachClassDefOffset, err = b.offset16(gdefMarkAttachClassDefField); err != nil {
		return gdefHeaderTruncated(tag, offset, ec)
	}
	if version > gdefVersion1_0 {
		if h.MarkGlyphSetsDefOffset, err = b.offset16(gdefMarkGlyphSetsDefField); err != nil {
			return gdefHeaderTruncated(tag, offset, ec)
		}
		// We do not read the Item Variation Store offset of GDEF 1.3
		// (variable fonts only).
	}
	gdef := &GDefTable{
		tableBase: tableBase{
			data:   b,
			name:   tag,
			offset: offset,
			length: uint32(len(b)),
		},
		header: h,
	}
	gdef.self = gdef
	gdef.glyphClasses = resolveClassDefinitions(b, h.GlyphClassDefOffset, GDefGlyphClassDefSection, tag, offset, ec)
	gdef.markAttachClasses = resolveClassDefinitions(b, h.MarkAttachClassDefOffset, GDefMarkAttachClassSection, tag, offset, ec)
	gdef.markGlyphSets = resolveMarkGlyphSets(b, h.MarkGlyphSetsDefOffset, tag, offset, ec)
	tracer().Debugf("GDEF table has version %d.%d", h.Major, h.Minor)
	return gdef
}

func gdefHeaderTruncated(tag Tag, offset uint32, ec *errorCollector) *GDefTable {
	tracer().Infof("GDEF header truncated, ignoring table")
	ec.addWarning(tag, "GDEF header truncated, table ignored", offset)
	return nil
}

// resolveClassDefinitions creates a view onto a class definition sub-table.
// Decoding of the sub-table is deferred until the first lookup.
func resolveClassDefinitions(b binarySegm, link Option[int], section string, tag Tag, offset uint32,
	ec *errorCollector) Option[ClassDefinitions] {
	//
	off, ok := link.Unwrap()
	if !ok {
		return None[ClassDefinitions]()
	}
	sub, err := b.from(off)
	if err != nil {
		tracer().Infof("GDEF %s offset %d out of bounds", section, off)
		ec.addWarning(tag, fmt.Sprintf("%s offset %d out of bounds, sub-table ignored", section, off), offset)
		return None[ClassDefinitions]()
	}
	return Some(viewClassDefinitions(sub))
}

// Mark glyph sets are defined in a MarkGlyphSets table, which contains offsets to
// individual sets each represented by a standard Coverage table.
//
//	uint16    format                      Format identifier == 1
//	uint16    markGlyphSetCount           Number of mark glyph sets defined
//	Offset32  coverageOffsets[markGlyphSetCount]
//	                                      Array of offsets to mark glyph set coverage tables,
//	                                      from the start of the MarkGlyphSets table.
func resolveMarkGlyphSets(b binarySegm, link Option[int], tag Tag, offset uint32,
	ec *errorCollector) Option[markGlyphSets] {
	//
	off, ok := link.Unwrap()
	if !ok {
		return None[markGlyphSets]()
	}
	warn := func(issue string) Option[markGlyphSets] {
		tracer().Infof("GDEF %s: %s", GDefMarkGlyphSetsDefSection, issue)
		ec.addWarning(tag, fmt.Sprintf("%s: %s, sub-table ignored", GDefMarkGlyphSetsDefSection, issue),
			offset+uint32(off))
		return None[markGlyphSets]()
	}
	sub, err := b.from(off)
	if err != nil {
		return warn(fmt.Sprintf("offset %d out of bounds", off))
	}
	format, err := sub.u16(0)
	if err != nil {
		return warn("format unreadable")
	}
	if format != 1 {
		return warn(fmt.Sprintf("unsupported format %d", format))
	}
	coverages, err := parseArray(sub, 2, 4, "MarkGlyphSetsCoverages")
	if err != nil {
		return warn("coverage offsets truncated")
	}
	tracer().Debugf("GDEF has %d mark glyph sets", coverages.Len())
	return Some(markGlyphSets{base: sub, coverages: coverages})
}

// --- Queries ---------------------------------------------------------------

// HasGlyphClasses checks if the GDEF table has a glyph class definition table.
func (t *GDefTable) HasGlyphClasses() bool {
	return t != nil && t.glyphClasses.IsSome()
}

// HasMarkAttachmentClasses checks if the GDEF table has a mark attachment
// class definition table.
func (t *GDefTable) HasMarkAttachmentClasses() bool {
	return t != nil && t.markAttachClasses.IsSome()
}

// HasMarkGlyphSets checks if the GDEF table has a (usable) mark glyph sets table.
func (t *GDefTable) HasMarkGlyphSets() bool {
	return t != nil && t.markGlyphSets.IsSome()
}

// MarkGlyphSetCount returns the number of mark glyph sets, or 0 if the table
// does not have mark glyph sets.
func (t *GDefTable) MarkGlyphSetCount() int {
	if t == nil {
		return 0
	}
	sets, ok := t.markGlyphSets.Unwrap()
	if !ok {
		return 0
	}
	return sets.coverages.Len()
}

// GlyphClass returns the class of a glyph according to the glyph class
// definition table. If the table does not define a class for g, or if
// the class value is not one of the four glyph classes of GlyphClassDefEnum,
// false is returned.
func (t *GDefTable) GlyphClass(g GlyphIndex) (GlyphClassDefEnum, bool) {
	if t == nil {
		return 0, false
	}
	cdef, ok := t.glyphClasses.Unwrap()
	if !ok {
		return 0, false
	}
	switch clz := GlyphClassDefEnum(cdef.Lookup(g)); clz {
	case BaseGlyph, LigatureGlyph, MarkGlyph, ComponentGlyph:
		return clz, true
	}
	return 0, false
}

// MarkAttachmentClass returns the mark attachment class of a glyph according
// to the mark attachment class definition table. All glyphs not assigned to a
// class fall into class 0, as do all glyphs of fonts without such a table.
func (t *GDefTable) MarkAttachmentClass(g GlyphIndex) Class {
	if t == nil {
		return 0
	}
	cdef, ok := t.markAttachClasses.Unwrap()
	if !ok {
		return 0
	}
	return Class(cdef.Lookup(g))
}

// IsMarkGlyph checks if a glyph is contained in a mark glyph set.
//
// If set holds an index, only the mark glyph set with this index is checked;
// an index out of range results in false. Otherwise all sets are checked in
// order, until one of them contains g. A set with a NULL coverage offset or
// one pointing outside of the MarkGlyphSets table stops this scan, and IsMarkGlyph reports
// false even if g were contained in one of the sets following it.
//
// Returns false if the GDEF table does not have mark glyph sets.
func (t *GDefTable) IsMarkGlyph(g GlyphIndex, set Option[uint16]) bool {
	if t == nil {
		return false
	}
	sets, ok := t.markGlyphSets.Unwrap()
	if !ok {
		return false
	}
	if inx, ok := set.Unwrap(); ok {
		cov, ok := sets.coverage(int(inx))
		return ok && cov.Contains(g)
	}
	for i := 0; i < sets.coverages.Len(); i++ {
		cov, ok := sets.coverage(i)
		if !ok {
			return false
		}
		if cov.Contains(g) {
			return true
		}
	}
	return false
}

// coverage resolves mark glyph set #i to its coverage table. An offset of 0
// does not resolve, although Offset32 fields of MarkGlyphSets are not
// declared nullable: 0 would point at the sub-table's own format field,
// which is never a coverage table. A scan of all sets therefore stops at a
// set with offset 0.
func (sets markGlyphSets) coverage(i int) (Coverage, bool) {
	off, ok := sets.coverages.offset32(i)
	if !ok || off == 0 || uint64(off) > uint64(len(sets.base)) {
		return Coverage{}, false
	}
	return parseCoverage(sets.base[off:]), true
}
