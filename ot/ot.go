package ot

import "slices"

// Font represents the internal structure of an OpenType font, as far as it
// is needed to answer glyph definition queries during text shaping.
//
// A Font holds views into the font's binary data. The binary must stay
// unchanged and alive as long as the Font is in use.
type Font struct {
	Header        *FontHeader
	tables        map[Tag]Table
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
	Layout        struct {      // OpenType layout tables
		GDef *GDefTable // OpenType layout GDEF; nil if absent or unusable
	}
}

// FontHeader is a directory of the top-level tables in a font. If the font file
// contains only one font, the table directory will begin at byte 0 of the file.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Only the GDEF table is interpreted. For every other table of the font
// a generic table is returned, giving access to the table's bytes.
//
//	gdef := otf.Table(ot.T("GDEF")).Self().AsGDef()
func (otf *Font) Table(tag Tag) Table {
	if otf == nil {
		return nil
	}
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// sorted by tag value.
func (otf *Font) TableTags() []Tag {
	if otf == nil {
		return nil
	}
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Errors returns the errors encountered during font parsing which did not
// prevent the font from being usable, e.g. duplicate table records.
func (otf *Font) Errors() []FontError {
	if otf == nil || otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
// A GDEF sub-table dropped because of malformed data will show up here.
func (otf *Font) Warnings() []FontWarning {
	if otf == nil || otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// --- GDEF shortcuts --------------------------------------------------------

func (otf *Font) gdef() *GDefTable {
	if otf == nil {
		return nil
	}
	return otf.Layout.GDef
}

// HasGlyphClasses checks if the font has a glyph class definition table.
func (otf *Font) HasGlyphClasses() bool {
	return otf.gdef().HasGlyphClasses()
}

// GlyphClass returns the glyph class of glyph g, if the font defines one.
// See GDefTable.GlyphClass.
func (otf *Font) GlyphClass(g GlyphIndex) (GlyphClassDefEnum, bool) {
	return otf.gdef().GlyphClass(g)
}

// GlyphMarkAttachmentClass returns the mark attachment class of glyph g.
// All glyphs not assigned to a class fall into class 0.
func (otf *Font) GlyphMarkAttachmentClass(g GlyphIndex) Class {
	return otf.gdef().MarkAttachmentClass(g)
}

// IsMarkGlyph checks if glyph g is contained in a mark glyph set. If set is
// None, all mark glyph sets are checked. See GDefTable.IsMarkGlyph.
func (otf *Font) IsMarkGlyph(g GlyphIndex, set Option[uint16]) bool {
	return otf.gdef().IsMarkGlyph(g, set)
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by OpenType as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Required Tables, according to the OpenType specification:
// 'cmap' (Character to glyph mapping), 'head' (Font header), 'hhea' (Horizontal header),
// 'hmtx' (Horizontal metrics), 'maxp' (Maximum profile), 'name' (Naming table),
// 'OS/2' (OS/2 and Windows specific metrics), 'post' (PostScript information).
//
// Of the Advanced Typographic Tables, only 'GDEF' (Glyph definition data) is
// interpreted by this package.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treatet as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treatet as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsGDef returns this table as a GDEF table, or nil.
func (tself TableSelf) AsGDef() *GDefTable {
	if g, ok := safeSelf(tself).(*GDefTable); ok {
		return g
	}
	return nil
}
