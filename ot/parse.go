package ot

import (
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Maximum reasonable counts for OpenType table structures.
// These limits prevent malicious fonts from claiming unreasonably large counts.
const (
	MaxTableCount = 256 // Tables in the table directory: typically < 30
)

// Sizes of the parts of the table directory.
const (
	offsetTableSize = 12 // sfntVersion, numTables, searchRange, entrySelector, rangeShift
	tableRecordSize = 16 // tag, checksum, offset, length
)

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
//
// Parse returns an error if the font's table directory is unreadable; the
// error wraps a FontError. Problems with single table records which leave
// the rest of the directory usable are not fatal: the record is skipped and
// a FontError is recorded, see Font.Errors. A broken
// GDEF table never is an error: it is reported as a warning, and the font
// behaves as if it had no GDEF table (or as if it lacked the broken parts).
func Parse(font []byte) (*Font, error) {
	b := binarySegm(font)
	ec := &errorCollector{}
	h, err := parseFontHeader(b, ec)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	otf := &Font{Header: h, tables: make(map[Tag]Table, h.TableCount)}
	for i := 0; i < int(h.TableCount); i++ {
		rec, _ := b.view(offsetTableSize+i*tableRecordSize, tableRecordSize)
		tag := Tag(u32(rec))
		offset, size := u32(rec[8:]), u32(rec[12:])
		end, err := checkedAddUint32(offset, size)
		if err != nil || uint64(end) > uint64(len(b)) {
			ec.addError(tag, "Directory", fmt.Sprintf("table extends beyond font data (%d+%d > %d)",
				offset, size, len(b)), SeverityCritical, offset)
			return nil, ec.fatal()
		}
		if _, dup := otf.tables[tag]; dup {
			ec.addError(tag, "Directory", "duplicate table record, using first one", SeverityMinor, offset)
			continue
		}
		if size == 0 {
			ec.addError(tag, "Directory", "table has zero length, ignored", SeverityMajor, offset)
			continue
		}
		tracer().Debugf("table %s at offset %d with size %d", tag, offset, size)
		otf.tables[tag] = parseTable(tag, b[offset:end], offset, size, ec)
	}
	if gdef := otf.tables[T("GDEF")]; gdef != nil {
		otf.Layout.GDef = gdef.Self().AsGDef()
	}
	if ec.hasErrors() {
		tracer().Infof("font has %d directory errors", len(ec.errors))
	}
	if ec.hasWarnings() {
		tracer().Infof("font has %d parse warnings", len(ec.warnings))
	}
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	return otf, nil
}

// parseFontHeader reads the offset table at the start of a font.
// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
func parseFontHeader(b binarySegm, ec *errorCollector) (*FontHeader, error) {
	if len(b) < offsetTableSize {
		ec.addError(T(""), "Header", "font data too short for an offset table", SeverityCritical, 0)
		return nil, ec.fatal()
	}
	h := &FontHeader{FontType: b.U32(0), TableCount: b.U16(4)}
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		ec.addError(T(""), "Header", fmt.Sprintf("font type not supported: %x", h.FontType), SeverityCritical, 0)
		return nil, ec.fatal()
	}
	if h.TableCount > MaxTableCount {
		ec.addError(T(""), "Header", fmt.Sprintf("table count %d exceeds limit", h.TableCount), SeverityCritical, 4)
		return nil, ec.fatal()
	}
	if len(b) < offsetTableSize+int(h.TableCount)*tableRecordSize {
		ec.addError(T(""), "Directory", "table records truncated", SeverityCritical, offsetTableSize)
		return nil, ec.fatal()
	}
	return h, nil
}

// parseTable creates a table for a table record of the directory. GDEF
// tables are resolved, every other table is kept as a generic table.
func parseTable(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) Table {
	switch tag {
	case T("GDEF"):
		if gdef := parseGDef(tag, b, offset, ec); gdef != nil {
			return gdef
		}
	}
	return newTable(tag, b, offset, size)
}
