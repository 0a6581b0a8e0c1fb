package otlayout

import (
	"fmt"

	"github.com/npillmayer/otgdef/ot"
)

// Lookup is the part of a GSUB or GPOS lookup relevant for glyph filtering:
// its flag and, if the flag says so, its mark filtering set.
type Lookup struct {
	Flag             ot.LayoutTableLookupFlag
	MarkFilteringSet uint16 // valid if Flag has LOOKUP_FLAG_USE_MARK_FILTERING_SET
}

// SkipGlyph applies lookup flags to decide whether to skip a glyph while
// matching the input of a lookup.
//
// Base glyphs, ligatures and marks are skipped if the flag says so. Marks
// which survive these tests are filtered further: with
// LOOKUP_FLAG_USE_MARK_FILTERING_SET set, a mark not contained in mark glyph
// set markFilteringSet is skipped; with a mark attachment type in the upper
// byte of the flag, a mark of a different attachment class is skipped.
//
// Without a GDEF table, no glyph is skipped.
func SkipGlyph(gdef *ot.GDefTable, flag ot.LayoutTableLookupFlag, markFilteringSet uint16, g ot.GlyphIndex) bool {
	if gdef == nil {
		return false
	}
	class, ok := gdef.GlyphClass(g)
	if !ok {
		return false
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_BASE_GLYPHS != 0 && class == ot.BaseGlyph {
		return true
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_LIGATURES != 0 && class == ot.LigatureGlyph {
		return true
	}
	if flag&ot.LOOKUP_FLAG_IGNORE_MARKS != 0 && class == ot.MarkGlyph {
		return true
	}
	if class == ot.MarkGlyph {
		if flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 {
			if !gdef.IsMarkGlyph(g, ot.Some(markFilteringSet)) {
				return true
			}
		}
		if matype := flag.MarkAttachmentType(); matype != 0 {
			if gdef.MarkAttachmentClass(g) != matype {
				return true
			}
		}
	}
	return false
}

// Skip applies SkipGlyph with the lookup's flag and mark filtering set.
func (l Lookup) Skip(gdef *ot.GDefTable, g ot.GlyphIndex) bool {
	return SkipGlyph(gdef, l.Flag, l.MarkFilteringSet, g)
}

// NextMatchable returns the first position at or after pos holding a glyph
// which lookup l does not skip.
func NextMatchable(gdef *ot.GDefTable, l Lookup, buf GlyphBuffer, pos int) (int, bool) {
	if pos < 0 {
		pos = 0
	}
	for i := pos; i < buf.Len(); i++ {
		if !l.Skip(gdef, buf.At(i)) {
			return i, true
		}
	}
	return 0, false
}

// PrevMatchable returns the last position at or before pos holding a glyph
// which lookup l does not skip.
func PrevMatchable(gdef *ot.GDefTable, l Lookup, buf GlyphBuffer, pos int) (int, bool) {
	if pos >= buf.Len() {
		pos = buf.Len() - 1
	}
	for i := pos; i >= 0; i-- {
		if !l.Skip(gdef, buf.At(i)) {
			return i, true
		}
	}
	return 0, false
}

// CheckLookups verifies that a font's GDEF table provides the sub-tables
// the flags of a set of lookups depend on. Without them, SkipGlyph will
// not skip glyphs the font designer intended to be skipped.
func CheckLookups(gdef *ot.GDefTable, lookups ...Lookup) error {
	var req ot.LayoutRequirements
	for _, l := range lookups {
		req.AddFromLookupFlag(l.Flag)
		if l.Flag&ot.LOOKUP_FLAG_USE_MARK_FILTERING_SET != 0 &&
			int(l.MarkFilteringSet) >= gdef.MarkGlyphSetCount() && gdef.HasMarkGlyphSets() {
			tracer().Infof("lookup references mark filtering set %d of %d",
				l.MarkFilteringSet, gdef.MarkGlyphSetCount())
			return errFontFormat(fmt.Sprintf("mark filtering set %d out of range", l.MarkFilteringSet))
		}
	}
	if !req.SatisfiedBy(gdef) {
		tracer().Infof("GDEF table does not satisfy lookup requirements %+v", req)
		return errFontFormat(fmt.Sprintf("GDEF lacks sub-tables required by lookup flags: %s", missing(req, gdef)))
	}
	return nil
}

func missing(req ot.LayoutRequirements, gdef *ot.GDefTable) string {
	switch {
	case req.NeedGlyphClassDef && !gdef.HasGlyphClasses():
		return ot.GDefGlyphClassDefSection
	case req.NeedMarkAttachClassDef && !gdef.HasMarkAttachmentClasses():
		return ot.GDefMarkAttachClassSection
	}
	return ot.GDefMarkGlyphSetsDefSection
}
