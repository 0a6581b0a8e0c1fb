/*
Package otquery queries glyph definition data of OpenType fonts.

The functions of this package accept fonts without a (usable) GDEF table,
as well as nil fonts, and answer with the defaults OpenType prescribes for
fonts without glyph definitions.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/otgdef/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

// HasGlyphClasses checks if a font has a glyph class definition table.
func HasGlyphClasses(otf *ot.Font) bool {
	return otf.HasGlyphClasses()
}

// GlyphClass returns the glyph class of glyph g, if the font defines one.
func GlyphClass(otf *ot.Font, g ot.GlyphIndex) (ot.GlyphClassDefEnum, bool) {
	return otf.GlyphClass(g)
}

// MarkAttachmentClass returns the mark attachment class of glyph g, with
// class 0 for glyphs not assigned to any class.
func MarkAttachmentClass(otf *ot.Font, g ot.GlyphIndex) ot.Class {
	return otf.GlyphMarkAttachmentClass(g)
}

// IsMarkGlyph checks if glyph g is contained in mark glyph set #set or, with
// set being None, in any of the mark glyph sets of a font. See
// ot.GDefTable.IsMarkGlyph for the treatment of unresolvable sets.
func IsMarkGlyph(otf *ot.Font, g ot.GlyphIndex, set ot.Option[uint16]) bool {
	return otf.IsMarkGlyph(g, set)
}

// IsInMarkGlyphSet checks if glyph g is contained in mark glyph set #set.
func IsInMarkGlyphSet(otf *ot.Font, g ot.GlyphIndex, set uint16) bool {
	return otf.IsMarkGlyph(g, ot.Some(set))
}

// GlyphInfo collects the glyph definition data of a single glyph.
type GlyphInfo struct {
	Glyph           ot.GlyphIndex
	Class           ot.GlyphClassDefEnum // 0 if HasClass is false
	HasClass        bool
	MarkAttachClass ot.Class
	MarkGlyphSets   []int // indexes of the mark glyph sets containing the glyph
}

// GlyphDefinition returns the glyph definition data for glyph g.
//
// Membership in mark glyph sets is determined set by set, thus a set which
// cannot be resolved does not hide the sets following it.
func GlyphDefinition(otf *ot.Font, g ot.GlyphIndex) GlyphInfo {
	info := GlyphInfo{
		Glyph:           g,
		MarkAttachClass: otf.GlyphMarkAttachmentClass(g),
	}
	info.Class, info.HasClass = otf.GlyphClass(g)
	if otf == nil || otf.Layout.GDef == nil {
		return info
	}
	n := otf.Layout.GDef.MarkGlyphSetCount()
	for i := 0; i < n; i++ {
		if otf.IsMarkGlyph(g, ot.Some(uint16(i))) {
			info.MarkGlyphSets = append(info.MarkGlyphSets, i)
		}
	}
	return info
}

// GDefSummary describes the GDEF table of a font.
type GDefSummary struct {
	Present               bool // font has a usable GDEF table
	Major, Minor          int  // version of the GDEF table
	GlyphClasses          bool // glyph class definition table present
	MarkAttachmentClasses bool // mark attachment class definition table present
	MarkGlyphSets         bool // mark glyph sets table present
	MarkGlyphSetCount     int
	Warnings              int // number of GDEF related parse warnings
}

// GDefInfo summarizes the GDEF table of a font.
func GDefInfo(otf *ot.Font) GDefSummary {
	var summary GDefSummary
	for _, w := range otf.Warnings() {
		if w.Table == ot.T("GDEF") {
			summary.Warnings++
		}
	}
	if otf == nil || otf.Layout.GDef == nil {
		tracer().Debugf("font has no usable GDEF table")
		return summary
	}
	gdef := otf.Layout.GDef
	summary.Present = true
	summary.Major, summary.Minor = gdef.Header().Version()
	summary.GlyphClasses = gdef.HasGlyphClasses()
	summary.MarkAttachmentClasses = gdef.HasMarkAttachmentClasses()
	summary.MarkGlyphSets = gdef.HasMarkGlyphSets()
	summary.MarkGlyphSetCount = gdef.MarkGlyphSetCount()
	return summary
}
