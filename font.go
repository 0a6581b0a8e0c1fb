/*
Package otgdef reads the glyph definitions of OpenType fonts.

Text shapers need to know, for every glyph of a font, whether it is a base
glyph, a ligature, a mark or a ligature component, to which mark attachment
class a mark belongs, and which sets of marks a lookup may filter on. OpenType
fonts carry this information in table GDEF.

Package otgdef loads font files. Sub-package ot reads the table directory of
a font and resolves its GDEF table; otquery and otlayout offer queries on top
of it.

# Status

Does not contain methods for font collections (*.ttc).

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otgdef

import (
	"os"

	"github.com/npillmayer/otgdef/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

// ScalableFont is an internal representation of an outline-font of type
// TTF of OTF.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container, for names and character mapping
	OT       *ot.Font   // the font's table directory and glyph definitions
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF or OTF) from memory.
// fbytes must not be changed as long as the font is in use.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err == nil {
		tracer().Debugf("loaded and parsed SFNT %s", f.Fontname)
	}
	if f.OT, err = ot.Parse(f.Binary); err != nil {
		return nil, err
	}
	for _, w := range f.OT.Warnings() {
		tracer().Infof("font %s: %s", f.Fontname, w)
	}
	return f, nil
}

// GlyphIndex returns the glyph of a font for a code-point, or 0 (.notdef)
// if the font does not map r.
func (f *ScalableFont) GlyphIndex(r rune) ot.GlyphIndex {
	if f == nil || f.SFNT == nil {
		return 0
	}
	var buf sfnt.Buffer
	g, err := f.SFNT.GlyphIndex(&buf, r)
	if err != nil {
		return 0
	}
	return ot.GlyphIndex(g)
}

// GlyphName returns the PostScript name of glyph g, if the font has one.
func (f *ScalableFont) GlyphName(g ot.GlyphIndex) string {
	if f == nil || f.SFNT == nil {
		return ""
	}
	var buf sfnt.Buffer
	name, err := f.SFNT.GlyphName(&buf, sfnt.GlyphIndex(g))
	if err != nil {
		return ""
	}
	return name
}
