/*
Package otlayout applies OpenType lookup flags to glyph sequences.

Lookups of GSUB and GPOS tables carry a flag, telling a shaper which glyphs
to ignore while matching the lookup's input. Deciding this requires the
glyph class, the mark attachment class and the mark glyph sets of the font's
GDEF table. Package otlayout wraps these GDEF queries into the skip decision
and into helpers to step over ignored glyphs in a glyph buffer.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otlayout

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// errFontFormat produces user level errors for font parsing.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s", message)
}

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
