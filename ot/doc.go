/*
Package ot provides access to the Glyph Definition table (GDEF) of OpenType fonts.

Intended audience for this package are text shapers, which need to know for
every glyph of a run what kind of glyph it is:

▪︎ the glyph class (base glyph, ligature, mark or component),

▪︎ the mark attachment class of a mark glyph,

▪︎ membership of a glyph in one of the font's mark glyph sets.

Package `ot` keeps the font binary in memory and does not copy data out of it.
A GDefTable is a set of views into the font's bytes, resolved once when the
font is parsed. Queries against it do not allocate and do not fail: a font in
the wild will often contain partially broken or version-mismatched GDEF tables,
and shaping has to go on with whatever information is left. Every malformed
part of a GDEF table therefore collapses to "not present", a glyph class
lookup to "no class", a mark glyph set lookup to false and a mark attachment
lookup to class 0.

The bytes handed to Parse (or ParseGDef) must not be changed or released while
a Font (or GDefTable) referencing them is in use. As all tables are immutable
after parsing, concurrent queries from multiple goroutines are safe.

We do not parse the attachment point list, the ligature caret list or the item
variation store of a GDEF table. Clients needing these will have to consult
the table's binary themselves.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
