package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic, _ := op.arg(0)
	help(topic)
	return nil, false
}

func help(topic string) {
	tracer().Debugf("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "class", "classes":
		pterm.Info.Println("GlyphClassDef")
		pterm.Println(`
	class:<gid>   prints the glyph class of glyph <gid>.
	Glyph classes are
	+---+-----------+-------------------------------------+
	| 1 | Base      | single character, spacing glyph     |
	| 2 | Ligature  | multiple character, spacing glyph   |
	| 3 | Mark      | non-spacing combining glyph         |
	| 4 | Component | part of single character, spacing   |
	+---+-----------+-------------------------------------+
	Glyphs without a class (or with any other class value) are unclassified.
	`)
	case "attach", "attachment":
		pterm.Info.Println("MarkAttachClassDef")
		pterm.Println(`
	attach:<gid>   prints the mark attachment class of glyph <gid>.
	Glyphs not assigned to a class are in class 0.
	`)
	case "mark", "marks", "sets":
		pterm.Info.Println("MarkGlyphSetsDef")
		pterm.Println(`
	mark:<gid>         checks if glyph <gid> is in any mark glyph set.
	                   Sets are scanned in order; an unresolvable set stops the scan.
	mark:<gid>:<set>   checks if glyph <gid> is in mark glyph set <set>.
	`)
	case "skip", "flag", "flags":
		pterm.Info.Println("Lookup flags")
		pterm.Println(`
	skip:<gid>:<flag>[:<set>]   checks if a lookup with flag <flag> (e.g. 0x0008)
	                            and mark filtering set <set> skips glyph <gid>.
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	info                  summary of the font's GDEF table
	class:<gid>           glyph class
	attach:<gid>          mark attachment class
	mark:<gid>[:<set>]    mark glyph set membership
	glyph:<char>          all glyph definitions for the glyph of a character
	skip:<gid>:<flag>     lookup flag filtering
	help[:<topic>]        help on class, attach, mark or skip
	quit                  leave (or <ctrl>D)
	Glyph IDs may be given as decimal or hex (0x...) numbers.
	`)
	}
}
