package main

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/npillmayer/otgdef/ot"
	"github.com/npillmayer/otgdef/otlayout"
	"github.com/npillmayer/otgdef/otquery"
	"github.com/pterm/pterm"
)

var errNoGlyph = errors.New("glyph ID argument missing")

func infoOp(intp *Intp, op *Op) (error, bool) {
	info := otquery.GDefInfo(intp.font.OT)
	if !info.Present {
		pterm.Printf("font %s has no usable GDEF table (%d warnings)\n", intp.font.Fontname, info.Warnings)
		return nil, false
	}
	data := [][]string{
		{"Property", "Value"},
		{"Version", fmt.Sprintf("%d.%d", info.Major, info.Minor)},
		{"Glyph classes", yesno(info.GlyphClasses)},
		{"Mark attachment classes", yesno(info.MarkAttachmentClasses)},
		{"Mark glyph sets", fmt.Sprintf("%s (%d)", yesno(info.MarkGlyphSets), info.MarkGlyphSetCount)},
		{"Warnings", strconv.Itoa(info.Warnings)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func classOp(intp *Intp, op *Op) (error, bool) {
	g, err := glyphArg(op, 0)
	if err != nil {
		return err, false
	}
	pterm.Printf("glyph %d: class %s\n", g, className(intp.font.OT, g))
	return nil, false
}

func attachOp(intp *Intp, op *Op) (error, bool) {
	g, err := glyphArg(op, 0)
	if err != nil {
		return err, false
	}
	pterm.Printf("glyph %d: mark attachment class %d\n", g, otquery.MarkAttachmentClass(intp.font.OT, g))
	return nil, false
}

func markOp(intp *Intp, op *Op) (error, bool) {
	g, err := glyphArg(op, 0)
	if err != nil {
		return err, false
	}
	set := ot.None[uint16]()
	if s, ok := op.arg(1); ok {
		n, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return fmt.Errorf("mark glyph set index not numeric: %v", s), false
		}
		set = ot.Some(uint16(n))
	}
	in := otquery.IsMarkGlyph(intp.font.OT, g, set)
	if n, ok := set.Unwrap(); ok {
		pterm.Printf("glyph %d in mark glyph set %d: %v\n", g, n, in)
	} else {
		pterm.Printf("glyph %d in a mark glyph set: %v\n", g, in)
	}
	return nil, false
}

func glyphOp(intp *Intp, op *Op) (error, bool) {
	s, ok := op.arg(0)
	if !ok {
		return errors.New("character argument missing"), false
	}
	r, _ := utf8.DecodeRuneInString(s)
	g := intp.font.GlyphIndex(r)
	if g == 0 {
		return fmt.Errorf("font has no glyph for %q", r), false
	}
	info := otquery.GlyphDefinition(intp.font.OT, g)
	data := [][]string{
		{"Property", "Value"},
		{"Character", fmt.Sprintf("%q U+%04X", r, r)},
		{"Glyph", fmt.Sprintf("%d %s", g, intp.font.GlyphName(g))},
		{"Class", className(intp.font.OT, g)},
		{"Mark attachment class", strconv.Itoa(int(info.MarkAttachClass))},
		{"Mark glyph sets", fmt.Sprintf("%v", info.MarkGlyphSets)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func skipOp(intp *Intp, op *Op) (error, bool) {
	g, err := glyphArg(op, 0)
	if err != nil {
		return err, false
	}
	s, ok := op.arg(1)
	if !ok {
		return errors.New("lookup flag argument missing"), false
	}
	flag, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return fmt.Errorf("lookup flag not numeric: %v", s), false
	}
	lookup := otlayout.Lookup{Flag: ot.LayoutTableLookupFlag(flag)}
	if s, ok := op.arg(2); ok {
		set, err := strconv.ParseUint(s, 0, 16)
		if err != nil {
			return fmt.Errorf("mark filtering set not numeric: %v", s), false
		}
		lookup.MarkFilteringSet = uint16(set)
	}
	gdef := intp.font.OT.Layout.GDef
	if err := otlayout.CheckLookups(gdef, lookup); err != nil {
		pterm.Warning.Println(err)
	}
	pterm.Printf("glyph %d skipped by lookup flag %#04x: %v\n", g, lookup.Flag, lookup.Skip(gdef, g))
	return nil, false
}

// ----------------------------------------------------------------------

func glyphArg(op *Op, inx int) (ot.GlyphIndex, error) {
	s, ok := op.arg(inx)
	if !ok {
		return 0, errNoGlyph
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("glyph ID not numeric: %v", s)
	}
	return ot.GlyphIndex(n), nil
}

func className(otf *ot.Font, g ot.GlyphIndex) string {
	if clz, ok := otquery.GlyphClass(otf, g); ok {
		return clz.String()
	}
	return "none"
}

func yesno(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
