package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otgdef"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.tyse.fonts":    "Info",
		"trace.font.opentype": "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to load")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError)         // will set the correct level later
	pterm.Info.Println("Welcome to OpenType GDEF CLI") // colored welcome message
	//
	// set up REPL
	repl, err := readline.New("gdef > ")
	if err != nil {
		tracer().Errorf("%v", err)
		os.Exit(3)
	}
	intp := &Intp{repl: repl}
	//
	// load font to use
	if err := intp.loadFont(*fontname); err != nil { // font name provided by flag
		tracer().Errorf("%v", err)
		os.Exit(4)
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	level := tracing.LevelInfo
	switch *tlevel {
	case "Debug":
		level = tracing.LevelDebug
	case "Info":
	case "Error":
		level = tracing.LevelError
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().SetTraceLevel(level)
	tracing.Select("font.opentype").SetTraceLevel(level)
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL() // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object
type Intp struct {
	font *otgdef.ScalableFont
	repl *readline.Instance
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single operation of a command line, e.g. "mark:42:1".
type Op struct {
	code int
	args []string
}

const (
	QUIT int = iota
	HELP
	INFO
	CLASS
	ATTACH
	MARK
	GLYPH
	SKIP
)

var opMap = map[string]int{
	"quit":   QUIT,
	"help":   HELP,
	"info":   INFO,
	"class":  CLASS,
	"attach": ATTACH,
	"mark":   MARK,
	"glyph":  GLYPH,
	"skip":   SKIP,
}

var opNames = []string{
	"quit",
	"help",
	"info",
	"class",
	"attach",
	"mark",
	"glyph",
	"skip",
}

// parseCommand splits a command line into operations. Operations are
// separated by blanks, arguments of an operation by colons.
func parseCommand(line string) ([]Op, error) {
	steps := strings.Fields(line)
	cmd := make([]Op, 0, len(steps))
	for _, step := range steps {
		c := strings.Split(step, ":") // e.g.  "class:42" or "mark:42:1" or "help:mark"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			return nil, fmt.Errorf("unknown command: %s", c[0])
		}
		tracer().Debugf("parsed command: %s %v", opNames[code], c[1:])
		cmd = append(cmd, Op{code: code, args: c[1:]})
		if code == QUIT {
			break
		}
	}
	return cmd, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:   quitOp,
	HELP:   helpOp,
	INFO:   infoOp,
	CLASS:  classOp,
	ATTACH: attachOp,
	MARK:   markOp,
	GLYPH:  glyphOp,
	SKIP:   skipOp,
}

func (intp *Intp) execute(cmd []Op) (err error, stop bool) {
	for _, c := range cmd {
		f, ok := commandFn[c.code]
		if !ok {
			return fmt.Errorf("unknown command code: %d", c.code), false
		}
		if err, stop = f(intp, &c); err != nil || stop {
			return
		}
	}
	return
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// --- Font Loading -----------------------------------------------------

func (intp *Intp) loadFont(fontname string) (err error) {
	if fontname == "" {
		return errors.New("no font given; use flag -font")
	}
	if intp.font, err = otgdef.LoadOpenTypeFont(fontname); err != nil {
		return fmt.Errorf("cannot load font %s: %w", fontname, err)
	}
	tracer().Infof("loaded font = %s", intp.font.Fontname)
	pterm.Printf("font tables: %v\n", intp.font.OT.TableTags())
	for _, w := range intp.font.OT.Warnings() {
		pterm.Warning.Println(w.String())
	}
	return nil
}

// ----------------------------------------------------------------------

func (op *Op) arg(inx int) (string, bool) {
	if len(op.args) > inx && op.args[inx] != "" {
		return op.args[inx], true
	}
	return "", false
}
