/*
Command otcli is an interactive inspector for OpenType fonts.

Usage:

	otcli -font path/to/font.ttf [-trace Info] [-history file]

Commands are entered at the prompt, several of them separated by blanks.
Arguments follow a command, separated by colons, e.g.

	table:GSUB scripts:latn lookups:3
	map:A glyph:36 save:/tmp/out.ttf

Enter "help" for a list of commands.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/fonttools"
	"github.com/npillmayer/fonttools/ot"
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
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font to inspect")
	history := flag.String("history", "", "File to keep the command history in")
	flag.Parse()
	if err := setupTracing(*tlevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	initDisplay()
	pterm.Info.Println("Welcome to the OpenType font inspector")
	//
	otf, err := fonttools.Open(*fontname)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	pterm.Printf("font tables: %v\n", otf.TableTags())
	if n := len(otf.Errors()) + len(otf.Warnings()); n > 0 {
		pterm.Warning.Printf("font has %d diagnostics, see command 'diag'\n", n)
	}
	repl, err := readline.NewEx(&readline.Config{
		Prompt:      "ot > ",
		HistoryFile: *history,
	})
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(3)
	}
	defer repl.Close()
	pterm.Info.Println("Quit with <ctrl>D")
	intp := &Intp{font: otf, repl: repl}
	intp.REPL()
}

// setupTracing routes tracing output to the Go log package.
func setupTracing(level string) error {
	switch level {
	case "Debug", "Info", "Error":
	default:
		return fmt.Errorf("invalid trace level: %s", level)
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":     "go",
		"trace.tyse.fonts":    level,
		"trace.font.opentype": level,
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return fmt.Errorf("configuring tracing: %w", err)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	switch level {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	default:
		tracer().SetTraceLevel(tracing.LevelError)
	}
	return nil
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
	font   *ot.Font
	repl   *readline.Instance
	table  ot.Table // current table
	script ot.Tag   // current script of a layout table, 0 if none
}

func (intp *Intp) String() string {
	if intp == nil || intp.table == nil {
		return "()"
	}
	s := fmt.Sprintf("( table=%s )", intp.table.Self().NameTag())
	if intp.script != 0 {
		s += fmt.Sprintf(" -> script %s", intp.script)
	}
	return s
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		quit, err := intp.runLine(line)
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

func (intp *Intp) runLine(line string) (bool, error) {
	if line = strings.TrimSpace(line); line == "" {
		return false, nil
	}
	cmd, err := parseCommand(line)
	if err != nil {
		return false, err
	}
	return intp.execute(cmd)
}
