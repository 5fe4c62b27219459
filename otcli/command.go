package main

import (
	"fmt"
	"strings"
)

type Op struct {
	code   int
	arg    string
	format string
}

type Command struct {
	op []Op
}

const (
	// op-code QUIT will not have arguments
	QUIT int = iota
	// op-codes below may have arguments
	HELP
	TABLE
	LIST
	PRINT
	MAP
	NAMES
	GLYPH
	SCRIPTS
	FEATURES
	LOOKUPS
	DIAG
	SAVE
)

var opNames = []string{
	"quit",
	"help",
	"table",
	"list",
	"print",
	"map",
	"names",
	"glyph",
	"scripts",
	"features",
	"lookups",
	"diag",
	"save",
}

var opMap = func() map[string]int {
	m := make(map[string]int, len(opNames))
	for code, name := range opNames {
		m[name] = code
	}
	return m
}()

// parseCommand splits a line into ops, e.g. "table:GSUB scripts:latn".
// Unknown op names are an error; everything after "quit" is ignored.
func parseCommand(line string) (*Command, error) {
	cmd := &Command{}
	for _, step := range strings.Fields(line) {
		c := strings.Split(step, ":") // e.g.  "scripts:latn" or "glyph:5" or "help:lang"
		code, ok := opMap[strings.ToLower(c[0])]
		if !ok {
			return nil, fmt.Errorf("unknown command %q, try 'help'", c[0])
		}
		op := Op{code: code, arg: getOptArg(c, 1), format: getOptArg(c, 2)}
		cmd.op = append(cmd.op, op)
		if code == QUIT {
			break
		}
		if op.arg == "" {
			tracer().Debugf("%s", opNames[code])
		} else {
			tracer().Debugf("%s: looking for '%s'", opNames[code], op.arg)
		}
	}
	return cmd, nil
}

var commandFn map[int]func(*Intp, *Op) (bool, error)

func init() {
	commandFn = map[int]func(*Intp, *Op) (bool, error){
		QUIT:     quitOp,
		HELP:     helpOp,
		TABLE:    tableOp,
		LIST:     listOp,
		PRINT:    printOp,
		MAP:      mapOp,
		NAMES:    namesOp,
		GLYPH:    glyphOp,
		SCRIPTS:  scriptsOp,
		FEATURES: featuresOp,
		LOOKUPS:  lookupsOp,
		DIAG:     diagOp,
		SAVE:     saveOp,
	}
}

// execute runs the ops of a command in sequence, stopping at the first error.
func (intp *Intp) execute(cmd *Command) (stop bool, err error) {
	tracer().Debugf("cmd = %v", cmd.op)
	for i := range cmd.op {
		c := &cmd.op[i]
		f, ok := commandFn[c.code]
		if !ok {
			return false, fmt.Errorf("unknown command code: %d", c.code)
		}
		if stop, err = f(intp, c); err != nil || stop {
			return
		}
	}
	return
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
