package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (bool, error) {
	help(op.arg)
	return false, nil
}

var commandHelp = [][]string{
	{"Command", "Argument", "Description"},
	{"list", "", "list the tables of the font"},
	{"table", "tag", "select a table, e.g. table:head"},
	{"print", "", "print the selected table"},
	{"map", "char | U+hex", "look up a character in the cmap"},
	{"names", "", "list the name records"},
	{"glyph", "index", "print outline and metrics of a glyph"},
	{"scripts", "[tag]", "list scripts of GSUB/GPOS, or the language systems of a script"},
	{"features", "[index]", "list features of GSUB/GPOS"},
	{"lookups", "[index]", "list lookups of GSUB/GPOS, or the subtables of a lookup"},
	{"diag", "", "print errors and warnings found while parsing"},
	{"save", "file", "write the font to a file"},
	{"help", "[topic]", "help on topics 'scripts' and 'langsys'"},
	{"quit", "", "leave the CLI"},
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	switch t {
	case "script", "scripts", "scriptlist":
		pterm.Info.Println("ScriptList / Script")
		pterm.Println(`
	ScriptList is a property of GSUB and GPOS.
	It consists of ScriptRecords:
	+------------+----------------+
	| Script Tag | Link to Script |
	+------------+----------------+
	ScriptList behaves as a map.

	A Script table links to a default LangSys entry, and contains a list of LangSys records:
	+--------------------------------+
	| Link to LangSys record         |
	+--------------+-----------------+
	| Language Tag | Link to LangSys |
	+--------------+-----------------+
	Script behaves as a map, with entry 0 as the default link
	`)
	case "lang", "langsys", "langs", "language":
		pterm.Info.Println("LangSys")
		pterm.Println(`
	LangSys is pointed to from a Script Record.
	It links a language with features to activate. It does so using an index into the feature table.
	+-----------------------------------+
	| Index of required feature or null |
	+-----------------------------------+
	| Index of feature 1                |
	+-----------------------------------+
	| Index of feature 2                |
	+-----------------------------------+
	| ...                               |
	+-----------------------------------+
	LangSys behaves as a list.
	`)
	default:
		pterm.Info.Println("Commands")
		_ = pterm.DefaultTable.WithHasHeader().WithData(commandHelp).Render()
	}
}
