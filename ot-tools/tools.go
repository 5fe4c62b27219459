// Command ot-tools runs batch operations on OpenType fonts: diagnostics,
// character mapping, renaming and re-writing.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/fonttools"
	"github.com/npillmayer/fonttools/ot"
	"github.com/thatisuday/commando"
)

func main() {
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.0.1").
		SetDescription("CLI for OpenType font diagnostics and round-trip rewriting.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("font").
		SetDescription("Print diagnostics and table information for an OpenType font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("tables...", "optional list of table tags (e.g. GSUB,GPOS,head)", "").
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil).
		SetAction(runFontCommand)

	commando.
		Register("cmap").
		SetDescription("Map codepoints to glyphs, using the font's cmap table.").
		SetShortDescription("map codepoints").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("codepoints...", "codepoints (comma/space separated, e.g. U+0041,0x42)", "").
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		SetAction(runCMapCommand)

	commando.
		Register("rewrite").
		SetDescription("Parse a font and write it back, re-computing derived fields and checksums.").
		SetShortDescription("round-trip a font").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("output", "output file path", "").
		AddFlag("parallel,p", "encode tables concurrently", commando.Bool, nil).
		AddFlag("verify", "check the output with an independent sfnt decoder", commando.Bool, nil).
		AddFlag("testfont,t", "parse font as relaxed test font fixture", commando.Bool, nil).
		SetAction(runRewriteCommand)

	commando.
		Register("rename").
		SetDescription("Set the family name of a font and write it to a new file.").
		SetShortDescription("rename a font family").
		AddArgument("font", "OpenType font file path", "").
		AddArgument("output", "output file path", "").
		AddArgument("family", "new family name", "").
		AddFlag("subfamily,s", "new subfamily name", commando.String, "-").
		SetAction(runRenameCommand)

	commando.Parse(nil)
}

// --- Helpers ----------------------------------------------------------

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, fmt.Errorf("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || u > 0x10FFFF {
		return 0, fmt.Errorf("invalid codepoint %q", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

func loadFont(path string, testfont bool) (*ot.Font, error) {
	if testfont {
		return fonttools.Open(path, ot.IsTestfont)
	}
	return fonttools.Open(path)
}

func mustLoadFont(path string, testfont bool) *ot.Font {
	if strings.TrimSpace(path) == "" {
		fatalf("font path is required")
	}
	otf, err := loadFont(path, testfont)
	if err != nil {
		fatalf("cannot load font %s: %v", path, err)
	}
	return otf
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
