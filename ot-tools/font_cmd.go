package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/fonttools/otquery"
	"github.com/thatisuday/commando"
)

func runFontCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontPath := strings.TrimSpace(args["font"].Value)
	otf := mustLoadFont(fontPath, mustFlagBool(flags["testfont"], "testfont"))
	fmt.Printf("Path: %s\n", fontPath)
	fontReport(os.Stdout, otf, args["tables"].Value, mustFlagBool(flags["errors"], "errors"))
}

// fontReport prints general information about a font, followed by the extent
// of selected tables and, optionally, the diagnostics found while parsing.
func fontReport(w io.Writer, otf *ot.Font, tables string, showIssues bool) {
	fmt.Fprintf(w, "Type: %s\n", otquery.FontType(otf))
	names := otquery.NameInfo(otf)
	if family := names["family"]; family != "" {
		fmt.Fprintf(w, "Family: %s\n", family)
	}
	if sub := names["subfamily"]; sub != "" {
		fmt.Fprintf(w, "Subfamily: %s\n", sub)
	}
	if version := names["version"]; version != "" {
		fmt.Fprintf(w, "Version: %s\n", version)
	}
	if maxp, ok := otquery.MaxPInfo(otf); ok {
		fmt.Fprintf(w, "Glyphs: %d\n", maxp.NumGlyphs)
	}
	m := otquery.FontMetrics(otf)
	fmt.Fprintf(w, "Metrics: upem=%d ascent=%d descent=%d linegap=%d\n",
		m.UnitsPerEm, m.Ascent, m.Descent, m.LineGap)

	tags := otf.TableTags()
	fmt.Fprintf(w, "Tables (%d):", len(tags))
	for _, tag := range tags {
		fmt.Fprintf(w, " %s", tag.String())
	}
	fmt.Fprintln(w)

	layoutTables := otquery.LayoutTables(otf)
	fmt.Fprintf(w, "Layout: %s\n", strings.Join(layoutTables, ","))

	errs := otf.Errors()
	warns := otf.Warnings()
	crit := otf.CriticalErrors()
	fmt.Fprintf(w, "Issues: errors=%d warnings=%d critical=%d\n", len(errs), len(warns), len(crit))

	if len(tables) > 0 {
		printSelectedTables(w, otf, tables)
	}
	if showIssues {
		for _, e := range errs {
			fmt.Fprintf(w, "error: %s\n", e.Error())
		}
		for _, warn := range warns {
			fmt.Fprintf(w, "warning: %s\n", warn.String())
		}
	}
}

func printSelectedTables(w io.Writer, otf *ot.Font, raw string) {
	for _, tagName := range splitCSVSpace(raw) {
		tag := ot.T(tagName)
		table := otf.Table(tag)
		if table == nil {
			fmt.Fprintf(w, "table %s: missing\n", tagName)
			continue
		}
		off, size := table.Extent()
		state := "decoded"
		if table.Self().AsRaw() != nil {
			state = "raw"
		}
		fmt.Fprintf(w, "table %s: offset=%d size=%d %s\n", tagName, off, size, state)
	}
}

func runCMapCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	otf := mustLoadFont(args["font"].Value, mustFlagBool(flags["testfont"], "testfont"))
	if err := mapCodepoints(os.Stdout, otf, args["codepoints"].Value); err != nil {
		fatalf("%v", err)
	}
}

// mapCodepoints prints the glyph, and its name if known, for each codepoint.
func mapCodepoints(w io.Writer, otf *ot.Font, spec string) error {
	cps, err := parseCodepoints(spec)
	if err != nil {
		return err
	}
	if otf.CMap() == nil {
		return fmt.Errorf("font has no decodable cmap table")
	}
	post := otf.Post()
	for _, r := range cps {
		gid := otquery.GlyphIndex(otf, r)
		fmt.Fprintf(w, "%U -> %d", r, gid)
		if post != nil {
			if name, ok := post.GlyphName(gid); ok {
				fmt.Fprintf(w, " (%s)", name)
			}
		}
		fmt.Fprintln(w)
	}
	return nil
}
