package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/fonttools"
	"github.com/npillmayer/fonttools/internal/fontload"
	"github.com/npillmayer/fonttools/ot"
	"github.com/thatisuday/commando"
	"golang.org/x/image/font/sfnt"
)

func runRewriteCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	otf := mustLoadFont(args["font"].Value, mustFlagBool(flags["testfont"], "testfont"))
	opts := rewriteOptions{
		parallel: mustFlagBool(flags["parallel"], "parallel"),
		verify:   mustFlagBool(flags["verify"], "verify"),
	}
	if err := rewriteFont(otf, args["output"].Value, opts); err != nil {
		fatalf("%v", err)
	}
}

type rewriteOptions struct {
	parallel bool
	verify   bool
}

// rewriteFont saves a font to a file. With opts.verify, the file is read back
// with golang.org/x/image/font/sfnt and checked against the font.
func rewriteFont(otf *ot.Font, path string, opts rewriteOptions) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("output path is required")
	}
	var saveOpts []ot.SaveOption
	if opts.parallel {
		saveOpts = append(saveOpts, ot.SaveParallel)
	}
	if err := fonttools.SaveFile(otf, path, saveOpts...); err != nil {
		return fmt.Errorf("cannot write font: %w", err)
	}
	if !opts.verify {
		return nil
	}
	return verifyFont(otf, path)
}

func verifyFont(otf *ot.Font, path string) error {
	f, err := fontload.LoadOpenTypeFont(path)
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if maxp := otf.MaxP(); maxp != nil && f.SFNT.NumGlyphs() != maxp.NumGlyphs() {
		return fmt.Errorf("verify: sfnt sees %d glyphs, font has %d", f.SFNT.NumGlyphs(), maxp.NumGlyphs())
	}
	if family, _ := fonttools.FamilyName(otf); family != f.Name(sfnt.NameIDFamily) {
		return fmt.Errorf("verify: sfnt sees family %q, font has %q", f.Name(sfnt.NameIDFamily), family)
	}
	if cmap := otf.CMap(); cmap != nil {
		for r, gid := range cmap.Mapping() {
			got, err := f.GlyphIndex(r)
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			if got != uint16(gid) {
				return fmt.Errorf("verify: sfnt maps %#U to glyph %d, font to %d", r, got, gid)
			}
		}
	}
	return nil
}

func runRenameCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	otf := mustLoadFont(args["font"].Value, false)
	sub, err := flags["subfamily"].GetString()
	if err != nil {
		fatalf("invalid --subfamily flag: %v", err)
	}
	if sub == "-" {
		sub = ""
	}
	if err := renameFont(otf, args["family"].Value, sub); err != nil {
		fatalf("%v", err)
	}
	if err := rewriteFont(otf, args["output"].Value, rewriteOptions{verify: true}); err != nil {
		fatalf("%v", err)
	}
	fmt.Fprintf(os.Stdout, "renamed to %s\n", args["family"].Value)
}

// renameFont sets the family name, and the subfamily name if given. The full
// name is derived from both.
func renameFont(otf *ot.Font, family, subfamily string) error {
	names := otf.Names()
	if names == nil {
		return errors.New("font has no decodable name table")
	}
	if family = strings.TrimSpace(family); family == "" {
		return errors.New("family name is required")
	}
	if subfamily == "" {
		subfamily = names.Name(ot.NameSubfamily)
	} else if err := names.SetName(ot.NameSubfamily, subfamily); err != nil {
		return err
	}
	if err := names.SetName(ot.NameFamily, family); err != nil {
		return err
	}
	full := strings.TrimSpace(family + " " + subfamily)
	return names.SetName(ot.NameFull, full)
}
