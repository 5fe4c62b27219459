// Package fontload opens fonts with golang.org/x/image/font/sfnt, an
// independent read-only sfnt decoder. Tests use it to check that fonts
// written by package ot are accepted by a second implementation.
package fontload

import (
	"fmt"
	"os"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ScalableFont is a font decoded by x/image/font/sfnt, together with its binary.
type ScalableFont struct {
	Fontname string
	Binary   []byte
	SFNT     *sfnt.Font
	buf      sfnt.Buffer
}

// LoadOpenTypeFont loads an OpenType font (TTF or OTF) from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	return ParseOpenTypeFont(bytez)
}

// ParseOpenTypeFont decodes an OpenType font (TTF or OTF) from memory.
// A font without a full name is not an error.
func ParseOpenTypeFont(fbytes []byte) (*ScalableFont, error) {
	f := &ScalableFont{Binary: fbytes}
	var err error
	if f.SFNT, err = sfnt.Parse(f.Binary); err != nil {
		return nil, fmt.Errorf("sfnt: %w", err)
	}
	if name, err := f.SFNT.Name(&f.buf, sfnt.NameIDFull); err == nil {
		f.Fontname = name
	}
	return f, nil
}

// Name returns the name table string for id, or "" if there is none.
func (f *ScalableFont) Name(id sfnt.NameID) string {
	s, err := f.SFNT.Name(&f.buf, id)
	if err != nil {
		return ""
	}
	return s
}

// GlyphIndex maps a rune to a glyph index, 0 meaning unmapped.
func (f *ScalableFont) GlyphIndex(r rune) (uint16, error) {
	gid, err := f.SFNT.GlyphIndex(&f.buf, r)
	return uint16(gid), err
}

// Advance returns the unscaled advance width of a glyph, in font units.
func (f *ScalableFont) Advance(gid uint16) (int, error) {
	upem := f.SFNT.UnitsPerEm()
	adv, err := f.SFNT.GlyphAdvance(&f.buf, sfnt.GlyphIndex(gid), fixed.I(int(upem)), 0)
	if err != nil {
		return 0, err
	}
	return adv.Round(), nil
}

// SegmentCount returns the number of path segments of a glyph's outline.
func (f *ScalableFont) SegmentCount(gid uint16) (int, error) {
	upem := f.SFNT.UnitsPerEm()
	segs, err := f.SFNT.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), fixed.I(int(upem)), nil)
	if err != nil {
		return 0, err
	}
	return len(segs), nil
}
