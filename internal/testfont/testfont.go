/*
Package testfont builds small synthetic TrueType fonts for tests.

The fonts are assembled table by table with package otbin, independently of the
table codecs of package ot, so that tests of package ot do not check the package
against itself. A default font has four glyphs: .notdef (empty), 'A' (a triangle),
'B' (a square) and 'C' (a composite of 'A' and 'B').
*/
package testfont

import (
	"slices"

	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/outline"
)

// Glyph IDs of the default font.
const (
	NotDef   otbin.GlyphID = 0
	GlyphA   otbin.GlyphID = 1
	GlyphB   otbin.GlyphID = 2
	GlyphC   otbin.GlyphID = 3
	NumGlyph               = 4
)

// Design metrics of the default font.
const (
	UnitsPerEm = 1000
	Ascender   = 800
	Descender  = -200
	FamilyName = "Test Sans"
)

// Advances are the advance widths of the glyphs. The last two are equal, thus
// hmtx holds three long metrics.
var Advances = [NumGlyph]uint16{500, 600, 700, 700}

// Triangle is the contour of glyph 'A'.
var Triangle = outline.Contour{
	{X: 0, Y: 0, OnCurve: true},
	{X: 250, Y: 700, OnCurve: true},
	{X: 500, Y: 0, OnCurve: true},
}

// Square is the contour of glyph 'B'. It has an off-curve point.
var Square = outline.Contour{
	{X: 50, Y: 0, OnCurve: true},
	{X: 50, Y: 500, OnCurve: true},
	{X: 300, Y: 600, OnCurve: false},
	{X: 550, Y: 500, OnCurve: true},
	{X: 550, Y: 0, OnCurve: true},
}

// Options control the font built.
type Options struct {
	LongLoca bool                 // use the long loca format
	GSUB     bool                 // add a GSUB table with one single substitution 'ss01', A → B
	Extra    map[otbin.Tag][]byte // additional tables, e.g., a 'Zzzz' table
}

// Default builds the default font.
func Default() []byte {
	return Build(Options{})
}

// Glyphs returns the glyphs of the default font, indexed by glyph ID.
func Glyphs() []outline.Glyph {
	a := &outline.SimpleGlyph{Contours: []outline.Contour{Triangle}}
	a.RecalcBounds()
	b := &outline.SimpleGlyph{Contours: []outline.Contour{Square}}
	b.RecalcBounds()
	c := &outline.CompositeGlyph{
		Rect:       outline.Rect{XMin: 0, YMin: 0, XMax: 1150, YMax: 700},
		Components: []outline.Component{outline.Offset(GlyphA, 0, 0), outline.Offset(GlyphB, 600, 0)},
	}
	return []outline.Glyph{nil, a, b, c}
}

// Build builds a font with options opts.
func Build(opts Options) []byte {
	glyf, loca, bbox := buildGlyf(opts.LongLoca)
	tables := map[otbin.Tag][]byte{
		otbin.T("head"): buildHead(bbox, opts.LongLoca),
		otbin.T("hhea"): buildHHea(),
		otbin.T("maxp"): buildMaxP(),
		otbin.T("OS/2"): buildOS2(),
		otbin.T("hmtx"): buildHMtx(),
		otbin.T("cmap"): buildCMap(),
		otbin.T("name"): buildName(),
		otbin.T("post"): buildPost(),
		otbin.T("loca"): loca,
		otbin.T("glyf"): glyf,
	}
	if opts.GSUB {
		tables[otbin.T("GSUB")] = buildGSUB()
	}
	for tag, b := range opts.Extra {
		tables[tag] = b
	}
	return Assemble(0x00010000, tables)
}

// Assemble writes a font file from tables, with a table directory sorted by tag,
// table checksums and the checksum adjustment of table head.
func Assemble(fontType uint32, tables map[otbin.Tag][]byte) []byte {
	tags := make([]otbin.Tag, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	n := len(tags)
	sr, es := 1, 0
	for sr*2 <= n {
		sr *= 2
		es++
	}
	w := otbin.NewWriter(0)
	w.U32(fontType)
	w.U16(uint16(n))
	w.U16(uint16(sr * 16))
	w.U16(uint16(es))
	w.U16(uint16(n*16 - sr*16))
	offset := 12 + 16*n
	headAt := -1
	for _, tag := range tags {
		b := tables[tag]
		sum := Checksum(b)
		if tag == otbin.T("head") {
			c := slices.Clone(b)
			otbin.PutU32(c[8:], 0)
			sum = Checksum(c)
			headAt = offset
		}
		w.Tag(tag)
		w.U32(sum)
		w.U32(uint32(offset))
		w.U32(uint32(len(b)))
		offset += (len(b) + 3) &^ 3
	}
	for _, tag := range tags {
		w.Write(tables[tag])
		w.Align(4)
	}
	font := w.Bytes()
	if headAt >= 0 {
		otbin.PutU32(font[headAt+8:], 0)
		otbin.PutU32(font[headAt+8:], 0xB1B0AFBA-Checksum(font))
	}
	return font
}

// Checksum computes an OpenType table checksum.
func Checksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i < len(b); i += 4 {
		var word [4]byte
		copy(word[:], b[i:])
		sum += otbin.U32(word[:])
	}
	return sum
}

// Locate finds the directory entry for tag in font. It returns the position of
// the directory entry and the table's offset and length. If tag is not present,
// entry is -1.
func Locate(font []byte, tag otbin.Tag) (entry int, offset, length uint32) {
	n := int(otbin.U16(font[4:]))
	for i := 0; i < n; i++ {
		at := 12 + 16*i
		if otbin.Tag(otbin.U32(font[at:])) == tag {
			return at, otbin.U32(font[at+8:]), otbin.U32(font[at+12:])
		}
	}
	return -1, 0, 0
}

// Table returns the data of table tag in font, or nil.
func Table(font []byte, tag otbin.Tag) []byte {
	entry, offset, length := Locate(font, tag)
	if entry < 0 {
		return nil
	}
	return font[offset : offset+length]
}

// Tables returns the tables of font, by tag.
func Tables(font []byte) map[otbin.Tag][]byte {
	tables := make(map[otbin.Tag][]byte)
	n := int(otbin.U16(font[4:]))
	for i := 0; i < n; i++ {
		at := 12 + 16*i
		tag := otbin.Tag(otbin.U32(font[at:]))
		offset, length := otbin.U32(font[at+8:]), otbin.U32(font[at+12:])
		tables[tag] = font[offset : offset+length]
	}
	return tables
}
