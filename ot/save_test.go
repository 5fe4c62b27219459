package ot

import (
	"slices"
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/outline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveUnmodified(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for name, opts := range map[string]testfont.Options{
		"default":   {},
		"long loca": {LongLoca: true},
		"GSUB":      {GSUB: true},
	} {
		t.Run(name, func(t *testing.T) {
			font := testfont.Build(opts)
			otf := parseTestfont(t, opts)
			out, err := otf.Save()
			require.NoError(t, err)
			assert.Equal(t, font, out, "unmodified font should be written back byte for byte")
		})
	}
}

func TestSaveGlyfWithLeadingBytes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// glyph 0 does not start at the beginning of glyf
	tables := testfont.Tables(testfont.Default())
	loca := slices.Clone(tables[TagLoca])
	for i := 0; i+1 < len(loca); i += 2 {
		otbin.PutU16(loca[i:], otbin.U16(loca[i:])+2) // short offsets are stored halved
	}
	tables[TagLoca] = loca
	tables[TagGlyf] = append([]byte{0xde, 0xad, 0xbe, 0xef}, tables[TagGlyf]...)
	font := testfont.Assemble(0x00010000, tables)
	otf, err := Parse(font)
	require.NoError(t, err)
	require.Empty(t, otf.Errors())
	want, err := otf.Glyf().Glyph(testfont.GlyphA)
	require.NoError(t, err)
	//
	out, err := otf.Save()
	require.NoError(t, err)
	assert.Equal(t, font, out, "unmodified font should be written back byte for byte")
	again, err := Parse(out)
	require.NoError(t, err)
	require.Empty(t, again.Errors())
	require.NotNil(t, again.Glyf())
	have, err := again.Glyf().Glyph(testfont.GlyphA)
	require.NoError(t, err)
	assert.Equal(t, want, have)
	//
	square := &outline.SimpleGlyph{Contours: []outline.Contour{testfont.Square}}
	require.NoError(t, again.Glyf().SetGlyph(testfont.GlyphB, square))
	modified, _ := reparse(t, again)
	assert.Equal(t, uint32(0), modified.Loca().Offsets()[0], "recompiled loca starts at 0")
	have, err = modified.Glyf().Glyph(testfont.GlyphA)
	require.NoError(t, err)
	assert.Equal(t, want, have)
}

func TestSaveChecksums(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	require.NoError(t, otf.Names().SetName(NameFamily, "Checksum Sans"))
	again, out := reparse(t, otf)
	assert.Equal(t, checksumMagic, Checksum(out), "checksum of font file")
	for _, rec := range again.Directory() {
		b := out[rec.Offset : rec.Offset+rec.Length]
		assert.Equal(t, tableChecksum(rec.Tag, b), rec.Checksum, "table %s", rec.Tag)
		assert.Zero(t, rec.Offset%4, "table %s", rec.Tag)
	}
	head := again.Head()
	_, offset, _ := testfont.Locate(out, TagHead)
	assert.Equal(t, otbin.U32(out[offset+8:]), head.CheckSumAdjustment())
	assert.Equal(t, testfont.Checksum(out), Checksum(out))
}

func TestSaveIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	require.NoError(t, otf.Names().SetName(NameFull, "Test Sans Regular"))
	square := &outline.SimpleGlyph{Contours: []outline.Contour{testfont.Square}}
	require.NoError(t, otf.Glyf().SetGlyph(testfont.GlyphA, square))
	again, first := reparse(t, otf)
	second, err := again.Save()
	require.NoError(t, err)
	assert.Equal(t, first, second, "saving a re-parsed font should not change it")
}

func TestSaveParallel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	require.NoError(t, otf.Names().SetName(NameDesigner, "A. Designer"))
	_, err := otf.GSub().AddFeature(T("ss02"), 0)
	require.NoError(t, err)
	sequential, err := otf.Save()
	require.NoError(t, err)
	parallel, err := otf.Save(SaveParallel)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestUnknownTablesArePreserved(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	zzzz := []byte("unknown table, 27 bytes ...")
	font := testfont.Build(testfont.Options{Extra: map[otbin.Tag][]byte{T("Zzzz"): zzzz}})
	otf, err := Parse(font)
	require.NoError(t, err)
	assert.NotNil(t, otf.Table(T("Zzzz")).Self().AsRaw())
	require.NoError(t, otf.Names().SetName(NameFamily, "Other Sans"))
	again, out := reparse(t, otf)
	assert.Equal(t, zzzz, again.Table(T("Zzzz")).Binary())
	_, _, length := testfont.Locate(out, T("Zzzz"))
	assert.Equal(t, uint32(len(zzzz)), length, "unpadded length in directory")
}

func TestAddGaspAndPrep(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	prep := []byte{0xB8, 0x01, 0xFF, 0x85, 0xB0, 0x04, 0x8D} // PUSHW, SCANCTRL, …
	gasp := NewGaspTable(
		GaspRange{MaxPPEM: 8, Behavior: GaspDoGray | GaspSymmetricSmoothing},
		GaspRange{MaxPPEM: 0xFFFF, Behavior: GaspGridfit | GaspDoGray | GaspSymmetricGridfit | GaspSymmetricSmoothing},
	)
	require.NoError(t, otf.SetTable(gasp))
	require.NoError(t, otf.SetRawTable(T("prep"), prep))
	again, out := reparse(t, otf)
	assert.Equal(t, checksumMagic, Checksum(out))
	require.NotNil(t, again.Gasp())
	assert.Equal(t, gasp.Ranges, again.Gasp().Ranges)
	assert.Equal(t, uint16(1), again.Gasp().Version)
	assert.Equal(t, GaspDoGray|GaspSymmetricSmoothing, again.Gasp().Behavior(7))
	assert.Equal(t, gasp.Ranges[1].Behavior, again.Gasp().Behavior(12))
	assert.Equal(t, prep, again.Table(T("prep")).Binary())
	// other tables are unchanged
	for _, tag := range []Tag{TagCMap, TagGlyf, TagHMtx, TagName, TagPost} {
		assert.Equal(t, otf.Table(tag).Binary(), again.Table(tag).Binary(), "table %s", tag)
	}
}

func TestBuildFontFromScratch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := buildScratchFont(t)
	metrics := otf.HMtx().Metrics()
	again, _ := reparse(t, otf)
	assert.Empty(t, again.Warnings())
	assert.Equal(t, testfont.NumGlyph, again.MaxP().NumGlyphs())
	assert.Equal(t, testfont.NumGlyph, again.Loca().NumGlyphs())
	assert.Equal(t, 3, again.HHea().NumberOfHMetrics(), "trailing equal advances are folded")
	assert.Equal(t, uint16(700), again.HHea().AdvanceWidthMax())
	assert.Equal(t, metrics, again.HMtx().Metrics())
	assert.Equal(t, "Scratch", again.Names().Name(NameFamily))
	assert.Equal(t, GlyphIndex(2), again.CMap().Lookup('B'))
	assert.Equal(t, outline.Rect{XMin: 0, YMin: 0, XMax: 1150, YMax: 700}, again.Head().Bounds())
	assert.Equal(t, int16(0), again.Head().IndexToLocFormat())
}

// buildScratchFont creates the glyphs of the test font with table constructors only.
func buildScratchFont(t *testing.T) *Font {
	otf := New(TrueTypeFont)
	names := NewNameTable()
	require.NoError(t, names.SetName(NameFamily, "Scratch"))
	require.NoError(t, names.SetName(NameSubfamily, "Regular"))
	cmap, err := NewCMapTable(map[rune]GlyphIndex{'A': 1, 'B': 2, 'C': 3})
	require.NoError(t, err)
	glyf := NewGlyfTable()
	var metrics []HMetric
	for i, g := range testfont.Glyphs() {
		_, err := glyf.AppendGlyph(g)
		require.NoError(t, err)
		lsb := int16(0)
		if g != nil {
			lsb = g.Bounds().XMin
		}
		metrics = append(metrics, HMetric{Advance: testfont.Advances[i], LSB: lsb})
	}
	for _, table := range []Table{
		NewHeadTable(testfont.UnitsPerEm), NewMaxPTable(true), NewHHeaTable(800, -200, 0),
		NewHMtxTable(metrics), NewOS2Table(), NewPostTable(), names, cmap, glyf,
	} {
		require.NoError(t, otf.SetTable(table))
	}
	return otf
}
