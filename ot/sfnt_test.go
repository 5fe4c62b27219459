package ot

import (
	"testing"

	"github.com/npillmayer/fonttools/internal/fontload"
	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/outline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

// Fonts written by Save are checked with x/image/font/sfnt, an independent decoder.
func TestSavedFontReadBySFNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for name, opts := range map[string]testfont.Options{
		"short loca": {},
		"long loca":  {LongLoca: true, GSUB: true},
	} {
		t.Run(name, func(t *testing.T) {
			otf := parseTestfont(t, opts)
			require.NoError(t, otf.Names().SetName(NameFamily, "Cross Check"))
			m := otf.CMap().Mapping()
			m['a'] = testfont.GlyphB
			require.NoError(t, otf.CMap().SetMapping(m))
			square := &outline.SimpleGlyph{Contours: []outline.Contour{testfont.Square}}
			require.NoError(t, otf.Glyf().SetGlyph(testfont.GlyphA, square))
			out, err := otf.Save()
			require.NoError(t, err)

			f, err := fontload.ParseOpenTypeFont(out)
			require.NoError(t, err)
			assert.Equal(t, testfont.NumGlyph, f.SFNT.NumGlyphs())
			assert.EqualValues(t, testfont.UnitsPerEm, f.SFNT.UnitsPerEm())
			assert.Equal(t, "Cross Check", f.Name(sfnt.NameIDFamily))
			assert.Equal(t, "Regular", f.Name(sfnt.NameIDSubfamily))
			for r, want := range map[rune]uint16{'A': 1, 'C': 3, 'a': 2, 'z': 0} {
				gid, err := f.GlyphIndex(r)
				require.NoError(t, err)
				assert.Equal(t, want, gid, "glyph index of %q", r)
			}
			for gid, want := range testfont.Advances {
				adv, err := f.Advance(uint16(gid))
				require.NoError(t, err)
				assert.EqualValues(t, want, adv, "advance of glyph %d", gid)
			}
			a, err := f.SegmentCount(uint16(testfont.GlyphA))
			require.NoError(t, err)
			b, err := f.SegmentCount(uint16(testfont.GlyphB))
			require.NoError(t, err)
			c, err := f.SegmentCount(uint16(testfont.GlyphC))
			require.NoError(t, err)
			assert.Greater(t, a, 0)
			assert.Equal(t, a+b, c, "composite glyph consists of glyphs A and B")
		})
	}
}

func TestScratchFontReadBySFNT(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := buildScratchFont(t)
	out, err := otf.Save()
	require.NoError(t, err)
	f, err := fontload.ParseOpenTypeFont(out)
	require.NoError(t, err)
	assert.Equal(t, testfont.NumGlyph, f.SFNT.NumGlyphs())
	gid, err := f.GlyphIndex('B')
	require.NoError(t, err)
	assert.EqualValues(t, testfont.GlyphB, gid)
}
