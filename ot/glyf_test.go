package ot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/outline"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyfOutlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	glyf := otf.Glyf()
	require.Equal(t, testfont.NumGlyph, glyf.NumGlyphs())
	g, err := glyf.Glyph(testfont.NotDef)
	require.NoError(t, err)
	assert.Nil(t, g, ".notdef is empty")
	assert.Nil(t, glyf.GlyphData(testfont.NotDef))

	g, err = glyf.Glyph(testfont.GlyphB)
	require.NoError(t, err)
	sg, ok := g.(*outline.SimpleGlyph)
	require.True(t, ok)
	if diff := cmp.Diff([]outline.Contour{testfont.Square}, sg.Contours); diff != "" {
		t.Errorf("glyph B contours mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, outline.Rect{XMin: 50, YMin: 0, XMax: 550, YMax: 600}, sg.Bounds())

	contours, err := outline.Flatten(testfont.GlyphC, glyf)
	require.NoError(t, err)
	require.Len(t, contours, 2)
	if diff := cmp.Diff(testfont.Triangle, contours[0]); diff != "" {
		t.Errorf("first component mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, testfont.Square[0].X+600, contours[1][0].X, "second component is shifted")

	_, err = glyf.Glyph(99)
	assert.ErrorIs(t, err, ErrInconsistentGlyphData)
}

func TestLocaIndexToLocation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, long := range []bool{false, true} {
		otf := parseTestfont(t, testfont.Options{LongLoca: long})
		loca := otf.Loca()
		assert.Equal(t, long, loca.IsLong())
		assert.Equal(t, testfont.NumGlyph, loca.NumGlyphs())
		start, end, ok := loca.IndexToLocation(testfont.NotDef)
		assert.True(t, ok)
		assert.Equal(t, start, end, ".notdef is empty")
		var total uint32
		for gid := range testfont.NumGlyph {
			start, end, ok := loca.IndexToLocation(GlyphIndex(gid))
			require.True(t, ok)
			assert.Equal(t, total, start)
			assert.Equal(t, len(otf.Glyf().GlyphData(GlyphIndex(gid))), int(end-start))
			total = end
		}
		_, _, ok = loca.IndexToLocation(testfont.NumGlyph)
		assert.False(t, ok)
		assert.Len(t, loca.Offsets(), testfont.NumGlyph+1)
	}
}

func TestModifyGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	big := outline.Contour{
		{X: -100, Y: -300, OnCurve: true},
		{X: 400, Y: 1200, OnCurve: false},
		{X: 900, Y: -300, OnCurve: true},
	}
	require.NoError(t, otf.Glyf().SetGlyph(testfont.GlyphA, &outline.SimpleGlyph{Contours: []outline.Contour{big}}))
	again, _ := reparse(t, otf)
	g, err := again.Glyf().Glyph(testfont.GlyphA)
	require.NoError(t, err)
	if diff := cmp.Diff([]outline.Contour{big}, g.(*outline.SimpleGlyph).Contours); diff != "" {
		t.Errorf("modified glyph mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, outline.Rect{XMin: -100, YMin: -300, XMax: 900, YMax: 1200}, g.Bounds())
	assert.Equal(t, outline.Rect{XMin: -100, YMin: -300, XMax: 1150, YMax: 1200}, again.Head().Bounds(),
		"head bounds are the union of all glyph bounds")
	for gid := range testfont.NumGlyph {
		start, end, _ := again.Loca().IndexToLocation(GlyphIndex(gid))
		assert.Zero(t, (end-start)%2, "glyph %d is padded", gid)
	}
	// other glyphs are unchanged
	assert.Equal(t, otf.Glyf().GlyphData(testfont.GlyphB), again.Glyf().GlyphData(testfont.GlyphB))
	assert.Equal(t, otf.Glyf().GlyphData(testfont.GlyphC), again.Glyf().GlyphData(testfont.GlyphC))
}

func TestAppendGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	gid, err := otf.Glyf().AppendGlyph(&outline.SimpleGlyph{Contours: []outline.Contour{testfont.Triangle}})
	require.NoError(t, err)
	assert.Equal(t, GlyphIndex(testfont.NumGlyph), gid)
	_, err = otf.Save()
	assert.ErrorIs(t, err, ErrInconsistentGlyphData, "hmtx lacks metrics for the new glyph")

	otf.HMtx().AppendHMetrics(HMetric{Advance: 700})
	require.NoError(t, otf.Post().SetGlyphNames([]string{".notdef", "A", "B", "C.comp", "A.alt"}))
	again, _ := reparse(t, otf)
	assert.Equal(t, testfont.NumGlyph+1, again.MaxP().NumGlyphs())
	assert.Equal(t, testfont.NumGlyph+1, again.Loca().NumGlyphs())
	assert.Equal(t, testfont.NumGlyph+1, again.HMtx().NumGlyphs())
	assert.Equal(t, 3, again.HHea().NumberOfHMetrics(), "trailing equal advances are folded")
	name, ok := again.Post().GlyphName(gid)
	assert.True(t, ok)
	assert.Equal(t, "A.alt", name)
	assert.Equal(t, again.Glyf().GlyphData(testfont.GlyphA), again.Glyf().GlyphData(gid))
}

func TestGrowToLongLoca(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	// 0x1FFFE is the largest offset of a short loca table
	var contour outline.Contour
	for i := range 40000 {
		contour = append(contour, outline.Point{X: (i % 2) * 1000, Y: (i % 2) * 1000, OnCurve: true})
	}
	glyph := &outline.SimpleGlyph{Contours: []outline.Contour{contour}}
	require.NoError(t, otf.Glyf().SetGlyph(testfont.GlyphB, glyph))
	require.Greater(t, len(otf.Glyf().GlyphData(testfont.GlyphB)), 0x1FFFE)
	again, _ := reparse(t, otf)
	assert.True(t, again.Loca().IsLong())
	assert.Equal(t, int16(1), again.Head().IndexToLocFormat())
	g, err := again.Glyf().Glyph(testfont.GlyphB)
	require.NoError(t, err)
	assert.Equal(t, 40000, g.(*outline.SimpleGlyph).NumPoints())
}
