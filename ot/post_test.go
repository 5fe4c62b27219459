package ot

import (
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	post := otf.Post()
	assert.Equal(t, otbin.Version16Dot16(postV2), post.Version())
	assert.Equal(t, testfont.NumGlyph, post.NumNames())
	for gid, want := range []string{".notdef", "A", "B", "C.comp"} {
		name, ok := post.GlyphName(GlyphIndex(gid))
		assert.True(t, ok)
		assert.Equal(t, want, name)
	}
	_, ok := post.GlyphName(testfont.NumGlyph)
	assert.False(t, ok)
	assert.False(t, post.IsFixedPitch())
	assert.Equal(t, otbin.Fixed(0), post.ItalicAngle())
	assert.Len(t, macGlyphNames, 258)
}

func TestPostSetGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	post := otf.Post()
	assert.Error(t, post.SetGlyphNames([]string{".notdef", "with space", "B", "C"}))
	require.NoError(t, post.SetGlyphNames([]string{".notdef", "alpha", "space", "alpha"}))
	again, b := reparse(t, otf)
	post = again.Post()
	for gid, want := range []string{".notdef", "alpha", "space", "alpha"} {
		name, ok := post.GlyphName(GlyphIndex(gid))
		assert.True(t, ok)
		assert.Equal(t, want, name)
	}
	// 32 bytes header, numGlyphs, 4 indices, one custom name
	assert.Len(t, testfont.Table(b, TagPost), 32+2+4*2+1+len("alpha"))

	post.DropGlyphNames()
	again, b = reparse(t, again)
	assert.Equal(t, otbin.Version16Dot16(postV3), again.Post().Version())
	_, ok := again.Post().GlyphName(testfont.GlyphA)
	assert.False(t, ok)
	assert.Equal(t, 0, again.Post().NumNames())
	assert.Len(t, testfont.Table(b, TagPost), 32)
}

func TestPostVersion1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	post := NewPostTable()
	post.rec.MustSet("version", postV1)
	name, ok := post.GlyphName(36)
	assert.True(t, ok)
	assert.Equal(t, "A", name)
	assert.Equal(t, 258, post.NumNames())
}
