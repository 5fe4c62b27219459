package outline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeSimpleGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	g := &SimpleGlyph{Contours: []Contour{{on(0, 0), on(100, 0), on(100, 100)}}}
	g.RecalcBounds()
	b, err := EncodeGlyph(g)
	require.NoError(t, err)
	want := []byte{
		0x00, 0x01, 0, 0, 0, 0, 0, 0x64, 0, 0x64, // header
		0x00, 0x02, // end points
		0x00, 0x00, // instructions
		0x31, 0x33, 0x35, // flags
		0x64, // x
		0x64, // y
	}
	assert.Equal(t, want, b)
	//
	row := &SimpleGlyph{Contours: []Contour{{on(0, 0), on(10, 0), on(20, 0), on(30, 0), on(40, 0)}}}
	b, err = EncodeGlyph(row)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x31, 0x3b, 0x03, 10, 10, 10, 10}, b[14:], "expected repeated flags")
	dec, err := DecodeGlyph(b)
	require.NoError(t, err)
	if diff := cmp.Diff(row.Contours, dec.(*SimpleGlyph).Contours); diff != "" {
		t.Errorf("repeated flags decoded wrong:\n%s", diff)
	}
}

func TestSimpleGlyphRoundTrip(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	g := &SimpleGlyph{
		Contours: []Contour{
			{on(0, 0), off(300, -400), on(-1000, 20), off(-1000, 20), off(-990, 20)},
			{on(5, 5)},
		},
		Instructions: []byte{0xb0, 0x01},
		Overlap:      true,
	}
	g.RecalcBounds()
	b, err := EncodeGlyph(g)
	require.NoError(t, err)
	dec, err := DecodeGlyph(b)
	require.NoError(t, err)
	if diff := cmp.Diff(Glyph(g), dec); diff != "" {
		t.Errorf("glyph did not round trip (-want +got):\n%s", diff)
	}
	// decode-normalize-compact-encode reproduces the bytes
	sg := dec.(*SimpleGlyph)
	for i, c := range sg.Contours {
		sg.Contours[i] = Compact(Normalize(c), CompactImplied)
	}
	b2, err := EncodeGlyph(sg)
	require.NoError(t, err)
	assert.Equal(t, b, b2)
	//
	_, err = DecodeGlyph(b[:len(b)-1])
	assert.True(t, errors.Is(err, otbin.ErrTruncated), "expected truncation error, have %v", err)
}

func TestDecodeMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b := []byte{0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 5, 0, 3, 0, 0}
	_, err := DecodeGlyph(b)
	assert.True(t, errors.Is(err, ErrMalformedGlyph))
	g, err := DecodeGlyph(nil)
	assert.NoError(t, err)
	assert.Nil(t, g)
	b, err = EncodeGlyph(nil)
	assert.NoError(t, err)
	assert.Empty(t, b)
	_, err = EncodeGlyph(&SimpleGlyph{Contours: []Contour{{on(-30000, 0), on(30000, 0)}}})
	assert.True(t, errors.Is(err, ErrMalformedGlyph), "delta exceeds 16 bits")
}

func TestCompositeGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b, err := EncodeGlyph(&CompositeGlyph{Components: []Component{Offset(1, 10, -20)}})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0, 0x00, 0x02, 0x00, 0x01, 0x0a, 0xec}, b)
	//
	g := &CompositeGlyph{
		Components: []Component{
			Offset(1, 10, -20),
			{GlyphID: 2, PointMatching: true, Arg1: 3, Arg2: 300, Transform: [4]otbin.F2Dot14{0x2000, 0, 0, 0x4000}},
			{GlyphID: 3, Flags: UseMyMetrics | ArgsAreXYValues, Arg1: -5, Arg2: 7,
				Transform: [4]otbin.F2Dot14{0x4000, 0x1000, 0, 0x4000}},
		},
		Instructions: []byte{1, 2, 3},
	}
	b, err = EncodeGlyph(g)
	require.NoError(t, err)
	dec, err := DecodeGlyph(b)
	require.NoError(t, err)
	cg, ok := dec.(*CompositeGlyph)
	require.True(t, ok)
	require.Len(t, cg.Components, 3)
	for i, c := range cg.Components {
		want := g.Components[i]
		assert.Equal(t, want.GlyphID, c.GlyphID)
		assert.Equal(t, want.Arg1, c.Arg1)
		assert.Equal(t, want.Arg2, c.Arg2)
		assert.Equal(t, want.PointMatching, c.PointMatching)
		assert.Equal(t, want.Transform, c.Transform)
	}
	assert.Equal(t, ArgsAreXYValues|MoreComponents, cg.Components[0].Flags)
	assert.Equal(t, ArgsAreWords|WeHaveAnXAndYScale|MoreComponents, cg.Components[1].Flags)
	assert.Equal(t, UseMyMetrics|ArgsAreXYValues|WeHaveATwoByTwo|WeHaveInstructions, cg.Components[2].Flags)
	assert.Equal(t, []byte{1, 2, 3}, cg.Instructions)
	b2, err := EncodeGlyph(cg)
	require.NoError(t, err)
	assert.Equal(t, b, b2)
	//
	explicit := &CompositeGlyph{Components: []Component{
		{GlyphID: 1, Flags: ArgsAreXYValues | WeHaveAScale, Transform: Identity},
	}}
	b, err = EncodeGlyph(explicit)
	require.NoError(t, err)
	assert.Len(t, b, 18, "explicit scale format should be kept")
	_, err = EncodeGlyph(&CompositeGlyph{Components: []Component{Offset(1, 40000, 0)}})
	assert.True(t, errors.Is(err, ErrMalformedGlyph))
}
