package outline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

type glyphMap map[otbin.GlyphID]Glyph

func (m glyphMap) Glyph(gid otbin.GlyphID) (Glyph, error) {
	g, ok := m[gid]
	if !ok {
		return nil, fmt.Errorf("no glyph %d", gid)
	}
	return g, nil
}

func testGlyphs() glyphMap {
	half := otbin.F2Dot14(0x2000)
	return glyphMap{
		0: nil,
		1: &SimpleGlyph{Contours: []Contour{{on(0, 0), on(100, 0), on(100, 100), on(0, 100)}}},
		2: &CompositeGlyph{Components: []Component{
			Offset(1, 100, 0),
			{GlyphID: 1, Flags: ArgsAreXYValues, Transform: [4]otbin.F2Dot14{half, 0, 0, half}},
		}},
		3: &CompositeGlyph{Components: []Component{
			Offset(1, 0, 0),
			{GlyphID: 1, PointMatching: true, Arg1: 2, Arg2: 0, Transform: Identity},
		}},
		4: &CompositeGlyph{Components: []Component{Offset(5, 0, 0)}},
		5: &CompositeGlyph{Components: []Component{Offset(4, 0, 0)}},
		6: &CompositeGlyph{Components: []Component{
			{GlyphID: 1, Flags: ArgsAreXYValues | ScaledComponentOffset, Arg1: 100,
				Transform: [4]otbin.F2Dot14{half, 0, 0, half}},
		}},
		7: &SimpleGlyph{Contours: []Contour{{on(0, 0), off(1, 1), off(3, 3), on(4, 4)}}},
		8: &CompositeGlyph{Components: []Component{Offset(0, 0, 0), Offset(2, 0, 0)}},
	}
}

func TestFlatten(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	src := testGlyphs()
	cs, err := Flatten(2, src)
	require.NoError(t, err)
	want := []Contour{
		{on(100, 0), on(200, 0), on(200, 100), on(100, 100)},
		{on(0, 0), on(50, 0), on(50, 50), on(0, 50)},
	}
	if diff := cmp.Diff(want, cs); diff != "" {
		t.Errorf("flattened contours mismatch (-want +got):\n%s", diff)
	}
	cs, err = Flatten(3, src)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, on(100, 100), cs[1][0], "anchor point should match parent point 2")
	assert.Equal(t, on(200, 200), cs[1][2])
	cs, err = Flatten(6, src)
	require.NoError(t, err)
	assert.Equal(t, on(50, 0), cs[0][0], "scaled component offset")
	cs, err = Flatten(8, src)
	require.NoError(t, err)
	assert.Len(t, cs, 2, "empty component contributes nothing")
	//
	_, err = Flatten(4, src)
	assert.True(t, errors.Is(err, ErrComponentCycle))
	_, err = Flatten(9, src)
	assert.Error(t, err)
}

func TestPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	p, err := Path(7, testGlyphs())
	require.NoError(t, err)
	var cmds []path.Command
	var last []vec.Vec2
	for cmd, pts := range p {
		cmds = append(cmds, cmd)
		if cmd == path.CmdQuadTo && len(last) == 0 {
			last = append(last, pts...)
		}
	}
	assert.Equal(t, []path.Command{path.CmdMoveTo, path.CmdQuadTo, path.CmdQuadTo, path.CmdLineTo, path.CmdClose}, cmds)
	require.Len(t, last, 2)
	assert.Equal(t, vec.Vec2{X: 2, Y: 2}, last[1], "implied point at exact midpoint")
}

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	set, err := Closure([]otbin.GlyphID{3, 6}, testGlyphs())
	require.NoError(t, err)
	assert.Equal(t, uint(3), set.Count())
	assert.True(t, set.Test(1))
	set, err = Closure([]otbin.GlyphID{4}, testGlyphs())
	require.NoError(t, err)
	assert.Equal(t, uint(2), set.Count())
}
