package ot

import (
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTags(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tag := Tag(0x636d6170)
	if tag.String() != "cmap" {
		t.Errorf("expected tag 0x636d6170 to be 'cmap', is %s", tag.String())
	}
	tag = MakeTag([]byte("cmap"))
	if tag.String() != "cmap" {
		t.Errorf("expected tag MakeTag(cmap) to be 'cmap', is %s", tag.String())
	}
	tag = T("cmap")
	if tag.String() != "cmap" {
		t.Errorf("expected tag T(cmap) to be 'cmap', is %s", tag.String())
	}
}

func TestTableName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tb := tableBase{}
	tb.name = 0x636d6170
	s := tb.Self().NameTag().String()
	if s != "cmap" {
		t.Errorf("expected table name to be cmap, is %v", s)
	}
}

func TestTypedGetters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	assert.NotNil(t, otf.Head())
	assert.NotNil(t, otf.MaxP())
	assert.NotNil(t, otf.HHea())
	assert.NotNil(t, otf.HMtx())
	assert.NotNil(t, otf.OS2())
	assert.NotNil(t, otf.Post())
	assert.NotNil(t, otf.Names())
	assert.NotNil(t, otf.CMap())
	assert.NotNil(t, otf.Loca())
	assert.NotNil(t, otf.Glyf())
	assert.NotNil(t, otf.GSub())
	assert.Nil(t, otf.GPos())
	assert.Nil(t, otf.Gasp())
	assert.Nil(t, otf.FVar())
	assert.Nil(t, otf.Table(T("Zzzz")))
	assert.Nil(t, otf.Table(TagHead).Self().AsCMap(), "head must not convert to cmap")
}

func TestRawTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(testfont.Default(), KeepRaw)
	require.NoError(t, err)
	for _, tag := range otf.TableTags() {
		assert.NotNil(t, otf.Table(tag).Self().AsRaw(), "table %s", tag)
	}
	assert.Nil(t, otf.Head())
	out, err := otf.Save()
	require.NoError(t, err)
	assert.Equal(t, testfont.Default(), out)
}

func TestSetAndRemoveTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	require.NoError(t, otf.SetRawTable(T("Zzzz"), []byte{1, 2, 3}))
	assert.Contains(t, otf.TableTags(), T("Zzzz"))
	assert.Error(t, otf.SetRawTable(Tag(0x01020304), nil), "tags must be printable")
	assert.Error(t, otf.SetTable(nil))
	assert.True(t, otf.RemoveTable(T("Zzzz")))
	assert.False(t, otf.RemoveTable(T("Zzzz")))
}

// ---------------------------------------------------------------------------

// parseTestfont parses a synthetic font and expects it to be free of errors.
func parseTestfont(t *testing.T, opts testfont.Options, popts ...ParseOption) *Font {
	t.Helper()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	defer tracer().SetTraceLevel(level)
	otf, err := Parse(testfont.Build(opts), popts...)
	require.NoError(t, err)
	require.Empty(t, otf.Errors())
	require.Empty(t, otf.Warnings())
	return otf
}

// reparse saves a font and parses the result.
func reparse(t *testing.T, otf *Font) (*Font, []byte) {
	t.Helper()
	b, err := otf.Save()
	require.NoError(t, err)
	again, err := Parse(b)
	require.NoError(t, err)
	require.Empty(t, again.Errors())
	return again, b
}
