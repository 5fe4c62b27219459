package ot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGSub(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	gsub := otf.GSub()
	require.NotNil(t, gsub, "cannot find a GSUB table")
	major, minor := gsub.Version()
	assert.Equal(t, uint16(1), major)
	assert.Equal(t, uint16(0), minor)
	want := []Script{{
		Tag:            T("latn"),
		DefaultLangSys: Some(LangSys{FeatureIndices: []uint16{0}}),
	}}
	if diff := cmp.Diff(want, gsub.Scripts(),
		cmp.AllowUnexported(Option[LangSys]{}, Option[uint16]{})); diff != "" {
		t.Errorf("script list mismatch (-want +got):\n%s", diff)
	}
	features := gsub.Features()
	require.Len(t, features, 1)
	assert.Equal(t, T("ss01"), features[0].Tag)
	assert.Equal(t, []uint16{0}, features[0].LookupIndices)
	assert.False(t, features[0].HasParams())
	lookups := gsub.Lookups()
	require.Len(t, lookups, 1)
	assert.Equal(t, uint16(1), lookups[0].Type)
	assert.Equal(t, 1, lookups[0].SubtableCount())
	assert.True(t, lookups[0].MarkFilteringSet.IsNone())
	sub, err := gsub.LookupSubtable(0, 0)
	require.NoError(t, err)
	assert.Equal(t, testfont.SingleSubst, sub[:len(testfont.SingleSubst)])
	_, err = gsub.LookupSubtable(0, 1)
	assert.ErrorIs(t, err, otbin.ErrMissingSubtable)
	_, ok := gsub.Script(T("cyrl"))
	assert.False(t, ok)
}

func TestLayoutCopiesAreIndependent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	gsub := otf.GSub()
	script, ok := gsub.Script(T("latn"))
	require.True(t, ok)
	script.DefaultLangSys.Ptr().FeatureIndices[0] = 99
	gsub.Features()[0].LookupIndices[0] = 99
	latn, _ := gsub.Script(T("latn"))
	ls, _ := latn.DefaultLangSys.Unwrap()
	assert.Equal(t, []uint16{0}, ls.FeatureIndices)
	assert.Equal(t, []uint16{0}, gsub.Features()[0].LookupIndices)
	out, err := otf.Save()
	require.NoError(t, err)
	assert.Equal(t, testfont.Build(testfont.Options{GSUB: true}), out)
}

func TestEditGSub(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	gsub := otf.GSub()
	// single substitution format 2: B → C
	subst := []byte{0, 2, 0, 8, 0, 1, 0, 3, 0, 1, 0, 1, 0, 2}
	lookup, err := gsub.AddLookup(1, LookupIgnoreMarks, subst)
	require.NoError(t, err)
	assert.Equal(t, 1, lookup)
	_, err = gsub.AddFeature(T("ss03"), 7)
	assert.Error(t, err, "lookup index out of range")
	feature, err := gsub.AddFeature(T("ss02"), uint16(lookup))
	require.NoError(t, err)
	assert.Equal(t, 1, feature)
	gsub.SetScript(Script{
		Tag: T("cyrl"),
		LangSys: []LangSysRecord{
			{Tag: T("SRB "), LangSys: LangSys{RequiredFeature: Some[uint16](0)}},
		},
	})
	require.NoError(t, gsub.AddFeatureToScripts(feature))
	assert.Error(t, gsub.AddFeatureToScripts(5))

	again, _ := reparse(t, otf)
	g := again.GSub()
	require.NotNil(t, g)
	scripts := g.Scripts()
	require.Len(t, scripts, 2)
	assert.Equal(t, T("cyrl"), scripts[0].Tag, "scripts are sorted by tag")
	assert.Equal(t, T("latn"), scripts[1].Tag)
	assert.True(t, scripts[0].DefaultLangSys.IsNone())
	srb := scripts[0].LangSys[0].LangSys
	assert.Equal(t, Some[uint16](0), srb.RequiredFeature)
	assert.Equal(t, []uint16{1}, srb.FeatureIndices)
	latn, _ := scripts[1].DefaultLangSys.Unwrap()
	assert.Equal(t, []uint16{0, 1}, latn.FeatureIndices)
	assert.True(t, latn.RequiredFeature.IsNone())

	lookups := g.Lookups()
	require.Len(t, lookups, 2)
	assert.Equal(t, LookupIgnoreMarks, lookups[1].Flag)
	sub, err := g.LookupSubtable(0, 0)
	require.NoError(t, err)
	assert.Equal(t, testfont.SingleSubst, sub[:len(testfont.SingleSubst)], "opaque subtable is preserved")
	sub, err = g.LookupSubtable(1, 0)
	require.NoError(t, err)
	assert.Equal(t, subst, sub[:len(subst)])
	assert.Equal(t, T("ss02"), g.Features()[1].Tag)
}

func TestRemoveScript(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	assert.False(t, otf.GSub().RemoveScript(T("grek")))
	assert.True(t, otf.GSub().RemoveScript(T("latn")))
	again, b := reparse(t, otf)
	assert.Empty(t, again.GSub().Scripts())
	assert.Len(t, again.GSub().Features(), 1, "features are kept")
	// header, empty script list, unchanged feature list, lookup list and subtable
	assert.Len(t, testfont.Table(b, TagGSub), 10+2+14+4+8+len(testfont.SingleSubst))
}

func TestLayoutSharesLangSys(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	gsub := otf.GSub()
	ls := LangSys{FeatureIndices: []uint16{0}}
	gsub.SetScript(Script{
		Tag:            T("grek"),
		DefaultLangSys: Some(ls),
		LangSys:        []LangSysRecord{{Tag: T("ELL "), LangSys: ls}},
	})
	b, err := otf.TableBytes(TagGSub)
	require.NoError(t, err)
	// grek and latn default LangSys tables are identical and stored once
	scriptList := 2 + 2*6
	scripts := (4 + 6) + 4
	langSys := 8
	features := 2 + 6 + 6
	lookups := 2 + 2 + 8
	assert.Len(t, b, 10+scriptList+scripts+langSys+features+lookups+len(testfont.SingleSubst))
}

func TestSetScriptOnUnsortedScriptList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{GSUB: true})
	gsub := otf.GSub()
	dflt := Some(LangSys{FeatureIndices: []uint16{0}})
	// fonts in the wild may carry script records out of order
	gsub.scripts = append([]Script{{Tag: T("zyyy"), DefaultLangSys: dflt}}, gsub.scripts...)
	gsub.SetScript(Script{
		Tag:            T("latn"),
		DefaultLangSys: dflt,
		LangSys:        []LangSysRecord{{Tag: T("DEU "), LangSys: LangSys{FeatureIndices: []uint16{0}}}},
	})
	again, _ := reparse(t, otf)
	scripts := again.GSub().Scripts()
	require.Len(t, scripts, 2, "script latn must not be duplicated")
	assert.Equal(t, T("latn"), scripts[0].Tag)
	assert.Equal(t, T("zyyy"), scripts[1].Tag)
	assert.Len(t, scripts[0].LangSys, 1, "script latn has been replaced")
}
