package otquery

import (
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
	"golang.org/x/image/font/sfnt"
)

// --- Test Suite Preparation ------------------------------------------------

type InfoTestEnviron struct {
	suite.Suite
	otf *ot.Font
}

// listen for 'go test' command --> run test methods
func TestInfoFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	suite.Run(t, new(InfoTestEnviron))
}

// run once, before test suite methods
func (env *InfoTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("tyse.fonts").SetTraceLevel(tracing.LevelError)
	otf, err := ot.Parse(testfont.Build(testfont.Options{GSUB: true}))
	env.Require().NoError(err)
	env.Require().Empty(otf.Errors())
	env.otf = otf
	tracing.Select("tyse.fonts").SetTraceLevel(tracing.LevelInfo)
}

// run once, after test suite methods
func (env *InfoTestEnviron) TearDownSuite() {
	env.T().Log("Tearing down test suite")
}

// --- Tests -----------------------------------------------------------------

func (env *InfoTestEnviron) TestFontTypeInfo() {
	fti := FontType(env.otf)
	env.Equal("TrueType", fti, "expected font type of test font to be TrueType")
	env.Equal("OpenType", FontType(ot.New(ot.CFFFont)))
	env.Equal("unknown", FontType(nil))
}

func (env *InfoTestEnviron) TestGeneralInfo() {
	info := NameInfo(env.otf)
	env.T().Logf("info = %v", info)
	fam, ok := info["family"]
	env.Require().True(ok, "font familiy identifier not found in font info")
	env.Equal(testfont.FamilyName, fam)
	env.Equal("Regular", info["subfamily"])
	env.Len(info, 2)
}

func (env *InfoTestEnviron) TestNamesRange() {
	var ids []sfnt.NameID
	for id := range NamesRange(env.otf) {
		ids = append(ids, id)
	}
	env.Equal([]sfnt.NameID{sfnt.NameIDFamily, sfnt.NameIDSubfamily}, ids)
	for range NamesRange(ot.New(ot.TrueTypeFont)) {
		env.Fail("font without name table should not yield names")
	}
}

func (env *InfoTestEnviron) TestHeadInfo() {
	h, ok := HeadInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'head'")
	env.Equal(uint16(0x000B), h.Flags, "expected matching Flags")
	env.Equal(uint16(testfont.UnitsPerEm), h.UnitsPerEm, "expected matching UnitsPerEm")
	env.Equal(int16(0), h.IndexToLocFormat, "expected short loca format")
	env.Equal(uint16(8), h.LowestRecPPEM)
	env.Equal(1.0, h.FontRevision)
	env.Equal(int16(1150), h.XMax)
	env.True(h.Modified.Equal(h.Created))
	_, ok = HeadInfo(ot.New(ot.TrueTypeFont))
	env.False(ok)
}

func (env *InfoTestEnviron) TestMaxPInfo() {
	m, ok := MaxPInfo(env.otf)
	env.Require().True(ok, "expected to decode table 'maxp'")
	env.Equal(uint16(testfont.NumGlyph), m.NumGlyphs, "expected matching numGlyphs")
	env.Equal("1", m.Version.String())
	env.True(m.HasExtendedProfile)
	env.Equal(uint16(5), m.MaxPoints)
	env.Equal(uint16(2), m.MaxZones)
	env.Equal(uint16(2), m.MaxComponentElements)
	env.Equal(uint16(1), m.MaxComponentDepth)
}

func (env *InfoTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.otf)
	env.Equal(sfnt.Units(testfont.UnitsPerEm), m.UnitsPerEm)
	env.Equal(sfnt.Units(testfont.Ascender), m.Ascent)
	env.Equal(sfnt.Units(testfont.Descender), m.Descent)
	env.Equal(sfnt.Units(700), m.MaxAdvance)
	env.Equal(sfnt.Units(500), m.XHeight)
	env.Equal(sfnt.Units(700), m.CapHeight)
}

func (env *InfoTestEnviron) TestLayoutInfo() {
	layouts := LayoutTables(env.otf)
	env.T().Logf("test font layout tables: %v", layouts)
	env.Equal([]string{"GSUB"}, layouts)
}

func (env *InfoTestEnviron) TestScriptSupport() {
	scr, lang := FontSupportsScript(env.otf, ot.T("latn"), ot.T("DEU "))
	env.Equal(ot.T("latn"), scr)
	env.Equal(DFLT, lang)
	scr, lang = FontSupportsScript(env.otf, ot.T("cyrl"), ot.T("SRB "))
	env.Equal(DFLT, scr)
	env.Equal(DFLT, lang)
}

func (env *InfoTestEnviron) TestGlyphIndex() {
	env.Equal(ot.GlyphIndex(testfont.GlyphC), GlyphIndex(env.otf, 'C'))
	env.Equal(ot.GlyphIndex(0), GlyphIndex(env.otf, 'Z'))
}

func (env *InfoTestEnviron) TestReverseLookup() {
	r := CodePointForGlyph(env.otf, testfont.GlyphB)
	env.Equal('B', r, "expected code-point to be %#U, is %#U", 'B', r)
	env.Equal(rune(0), CodePointForGlyph(env.otf, 0))
}

func (env *InfoTestEnviron) TestGlyphMetrics() {
	a := GlyphMetrics(env.otf, testfont.GlyphA)
	env.Equal(sfnt.Units(600), a.Advance)
	env.Equal(BoundingBox{MinX: 0, MinY: 0, MaxX: 500, MaxY: 700}, a.BBox)
	env.Equal(sfnt.Units(100), a.RSB)
	b := GlyphMetrics(env.otf, testfont.GlyphB)
	env.Equal(sfnt.Units(50), b.LSB)
	env.Equal(sfnt.Units(150), b.RSB)
	notdef := GlyphMetrics(env.otf, testfont.NotDef)
	env.True(notdef.BBox.IsEmpty())
	env.Zero(notdef.RSB)
}
