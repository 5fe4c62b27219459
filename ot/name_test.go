package ot

import (
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameLookup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	names := otf.Names()
	assert.Equal(t, testfont.FamilyName, names.Name(NameFamily))
	assert.Equal(t, "Regular", names.Name(NameSubfamily))
	assert.Equal(t, "", names.Name(NameLicense))
	assert.Len(t, names.Records(), 2)
}

func TestNameEncodings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, tc := range []struct {
		platform, encoding uint16
		s                  string
		binary             []byte
	}{
		{PlatformMac, 0, "Café", []byte{'C', 'a', 'f', 0x8E}},
		{PlatformWindows, windowsUnicodeBMP, "Aé", []byte{0, 'A', 0, 0xE9}},
		{PlatformUnicode, 4, "😀", []byte{0xD8, 0x3D, 0xDE, 0x00}},
		{PlatformMac, 1, "フォント", nil},
		{PlatformWindows, 3, "字体", nil},
		{PlatformWindows, 5, "한글", nil},
	} {
		rec, err := NewNameRecord(tc.platform, tc.encoding, 0, NameFamily, tc.s)
		require.NoError(t, err, tc.s)
		if tc.binary != nil {
			assert.Equal(t, tc.binary, rec.Value, tc.s)
		}
		s, err := rec.Text()
		require.NoError(t, err, tc.s)
		assert.Equal(t, tc.s, s)
	}
	_, err := NewNameRecord(PlatformMac, 99, 0, NameFamily, "x")
	assert.Error(t, err, "unknown Macintosh encoding")
}

func TestNameModifications(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestfont(t, testfont.Options{})
	names := otf.Names()
	require.NoError(t, names.SetName(NameFamily, "Tëst Sans"))
	mac, err := NewNameRecord(PlatformMac, 0, 0, NameFamily, "Tëst Sans Mac")
	require.NoError(t, err)
	names.SetRecord(mac)
	require.NoError(t, names.SetName(NameSampleText, "The quick brown fox"))
	assert.Equal(t, 1, names.RemoveName(NameSubfamily))
	assert.Equal(t, 0, names.RemoveName(NameSubfamily))

	again, _ := reparse(t, otf)
	names = again.Names()
	assert.Equal(t, "Tëst Sans", names.Name(NameFamily), "Windows records are preferred")
	assert.Equal(t, "The quick brown fox", names.Name(NameSampleText))
	assert.Equal(t, "", names.Name(NameSubfamily))
	recs := names.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, PlatformMac, recs[0].PlatformID, "records are sorted")
	text, err := recs[0].Text()
	require.NoError(t, err)
	assert.Equal(t, "Tëst Sans Mac", text)
}

func TestNameStorageIsShared(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	names := NewNameTable()
	require.NoError(t, names.SetName(NameFamily, "Shared"))
	require.NoError(t, names.SetName(NameFull, "Shared"))
	require.NoError(t, names.SetName(NameTypographicFamily, "Shared"))
	b, err := encodeName(names, otbin.Packer{Share: true})
	require.NoError(t, err)
	assert.Len(t, b, 6+3*12+len("Shared")*2)
	unshared, err := encodeName(names, otbin.Packer{})
	require.NoError(t, err)
	assert.Len(t, unshared, 6+3*12+3*len("Shared")*2)
}

func TestNameVersion1(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	family := utf16Bytes("Schrift")
	lang := utf16Bytes("de-CH")
	w := otbin.NewWriter(0)
	w.U16(1) // version
	w.U16(1) // count
	w.U16(6 + 12 + 2 + 4)
	w.U16(PlatformWindows)
	w.U16(windowsUnicodeBMP)
	w.U16(0x8000) // first language tag
	w.U16(uint16(NameFamily))
	w.U16(uint16(len(family)))
	w.U16(0)
	w.U16(1) // langTagCount
	w.U16(uint16(len(lang)))
	w.U16(uint16(len(family)))
	w.Write(family)
	w.Write(lang)
	b := testfont.Build(testfont.Options{Extra: map[otbin.Tag][]byte{TagName: w.Bytes()}})
	otf, err := Parse(b)
	require.NoError(t, err)
	require.Empty(t, otf.Errors())
	names := otf.Names()
	assert.Equal(t, []string{"de-CH"}, names.LanguageTags())
	assert.Equal(t, "Schrift", names.Name(NameFamily))
	require.NoError(t, names.SetName(NameFamily, "Font"))
	again, _ := reparse(t, otf)
	assert.Equal(t, []string{"de-CH"}, again.Names().LanguageTags())
	assert.Equal(t, "Font", again.Names().Name(NameFamily))
}

func utf16Bytes(s string) []byte {
	b, err := utf16BE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		panic(err)
	}
	return b
}
