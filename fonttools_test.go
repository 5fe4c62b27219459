package fonttools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/fonttools/internal/testfont"
	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndSaveFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	dir := t.TempDir()
	in := filepath.Join(dir, "test.ttf")
	require.NoError(t, os.WriteFile(in, testfont.Default(), 0o644))
	otf, err := Open(in)
	require.NoError(t, err)
	family, subfamily := FamilyName(otf)
	assert.Equal(t, testfont.FamilyName, family)
	assert.Equal(t, "Regular", subfamily)

	require.NoError(t, otf.Names().SetName(ot.NameFamily, "Renamed"))
	out := filepath.Join(dir, "renamed.ttf")
	require.NoError(t, SaveFile(otf, out))
	again, err := Open(out)
	require.NoError(t, err)
	family, _ = FamilyName(again)
	assert.Equal(t, "Renamed", family)
	assert.Empty(t, again.Errors())
}

func TestFromBinary(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf, err := FromBinary(testfont.Default())
	require.NoError(t, err)
	assert.NotNil(t, otf.Head())
	_, err = FromBinary([]byte("not a font"))
	assert.Error(t, err)
	_, err = Open(filepath.Join(t.TempDir(), "missing.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveFileKeepsExistingFileOnError(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf, err := FromBinary(testfont.Default())
	require.NoError(t, err)
	_, err = otf.Glyf().AppendGlyph(nil) // glyph count now disagrees with hmtx
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(out, []byte("old"), 0o644))
	assert.ErrorIs(t, SaveFile(otf, out), ot.ErrInconsistentGlyphData)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "old", string(b))
}
