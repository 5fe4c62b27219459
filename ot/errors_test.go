package ot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorSeverity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	assert.Equal(t, "CRITICAL", SeverityCritical.String())
	assert.Equal(t, "MAJOR", SeverityMajor.String())
	assert.Equal(t, "MINOR", SeverityMinor.String())
	assert.Equal(t, "UNKNOWN", ErrorSeverity(999).String())
}

func TestFontErrorFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	tests := []struct {
		err      FontError
		expected string
	}{
		{FontError{Table: T("loca"), Section: "Decode", Issue: "offsets not monotone",
			Severity: SeverityMajor, Offset: 1234},
			"[MAJOR] loca/Decode at offset 1234: offsets not monotone"},
		{FontError{Table: T("hhea"), Section: "Checksum", Issue: "mismatch",
			Severity: SeverityMinor},
			"[MINOR] hhea/Checksum: mismatch"},
		{FontError{Table: T("glyf"), Section: "Requirements", Issue: "no loca",
			Severity: SeverityCritical},
			"[CRITICAL] glyf/Requirements: no loca"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.err.Error())
	}
	w := FontWarning{Table: T("cmap"), Issue: "table directory not sorted by tag", Offset: 28}
	assert.Equal(t, "[WARNING] cmap at offset 28: table directory not sorted by tag", w.String())
	w.Offset = 0
	assert.Equal(t, "[WARNING] cmap: table directory not sorted by tag", w.String())
}

func TestErrorCollector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	ec := &errorCollector{}
	require.Empty(t, ec.errors)
	require.Empty(t, ec.warnings)
	//
	ec.addError(T("head"), "Checksum", fmt.Errorf("head: %w", ErrChecksumMismatch), SeverityMinor, 100)
	ec.addError(T("glyf"), "Decode", errGlyphData("glyph %d beyond glyf", 7), SeverityMajor, 200)
	ec.addWarning(T("OS/2"), "missing required table", 0)
	require.Len(t, ec.errors, 2)
	require.Len(t, ec.warnings, 1)
	assert.Equal(t, "head: checksum mismatch", ec.errors[0].Issue)
	assert.ErrorIs(t, ec.errors[0], ErrChecksumMismatch)
	assert.ErrorIs(t, ec.errors[1], ErrInconsistentGlyphData)
	assert.False(t, errors.Is(ec.errors[0], ErrInconsistentGlyphData))
	assert.Contains(t, ec.errors[1].Issue, "glyph 7 beyond glyf")
}

func TestErrorKinds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	assert.ErrorIs(t, errFontFormat("bad"), ErrMalformedHeader)
	assert.ErrorIs(t, errTableVersion(T("post"), "9.0"), ErrUnsupportedTableVersion)
	assert.ErrorIs(t, ErrTruncated, otbin.ErrTruncated)
}

func TestFontDiagnostics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := &Font{
		parseErrors: []FontError{
			{Table: T("head"), Section: "Checksum", Severity: SeverityMinor, Offset: 100},
			{Table: T("glyf"), Section: "Decode", Severity: SeverityCritical, Offset: 200},
			{Table: T("gvar"), Section: "Requirements", Severity: SeverityMajor, Offset: 300},
		},
		parseWarnings: []FontWarning{{Table: T("post"), Issue: "missing required table"}},
	}
	assert.Len(t, otf.Errors(), 3)
	assert.Len(t, otf.Warnings(), 1)
	critical := otf.CriticalErrors()
	require.Len(t, critical, 1)
	assert.Equal(t, T("glyf"), critical[0].Table)
	assert.True(t, otf.HasCriticalErrors())
	//
	empty := &Font{}
	assert.Empty(t, empty.Errors())
	assert.Empty(t, empty.Warnings())
	assert.Empty(t, empty.CriticalErrors())
	assert.False(t, empty.HasCriticalErrors())
}
