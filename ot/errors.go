package ot

import (
	"errors"
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

// Error kinds. Errors returned by package ot wrap one of these or one of the
// error kinds of package otbin (ErrTruncated, ErrMissingSubtable, ErrOffsetOverflow,
// ErrUnresolvedOffset). Use errors.Is to test for them, on returned errors as well
// as on the FontErrors collected during parsing.
var (
	// ErrMalformedHeader flags a bad font version tag or an inconsistent table directory.
	ErrMalformedHeader = errors.New("malformed font header")
	// ErrChecksumMismatch flags a table whose checksum differs from the directory entry.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnsupportedTableVersion flags a known table with a version this package
	// does not understand.
	ErrUnsupportedTableVersion = errors.New("unsupported table version")
	// ErrInconsistentGlyphData flags disagreeing glyph counts or locations in
	// tables loca, glyf, maxp, hmtx or gvar.
	ErrInconsistentGlyphData = errors.New("inconsistent glyph data")
	// ErrTruncated is otbin.ErrTruncated, re-exported for convenience.
	ErrTruncated = otbin.ErrTruncated
)

// ErrorSeverity represents the severity level of a font parsing error.
type ErrorSeverity int

const (
	// SeverityCritical indicates a severe error that makes the font unusable or unreliable.
	SeverityCritical ErrorSeverity = iota
	// SeverityMajor indicates a significant error that may affect functionality but doesn't prevent usage.
	SeverityMajor
	// SeverityMinor indicates a minor issue that can be safely ignored in most cases.
	SeverityMinor
)

// String returns a human-readable representation of the error severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityCritical:
		return "CRITICAL"
	case SeverityMajor:
		return "MAJOR"
	case SeverityMinor:
		return "MINOR"
	default:
		return "UNKNOWN"
	}
}

// FontError represents an error encountered during font parsing.
// Errors are accumulated during initial parsing and can be inspected after parsing completes.
type FontError struct {
	Table    Tag           // The OpenType table where the error occurred (e.g., "glyf", "GPOS")
	Section  string        // Specific section within the table (e.g., "Checksum", "ScriptList")
	Issue    string        // Human-readable description of the issue
	Severity ErrorSeverity // Severity level of the error
	Offset   uint32        // Byte offset in the font file where the error occurred (0 if unknown)
	Err      error         // Error kind, if any
}

// Error implements the error interface.
func (e FontError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("[%s] %s/%s at offset %d: %s", e.Severity, e.Table, e.Section, e.Offset, e.Issue)
	}
	return fmt.Sprintf("[%s] %s/%s: %s", e.Severity, e.Table, e.Section, e.Issue)
}

// Unwrap returns the error kind of e.
func (e FontError) Unwrap() error {
	return e.Err
}

// FontWarning represents a non-critical issue encountered during font parsing.
// Warnings indicate potential problems but do not prevent font usage.
type FontWarning struct {
	Table  Tag    // The OpenType table where the warning occurred
	Issue  string // Human-readable description of the warning
	Offset uint32 // Byte offset in the font file where the warning occurred (0 if unknown)
}

// String returns a human-readable representation of the warning.
func (w FontWarning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("[WARNING] %s at offset %d: %s", w.Table, w.Offset, w.Issue)
	}
	return fmt.Sprintf("[WARNING] %s: %s", w.Table, w.Issue)
}

// errorCollector accumulates errors and warnings during font parsing.
// This is an internal helper used by the parser to collect issues as they are discovered.
type errorCollector struct {
	errors   []FontError
	warnings []FontWarning
}

// addError records a parsing error.
func (ec *errorCollector) addError(table Tag, section string, err error, severity ErrorSeverity, offset uint32) {
	ec.errors = append(ec.errors, FontError{
		Table:    table,
		Section:  section,
		Issue:    err.Error(),
		Severity: severity,
		Offset:   offset,
		Err:      err,
	})
}

// addWarning records a parsing warning.
func (ec *errorCollector) addWarning(table Tag, issue string, offset uint32) {
	ec.warnings = append(ec.warnings, FontWarning{
		Table:  table,
		Issue:  issue,
		Offset: offset,
	})
}

// errFontFormat produces user level errors for malformed font headers and directories.
func errFontFormat(message string) error {
	return fmt.Errorf("OpenType font format: %s: %w", message, ErrMalformedHeader)
}

// errTableVersion produces errors for unsupported table versions.
func errTableVersion(tag Tag, version any) error {
	return fmt.Errorf("table %s version %v: %w", tag, version, ErrUnsupportedTableVersion)
}

// errGlyphData produces errors for inconsistent glyph data.
func errGlyphData(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInconsistentGlyphData)...)
}
