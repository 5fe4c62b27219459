package ot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/npillmayer/fonttools/otbin"
)

// Code comment often will cite passage from the
// OpenType specification version 1.9;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Maximum reasonable counts for OpenType table structures.
// These limits prevent malicious fonts from claiming unreasonably large counts
// that could lead to excessive memory allocation or out-of-bounds reads.
const (
	MaxTableCount     = 512   // Tables in the table directory
	MaxScriptCount    = 256   // Scripts: typically < 10
	MaxFeatureCount   = 2000  // Features: typically < 200
	MaxLookupCount    = 5000  // Lookups: typically < 100
	MaxTagListCount   = 512   // LangSys records per script
	MaxGlyphCount     = 65536 // Maximum glyph index (uint16)
	MaxRecordMapCount = 10000 // Generic record arrays (name records, cmap encodings, gasp ranges)
)

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

// Parse parses an OpenType font from a byte slice, using the default table registry.
//
// Tables are decoded from sub-slices of font, which therefore must not be modified
// while the Font is in use. Only problems with the font header or the table
// directory make Parse fail. Problems with individual tables are collected as
// diagnostics (see Font.Errors and Font.Warnings), with the table in question
// kept as a raw table.
func Parse(font []byte, opts ...ParseOption) (*Font, error) {
	return ParseWith(DefaultRegistry(), font, opts...)
}

// ParseWith parses an OpenType font from a byte slice, using a client-supplied table
// registry. See Parse.
func ParseWith(reg *Registry, font []byte, opts ...ParseOption) (*Font, error) {
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	r := bytes.NewReader(font)
	h := FontHeader{}
	if err := binary.Read(r, binary.BigEndian, &h); err != nil {
		return nil, fmt.Errorf("reading font header: %w", otbin.ErrTruncated)
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())

	// Create error collector for accumulating errors during parsing
	ec := &errorCollector{}

	if !(h.FontType == CFFFont || h.FontType == TrueTypeFont || h.FontType == AppleTrueType) {
		return nil, errFontFormat(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount > MaxTableCount {
		return nil, errFontFormat(fmt.Sprintf("table count %d too large", h.TableCount))
	}
	otf := &Font{
		Header:       &h,
		tables:       make(map[Tag]Table),
		registry:     reg,
		parseOptions: opts,
	}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	tableRecordsSize, err := checkedMulInt(16, int(h.TableCount))
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("table count too large: %v", err))
	}
	dir, err := otbin.NewReader(font).Sub(12 + tableRecordsSize)
	if err != nil {
		return nil, fmt.Errorf("table directory of %d entries: %w", h.TableCount, err)
	}
	_ = dir.Skip(12)
	for i := 0; i < int(h.TableCount); i++ {
		rec, err := readTableRecord(dir, font)
		if err != nil {
			return nil, err
		}
		if _, dup := otf.tables[rec.Tag]; dup {
			return nil, errFontFormat(fmt.Sprintf("duplicate table %s", rec.Tag))
		}
		if rec.Offset&3 != 0 && !otf.hasOption(IsTestfont) {
			// "all tables must begin on four byte boundries"
			return nil, errFontFormat(fmt.Sprintf("table %s: offset %d not 4-byte aligned", rec.Tag, rec.Offset))
		}
		if i > 0 && rec.Tag < otf.directory[i-1].Tag {
			ec.addWarning(rec.Tag, "table directory not sorted by tag", 12+uint32(i)*16)
		}
		b := font[rec.Offset : rec.Offset+rec.Length]
		if sum := tableChecksum(rec.Tag, b); sum != rec.Checksum {
			err := fmt.Errorf("table %s: computed checksum %08x, directory has %08x: %w",
				rec.Tag, sum, rec.Checksum, ErrChecksumMismatch)
			if otf.hasOption(StrictChecksums) {
				return nil, err
			}
			ec.addError(rec.Tag, "Checksum", err, SeverityMinor, rec.Offset)
		}
		otf.directory = append(otf.directory, rec)
		otf.tables[rec.Tag] = newRawTable(rec.Tag, b, rec.Offset)
	}
	if !otf.hasOption(KeepRaw) {
		otf.diag = ec
		otf.decodeTables(ec)
		otf.diag = nil
	}
	checkRequiredTables(otf, ec)

	// Transfer accumulated errors and warnings to the Font
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	return otf, nil
}

func readTableRecord(dir *otbin.Reader, font []byte) (TableRecord, error) {
	var rec TableRecord
	var err error
	at := uint32(dir.Offset())
	if rec.Tag, err = dir.Tag(); err != nil {
		return rec, err
	}
	rec.Checksum, _ = dir.U32()
	rec.Offset, _ = dir.U32()
	rec.Length, _ = dir.U32()
	tableEnd, err := checkedAddUint32(rec.Offset, rec.Length)
	if err != nil {
		return rec, errFontFormat(fmt.Sprintf("table %s: size calculation overflow: %v", rec.Tag, err))
	}
	// Validate table bounds before slicing to prevent panic
	if tableEnd > uint32(len(font)) {
		return rec, fmt.Errorf("table %s (directory entry at %d): bounds [%d:%d] exceed font size %d: %w",
			rec.Tag, at, rec.Offset, tableEnd, len(font), otbin.ErrTruncated)
	}
	return rec, nil
}

// decodeTables decodes all tables known to the registry, level by level.
// Tables failing to decode are kept raw, and so are tables depending on them.
func (otf *Font) decodeTables(ec *errorCollector) {
	levels, unresolved := otf.Registry().levels(otf.TableTags())
	for _, tag := range unresolved {
		spec, _ := otf.registry.Lookup(tag)
		for _, req := range spec.Requires {
			if otf.tables[req] == nil {
				err := fmt.Errorf("table %s requires table %s: %w", tag, req, otbin.ErrMissingSubtable)
				ec.addError(tag, "Requirements", err, SeverityMajor, 0)
				break
			}
		}
	}
	for l, tags := range levels {
		tracer().Debugf("decoding tables of level %d: %v", l, tags)
		for _, tag := range tags {
			otf.decodeTable(tag, ec)
		}
	}
}

func (otf *Font) decodeTable(tag Tag, ec *errorCollector) {
	spec, ok := otf.registry.Lookup(tag)
	if !ok {
		tracer().Debugf("table %s not interpreted", tag)
		return
	}
	raw := otf.tables[tag].Self().AsRaw()
	for _, req := range spec.Requires {
		if otf.tables[req].Self().AsRaw() != nil {
			err := fmt.Errorf("table %s requires table %s, which could not be decoded: %w",
				tag, req, otbin.ErrMissingSubtable)
			ec.addError(tag, "Requirements", err, SeverityMajor, raw.offset)
			return
		}
	}
	if min := spec.minSize(); len(raw.data) < min {
		err := fmt.Errorf("table %s has %d bytes, needs %d: %w", tag, len(raw.data), min, otbin.ErrTruncated)
		ec.addError(tag, "Size", err, SeverityMajor, raw.offset)
		return
	}
	t, err := spec.Decode(otf, tag, raw.data, raw.offset)
	if err == nil && t == nil {
		err = fmt.Errorf("table %s: decoder returned no table", tag)
	}
	if err != nil {
		tracer().Infof("table %s kept raw: %v", tag, err)
		ec.addError(tag, "Decode", err, SeverityMajor, raw.offset)
		return
	}
	otf.tables[tag] = t
}

// According to the OpenType spec, the following tables are
// required for the font to function correctly.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
}

// checkRequiredTables issues warnings for missing required tables. Fonts which
// are known to be incomplete may relax this with option IsTestfont.
func checkRequiredTables(otf *Font, ec *errorCollector) {
	if otf.hasOption(IsTestfont) {
		return
	}
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			ec.addWarning(T(tag), "missing required table", 0)
		}
	}
	if otf.Header.FontType != CFFFont && otf.tables[TagGlyf] == nil && otf.tables[T("CFF ")] == nil {
		ec.addWarning(TagGlyf, "TrueType font without glyf table", 0)
	}
}
