package ot

import "github.com/npillmayer/fonttools/otbin"

var os2SchemaV0 = otbin.NewSchema("OS/2",
	otbin.F("version", otbin.KindUint16),
	otbin.F("xAvgCharWidth", otbin.KindFWord),
	otbin.F("usWeightClass", otbin.KindUint16),
	otbin.F("usWidthClass", otbin.KindUint16),
	otbin.F("fsType", otbin.KindUint16),
	otbin.F("ySubscriptXSize", otbin.KindFWord),
	otbin.F("ySubscriptYSize", otbin.KindFWord),
	otbin.F("ySubscriptXOffset", otbin.KindFWord),
	otbin.F("ySubscriptYOffset", otbin.KindFWord),
	otbin.F("ySuperscriptXSize", otbin.KindFWord),
	otbin.F("ySuperscriptYSize", otbin.KindFWord),
	otbin.F("ySuperscriptXOffset", otbin.KindFWord),
	otbin.F("ySuperscriptYOffset", otbin.KindFWord),
	otbin.F("yStrikeoutSize", otbin.KindFWord),
	otbin.F("yStrikeoutPosition", otbin.KindFWord),
	otbin.F("sFamilyClass", otbin.KindInt16),
	otbin.F("panose0", otbin.KindUint8),
	otbin.F("panose1", otbin.KindUint8),
	otbin.F("panose2", otbin.KindUint8),
	otbin.F("panose3", otbin.KindUint8),
	otbin.F("panose4", otbin.KindUint8),
	otbin.F("panose5", otbin.KindUint8),
	otbin.F("panose6", otbin.KindUint8),
	otbin.F("panose7", otbin.KindUint8),
	otbin.F("panose8", otbin.KindUint8),
	otbin.F("panose9", otbin.KindUint8),
	otbin.F("ulUnicodeRange1", otbin.KindUint32),
	otbin.F("ulUnicodeRange2", otbin.KindUint32),
	otbin.F("ulUnicodeRange3", otbin.KindUint32),
	otbin.F("ulUnicodeRange4", otbin.KindUint32),
	otbin.F("achVendID", otbin.KindTag),
	otbin.F("fsSelection", otbin.KindUint16),
	otbin.F("usFirstCharIndex", otbin.KindUint16),
	otbin.F("usLastCharIndex", otbin.KindUint16),
	otbin.F("sTypoAscender", otbin.KindFWord),
	otbin.F("sTypoDescender", otbin.KindFWord),
	otbin.F("sTypoLineGap", otbin.KindFWord),
	otbin.F("usWinAscent", otbin.KindUFWord),
	otbin.F("usWinDescent", otbin.KindUFWord),
)

var os2SchemaV1 = os2SchemaV0.Extend("OS/2 v1",
	otbin.F("ulCodePageRange1", otbin.KindUint32),
	otbin.F("ulCodePageRange2", otbin.KindUint32),
)

var os2SchemaV2 = os2SchemaV1.Extend("OS/2 v2",
	otbin.F("sxHeight", otbin.KindFWord),
	otbin.F("sCapHeight", otbin.KindFWord),
	otbin.F("usDefaultChar", otbin.KindUint16),
	otbin.F("usBreakChar", otbin.KindUint16),
	otbin.F("usMaxContext", otbin.KindUint16),
)

var os2SchemaV5 = os2SchemaV2.Extend("OS/2 v5",
	otbin.F("usLowerOpticalPointSize", otbin.KindUint16),
	otbin.F("usUpperOpticalPointSize", otbin.KindUint16),
)

// os2Schema returns the schema for a table version; versions 2, 3 and 4 share
// their layout.
func os2Schema(version uint16) *otbin.Schema {
	switch version {
	case 0:
		return os2SchemaV0
	case 1:
		return os2SchemaV1
	case 2, 3, 4:
		return os2SchemaV2
	case 5:
		return os2SchemaV5
	}
	return nil
}

func os2Sizes() []int {
	return []int{os2SchemaV0.Size(), os2SchemaV1.Size(), os2SchemaV2.Size(), os2SchemaV5.Size()}
}

// OS2Table consists of a set of metrics and other data that are required in OpenType fonts.
// Frequently used fields are accessible by methods, all the other fields through
// Fields(), using the field names of the OpenType specification.
type OS2Table struct {
	schemaTable
}

// NewOS2Table creates an OS/2 table of version 4, with weight class 400 (regular)
// and width class 5 (medium).
func NewOS2Table() *OS2Table {
	t := &OS2Table{newSchemaTable(os2SchemaV2, TagOS2)}
	t.rec.MustSet("version", 4)
	t.rec.MustSet("usWeightClass", 400)
	t.rec.MustSet("usWidthClass", 5)
	t.self = t
	return t
}

func decodeOS2(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	version, _, err := otbin.Decode[uint16](b, 0)
	if err != nil {
		return nil, err
	}
	schema := os2Schema(version)
	if schema == nil {
		return nil, errTableVersion(tag, version)
	}
	st, err := decodeSchemaTable(schema, tag, b, offset)
	if err != nil {
		return nil, err
	}
	t := &OS2Table{st}
	t.self = t
	return t, nil
}

// Version returns the table version (0 … 5).
func (t *OS2Table) Version() uint16 { return t.rec.U16("version") }

// WeightClass returns the visual weight of the font, 100 … 900.
func (t *OS2Table) WeightClass() uint16 { return t.rec.U16("usWeightClass") }

// WidthClass returns the relative width of the font, 1 … 9.
func (t *OS2Table) WidthClass() uint16 { return t.rec.U16("usWidthClass") }

// FsSelection returns the font selection flags (italic, bold, regular, use typo metrics, …).
func (t *OS2Table) FsSelection() uint16 { return t.rec.U16("fsSelection") }

// VendorID returns the registered font vendor tag.
func (t *OS2Table) VendorID() Tag { return t.rec.Tag("achVendID") }

// TypoAscender returns the typographic ascender.
func (t *OS2Table) TypoAscender() int16 { return t.rec.I16("sTypoAscender") }

// TypoDescender returns the typographic descender.
func (t *OS2Table) TypoDescender() int16 { return t.rec.I16("sTypoDescender") }

// TypoLineGap returns the typographic line gap.
func (t *OS2Table) TypoLineGap() int16 { return t.rec.I16("sTypoLineGap") }

// WinAscent returns the ascender metric for Windows clipping.
func (t *OS2Table) WinAscent() uint16 { return t.rec.U16("usWinAscent") }

// WinDescent returns the descender metric for Windows clipping.
func (t *OS2Table) WinDescent() uint16 { return t.rec.U16("usWinDescent") }

// XHeight returns the height of lowercase x. Tables before version 2 do not carry it.
func (t *OS2Table) XHeight() Option[int16] {
	if !t.rec.Schema().Has("sxHeight") {
		return None[int16]()
	}
	return Some(t.rec.I16("sxHeight"))
}

// CapHeight returns the height of uppercase letters. Tables before version 2 do not carry it.
func (t *OS2Table) CapHeight() Option[int16] {
	if !t.rec.Schema().Has("sCapHeight") {
		return None[int16]()
	}
	return Some(t.rec.I16("sCapHeight"))
}
