package ot

import "github.com/npillmayer/fonttools/otbin"

const hheaSize = 36

var hheaSchema = otbin.NewSchema("hhea",
	otbin.F("majorVersion", otbin.KindUint16),
	otbin.F("minorVersion", otbin.KindUint16),
	otbin.F("ascender", otbin.KindFWord),
	otbin.F("descender", otbin.KindFWord),
	otbin.F("lineGap", otbin.KindFWord),
	otbin.F("advanceWidthMax", otbin.KindUFWord),
	otbin.F("minLeftSideBearing", otbin.KindFWord),
	otbin.F("minRightSideBearing", otbin.KindFWord),
	otbin.F("xMaxExtent", otbin.KindFWord),
	otbin.F("caretSlopeRise", otbin.KindInt16),
	otbin.F("caretSlopeRun", otbin.KindInt16),
	otbin.F("caretOffset", otbin.KindInt16),
	otbin.F("reserved0", otbin.KindInt16),
	otbin.F("reserved1", otbin.KindInt16),
	otbin.F("reserved2", otbin.KindInt16),
	otbin.F("reserved3", otbin.KindInt16),
	otbin.F("metricDataFormat", otbin.KindInt16),
	otbin.F("numberOfHMetrics", otbin.KindUint16),
)

// HHeaTable contains information for horizontal layout.
// numberOfHMetrics is derived from table hmtx by Font.Save.
type HHeaTable struct {
	schemaTable
}

// NewHHeaTable creates a hhea table, version 1.0.
func NewHHeaTable(ascender, descender, lineGap int16) *HHeaTable {
	t := &HHeaTable{newSchemaTable(hheaSchema, TagHHea)}
	t.rec.MustSet("majorVersion", 1)
	t.rec.MustSet("ascender", int64(ascender))
	t.rec.MustSet("descender", int64(descender))
	t.rec.MustSet("lineGap", int64(lineGap))
	t.rec.MustSet("caretSlopeRise", 1)
	t.self = t
	return t
}

func decodeHHea(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	st, err := decodeSchemaTable(hheaSchema, tag, b, offset)
	if err != nil {
		return nil, err
	}
	t := &HHeaTable{st}
	t.self = t
	if v := t.rec.U16("majorVersion"); v != 1 {
		return nil, errTableVersion(tag, v)
	}
	return t, nil
}

// Ascender returns the typographic ascent.
func (t *HHeaTable) Ascender() int16 { return t.rec.I16("ascender") }

// Descender returns the typographic descent (usually negative).
func (t *HHeaTable) Descender() int16 { return t.rec.I16("descender") }

// LineGap returns the typographic line gap.
func (t *HHeaTable) LineGap() int16 { return t.rec.I16("lineGap") }

// AdvanceWidthMax returns the maximum advance width value in table hmtx.
func (t *HHeaTable) AdvanceWidthMax() uint16 { return t.rec.U16("advanceWidthMax") }

// NumberOfHMetrics returns the number of long metrics in table hmtx.
func (t *HHeaTable) NumberOfHMetrics() int { return int(t.rec.U16("numberOfHMetrics")) }
