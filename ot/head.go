package ot

import (
	"time"

	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/outline"
)

const (
	headSize  = 54
	headMagic = 0x5F0F3CF5
)

var headSchema = otbin.NewSchema("head",
	otbin.F("majorVersion", otbin.KindUint16),
	otbin.F("minorVersion", otbin.KindUint16),
	otbin.F("fontRevision", otbin.KindFixed),
	otbin.F("checksumAdjustment", otbin.KindUint32),
	otbin.F("magicNumber", otbin.KindUint32),
	otbin.F("flags", otbin.KindUint16),
	otbin.F("unitsPerEm", otbin.KindUint16),
	otbin.F("created", otbin.KindDateTime),
	otbin.F("modified", otbin.KindDateTime),
	otbin.F("xMin", otbin.KindInt16),
	otbin.F("yMin", otbin.KindInt16),
	otbin.F("xMax", otbin.KindInt16),
	otbin.F("yMax", otbin.KindInt16),
	otbin.F("macStyle", otbin.KindUint16),
	otbin.F("lowestRecPPEM", otbin.KindUint16),
	otbin.F("fontDirectionHint", otbin.KindInt16),
	otbin.F("indexToLocFormat", otbin.KindInt16),
	otbin.F("glyphDataFormat", otbin.KindInt16),
)

// HeadTable gives global information about the font.
// Frequently used fields are accessible by methods, all the other fields through
// Fields(), using the field names of the OpenType specification.
//
// checksumAdjustment is set by Font.Save and indexToLocFormat is kept in sync with
// table loca.
type HeadTable struct {
	schemaTable
}

// NewHeadTable creates a head table (version 1.0) for a font with a given design
// grid size. Values 16 … 16384 are valid for unitsPerEm.
func NewHeadTable(unitsPerEm uint16) *HeadTable {
	t := &HeadTable{newSchemaTable(headSchema, TagHead)}
	t.rec.MustSet("majorVersion", 1)
	t.rec.MustSet("magicNumber", headMagic)
	t.rec.MustSet("unitsPerEm", int64(unitsPerEm))
	t.rec.MustSet("fontDirectionHint", 2)
	now := int64(otbin.DateTimeFrom(time.Now()))
	t.rec.MustSet("created", now)
	t.rec.MustSet("modified", now)
	t.self = t
	return t
}

func decodeHead(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	st, err := decodeSchemaTable(headSchema, tag, b, offset)
	if err != nil {
		return nil, err
	}
	t := &HeadTable{st}
	t.self = t
	if v := t.rec.U16("majorVersion"); v != 1 {
		return nil, errTableVersion(tag, v)
	}
	if t.rec.U32("magicNumber") != headMagic {
		otf.warn(tag, "invalid magic number", offset+12)
	}
	if f := t.IndexToLocFormat(); f != 0 && f != 1 {
		otf.warn(tag, "invalid indexToLocFormat", offset+50)
	}
	return t, nil
}

// UnitsPerEm returns the size of the design grid.
func (t *HeadTable) UnitsPerEm() uint16 {
	return t.rec.U16("unitsPerEm")
}

// Flags returns the head flags, see https://docs.microsoft.com/en-us/typography/opentype/spec/head
func (t *HeadTable) Flags() uint16 {
	return t.rec.U16("flags")
}

// FontRevision returns the revision of the font, as set by the font manufacturer.
func (t *HeadTable) FontRevision() otbin.Fixed {
	return t.rec.Fixed("fontRevision")
}

// IndexToLocFormat is 0 for short offsets in table loca, 1 for long offsets.
func (t *HeadTable) IndexToLocFormat() int16 {
	return t.rec.I16("indexToLocFormat")
}

// CheckSumAdjustment returns the value of field checksumAdjustment.
func (t *HeadTable) CheckSumAdjustment() uint32 {
	return t.rec.U32("checksumAdjustment")
}

// Created returns the creation date of the font.
func (t *HeadTable) Created() time.Time {
	return t.rec.DateTime("created").Time()
}

// Modified returns the modification date of the font.
func (t *HeadTable) Modified() time.Time {
	return t.rec.DateTime("modified").Time()
}

// SetModified sets the modification date of the font, with a resolution of seconds.
func (t *HeadTable) SetModified(tm time.Time) {
	t.rec.SetRaw("modified", uint64(otbin.DateTimeFrom(tm)))
}

// Bounds returns the bounding box over all glyphs.
func (t *HeadTable) Bounds() outline.Rect {
	return outline.Rect{
		XMin: t.rec.I16("xMin"),
		YMin: t.rec.I16("yMin"),
		XMax: t.rec.I16("xMax"),
		YMax: t.rec.I16("yMax"),
	}
}

// SetBounds sets the bounding box over all glyphs.
func (t *HeadTable) SetBounds(r outline.Rect) {
	t.rec.MustSet("xMin", int64(r.XMin))
	t.rec.MustSet("yMin", int64(r.YMin))
	t.rec.MustSet("xMax", int64(r.XMax))
	t.rec.MustSet("yMax", int64(r.YMax))
}

// MacStyle returns the style bits (bold, italic, …).
func (t *HeadTable) MacStyle() uint16 {
	return t.rec.U16("macStyle")
}
