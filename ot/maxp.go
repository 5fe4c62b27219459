package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

const (
	maxpSizeV05 = 6
	maxpSizeV10 = 32
	maxpV05     = 0x00005000
	maxpV10     = 0x00010000
)

var maxpSchemaV05 = otbin.NewSchema("maxp",
	otbin.F("version", otbin.KindVersion16Dot16),
	otbin.F("numGlyphs", otbin.KindUint16),
)

var maxpSchemaV10 = maxpSchemaV05.Extend("maxp v1.0",
	otbin.F("maxPoints", otbin.KindUint16),
	otbin.F("maxContours", otbin.KindUint16),
	otbin.F("maxCompositePoints", otbin.KindUint16),
	otbin.F("maxCompositeContours", otbin.KindUint16),
	otbin.F("maxZones", otbin.KindUint16),
	otbin.F("maxTwilightPoints", otbin.KindUint16),
	otbin.F("maxStorage", otbin.KindUint16),
	otbin.F("maxFunctionDefs", otbin.KindUint16),
	otbin.F("maxInstructionDefs", otbin.KindUint16),
	otbin.F("maxStackElements", otbin.KindUint16),
	otbin.F("maxSizeOfInstructions", otbin.KindUint16),
	otbin.F("maxComponentElements", otbin.KindUint16),
	otbin.F("maxComponentDepth", otbin.KindUint16),
)

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Fonts with CFF outlines use version 0.5, fonts with TrueType outlines version 1.0.
//
// numGlyphs is kept in sync with table glyf by Font.Save.
type MaxPTable struct {
	schemaTable
}

// NewMaxPTable creates a maxp table, version 1.0 for TrueType outlines and
// version 0.5 otherwise.
func NewMaxPTable(trueType bool) *MaxPTable {
	var t *MaxPTable
	if trueType {
		t = &MaxPTable{newSchemaTable(maxpSchemaV10, TagMaxP)}
		t.rec.MustSet("version", maxpV10)
		t.rec.MustSet("maxZones", 2)
	} else {
		t = &MaxPTable{newSchemaTable(maxpSchemaV05, TagMaxP)}
		t.rec.MustSet("version", maxpV05)
	}
	t.self = t
	return t
}

func decodeMaxP(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	version, _, err := otbin.Decode[uint32](b, 0)
	if err != nil {
		return nil, err
	}
	var schema *otbin.Schema
	switch version {
	case maxpV05:
		schema = maxpSchemaV05
	case maxpV10:
		schema = maxpSchemaV10
	default:
		return nil, errTableVersion(tag, otbin.Version16Dot16(version))
	}
	st, err := decodeSchemaTable(schema, tag, b, offset)
	if err != nil {
		return nil, err
	}
	t := &MaxPTable{st}
	t.self = t
	return t, nil
}

// Version returns the table version, 0.5 or 1.0.
func (t *MaxPTable) Version() otbin.Version16Dot16 {
	return t.rec.Version("version")
}

// NumGlyphs returns the number of glyphs in the font.
func (t *MaxPTable) NumGlyphs() int {
	return int(t.rec.U16("numGlyphs"))
}

// SetNumGlyphs sets the number of glyphs in the font.
func (t *MaxPTable) SetNumGlyphs(n int) error {
	if n < 0 || n > MaxGlyphCount-1 {
		return fmt.Errorf("number of glyphs %d out of range: %w", n, ErrInconsistentGlyphData)
	}
	t.rec.MustSet("numGlyphs", int64(n))
	return nil
}
