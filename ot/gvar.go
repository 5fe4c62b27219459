package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

var gvarSchema = otbin.NewSchema("gvar",
	otbin.F("majorVersion", otbin.KindUint16),
	otbin.F("minorVersion", otbin.KindUint16),
	otbin.F("axisCount", otbin.KindUint16),
	otbin.F("sharedTupleCount", otbin.KindUint16),
	otbin.Off32("sharedTuplesOffset", "shared tuples"),
	otbin.F("glyphCount", otbin.KindUint16),
	otbin.F("flags", otbin.KindUint16),
	otbin.Off32("glyphVariationDataArrayOffset", "glyph variation data"),
)

const gvarLongOffsets = 0x0001

// GVarTable (glyph variations) holds the variation data of the glyph outlines of
// a variable font. Per-glyph variation data is kept in binary form.
type GVarTable struct {
	tableBase
	header       *otbin.Record
	SharedTuples [][]otbin.F2Dot14 // peak tuples referenced by glyph variation data
	data         [][]byte          // per glyph, nil if glyph has no variations
}

// NewGVarTable creates an empty glyph variations table for a given number of axes
// and glyphs.
func NewGVarTable(axisCount, glyphCount int) *GVarTable {
	t := &GVarTable{tableBase: tableBase{name: TagGVar}, header: gvarSchema.New()}
	t.header.MustSet("majorVersion", 1)
	t.header.MustSet("axisCount", int64(axisCount))
	t.data = make([][]byte, glyphCount)
	t.self = t
	return t
}

func decodeGVar(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	h, err := gvarSchema.Decode(b, 0)
	if err != nil {
		return nil, err
	}
	if v := h.U16("majorVersion"); v != 1 {
		return nil, errTableVersion(tag, v)
	}
	t := &GVarTable{tableBase: makeBase(tag, b, offset), header: h}
	t.self = t
	axisCount := int(h.U16("axisCount"))
	if fvar := otf.FVar(); axisCount != fvar.AxisCount() {
		return nil, errGlyphData("gvar has %d axes, fvar has %d", axisCount, fvar.AxisCount())
	}
	glyphCount := int(h.U16("glyphCount"))
	if glyphCount != otf.MaxP().NumGlyphs() {
		return nil, errGlyphData("gvar has %d glyphs, maxp has %d", glyphCount, otf.MaxP().NumGlyphs())
	}
	if n := int(h.U16("sharedTupleCount")); n > 0 {
		shared, err := h.Link("sharedTuplesOffset", b, 0).Jump(b)
		if err != nil {
			return nil, err
		}
		r := otbin.NewReader(shared)
		for i := 0; i < n; i++ {
			tuple, err := otbin.ReadArray[otbin.F2Dot14](r, axisCount)
			if err != nil {
				return nil, fmt.Errorf("gvar shared tuple %d: %w", i, err)
			}
			t.SharedTuples = append(t.SharedTuples, tuple)
		}
	}
	r := otbin.NewReader(b)
	_ = r.Seek(gvarSchema.Size())
	offsets := make([]uint32, glyphCount+1)
	for i := range offsets {
		if h.U16("flags")&gvarLongOffsets != 0 {
			offsets[i], err = r.U32()
		} else {
			var off uint16
			off, err = r.U16()
			offsets[i] = 2 * uint32(off)
		}
		if err != nil {
			return nil, fmt.Errorf("gvar glyph variation data offsets: %w", err)
		}
	}
	base := uint64(h.U32("glyphVariationDataArrayOffset"))
	t.data = make([][]byte, glyphCount)
	for gid := range glyphCount {
		start, end := base+uint64(offsets[gid]), base+uint64(offsets[gid+1])
		if end < start || end > uint64(len(b)) {
			return nil, errGlyphData("gvar data of glyph %d at [%d:%d] outside of table", gid, start, end)
		}
		if end > start {
			t.data[gid] = b[start:end]
		}
	}
	return t, nil
}

func encodeGVar(t Table, p otbin.Packer) ([]byte, error) {
	gvar := t.Self().AsGVar()
	if gvar == nil {
		return nil, fmt.Errorf("table %s is not a gvar table", t.Self().NameTag())
	}
	h := gvar.header
	axisCount := int(h.U16("axisCount"))
	shared := otbin.NewNode("shared tuples")
	for i, tuple := range gvar.SharedTuples {
		if len(tuple) != axisCount {
			return nil, fmt.Errorf("gvar shared tuple %d has %d coordinates for %d axes", i, len(tuple), axisCount)
		}
		for _, c := range tuple {
			shared.F2Dot14(c)
		}
	}
	data := otbin.NewNode("glyph variation data")
	offsets := make([]uint32, 0, len(gvar.data)+1)
	long := h.U16("flags")&gvarLongOffsets != 0
	for _, d := range gvar.data {
		offsets = append(offsets, uint32(data.Len()))
		long = long || len(d)&1 != 0
		data.Write(d)
	}
	offsets = append(offsets, uint32(data.Len()))
	long = long || data.Len() > 0x1FFFE
	flags := h.U16("flags") &^ gvarLongOffsets
	if long {
		flags |= gvarLongOffsets
	}
	root := otbin.NewNode("gvar")
	root.U16(h.U16("majorVersion"))
	root.U16(h.U16("minorVersion"))
	root.U16(uint16(axisCount))
	root.U16(uint16(len(gvar.SharedTuples)))
	root.Offset32(shared)
	root.U16(uint16(len(gvar.data)))
	root.U16(flags)
	root.Offset32(data)
	for _, off := range offsets {
		if long {
			root.U32(off)
		} else {
			root.U16(uint16(off / 2))
		}
	}
	return p.Pack(root)
}

// prepareGVar checks the number of glyphs against maxp.
func prepareGVar(otf *Font, t Table) error {
	gvar := t.Self().AsGVar()
	if maxp := otf.MaxP(); maxp != nil && maxp.NumGlyphs() != len(gvar.data) {
		return errGlyphData("gvar has data for %d glyphs, maxp has %d", len(gvar.data), maxp.NumGlyphs())
	}
	return nil
}

// AxisCount returns the number of variation axes.
func (t *GVarTable) AxisCount() int {
	return int(t.header.U16("axisCount"))
}

// GlyphCount returns the number of glyphs.
func (t *GVarTable) GlyphCount() int {
	return len(t.data)
}

// VariationData returns the binary variation data of glyph gid, or nil. Clients must
// not modify the data.
func (t *GVarTable) VariationData(gid GlyphIndex) []byte {
	if int(gid) >= len(t.data) {
		return nil
	}
	return t.data[gid]
}

// SetVariationData sets the binary variation data of glyph gid. Glyphs beyond the
// current glyph count are added, with no variation data for glyphs in between.
func (t *GVarTable) SetVariationData(gid GlyphIndex, b []byte) {
	for int(gid) >= len(t.data) {
		t.data = append(t.data, nil)
	}
	t.data[gid] = b
}
