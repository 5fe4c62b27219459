package ot

import (
	"fmt"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font. The missing character is
// commonly represented by a blank box or a space.
//
// The table holds numGlyphs+1 non-decreasing offsets; glyph i spans the range from
// offset i to offset i+1, with an empty range denoting an empty glyph. Table loca is
// derived from table glyf by Font.Save whenever glyphs have been changed.
type LocaTable struct {
	tableBase
	offsets []uint32
	long    bool   // 32-bit offsets (head.indexToLocFormat = 1)
	tail    []byte // data beyond numGlyphs+1 entries
}

func decodeLoca(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &LocaTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	switch f := otf.Head().IndexToLocFormat(); f {
	case 0:
	case 1:
		t.long = true
	default:
		return nil, errTableVersion(tag, fmt.Sprintf("indexToLocFormat %d", f))
	}
	n := otf.MaxP().NumGlyphs() + 1
	r := otbin.NewReader(b)
	if t.long {
		offsets, err := otbin.ReadArray[uint32](r, n)
		if err != nil {
			return nil, errGlyphData("loca with %d entries: %v", n, err)
		}
		t.offsets = offsets
	} else {
		offsets, err := otbin.ReadArray[uint16](r, n)
		if err != nil {
			return nil, errGlyphData("loca with %d entries: %v", n, err)
		}
		t.offsets = make([]uint32, n)
		for i, off := range offsets {
			t.offsets[i] = 2 * uint32(off)
		}
	}
	for i := 1; i < n; i++ {
		if t.offsets[i] < t.offsets[i-1] {
			return nil, errGlyphData("loca offset of glyph %d decreasing", i)
		}
	}
	t.tail, _ = r.Bytes(r.Remaining())
	return t, nil
}

func encodeLoca(t Table, _ otbin.Packer) ([]byte, error) {
	loca := t.Self().AsLoca()
	if loca == nil {
		return nil, fmt.Errorf("table %s is not a loca table", t.Self().NameTag())
	}
	var w *otbin.Writer
	if loca.long {
		w = otbin.NewWriter(4 * len(loca.offsets))
		for _, off := range loca.offsets {
			w.U32(off)
		}
	} else {
		w = otbin.NewWriter(2 * len(loca.offsets))
		for _, off := range loca.offsets {
			if off&1 != 0 || off > 0x1FFFE {
				return nil, errGlyphData("glyph offset %d not representable in short loca", off)
			}
			w.U16(uint16(off / 2))
		}
	}
	w.Write(loca.tail)
	return w.Bytes(), nil
}

// NumGlyphs returns the number of glyphs located by the table.
func (t *LocaTable) NumGlyphs() int {
	return max(0, len(t.offsets)-1)
}

// IsLong returns true for 32-bit offsets.
func (t *LocaTable) IsLong() bool {
	return t.long
}

// IndexToLocation returns the range of glyph gid within table glyf. An empty range
// denotes an empty glyph. For glyph indices out of range, ok is false.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) (start, end uint32, ok bool) {
	if int(gid) >= t.NumGlyphs() {
		return 0, 0, false
	}
	return t.offsets[gid], t.offsets[gid+1], true
}

// Offsets returns a copy of all numGlyphs+1 offsets.
func (t *LocaTable) Offsets() []uint32 {
	return slices.Clone(t.offsets)
}
