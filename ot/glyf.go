package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/outline"
)

// GlyfTable holds the TrueType outlines of all glyphs. Outlines are decoded
// on demand, see Glyph. Glyphs not modified by clients are written back
// unchanged; after modifications, tables loca, maxp and head are updated
// by Font.Save.
//
// GlyfTable implements outline.GlyphSource, thus composite glyphs may be resolved
// with outline.Flatten or outline.Path:
//
//	contours, err := outline.Flatten(gid, otf.Glyf())
type GlyfTable struct {
	tableBase
	lead  []byte   // data before the first glyph, located by loca[0]
	spans [][]byte // binary data per glyph, nil for empty glyphs
	tail  []byte   // data beyond the last glyph
	dirty bool     // glyphs have been modified
}

// NewGlyfTable creates an empty glyph table.
func NewGlyfTable() *GlyfTable {
	t := &GlyfTable{tableBase: tableBase{name: TagGlyf}, dirty: true}
	t.self = t
	return t
}

func decodeGlyf(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &GlyfTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	loca := otf.Loca()
	n := loca.NumGlyphs()
	if n != otf.MaxP().NumGlyphs() {
		return nil, errGlyphData("loca locates %d glyphs, maxp has %d", n, otf.MaxP().NumGlyphs())
	}
	t.spans = make([][]byte, n)
	var end uint32
	if n > 0 {
		start, _, _ := loca.IndexToLocation(0)
		if start > uint32(len(b)) {
			return nil, errGlyphData("glyph 0 at %d beyond glyf size %d", start, len(b))
		}
		t.lead, end = b[:start], start
	}
	for gid := range n {
		start, stop, _ := loca.IndexToLocation(GlyphIndex(gid))
		if stop > uint32(len(b)) {
			return nil, errGlyphData("glyph %d at [%d:%d] beyond glyf size %d", gid, start, stop, len(b))
		}
		if stop > start {
			t.spans[gid] = b[start:stop]
		}
		end = stop
	}
	t.tail = b[end:]
	return t, nil
}

func encodeGlyf(t Table, _ otbin.Packer) ([]byte, error) {
	glyf := t.Self().AsGlyf()
	if glyf == nil {
		return nil, fmt.Errorf("table %s is not a glyf table", t.Self().NameTag())
	}
	size := len(glyf.lead) + len(glyf.tail)
	for _, span := range glyf.spans {
		size += len(span)
	}
	w := otbin.NewWriter(size)
	w.Write(glyf.lead)
	for _, span := range glyf.spans {
		w.Write(span)
	}
	w.Write(glyf.tail)
	return w.Bytes(), nil
}

// prepareGlyf compiles table loca from the glyph spans and updates head and maxp,
// if glyphs have been changed or the tables are not consistent.
func prepareGlyf(otf *Font, t Table) error {
	glyf := t.Self().AsGlyf()
	head, maxp, loca := otf.Head(), otf.MaxP(), otf.Loca()
	if head == nil || maxp == nil {
		return errGlyphData("glyf requires decoded tables head and maxp")
	}
	n := len(glyf.spans)
	if !glyf.dirty && loca != nil && loca.NumGlyphs() == n && maxp.NumGlyphs() == n &&
		head.IndexToLocFormat() == boolToInt16(loca.long) {
		return nil
	}
	offsets := make([]uint32, n+1)
	long := false
	var pos uint64
	for gid, span := range glyf.spans {
		offsets[gid] = uint32(pos)
		pos += uint64(len(span))
		long = long || len(span)&1 != 0
	}
	if pos > 0xFFFFFFFF {
		return fmt.Errorf("glyph data of %d bytes: %w", pos, otbin.ErrOffsetOverflow)
	}
	offsets[n] = uint32(pos)
	long = long || pos > 0x1FFFE
	if loca == nil {
		loca = &LocaTable{tableBase: tableBase{name: TagLoca}}
		loca.self = loca
		otf.tables[TagLoca] = loca
	}
	loca.offsets, loca.long, loca.tail = offsets, long, nil
	glyf.lead, glyf.tail = nil, nil
	head.rec.MustSet("indexToLocFormat", int64(boolToInt16(long)))
	if glyf.dirty {
		head.SetBounds(glyf.bounds())
	}
	if err := maxp.SetNumGlyphs(n); err != nil {
		return err
	}
	tracer().Debugf("compiled loca for %d glyphs, long = %v", n, long)
	glyf.dirty = false
	return nil
}

func boolToInt16(b bool) int16 {
	if b {
		return 1
	}
	return 0
}

// bounds returns the union of the bounding boxes of all non-empty glyphs, as
// stored in the glyph headers.
func (t *GlyfTable) bounds() outline.Rect {
	var r outline.Rect
	first := true
	for _, span := range t.spans {
		if len(span) < 10 {
			continue
		}
		g := outline.Rect{
			XMin: int16(otbin.U16(span[2:])), YMin: int16(otbin.U16(span[4:])),
			XMax: int16(otbin.U16(span[6:])), YMax: int16(otbin.U16(span[8:])),
		}
		if first {
			r, first = g, false
			continue
		}
		r.XMin, r.YMin = min(r.XMin, g.XMin), min(r.YMin, g.YMin)
		r.XMax, r.YMax = max(r.XMax, g.XMax), max(r.YMax, g.YMax)
	}
	return r
}

// NumGlyphs returns the number of glyphs in the table.
func (t *GlyfTable) NumGlyphs() int {
	return len(t.spans)
}

// GlyphData returns the binary data of glyph gid, or nil for empty glyphs and
// glyph indices out of range. Clients must not modify the data.
func (t *GlyfTable) GlyphData(gid GlyphIndex) []byte {
	if int(gid) >= len(t.spans) {
		return nil
	}
	return t.spans[gid]
}

// Glyph decodes the outline of glyph gid. Empty glyphs are returned as nil.
func (t *GlyfTable) Glyph(gid GlyphIndex) (outline.Glyph, error) {
	if int(gid) >= len(t.spans) {
		return nil, fmt.Errorf("glyph %d of %d: %w", gid, len(t.spans), ErrInconsistentGlyphData)
	}
	g, err := outline.DecodeGlyph(t.spans[gid])
	if err != nil {
		return nil, fmt.Errorf("glyph %d: %w", gid, err)
	}
	return g, nil
}

// SetGlyph replaces glyph gid. A nil glyph is an empty glyph. The bounding box of
// simple glyphs is recalculated.
func (t *GlyfTable) SetGlyph(gid GlyphIndex, g outline.Glyph) error {
	if int(gid) >= len(t.spans) {
		return fmt.Errorf("glyph %d of %d: %w", gid, len(t.spans), ErrInconsistentGlyphData)
	}
	span, err := encodeGlyph(g)
	if err != nil {
		return fmt.Errorf("glyph %d: %w", gid, err)
	}
	t.spans[gid] = span
	t.dirty = true
	return nil
}

// AppendGlyph adds a glyph at the end of the table and returns its glyph index.
// Tables depending on the number of glyphs (hmtx, gvar, post) have to be extended
// by clients.
func (t *GlyfTable) AppendGlyph(g outline.Glyph) (GlyphIndex, error) {
	if len(t.spans) >= MaxGlyphCount-1 {
		return 0, fmt.Errorf("too many glyphs: %w", ErrInconsistentGlyphData)
	}
	span, err := encodeGlyph(g)
	if err != nil {
		return 0, err
	}
	t.spans = append(t.spans, span)
	t.dirty = true
	return GlyphIndex(len(t.spans) - 1), nil
}

// encodeGlyph encodes a glyph and pads it to an even number of bytes, as
// required by short loca offsets.
func encodeGlyph(g outline.Glyph) ([]byte, error) {
	if sg, ok := g.(*outline.SimpleGlyph); ok && sg != nil {
		sg.RecalcBounds()
	}
	b, err := outline.EncodeGlyph(g)
	if err != nil {
		return nil, err
	}
	if len(b)&1 != 0 {
		b = append(b, 0)
	}
	return b, nil
}
