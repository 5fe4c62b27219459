package ot

import (
	"fmt"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// HMetric holds the horizontal metrics of a glyph.
type HMetric struct {
	Advance uint16 // advance width
	LSB     int16  // left side bearing
}

// HMtxTable contains metric information for the horizontal layout each of the glyphs in
// the font. Glyphs beyond hhea.numberOfHMetrics share the advance width of the last
// glyph with a full metric record; the table holds metrics for every glyph.
//
// After modifications, the number of full metric records is minimized and
// hhea.numberOfHMetrics is updated by Font.Save.
type HMtxTable struct {
	tableBase
	metrics []HMetric
	numLong int    // number of full metric records
	tail    []byte // data beyond the metrics of numGlyphs glyphs
	dirty   bool
}

// NewHMtxTable creates a horizontal metrics table, one metric per glyph.
func NewHMtxTable(metrics []HMetric) *HMtxTable {
	t := &HMtxTable{tableBase: tableBase{name: TagHMtx}, metrics: slices.Clone(metrics), dirty: true}
	t.self = t
	return t
}

func decodeHMtx(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &HMtxTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	numGlyphs := otf.MaxP().NumGlyphs()
	t.numLong = otf.HHea().NumberOfHMetrics()
	if t.numLong > numGlyphs || (t.numLong == 0 && numGlyphs > 0) {
		return nil, errGlyphData("hhea.numberOfHMetrics = %d for %d glyphs", t.numLong, numGlyphs)
	}
	r := otbin.NewReader(b)
	long, err := otbin.ReadArray[uint16](r, 2*t.numLong)
	if err != nil {
		return nil, fmt.Errorf("hmtx: %d metrics: %w", t.numLong, err)
	}
	lsbs, err := otbin.ReadArray[int16](r, numGlyphs-t.numLong)
	if err != nil {
		return nil, fmt.Errorf("hmtx: %d left side bearings: %w", numGlyphs-t.numLong, err)
	}
	t.metrics = make([]HMetric, 0, numGlyphs)
	for i := 0; i < len(long); i += 2 {
		t.metrics = append(t.metrics, HMetric{Advance: long[i], LSB: int16(long[i+1])})
	}
	for _, lsb := range lsbs {
		t.metrics = append(t.metrics, HMetric{Advance: long[len(long)-2], LSB: lsb})
	}
	t.tail, _ = r.Bytes(r.Remaining())
	return t, nil
}

func encodeHMtx(t Table, _ otbin.Packer) ([]byte, error) {
	hmtx := t.Self().AsHMtx()
	if hmtx == nil {
		return nil, fmt.Errorf("table %s is not a hmtx table", t.Self().NameTag())
	}
	numLong := hmtx.longCount()
	w := otbin.NewWriter(4*numLong + 2*(len(hmtx.metrics)-numLong) + len(hmtx.tail))
	for i, m := range hmtx.metrics {
		if i < numLong {
			w.U16(m.Advance)
		}
		w.I16(m.LSB)
	}
	w.Write(hmtx.tail)
	return w.Bytes(), nil
}

// longCount returns the number of full metric records to write. For modified
// tables, trailing glyphs with identical advance widths are folded.
func (t *HMtxTable) longCount() int {
	if !t.dirty {
		return t.numLong
	}
	n := len(t.metrics)
	for n > 1 && t.metrics[n-1].Advance == t.metrics[n-2].Advance {
		n--
	}
	return n
}

// prepareHMtx checks the number of metrics against maxp and updates hhea.
func prepareHMtx(otf *Font, t Table) error {
	hmtx := t.Self().AsHMtx()
	if maxp := otf.MaxP(); maxp != nil && maxp.NumGlyphs() != len(hmtx.metrics) {
		return errGlyphData("hmtx has metrics for %d glyphs, maxp has %d", len(hmtx.metrics), maxp.NumGlyphs())
	}
	hhea := otf.HHea()
	if hhea == nil {
		return errGlyphData("hmtx requires a decoded hhea table")
	}
	if hmtx.dirty {
		hmtx.numLong = hmtx.longCount()
		hmtx.tail = nil
		hmtx.dirty = false
		var maxAdvance uint16
		for _, m := range hmtx.metrics {
			maxAdvance = max(maxAdvance, m.Advance)
		}
		hhea.rec.MustSet("advanceWidthMax", int64(maxAdvance))
	}
	hhea.rec.MustSet("numberOfHMetrics", int64(hmtx.numLong))
	return nil
}

// NumGlyphs returns the number of glyphs with metrics.
func (t *HMtxTable) NumGlyphs() int {
	return len(t.metrics)
}

// HMetrics returns advance width and left side bearing of glyph g.
func (t *HMtxTable) HMetrics(g GlyphIndex) (HMetric, bool) {
	if int(g) >= len(t.metrics) {
		return HMetric{}, false
	}
	return t.metrics[g], true
}

// Metrics returns a copy of the metrics of all glyphs.
func (t *HMtxTable) Metrics() []HMetric {
	return slices.Clone(t.metrics)
}

// SetHMetrics sets advance width and left side bearing of glyph g.
func (t *HMtxTable) SetHMetrics(g GlyphIndex, m HMetric) error {
	if int(g) >= len(t.metrics) {
		return fmt.Errorf("glyph %d of %d: %w", g, len(t.metrics), ErrInconsistentGlyphData)
	}
	t.metrics[g] = m
	t.dirty = true
	return nil
}

// AppendHMetrics adds metrics for a glyph appended to the font.
func (t *HMtxTable) AppendHMetrics(m HMetric) {
	t.metrics = append(t.metrics, m)
	t.dirty = true
}
