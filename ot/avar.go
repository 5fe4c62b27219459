package ot

import (
	"fmt"
	"math"

	"github.com/npillmayer/fonttools/otbin"
)

// AxisValueMap maps a normalized coordinate of an axis to a modified one.
type AxisValueMap struct {
	From, To otbin.F2Dot14
}

// AVarTable (axis variations) modifies the normalization of axis coordinates of a
// variable font, with one piecewise-linear segment map per axis. Only version 1.0 is
// interpreted.
type AVarTable struct {
	tableBase
	reserved uint16
	Segments [][]AxisValueMap // one segment map per fvar axis
}

// NewAVarTable creates an axis variations table.
func NewAVarTable(segments ...[]AxisValueMap) *AVarTable {
	t := &AVarTable{tableBase: tableBase{name: TagAVar}, Segments: segments}
	t.self = t
	return t
}

func decodeAVar(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &AVarTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	r := otbin.NewReader(b)
	major, _ := r.U16()
	minor, _ := r.U16()
	t.reserved, _ = r.U16()
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	if major != 1 {
		return nil, errTableVersion(tag, fmt.Sprintf("%d.%d", major, minor))
	}
	for i := 0; i < int(n); i++ {
		count, err := r.U16()
		if err != nil {
			return nil, fmt.Errorf("avar segment map %d: %w", i, err)
		}
		raw, err := otbin.ReadArray[otbin.F2Dot14](r, 2*int(count))
		if err != nil {
			return nil, fmt.Errorf("avar segment map %d: %w", i, err)
		}
		seg := make([]AxisValueMap, count)
		for j := range seg {
			seg[j] = AxisValueMap{From: raw[2*j], To: raw[2*j+1]}
		}
		t.Segments = append(t.Segments, seg)
	}
	if r.Remaining() > 0 {
		return nil, fmt.Errorf("avar: %d bytes of unknown trailing data: %w", r.Remaining(), ErrUnsupportedTableVersion)
	}
	return t, nil
}

func encodeAVar(t Table, _ otbin.Packer) ([]byte, error) {
	avar := t.Self().AsAVar()
	if avar == nil {
		return nil, fmt.Errorf("table %s is not an avar table", t.Self().NameTag())
	}
	w := otbin.NewWriter(8)
	w.U16(1)
	w.U16(0)
	w.U16(avar.reserved)
	w.U16(uint16(len(avar.Segments)))
	for _, seg := range avar.Segments {
		w.U16(uint16(len(seg)))
		for _, m := range seg {
			w.F2Dot14(m.From)
			w.F2Dot14(m.To)
		}
	}
	return w.Bytes(), nil
}

// Map applies the segment map of an axis to a normalized coordinate. Coordinates
// of axes without a segment map are returned unchanged.
func (t *AVarTable) Map(axis int, v otbin.F2Dot14) otbin.F2Dot14 {
	if axis < 0 || axis >= len(t.Segments) || len(t.Segments[axis]) == 0 {
		return v
	}
	seg := t.Segments[axis]
	x := int(v)
	if first := seg[0]; x <= int(first.From) {
		return clampF2Dot14(x - int(first.From) + int(first.To))
	}
	for i := 1; i < len(seg); i++ {
		lo, hi := seg[i-1], seg[i]
		if x > int(hi.From) {
			continue
		}
		if hi.From == lo.From {
			return hi.To
		}
		f := float64(x-int(lo.From)) / float64(int(hi.From)-int(lo.From))
		return clampF2Dot14(int(lo.To) + int(math.Round(f*float64(int(hi.To)-int(lo.To)))))
	}
	last := seg[len(seg)-1]
	return clampF2Dot14(x - int(last.From) + int(last.To))
}

func clampF2Dot14(x int) otbin.F2Dot14 {
	return otbin.F2Dot14(min(max(x, math.MinInt16), math.MaxInt16))
}
