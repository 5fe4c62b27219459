package ot

import (
	"fmt"

	"github.com/npillmayer/fonttools/otbin"
)

// Behaviour flags of gasp ranges.
const (
	GaspGridfit            uint16 = 0x0001
	GaspDoGray             uint16 = 0x0002
	GaspSymmetricGridfit   uint16 = 0x0004 // version 1 only
	GaspSymmetricSmoothing uint16 = 0x0008 // version 1 only
)

// GaspRange defines the rasterization behaviour up to a given size.
type GaspRange struct {
	MaxPPEM  uint16 // upper limit of the range, in pixels per em
	Behavior uint16 // flags
}

// GaspTable contains information which describes the preferred rasterization
// techniques for the font. Ranges are sorted by MaxPPEM, the last one should
// end at 0xFFFF.
type GaspTable struct {
	tableBase
	Version uint16
	Ranges  []GaspRange
	tail    []byte
}

// NewGaspTable creates a gasp table of version 1.
func NewGaspTable(ranges ...GaspRange) *GaspTable {
	t := &GaspTable{tableBase: tableBase{name: TagGasp}, Version: 1, Ranges: ranges}
	t.self = t
	return t
}

func decodeGasp(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &GaspTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	r := otbin.NewReader(b)
	t.Version, _ = r.U16()
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	if t.Version > 1 {
		return nil, errTableVersion(tag, t.Version)
	}
	raw, err := otbin.ReadArray[uint16](r, 2*int(n))
	if err != nil {
		return nil, fmt.Errorf("gasp ranges: %w", err)
	}
	for i := 0; i < len(raw); i += 2 {
		t.Ranges = append(t.Ranges, GaspRange{MaxPPEM: raw[i], Behavior: raw[i+1]})
		if i > 0 && raw[i] <= raw[i-2] {
			otf.warn(tag, "gasp ranges not sorted", offset+4+uint32(2*i))
		}
	}
	if n > 0 && raw[len(raw)-2] != 0xFFFF {
		otf.warn(tag, "last gasp range does not end at 0xFFFF", offset)
	}
	t.tail, _ = r.Bytes(r.Remaining())
	return t, nil
}

func encodeGasp(t Table, _ otbin.Packer) ([]byte, error) {
	gasp := t.Self().AsGasp()
	if gasp == nil {
		return nil, fmt.Errorf("table %s is not a gasp table", t.Self().NameTag())
	}
	if len(gasp.Ranges) > 0xFFFF {
		return nil, fmt.Errorf("too many gasp ranges")
	}
	w := otbin.NewWriter(4 + 4*len(gasp.Ranges))
	w.U16(gasp.Version)
	w.U16(uint16(len(gasp.Ranges)))
	for _, rng := range gasp.Ranges {
		w.U16(rng.MaxPPEM)
		w.U16(rng.Behavior)
	}
	w.Write(gasp.tail)
	return w.Bytes(), nil
}

// Behavior returns the behaviour flags for a size in pixels per em.
func (t *GaspTable) Behavior(ppem uint16) uint16 {
	for _, rng := range t.Ranges {
		if ppem <= rng.MaxPPEM {
			return rng.Behavior
		}
	}
	return 0
}
