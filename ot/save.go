package ot

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
	"golang.org/x/sync/errgroup"
)

// SaveOption influences the serialization of a font.
type SaveOption int

const (
	SaveParallel SaveOption = iota // encode tables concurrently
)

// Save serializes the font into the binary sfnt format.
//
// Values derived from other tables are updated first (e.g., loca from glyf,
// hhea.numberOfHMetrics from hmtx). Then every table is encoded, tables are
// emitted in ascending tag order, each starting on a 4-byte boundary, and the
// table directory and checksums are computed. Finally head.checkSumAdjustment is
// set such that the checksum of the complete file equals 0xB1B0AFBA.
//
// If any table cannot be encoded, e.g. because an offset overflows, no bytes are
// returned.
func (otf *Font) Save(opts ...SaveOption) ([]byte, error) {
	if err := otf.prepare(); err != nil {
		tracer().Errorf("save aborted: %v", err)
		return nil, err
	}
	tags := otf.TableTags()
	blobs := make([][]byte, len(tags))
	if slices.Contains(opts, SaveParallel) {
		var g errgroup.Group
		for i, tag := range tags {
			g.Go(func() error {
				b, err := otf.encodeTable(tag)
				blobs[i] = b
				return err
			})
		}
		if err := g.Wait(); err != nil {
			tracer().Errorf("save aborted: %v", err)
			return nil, err
		}
	} else {
		for i, tag := range tags {
			b, err := otf.encodeTable(tag)
			if err != nil {
				tracer().Errorf("save aborted: %v", err)
				return nil, err
			}
			blobs[i] = b
		}
	}
	for i, tag := range tags {
		tracer().Debugf("encoded table %s: %d bytes", tag, len(blobs[i]))
	}
	return assemble(otf.Header.FontType, tags, blobs)
}

// TableBytes returns the current binary form of the table for tag. Derived values
// are updated as by Save.
func (otf *Font) TableBytes(tag Tag) ([]byte, error) {
	if otf.tables[tag] == nil {
		return nil, fmt.Errorf("font has no table %s", tag)
	}
	if err := otf.prepare(); err != nil {
		return nil, err
	}
	return otf.encodeTable(tag)
}

// prepare calls the prepare step of every table, dependent tables first, as they
// may update the tables they depend on.
func (otf *Font) prepare() error {
	levels, unresolved := otf.Registry().levels(otf.TableTags())
	order := slices.Clone(unresolved)
	for _, l := range slices.Backward(levels) {
		order = append(order, l...)
	}
	for _, tag := range order {
		spec, ok := otf.registry.Lookup(tag)
		t := otf.tables[tag]
		if !ok || spec.Prepare == nil || t.Self().AsRaw() != nil {
			continue
		}
		if err := spec.Prepare(otf, t); err != nil {
			return fmt.Errorf("preparing table %s: %w", tag, err)
		}
	}
	return nil
}

// encodeTable is called concurrently for different tags and must not trace.
func (otf *Font) encodeTable(tag Tag) ([]byte, error) {
	t := otf.tables[tag]
	if raw := t.Self().AsRaw(); raw != nil {
		return raw.data, nil
	}
	spec, ok := otf.Registry().Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("no encoder registered for table %s", tag)
	}
	b, err := spec.Encode(t, otbin.Packer{Share: spec.Share})
	if err != nil {
		return nil, fmt.Errorf("encoding table %s: %w", tag, err)
	}
	return b, nil
}

// directoryParams calculates searchRange, entrySelector and rangeShift for
// a table directory with n entries.
func directoryParams(n int) (searchRange, entrySelector, rangeShift uint16) {
	if n == 0 {
		return 0, 0, 0
	}
	entrySelector = uint16(bits.Len(uint(n)) - 1)
	searchRange = 16 << entrySelector
	rangeShift = uint16(n*16) - searchRange
	return
}

// assemble concatenates the table directory and the tables.
func assemble(fontType uint32, tags []Tag, blobs [][]byte) ([]byte, error) {
	n := len(tags)
	size := 12 + 16*n
	for _, b := range blobs {
		size += (len(b) + 3) &^ 3
	}
	if uint64(size) > 1<<32-1 {
		return nil, fmt.Errorf("font size %d exceeds 32-bit offsets: %w", size, otbin.ErrOffsetOverflow)
	}
	w := otbin.NewWriter(size)
	w.U32(fontType)
	sr, es, rs := directoryParams(n)
	w.U16(uint16(n))
	w.U16(sr)
	w.U16(es)
	w.U16(rs)
	offset := 12 + 16*n
	headAt := -1
	for i, tag := range tags {
		b := blobs[i]
		w.Tag(tag)
		w.U32(tableChecksum(tag, b))
		w.U32(uint32(offset))
		w.U32(uint32(len(b)))
		if tag == TagHead {
			headAt = offset
		}
		offset += (len(b) + 3) &^ 3
	}
	for _, b := range blobs {
		w.Write(b)
		w.Align(4)
	}
	out := w.Bytes()
	if headAt >= 0 && len(blobs[slices.Index(tags, TagHead)]) >= 12 {
		otbin.PutU32(out[headAt+8:], 0)
		otbin.PutU32(out[headAt+8:], checksumAdjustment(out))
	}
	return out, nil
}
