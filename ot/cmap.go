package ot

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// CMapTable maps character codes to glyph indices. It consists of a list of
// encoding records, each referring to a subtable in one of several formats.
// Subtables of formats 0, 4, 6 and 12 are interpreted, all subtables are kept
// in their binary form and written back unchanged.
type CMapTable struct {
	tableBase
	version   uint16
	encodings []CMapEncoding
	dirty     bool
}

// CMapEncoding is an encoding record of a cmap table. Several encoding records
// may share a subtable.
type CMapEncoding struct {
	PlatformID uint16
	EncodingID uint16
	Subtable   *CMapSubtable
}

// CMapSubtable is a character-to-glyph mapping in one of the cmap formats.
type CMapSubtable struct {
	Format   uint16
	Language uint32
	data     []byte
	mapping  map[rune]GlyphIndex // nil for formats not interpreted
}

// Binary returns the binary form of the subtable.
func (s *CMapSubtable) Binary() []byte {
	return s.data
}

// Mapping returns the character-to-glyph mapping of s, or nil if the format is not
// supported. Characters mapped to glyph 0 are not included.
func (s *CMapSubtable) Mapping() map[rune]GlyphIndex {
	return s.mapping
}

// Lookup returns the glyph for a character, or 0 (the missing glyph).
func (s *CMapSubtable) Lookup(r rune) GlyphIndex {
	return s.mapping[r]
}

// NewCMapTable creates a cmap table from a character-to-glyph mapping.
func NewCMapTable(m map[rune]GlyphIndex) (*CMapTable, error) {
	t := &CMapTable{tableBase: tableBase{name: TagCMap}}
	t.self = t
	if err := t.SetMapping(m); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeCMap(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &CMapTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	r := otbin.NewReader(b)
	t.version, _ = r.U16()
	n, err := r.U16()
	if err != nil {
		return nil, err
	}
	if t.version != 0 {
		return nil, errTableVersion(tag, t.version)
	}
	if n > MaxRecordMapCount {
		return nil, fmt.Errorf("cmap: %d encoding records exceed limit: %w", n, otbin.ErrTruncated)
	}
	subtables := make(map[uint32]*CMapSubtable)
	for i := 0; i < int(n); i++ {
		enc := CMapEncoding{}
		enc.PlatformID, _ = r.U16()
		enc.EncodingID, _ = r.U16()
		off, err := r.U32()
		if err != nil {
			return nil, fmt.Errorf("cmap encoding record %d: %w", i, err)
		}
		if enc.Subtable = subtables[off]; enc.Subtable == nil {
			link := otbin.MakeLink(b, 0, off, 32, "cmap subtable")
			pos, err := link.Position()
			if err != nil {
				return nil, err
			}
			if enc.Subtable, err = decodeCMapSubtable(otf, b, pos); err != nil {
				return nil, fmt.Errorf("cmap subtable (%d,%d): %w", enc.PlatformID, enc.EncodingID, err)
			}
			subtables[off] = enc.Subtable
		}
		t.encodings = append(t.encodings, enc)
	}
	return t, nil
}

// decodeCMapSubtable slices a subtable by its declared length and interprets its
// mapping, if the format is supported.
func decodeCMapSubtable(otf *Font, b []byte, pos int) (*CMapSubtable, error) {
	r := otbin.NewReader(b)
	_ = r.Seek(pos)
	format, err := r.U16()
	if err != nil {
		return nil, err
	}
	sub := &CMapSubtable{Format: format}
	var length uint32
	switch format {
	case 0, 2, 4, 6:
		l, _ := r.U16()
		lang, err := r.U16()
		if err != nil {
			return nil, err
		}
		length, sub.Language = uint32(l), uint32(lang)
	case 8, 10, 12, 13:
		_ = r.Skip(2)
		length, _ = r.U32()
		if sub.Language, err = r.U32(); err != nil {
			return nil, err
		}
	case 14:
		if length, err = r.U32(); err != nil {
			return nil, err
		}
	default:
		length = uint32(len(b) - pos)
		otf.warn(TagCMap, fmt.Sprintf("unknown cmap subtable format %d", format), uint32(pos))
	}
	if int64(pos)+int64(length) > int64(len(b)) {
		otf.warn(TagCMap, fmt.Sprintf("cmap subtable format %d: length %d exceeds table", format, length), uint32(pos))
		length = uint32(len(b) - pos)
	}
	sub.data = b[pos : pos+int(length)]
	var m map[rune]GlyphIndex
	switch format {
	case 0:
		m, err = decodeCMapFormat0(sub.data)
	case 4:
		m, err = decodeCMapFormat4(sub.data)
	case 6:
		m, err = decodeCMapFormat6(sub.data)
	case 12:
		m, err = decodeCMapFormat12(sub.data)
	default:
		return sub, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cmap format %d: %w", format, err)
	}
	sub.mapping = m
	return sub, nil
}

func decodeCMapFormat0(b []byte) (map[rune]GlyphIndex, error) {
	if len(b) < 6+256 {
		return nil, fmt.Errorf("glyph id array: %w", otbin.ErrTruncated)
	}
	m := make(map[rune]GlyphIndex)
	for c, g := range b[6 : 6+256] {
		if g != 0 {
			m[rune(c)] = GlyphIndex(g)
		}
	}
	return m, nil
}

func decodeCMapFormat4(b []byte) (map[rune]GlyphIndex, error) {
	r := otbin.NewReader(b)
	_ = r.Seek(6)
	segX2, err := r.U16()
	if err != nil {
		return nil, err
	}
	n := int(segX2 / 2)
	endsAt := 14
	startsAt, deltasAt, rangesAt := endsAt+2*n+2, endsAt+4*n+2, endsAt+6*n+2
	if rangesAt+2*n > len(b) {
		return nil, fmt.Errorf("%d segments: %w", n, otbin.ErrTruncated)
	}
	m := make(map[rune]GlyphIndex)
	prevEnd := -1
	for i := 0; i < n; i++ {
		end := int(otbin.U16(b[endsAt+2*i:]))
		start := int(otbin.U16(b[startsAt+2*i:]))
		// Segments are sorted by endCode and must not overlap. Codes already
		// covered by a previous segment are skipped, thus every code point is
		// visited at most once.
		if start <= prevEnd {
			start = prevEnd + 1
		}
		prevEnd = max(prevEnd, end)
		delta := otbin.U16(b[deltasAt+2*i:])
		ro := int(otbin.U16(b[rangesAt+2*i:]))
		for c := start; c <= end && c < 0xFFFF; c++ {
			var g uint16
			if ro == 0 {
				g = uint16(c) + delta
			} else {
				pos := rangesAt + 2*i + ro + 2*(c-start)
				if pos+2 > len(b) {
					break
				}
				if g = otbin.U16(b[pos:]); g != 0 {
					g += delta
				}
			}
			if g != 0 {
				m[rune(c)] = GlyphIndex(g)
			}
		}
	}
	return m, nil
}

func decodeCMapFormat6(b []byte) (map[rune]GlyphIndex, error) {
	r := otbin.NewReader(b)
	_ = r.Seek(6)
	first, _ := r.U16()
	count, err := r.U16()
	if err != nil {
		return nil, err
	}
	gids, err := otbin.ReadArray[uint16](r, int(count))
	if err != nil {
		return nil, err
	}
	m := make(map[rune]GlyphIndex, len(gids))
	for i, g := range gids {
		if g != 0 {
			m[rune(int(first)+i)] = GlyphIndex(g)
		}
	}
	return m, nil
}

const maxUnicode = 0x10FFFF

func decodeCMapFormat12(b []byte) (map[rune]GlyphIndex, error) {
	r := otbin.NewReader(b)
	_ = r.Seek(12)
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*12 > uint64(r.Remaining()) {
		return nil, fmt.Errorf("%d groups: %w", n, otbin.ErrTruncated)
	}
	m := make(map[rune]GlyphIndex)
	total := 0
	for i := uint32(0); i < n; i++ {
		start, _ := r.U32()
		end, _ := r.U32()
		gid, _ := r.U32()
		if start > end || end > maxUnicode {
			return nil, fmt.Errorf("group %d: invalid range %#x…%#x", i, start, end)
		}
		if total += int(end-start) + 1; total > maxUnicode+1 {
			return nil, fmt.Errorf("group %d: overlapping groups", i)
		}
		for c := start; c <= end; c++ {
			if g := gid + (c - start); g != 0 && g <= 0xFFFF {
				m[rune(c)] = GlyphIndex(g)
			}
		}
	}
	return m, nil
}

func encodeCMap(t Table, p otbin.Packer) ([]byte, error) {
	cmap := t.Self().AsCMap()
	if cmap == nil {
		return nil, fmt.Errorf("table %s is not a cmap table", t.Self().NameTag())
	}
	if !cmap.dirty && cmap.data != nil {
		return cmap.data, nil
	}
	encs := slices.Clone(cmap.encodings)
	slices.SortStableFunc(encs, func(a, b CMapEncoding) int {
		return slices.Compare([]uint16{a.PlatformID, a.EncodingID}, []uint16{b.PlatformID, b.EncodingID})
	})
	root := otbin.NewNode("cmap")
	root.U16(cmap.version)
	root.U16(uint16(len(encs)))
	nodes := make(map[*CMapSubtable]*otbin.Node)
	for _, enc := range encs {
		root.U16(enc.PlatformID)
		root.U16(enc.EncodingID)
		node := nodes[enc.Subtable]
		if node == nil {
			node = otbin.NodeFrom(fmt.Sprintf("cmap format %d", enc.Subtable.Format), enc.Subtable.data)
			nodes[enc.Subtable] = node
		}
		root.Offset32(node)
	}
	return p.Pack(root)
}

// Encodings returns the encoding records of the table.
func (t *CMapTable) Encodings() []CMapEncoding {
	return slices.Clone(t.encodings)
}

// cmapPreference lists platform/encoding pairs in order of preference for lookup.
var cmapPreference = [][2]uint16{
	{PlatformWindows, windowsUnicodeAll},
	{PlatformUnicode, 6},
	{PlatformUnicode, 4},
	{PlatformWindows, windowsUnicodeBMP},
	{PlatformUnicode, 3},
	{PlatformUnicode, 2},
	{PlatformUnicode, 1},
	{PlatformUnicode, 0},
	{PlatformWindows, 0},
	{PlatformMac, 0},
}

// Subtable returns the preferred Unicode subtable with an interpreted mapping, or nil.
func (t *CMapTable) Subtable() *CMapSubtable {
	for _, pe := range cmapPreference {
		for _, enc := range t.encodings {
			if enc.PlatformID == pe[0] && enc.EncodingID == pe[1] && enc.Subtable.mapping != nil {
				return enc.Subtable
			}
		}
	}
	return nil
}

// Lookup returns the glyph for a character, or 0 (the missing glyph).
func (t *CMapTable) Lookup(r rune) GlyphIndex {
	if sub := t.Subtable(); sub != nil {
		return sub.Lookup(r)
	}
	return 0
}

// Mapping returns the mapping of the preferred Unicode subtable. Clients must not
// modify it.
func (t *CMapTable) Mapping() map[rune]GlyphIndex {
	if sub := t.Subtable(); sub != nil {
		return sub.mapping
	}
	return nil
}

// SetMapping replaces all subtables by subtables for mapping m: a format 4 subtable
// for the Basic Multilingual Plane and, if m contains supplementary characters,
// a format 12 subtable. Entries mapping to glyph 0 are ignored.
func (t *CMapTable) SetMapping(m map[rune]GlyphIndex) error {
	clean := make(map[rune]GlyphIndex, len(m))
	wide := false
	for r, g := range m {
		if r < 0 || r > maxUnicode {
			return fmt.Errorf("cmap: invalid character %#x", r)
		}
		if g != 0 {
			clean[r] = g
			wide = wide || r > 0xFFFF
		}
	}
	f4, err := compileCMapFormat4(clean)
	if err != nil {
		return err
	}
	bmp := &CMapSubtable{Format: 4, data: f4, mapping: bmpOnly(clean)}
	t.encodings = []CMapEncoding{
		{PlatformUnicode, 3, bmp},
		{PlatformWindows, windowsUnicodeBMP, bmp},
	}
	if wide {
		full := &CMapSubtable{Format: 12, data: compileCMapFormat12(clean), mapping: clean}
		t.encodings = []CMapEncoding{
			{PlatformUnicode, 3, bmp},
			{PlatformUnicode, 4, full},
			{PlatformWindows, windowsUnicodeBMP, bmp},
			{PlatformWindows, windowsUnicodeAll, full},
		}
	}
	t.version = 0
	t.dirty = true
	return nil
}

func bmpOnly(m map[rune]GlyphIndex) map[rune]GlyphIndex {
	bmp := make(map[rune]GlyphIndex, len(m))
	for r, g := range m {
		if r < 0xFFFF {
			bmp[r] = g
		}
	}
	return bmp
}

func sortedRunes(m map[rune]GlyphIndex) []rune {
	runes := make([]rune, 0, len(m))
	for r := range m {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}

type cmapSegment struct {
	start, end uint16
	delta      uint16
	gids       []uint16 // nil for segments using delta
}

func compileCMapFormat4(m map[rune]GlyphIndex) ([]byte, error) {
	var segs []cmapSegment
	runes := sortedRunes(m)
	for i := 0; i < len(runes) && runes[i] < 0xFFFF; {
		j := i + 1 // runes[i:j] consecutive
		for j < len(runes) && runes[j] < 0xFFFF && runes[j] == runes[j-1]+1 {
			j++
		}
		seg := cmapSegment{start: uint16(runes[i]), end: uint16(runes[j-1])}
		seg.delta = uint16(m[runes[i]]) - seg.start
		for _, r := range runes[i:j] {
			if uint16(m[r])-uint16(r) != seg.delta {
				seg.delta = 0
				seg.gids = make([]uint16, 0, j-i)
				for _, r := range runes[i:j] {
					seg.gids = append(seg.gids, uint16(m[r]))
				}
				break
			}
		}
		segs = append(segs, seg)
		i = j
	}
	segs = append(segs, cmapSegment{start: 0xFFFF, end: 0xFFFF, delta: 1})
	n := len(segs)
	glyphs := 0
	for _, seg := range segs {
		glyphs += len(seg.gids)
	}
	length := 16 + 8*n + 2*glyphs
	if length > 0xFFFF {
		return nil, fmt.Errorf("cmap format 4 subtable too large (%d bytes): %w", length, otbin.ErrOffsetOverflow)
	}
	w := otbin.NewWriter(length)
	w.U16(4)
	w.U16(uint16(length))
	w.U16(0) // language
	entrySelector := bits.Len(uint(n)) - 1
	searchRange := 2 << entrySelector
	w.U16(uint16(2 * n))
	w.U16(uint16(searchRange))
	w.U16(uint16(entrySelector))
	w.U16(uint16(2*n - searchRange))
	for _, seg := range segs {
		w.U16(seg.end)
	}
	w.U16(0) // reservedPad
	for _, seg := range segs {
		w.U16(seg.start)
	}
	for _, seg := range segs {
		w.U16(seg.delta)
	}
	glyphs = 0
	for i, seg := range segs {
		if seg.gids == nil {
			w.U16(0)
			continue
		}
		// offset from this idRangeOffset entry into glyphIdArray
		w.U16(uint16(2 * (n - i + glyphs)))
		glyphs += len(seg.gids)
	}
	for _, seg := range segs {
		for _, g := range seg.gids {
			w.U16(g)
		}
	}
	return w.Bytes(), nil
}

func compileCMapFormat12(m map[rune]GlyphIndex) []byte {
	type group struct{ start, end, gid uint32 }
	var groups []group
	for _, r := range sortedRunes(m) {
		g := uint32(m[r])
		if k := len(groups) - 1; k >= 0 && groups[k].end+1 == uint32(r) &&
			groups[k].gid+(uint32(r)-groups[k].start) == g {
			groups[k].end++
			continue
		}
		groups = append(groups, group{uint32(r), uint32(r), g})
	}
	length := 16 + 12*len(groups)
	w := otbin.NewWriter(length)
	w.U16(12)
	w.U16(0)
	w.U32(uint32(length))
	w.U32(0) // language
	w.U32(uint32(len(groups)))
	for _, g := range groups {
		w.U32(g.start)
		w.U32(g.end)
		w.U32(g.gid)
	}
	return w.Bytes()
}
