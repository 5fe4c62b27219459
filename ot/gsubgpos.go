package ot

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// GSubTable is the glyph substitution table of OpenType advanced layout.
type GSubTable struct {
	LayoutTable
}

// GPosTable is the glyph positioning table of OpenType advanced layout.
type GPosTable struct {
	LayoutTable
}

// LayoutTable is the common structure of tables GSUB and GPOS: a ScriptList,
// a FeatureList and a LookupList. Lookup subtables, feature parameters and feature
// variations are not interpreted. They are kept in binary form, as a contiguous
// region of the original table, and are written back unchanged.
//
// Unmodified tables are written back byte for byte. After modifications, the
// table is re-packed, with identical sub-tables (e.g., LangSys tables) shared.
type LayoutTable struct {
	tableBase
	major, minor      uint16
	scripts           []Script
	features          []Feature
	lookups           []Lookup
	featureVariations int    // position in region, -1 if absent
	region            []byte // opaque sub-tables
	dirty             bool
}

// Script is a ScriptList entry: a script with its language systems.
type Script struct {
	Tag            Tag
	DefaultLangSys Option[LangSys]
	LangSys        []LangSysRecord
}

// LangSysRecord is a language system of a script.
type LangSysRecord struct {
	Tag     Tag
	LangSys LangSys
}

// LangSys lists the features of a language system.
type LangSys struct {
	RequiredFeature Option[uint16] // feature index of the required feature
	FeatureIndices  []uint16
}

// Feature is a FeatureList entry: a feature tag together with the lookups
// implementing it.
type Feature struct {
	Tag           Tag
	LookupIndices []uint16
	params        int // position in region, -1 if absent
}

// HasParams reports whether the feature carries feature parameters.
func (f Feature) HasParams() bool {
	return f.params >= 0
}

// Lookup is a LookupList entry. The lookup subtables are held in binary form.
type Lookup struct {
	Type             uint16
	Flag             uint16
	MarkFilteringSet Option[uint16]
	subtables        []subtableRef
}

// Lookup flags.
const (
	LookupRightToLeft         uint16 = 0x0001
	LookupIgnoreBaseGlyphs    uint16 = 0x0002
	LookupIgnoreLigatures     uint16 = 0x0004
	LookupIgnoreMarks         uint16 = 0x0008
	LookupUseMarkFilteringSet uint16 = 0x0010
)

// subtableRef refers to a lookup subtable either by position in the region of
// opaque sub-tables, or by its binary data (for subtables added by clients).
type subtableRef struct {
	pos  int // position in region, -1 if data is set
	data []byte
}

// SubtableCount returns the number of subtables of a lookup.
func (l Lookup) SubtableCount() int {
	return len(l.subtables)
}

// --- Decoding --------------------------------------------------------------

var layoutHeaderSchema = otbin.NewSchema("GSUB/GPOS",
	otbin.F("majorVersion", otbin.KindUint16),
	otbin.F("minorVersion", otbin.KindUint16),
	otbin.Off16("scriptListOffset", "ScriptList"),
	otbin.Off16("featureListOffset", "FeatureList"),
	otbin.Off16("lookupListOffset", "LookupList"),
)

var layoutHeaderSchemaV11 = layoutHeaderSchema.Extend("GSUB/GPOS v1.1",
	otbin.Off32("featureVariationsOffset", "FeatureVariations"),
)

// layoutDecoder walks the structural part of a layout table. Positions of opaque
// sub-tables are collected as absolute positions first.
type layoutDecoder struct {
	b         []byte
	minOpaque int
}

func decodeLayout(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	h, err := layoutHeaderSchema.Decode(b, 0)
	if err != nil {
		return nil, err
	}
	major, minor := h.U16("majorVersion"), h.U16("minorVersion")
	if major != 1 || minor > 1 {
		return nil, errTableVersion(tag, fmt.Sprintf("%d.%d", major, minor))
	}
	if minor == 1 {
		if h, err = layoutHeaderSchemaV11.Decode(b, 0); err != nil {
			return nil, err
		}
	}
	lt := LayoutTable{tableBase: makeBase(tag, b, offset), major: major, minor: minor, featureVariations: -1}
	d := &layoutDecoder{b: b, minOpaque: len(b)}
	if pos, ok, err := d.target(h.Link("scriptListOffset", b, 0)); err != nil {
		return nil, err
	} else if ok {
		if lt.scripts, err = d.scriptList(pos); err != nil {
			return nil, err
		}
	}
	if pos, ok, err := d.target(h.Link("featureListOffset", b, 0)); err != nil {
		return nil, err
	} else if ok {
		if lt.features, err = d.featureList(pos); err != nil {
			return nil, err
		}
	}
	if pos, ok, err := d.target(h.Link("lookupListOffset", b, 0)); err != nil {
		return nil, err
	} else if ok {
		if lt.lookups, err = d.lookupList(pos); err != nil {
			return nil, err
		}
	}
	if minor == 1 {
		if pos, ok, err := d.target(h.Link("featureVariationsOffset", b, 0)); err != nil {
			return nil, err
		} else if ok {
			lt.featureVariations = d.opaque(pos)
		}
	}
	lt.checkIndices(otf)
	lt.setRegion(d.minOpaque)
	if tag == TagGPos {
		t := &GPosTable{lt}
		t.self = t
		return t, nil
	}
	t := &GSubTable{lt}
	t.self = t
	return t, nil
}

// target resolves a link; absent links are not an error.
func (d *layoutDecoder) target(l otbin.Link) (int, bool, error) {
	if l.IsAbsent() {
		return 0, false, nil
	}
	pos, err := l.Position()
	return pos, err == nil, err
}

func (d *layoutDecoder) link16(fieldPos, base int, name string) (int, bool, error) {
	l, err := otbin.ResolveOffset16(d.b, fieldPos, base, name)
	if err != nil {
		return 0, false, err
	}
	return d.target(l)
}

func (d *layoutDecoder) opaque(pos int) int {
	d.minOpaque = min(d.minOpaque, pos)
	return pos
}

func (d *layoutDecoder) reader(pos int) *otbin.Reader {
	r := otbin.NewReader(d.b)
	_ = r.Seek(pos)
	return r
}

func (d *layoutDecoder) scriptList(pos int) ([]Script, error) {
	r := d.reader(pos)
	n, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("ScriptList: %w", err)
	}
	if n > MaxScriptCount {
		return nil, fmt.Errorf("ScriptList: %d scripts exceed limit: %w", n, otbin.ErrTruncated)
	}
	scripts := make([]Script, 0, n)
	for i := 0; i < int(n); i++ {
		tag, err := r.Tag()
		if err != nil {
			return nil, fmt.Errorf("ScriptList record %d: %w", i, err)
		}
		spos, ok, err := d.link16(r.Offset(), pos, "Script "+tag.String())
		_ = r.Skip(2)
		if err != nil || !ok {
			return nil, fmt.Errorf("script %s: %w", tag, cmpOr(err, otbin.ErrMissingSubtable))
		}
		script, err := d.script(spos)
		if err != nil {
			return nil, fmt.Errorf("script %s: %w", tag, err)
		}
		script.Tag = tag
		scripts = append(scripts, script)
	}
	return scripts, nil
}

func (d *layoutDecoder) script(pos int) (Script, error) {
	var script Script
	if lpos, ok, err := d.link16(pos, pos, "DefaultLangSys"); err != nil {
		return script, err
	} else if ok {
		ls, err := d.langSys(lpos)
		if err != nil {
			return script, fmt.Errorf("default LangSys: %w", err)
		}
		script.DefaultLangSys = Some(ls)
	}
	r := d.reader(pos + 2)
	n, err := r.U16()
	if err != nil {
		return script, err
	}
	if n > MaxTagListCount {
		return script, fmt.Errorf("%d LangSys records exceed limit: %w", n, otbin.ErrTruncated)
	}
	for i := 0; i < int(n); i++ {
		tag, err := r.Tag()
		if err != nil {
			return script, fmt.Errorf("LangSys record %d: %w", i, err)
		}
		lpos, ok, err := d.link16(r.Offset(), pos, "LangSys "+tag.String())
		_ = r.Skip(2)
		if err != nil || !ok {
			return script, fmt.Errorf("LangSys %s: %w", tag, cmpOr(err, otbin.ErrMissingSubtable))
		}
		ls, err := d.langSys(lpos)
		if err != nil {
			return script, fmt.Errorf("LangSys %s: %w", tag, err)
		}
		script.LangSys = append(script.LangSys, LangSysRecord{Tag: tag, LangSys: ls})
	}
	return script, nil
}

func (d *layoutDecoder) langSys(pos int) (LangSys, error) {
	var ls LangSys
	r := d.reader(pos + 2) // skip lookupOrderOffset
	req, _ := r.U16()
	n, err := r.U16()
	if err != nil {
		return ls, err
	}
	if req != 0xFFFF {
		ls.RequiredFeature = Some(req)
	}
	ls.FeatureIndices, err = otbin.ReadArray[uint16](r, int(n))
	return ls, err
}

func (d *layoutDecoder) featureList(pos int) ([]Feature, error) {
	r := d.reader(pos)
	n, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("FeatureList: %w", err)
	}
	if n > MaxFeatureCount {
		return nil, fmt.Errorf("FeatureList: %d features exceed limit: %w", n, otbin.ErrTruncated)
	}
	features := make([]Feature, 0, n)
	for i := 0; i < int(n); i++ {
		tag, err := r.Tag()
		if err != nil {
			return nil, fmt.Errorf("FeatureList record %d: %w", i, err)
		}
		fpos, ok, err := d.link16(r.Offset(), pos, "Feature "+tag.String())
		_ = r.Skip(2)
		if err != nil || !ok {
			return nil, fmt.Errorf("feature %d (%s): %w", i, tag, cmpOr(err, otbin.ErrMissingSubtable))
		}
		f := Feature{Tag: tag, params: -1}
		if ppos, ok, err := d.link16(fpos, fpos, "FeatureParams"); err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, tag, err)
		} else if ok {
			f.params = d.opaque(ppos)
		}
		fr := d.reader(fpos + 2)
		cnt, _ := fr.U16()
		if f.LookupIndices, err = otbin.ReadArray[uint16](fr, int(cnt)); err != nil {
			return nil, fmt.Errorf("feature %d (%s): %w", i, tag, err)
		}
		features = append(features, f)
	}
	return features, nil
}

func (d *layoutDecoder) lookupList(pos int) ([]Lookup, error) {
	r := d.reader(pos)
	n, err := r.U16()
	if err != nil {
		return nil, fmt.Errorf("LookupList: %w", err)
	}
	if n > MaxLookupCount {
		return nil, fmt.Errorf("LookupList: %d lookups exceed limit: %w", n, otbin.ErrTruncated)
	}
	lookups := make([]Lookup, 0, n)
	for i := 0; i < int(n); i++ {
		lpos, ok, err := d.link16(r.Offset(), pos, "Lookup")
		_ = r.Skip(2)
		if err != nil || !ok {
			return nil, fmt.Errorf("lookup %d: %w", i, cmpOr(err, otbin.ErrMissingSubtable))
		}
		lookup, err := d.lookup(lpos)
		if err != nil {
			return nil, fmt.Errorf("lookup %d: %w", i, err)
		}
		lookups = append(lookups, lookup)
	}
	return lookups, nil
}

func (d *layoutDecoder) lookup(pos int) (Lookup, error) {
	var lookup Lookup
	r := d.reader(pos)
	lookup.Type, _ = r.U16()
	lookup.Flag, _ = r.U16()
	n, err := r.U16()
	if err != nil {
		return lookup, err
	}
	for i := 0; i < int(n); i++ {
		spos, ok, err := d.link16(r.Offset(), pos, "lookup subtable")
		_ = r.Skip(2)
		if err != nil || !ok {
			return lookup, fmt.Errorf("subtable %d: %w", i, cmpOr(err, otbin.ErrMissingSubtable))
		}
		lookup.subtables = append(lookup.subtables, subtableRef{pos: d.opaque(spos)})
	}
	if lookup.Flag&LookupUseMarkFilteringSet != 0 {
		set, err := r.U16()
		if err != nil {
			return lookup, fmt.Errorf("mark filtering set: %w", err)
		}
		lookup.MarkFilteringSet = Some(set)
	}
	return lookup, nil
}

// setRegion cuts the region of opaque sub-tables, starting at start, and converts
// absolute positions into positions within the region.
func (lt *LayoutTable) setRegion(start int) {
	lt.region = lt.data[start:]
	if lt.featureVariations >= 0 {
		lt.featureVariations -= start
	}
	for i := range lt.features {
		if lt.features[i].params >= 0 {
			lt.features[i].params -= start
		}
	}
	for i := range lt.lookups {
		for j := range lt.lookups[i].subtables {
			lt.lookups[i].subtables[j].pos -= start
		}
	}
}

// checkIndices warns about feature and lookup indices out of range.
func (lt *LayoutTable) checkIndices(otf *Font) {
	for _, s := range lt.scripts {
		for _, ls := range s.langSystems() {
			for _, inx := range ls.FeatureIndices {
				if int(inx) >= len(lt.features) {
					otf.warn(lt.name, fmt.Sprintf("script %s: feature index %d out of range", s.Tag, inx), lt.offset)
				}
			}
		}
	}
	for _, f := range lt.features {
		for _, inx := range f.LookupIndices {
			if int(inx) >= len(lt.lookups) {
				otf.warn(lt.name, fmt.Sprintf("feature %s: lookup index %d out of range", f.Tag, inx), lt.offset)
			}
		}
	}
}

func cmpOr(err, def error) error {
	if err != nil {
		return err
	}
	return def
}

// --- Encoding --------------------------------------------------------------

func encodeLayout(t Table, p otbin.Packer) ([]byte, error) {
	var lt *LayoutTable
	switch x := t.(type) {
	case *GSubTable:
		lt = &x.LayoutTable
	case *GPosTable:
		lt = &x.LayoutTable
	default:
		return nil, fmt.Errorf("table %s is not a layout table", t.Self().NameTag())
	}
	if !lt.dirty && lt.data != nil {
		return lt.data, nil
	}
	region, shift := lt.regionNode()
	ref16 := func(n *otbin.Node, pos int) {
		if pos < 0 {
			n.Offset16(nil)
			return
		}
		n.Offset16Into(region, pos-shift)
	}
	scriptList := otbin.NewNode("ScriptList")
	scriptList.U16(uint16(len(lt.scripts)))
	for _, s := range lt.scripts {
		scriptList.Tag(s.Tag)
		script := otbin.NewNode("Script " + s.Tag.String())
		if ls, ok := s.DefaultLangSys.Unwrap(); ok {
			script.Offset16(langSysNode(ls))
		} else {
			script.Offset16(nil)
		}
		script.U16(uint16(len(s.LangSys)))
		for _, rec := range s.LangSys {
			script.Tag(rec.Tag)
			script.Offset16(langSysNode(rec.LangSys))
		}
		scriptList.Offset16(script)
	}
	featureList := otbin.NewNode("FeatureList")
	featureList.U16(uint16(len(lt.features)))
	for _, f := range lt.features {
		featureList.Tag(f.Tag)
		feature := otbin.NewNode("Feature " + f.Tag.String())
		ref16(feature, f.params)
		feature.U16(uint16(len(f.LookupIndices)))
		for _, inx := range f.LookupIndices {
			feature.U16(inx)
		}
		featureList.Offset16(feature)
	}
	lookupList := otbin.NewNode("LookupList")
	lookupList.U16(uint16(len(lt.lookups)))
	for _, l := range lt.lookups {
		lookup := otbin.NewNode("Lookup")
		lookup.U16(l.Type)
		lookup.U16(l.Flag)
		lookup.U16(uint16(len(l.subtables)))
		for _, sub := range l.subtables {
			if sub.pos >= 0 {
				ref16(lookup, sub.pos)
			} else {
				lookup.Offset16(otbin.NodeFrom("lookup subtable", sub.data))
			}
		}
		if set, ok := l.MarkFilteringSet.Unwrap(); ok {
			lookup.U16(set)
		}
		lookupList.Offset16(lookup)
	}
	root := otbin.NewNode(lt.name.String())
	root.U16(lt.major)
	root.U16(lt.minor)
	root.Offset16(scriptList)
	root.Offset16(featureList)
	root.Offset16(lookupList)
	if lt.minor >= 1 {
		if lt.featureVariations >= 0 {
			root.Offset32Into(region, lt.featureVariations-shift)
		} else {
			root.Offset32(nil)
		}
	}
	return p.Pack(root)
}

func langSysNode(ls LangSys) *otbin.Node {
	n := otbin.NewNode("LangSys")
	n.U16(0) // lookupOrderOffset, reserved
	n.U16(ls.RequiredFeature.Or(0xFFFF))
	n.U16(uint16(len(ls.FeatureIndices)))
	for _, inx := range ls.FeatureIndices {
		n.U16(inx)
	}
	return n
}

// regionNode creates a node for the region of opaque sub-tables, cutting off
// leading bytes no longer referenced. It returns the node and the number of
// bytes cut.
func (lt *LayoutTable) regionNode() (*otbin.Node, int) {
	start := math.MaxInt
	if lt.featureVariations >= 0 {
		start = lt.featureVariations
	}
	for _, f := range lt.features {
		if f.params >= 0 {
			start = min(start, f.params)
		}
	}
	for _, l := range lt.lookups {
		for _, sub := range l.subtables {
			if sub.pos >= 0 {
				start = min(start, sub.pos)
			}
		}
	}
	if start == math.MaxInt {
		return nil, 0
	}
	return otbin.NodeFrom("opaque sub-tables", lt.region[start:]), start
}

// --- Access and modification -----------------------------------------------

func (s Script) langSystems() []LangSys {
	var all []LangSys
	if ls, ok := s.DefaultLangSys.Unwrap(); ok {
		all = append(all, ls)
	}
	for _, rec := range s.LangSys {
		all = append(all, rec.LangSys)
	}
	return all
}

func (ls LangSys) clone() LangSys {
	ls.FeatureIndices = slices.Clone(ls.FeatureIndices)
	return ls
}

func (s Script) clone() Script {
	if ls, ok := s.DefaultLangSys.Unwrap(); ok {
		s.DefaultLangSys = Some(ls.clone())
	}
	s.LangSys = slices.Clone(s.LangSys)
	for i := range s.LangSys {
		s.LangSys[i].LangSys = s.LangSys[i].LangSys.clone()
	}
	return s
}

// Version returns major and minor version of the table.
func (lt *LayoutTable) Version() (uint16, uint16) {
	return lt.major, lt.minor
}

// Scripts returns a copy of the ScriptList.
func (lt *LayoutTable) Scripts() []Script {
	scripts := make([]Script, len(lt.scripts))
	for i, s := range lt.scripts {
		scripts[i] = s.clone()
	}
	return scripts
}

// Script returns a copy of the script for tag.
func (lt *LayoutTable) Script(tag Tag) (Script, bool) {
	for _, s := range lt.scripts {
		if s.Tag == tag {
			return s.clone(), true
		}
	}
	return Script{}, false
}

// Features returns a copy of the FeatureList.
func (lt *LayoutTable) Features() []Feature {
	features := slices.Clone(lt.features)
	for i := range features {
		features[i].LookupIndices = slices.Clone(features[i].LookupIndices)
	}
	return features
}

// Lookups returns a copy of the LookupList.
func (lt *LayoutTable) Lookups() []Lookup {
	lookups := slices.Clone(lt.lookups)
	for i := range lookups {
		lookups[i].subtables = slices.Clone(lookups[i].subtables)
	}
	return lookups
}

// LookupSubtable returns the binary data of subtable i of lookup l. As sub-tables
// may refer to data following them, the slice returned extends to the end of the
// region of opaque sub-tables. Clients must not modify the data.
func (lt *LayoutTable) LookupSubtable(l, i int) ([]byte, error) {
	if l < 0 || l >= len(lt.lookups) || i < 0 || i >= len(lt.lookups[l].subtables) {
		return nil, fmt.Errorf("lookup %d subtable %d: %w", l, i, otbin.ErrMissingSubtable)
	}
	sub := lt.lookups[l].subtables[i]
	if sub.pos < 0 {
		return sub.data, nil
	}
	return lt.region[sub.pos:], nil
}

// SetScript adds a script, replacing a script with the same tag. Scripts are kept
// sorted by tag.
func (lt *LayoutTable) SetScript(s Script) {
	s = s.clone()
	byTag := func(a, b Script) int { return cmp.Compare(a.Tag, b.Tag) }
	if !slices.IsSortedFunc(lt.scripts, byTag) {
		slices.SortStableFunc(lt.scripts, byTag)
	}
	i, found := slices.BinarySearchFunc(lt.scripts, s.Tag, func(x Script, tag Tag) int {
		return cmp.Compare(x.Tag, tag)
	})
	if found {
		lt.scripts[i] = s
	} else {
		lt.scripts = slices.Insert(lt.scripts, i, s)
	}
	lt.dirty = true
}

// RemoveScript removes the script for tag and reports whether it has been present.
func (lt *LayoutTable) RemoveScript(tag Tag) bool {
	n := len(lt.scripts)
	lt.scripts = slices.DeleteFunc(lt.scripts, func(s Script) bool { return s.Tag == tag })
	if len(lt.scripts) == n {
		return false
	}
	lt.dirty = true
	return true
}

// AddFeature appends a feature to the FeatureList and returns its feature index.
// Features are appended rather than inserted in tag order, as existing feature
// indices may be referenced from opaque sub-tables.
func (lt *LayoutTable) AddFeature(tag Tag, lookupIndices ...uint16) (int, error) {
	if len(lt.features) >= math.MaxUint16 {
		return 0, fmt.Errorf("too many features")
	}
	for _, inx := range lookupIndices {
		if int(inx) >= len(lt.lookups) {
			return 0, fmt.Errorf("feature %s: lookup index %d out of range: %w", tag, inx, otbin.ErrUnresolvedOffset)
		}
	}
	lt.features = append(lt.features, Feature{Tag: tag, LookupIndices: slices.Clone(lookupIndices), params: -1})
	lt.dirty = true
	return len(lt.features) - 1, nil
}

// AddLookup appends a lookup with binary subtables to the LookupList and returns
// its lookup index. Subtables must be self-contained.
func (lt *LayoutTable) AddLookup(lookupType, flag uint16, subtables ...[]byte) (int, error) {
	if len(lt.lookups) >= math.MaxUint16 {
		return 0, fmt.Errorf("too many lookups")
	}
	if flag&LookupUseMarkFilteringSet != 0 {
		return 0, fmt.Errorf("lookup flag UseMarkFilteringSet requires a mark filtering set")
	}
	l := Lookup{Type: lookupType, Flag: flag}
	for _, sub := range subtables {
		l.subtables = append(l.subtables, subtableRef{pos: -1, data: sub})
	}
	lt.lookups = append(lt.lookups, l)
	lt.dirty = true
	return len(lt.lookups) - 1, nil
}

// AddFeatureToScripts adds a feature index to every language system of every script.
func (lt *LayoutTable) AddFeatureToScripts(featureIndex int) error {
	if featureIndex < 0 || featureIndex >= len(lt.features) {
		return fmt.Errorf("feature index %d out of range", featureIndex)
	}
	add := func(ls *LangSys) {
		if !slices.Contains(ls.FeatureIndices, uint16(featureIndex)) {
			ls.FeatureIndices = append(ls.FeatureIndices, uint16(featureIndex))
		}
	}
	for i := range lt.scripts {
		s := &lt.scripts[i]
		if ls := s.DefaultLangSys.Ptr(); ls != nil {
			add(ls)
		}
		for j := range s.LangSys {
			add(&s.LangSys[j].LangSys)
		}
	}
	lt.dirty = true
	return nil
}
