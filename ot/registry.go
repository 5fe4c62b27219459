package ot

import (
	"fmt"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// Tags of the tables known to the default registry.
var (
	TagHead = T("head")
	TagMaxP = T("maxp")
	TagHHea = T("hhea")
	TagHMtx = T("hmtx")
	TagOS2  = T("OS/2")
	TagPost = T("post")
	TagName = T("name")
	TagCMap = T("cmap")
	TagGasp = T("gasp")
	TagGSub = T("GSUB")
	TagGPos = T("GPOS")
	TagFVar = T("fvar")
	TagAVar = T("avar")
	TagLoca = T("loca")
	TagGVar = T("gvar")
	TagGlyf = T("glyf")
)

// DecodeFunc decodes table tag from b, which has been read at offset of the font
// file. Tables listed as requirements in the table's TableSpec have been decoded
// before and are accessible through otf.
type DecodeFunc func(otf *Font, tag Tag, b []byte, offset uint32) (Table, error)

// EncodeFunc encodes a table. Offset-bearing tables use p for serializing their
// sub-tables; p has sharing of sub-tables enabled if the TableSpec says so.
type EncodeFunc func(t Table, p otbin.Packer) ([]byte, error)

// PrepareFunc updates values derived from table t, possibly in other tables of otf.
// It is called by Font.Save before any table is encoded.
type PrepareFunc func(otf *Font, t Table) error

// TableSpec describes how a kind of table is decoded and encoded.
type TableSpec struct {
	Tag        Tag
	Requires   []Tag // tables which have to be decoded before this one
	HasOffsets bool  // table contains offsets to sub-tables
	FixedSize  []int // permitted sizes of fixed-layout tables, nil otherwise
	Share      bool  // identical sub-tables may be shared on encode
	Decode     DecodeFunc
	Encode     EncodeFunc
	Prepare    PrepareFunc // optional
}

// minSize returns the smallest permitted size of a fixed-layout table, or 0.
func (spec TableSpec) minSize() int {
	if len(spec.FixedSize) == 0 {
		return 0
	}
	return slices.Min(spec.FixedSize)
}

// Registry maps table tags to table specs. Tables without a spec are kept
// as *RawTable.
type Registry struct {
	specs map[Tag]TableSpec
}

// NewRegistry creates an empty registry. Fonts parsed with an empty registry
// consist of raw tables only.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[Tag]TableSpec)}
}

// DefaultRegistry creates a registry for all tables known to package ot.
// Every call returns a new registry, which may be modified by clients.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range knownTables() {
		if err := r.Register(spec); err != nil {
			panic(err) // programming error
		}
	}
	return r
}

// Register adds a table spec, replacing any spec with the same tag.
func (r *Registry) Register(spec TableSpec) error {
	if !spec.Tag.IsValid() {
		return fmt.Errorf("registering table spec: invalid tag %q", spec.Tag.String())
	}
	if spec.Decode == nil || spec.Encode == nil {
		return fmt.Errorf("registering table spec %s: decoder and encoder required", spec.Tag)
	}
	r.specs[spec.Tag] = spec
	return nil
}

// Lookup returns the spec for tag, if any.
func (r *Registry) Lookup(tag Tag) (TableSpec, bool) {
	if r == nil {
		return TableSpec{}, false
	}
	spec, ok := r.specs[tag]
	return spec, ok
}

// Tags returns the tags of all registered tables in ascending order.
func (r *Registry) Tags() []Tag {
	tags := make([]Tag, 0, len(r.specs))
	for tag := range r.specs {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// levels sorts tags into dependency levels: level 0 holds tables without
// requirements, level n tables requiring tables of levels < n only. Tables
// with a requirement not contained in tags, or with cyclic requirements, are
// returned as unresolved. Tags without spec go into level 0.
func (r *Registry) levels(tags []Tag) (levels [][]Tag, unresolved []Tag) {
	present := make(map[Tag]bool, len(tags))
	for _, tag := range tags {
		present[tag] = true
	}
	level := make(map[Tag]int, len(tags))
	pending := slices.Clone(tags)
	slices.Sort(pending)
	for l := 0; len(pending) > 0; l++ {
		var current, next []Tag
		for _, tag := range pending {
			spec, _ := r.Lookup(tag)
			ready, missing := true, false
			for _, req := range spec.Requires {
				if !present[req] {
					missing = true
					break
				}
				if lr, ok := level[req]; !ok || lr >= l {
					ready = false
				}
			}
			switch {
			case missing:
				unresolved = append(unresolved, tag)
			case ready:
				current = append(current, tag)
			default:
				next = append(next, tag)
			}
		}
		if len(current) == 0 { // cyclic requirements
			unresolved = append(unresolved, next...)
			break
		}
		for _, tag := range current {
			level[tag] = l
		}
		levels = append(levels, current)
		pending = next
	}
	return levels, unresolved
}

func knownTables() []TableSpec {
	return []TableSpec{
		{Tag: TagHead, FixedSize: []int{headSize}, Decode: decodeHead, Encode: encodeSchemaTable},
		{Tag: TagMaxP, FixedSize: []int{maxpSizeV05, maxpSizeV10}, Decode: decodeMaxP, Encode: encodeSchemaTable},
		{Tag: TagHHea, FixedSize: []int{hheaSize}, Decode: decodeHHea, Encode: encodeSchemaTable},
		{Tag: TagOS2, FixedSize: os2Sizes(), Decode: decodeOS2, Encode: encodeSchemaTable},
		{Tag: TagPost, Decode: decodePost, Encode: encodePost},
		{Tag: TagName, HasOffsets: true, Share: true, Decode: decodeName, Encode: encodeName},
		{Tag: TagCMap, HasOffsets: true, Share: true, Decode: decodeCMap, Encode: encodeCMap},
		{Tag: TagGasp, Decode: decodeGasp, Encode: encodeGasp},
		{Tag: TagGSub, HasOffsets: true, Share: true, Decode: decodeLayout, Encode: encodeLayout},
		{Tag: TagGPos, HasOffsets: true, Share: true, Decode: decodeLayout, Encode: encodeLayout},
		{Tag: TagFVar, HasOffsets: true, Decode: decodeFVar, Encode: encodeFVar},
		{Tag: TagAVar, Decode: decodeAVar, Encode: encodeAVar},
		{Tag: TagLoca, Requires: []Tag{TagHead, TagMaxP}, Decode: decodeLoca, Encode: encodeLoca},
		{Tag: TagHMtx, Requires: []Tag{TagHHea, TagMaxP}, Decode: decodeHMtx, Encode: encodeHMtx, Prepare: prepareHMtx},
		{Tag: TagGVar, Requires: []Tag{TagFVar, TagMaxP}, HasOffsets: true, Decode: decodeGVar, Encode: encodeGVar, Prepare: prepareGVar},
		{Tag: TagGlyf, Requires: []Tag{TagLoca, TagMaxP}, Decode: decodeGlyf, Encode: encodeGlyf, Prepare: prepareGlyf},
	}
}
