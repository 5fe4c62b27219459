package ot

import (
	"fmt"
	"slices"
)

// Font represents the internal structure of an OpenType font: a set of tables,
// keyed by tag, together with the font type of the table directory.
//
// A Font owns its tables. Tables are decoded from a binary font by Parse, or
// created empty by New, and may be mutated, added and removed by clients.
// Save serializes the font into its binary form.
type Font struct {
	Header        *FontHeader
	tables        map[Tag]Table
	directory     []TableRecord // directory as read by Parse
	registry      *Registry     // decoders and encoders
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
	parseOptions  []ParseOption // Options to guide the parsing process
	diag          *errorCollector
}

// Font types, i.e. values of FontHeader.FontType.
const (
	TrueTypeFont  uint32 = 0x00010000 // TrueType outlines
	CFFFont       uint32 = 0x4f54544f // 'OTTO', CFF outlines
	AppleTrueType uint32 = 0x74727565 // 'true', accepted on input
)

// ParseOption guides and influences the parsing of the font.
type ParseOption int

const (
	IsTestfont      ParseOption = iota // relaxes a number of cross-checks that are normally enforced
	StrictChecksums                    // make table checksum mismatches fatal
	KeepRaw                            // do not decode tables, keep every table as a RawTable
)

// FontHeader is the header of the table directory of a font. It is followed by
// TableCount table records of 16 bytes each.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// The Apple specification for TrueType fonts allows for 'true' and 'typ1',
// but these version tags should not be used for OpenType fonts.
//
// The fields following FontType are derived values. They reflect the font as read
// and are recomputed by Save.
type FontHeader struct {
	FontType      uint32
	TableCount    uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// TableRecord is an entry of the table directory.
type TableRecord struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32 // absolute position in the font file
	Length   uint32 // unpadded length of the table
}

func (rec TableRecord) String() string {
	return fmt.Sprintf("%s[checksum=%08x, offset=%d, length=%d]", rec.Tag, rec.Checksum, rec.Offset, rec.Length)
}

// New creates an empty font of a given font type, usually TrueTypeFont or CFFFont.
func New(fontType uint32) *Font {
	return &Font{
		Header:   &FontHeader{FontType: fontType},
		tables:   make(map[Tag]Table),
		registry: DefaultRegistry(),
	}
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// `Table` will return at least a generic table type (*RawTable) for each table
// contained in the font, i.e. no table information will be dropped.
// For example to receive the `OS/2` and the `loca` table, clients may call
//
//	os2  := otf.Table(ot.T("OS/2"))
//	loca := otf.Table(ot.T("loca")).Self().AsLoca()
//
// or use the typed getters, e.g., `otf.Loca()`.
func (otf *Font) Table(tag Tag) Table {
	if otf == nil {
		return nil
	}
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in ascending order.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Directory returns the table directory as it has been read by Parse. Fonts
// created with New have an empty directory. The directory is informational only,
// Save computes a new one.
func (otf *Font) Directory() []TableRecord {
	return slices.Clone(otf.directory)
}

// SetTable adds a table to the font, replacing any table with the same tag.
func (otf *Font) SetTable(t Table) error {
	if t == nil {
		return fmt.Errorf("cannot set nil table")
	}
	tag := t.Self().NameTag()
	if !tag.IsValid() {
		return fmt.Errorf("invalid table tag %q", tag.String())
	}
	otf.tables[tag] = t
	return nil
}

// SetRawTable adds a table from raw bytes. The table is not interpreted, even if
// its tag is known, and will be written verbatim.
func (otf *Font) SetRawTable(tag Tag, b []byte) error {
	return otf.SetTable(NewRawTable(tag, b))
}

// RemoveTable removes the table for tag. It returns false if there has been none.
func (otf *Font) RemoveTable(tag Tag) bool {
	if _, ok := otf.tables[tag]; !ok {
		return false
	}
	delete(otf.tables, tag)
	return true
}

// Registry returns the table registry used for decoding and encoding tables of otf.
func (otf *Font) Registry() *Registry {
	if otf.registry == nil {
		otf.registry = DefaultRegistry()
	}
	return otf.registry
}

// warn records a warning while the font is being parsed.
func (otf *Font) warn(tag Tag, issue string, offset uint32) {
	if otf != nil && otf.diag != nil {
		otf.diag.addWarning(tag, issue, offset)
	}
}

func (otf *Font) hasOption(opt ParseOption) bool {
	return slices.Contains(otf.parseOptions, opt)
}

// Errors returns all errors encountered during font parsing.
// These errors represent issues that were found but did not prevent parsing from completing.
// Clients can inspect these errors to determine if the font is suitable for their use case.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
// Warnings indicate potential issues that are generally safe to ignore.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// CriticalErrors returns all errors with critical severity.
func (otf *Font) CriticalErrors() []FontError {
	critical := make([]FontError, 0)
	for _, err := range otf.parseErrors {
		if err.Severity == SeverityCritical {
			critical = append(critical, err)
		}
	}
	return critical
}

// HasCriticalErrors returns true if any critical errors were encountered during parsing.
func (otf *Font) HasCriticalErrors() bool {
	return len(otf.CriticalErrors()) > 0
}

// --- Typed access ----------------------------------------------------------

func typedTable[T Table](otf *Font, tag Tag) T {
	var zero T
	if otf == nil {
		return zero
	}
	if t, ok := otf.tables[tag].(T); ok {
		return t
	}
	return zero
}

// Head returns the decoded head table, or nil.
func (otf *Font) Head() *HeadTable { return typedTable[*HeadTable](otf, TagHead) }

// MaxP returns the decoded maxp table, or nil.
func (otf *Font) MaxP() *MaxPTable { return typedTable[*MaxPTable](otf, TagMaxP) }

// HHea returns the decoded hhea table, or nil.
func (otf *Font) HHea() *HHeaTable { return typedTable[*HHeaTable](otf, TagHHea) }

// HMtx returns the decoded hmtx table, or nil.
func (otf *Font) HMtx() *HMtxTable { return typedTable[*HMtxTable](otf, TagHMtx) }

// OS2 returns the decoded OS/2 table, or nil.
func (otf *Font) OS2() *OS2Table { return typedTable[*OS2Table](otf, TagOS2) }

// Post returns the decoded post table, or nil.
func (otf *Font) Post() *PostTable { return typedTable[*PostTable](otf, TagPost) }

// Names returns the decoded name table, or nil.
func (otf *Font) Names() *NameTable { return typedTable[*NameTable](otf, TagName) }

// CMap returns the decoded cmap table, or nil.
func (otf *Font) CMap() *CMapTable { return typedTable[*CMapTable](otf, TagCMap) }

// Gasp returns the decoded gasp table, or nil.
func (otf *Font) Gasp() *GaspTable { return typedTable[*GaspTable](otf, TagGasp) }

// GSub returns the decoded GSUB table, or nil.
func (otf *Font) GSub() *GSubTable { return typedTable[*GSubTable](otf, TagGSub) }

// GPos returns the decoded GPOS table, or nil.
func (otf *Font) GPos() *GPosTable { return typedTable[*GPosTable](otf, TagGPos) }

// FVar returns the decoded fvar table, or nil.
func (otf *Font) FVar() *FVarTable { return typedTable[*FVarTable](otf, TagFVar) }

// AVar returns the decoded avar table, or nil.
func (otf *Font) AVar() *AVarTable { return typedTable[*AVarTable](otf, TagAVar) }

// Loca returns the decoded loca table, or nil.
func (otf *Font) Loca() *LocaTable { return typedTable[*LocaTable](otf, TagLoca) }

// GVar returns the decoded gvar table, or nil.
func (otf *Font) GVar() *GVarTable { return typedTable[*GVarTable](otf, TagGVar) }

// Glyf returns the decoded glyf table, or nil.
func (otf *Font) Glyf() *GlyfTable { return typedTable[*GlyfTable](otf, TagGlyf) }

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Required Tables, according to the OpenType specification:
// 'cmap' (Character to glyph mapping), 'head' (Font header), 'hhea' (Horizontal header),
// 'hmtx' (Horizontal metrics), 'maxp' (Maximum profile), 'name' (Naming table),
// 'OS/2' (OS/2 and Windows specific metrics), 'post' (PostScript information).
//
// For TrueType outline fonts: 'cvt ' (Control Value Table, optional),
// 'fpgm' (Font program, optional), 'glyf' (Glyph data), 'loca' (Index to location),
// 'prep' (CVT Program, optional), 'gasp' (Grid-fitting/Scan-conversion, optional).
//
// Tables not decoded by the table registry are represented as *RawTable.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes this table has been decoded from; treat as read-only
	Self() TableSelf          // reference to itself
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   []byte // the bytes the table has been decoded from, if any
	name   Tag    // 4-byte name as an integer
	offset uint32 // from offset
	length uint32 // to offset + length
	self   any
}

func makeBase(tag Tag, b []byte, offset uint32) tableBase {
	return tableBase{data: b, name: tag, offset: offset, length: uint32(len(b))}
}

// Extent returns offset and byte size of this table within the OpenType font.
// Tables created by clients return (0, 0).
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes this table has been decoded from. Should be treated as
// read-only by clients, as it is a view into the original data. Tables created by
// clients return nil. To get the current binary form of a table, use Font.TableBytes.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

// Self returns a reference to the table.
func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// RawTable is a table which has not been interpreted. It is written back verbatim.
type RawTable struct {
	tableBase
}

// NewRawTable creates an uninterpreted table from binary data.
func NewRawTable(tag Tag, b []byte) *RawTable {
	t := &RawTable{}
	t.tableBase = makeBase(tag, b, 0)
	t.self = t
	return t
}

func newRawTable(tag Tag, b []byte, offset uint32) *RawTable {
	t := &RawTable{}
	t.tableBase = makeBase(tag, b, offset)
	t.self = t
	return t
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

func asTable[T any](tself TableSelf) T {
	t, _ := safeSelf(tself).(T)
	return t
}

// AsRaw returns this table as an uninterpreted table, or nil.
func (tself TableSelf) AsRaw() *RawTable { return asTable[*RawTable](tself) }

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable { return asTable[*HeadTable](tself) }

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable { return asTable[*MaxPTable](tself) }

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable { return asTable[*HHeaTable](tself) }

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable { return asTable[*HMtxTable](tself) }

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table { return asTable[*OS2Table](tself) }

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable { return asTable[*PostTable](tself) }

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable { return asTable[*NameTable](tself) }

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable { return asTable[*CMapTable](tself) }

// AsGasp returns this table as a gasp table, or nil.
func (tself TableSelf) AsGasp() *GaspTable { return asTable[*GaspTable](tself) }

// AsGSub returns this table as a GSUB table, or nil.
func (tself TableSelf) AsGSub() *GSubTable { return asTable[*GSubTable](tself) }

// AsGPos returns this table as a GPOS table, or nil.
func (tself TableSelf) AsGPos() *GPosTable { return asTable[*GPosTable](tself) }

// AsFVar returns this table as a fvar table, or nil.
func (tself TableSelf) AsFVar() *FVarTable { return asTable[*FVarTable](tself) }

// AsAVar returns this table as an avar table, or nil.
func (tself TableSelf) AsAVar() *AVarTable { return asTable[*AVarTable](tself) }

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable { return asTable[*LocaTable](tself) }

// AsGVar returns this table as a gvar table, or nil.
func (tself TableSelf) AsGVar() *GVarTable { return asTable[*GVarTable](tself) }

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable { return asTable[*GlyfTable](tself) }
