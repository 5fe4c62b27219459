package ot

import (
	"fmt"
	"strings"

	"github.com/npillmayer/fonttools/otbin"
)

const (
	postV1  = 0x00010000
	postV2  = 0x00020000
	postV25 = 0x00025000
	postV3  = 0x00030000
	postV4  = 0x00040000
)

var postSchema = otbin.NewSchema("post",
	otbin.F("version", otbin.KindVersion16Dot16),
	otbin.F("italicAngle", otbin.KindFixed),
	otbin.F("underlinePosition", otbin.KindFWord),
	otbin.F("underlineThickness", otbin.KindFWord),
	otbin.F("isFixedPitch", otbin.KindUint32),
	otbin.F("minMemType42", otbin.KindUint32),
	otbin.F("maxMemType42", otbin.KindUint32),
	otbin.F("minMemType1", otbin.KindUint32),
	otbin.F("maxMemType1", otbin.KindUint32),
)

// PostTable contains information needed to use the font on PostScript printers,
// most notably glyph names. Version 1 fonts use the standard Macintosh ordering of
// 258 glyphs, version 2 fonts carry glyph names, version 3 fonts carry no glyph names.
// Data of other versions is kept verbatim.
type PostTable struct {
	schemaTable
	nameIndex []uint16 // version 2: index into standard names, then custom names
	names     []string // version 2: custom names
}

// NewPostTable creates a post table of version 3, i.e. without glyph names.
func NewPostTable() *PostTable {
	t := &PostTable{schemaTable: newSchemaTable(postSchema, TagPost)}
	t.rec.MustSet("version", postV3)
	t.self = t
	return t
}

func decodePost(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	st, err := decodeSchemaTable(postSchema, tag, b, offset)
	if err != nil {
		return nil, err
	}
	t := &PostTable{schemaTable: st}
	t.self = t
	switch v := t.rec.U32("version"); v {
	case postV1, postV25, postV3, postV4:
	case postV2:
		if err := t.decodeNames(otf, st.tail); err != nil {
			return nil, err
		}
		t.tail = nil
	default:
		return nil, errTableVersion(tag, otbin.Version16Dot16(v))
	}
	return t, nil
}

func (t *PostTable) decodeNames(otf *Font, b []byte) error {
	r := otbin.NewReader(b)
	n, err := r.U16()
	if err != nil {
		return err
	}
	if t.nameIndex, err = otbin.ReadArray[uint16](r, int(n)); err != nil {
		return err
	}
	for r.Remaining() > 0 {
		l, _ := r.U8()
		s, err := r.Bytes(int(l))
		if err != nil {
			return fmt.Errorf("post glyph name %d: %w", len(t.names), err)
		}
		t.names = append(t.names, string(s))
	}
	for gid, inx := range t.nameIndex {
		if int(inx) >= len(macGlyphNames)+len(t.names) {
			otf.warn(TagPost, fmt.Sprintf("glyph %d: name index %d out of range", gid, inx), t.offset)
		}
	}
	return nil
}

func encodePost(t Table, _ otbin.Packer) ([]byte, error) {
	post := t.Self().AsPost()
	if post == nil {
		return nil, fmt.Errorf("table %s is not a post table", t.Self().NameTag())
	}
	b := post.rec.Bytes()
	if post.rec.U32("version") == postV2 {
		w := otbin.NewWriter(2 + 2*len(post.nameIndex))
		w.U16(uint16(len(post.nameIndex)))
		for _, inx := range post.nameIndex {
			w.U16(inx)
		}
		for _, name := range post.names {
			if len(name) > 255 {
				return nil, fmt.Errorf("glyph name %q too long", name[:32])
			}
			w.U8(uint8(len(name)))
			w.Write([]byte(name))
		}
		b = append(b, w.Bytes()...)
	}
	return append(b, post.tail...), nil
}

// Version returns the table version.
func (t *PostTable) Version() otbin.Version16Dot16 {
	return t.rec.Version("version")
}

// ItalicAngle returns the italic angle in counter-clockwise degrees from the vertical.
func (t *PostTable) ItalicAngle() otbin.Fixed {
	return t.rec.Fixed("italicAngle")
}

// IsFixedPitch reports whether the font is monospaced.
func (t *PostTable) IsFixedPitch() bool {
	return t.rec.U32("isFixedPitch") != 0
}

// GlyphName returns the name of glyph gid, if the table contains glyph names.
func (t *PostTable) GlyphName(gid GlyphIndex) (string, bool) {
	switch t.rec.U32("version") {
	case postV1:
		if int(gid) < len(macGlyphNames) {
			return macGlyphNames[gid], true
		}
	case postV2:
		if int(gid) >= len(t.nameIndex) {
			break
		}
		inx := int(t.nameIndex[gid])
		if inx < len(macGlyphNames) {
			return macGlyphNames[inx], true
		}
		if inx -= len(macGlyphNames); inx < len(t.names) {
			return t.names[inx], true
		}
	}
	return "", false
}

// NumNames returns the number of glyphs with names.
func (t *PostTable) NumNames() int {
	switch t.rec.U32("version") {
	case postV1:
		return len(macGlyphNames)
	case postV2:
		return len(t.nameIndex)
	}
	return 0
}

// SetGlyphNames sets the names of all glyphs, in glyph index order, and converts the
// table to version 2. Standard Macintosh names are stored as references.
func (t *PostTable) SetGlyphNames(names []string) error {
	index := make([]uint16, len(names))
	var custom []string
	customIndex := make(map[string]int)
	for gid, name := range names {
		if len(name) > 255 || strings.ContainsFunc(name, func(r rune) bool { return r < 0x21 || r > 0x7e }) {
			return fmt.Errorf("invalid glyph name %q for glyph %d", name, gid)
		}
		if inx, ok := macGlyphIndex[name]; ok {
			index[gid] = inx
			continue
		}
		inx, ok := customIndex[name]
		if !ok {
			inx = len(custom)
			customIndex[name] = inx
			custom = append(custom, name)
		}
		if len(macGlyphNames)+inx > 0xFFFF {
			return fmt.Errorf("too many glyph names")
		}
		index[gid] = uint16(len(macGlyphNames) + inx)
	}
	t.rec.MustSet("version", postV2)
	t.nameIndex, t.names, t.tail = index, custom, nil
	return nil
}

// DropGlyphNames converts the table to version 3, which carries no glyph names.
func (t *PostTable) DropGlyphNames() {
	t.rec.MustSet("version", postV3)
	t.nameIndex, t.names, t.tail = nil, nil, nil
}

// macGlyphNames is the standard Macintosh ordering of glyph names.
var macGlyphNames = [...]string{
	".notdef", ".null", "nonmarkingreturn", "space", "exclam", "quotedbl", "numbersign",
	"dollar", "percent", "ampersand", "quotesingle", "parenleft", "parenright", "asterisk",
	"plus", "comma", "hyphen", "period", "slash", "zero", "one", "two", "three", "four",
	"five", "six", "seven", "eight", "nine", "colon", "semicolon", "less", "equal",
	"greater", "question", "at", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K",
	"L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"bracketleft", "backslash", "bracketright", "asciicircum", "underscore", "grave",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q",
	"r", "s", "t", "u", "v", "w", "x", "y", "z", "braceleft", "bar", "braceright",
	"asciitilde", "Adieresis", "Aring", "Ccedilla", "Eacute", "Ntilde", "Odieresis",
	"Udieresis", "aacute", "agrave", "acircumflex", "adieresis", "atilde", "aring",
	"ccedilla", "eacute", "egrave", "ecircumflex", "edieresis", "iacute", "igrave",
	"icircumflex", "idieresis", "ntilde", "oacute", "ograve", "ocircumflex", "odieresis",
	"otilde", "uacute", "ugrave", "ucircumflex", "udieresis", "dagger", "degree", "cent",
	"sterling", "section", "bullet", "paragraph", "germandbls", "registered", "copyright",
	"trademark", "acute", "dieresis", "notequal", "AE", "Oslash", "infinity", "plusminus",
	"lessequal", "greaterequal", "yen", "mu", "partialdiff", "summation", "product", "pi",
	"integral", "ordfeminine", "ordmasculine", "Omega", "ae", "oslash", "questiondown",
	"exclamdown", "logicalnot", "radical", "florin", "approxequal", "Delta",
	"guillemotleft", "guillemotright", "ellipsis", "nonbreakingspace", "Agrave", "Atilde",
	"Otilde", "OE", "oe", "endash", "emdash", "quotedblleft", "quotedblright", "quoteleft",
	"quoteright", "divide", "lozenge", "ydieresis", "Ydieresis", "fraction", "currency",
	"guilsinglleft", "guilsinglright", "fi", "fl", "daggerdbl", "periodcentered",
	"quotesinglbase", "quotedblbase", "perthousand", "Acircumflex", "Ecircumflex",
	"Aacute", "Edieresis", "Egrave", "Iacute", "Icircumflex", "Idieresis", "Igrave",
	"Oacute", "Ocircumflex", "apple", "Ograve", "Uacute", "Ucircumflex", "Ugrave",
	"dotlessi", "circumflex", "tilde", "macron", "breve", "dotaccent", "ring", "cedilla",
	"hungarumlaut", "ogonek", "caron", "Lslash", "lslash", "Scaron", "scaron", "Zcaron",
	"zcaron", "brokenbar", "Eth", "eth", "Yacute", "yacute", "Thorn", "thorn", "minus",
	"multiply", "onesuperior", "twosuperior", "threesuperior", "onehalf", "onequarter",
	"threequarters", "franc", "Gbreve", "gbreve", "Idotaccent", "Scedilla", "scedilla",
	"Cacute", "cacute", "Ccaron", "ccaron", "dcroat",
}

var macGlyphIndex = func() map[string]uint16 {
	m := make(map[string]uint16, len(macGlyphNames))
	for i, name := range macGlyphNames {
		m[name] = uint16(i)
	}
	return m
}()
