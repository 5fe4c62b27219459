package ot

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// NameID identifies the kind of a name record.
type NameID uint16

// Predefined name IDs.
const (
	NameCopyright            NameID = 0
	NameFamily               NameID = 1
	NameSubfamily            NameID = 2
	NameUniqueID             NameID = 3
	NameFull                 NameID = 4
	NameVersion              NameID = 5
	NamePostScript           NameID = 6
	NameTrademark            NameID = 7
	NameManufacturer         NameID = 8
	NameDesigner             NameID = 9
	NameDescription          NameID = 10
	NameVendorURL            NameID = 11
	NameDesignerURL          NameID = 12
	NameLicense              NameID = 13
	NameLicenseURL           NameID = 14
	NameTypographicFamily    NameID = 16
	NameTypographicSubfamily NameID = 17
	NameSampleText           NameID = 19
)

// Platform IDs.
const (
	PlatformUnicode   uint16 = 0
	PlatformMac       uint16 = 1
	PlatformISO       uint16 = 2
	PlatformWindows   uint16 = 3
	windowsUnicodeBMP uint16 = 1
	windowsUnicodeAll uint16 = 10
	windowsEnglishUS  uint16 = 0x409
)

// NameRecord is an entry of the naming table. The string is held in its binary
// form, encoded as determined by platform and encoding.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     NameID
	Value      []byte
}

// NewNameRecord creates a name record, encoding s as required by the platform and
// encoding IDs.
func NewNameRecord(platformID, encodingID, languageID uint16, id NameID, s string) (NameRecord, error) {
	rec := NameRecord{PlatformID: platformID, EncodingID: encodingID, LanguageID: languageID, NameID: id}
	enc := nameEncoding(platformID, encodingID)
	if enc == nil {
		return rec, fmt.Errorf("no text encoding for platform %d, encoding %d", platformID, encodingID)
	}
	b, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return rec, fmt.Errorf("encoding name %d: %w", id, err)
	}
	rec.Value = b
	return rec, nil
}

// Text decodes the string of a name record.
func (rec NameRecord) Text() (string, error) {
	enc := nameEncoding(rec.PlatformID, rec.EncodingID)
	if enc == nil {
		return "", fmt.Errorf("no text encoding for platform %d, encoding %d", rec.PlatformID, rec.EncodingID)
	}
	b, err := enc.NewDecoder().Bytes(rec.Value)
	if err != nil {
		return "", fmt.Errorf("decoding name %d: %w", rec.NameID, err)
	}
	return string(b), nil
}

func (rec NameRecord) key() [4]uint16 {
	return [4]uint16{rec.PlatformID, rec.EncodingID, rec.LanguageID, uint16(rec.NameID)}
}

func compareNameRecords(a, b NameRecord) int {
	ka, kb := a.key(), b.key()
	return slices.Compare(ka[:], kb[:])
}

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// nameEncoding returns the text encoding for a platform/encoding pair, or nil.
func nameEncoding(platformID, encodingID uint16) encoding.Encoding {
	switch platformID {
	case PlatformUnicode:
		return utf16BE
	case PlatformMac:
		switch encodingID {
		case 0:
			return charmap.Macintosh
		case 1:
			return japanese.ShiftJIS
		case 2:
			return traditionalchinese.Big5
		case 3:
			return korean.EUCKR
		case 7:
			return charmap.MacintoshCyrillic
		case 25:
			return simplifiedchinese.GBK
		}
	case PlatformISO:
		switch encodingID {
		case 0:
			return charmap.Windows1252
		case 1:
			return utf16BE
		case 2:
			return charmap.ISO8859_1
		}
	case PlatformWindows:
		switch encodingID {
		case 0, windowsUnicodeBMP, windowsUnicodeAll:
			return utf16BE
		case 2:
			return japanese.ShiftJIS
		case 3:
			return simplifiedchinese.GBK
		case 4:
			return traditionalchinese.Big5
		case 5:
			return korean.EUCKR
		}
	}
	return nil
}

// NameTable holds the names of a font (family name, copyright, …) in various
// languages and encodings. Version 1 tables may carry language tags.
type NameTable struct {
	tableBase
	version  uint16
	records  []NameRecord
	langTags [][]byte // UTF-16BE
	dirty    bool
}

// NewNameTable creates an empty naming table, version 0.
func NewNameTable() *NameTable {
	t := &NameTable{tableBase: tableBase{name: TagName}, dirty: true}
	t.self = t
	return t
}

func decodeName(otf *Font, tag Tag, b []byte, offset uint32) (Table, error) {
	t := &NameTable{tableBase: makeBase(tag, b, offset)}
	t.self = t
	r := otbin.NewReader(b)
	t.version, _ = r.U16()
	count, _ := r.U16()
	storage, err := r.U16()
	if err != nil {
		return nil, err
	}
	if t.version > 1 {
		return nil, errTableVersion(tag, t.version)
	}
	if count > MaxRecordMapCount {
		return nil, fmt.Errorf("name table: %d records exceed limit: %w", count, otbin.ErrTruncated)
	}
	str := func(length, off uint16) ([]byte, error) {
		start := int(storage) + int(off)
		if start+int(length) > len(b) {
			return nil, fmt.Errorf("name string [%d:%d] beyond table size %d: %w",
				start, start+int(length), len(b), otbin.ErrTruncated)
		}
		return b[start : start+int(length)], nil
	}
	t.records = make([]NameRecord, 0, count)
	for i := 0; i < int(count); i++ {
		rs, err := otbin.ReadArray[uint16](r, 6)
		if err != nil {
			return nil, fmt.Errorf("name record %d: %w", i, err)
		}
		rec := NameRecord{PlatformID: rs[0], EncodingID: rs[1], LanguageID: rs[2], NameID: NameID(rs[3])}
		if rec.Value, err = str(rs[4], rs[5]); err != nil {
			return nil, err
		}
		if i > 0 && compareNameRecords(t.records[i-1], rec) > 0 {
			otf.warn(tag, "name records not sorted", offset+6+uint32(i)*12)
		}
		t.records = append(t.records, rec)
	}
	if t.version == 1 {
		n, err := r.U16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(n); i++ {
			lo, err := otbin.ReadArray[uint16](r, 2)
			if err != nil {
				return nil, fmt.Errorf("language tag record %d: %w", i, err)
			}
			s, err := str(lo[0], lo[1])
			if err != nil {
				return nil, err
			}
			t.langTags = append(t.langTags, s)
		}
	}
	return t, nil
}

func encodeName(t Table, p otbin.Packer) ([]byte, error) {
	names := t.Self().AsName()
	if names == nil {
		return nil, fmt.Errorf("table %s is not a name table", t.Self().NameTag())
	}
	if !names.dirty && names.data != nil {
		return names.data, nil
	}
	var storage bytes.Buffer
	stored := make(map[string]int)
	put := func(s []byte) (uint16, uint16, error) {
		if off, ok := stored[string(s)]; ok && p.Share {
			return uint16(len(s)), uint16(off), nil
		}
		off := storage.Len()
		if off > 0xFFFF || len(s) > 0xFFFF {
			return 0, 0, fmt.Errorf("name storage exceeds 16-bit offsets: %w", otbin.ErrOffsetOverflow)
		}
		storage.Write(s)
		stored[string(s)] = off
		return uint16(len(s)), uint16(off), nil
	}
	header := 6 + 12*len(names.records)
	if names.version == 1 {
		header += 2 + 4*len(names.langTags)
	}
	if header > 0xFFFF {
		return nil, fmt.Errorf("name table header too large: %w", otbin.ErrOffsetOverflow)
	}
	w := otbin.NewWriter(header)
	w.U16(names.version)
	w.U16(uint16(len(names.records)))
	w.U16(uint16(header))
	for _, rec := range names.records {
		l, off, err := put(rec.Value)
		if err != nil {
			return nil, err
		}
		w.U16(rec.PlatformID)
		w.U16(rec.EncodingID)
		w.U16(rec.LanguageID)
		w.U16(uint16(rec.NameID))
		w.U16(l)
		w.U16(off)
	}
	if names.version == 1 {
		w.U16(uint16(len(names.langTags)))
		for _, s := range names.langTags {
			l, off, err := put(s)
			if err != nil {
				return nil, err
			}
			w.U16(l)
			w.U16(off)
		}
	}
	w.Write(storage.Bytes())
	return w.Bytes(), nil
}

// Records returns a copy of all name records, in table order.
func (t *NameTable) Records() []NameRecord {
	return slices.Clone(t.records)
}

// LanguageTags returns the IETF BCP 47 language tags of a version 1 table.
// Name records with language IDs 0x8000 and up refer to them.
func (t *NameTable) LanguageTags() []string {
	tags := make([]string, 0, len(t.langTags))
	for _, b := range t.langTags {
		s, err := utf16BE.NewDecoder().Bytes(b)
		if err != nil {
			s = nil
		}
		tags = append(tags, string(s))
	}
	return tags
}

// namePreference ranks a record for lookup by Name: lower is better, -1 means unusable.
func namePreference(rec NameRecord) int {
	switch {
	case rec.PlatformID == PlatformWindows && rec.LanguageID == windowsEnglishUS &&
		(rec.EncodingID == windowsUnicodeBMP || rec.EncodingID == windowsUnicodeAll):
		return 0
	case rec.PlatformID == PlatformWindows &&
		(rec.EncodingID == windowsUnicodeBMP || rec.EncodingID == windowsUnicodeAll):
		return 1
	case rec.PlatformID == PlatformUnicode:
		return 2
	case rec.PlatformID == PlatformMac && rec.EncodingID == 0 && rec.LanguageID == 0:
		return 3
	case nameEncoding(rec.PlatformID, rec.EncodingID) != nil:
		return 4
	}
	return -1
}

// Name returns the string for a name ID, preferring Windows Unicode records in
// US English. If no record can be decoded, the empty string is returned.
func (t *NameTable) Name(id NameID) string {
	best, bestPref := "", -1
	for _, rec := range t.records {
		if rec.NameID != id {
			continue
		}
		pref := namePreference(rec)
		if pref < 0 || (bestPref >= 0 && pref >= bestPref) {
			continue
		}
		if s, err := rec.Text(); err == nil {
			best, bestPref = s, pref
		}
	}
	return best
}

// SetName sets the string for a name ID in every record with this ID. If there is
// no such record, a Windows Unicode record in US English is added.
func (t *NameTable) SetName(id NameID, s string) error {
	found := false
	for i, rec := range t.records {
		if rec.NameID != id {
			continue
		}
		r, err := NewNameRecord(rec.PlatformID, rec.EncodingID, rec.LanguageID, id, s)
		if err != nil {
			return err
		}
		t.records[i] = r
		found = true
	}
	t.dirty = true
	if found {
		return nil
	}
	rec, err := NewNameRecord(PlatformWindows, windowsUnicodeBMP, windowsEnglishUS, id, s)
	if err != nil {
		return err
	}
	t.SetRecord(rec)
	return nil
}

// SetRecord adds a name record, replacing a record with identical platform, encoding,
// language and name IDs. Records are kept sorted.
func (t *NameTable) SetRecord(rec NameRecord) {
	if !slices.IsSortedFunc(t.records, compareNameRecords) {
		slices.SortStableFunc(t.records, compareNameRecords)
	}
	i, found := slices.BinarySearchFunc(t.records, rec, compareNameRecords)
	if found {
		t.records[i] = rec
	} else {
		t.records = slices.Insert(t.records, i, rec)
	}
	t.dirty = true
}

// RemoveName removes all records for a name ID and returns their number.
func (t *NameTable) RemoveName(id NameID) int {
	n := len(t.records)
	t.records = slices.DeleteFunc(t.records, func(rec NameRecord) bool { return rec.NameID == id })
	if len(t.records) != n {
		t.dirty = true
	}
	return n - len(t.records)
}
