package fonttools

import (
	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/fonttools/otquery"
	"golang.org/x/image/font/sfnt"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change while the font is in use.
func FromBinary(data []byte, opts ...ot.ParseOption) (*ot.Font, error) {
	return ot.Parse(data, opts...)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded.
func FamilyName(f *ot.Font) (family, subfamily string) {
	for nameId, stringValue := range otquery.NamesRange(f) {
		switch nameId {
		case sfnt.NameIDFamily:
			family = stringValue
		case sfnt.NameIDSubfamily:
			subfamily = stringValue
		}
	}
	return
}
