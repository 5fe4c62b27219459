package otquery

import (
	"iter"
	"slices"

	"github.com/npillmayer/fonttools/ot"
	"golang.org/x/image/font/sfnt"
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table, in the order of the name records.
//
// Each name ID is yielded once, with the string the name table prefers for it
// (Windows Unicode over Unicode over Macintosh, English before other languages).
// Names which cannot be decoded are skipped.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	names := otf.Names()
	return func(yield func(sfnt.NameID, string) bool) {
		if names == nil {
			tracer().Debugf("no decodable name table found in font")
			return
		}
		var seen []ot.NameID
		for _, rec := range names.Records() {
			if slices.Contains(seen, rec.NameID) {
				continue
			}
			seen = append(seen, rec.NameID)
			s := names.Name(rec.NameID)
			if s == "" {
				continue
			}
			if !yield(sfnt.NameID(rec.NameID), s) {
				return
			}
		}
	}
}

var nameKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:            "copyright",
	sfnt.NameIDFamily:               "family",
	sfnt.NameIDSubfamily:            "subfamily",
	sfnt.NameIDUniqueIdentifier:     "identifier",
	sfnt.NameIDFull:                 "fullname",
	sfnt.NameIDVersion:              "version",
	sfnt.NameIDPostScript:           "postscript",
	sfnt.NameIDTrademark:            "trademark",
	sfnt.NameIDManufacturer:         "manufacturer",
	sfnt.NameIDDesigner:             "designer",
	sfnt.NameIDDescription:          "description",
	sfnt.NameIDLicense:              "license",
	sfnt.NameIDTypographicFamily:    "typographic-family",
	sfnt.NameIDTypographicSubfamily: "typographic-subfamily",
	sfnt.NameIDSampleText:           "sample",
}

// NameInfo returns the well-known names of a font as a map, with keys like
// "family", "subfamily", "fullname" or "version".
func NameInfo(otf *ot.Font) map[string]string {
	info := make(map[string]string)
	for id, s := range NamesRange(otf) {
		if key, ok := nameKeys[id]; ok {
			info[key] = s
		}
	}
	return info
}
