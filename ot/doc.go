/*
Package ot reads, manipulates and writes OpenType font files.

A font is a container (sfnt) of tables, each identified by a 4-letter tag. Package
`ot` decodes the container and every table it knows about into a typed object graph,
and serializes the graph back into a binary font:

	otf, err := ot.Parse(data)
	...
	otf.Names().SetName(ot.NameFamily, "Demo Sans")
	out, err := otf.Save()

Tables are decoded by a table registry (see type `Registry`), which maps tags to
decoders and encoders. Tables unknown to the registry are kept as `*RawTable` and
written back byte for byte. Decoding is fault-tolerant: a table which fails to decode
degrades to a raw table and a diagnostic is recorded (see `Font.Errors`), while
parsing continues. Only a malformed header or table directory will make `Parse` fail.

Tables which have not been modified re-encode to identical bytes, with the exception
of tables having layout freedom (name, cmap, GSUB, GPOS), which are re-packed after
modification. Derived values (table directory, checksums, numberOfHMetrics,
indexToLocFormat, numGlyphs) are recomputed on save and never have to be edited by
clients.

Table tag names are case-sensitive, following the names in the OpenType specification.

# Status

CFF and CFF2 outlines are preserved as raw tables. Font collections and WOFF are not
supported.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

/*
There are (at least) two Go packages around for parsing SFNT fonts:

▪ https://pkg.go.dev/golang.org/x/image/font/sfnt

▪ https://pkg.go.dev/github.com/ConradIrwin/font/sfnt

x/image/font/sfnt is well suited for rasterizing, but is read-only. We use it as an
independent reader in tests, checking that fonts written by this package are accepted
by other software.

Valuable resource:
http://opentypecookbook.com/
*/

import (
	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}

// Tag is a 4-byte identifier of a table, script, language system or feature.
type Tag = otbin.Tag

// GlyphIndex is a glyph index in a font.
type GlyphIndex = otbin.GlyphID

// MakeTag creates a Tag from 4 bytes, e.g.,
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	return otbin.MakeTag(b)
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	return otbin.T(t)
}
