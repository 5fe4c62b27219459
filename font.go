/*
Package fonttools reads, modifies and writes OpenType fonts.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

▪︎ A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

Package fonttools is a thin convenience layer. Fonts are represented by
type ot.Font of sub-package ot, which holds the table model and the writer.
Package otquery answers common questions about fonts.

# Status

Does not contain methods for font collections (*.ttc), e.g.,
/System/Library/Fonts/Helvetica.ttc on Mac OS.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fonttools

import (
	"fmt"
	"os"

	"github.com/npillmayer/fonttools/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

// Open loads an OpenType font (TTF or OTF) from a file.
//
// Diagnostics for tables which could not be decoded are available from the
// font's Errors and Warnings; they are traced, but do not make Open fail.
func Open(fontfile string, opts ...ot.ParseOption) (*ot.Font, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	otf, err := ot.Parse(bytez, opts...)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", fontfile, err)
	}
	for _, e := range otf.Errors() {
		tracer().Infof("font %s: %v", fontfile, e)
	}
	if family, _ := FamilyName(otf); family != "" {
		tracer().Debugf("loaded and parsed font %s", family)
	}
	return otf, nil
}

// SaveFile serializes a font and writes it to a file. An existing file is
// replaced only if serialization succeeds.
func SaveFile(otf *ot.Font, fontfile string, opts ...ot.SaveOption) error {
	bytez, err := otf.Save(opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fontfile, bytez, 0o644); err != nil {
		return err
	}
	tracer().Debugf("wrote %d bytes to %s", len(bytez), fontfile)
	return nil
}
