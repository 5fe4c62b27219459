/*
Package outline implements the TrueType glyph outline model.

TrueType outlines consist of contours of quadratic B-spline points, each either on
or off the curve. The binary encoding is compact: between two consecutive off-curve
points, an on-curve point is implied at their midpoint. Package outline makes this
inference an explicit pass:

	Normalize  inserts implied on-curve points, flagging them as Implied
	Segments   turns a contour into explicit quadratic segments (lines or curves)
	Compact    is the inverse of Normalize, used for encoding

For every contour c decoded from a font, Compact(Normalize(c), CompactImplied)
equals c, including on/off-curve flags.

Glyphs are either simple (contours) or composite (references to other glyphs with
an affine transform). Resolving composites to absolute outlines is a derived view,
provided by Flatten and Path, and is never required for reading and writing fonts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package outline

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
