package otquery

import (
	"github.com/npillmayer/fonttools/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontSupportsScript returns a tuple (script-tag, language-tag) for a given input
// of a script tag and a language tag. If the language has no special support in the
// font, DFLT will be returned. If the script has no support in the font,
// DFLT will be returned for the script.
func FontSupportsScript(otf *ot.Font, scr ot.Tag, lang ot.Tag) (ot.Tag, ot.Tag) {
	if otf == nil {
		return 0, 0
	}
	gsub := otf.GSub()
	if gsub == nil {
		return DFLT, DFLT
	}
	script, ok := gsub.Script(scr)
	if !ok {
		tracer().Infof("cannot find script %s in font", scr.String())
		return DFLT, DFLT
	}
	tracer().Debugf("script %s is contained in GSUB", scr.String())
	for _, rec := range script.LangSys {
		if rec.Tag == lang {
			return scr, lang
		}
	}
	return scr, DFLT
}

// LayoutTables returns the tags of the OpenType layout tables contained in a font.
func LayoutTables(otf *ot.Font) []string {
	var tags []string
	for _, tag := range []string{"BASE", "GDEF", "GPOS", "GSUB", "JSTF", "MATH"} {
		if otf.Table(ot.T(tag)) != nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FontMetrics retrieves selected metrics of a font.
// Ascent and descent are taken from 'hhea', or from 'OS/2' if 'hhea' leaves them zero.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if hhea := otf.HHea(); hhea != nil {
		metrics.Ascent = sfnt.Units(hhea.Ascender())
		metrics.Descent = sfnt.Units(hhea.Descender())
		metrics.LineGap = sfnt.Units(hhea.LineGap())
		metrics.MaxAdvance = sfnt.Units(hhea.AdvanceWidthMax())
	}
	if os2 := otf.OS2(); os2 != nil {
		if metrics.Ascent == 0 && metrics.Descent == 0 {
			a := sfnt.Units(os2.TypoAscender())
			if a > metrics.Ascent {
				tracer().Debugf("override of ascent: %d -> %d", metrics.Ascent, a)
				metrics.Ascent = a
			}
			d := sfnt.Units(os2.TypoDescender())
			if d < metrics.Descent {
				tracer().Debugf("override of descent: %d -> %d", metrics.Descent, d)
				metrics.Descent = d
			}
		}
		metrics.XHeight = sfnt.Units(os2.XHeight().Or(0))
		metrics.CapHeight = sfnt.Units(os2.CapHeight().Or(0))
	}
	if head := otf.Head(); head != nil {
		metrics.UnitsPerEm = sfnt.Units(head.UnitsPerEm())
	}
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	cmap := otf.CMap()
	if cmap == nil {
		return 0
	}
	return cmap.Lookup(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked if they produce the given glyph. If more than one code-point
// maps to the glyph, the smallest one is returned.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	cmap := otf.CMap()
	if gid == 0 || cmap == nil {
		return 0
	}
	var r rune
	for c, g := range cmap.Mapping() {
		if g == gid && (r == 0 || c < r) {
			r = c
		}
	}
	return r
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	//
	// table hmtx: advance width and left side bearing
	if hmtx := otf.HMtx(); hmtx != nil {
		if m, ok := hmtx.HMetrics(gid); ok {
			metrics.Advance = sfnt.Units(m.Advance)
			metrics.LSB = sfnt.Units(m.LSB)
		}
	}
	//
	// table glyf: bounding box
	if glyf := otf.Glyf(); glyf != nil {
		g, err := glyf.Glyph(gid)
		if err != nil {
			tracer().Infof("glyph metrics: %v", err)
		} else if g != nil {
			r := g.Bounds()
			metrics.BBox = BoundingBox{
				MinX: sfnt.Units(r.XMin),
				MinY: sfnt.Units(r.YMin),
				MaxX: sfnt.Units(r.XMax),
				MaxY: sfnt.Units(r.YMax),
			}
		}
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.IsEmpty() {
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}
