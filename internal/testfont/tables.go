package testfont

import (
	"unicode/utf16"

	"github.com/npillmayer/fonttools/otbin"
	"github.com/npillmayer/fonttools/outline"
)

func buildGlyf(long bool) (glyf, loca []byte, bbox outline.Rect) {
	g := otbin.NewWriter(0)
	l := otbin.NewWriter(0)
	bbox = outline.Rect{XMin: 32767, YMin: 32767, XMax: -32768, YMax: -32768}
	for _, glyph := range Glyphs() {
		if long {
			l.U32(uint32(g.Len()))
		} else {
			l.U16(uint16(g.Len() / 2))
		}
		if glyph == nil {
			continue
		}
		b, err := outline.EncodeGlyph(glyph)
		if err != nil {
			panic(err)
		}
		g.Write(b)
		g.Align(2)
		r := glyph.Bounds()
		bbox.XMin, bbox.YMin = min(bbox.XMin, r.XMin), min(bbox.YMin, r.YMin)
		bbox.XMax, bbox.YMax = max(bbox.XMax, r.XMax), max(bbox.YMax, r.YMax)
	}
	if long {
		l.U32(uint32(g.Len()))
	} else {
		l.U16(uint16(g.Len() / 2))
	}
	return g.Bytes(), l.Bytes(), bbox
}

func buildHead(bbox outline.Rect, long bool) []byte {
	w := otbin.NewWriter(54)
	w.U32(0x00010000) // version
	w.U32(0x00010000) // fontRevision
	w.U32(0)          // checkSumAdjustment
	w.U32(0x5F0F3CF5) // magicNumber
	w.U16(0x000B)     // flags
	w.U16(UnitsPerEm)
	w.U32(0)
	w.U32(0xE0000000) // created
	w.U32(0)
	w.U32(0xE0000000) // modified
	w.I16(bbox.XMin)
	w.I16(bbox.YMin)
	w.I16(bbox.XMax)
	w.I16(bbox.YMax)
	w.U16(0) // macStyle
	w.U16(8) // lowestRecPPEM
	w.I16(2) // fontDirectionHint
	if long {
		w.I16(1)
	} else {
		w.I16(0)
	}
	w.I16(0) // glyphDataFormat
	return w.Bytes()
}

func buildHHea() []byte {
	w := otbin.NewWriter(36)
	w.U32(0x00010000)
	w.I16(Ascender)
	w.I16(Descender)
	w.I16(0)            // lineGap
	w.U16(Advances[2])  // advanceWidthMax
	w.I16(0)            // minLeftSideBearing
	w.I16(0)            // minRightSideBearing
	w.I16(1150)         // xMaxExtent
	w.I16(1)            // caretSlopeRise
	w.I16(0)            // caretSlopeRun
	w.I16(0)            // caretOffset
	w.Zeros(8)          // reserved
	w.I16(0)            // metricDataFormat
	w.U16(NumGlyph - 1) // numberOfHMetrics
	return w.Bytes()
}

func buildMaxP() []byte {
	w := otbin.NewWriter(32)
	w.U32(0x00010000)
	w.U16(NumGlyph)
	w.U16(5)    // maxPoints
	w.U16(1)    // maxContours
	w.U16(8)    // maxCompositePoints
	w.U16(2)    // maxCompositeContours
	w.U16(2)    // maxZones
	w.Zeros(12) // maxTwilightPoints .. maxSizeOfInstructions
	w.U16(2)    // maxComponentElements
	w.U16(1)    // maxComponentDepth
	return w.Bytes()
}

func buildOS2() []byte {
	w := otbin.NewWriter(96)
	w.U16(4)   // version
	w.I16(575) // xAvgCharWidth
	w.U16(400) // usWeightClass
	w.U16(5)   // usWidthClass
	w.U16(0)   // fsType
	w.Zeros(20)
	w.I16(0)    // sFamilyClass
	w.Zeros(10) // panose
	w.Zeros(16) // ulUnicodeRange1-4
	w.Tag(otbin.T("TEST"))
	w.U16(0x0040) // fsSelection: REGULAR
	w.U16('A')
	w.U16('C')
	w.I16(Ascender)
	w.I16(Descender)
	w.I16(0) // sTypoLineGap
	w.U16(Ascender)
	w.U16(-Descender)
	w.Zeros(8) // ulCodePageRange1-2
	w.I16(500) // sxHeight
	w.I16(700) // sCapHeight
	w.U16(0)   // usDefaultChar
	w.U16(' ') // usBreakChar
	w.U16(1)   // usMaxContext
	return w.Bytes()
}

func buildHMtx() []byte {
	w := otbin.NewWriter(0)
	glyphs := Glyphs()
	for i := 0; i < NumGlyph-1; i++ {
		w.U16(Advances[i])
		w.I16(lsb(glyphs[i]))
	}
	w.I16(lsb(glyphs[NumGlyph-1]))
	return w.Bytes()
}

func lsb(g outline.Glyph) int16 {
	if g == nil {
		return 0
	}
	return g.Bounds().XMin
}

// buildCMap maps 'A', 'B', 'C' to glyphs 1, 2, 3 with a format 4 subtable for
// platform 3, encoding 1.
func buildCMap() []byte {
	w := otbin.NewWriter(0)
	w.U16(0) // version
	w.U16(1) // numTables
	w.U16(3)
	w.U16(1)
	w.U32(12)
	w.U16(4)  // format
	w.U16(32) // length
	w.U16(0)  // language
	w.U16(4)  // segCountX2
	w.U16(4)  // searchRange
	w.U16(1)  // entrySelector
	w.U16(0)  // rangeShift
	w.U16('C')
	w.U16(0xFFFF)
	w.U16(0) // reservedPad
	w.U16('A')
	w.U16(0xFFFF)
	delta := uint16(GlyphA)
	w.U16(delta - 'A') // wraps modulo 65536
	w.U16(1)
	w.Zeros(4) // idRangeOffsets
	return w.Bytes()
}

func buildName() []byte {
	family := utf16BE(FamilyName)
	style := utf16BE("Regular")
	w := otbin.NewWriter(0)
	w.U16(0)
	w.U16(2)
	w.U16(6 + 2*12)
	for i, s := range [][]byte{family, style} {
		w.U16(3)
		w.U16(1)
		w.U16(0x0409)
		w.U16(uint16(i + 1))
		w.U16(uint16(len(s)))
		if i == 0 {
			w.U16(0)
		} else {
			w.U16(uint16(len(family)))
		}
	}
	w.Write(family)
	w.Write(style)
	return w.Bytes()
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = otbin.Append(b, u)
	}
	return b
}

// buildPost writes a version 2 table. Glyphs 'A' and 'B' use standard Macintosh
// names, glyph 'C' has the custom name "C.comp".
func buildPost() []byte {
	w := otbin.NewWriter(0)
	w.U32(0x00020000)
	w.U32(0)        // italicAngle
	w.I16(-100)     // underlinePosition
	w.I16(50)       // underlineThickness
	w.U32(0)        // isFixedPitch
	w.Zeros(16)     // memory usage
	w.U16(NumGlyph) // numGlyphs
	w.U16(0)        // .notdef
	w.U16(36)       // A
	w.U16(37)       // B
	w.U16(258)      // C.comp
	w.U8(6)
	w.Write([]byte("C.comp"))
	return w.Bytes()
}

// buildGSUB writes a GSUB table with script 'latn', feature 'ss01' and a single
// substitution lookup, mapping 'A' to 'B'.
func buildGSUB() []byte {
	w := otbin.NewWriter(0)
	w.U16(1)
	w.U16(0)
	w.U16(10) // ScriptList
	w.U16(30) // FeatureList
	w.U16(44) // LookupList
	// ScriptList @10
	w.U16(1)
	w.Tag(otbin.T("latn"))
	w.U16(8)
	// Script @18
	w.U16(4) // defaultLangSys
	w.U16(0)
	// LangSys @22
	w.U16(0)
	w.U16(0xFFFF)
	w.U16(1)
	w.U16(0)
	// FeatureList @30
	w.U16(1)
	w.Tag(otbin.T("ss01"))
	w.U16(8)
	// Feature @38
	w.U16(0)
	w.U16(1)
	w.U16(0)
	// LookupList @44
	w.U16(1)
	w.U16(4)
	// Lookup @48
	w.U16(1) // single substitution
	w.U16(0)
	w.U16(1)
	w.U16(8)
	// subtable @56
	w.Write(SingleSubst)
	return w.Bytes()
}

// SingleSubst is a single substitution subtable, format 1, mapping 'A' to 'B'.
var SingleSubst = []byte{0, 1, 0, 6, 0, 1, 0, 1, 0, 1, 0, 1}
