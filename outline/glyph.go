package outline

import (
	"errors"

	"github.com/npillmayer/fonttools/otbin"
	"seehuhn.de/go/geom/matrix"
)

// Errors of the outline model. Errors returned from this package wrap one of these
// or otbin.ErrTruncated.
var (
	// ErrMalformedGlyph flags glyph data which is inconsistent in itself.
	ErrMalformedGlyph = errors.New("malformed glyph")
	// ErrComponentCycle flags a composite glyph referencing itself, directly or
	// indirectly, or nesting components too deeply.
	ErrComponentCycle = errors.New("cyclic or too deeply nested glyph components")
)

// Rect is the bounding box of a glyph, as stored in the glyph header.
type Rect struct {
	XMin, YMin, XMax, YMax int16
}

// Glyph is either a *SimpleGlyph or a *CompositeGlyph. A nil Glyph denotes an
// empty glyph, i.e., one without outline (e.g., the space character).
type Glyph interface {
	Bounds() Rect
	isGlyph()
}

// SimpleGlyph is a glyph defined by contours.
type SimpleGlyph struct {
	Rect
	Contours     []Contour
	Instructions []byte
	Overlap      bool // OVERLAP_SIMPLE flag set on the first point
}

// Bounds returns the bounding box stored with the glyph.
func (g *SimpleGlyph) Bounds() Rect { return g.Rect }

// RecalcBounds sets the bounding box of g from its points.
func (g *SimpleGlyph) RecalcBounds() {
	g.Rect = Bounds(g.Contours)
}

// NumPoints returns the number of points of g.
func (g *SimpleGlyph) NumPoints() int {
	n := 0
	for _, c := range g.Contours {
		n += len(c)
	}
	return n
}

func (g *SimpleGlyph) isGlyph() {}

// CompositeGlyph is a glyph assembled from other glyphs.
type CompositeGlyph struct {
	Rect
	Components   []Component
	Instructions []byte
}

// Bounds returns the bounding box stored with the glyph.
func (g *CompositeGlyph) Bounds() Rect { return g.Rect }

func (g *CompositeGlyph) isGlyph() {}

// ComponentFlags are the flags of a composite glyph component.
type ComponentFlags uint16

// Flags for composite glyph components.
const (
	ArgsAreWords            ComponentFlags = 0x0001
	ArgsAreXYValues         ComponentFlags = 0x0002
	RoundXYToGrid           ComponentFlags = 0x0004
	WeHaveAScale            ComponentFlags = 0x0008
	MoreComponents          ComponentFlags = 0x0020
	WeHaveAnXAndYScale      ComponentFlags = 0x0040
	WeHaveATwoByTwo         ComponentFlags = 0x0080
	WeHaveInstructions      ComponentFlags = 0x0100
	UseMyMetrics            ComponentFlags = 0x0200
	OverlapCompound         ComponentFlags = 0x0400
	ScaledComponentOffset   ComponentFlags = 0x0800
	UnscaledComponentOffset ComponentFlags = 0x1000
)

// structural flags are derived from the component's data on encoding
const structuralFlags = ArgsAreXYValues | MoreComponents

// Component references a glyph placed within a composite glyph.
//
// Flags hold the flags as decoded. When encoding, MORE_COMPONENTS and
// ARGS_ARE_XY_VALUES are derived from the component's position and PointMatching;
// the argument and scale formats are kept whenever they can represent the values,
// and widened otherwise.
type Component struct {
	GlyphID       otbin.GlyphID
	Flags         ComponentFlags
	Arg1, Arg2    int  // x/y offset, or parent/child point numbers
	PointMatching bool // Arg1 and Arg2 are point numbers (anchor points)
	// Transform is the 2×2 matrix (xscale, scale01, scale10, yscale), applied as
	// x' = xscale·x + scale10·y, y' = scale01·x + yscale·y.
	Transform [4]otbin.F2Dot14
}

// Identity is the identity transform of a component.
var Identity = [4]otbin.F2Dot14{1 << 14, 0, 0, 1 << 14}

// Offset creates a component for glyph gid, shifted by (dx, dy).
func Offset(gid otbin.GlyphID, dx, dy int) Component {
	return Component{GlyphID: gid, Flags: ArgsAreXYValues, Arg1: dx, Arg2: dy, Transform: Identity}
}

// Linear returns the linear part of the component's transform.
func (c Component) Linear() matrix.Matrix {
	t := c.Transform
	return matrix.Matrix{t[0].Float(), t[1].Float(), t[2].Float(), t[3].Float(), 0, 0}
}

// Matrix returns the full affine transform of a component with x/y offsets.
// For point-matching components, the translation part is zero, as it depends on
// the outlines involved; see Flatten.
func (c Component) Matrix() matrix.Matrix {
	m := c.Linear()
	if c.PointMatching {
		return m
	}
	dx, dy := float64(c.Arg1), float64(c.Arg2)
	if c.Flags&ScaledComponentOffset != 0 && c.Flags&UnscaledComponentOffset == 0 {
		dx, dy = m.Apply(dx, dy)
	}
	m[4], m[5] = dx, dy
	return m
}
