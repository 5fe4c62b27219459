package outline

import "fmt"

// Point is a point of a contour, in font design units.
type Point struct {
	X, Y    int
	OnCurve bool
	Implied bool // synthesized on-curve point, see Normalize
}

func (p Point) String() string {
	c := "off"
	if p.OnCurve {
		c = "on"
		if p.Implied {
			c = "on*"
		}
	}
	return fmt.Sprintf("%s(%d,%d)", c, p.X, p.Y)
}

// Contour is a closed, cyclic sequence of points.
type Contour []Point

// Segment is a single quadratic Bézier segment of a contour, or a straight line
// if Curved is false. From and To are on-curve points, Ctrl is the control point
// of a curved segment.
type Segment struct {
	From, Ctrl, To Point
	Curved         bool
}

// Midpoint returns the on-curve point implied between off-curve points a and b.
// Coordinates are rounded to integers, with halves rounded towards +∞. The result
// is flagged as Implied.
func Midpoint(a, b Point) Point {
	return Point{X: half(a.X + b.X), Y: half(a.Y + b.Y), OnCurve: true, Implied: true}
}

// half divides by 2, rounding halves towards +∞.
func half(s int) int {
	return (s + 1) >> 1
}

// Normalize walks a contour cyclically and inserts an on-curve point between any
// two consecutive off-curve points, at their midpoint. Points are kept in their
// original order; a point implied between the last and the first point is appended
// at the end. A contour consisting of off-curve points only thus receives an
// on-curve point between every pair of neighbours.
//
// Normalize does not modify c.
func Normalize(c Contour) Contour {
	n := len(c)
	if n == 0 {
		return c
	}
	out := make(Contour, 0, n+n/2)
	for i, p := range c {
		out = append(out, p)
		next := c[(i+1)%n]
		if !p.OnCurve && !next.OnCurve {
			out = append(out, Midpoint(p, next))
		}
	}
	return out
}

// IsNormalized is true if c does not contain two consecutive off-curve points.
func IsNormalized(c Contour) bool {
	n := len(c)
	for i, p := range c {
		if !p.OnCurve && !c[(i+1)%n].OnCurve {
			return false
		}
	}
	return true
}

// Segments returns the explicit quadratic segments of a contour, starting at
// its first on-curve point. c is normalized first if necessary. A contour with a
// single on-curve point and no control points results in one degenerate line.
func Segments(c Contour) []Segment {
	if len(c) == 0 {
		return nil
	}
	if !IsNormalized(c) {
		c = Normalize(c)
	}
	n := len(c)
	start := -1
	for i, p := range c {
		if p.OnCurve {
			start = i
			break
		}
	}
	if start < 0 { // single off-curve point
		return nil
	}
	segs := make([]Segment, 0, n)
	i := start
	for {
		from := c[i]
		j := (i + 1) % n
		if c[j].OnCurve {
			segs = append(segs, Segment{From: from, To: c[j]})
		} else {
			k := (j + 1) % n
			segs = append(segs, Segment{From: from, Ctrl: c[j], To: c[k], Curved: true})
			j = k
		}
		i = j
		if i == start {
			break
		}
	}
	return segs
}

// FromSegments creates a (normalized) contour from a closed chain of segments.
// Each segment contributes its start point and, if curved, its control point;
// the end point of a segment is the start point of its successor.
func FromSegments(segs []Segment) Contour {
	c := make(Contour, 0, 2*len(segs))
	for _, s := range segs {
		from := s.From
		from.OnCurve = true
		c = append(c, from)
		if s.Curved {
			ctrl := s.Ctrl
			ctrl.OnCurve, ctrl.Implied = false, false
			c = append(c, ctrl)
		}
	}
	return c
}

// CompactMode selects which on-curve points Compact may omit.
type CompactMode int

const (
	// CompactImplied omits on-curve points flagged as Implied which (still) lie at
	// the rounded midpoint of their off-curve neighbours. Decoded geometry is
	// reproduced exactly.
	CompactImplied CompactMode = iota
	// CompactAll additionally omits any on-curve point lying exactly at the midpoint
	// of its off-curve neighbours, which is the most compact encoding.
	CompactAll
)

// Compact is the inverse of Normalize: it omits on-curve points between two
// off-curve points whenever they are the midpoint of these neighbours, according
// to mode. Compact does not modify c.
func Compact(c Contour, mode CompactMode) Contour {
	n := len(c)
	if n < 2 {
		return c
	}
	out := make(Contour, 0, n)
	for i, p := range c {
		if p.OnCurve {
			prev, next := c[(i+n-1)%n], c[(i+1)%n]
			if !prev.OnCurve && !next.OnCurve && omittable(p, prev, next, mode) {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

func omittable(p, prev, next Point, mode CompactMode) bool {
	if p.Implied {
		m := Midpoint(prev, next)
		if m.X == p.X && m.Y == p.Y {
			return true
		}
	}
	return mode == CompactAll && 2*p.X == prev.X+next.X && 2*p.Y == prev.Y+next.Y
}

// Bounds calculates the bounding box of all points of a set of contours, as
// stored in the glyph header. Off-curve points are included.
func Bounds(contours []Contour) Rect {
	first := true
	var r Rect
	for _, c := range contours {
		for _, p := range c {
			x, y := int16(p.X), int16(p.Y)
			if first {
				r = Rect{XMin: x, YMin: y, XMax: x, YMax: y}
				first = false
				continue
			}
			r.XMin, r.XMax = min(r.XMin, x), max(r.XMax, x)
			r.YMin, r.YMax = min(r.YMin, y), max(r.YMax, y)
		}
	}
	return r
}
