package outline

import (
	"fmt"
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/npillmayer/fonttools/otbin"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// MaxComponentDepth is the maximum nesting depth of composite glyphs.
const MaxComponentDepth = 32

// GlyphSource provides glyphs by ID, e.g., table 'glyf' of a font.
type GlyphSource interface {
	Glyph(gid otbin.GlyphID) (Glyph, error)
}

type fpoint struct {
	x, y float64
	on   bool
}

type fcontour []fpoint

// Flatten resolves a glyph to absolute outlines: components of composite glyphs
// are transformed and merged, recursively. Coordinates are rounded to design
// units after all transforms have been applied.
func Flatten(gid otbin.GlyphID, src GlyphSource) ([]Contour, error) {
	fcs, err := resolve(gid, src, new(bitset.BitSet), 0)
	if err != nil {
		return nil, err
	}
	contours := make([]Contour, len(fcs))
	for i, fc := range fcs {
		c := make(Contour, len(fc))
		for j, p := range fc {
			c[j] = Point{X: int(math.Round(p.x)), Y: int(math.Round(p.y)), OnCurve: p.on}
		}
		contours[i] = c
	}
	return contours, nil
}

// Path returns the outline of a glyph as a path of quadratic segments, resolving
// composite glyphs. Coordinates are not rounded, and implied on-curve points are
// located at their exact midpoints.
func Path(gid otbin.GlyphID, src GlyphSource) (path.Path, error) {
	fcs, err := resolve(gid, src, new(bitset.BitSet), 0)
	if err != nil {
		return nil, err
	}
	return func(yield func(path.Command, []vec.Vec2) bool) {
		var buf [2]vec.Vec2
		for _, fc := range fcs {
			segs := fc.segments()
			if len(segs) == 0 {
				continue
			}
			buf[0] = segs[0].from
			if !yield(path.CmdMoveTo, buf[:1]) {
				return
			}
			for _, s := range segs {
				cmd, pts := path.CmdLineTo, buf[:1]
				if s.curved {
					cmd, pts = path.CmdQuadTo, buf[:2]
					buf[0], buf[1] = s.ctrl, s.to
				} else {
					buf[0] = s.to
				}
				if !yield(cmd, pts) {
					return
				}
			}
			if !yield(path.CmdClose, nil) {
				return
			}
		}
	}, nil
}

// resolve returns the outlines of glyph gid in its own coordinate system.
// active holds the glyphs currently being resolved.
func resolve(gid otbin.GlyphID, src GlyphSource, active *bitset.BitSet, depth int) ([]fcontour, error) {
	if depth > MaxComponentDepth || active.Test(uint(gid)) {
		return nil, fmt.Errorf("glyph %d: %w", gid, ErrComponentCycle)
	}
	g, err := src.Glyph(gid)
	if err != nil {
		return nil, err
	}
	switch g := g.(type) {
	case *SimpleGlyph:
		if g == nil {
			return nil, nil
		}
		fcs := make([]fcontour, len(g.Contours))
		for i, c := range g.Contours {
			fc := make(fcontour, len(c))
			for j, p := range c {
				fc[j] = fpoint{x: float64(p.X), y: float64(p.Y), on: p.OnCurve}
			}
			fcs[i] = fc
		}
		return fcs, nil
	case *CompositeGlyph:
		if g == nil {
			return nil, nil
		}
		active.Set(uint(gid))
		defer active.Clear(uint(gid))
		var fcs []fcontour
		for _, comp := range g.Components {
			child, err := resolve(comp.GlyphID, src, active, depth+1)
			if err != nil {
				return nil, err
			}
			m := comp.Matrix()
			child = transform(child, m)
			if comp.PointMatching {
				parent, ok1 := pointAt(fcs, comp.Arg1)
				anchor, ok2 := pointAt(child, comp.Arg2)
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("glyph %d: anchor points %d/%d do not exist: %w",
						gid, comp.Arg1, comp.Arg2, ErrMalformedGlyph)
				}
				child = transform(child, matrix.Translate(parent.x-anchor.x, parent.y-anchor.y))
			}
			fcs = append(fcs, child...)
		}
		tracer().Debugf("resolved composite glyph %d to %d contours", gid, len(fcs))
		return fcs, nil
	}
	return nil, nil
}

func transform(fcs []fcontour, m matrix.Matrix) []fcontour {
	if m == matrix.Identity {
		return fcs
	}
	out := make([]fcontour, len(fcs))
	for i, fc := range fcs {
		t := make(fcontour, len(fc))
		for j, p := range fc {
			x, y := m.Apply(p.x, p.y)
			t[j] = fpoint{x: x, y: y, on: p.on}
		}
		out[i] = t
	}
	return out
}

func pointAt(fcs []fcontour, n int) (fpoint, bool) {
	for _, fc := range fcs {
		if n < len(fc) {
			return fc[n], n >= 0
		}
		n -= len(fc)
	}
	return fpoint{}, false
}

type fsegment struct {
	from, ctrl, to vec.Vec2
	curved         bool
}

// segments splits a contour into quadratic segments, with implied on-curve points
// at exact midpoints.
func (fc fcontour) segments() []fsegment {
	n := len(fc)
	if n == 0 {
		return nil
	}
	seq := make([]fpoint, 0, 2*n)
	start := -1
	for i, p := range fc {
		seq = append(seq, p)
		if next := fc[(i+1)%n]; !p.on && !next.on {
			seq = append(seq, fpoint{x: (p.x + next.x) / 2, y: (p.y + next.y) / 2, on: true})
		}
	}
	for i, p := range seq {
		if p.on {
			start = i
			break
		}
	}
	pt := func(p fpoint) vec.Vec2 { return vec.Vec2{X: p.x, Y: p.y} }
	m := len(seq)
	var segs []fsegment
	for i := start; ; {
		j := (i + 1) % m
		if seq[j].on {
			segs = append(segs, fsegment{from: pt(seq[i]), to: pt(seq[j])})
		} else {
			k := (j + 1) % m
			segs = append(segs, fsegment{from: pt(seq[i]), ctrl: pt(seq[j]), to: pt(seq[k]), curved: true})
			j = k
		}
		if i = j; i == start {
			break
		}
	}
	return segs
}

// Closure returns the set of glyphs gids together with all glyphs they reference
// as components, recursively.
func Closure(gids []otbin.GlyphID, src GlyphSource) (*bitset.BitSet, error) {
	set := bitset.New(uint(len(gids)))
	stack := make([]otbin.GlyphID, 0, len(gids))
	for _, gid := range gids {
		if !set.Test(uint(gid)) {
			set.Set(uint(gid))
			stack = append(stack, gid)
		}
	}
	for len(stack) > 0 {
		gid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g, err := src.Glyph(gid)
		if err != nil {
			return nil, err
		}
		cg, ok := g.(*CompositeGlyph)
		if !ok || cg == nil {
			continue
		}
		for _, c := range cg.Components {
			if !set.Test(uint(c.GlyphID)) {
				set.Set(uint(c.GlyphID))
				stack = append(stack, c.GlyphID)
			}
		}
	}
	return set, nil
}
