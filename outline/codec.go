package outline

import (
	"fmt"
	"math"
	"slices"

	"github.com/npillmayer/fonttools/otbin"
)

// Flags of simple glyph points.
const (
	flagOnCurve      = 0x01
	flagXShort       = 0x02
	flagYShort       = 0x04
	flagRepeat       = 0x08
	flagXSame        = 0x10 // or positive short x
	flagYSame        = 0x20 // or positive short y
	flagOverlapSimpl = 0x40
)

// DecodeGlyph decodes the data of a single glyph from table 'glyf'. Empty data
// results in a nil glyph. Trailing bytes (padding) are ignored.
//
// Points are returned as stored, i.e., contours are not normalized.
func DecodeGlyph(b []byte) (Glyph, error) {
	if len(b) == 0 {
		return nil, nil
	}
	r := otbin.NewReader(b)
	n, err := r.I16()
	if err != nil {
		return nil, err
	}
	var rect Rect
	for _, v := range []*int16{&rect.XMin, &rect.YMin, &rect.XMax, &rect.YMax} {
		if *v, err = r.I16(); err != nil {
			return nil, err
		}
	}
	if n >= 0 {
		return decodeSimple(r, int(n), rect)
	}
	return decodeComposite(r, rect)
}

func decodeSimple(r *otbin.Reader, n int, rect Rect) (*SimpleGlyph, error) {
	endPts, err := otbin.ReadArray[uint16](r, n)
	if err != nil {
		return nil, err
	}
	numPoints := 0
	for i, e := range endPts {
		if i > 0 && e < endPts[i-1] {
			return nil, fmt.Errorf("contour end points not ascending at contour %d: %w", i, ErrMalformedGlyph)
		}
		numPoints = int(e) + 1
	}
	instrLen, err := r.U16()
	if err != nil {
		return nil, err
	}
	instr, err := r.Bytes(int(instrLen))
	if err != nil {
		return nil, err
	}
	flags := make([]byte, numPoints)
	for i := 0; i < numPoints; {
		f, err := r.U8()
		if err != nil {
			return nil, err
		}
		flags[i] = f
		i++
		if f&flagRepeat != 0 {
			cnt, err := r.U8()
			if err != nil {
				return nil, err
			}
			if i+int(cnt) > numPoints {
				return nil, fmt.Errorf("flag repeat count exceeds points: %w", ErrMalformedGlyph)
			}
			for ; cnt > 0; cnt-- {
				flags[i] = f
				i++
			}
		}
	}
	xs, err := decodeCoords(r, flags, flagXShort, flagXSame)
	if err != nil {
		return nil, err
	}
	ys, err := decodeCoords(r, flags, flagYShort, flagYSame)
	if err != nil {
		return nil, err
	}
	g := &SimpleGlyph{
		Rect:         rect,
		Contours:     make([]Contour, n),
		Instructions: slices.Clone(instr),
		Overlap:      numPoints > 0 && flags[0]&flagOverlapSimpl != 0,
	}
	start := 0
	for i, e := range endPts {
		end := int(e) + 1
		c := make(Contour, end-start)
		for j := range c {
			k := start + j
			c[j] = Point{X: xs[k], Y: ys[k], OnCurve: flags[k]&flagOnCurve != 0}
		}
		g.Contours[i] = c
		start = end
	}
	return g, nil
}

func decodeCoords(r *otbin.Reader, flags []byte, short, same byte) ([]int, error) {
	coords := make([]int, len(flags))
	v := 0
	for i, f := range flags {
		switch {
		case f&short != 0:
			d, err := r.U8()
			if err != nil {
				return nil, err
			}
			if f&same != 0 {
				v += int(d)
			} else {
				v -= int(d)
			}
		case f&same == 0:
			d, err := r.I16()
			if err != nil {
				return nil, err
			}
			v += int(d)
		}
		coords[i] = v
	}
	return coords, nil
}

func decodeComposite(r *otbin.Reader, rect Rect) (*CompositeGlyph, error) {
	g := &CompositeGlyph{Rect: rect}
	haveInstr := false
	for {
		f, err := r.U16()
		if err != nil {
			return nil, err
		}
		gid, err := r.GlyphID()
		if err != nil {
			return nil, err
		}
		flags := ComponentFlags(f)
		c := Component{GlyphID: gid, Flags: flags, Transform: Identity}
		c.PointMatching = flags&ArgsAreXYValues == 0
		if c.Arg1, c.Arg2, err = decodeArgs(r, flags); err != nil {
			return nil, err
		}
		var scales []*otbin.F2Dot14
		switch {
		case flags&WeHaveAScale != 0:
			s, err := r.F2Dot14()
			if err != nil {
				return nil, err
			}
			c.Transform[0], c.Transform[3] = s, s
		case flags&WeHaveAnXAndYScale != 0:
			scales = []*otbin.F2Dot14{&c.Transform[0], &c.Transform[3]}
		case flags&WeHaveATwoByTwo != 0:
			scales = []*otbin.F2Dot14{&c.Transform[0], &c.Transform[1], &c.Transform[2], &c.Transform[3]}
		}
		for _, s := range scales {
			if *s, err = r.F2Dot14(); err != nil {
				return nil, err
			}
		}
		haveInstr = haveInstr || flags&WeHaveInstructions != 0
		g.Components = append(g.Components, c)
		if flags&MoreComponents == 0 {
			break
		}
	}
	if haveInstr {
		n, err := r.U16()
		if err != nil {
			return nil, err
		}
		instr, err := r.Bytes(int(n))
		if err != nil {
			return nil, err
		}
		g.Instructions = slices.Clone(instr)
	}
	return g, nil
}

func decodeArgs(r *otbin.Reader, flags ComponentFlags) (a1, a2 int, err error) {
	xy := flags&ArgsAreXYValues != 0
	if flags&ArgsAreWords != 0 {
		var u1, u2 uint16
		if u1, err = r.U16(); err != nil {
			return
		}
		if u2, err = r.U16(); err != nil {
			return
		}
		if xy {
			return int(int16(u1)), int(int16(u2)), nil
		}
		return int(u1), int(u2), nil
	}
	var b1, b2 uint8
	if b1, err = r.U8(); err != nil {
		return
	}
	if b2, err = r.U8(); err != nil {
		return
	}
	if xy {
		return int(int8(b1)), int(int8(b2)), nil
	}
	return int(b1), int(b2), nil
}

// EncodeGlyph encodes g in the binary format of table 'glyf'. A nil glyph results
// in empty data. The result is not padded.
//
// Contours of simple glyphs are encoded as given: clients editing normalized
// contours should call Compact before encoding.
func EncodeGlyph(g Glyph) ([]byte, error) {
	switch g := g.(type) {
	case nil:
		return nil, nil
	case *SimpleGlyph:
		if g == nil {
			return nil, nil
		}
		return encodeSimple(g)
	case *CompositeGlyph:
		if g == nil {
			return nil, nil
		}
		return encodeComposite(g)
	}
	return nil, fmt.Errorf("unknown glyph type %T: %w", g, ErrMalformedGlyph)
}

func encodeHeader(w *otbin.Writer, n int, rect Rect) {
	w.I16(int16(n))
	w.I16(rect.XMin)
	w.I16(rect.YMin)
	w.I16(rect.XMax)
	w.I16(rect.YMax)
}

func encodeSimple(g *SimpleGlyph) ([]byte, error) {
	if len(g.Contours) > math.MaxInt16 {
		return nil, fmt.Errorf("%d contours: %w", len(g.Contours), ErrMalformedGlyph)
	}
	if len(g.Instructions) > math.MaxUint16 {
		return nil, fmt.Errorf("%d bytes of instructions: %w", len(g.Instructions), ErrMalformedGlyph)
	}
	numPoints := g.NumPoints()
	if numPoints > math.MaxUint16+1 {
		return nil, fmt.Errorf("%d points: %w", numPoints, ErrMalformedGlyph)
	}
	w := otbin.NewWriter(10 + 2*len(g.Contours) + 2 + len(g.Instructions) + 5*numPoints)
	encodeHeader(w, len(g.Contours), g.Rect)
	end := -1
	for _, c := range g.Contours {
		end += len(c)
		w.U16(uint16(end))
	}
	w.U16(uint16(len(g.Instructions)))
	w.Write(g.Instructions)
	flags := make([]byte, 0, numPoints)
	xs := make([]byte, 0, 2*numPoints)
	ys := make([]byte, 0, 2*numPoints)
	var x, y int
	for _, c := range g.Contours {
		for _, p := range c {
			var f byte
			if p.OnCurve {
				f |= flagOnCurve
			}
			if len(flags) == 0 && g.Overlap {
				f |= flagOverlapSimpl
			}
			var err error
			if xs, f, err = encodeDelta(xs, f, p.X-x, flagXShort, flagXSame); err != nil {
				return nil, err
			}
			if ys, f, err = encodeDelta(ys, f, p.Y-y, flagYShort, flagYSame); err != nil {
				return nil, err
			}
			x, y = p.X, p.Y
			flags = append(flags, f)
		}
	}
	for i := 0; i < len(flags); {
		f := flags[i]
		j := i + 1
		for j < len(flags) && flags[j] == f && j-i <= 255 {
			j++
		}
		if run := j - i; run >= 3 {
			w.U8(f | flagRepeat)
			w.U8(byte(run - 1))
		} else {
			for k := i; k < j; k++ {
				w.U8(f)
			}
		}
		i = j
	}
	w.Write(xs)
	w.Write(ys)
	return w.Bytes(), nil
}

func encodeDelta(dst []byte, f byte, d int, short, same byte) ([]byte, byte, error) {
	switch {
	case d == 0:
		f |= same
	case d >= -255 && d <= 255:
		f |= short
		if d > 0 {
			f |= same
		} else {
			d = -d
		}
		dst = append(dst, byte(d))
	case d >= math.MinInt16 && d <= math.MaxInt16:
		dst = otbin.Append(dst, int16(d))
	default:
		return dst, f, fmt.Errorf("coordinate delta %d exceeds 16 bits: %w", d, ErrMalformedGlyph)
	}
	return dst, f, nil
}

func encodeComposite(g *CompositeGlyph) ([]byte, error) {
	if len(g.Components) == 0 {
		return nil, fmt.Errorf("composite glyph without components: %w", ErrMalformedGlyph)
	}
	if len(g.Instructions) > math.MaxUint16 {
		return nil, fmt.Errorf("%d bytes of instructions: %w", len(g.Instructions), ErrMalformedGlyph)
	}
	w := otbin.NewWriter(10 + 16*len(g.Components) + len(g.Instructions))
	encodeHeader(w, -1, g.Rect)
	haveInstr := len(g.Instructions) > 0
	last := len(g.Components) - 1
	for i, c := range g.Components {
		f := c.Flags &^ (structuralFlags | ArgsAreWords | WeHaveAScale | WeHaveAnXAndYScale | WeHaveATwoByTwo)
		if i < last {
			f |= MoreComponents
		} else if len(g.Instructions) > 0 {
			f |= WeHaveInstructions
		}
		haveInstr = haveInstr || f&WeHaveInstructions != 0
		if !c.PointMatching {
			f |= ArgsAreXYValues
		}
		words, err := argsFormat(c)
		if err != nil {
			return nil, err
		}
		if words {
			f |= ArgsAreWords
		}
		f |= scaleFormat(c)
		w.U16(uint16(f))
		w.U16(uint16(c.GlyphID))
		if words {
			w.U16(uint16(c.Arg1))
			w.U16(uint16(c.Arg2))
		} else {
			w.U8(uint8(c.Arg1))
			w.U8(uint8(c.Arg2))
		}
		t := c.Transform
		switch {
		case f&WeHaveAScale != 0:
			w.F2Dot14(t[0])
		case f&WeHaveAnXAndYScale != 0:
			w.F2Dot14(t[0])
			w.F2Dot14(t[3])
		case f&WeHaveATwoByTwo != 0:
			for _, s := range t {
				w.F2Dot14(s)
			}
		}
	}
	if haveInstr {
		w.U16(uint16(len(g.Instructions)))
		w.Write(g.Instructions)
	}
	return w.Bytes(), nil
}

// argsFormat decides whether the arguments of c are written as words.
func argsFormat(c Component) (bool, error) {
	lo8, hi8, lo16, hi16 := -128, 127, math.MinInt16, math.MaxInt16
	if c.PointMatching {
		lo8, hi8, lo16, hi16 = 0, 255, 0, math.MaxUint16
	}
	for _, a := range []int{c.Arg1, c.Arg2} {
		if a < lo16 || a > hi16 {
			return false, fmt.Errorf("component argument %d out of range: %w", a, ErrMalformedGlyph)
		}
	}
	fitsByte := c.Arg1 >= lo8 && c.Arg1 <= hi8 && c.Arg2 >= lo8 && c.Arg2 <= hi8
	return !fitsByte || c.Flags&ArgsAreWords != 0, nil
}

// scaleFormat selects the smallest transform format which is able to represent
// the transform of c, preferring the format c has been decoded with.
func scaleFormat(c Component) ComponentFlags {
	xx, s01, s10, yy := c.Transform[0], c.Transform[1], c.Transform[2], c.Transform[3]
	switch {
	case c.Flags&WeHaveATwoByTwo != 0 || s01 != 0 || s10 != 0:
		return WeHaveATwoByTwo
	case c.Flags&WeHaveAnXAndYScale != 0 || xx != yy:
		return WeHaveAnXAndYScale
	case c.Flags&WeHaveAScale != 0 || xx != Identity[0]:
		return WeHaveAScale
	}
	return 0
}
