package otbin

import (
	"math"
	"strconv"
	"time"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Decode reads a big-endian value of an integer-kinded type T at position pos of b.
// It returns the value and the number of bytes consumed. Types with an underlying
// integer type, e.g. Fixed, F2Dot14, Tag or GlyphID, are decoded by their bit pattern.
func Decode[T constraints.Integer](b []byte, pos int) (T, int, error) {
	var v T
	n := int(unsafe.Sizeof(v))
	if !inBounds(pos, n, len(b)) {
		return v, 0, truncated("scalar", pos, n, len(b)-pos)
	}
	var u uint64
	for _, c := range b[pos : pos+n] {
		u = u<<8 | uint64(c)
	}
	return T(u), n, nil
}

// Append appends the big-endian encoding of v to dst.
func Append[T constraints.Integer](dst []byte, v T) []byte {
	n := int(unsafe.Sizeof(v))
	u := uint64(v)
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(u>>(8*i)))
	}
	return dst
}

// DecodeUint24 reads a 24-bit unsigned integer at position pos of b.
func DecodeUint24(b []byte, pos int) (uint32, int, error) {
	if !inBounds(pos, 3, len(b)) {
		return 0, 0, truncated("uint24", pos, 3, len(b)-pos)
	}
	return uint32(b[pos])<<16 | uint32(b[pos+1])<<8 | uint32(b[pos+2]), 3, nil
}

// AppendUint24 appends the lower 24 bits of v to dst.
func AppendUint24(dst []byte, v uint32) []byte {
	return append(dst, byte(v>>16), byte(v>>8), byte(v))
}

// U16 decodes a uint16 from the first two bytes of b. b must be long enough.
func U16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])
}

// U32 decodes a uint32 from the first four bytes of b. b must be long enough.
func U32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// PutU16 writes v into the first two bytes of b.
func PutU16(b []byte, v uint16) {
	_ = b[1]
	b[0], b[1] = byte(v>>8), byte(v)
}

// PutU32 writes v into the first four bytes of b.
func PutU32(b []byte, v uint32) {
	_ = b[3]
	b[0], b[1], b[2], b[3] = byte(v>>24), byte(v>>16), byte(v>>8), byte(v)
}

// --- Fixed point numbers ---------------------------------------------------

// Fixed is a 32-bit signed fixed-point number (16.16).
//
// A Fixed keeps its bit pattern, so values which are decoded and never changed
// re-encode to identical bytes. Values constructed from floats with FixedFrom are
// quantized to the nearest representable value, with ties rounded away from zero.
type Fixed int32

// FixedFrom quantizes f to the nearest Fixed. Values out of range are clamped.
func FixedFrom(f float64) Fixed {
	return Fixed(clampRound(f*65536, math.MinInt32, math.MaxInt32))
}

// Float returns f as a float64. The conversion is exact.
func (f Fixed) Float() float64 {
	return float64(f) / 65536
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'g', -1, 64)
}

// F2Dot14 is a 16-bit signed fixed-point number with the low 14 bits of fraction
// (2.14), covering [-2.0 … 1.99993896484375].
//
// Like Fixed, an F2Dot14 keeps its bit pattern. F2Dot14From quantizes to the
// nearest representable value, ties rounded away from zero, clamped to the range.
type F2Dot14 int16

// F2Dot14From quantizes f to the nearest F2Dot14.
func F2Dot14From(f float64) F2Dot14 {
	return F2Dot14(clampRound(f*16384, math.MinInt16, math.MaxInt16))
}

// Float returns f as a float64. The conversion is exact.
func (f F2Dot14) Float() float64 {
	return float64(f) / 16384
}

func (f F2Dot14) String() string {
	return strconv.FormatFloat(f.Float(), 'g', -1, 64)
}

func clampRound(v float64, lo, hi int64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v) // half away from zero
	if r < float64(lo) {
		return lo
	}
	if r > float64(hi) {
		return hi
	}
	return int64(r)
}

// Version16Dot16 is a packed version number, as used by tables 'maxp' and 'post'.
// The upper 16 bits hold the major version, the lower 16 bits the minor version,
// e.g. 0x00025000 is version 2.5.
type Version16Dot16 uint32

// Major returns the major part of a version.
func (v Version16Dot16) Major() uint16 {
	return uint16(v >> 16)
}

// Minor returns the minor part of a version (0x5000 for x.5).
func (v Version16Dot16) Minor() uint16 {
	return uint16(v)
}

func (v Version16Dot16) String() string {
	minor := ""
	switch m := v.Minor(); m {
	case 0:
	case 0x5000:
		minor = ".5"
	default:
		minor = ".0x" + strconv.FormatUint(uint64(m), 16)
	}
	return strconv.Itoa(int(v.Major())) + minor
}

// --- Date and time ---------------------------------------------------------

// secondsFrom1904To1970 is the distance of the OpenType epoch to the Unix epoch.
const secondsFrom1904To1970 = 2082844800

// LongDateTime is the OpenType LONGDATETIME: seconds since 12:00 midnight,
// January 1, 1904, UTC.
type LongDateTime int64

// DateTimeFrom converts a time.Time to a LongDateTime, truncating to seconds.
func DateTimeFrom(t time.Time) LongDateTime {
	return LongDateTime(t.Unix() + secondsFrom1904To1970)
}

// Time returns d as a time in UTC.
func (d LongDateTime) Time() time.Time {
	return time.Unix(int64(d)-secondsFrom1904To1970, 0).UTC()
}

func (d LongDateTime) String() string {
	return d.Time().Format(time.RFC3339)
}
