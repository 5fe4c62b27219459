package otbin

import (
	"fmt"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Reader is a cursor over font data. Every read advances the cursor; reads beyond
// the end of the data return an error wrapping ErrTruncated and leave the cursor
// unchanged.
type Reader struct {
	data []byte
	off  int
}

// NewReader creates a reader for b, positioned at 0.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

// Data returns the underlying byte slice.
func (r *Reader) Data() []byte {
	return r.data
}

// Offset returns the current position.
func (r *Reader) Offset() int {
	return r.off
}

// Seek sets the current position.
func (r *Reader) Seek(off int) error {
	if off < 0 || off > len(r.data) {
		return truncated("seek", off, 0, len(r.data)-off)
	}
	r.off = off
	return nil
}

// Remaining returns the number of bytes remaining.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int) error {
	if !inBounds(r.off, n, len(r.data)) {
		return truncated("skip", r.off, n, r.Remaining())
	}
	r.off += n
	return nil
}

// Bytes returns n bytes at the current position and advances. The bytes returned
// are a sub-slice of the reader's data.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if !inBounds(r.off, n, len(r.data)) {
		return nil, truncated("bytes", r.off, n, r.Remaining())
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Sub returns a reader for n bytes at the current position and advances.
func (r *Reader) Sub(n int) (*Reader, error) {
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	return NewReader(b), nil
}

// Read reads a value of an integer-kinded type T and advances.
func Read[T constraints.Integer](r *Reader) (T, error) {
	v, n, err := Decode[T](r.data, r.off)
	if err != nil {
		return v, err
	}
	r.off += n
	return v, nil
}

// ReadArray reads n consecutive values of type T and advances. The size of the
// array is checked against the remaining data before any allocation happens.
func ReadArray[T constraints.Integer](r *Reader, n int) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if n < 0 || n > r.Remaining()/size {
		return nil, truncated(fmt.Sprintf("array[%d]", n), r.off, n*size, r.Remaining())
	}
	arr := make([]T, n)
	for i := range arr {
		arr[i], _, _ = Decode[T](r.data, r.off)
		r.off += size
	}
	return arr, nil
}

// U8 reads a uint8 and advances.
func (r *Reader) U8() (uint8, error) { return Read[uint8](r) }

// I8 reads an int8 and advances.
func (r *Reader) I8() (int8, error) { return Read[int8](r) }

// U16 reads a uint16 and advances.
func (r *Reader) U16() (uint16, error) { return Read[uint16](r) }

// I16 reads an int16 and advances.
func (r *Reader) I16() (int16, error) { return Read[int16](r) }

// U24 reads a uint24 and advances.
func (r *Reader) U24() (uint32, error) {
	v, n, err := DecodeUint24(r.data, r.off)
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

// U32 reads a uint32 and advances.
func (r *Reader) U32() (uint32, error) { return Read[uint32](r) }

// I32 reads an int32 and advances.
func (r *Reader) I32() (int32, error) { return Read[int32](r) }

// Fixed reads a 16.16 fixed-point number and advances.
func (r *Reader) Fixed() (Fixed, error) { return Read[Fixed](r) }

// F2Dot14 reads a 2.14 fixed-point number and advances.
func (r *Reader) F2Dot14() (F2Dot14, error) { return Read[F2Dot14](r) }

// Tag reads a tag and advances.
func (r *Reader) Tag() (Tag, error) { return Read[Tag](r) }

// GlyphID reads a glyph ID and advances.
func (r *Reader) GlyphID() (GlyphID, error) { return Read[GlyphID](r) }

// DateTime reads a LONGDATETIME and advances.
func (r *Reader) DateTime() (LongDateTime, error) { return Read[LongDateTime](r) }
