package otbin

import "golang.org/x/exp/constraints"

// Writer is an append-only buffer for big-endian font data.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with capacity for n bytes.
func NewWriter(n int) *Writer {
	return &Writer{buf: make([]byte, 0, n)}
}

// Bytes returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Write appends b. It never fails; the error return is for io.Writer compatibility.
func (w *Writer) Write(b []byte) (int, error) {
	w.buf = append(w.buf, b...)
	return len(b), nil
}

// Put appends the big-endian encoding of v.
func Put[T constraints.Integer](w *Writer, v T) {
	w.buf = Append(w.buf, v)
}

// U8 appends a uint8.
func (w *Writer) U8(v uint8) { w.buf = append(w.buf, v) }

// U16 appends a uint16.
func (w *Writer) U16(v uint16) { w.buf = Append(w.buf, v) }

// I16 appends an int16.
func (w *Writer) I16(v int16) { w.buf = Append(w.buf, v) }

// U24 appends the lower 24 bits of v.
func (w *Writer) U24(v uint32) { w.buf = AppendUint24(w.buf, v) }

// U32 appends a uint32.
func (w *Writer) U32(v uint32) { w.buf = Append(w.buf, v) }

// I32 appends an int32.
func (w *Writer) I32(v int32) { w.buf = Append(w.buf, v) }

// Fixed appends a 16.16 fixed-point number.
func (w *Writer) Fixed(v Fixed) { w.buf = Append(w.buf, v) }

// F2Dot14 appends a 2.14 fixed-point number.
func (w *Writer) F2Dot14(v F2Dot14) { w.buf = Append(w.buf, v) }

// Tag appends a tag.
func (w *Writer) Tag(v Tag) { w.buf = Append(w.buf, v) }

// Zeros appends n zero bytes.
func (w *Writer) Zeros(n int) {
	for ; n > 0; n-- {
		w.buf = append(w.buf, 0)
	}
}

// Align appends zero bytes until the length is a multiple of n.
func (w *Writer) Align(n int) {
	for len(w.buf)%n != 0 {
		w.buf = append(w.buf, 0)
	}
}

// PutU16At overwrites the uint16 at position pos.
func (w *Writer) PutU16At(pos int, v uint16) {
	PutU16(w.buf[pos:], v)
}

// PutU32At overwrites the uint32 at position pos.
func (w *Writer) PutU32At(pos int, v uint32) {
	PutU32(w.buf[pos:], v)
}
