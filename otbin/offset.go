package otbin

import "fmt"

// Link is a resolved offset: a raw offset value together with the base position it
// is relative to. A raw offset of 0 denotes an absent sub-table, which is a state
// distinct from an offset pointing to an empty sub-table.
//
// A Link does not hold a reference to its buffer, but remembers the buffer size it
// has been resolved against.
type Link struct {
	Name   string // name of the target, for error messages
	Base   int    // position the offset is relative to
	Offset uint32 // raw offset value
	Width  int    // offset width in bits: 16, 24 or 32
	size   int
}

// ResolveOffset16 reads a 16-bit offset at fieldPos of buf, relative to base.
func ResolveOffset16(buf []byte, fieldPos, base int, name string) (Link, error) {
	v, _, err := Decode[uint16](buf, fieldPos)
	if err != nil {
		return Link{}, fmt.Errorf("offset to %s: %w", name, err)
	}
	return Link{Name: name, Base: base, Offset: uint32(v), Width: 16, size: len(buf)}, nil
}

// ResolveOffset32 reads a 32-bit offset at fieldPos of buf, relative to base.
func ResolveOffset32(buf []byte, fieldPos, base int, name string) (Link, error) {
	v, _, err := Decode[uint32](buf, fieldPos)
	if err != nil {
		return Link{}, fmt.Errorf("offset to %s: %w", name, err)
	}
	return Link{Name: name, Base: base, Offset: v, Width: 32, size: len(buf)}, nil
}

// MakeLink creates a link for an offset value which has already been read.
func MakeLink(buf []byte, base int, offset uint32, width int, name string) Link {
	return Link{Name: name, Base: base, Offset: offset, Width: width, size: len(buf)}
}

// IsAbsent is true for a zero offset.
func (l Link) IsAbsent() bool {
	return l.Offset == 0
}

// Position returns the absolute position of the link target. The target has to
// lie strictly inside the buffer; otherwise, and for absent links, an error
// wrapping ErrMissingSubtable is returned.
func (l Link) Position() (int, error) {
	if l.IsAbsent() {
		return 0, fmt.Errorf("%s: offset is absent: %w", l.Name, ErrMissingSubtable)
	}
	pos := int64(l.Base) + int64(l.Offset)
	if l.Base < 0 || pos >= int64(l.size) {
		return 0, fmt.Errorf("%s: offset %d from %d outside of %d bytes: %w",
			l.Name, l.Offset, l.Base, l.size, ErrMissingSubtable)
	}
	return int(pos), nil
}

// Jump returns the bytes of buf starting at the link target.
func (l Link) Jump(buf []byte) ([]byte, error) {
	pos, err := l.checked(buf)
	if err != nil {
		return nil, err
	}
	return buf[pos:], nil
}

// JumpN returns exactly n bytes of buf starting at the link target. If fewer than
// n bytes are available, an error wrapping ErrTruncated is returned.
func (l Link) JumpN(buf []byte, n int) ([]byte, error) {
	pos, err := l.checked(buf)
	if err != nil {
		return nil, err
	}
	if !inBounds(pos, n, len(buf)) {
		return nil, truncated(l.Name, pos, n, len(buf)-pos)
	}
	return buf[pos : pos+n], nil
}

func (l Link) checked(buf []byte) (int, error) {
	if len(buf) != l.size {
		l.size = min(l.size, len(buf))
	}
	return l.Position()
}

func (l Link) String() string {
	if l.IsAbsent() {
		return fmt.Sprintf("Link(%s, absent)", l.Name)
	}
	return fmt.Sprintf("Link(%s, %d+%d)", l.Name, l.Base, l.Offset)
}
