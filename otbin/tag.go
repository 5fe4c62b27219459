package otbin

// Tag is defined by the OpenType spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline.
//
// Tags are case-sensitive. Tag names with less than four letters are padded on the
// right with spaces, e.g. "cvt ".
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
//
//	MakeTag([]byte("cmap"))
//
// If b is shorter, it will be padded with spaces; if it is longer, it will be cut.
func MakeTag(b []byte) Tag {
	var t [4]byte
	for i := range t {
		if i < len(b) {
			t[i] = b[i]
		} else {
			t[i] = ' '
		}
	}
	return Tag(uint32(t[0])<<24 | uint32(t[1])<<16 | uint32(t[2])<<8 | uint32(t[3]))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended by spaces or cut.
func T(t string) Tag {
	return MakeTag([]byte(t))
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

// IsValid checks that a tag consists of printable ASCII characters, with spaces
// allowed as trailing padding only.
func (t Tag) IsValid() bool {
	s := t.String()
	padding := false
	for i := 0; i < 4; i++ {
		c := s[i]
		if c == ' ' {
			if i == 0 {
				return false
			}
			padding = true
			continue
		}
		if padding || c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}

// GlyphID is a glyph index in a font.
type GlyphID uint16
