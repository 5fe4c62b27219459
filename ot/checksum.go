package ot

import "github.com/npillmayer/fonttools/otbin"

// checksumMagic is the target value of the checksum of a complete font file.
const checksumMagic uint32 = 0xB1B0AFBA

// Checksum calculates the checksum of a table: the sum of its big-endian uint32
// words, with the last word zero-padded. Overflow is discarded.
func Checksum(b []byte) uint32 {
	var sum uint32
	n := len(b) &^ 3
	for i := 0; i < n; i += 4 {
		sum += otbin.U32(b[i:])
	}
	if n < len(b) {
		var last [4]byte
		copy(last[:], b[n:])
		sum += otbin.U32(last[:])
	}
	return sum
}

// headChecksum calculates the checksum of a head table as if its field
// checkSumAdjustment were zero.
func headChecksum(b []byte) uint32 {
	sum := Checksum(b)
	if len(b) >= 12 {
		sum -= otbin.U32(b[8:])
	}
	return sum
}

// tableChecksum calculates the directory checksum of table tag with data b.
func tableChecksum(tag Tag, b []byte) uint32 {
	if tag == TagHead {
		return headChecksum(b)
	}
	return Checksum(b)
}

// checksumAdjustment calculates the value of head.checkSumAdjustment for a font file
// with a zero checkSumAdjustment field.
func checksumAdjustment(file []byte) uint32 {
	return checksumMagic - Checksum(file)
}
