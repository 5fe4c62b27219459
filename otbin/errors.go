package otbin

import (
	"errors"
	"fmt"
)

// Error kinds of the binary layer. Errors returned from this package wrap one of these,
// and clients should test with errors.Is.
var (
	// ErrTruncated flags a buffer shorter than a field or record requires.
	ErrTruncated = errors.New("truncated font data")
	// ErrMissingSubtable flags an offset which is absent but dereferenced, or which
	// points outside of the buffer.
	ErrMissingSubtable = errors.New("missing sub-table")
	// ErrOffsetOverflow flags an offset which does not fit into its field on write.
	ErrOffsetOverflow = errors.New("offset overflow")
	// ErrUnresolvedOffset flags a link to a sub-table which has never been serialized.
	ErrUnresolvedOffset = errors.New("unresolved offset")
)

func truncated(what string, pos, need, have int) error {
	if have < 0 {
		have = 0
	}
	return fmt.Errorf("%s at %d: need %d bytes, have %d: %w", what, pos, need, have, ErrTruncated)
}

// inBounds checks that n bytes at pos fit into a buffer of size size, guarding
// against integer overflow.
func inBounds(pos, n, size int) bool {
	return pos >= 0 && n >= 0 && pos <= size && n <= size-pos
}
