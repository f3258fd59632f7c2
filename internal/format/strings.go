package format

import (
	"unicode/utf8"

	"github.com/joshuapare/fdtkit/internal/buf"
)

// Strings is the strings block: NUL-terminated property names referenced by
// byte offset from PROP records.
type Strings []byte

// Lookup returns the name starting at off, without its terminator. The
// returned slice aliases the block.
func (s Strings) Lookup(off uint32) ([]byte, error) {
	if uint64(off) >= uint64(len(s)) {
		return nil, fail("strings lookup", int(off), ErrBounds)
	}
	name, ok := buf.CString(s, int(off))
	if !ok {
		return nil, fail("strings lookup", int(off), ErrUnterminated)
	}
	if !utf8.Valid(name) {
		return nil, fail("strings lookup", int(off), ErrEncoding)
	}
	return name, nil
}
