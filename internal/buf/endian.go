// Package buf contains bounds-checked helpers for decoding big-endian fields
// out of borrowed byte regions. Nothing here copies or allocates.
package buf

import (
	"bytes"
	"encoding/binary"
)

// U32BE reads a big-endian uint32 from b. Returns 0 when b is too short.
func U32BE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// U64BE reads a big-endian uint64 from b. Returns 0 when b is too short.
func U64BE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// U32At reads a big-endian uint32 at off, reporting whether all four bytes
// were inside b.
func U32At(b []byte, off int) (uint32, bool) {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint32(s), true
}

// U64At reads a big-endian uint64 at off, reporting whether all eight bytes
// were inside b.
func U64At(b []byte, off int) (uint64, bool) {
	s, ok := Slice(b, off, 8)
	if !ok {
		return 0, false
	}
	return binary.BigEndian.Uint64(s), true
}

// CString returns the bytes from off up to (not including) the next NUL.
// ok is false when off is outside b or no NUL occurs before len(b).
func CString(b []byte, off int) ([]byte, bool) {
	if off < 0 || off >= len(b) {
		return nil, false
	}
	n := bytes.IndexByte(b[off:], 0)
	if n < 0 {
		return nil, false
	}
	return b[off : off+n : off+n], true
}
