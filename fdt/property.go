package fdt

import (
	"unicode/utf8"

	"github.com/joshuapare/fdtkit/internal/buf"
)

// Property is a borrowed view of one property. Typed accessors decode the
// raw value on every call and never cache.
type Property struct {
	name  string
	value []byte
	off   int // PROP token
}

// Name returns the property name from the strings block.
func (p Property) Name() string { return p.name }

// Value returns the raw value. The slice aliases the blob and must not be
// modified.
func (p Property) Value() []byte { return p.value }

// Len returns the value length in bytes.
func (p Property) Len() int { return len(p.value) }

// Offset returns the structure-block offset of the PROP token.
func (p Property) Offset() int { return p.off }

// IsEmpty reports whether the property has no value. Such properties act as
// booleans.
func (p Property) IsEmpty() bool { return len(p.value) == 0 }

// AsU32 decodes a 4-byte value. ok is false for any other length.
func (p Property) AsU32() (uint32, bool) {
	if len(p.value) != 4 {
		return 0, false
	}
	return buf.U32BE(p.value), true
}

// AsU64 decodes an 8-byte value. ok is false for any other length.
func (p Property) AsU64() (uint64, bool) {
	if len(p.value) != 8 {
		return 0, false
	}
	return buf.U64BE(p.value), true
}

// AsString returns the value without its trailing NUL. ok is false when the
// value is empty, does not end in NUL, or is not valid UTF-8. Embedded NULs
// of a string list are kept; use AsStrings to split them. The result
// aliases the blob.
func (p Property) AsString() (string, bool) {
	v := p.value
	if len(v) == 0 || v[len(v)-1] != 0 {
		return "", false
	}
	s := v[:len(v)-1]
	if !utf8.Valid(s) {
		return "", false
	}
	return bytesToString(s), true
}

// AsStrings iterates a NUL-separated string list such as "compatible".
func (p Property) AsStrings() StringIter {
	return StringIter{rest: p.value}
}

// NumCells returns the number of 32-bit cells in the value. ok is false when
// the length is not a multiple of four.
func (p Property) NumCells() (int, bool) {
	if len(p.value)%4 != 0 {
		return 0, false
	}
	return len(p.value) / 4, true
}

// Cell returns the i-th big-endian 32-bit cell.
func (p Property) Cell(i int) (uint32, bool) {
	if len(p.value)%4 != 0 {
		return 0, false
	}
	off, ok := buf.MulOverflowSafe(i, 4)
	if !ok {
		return 0, false
	}
	return buf.U32At(p.value, off)
}

// Reg iterates (address, size) pairs of a reg-style value whose fields are
// addressCells and sizeCells cells wide. Widths above two cells, or a value
// that is not a whole number of pairs, produce an iterator that fails on
// its first Next.
func (p Property) Reg(addressCells, sizeCells uint32) RegIter {
	return RegIter{rest: p.value, ac: addressCells, sc: sizeCells, off: p.off}
}

// StringIter iterates the entries of a string-list value.
type StringIter struct {
	rest []byte
	cur  string
	bad  bool
}

// Next advances to the next string. A final entry without a terminator, or
// one that is not valid UTF-8, ends the iteration and sets Valid to false.
func (it *StringIter) Next() bool {
	if len(it.rest) == 0 {
		return false
	}
	s, ok := buf.CString(it.rest, 0)
	if !ok || !utf8.Valid(s) {
		it.rest = nil
		it.bad = true
		return false
	}
	it.rest = it.rest[len(s)+1:]
	it.cur = bytesToString(s)
	return true
}

// String returns the current entry.
func (it *StringIter) String() string { return it.cur }

// Valid reports whether every entry visited so far was well formed.
func (it *StringIter) Valid() bool { return !it.bad }
