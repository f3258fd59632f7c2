package fdt

import (
	"github.com/joshuapare/fdtkit/internal/buf"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// RegIter decodes (address, size) pairs.
type RegIter struct {
	rest     []byte
	ac, sc   uint32
	off      int
	addr, sz uint64
	err      error
}

// Next advances to the next pair.
func (it *RegIter) Next() bool {
	if it.err != nil || len(it.rest) == 0 {
		return false
	}
	if it.ac > 2 || it.sc > 2 || it.ac+it.sc == 0 {
		it.err = &types.Error{Kind: types.ErrKindMalformedToken, Offset: it.off, Msg: "fdt: unsupported reg cell width"}
		return false
	}
	width := int(it.ac+it.sc) * 4
	if len(it.rest)%width != 0 {
		it.err = &types.Error{Kind: types.ErrKindMalformedToken, Offset: it.off, Msg: "fdt: reg value is not a whole number of entries"}
		return false
	}
	it.addr = readCells(it.rest, it.ac)
	it.sz = readCells(it.rest[it.ac*4:], it.sc)
	it.rest = it.rest[width:]
	return true
}

// Address returns the current address.
func (it *RegIter) Address() uint64 { return it.addr }

// Size returns the current size. It is 0 when the size width is 0.
func (it *RegIter) Size() uint64 { return it.sz }

// Err reports why iteration stopped early, if it did.
func (it *RegIter) Err() error { return it.err }

func readCells(b []byte, n uint32) uint64 {
	switch n {
	case 1:
		return uint64(buf.U32BE(b))
	case 2:
		return buf.U64BE(b)
	}
	return 0
}
