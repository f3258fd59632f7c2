package format

import (
	"github.com/joshuapare/fdtkit/internal/buf"
)

// Header is the decoded fixed-size blob header. Fields are decoded one by
// one from big-endian words; the struct has no wire layout of its own.
type Header struct {
	Magic           uint32
	TotalSize       uint32
	OffDtStruct     uint32
	OffDtStrings    uint32
	OffMemRsvmap    uint32
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32
	SizeDtStrings   uint32
	SizeDtStruct    uint32
}

// ParseHeader checks the magic and total size and decodes every header
// field. It does not look at the blocks the header points to.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fail("header", len(b), ErrTruncated)
	}
	h := Header{
		Magic:           buf.U32BE(b[MagicOffset:]),
		TotalSize:       buf.U32BE(b[TotalSizeOffset:]),
		OffDtStruct:     buf.U32BE(b[OffDtStructOffset:]),
		OffDtStrings:    buf.U32BE(b[OffDtStringsOffset:]),
		OffMemRsvmap:    buf.U32BE(b[OffMemRsvmapOffset:]),
		Version:         buf.U32BE(b[VersionOffset:]),
		LastCompVersion: buf.U32BE(b[LastCompVersionOffset:]),
		BootCPUIDPhys:   buf.U32BE(b[BootCPUIDPhysOffset:]),
		SizeDtStrings:   buf.U32BE(b[SizeDtStringsOffset:]),
		SizeDtStruct:    buf.U32BE(b[SizeDtStructOffset:]),
	}
	if h.Magic != Magic {
		return Header{}, fail("header magic", MagicOffset, ErrBadMagic)
	}
	if h.TotalSize == 0 {
		return Header{}, fail("header totalsize", TotalSizeOffset, ErrEmpty)
	}
	return h, nil
}

// Blob is a validated blob: the header plus the three blocks it declares,
// each a sub-slice of the caller's buffer.
type Blob struct {
	Header  Header
	Data    []byte // data[:totalsize]
	Struct  Structure
	Strings Strings
	RsvMap  RsvMap
}

// Decode validates the header and derives the structure, strings and
// reservation blocks. Every block must fit inside both the declared total
// size and the supplied buffer.
func Decode(b []byte) (Blob, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return Blob{}, err
	}
	if uint64(h.TotalSize) > uint64(len(b)) {
		return Blob{}, fail("header totalsize", TotalSizeOffset, ErrBounds)
	}
	data := b[:h.TotalSize:h.TotalSize]
	limit := len(data)

	structSize := h.SizeDtStruct
	if h.Version < structSizeVersion && structSize == 0 && h.OffDtStruct <= h.TotalSize {
		// Pre-17 headers carry no structure size; the block runs to the end.
		structSize = h.TotalSize - h.OffDtStruct
	}
	if uint64(h.OffDtStruct) > uint64(limit) {
		return Blob{}, fail("structure block", OffDtStructOffset, ErrBounds)
	}
	sStart, sEnd, ok := buf.Span(h.OffDtStruct, structSize, limit)
	if !ok {
		return Blob{}, fail("structure block", SizeDtStructOffset, ErrBounds)
	}
	if uint64(h.OffDtStrings) > uint64(limit) {
		return Blob{}, fail("strings block", OffDtStringsOffset, ErrBounds)
	}
	tStart, tEnd, ok := buf.Span(h.OffDtStrings, h.SizeDtStrings, limit)
	if !ok {
		return Blob{}, fail("strings block", SizeDtStringsOffset, ErrBounds)
	}
	if uint64(h.OffMemRsvmap) > uint64(limit) {
		return Blob{}, fail("reservation block", OffMemRsvmapOffset, ErrBounds)
	}
	rStart := int(h.OffMemRsvmap)
	rEnd := rsvmapEnd(h, limit)

	return Blob{
		Header:  h,
		Data:    data,
		Struct:  Structure(data[sStart:sEnd:sEnd]),
		Strings: Strings(data[tStart:tEnd:tEnd]),
		RsvMap:  RsvMap(data[rStart:rEnd:rEnd]),
	}, nil
}

// rsvmapEnd bounds the reservation block, which has no size field, by the
// nearest block that starts after it, or by the end of the blob.
func rsvmapEnd(h Header, limit int) int {
	end := limit
	for _, off := range [...]uint32{h.OffDtStruct, h.OffDtStrings} {
		if off > h.OffMemRsvmap && int(off) < end {
			end = int(off)
		}
	}
	return end
}
