package format

import "github.com/joshuapare/fdtkit/internal/buf"

// RsvMap is the memory reservation block: consecutive 16-byte big-endian
// (address, size) records ended by an all-zero record.
type RsvMap []byte

// Entry decodes record i. ok is false when the record does not fit in the
// block.
func (r RsvMap) Entry(i int) (addr, size uint64, ok bool) {
	if i < 0 {
		return 0, 0, false
	}
	off, mulOK := buf.MulOverflowSafe(i, ReservationSize)
	if !mulOK {
		return 0, 0, false
	}
	rec, ok := buf.Slice(r, off, ReservationSize)
	if !ok {
		return 0, 0, false
	}
	return buf.U64BE(rec), buf.U64BE(rec[8:]), true
}

// Count returns the number of records before the terminator. terminated
// reports whether the zero/zero record was found inside the block; when it
// was not, n counts every whole record that fits.
func (r RsvMap) Count() (n int, terminated bool) {
	for i := 0; ; i++ {
		addr, size, ok := r.Entry(i)
		if !ok {
			return i, false
		}
		if addr == 0 && size == 0 {
			return i, true
		}
	}
}
