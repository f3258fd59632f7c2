package fdt

import (
	"unsafe"

	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
	"go.uber.org/zap"
)

// Magic is the value of the first header word of every blob.
const Magic = format.Magic

// Header is the decoded blob header. All fields are host-order copies of
// the big-endian words at the start of the blob.
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

// Reservation is one entry of the memory reservation block: a physical
// range the operating system must not use.
type Reservation struct {
	Address uint64
	Size    uint64
}

// Tree is a validated blob. It is immutable and safe for concurrent use;
// independent traversals share nothing but the borrowed bytes.
type Tree struct {
	blob     format.Blob
	root     Node
	maxDepth int
	unmap    func() error
	closed   bool
}

// New validates blob and returns a tree that borrows it. The header, the
// three block ranges and the root node are checked here; everything else is
// decoded lazily as it is visited.
//
// Failures are *types.Error values that match the sentinels in pkg/types
// through errors.Is.
func New(blob []byte, opts ...Option) (*Tree, error) {
	t, err := newTree(blob, opts)
	if err != nil {
		Logger().Debug("fdt: construct failed",
			zap.Stringer("kind", types.KindOf(err)),
			zap.Error(err))
		return nil, err
	}
	return t, nil
}

func newTree(data []byte, opts []Option) (*Tree, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	b, err := format.Decode(data)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	if o.strictVersion && b.Header.LastCompVersion > format.CurrentVersion {
		return nil, &types.Error{
			Kind:   types.ErrKindUnsupportedVersion,
			Offset: format.LastCompVersionOffset,
			Msg:    "fdt: last_comp_version newer than supported",
		}
	}
	t := &Tree{blob: b, maxDepth: o.maxDepth}
	rootOff, err := b.Struct.SkipNops(0)
	if err != nil {
		return nil, wrapFormatErr(err)
	}
	root, err := t.nodeAt(rootOff)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// Header returns the decoded header.
func (t *Tree) Header() Header {
	return Header(t.blob.Header)
}

// Bytes returns the blob truncated to its declared total size.
func (t *Tree) Bytes() []byte {
	return t.blob.Data
}

// Root returns the root node. It was validated by New and cannot fail.
func (t *Tree) Root() Node {
	return t.root
}

// NodeAt returns the node whose BEGIN_NODE token sits at off, relative to
// the start of the structure block.
func (t *Tree) NodeAt(off int) (Node, error) {
	return t.nodeAt(off)
}

func (t *Tree) nodeAt(off int) (Node, error) {
	name, body, err := t.blob.Struct.NodeName(off)
	if err != nil {
		return Node{}, wrapFormatErr(err)
	}
	return Node{
		s:    t.blob.Struct,
		strs: t.blob.Strings,
		name: bytesToString(name),
		off:  off,
		body: body,
	}, nil
}

// Reservations iterates the memory reservation block in file order. The
// iteration stops at the zero/zero terminator or at the end of the block,
// whichever comes first.
func (t *Tree) Reservations() ReservationIter {
	return ReservationIter{rsv: t.blob.RsvMap, i: -1}
}

// AppendReservations appends every reservation to dst and returns the
// extended slice.
func (t *Tree) AppendReservations(dst []Reservation) []Reservation {
	it := t.Reservations()
	for it.Next() {
		dst = append(dst, it.Reservation())
	}
	return dst
}

// Walk returns a pre-order walker over the whole tree, bounded by the
// tree's configured depth limit.
func (t *Tree) Walk() Walker {
	return t.root.walker(make([]int, 0, t.maxDepth), t.maxDepth)
}

// MaxDepth reports the depth limit the tree was built with.
func (t *Tree) MaxDepth() int {
	return t.maxDepth
}

// Close releases the mapping behind a tree returned by Open. It is a no-op
// for trees built with New. Every view derived from the tree is invalid
// afterwards.
func (t *Tree) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.unmap != nil {
		return t.unmap()
	}
	return nil
}

// ReservationIter walks the memory reservation block.
type ReservationIter struct {
	rsv format.RsvMap
	i   int
	cur Reservation
}

// Next advances to the next reservation and reports whether there is one.
func (it *ReservationIter) Next() bool {
	if it.rsv == nil {
		return false
	}
	addr, size, ok := it.rsv.Entry(it.i + 1)
	if !ok || (addr == 0 && size == 0) {
		it.rsv = nil
		return false
	}
	it.i++
	it.cur = Reservation{Address: addr, Size: size}
	return true
}

// Reservation returns the current entry.
func (it *ReservationIter) Reservation() Reservation {
	return it.cur
}

// Index returns the position of the current entry in the block.
func (it *ReservationIter) Index() int {
	return it.i
}

// bytesToString aliases b as a string without copying. b must not change
// while the string is in use; blob bytes never do.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}
