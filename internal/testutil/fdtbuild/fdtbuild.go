// Package fdtbuild assembles device tree blobs for tests. It writes the wire
// format directly and shares no code with the decoder, so tests built on it
// check the decoder against an independent encoding.
package fdtbuild

import (
	"bytes"
	"encoding/binary"
)

// Wire constants, duplicated on purpose.
const (
	Magic      = 0xD00DFEED
	HeaderSize = 0x28

	BeginNode = 0x1
	EndNode   = 0x2
	Prop      = 0x3
	Nop       = 0x4
	End       = 0x9
)

// Builder accumulates a structure block, a strings table and a reservation
// list. Methods return the builder for chaining.
type Builder struct {
	Version         uint32
	LastCompVersion uint32
	BootCPUIDPhys   uint32

	rsv       [][2]uint64
	st        bytes.Buffer
	strs      bytes.Buffer
	strOff    map[string]uint32
	ended     bool
	noEnd     bool
	noRsvTerm bool
}

// New returns a builder producing version 17 blobs.
func New() *Builder {
	return &Builder{
		Version:         17,
		LastCompVersion: 16,
		strOff:          make(map[string]uint32),
	}
}

// Reserve appends a memory reservation record.
func (b *Builder) Reserve(addr, size uint64) *Builder {
	b.rsv = append(b.rsv, [2]uint64{addr, size})
	return b
}

// WithoutEnd suppresses the automatic END token.
func (b *Builder) WithoutEnd() *Builder {
	b.noEnd = true
	return b
}

// WithoutReservationTerminator drops the zero/zero record.
func (b *Builder) WithoutReservationTerminator() *Builder {
	b.noRsvTerm = true
	return b
}

// BeginNode emits BEGIN_NODE, the name, its NUL and padding.
func (b *Builder) BeginNode(name string) *Builder {
	b.u32(BeginNode)
	b.st.WriteString(name)
	b.st.WriteByte(0)
	b.pad()
	return b
}

// EndNode emits END_NODE.
func (b *Builder) EndNode() *Builder {
	b.u32(EndNode)
	return b
}

// Nop emits a NOP token.
func (b *Builder) Nop() *Builder {
	b.u32(Nop)
	return b
}

// End emits the END token.
func (b *Builder) End() *Builder {
	b.u32(End)
	b.ended = true
	return b
}

// Token emits an arbitrary 32-bit word.
func (b *Builder) Token(v uint32) *Builder {
	b.u32(v)
	return b
}

// Raw appends bytes to the structure block without padding.
func (b *Builder) Raw(p []byte) *Builder {
	b.st.Write(p)
	return b
}

// Prop emits a property with the given value.
func (b *Builder) Prop(name string, value []byte) *Builder {
	return b.PropRaw(b.StringOffset(name), uint32(len(value)), value)
}

// PropRaw emits a PROP record with an explicit name offset and declared
// length; value is written as given and padded.
func (b *Builder) PropRaw(nameOff, length uint32, value []byte) *Builder {
	b.u32(Prop)
	b.u32(length)
	b.u32(nameOff)
	b.st.Write(value)
	b.pad()
	return b
}

// PropEmpty emits a zero-length property.
func (b *Builder) PropEmpty(name string) *Builder {
	return b.Prop(name, nil)
}

// PropU32 emits a property of big-endian cells.
func (b *Builder) PropU32(name string, cells ...uint32) *Builder {
	v := make([]byte, 4*len(cells))
	for i, c := range cells {
		binary.BigEndian.PutUint32(v[4*i:], c)
	}
	return b.Prop(name, v)
}

// PropU64 emits an 8-byte big-endian property.
func (b *Builder) PropU64(name string, x uint64) *Builder {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, x)
	return b.Prop(name, v)
}

// PropString emits a NUL-separated string list.
func (b *Builder) PropString(name string, ss ...string) *Builder {
	var v []byte
	for _, s := range ss {
		v = append(v, s...)
		v = append(v, 0)
	}
	return b.Prop(name, v)
}

// StringOffset interns name in the strings table.
func (b *Builder) StringOffset(name string) uint32 {
	if off, ok := b.strOff[name]; ok {
		return off
	}
	off := uint32(b.strs.Len())
	b.strs.WriteString(name)
	b.strs.WriteByte(0)
	b.strOff[name] = off
	return off
}

// RawString appends bytes to the strings table as-is and returns their
// offset.
func (b *Builder) RawString(p []byte) uint32 {
	off := uint32(b.strs.Len())
	b.strs.Write(p)
	return off
}

// StructLen is the current structure block length.
func (b *Builder) StructLen() int { return b.st.Len() }

// Layout describes where Bytes placed each block.
type Layout struct {
	RsvMap, Struct, Strings int
	StructSize, StringsSize int
	TotalSize               int
}

// Bytes assembles the blob: header, reservation block (8-aligned),
// structure block, strings block.
func (b *Builder) Bytes() []byte {
	blob, _ := b.Build()
	return blob
}

// Build assembles the blob and reports its layout.
func (b *Builder) Build() ([]byte, Layout) {
	st := append([]byte(nil), b.st.Bytes()...)
	if !b.ended && !b.noEnd {
		st = binary.BigEndian.AppendUint32(st, End)
	}

	var l Layout
	l.RsvMap = HeaderSize
	nrsv := len(b.rsv)
	if !b.noRsvTerm {
		nrsv++
	}
	l.Struct = l.RsvMap + 16*nrsv
	l.StructSize = len(st)
	l.Strings = l.Struct + l.StructSize
	l.StringsSize = b.strs.Len()
	l.TotalSize = l.Strings + l.StringsSize

	out := make([]byte, 0, l.TotalSize)
	for _, v := range []uint32{
		Magic,
		uint32(l.TotalSize),
		uint32(l.Struct),
		uint32(l.Strings),
		uint32(l.RsvMap),
		b.Version,
		b.LastCompVersion,
		b.BootCPUIDPhys,
		uint32(l.StringsSize),
		uint32(l.StructSize),
	} {
		out = binary.BigEndian.AppendUint32(out, v)
	}
	for _, r := range b.rsv {
		out = binary.BigEndian.AppendUint64(out, r[0])
		out = binary.BigEndian.AppendUint64(out, r[1])
	}
	if !b.noRsvTerm {
		out = append(out, make([]byte, 16)...)
	}
	out = append(out, st...)
	out = append(out, b.strs.Bytes()...)
	return out, l
}

// Node is a declarative tree used by Tree.
type Node struct {
	Name     string
	Props    []NodeProp
	Children []*Node
}

// NodeProp is a property of a declarative Node.
type NodeProp struct {
	Name  string
	Value []byte
}

// Tree emits n and its subtree in pre-order.
func (b *Builder) Tree(n *Node) *Builder {
	b.BeginNode(n.Name)
	for _, p := range n.Props {
		b.Prop(p.Name, p.Value)
	}
	for _, c := range n.Children {
		b.Tree(c)
	}
	return b.EndNode()
}

// Count returns the number of nodes in n's subtree, n included.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Empty returns the smallest valid blob: an unnamed root with nothing in it.
func Empty() []byte {
	return New().BeginNode("").EndNode().Bytes()
}

func (b *Builder) u32(v uint32) {
	var w [4]byte
	binary.BigEndian.PutUint32(w[:], v)
	b.st.Write(w[:])
}

func (b *Builder) pad() {
	for b.st.Len()%4 != 0 {
		b.st.WriteByte(0)
	}
}
