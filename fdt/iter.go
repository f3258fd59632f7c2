package fdt

import (
	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// PropertyIter yields a node's properties in file order. It stops at the
// first token that is neither PROP nor NOP; that is the ordinary end of the
// property run. Err is non-nil only when a record failed to decode.
type PropertyIter struct {
	s    format.Structure
	strs format.Strings
	off  int
	cur  Property
	err  error
	done bool
}

// Next advances to the next property.
func (it *PropertyIter) Next() bool {
	if it.done || it.s == nil {
		return false
	}
	for {
		tok, ok := it.s.Token(it.off)
		if !ok {
			return it.fail(tokenBoundsErr(it.off))
		}
		switch tok {
		case format.TokenNop:
			it.off += format.TokenSize
		case format.TokenProp:
			rec, err := it.s.Prop(it.off)
			if err != nil {
				return it.fail(wrapFormatErr(err))
			}
			name, err := it.strs.Lookup(rec.NameOff)
			if err != nil {
				return it.fail(wrapFormatErr(err))
			}
			it.cur = Property{name: bytesToString(name), value: rec.Value, off: rec.Offset}
			it.off = rec.Next
			return true
		case format.TokenBeginNode, format.TokenEndNode, format.TokenEnd:
			it.done = true
			return false
		default:
			return it.fail(badTokenErr(it.off, tok))
		}
	}
}

// Property returns the current property.
func (it *PropertyIter) Property() Property { return it.cur }

// Err returns the decode error that stopped the iteration, or nil after a
// normal end.
func (it *PropertyIter) Err() error { return it.err }

func (it *PropertyIter) fail(err error) bool {
	it.err = err
	it.done = true
	return false
}

// ChildIter yields a node's direct children in file order. Each step
// decodes the child's name and then skips its whole subtree, so the cost of
// a full pass is linear in the size of the node.
type ChildIter struct {
	s        format.Structure
	strs     format.Strings
	off      int
	needSkip bool
	cur      Node
	err      error
	done     bool
}

// Next advances to the next child.
func (it *ChildIter) Next() bool {
	if it.done || it.s == nil {
		return false
	}
	if it.needSkip {
		it.needSkip = false
		off, err := it.s.SkipProps(it.off)
		if err != nil {
			return it.fail(wrapFormatErr(err))
		}
		it.off = off
	}
	for {
		tok, ok := it.s.Token(it.off)
		if !ok {
			return it.fail(tokenBoundsErr(it.off))
		}
		switch tok {
		case format.TokenNop:
			it.off += format.TokenSize
		case format.TokenBeginNode:
			name, body, err := it.s.NodeName(it.off)
			if err != nil {
				return it.fail(wrapFormatErr(err))
			}
			next, err := it.s.SkipNode(it.off)
			if err != nil {
				return it.fail(wrapFormatErr(err))
			}
			it.cur = Node{s: it.s, strs: it.strs, name: bytesToString(name), off: it.off, body: body}
			it.off = next
			return true
		case format.TokenEndNode, format.TokenEnd, format.TokenProp:
			it.done = true
			return false
		default:
			return it.fail(badTokenErr(it.off, tok))
		}
	}
}

// Node returns the current child.
func (it *ChildIter) Node() Node { return it.cur }

// Err returns the decode error that stopped the iteration, or nil after a
// normal end.
func (it *ChildIter) Err() error { return it.err }

func (it *ChildIter) fail(err error) bool {
	it.err = err
	it.done = true
	return false
}

func tokenBoundsErr(off int) error {
	return structErr(types.ErrKindOffsetOutOfBounds, off, "fdt: token beyond structure block")
}

func badTokenErr(off int, tok format.Token) error {
	if tok.String() == "UNKNOWN" {
		return structErr(types.ErrKindMalformedToken, off, "fdt: unknown token")
	}
	return structErr(types.ErrKindMalformedToken, off, "fdt: unexpected "+tok.String()+" token")
}
