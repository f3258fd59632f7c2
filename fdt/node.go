package fdt

import (
	"errors"
	"strings"

	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
)

// Node is a borrowed view of one node: its name and the position of its
// BEGIN_NODE token. The zero Node has no name and no body; iterating it
// yields nothing.
type Node struct {
	s    format.Structure
	strs format.Strings
	name string
	off  int // BEGIN_NODE token
	body int // first token after the padded name
}

// Name returns the full node name, including any unit address. The root is
// named "".
func (n Node) Name() string { return n.name }

// UnitName returns the part of the name before '@'.
func (n Node) UnitName() string {
	if i := strings.IndexByte(n.name, '@'); i >= 0 {
		return n.name[:i]
	}
	return n.name
}

// UnitAddress returns the part of the name after '@', or "".
func (n Node) UnitAddress() string {
	if i := strings.IndexByte(n.name, '@'); i >= 0 {
		return n.name[i+1:]
	}
	return ""
}

// Offset returns the structure-block offset of the node's BEGIN_NODE token.
// It is stable and can be passed back to Tree.NodeAt.
func (n Node) Offset() int { return n.off }

// Properties iterates the node's properties in file order.
func (n Node) Properties() PropertyIter {
	return PropertyIter{s: n.s, strs: n.strs, off: n.body}
}

// Children iterates the node's direct children in file order.
func (n Node) Children() ChildIter {
	return ChildIter{s: n.s, strs: n.strs, off: n.body, needSkip: true}
}

// Property returns the first property called name.
func (n Node) Property(name string) (Property, error) {
	it := n.Properties()
	for it.Next() {
		if p := it.Property(); p.name == name {
			return p, nil
		}
	}
	if err := it.Err(); err != nil {
		return Property{}, err
	}
	return Property{}, types.ErrNotFound
}

// Child returns the first direct child whose full name equals name.
func (n Node) Child(name string) (Node, error) {
	it := n.Children()
	for it.Next() {
		if c := it.Node(); c.name == name {
			return c, nil
		}
	}
	if err := it.Err(); err != nil {
		return Node{}, err
	}
	return Node{}, types.ErrNotFound
}

// Descendants walks the subtree rooted at n, n included, with the default
// depth limit.
func (n Node) Descendants() Walker {
	return n.walker(make([]int, 0, types.DefaultMaxDepth), types.DefaultMaxDepth)
}

// DescendantsWith walks the subtree rooted at n using stack as the walker's
// per-depth storage. The walk never grows stack, so the deepest node it
// yields is cap(stack) levels below n, and the walk does not allocate.
func (n Node) DescendantsWith(stack []int) Walker {
	return n.walker(stack[:0], cap(stack))
}

// AddressCells returns #address-cells, or 2 when the node does not set it.
func (n Node) AddressCells() (uint32, error) {
	return n.cells("#address-cells", 2)
}

// SizeCells returns #size-cells, or 1 when the node does not set it.
func (n Node) SizeCells() (uint32, error) {
	return n.cells("#size-cells", 1)
}

func (n Node) cells(name string, def uint32) (uint32, error) {
	p, err := n.Property(name)
	if errors.Is(err, types.ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return 0, err
	}
	v, ok := p.AsU32()
	if !ok {
		return 0, &types.Error{Kind: types.ErrKindMalformedToken, Offset: p.off, Msg: "fdt: " + name + " is not a single cell"}
	}
	return v, nil
}

// Phandle returns the node's phandle, read from "phandle" or the legacy
// "linux,phandle". A property that is not a single cell is passed over in
// favour of the other one. The error is types.ErrNotFound when neither
// yields a value, or the property iteration failure.
func (n Node) Phandle() (uint32, error) {
	it := n.Properties()
	for it.Next() {
		p := it.Property()
		if p.name != "phandle" && p.name != "linux,phandle" {
			continue
		}
		if ph, ok := p.AsU32(); ok {
			return ph, nil
		}
	}
	if err := it.Err(); err != nil {
		return 0, err
	}
	return 0, types.ErrNotFound
}
