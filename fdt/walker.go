package fdt

import (
	"github.com/joshuapare/fdtkit/internal/format"
	"github.com/joshuapare/fdtkit/pkg/types"
	"go.uber.org/zap"
)

// Walker visits every node of a subtree exactly once, parents before their
// children and siblings in file order.
//
// The walk reads the structure block front to back. An explicit stack holds
// one cursor per open node, so nesting depth is bounded by the configured
// limit rather than by the goroutine stack. A node deeper than the limit
// stops the walk with types.ErrDepthExceeded.
//
// Unlike the per-node iterators, the walker is strict about structure: a
// PROP after a child, an END inside an open node, or an unknown token stops
// it with types.ErrMalformedToken.
type Walker struct {
	s     format.Structure
	strs  format.Strings
	root  Node
	stack []int // per open node: offset of the next token in its child list
	limit int

	cur     Node
	depth   int
	pending bool // cur was yielded and its children are not yet entered
	skip    bool
	started bool
	done    bool
	err     error
}

func (n Node) walker(stack []int, limit int) Walker {
	return Walker{s: n.s, strs: n.strs, root: n, stack: stack, limit: limit}
}

// Next advances to the next node in pre-order.
func (w *Walker) Next() bool {
	if w.done {
		return false
	}
	if !w.started {
		w.started = true
		if w.s == nil {
			w.done = true
			return false
		}
		w.cur, w.depth, w.pending = w.root, 0, true
		return true
	}
	if w.pending {
		w.pending = false
		if !w.enter() {
			return false
		}
	}
	return w.advance()
}

// Node returns the current node.
func (w *Walker) Node() Node { return w.cur }

// Depth returns the depth of the current node below the walk's root, which
// is at depth 0.
func (w *Walker) Depth() int { return w.depth }

// Err returns the error that stopped the walk, or nil after a normal end.
func (w *Walker) Err() error { return w.err }

// SkipChildren makes the next call to Next move past the current node's
// subtree instead of descending into it.
func (w *Walker) SkipChildren() {
	if w.pending {
		w.skip = true
	}
}

// enter opens the current node's child list, or steps over it when the
// caller skipped it or its children would exceed the depth limit.
func (w *Walker) enter() bool {
	n := w.cur
	if w.skip {
		w.skip = false
		return w.leave(n)
	}
	off, err := w.s.SkipProps(n.body)
	if err != nil {
		return w.fail(wrapFormatErr(err))
	}
	if w.depth >= w.limit {
		if w.hasChild(off) {
			Logger().Warn("fdt: walk depth limit reached",
				zap.Int("limit", w.limit),
				zap.Int("offset", n.off))
			return w.fail(&types.Error{Kind: types.ErrKindDepthExceeded, Offset: n.off, Msg: "fdt: node nested too deeply"})
		}
		return w.leave(n)
	}
	w.stack = append(w.stack, off)
	return true
}

// leave moves the parent's cursor past n without visiting n's children.
func (w *Walker) leave(n Node) bool {
	if len(w.stack) == 0 {
		w.done = true
		return false
	}
	next, err := w.s.SkipNode(n.off)
	if err != nil {
		return w.fail(wrapFormatErr(err))
	}
	w.stack[len(w.stack)-1] = next
	return true
}

func (w *Walker) hasChild(off int) bool {
	for {
		tok, ok := w.s.Token(off)
		if !ok || tok != format.TokenNop {
			return ok && tok == format.TokenBeginNode
		}
		off += format.TokenSize
	}
}

// advance scans the innermost open child list for the next node, closing
// finished nodes on the way.
func (w *Walker) advance() bool {
	for len(w.stack) > 0 {
		top := len(w.stack) - 1
		off := w.stack[top]
		tok, ok := w.s.Token(off)
		if !ok {
			return w.fail(tokenBoundsErr(off))
		}
		switch tok {
		case format.TokenNop:
			w.stack[top] = off + format.TokenSize
		case format.TokenBeginNode:
			name, body, err := w.s.NodeName(off)
			if err != nil {
				return w.fail(wrapFormatErr(err))
			}
			w.cur = Node{s: w.s, strs: w.strs, name: bytesToString(name), off: off, body: body}
			w.depth = top + 1
			w.pending = true
			return true
		case format.TokenEndNode:
			w.stack = w.stack[:top]
			if top > 0 {
				// The parent's cursor still points at this node's BEGIN_NODE.
				w.stack[top-1] = off + format.TokenSize
			}
		default:
			return w.fail(badTokenErr(off, tok))
		}
	}
	w.done = true
	return false
}

func (w *Walker) fail(err error) bool {
	w.err = err
	w.done = true
	w.pending = false
	return false
}
